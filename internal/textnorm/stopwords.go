package textnorm

// frenchStopwords is the default stop-word set. Beyond the usual determiners
// and conjunctions it drops recruiting boilerplate ("h/f", seniority labels)
// that would otherwise dominate lemma frequencies.
var frenchStopwords = []string{
	"le", "la", "les", "un", "une", "des", "de", "du", "au", "aux",
	"et", "ou", "pour", "avec", "sans", "sur", "sous", "dans", "par",
	"en", "a", "se", "ne", "pas", "afin", "chez", "vers", "entre",
	"ce", "cette", "ces", "son", "sa", "ses", "mon", "ma", "mes",
	"ton", "ta", "tes", "notre", "votre", "leur", "leurs", "vos", "nos",
	"qui", "que", "quoi", "dont", "où", "mais", "donc", "car",
	"est", "sont", "être", "avoir", "nous", "vous", "ils", "elles",
	"plus", "très", "tout", "tous", "toute", "toutes", "comme", "ainsi",
	"junior", "senior", "confirmé", "confirme", "expérimenté", "experimente",
	"indépendant", "independant", "adjoint", "multi", "sites",
	"h/f", "f/h", "hf", "fh", "h-f", "f-h",
}
