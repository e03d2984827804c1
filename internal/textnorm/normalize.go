// Package textnorm provides deterministic text normalization for French job
// posting descriptions: encoding repair, HTML stripping, diacritic folding,
// stop-word removal and lemmatization.
package textnorm

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Config controls the normalization pipeline. Zero values fall back to the
// French defaults.
type Config struct {
	// Stopwords replaces the default French stop-word set when non-empty.
	Stopwords []string
	// MinTokenLength drops lemmas shorter than this. Defaults to 1 so that
	// single-letter skill names ("r", "c") survive.
	MinTokenLength int
}

// Normalizer turns raw posting text into a cleaned string plus an ordered
// lemma sequence. It is safe for concurrent use: all state is read-only
// after construction.
type Normalizer struct {
	stopwords   map[string]struct{}
	minTokenLen int
}

// New builds a Normalizer from cfg.
func New(cfg Config) *Normalizer {
	words := cfg.Stopwords
	if len(words) == 0 {
		words = frenchStopwords
	}
	stop := make(map[string]struct{}, len(words))
	for _, w := range words {
		// Stopwords go through the same folding as tokens so accented
		// entries ("où") match folded text.
		stop[Fold(strings.ToLower(w))] = struct{}{}
	}
	minLen := cfg.MinTokenLength
	if minLen <= 0 {
		minLen = 1
	}
	return &Normalizer{stopwords: stop, minTokenLen: minLen}
}

// NewDefault builds a Normalizer with the French defaults.
func NewDefault() *Normalizer {
	return New(Config{})
}

var (
	foldTransform = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	// French elided articles and pronouns ("d'expérience", "l'équipe",
	// "c'est") leave one-letter junk tokens once punctuation is stripped.
	elisionPattern = regexp.MustCompile(`\b(qu|[cdjlmnst])['’]`)

	// Everything outside letters, digits and intra-word skill punctuation
	// ("c++", "c#", "node.js", "ci/cd") becomes a space.
	punctClass = regexp.MustCompile(`[^a-z0-9+#./-]+`)
)

// Fold lowercases s and strips diacritics ("Précédé" -> "precede").
func Fold(s string) string {
	folded, _, err := transform.String(foldTransform, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}

// Normalize runs the full pipeline and returns the cleaned text (lemmas
// rejoined with single spaces) and the ordered lemma sequence. Duplicates are
// retained and order is preserved. Empty or whitespace-only input yields
// empty outputs. The function is pure: same input, same output, and
// re-normalizing its own cleaned output is a no-op.
func (n *Normalizer) Normalize(raw string) (string, []string) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}

	s := RepairEncoding(raw)
	s = StripHTML(s)
	s = Fold(s)
	s = elisionPattern.ReplaceAllString(s, " ")
	s = punctClass.ReplaceAllString(s, " ")

	var lemmas []string
	for _, tok := range strings.Fields(s) {
		tok = strings.Trim(tok, "./-")
		if tok == "" || !hasAlnum(tok) {
			continue
		}
		if _, ok := n.stopwords[tok]; ok {
			continue
		}
		lemma := Lemmatize(tok)
		if len(lemma) < n.minTokenLen {
			continue
		}
		// A lemma can collapse onto a stop-word ("ses" -> "se"); filter
		// again so the pipeline stays idempotent.
		if _, ok := n.stopwords[lemma]; ok {
			continue
		}
		lemmas = append(lemmas, lemma)
	}

	return strings.Join(lemmas, " "), lemmas
}

func hasAlnum(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return true
		}
	}
	return false
}
