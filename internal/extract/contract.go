package extract

import "regexp"

// Contract labels in their conventional French form, with the phrasings that
// announce them. Order fixes the output order.
var contractPatterns = []struct {
	label string
	re    *regexp.Regexp
}{
	{"CDI", regexp.MustCompile(`\bcdi\b`)},
	{"CDD", regexp.MustCompile(`\bcdd\b`)},
	{"Stage", regexp.MustCompile(`\bstage\b|\bstagiaire\b`)},
	{"Alternance", regexp.MustCompile(`\balternance\b|\bapprentissage\b|contrat de professionnalisation`)},
	{"Freelance", regexp.MustCompile(`\bfreelance\b|\bfree-lance\b|prestation independante`)},
	{"Intérim", regexp.MustCompile(`\binterim\b|\binterimaire\b`)},
}

// FindContracts returns every contract type the text announces, without
// duplicates, in conventional order. A posting can offer several ("CDI ou
// freelance").
func FindContracts(text string) []string {
	var found []string
	for _, c := range contractPatterns {
		if c.re.MatchString(text) {
			found = append(found, c.label)
		}
	}
	return found
}
