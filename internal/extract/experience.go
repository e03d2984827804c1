package extract

import (
	"regexp"
	"strconv"
)

// Experience phrasings, tried in order. Folded text keeps the apostrophe, so
// "années d'expérience" reads "annees d'experience".
var (
	// "3 à 5 ans d'expérience", "2-4 ans", "3–5 ans"
	expRange = regexp.MustCompile(`(\d{1,2})\s*(?:a|et|[-–—])\s*(\d{1,2})\s*ans?\b`)
	// "5 ans minimum", "3 ans min", "2 ans et plus", "5 ans +"
	expFloor = regexp.MustCompile(`(\d{1,2})\s*ans?\s*(?:d['e\s]*experience\s*)?(?:minimum|min\b|et plus|\+)`)
	// "minimum 3 ans", "au moins 5 ans", "plus de 2 ans"
	expFloorPrefix = regexp.MustCompile(`(?:minimum|au moins|plus de|a partir de)\s*(\d{1,2})\s*ans?\b`)
	// "5 ans d'expérience", "experience de 3 ans"
	expPlain = regexp.MustCompile(`(\d{1,2})\s*ans?\s*(?:d['\s]*experiences?|en tant que)|experiences?\s*(?:de|d['\s]*au moins)?\s*(\d{1,2})\s*ans?\b`)
)

// Seniority labels map to conventional year bands when no figure is stated.
var seniorityBands = []struct {
	re       *regexp.Regexp
	min, max int
}{
	{regexp.MustCompile(`\bsenior\b`), 5, 10},
	{regexp.MustCompile(`\bconfirme`), 3, 5},
	{regexp.MustCompile(`\bjunior\b|debutant`), 0, 2},
}

// FindExperience extracts the required years of experience, or nil when the
// text states none. An explicit figure always beats a seniority label; a
// label alone maps to its conventional band (junior 0-2, confirmé 3-5,
// senior 5-10). MaxYears stays 0 for floor-only phrasings.
func FindExperience(text string) *Experience {
	if loc := expRange.FindStringSubmatchIndex(text); loc != nil {
		lo, hi := atoiSpan(text, loc, 1), atoiSpan(text, loc, 2)
		if lo > hi {
			lo, hi = hi, lo
		}
		return &Experience{MinYears: lo, MaxYears: hi, Raw: text[loc[0]:loc[1]]}
	}
	if loc := expFloor.FindStringSubmatchIndex(text); loc != nil {
		return &Experience{MinYears: atoiSpan(text, loc, 1), Raw: text[loc[0]:loc[1]]}
	}
	if loc := expFloorPrefix.FindStringSubmatchIndex(text); loc != nil {
		return &Experience{MinYears: atoiSpan(text, loc, 1), Raw: text[loc[0]:loc[1]]}
	}
	if loc := expPlain.FindStringSubmatchIndex(text); loc != nil {
		n := atoiSpan(text, loc, 1)
		if n == 0 {
			n = atoiSpan(text, loc, 2)
		}
		return &Experience{MinYears: n, MaxYears: n, Raw: text[loc[0]:loc[1]]}
	}

	for _, band := range seniorityBands {
		if loc := band.re.FindStringIndex(text); loc != nil {
			return &Experience{MinYears: band.min, MaxYears: band.max, Raw: text[loc[0]:loc[1]]}
		}
	}
	return nil
}

// atoiSpan reads capture group g out of submatch indices, tolerating an
// unmatched group.
func atoiSpan(text string, loc []int, g int) int {
	if 2*g+1 >= len(loc) || loc[2*g] < 0 {
		return 0
	}
	n, err := strconv.Atoi(text[loc[2*g]:loc[2*g+1]])
	if err != nil {
		return 0
	}
	return n
}
