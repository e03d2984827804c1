package extract

import (
	"fmt"
	"regexp"
	"strconv"
)

var bacPattern = regexp.MustCompile(`bac\s*\+\s*(\d)`)

// bacDegreeTypes maps an explicit bac+N level to the conventional diploma
// name when no degree word accompanies it.
var bacDegreeTypes = map[int]string{
	2: "BTS/DUT",
	3: "Licence",
	5: "Master/Ingénieur",
	8: "Doctorat",
}

// Degree vocabulary with years after the baccalauréat, highest first. Bare
// "ingenieur" is too common in job titles, so only the diploma phrasings
// count. "but" (bachelor universitaire de technologie) is skipped: it
// collides with the ordinary French word.
var degreeVocab = []struct {
	re    *regexp.Regexp
	typ   string
	years int
}{
	{regexp.MustCompile(`doctorat|\bphd\b|\bthese\b`), "Doctorat", 8},
	{regexp.MustCompile(`\bmaster\b`), "Master", 5},
	{regexp.MustCompile(`\bmba\b`), "MBA", 5},
	{regexp.MustCompile(`diplome\s+d['\s]*ingenieur|ecole\s+d['\s]*ingenieur`), "Ingénieur", 5},
	{regexp.MustCompile(`\blicence\b`), "Licence", 3},
	{regexp.MustCompile(`\bbachelor\b`), "Bachelor", 3},
	{regexp.MustCompile(`\bbts\b`), "BTS", 3},
	{regexp.MustCompile(`\bdut\b`), "DUT", 3},
}

// FindEducation extracts the required study level and diploma type, or nil
// when the text states none. Level and type come out independently: an
// explicit "bac+N" fixes the level even when a degree word appears, and a
// degree word names the type even when "bac+N" fixes the level. When several
// levels appear ("bac+3 à bac+5") the highest wins.
func FindEducation(text string) *Education {
	bestBac := 0
	bacRaw := ""
	for _, m := range bacPattern.FindAllStringSubmatch(text, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > bestBac {
			bestBac, bacRaw = n, m[0]
		}
	}

	degreeType := ""
	degreeYears := 0
	degreeRaw := ""
	for _, d := range degreeVocab {
		if loc := d.re.FindStringIndex(text); loc != nil {
			degreeType, degreeYears = d.typ, d.years
			degreeRaw = text[loc[0]:loc[1]]
			break
		}
	}

	switch {
	case bestBac > 0:
		typ := degreeType
		if typ == "" {
			typ = bacDegreeTypes[bestBac]
		}
		if typ == "" {
			typ = fmt.Sprintf("Bac+%d", bestBac)
		}
		return &Education{YearsPostBac: bestBac, DegreeType: typ, Raw: bacRaw}
	case degreeYears > 0:
		return &Education{YearsPostBac: degreeYears, DegreeType: degreeType, Raw: degreeRaw}
	}
	return nil
}
