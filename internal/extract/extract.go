// Package extract pulls structured facts out of posting text: salary range,
// required experience, education level, remote-work policy and contract
// types. Extraction runs over folded (lowercased, accent-stripped) text so
// every pattern can assume "expérience" reads "experience"; digits, currency
// signs and percent signs are preserved.
package extract

import (
	"regexp"
	"strings"

	"github.com/jmorel/offerlens/internal/textnorm"
)

// Salary is an annual gross salary band in euros. Min equals Max when the
// posting states a single figure with an explicit period.
type Salary struct {
	MinAnnual int
	MaxAnnual int
	Raw       string // matched span, for audit
}

// Experience is the required professional experience in years. MaxYears is 0
// when the posting states only a floor ("5 ans minimum").
type Experience struct {
	MinYears int
	MaxYears int
	Raw      string
}

// Education is the required study level in years after the baccalauréat,
// plus the diploma type named by the posting ("Master", "Licence", ...).
type Education struct {
	YearsPostBac int
	DegreeType   string
	Raw          string
}

// Remote is the remote-work policy. DaysPerWeek and Percent are both 0 when
// remote work is mentioned without quantification.
type Remote struct {
	DaysPerWeek int
	Percent     int
	Raw         string
}

// Info aggregates every extracted fact. Nil fields mean the posting says
// nothing about that dimension; an empty Contracts slice likewise.
type Info struct {
	Salary     *Salary
	Experience *Experience
	Education  *Education
	Remote     *Remote
	Contracts  []string
}

var spaceRun = regexp.MustCompile(`\s+`)

// Prepare folds raw posting text for extraction: encoding repair, HTML
// stripping, lowercasing, accent removal and whitespace collapsing.
func Prepare(raw string) string {
	s := textnorm.RepairEncoding(raw)
	s = textnorm.StripHTML(s)
	s = textnorm.Fold(s)
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// All runs every extractor over raw posting text.
func All(raw string) Info {
	text := Prepare(raw)
	return Info{
		Salary:     FindSalary(text),
		Experience: FindExperience(text),
		Education:  FindEducation(text),
		Remote:     FindRemote(text),
		Contracts:  FindContracts(text),
	}
}
