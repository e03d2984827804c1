package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Salary shapes seen in French postings, tried in order; the first hit wins.
// Text is folded, so "à" reads "a" and "€" survives as-is. Ranges accept the
// typographic dashes too, since encoding repair restores "–" from mojibake.
var (
	// "35k à 45k€", "40k-50k €", "35k–45k", "35k et 45k"
	salaryRangeK = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*k\s*(?:€|euros?)?\s*(?:a|et|[-–—])\s*(\d+(?:[.,]\d+)?)\s*k\s*(?:€|euros?)?`)
	// "35000 à 45000 €", "35 000€ - 45 000€"
	salaryRangeEuro = regexp.MustCompile(`(\d{1,3}(?:\s?\d{3})+|\d{4,6})\s*(?:€|euros?)?\s*(?:a|et|[-–—])\s*(\d{1,3}(?:\s?\d{3})+|\d{4,6})\s*(?:€|euros?)`)
	// "entre 35 et 45k€": the trailing k covers both bounds
	salaryRangeTrailingK = regexp.MustCompile(`(\d{2,3})\s*(?:a|et|[-–—])\s*(\d{2,3})\s*k\s*(?:€|euros?)?`)
	// "45k€", "42,5 k euros"
	salarySingleK = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*k\s*(?:€|euros?)`)
	// "3000€", "45 000 euros"
	salarySingleEuro = regexp.MustCompile(`(\d{1,3}(?:\s?\d{3})+|\d{3,6})\s*(?:€|euros?)`)

	salaryMonthly = regexp.MustCompile(`par mois|mensuel|/\s*mois`)
	salaryAnnual  = regexp.MustCompile(`par an\b|annuel|/\s*an\b`)
)

// FindSalary extracts an annual gross salary band, or nil when the text
// carries no usable figure. Values under 1000 are read as thousands ("35 a
// 45k"); a monthly period multiplies by 12; a single figure without a stated
// period becomes a ±10% band around the figure.
func FindSalary(text string) *Salary {
	for _, pat := range []struct {
		re *regexp.Regexp
		k  bool
	}{
		{salaryRangeK, true},
		{salaryRangeEuro, false},
		{salaryRangeTrailingK, true},
	} {
		loc := pat.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		raw := text[loc[0]:loc[1]]
		lo := parseSalaryNumber(text[loc[2]:loc[3]])
		hi := parseSalaryNumber(text[loc[4]:loc[5]])
		if lo <= 0 || hi <= 0 {
			continue
		}
		factor := periodFactor(text, loc[0], loc[1])
		s := &Salary{
			MinAnnual: toAnnual(lo, pat.k, factor),
			MaxAnnual: toAnnual(hi, pat.k, factor),
			Raw:       raw,
		}
		if s.MinAnnual > s.MaxAnnual {
			s.MinAnnual, s.MaxAnnual = s.MaxAnnual, s.MinAnnual
		}
		return s
	}

	for _, pat := range []struct {
		re *regexp.Regexp
		k  bool
	}{
		{salarySingleK, true},
		{salarySingleEuro, false},
	} {
		loc := pat.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		raw := text[loc[0]:loc[1]]
		v := parseSalaryNumber(text[loc[2]:loc[3]])
		if v <= 0 {
			continue
		}
		monthly := salaryMonthly.MatchString(periodContext(text, loc[0], loc[1]))
		annual := salaryAnnual.MatchString(periodContext(text, loc[0], loc[1]))
		switch {
		case monthly:
			yearly := toAnnual(v, pat.k, 12)
			return &Salary{MinAnnual: yearly, MaxAnnual: yearly, Raw: raw}
		case annual:
			base := toAnnual(v, pat.k, 1)
			return &Salary{MinAnnual: base, MaxAnnual: base, Raw: raw}
		default:
			// No stated period: keep the figure as annual with a ±10% band.
			base := toAnnual(v, pat.k, 1)
			return &Salary{
				MinAnnual: int(math.Round(float64(base) * 0.9)),
				MaxAnnual: int(math.Round(float64(base) * 1.1)),
				Raw:       raw,
			}
		}
	}

	return nil
}

func parseSalaryNumber(s string) float64 {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// periodContext is the span a period keyword must appear in to qualify the
// match: the match itself plus a short lookahead ("45k€ brut par an").
func periodContext(text string, start, end int) string {
	lookahead := end + 30
	if lookahead > len(text) {
		lookahead = len(text)
	}
	return text[start:lookahead]
}

func periodFactor(text string, start, end int) int {
	if salaryMonthly.MatchString(periodContext(text, start, end)) {
		return 12
	}
	return 1
}

// toAnnual converts a parsed figure to annual euros. k-suffixed figures are
// in thousands; a bare annual figure under 1000 ("entre 35 et 45") reads as
// thousands too, but a monthly figure never does ("900€ par mois" is 900
// euros, not 900k).
func toAnnual(v float64, thousands bool, factor int) int {
	if thousands || (factor == 1 && v < 1000) {
		v *= 1000
	}
	return int(math.Round(v)) * factor
}
