package extract

import (
	"math"
	"regexp"
)

var (
	remoteFull = regexp.MustCompile(`full[ -]?remote|100\s*%\s*(?:de\s*)?(?:teletravail|remote)|teletravail\s*(?:total|complet|a 100\s*%)`)
	// "2 jours de télétravail", "télétravail : 3 jours par semaine", "3j de TT"
	remoteDays = regexp.MustCompile(`(\d)\s*(?:jours?|j\b)\s*(?:de\s*)?(?:teletravail|remote|tt\b)|(?:teletravail|remote)\s*(?:partiel\s*)?:?\s*(\d)\s*(?:jours?|j\b)`)
	// "50% de télétravail", "télétravail à 60%"
	remotePercent = regexp.MustCompile(`(\d{1,3})\s*%\s*(?:de\s*)?(?:teletravail|remote)|(?:teletravail|remote)\s*(?:a\s*)?(\d{1,3})\s*%`)
	remoteMention = regexp.MustCompile(`teletravail|remote|hybride|travail\s+a\s+distance`)
)

// FindRemote extracts the remote-work policy, or nil when the text never
// mentions it. Days and percent derive from each other over a five-day week;
// an explicitly stated figure always wins over the derived one. A bare
// mention ("télétravail possible") yields a Remote with both figures at 0.
func FindRemote(text string) *Remote {
	if loc := remoteFull.FindStringIndex(text); loc != nil {
		return &Remote{DaysPerWeek: 5, Percent: 100, Raw: text[loc[0]:loc[1]]}
	}

	if loc := remoteDays.FindStringSubmatchIndex(text); loc != nil {
		days := atoiSpan(text, loc, 1)
		if days == 0 {
			days = atoiSpan(text, loc, 2)
		}
		if days >= 1 && days <= 5 {
			return &Remote{
				DaysPerWeek: days,
				Percent:     int(math.Round(float64(days) / 5 * 100)),
				Raw:         text[loc[0]:loc[1]],
			}
		}
	}

	if loc := remotePercent.FindStringSubmatchIndex(text); loc != nil {
		pct := atoiSpan(text, loc, 1)
		if pct == 0 {
			pct = atoiSpan(text, loc, 2)
		}
		if pct >= 1 && pct <= 100 {
			return &Remote{
				DaysPerWeek: int(math.Round(float64(pct) / 100 * 5)),
				Percent:     pct,
				Raw:         text[loc[0]:loc[1]],
			}
		}
	}

	if loc := remoteMention.FindStringIndex(text); loc != nil {
		return &Remote{Raw: text[loc[0]:loc[1]]}
	}
	return nil
}
