package matcher

// DefaultProfileThreshold is the minimum confidence (percent) for a profile
// assignment. Below it the posting keeps no profile rather than a dubious one.
const DefaultProfileThreshold = 30.0

// ProfileScore is one profile's fit against a posting's detected skills.
type ProfileScore struct {
	Profile    string
	Confidence float64 // percent of the profile's total weight covered
}

// Categorize scores every reference profile against the detected skills and
// returns the best one, provided its confidence reaches threshold. Confidence
// is the matched share of the profile's total skill weight, in percent. Ties
// resolve to the alphabetically first profile name; a threshold <= 0 falls
// back to DefaultProfileThreshold.
func (m *Matcher) Categorize(res Result, threshold float64) (ProfileScore, bool) {
	if threshold <= 0 {
		threshold = DefaultProfileThreshold
	}

	detected := make(map[string]struct{})
	for _, s := range res.AllTechnical() {
		detected[s] = struct{}{}
	}
	for _, s := range res.AllSoft() {
		detected[s] = struct{}{}
	}

	var best ProfileScore
	found := false
	for _, p := range m.dict.Profiles() {
		var total, matched float64
		for skill, weight := range p.Skills {
			total += weight
			if _, ok := detected[skill]; ok {
				matched += weight
			}
		}
		if total == 0 {
			continue
		}
		score := ProfileScore{Profile: p.Name, Confidence: 100 * matched / total}
		// Profiles iterate in sorted name order, so strict > keeps the
		// alphabetically first name on equal confidence.
		if !found || score.Confidence > best.Confidence {
			best = score
			found = true
		}
	}

	if !found || best.Confidence < threshold {
		return ProfileScore{}, false
	}
	return best, true
}

// ScoreProfiles returns every profile's confidence against the detected
// skills, ordered as the profiles are (by name). Used by the dry-run report.
func (m *Matcher) ScoreProfiles(res Result) []ProfileScore {
	detected := make(map[string]struct{})
	for _, s := range res.AllTechnical() {
		detected[s] = struct{}{}
	}
	for _, s := range res.AllSoft() {
		detected[s] = struct{}{}
	}

	scores := make([]ProfileScore, 0, len(m.dict.Profiles()))
	for _, p := range m.dict.Profiles() {
		var total, matched float64
		for skill, weight := range p.Skills {
			total += weight
			if _, ok := detected[skill]; ok {
				matched += weight
			}
		}
		score := ProfileScore{Profile: p.Name}
		if total > 0 {
			score.Confidence = 100 * matched / total
		}
		scores = append(scores, score)
	}
	return scores
}
