// Package matcher finds dictionary skills in cleaned posting text and scores
// postings against reference profiles.
package matcher

import (
	"sort"
	"strings"

	"github.com/jmorel/offerlens/internal/dictionary"
)

// Source records how a skill was detected.
type Source string

const (
	// SourceLiteral means a synonym of the skill appears verbatim in the
	// cleaned text.
	SourceLiteral Source = "literal"
	// SourceContextual means no synonym appears but a context pattern of the
	// skill does.
	SourceContextual Source = "contextual"
)

// Match is one detected skill occurrence.
type Match struct {
	Skill    string
	Category string
	Kind     dictionary.Kind
	Source   Source
}

// Result groups detected skills by category. Skill lists are sorted and
// duplicate-free; a skill appears at most once overall because the dictionary
// binds it to a single category.
type Result struct {
	Technical map[string][]string
	Soft      map[string][]string
	Sources   map[string]Source // canonical skill name -> detection source
}

// AllTechnical flattens the technical categories into one sorted list.
func (r Result) AllTechnical() []string { return flatten(r.Technical) }

// AllSoft flattens the soft-skill categories into one sorted list.
func (r Result) AllSoft() []string { return flatten(r.Soft) }

func flatten(byCategory map[string][]string) []string {
	var all []string
	for _, skills := range byCategory {
		all = append(all, skills...)
	}
	sort.Strings(all)
	return all
}

// Matcher detects dictionary skills in cleaned text. It is stateless beyond
// the loaded dictionary and safe for concurrent use.
type Matcher struct {
	dict *dictionary.Dictionary
}

// New builds a Matcher over a loaded dictionary.
func New(dict *dictionary.Dictionary) *Matcher {
	return &Matcher{dict: dict}
}

// FindSkills runs the two-phase detection over cleaned text (the output of
// the normalization pipeline). Phase one checks every synonym for literal,
// whole-word presence; literal presence is ground truth and always wins.
// Phase two runs context patterns only for skills with no literal match, so a
// pattern can never contradict or duplicate a literal hit.
func (m *Matcher) FindSkills(cleaned string) Result {
	res := Result{
		Technical: make(map[string][]string),
		Soft:      make(map[string][]string),
		Sources:   make(map[string]Source),
	}
	if cleaned == "" {
		return res
	}

	// Padding turns substring containment into whole-word containment:
	// " go " cannot match inside " django ".
	padded := " " + cleaned + " "

	for _, cat := range m.dict.Categories() {
		for _, skill := range m.dict.SkillsIn(cat) {
			src, ok := m.detect(skill, cleaned, padded)
			if !ok {
				continue
			}
			res.Sources[skill.Name] = src
			if skill.Kind == dictionary.KindTechnical {
				res.Technical[cat] = append(res.Technical[cat], skill.Name)
			} else {
				res.Soft[cat] = append(res.Soft[cat], skill.Name)
			}
		}
	}

	for _, skills := range res.Technical {
		sort.Strings(skills)
	}
	for _, skills := range res.Soft {
		sort.Strings(skills)
	}
	return res
}

func (m *Matcher) detect(skill *dictionary.Skill, cleaned, padded string) (Source, bool) {
	for _, syn := range skill.Synonyms {
		if strings.Contains(padded, " "+syn+" ") {
			return SourceLiteral, true
		}
	}
	for _, pat := range skill.Patterns {
		if pat.MatchString(cleaned) {
			return SourceContextual, true
		}
	}
	return "", false
}
