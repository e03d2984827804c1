// Package dictionary loads the versioned skill dictionary: categories,
// skills, synonyms and contextual patterns, plus the reference profiles used
// for posting categorization. The dictionary is immutable after load; a
// changed source requires a process restart.
package dictionary

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"

	"github.com/jmorel/offerlens/internal/textnorm"
)

// Kind separates technical categories from soft-skill categories.
type Kind string

const (
	KindTechnical Kind = "technical"
	KindSoft      Kind = "soft"
)

// categoryKinds is the closed set of categories. An unknown category in a
// dictionary source is a load-time error; adding a category here plus its
// data is all it takes to extend the taxonomy.
var categoryKinds = map[string]Kind{
	"languages":         KindTechnical,
	"systems":           KindTechnical,
	"frameworks":        KindTechnical,
	"databases":         KindTechnical,
	"cloud":             KindTechnical,
	"devops":            KindTechnical,
	"bi_analytics":      KindTechnical,
	"methodologies":     KindTechnical,
	"tools":             KindTechnical,
	"data_concepts":     KindTechnical,
	"security":          KindTechnical,
	"business_software": KindTechnical,

	"communication":      KindSoft,
	"teamwork":           KindSoft,
	"autonomy":           KindSoft,
	"organization":       KindSoft,
	"adaptability":       KindSoft,
	"leadership":         KindSoft,
	"problem_solving":    KindSoft,
	"personal_qualities": KindSoft,
	"stress_management":  KindSoft,
	"interpersonal":      KindSoft,
	"commitment":         KindSoft,
}

// Skill is one dictionary entry with its compiled matching material.
type Skill struct {
	Name     string // canonical, folded form
	Category string
	Kind     Kind
	// Synonyms hold the literal surface forms after full normalization,
	// so they compare directly against cleaned posting text.
	Synonyms []string
	// Patterns match periphrastic mentions when no synonym is present.
	Patterns []*regexp.Regexp
}

// Profile is a named reference skill set with per-skill weights, used to
// categorize a posting's overall role.
type Profile struct {
	Name   string
	Skills map[string]float64
}

// Dictionary is the compiled, read-only skill registry.
type Dictionary struct {
	skills     map[string]*Skill // canonical name -> skill
	byCategory map[string][]*Skill
	categories []string
	profiles   []Profile
}

// skillEntry is the JSON shape of one skill in the dictionary source.
type skillEntry struct {
	Synonyms        []string `json:"synonyms"`
	ContextPatterns []string `json:"context_patterns,omitempty"`
}

// profileEntry is the JSON shape of one reference profile.
type profileEntry struct {
	Skills map[string]float64 `json:"skills"`
}

// LoadError reports a malformed dictionary source. Any LoadError aborts the
// whole load; there is no partial dictionary.
type LoadError struct {
	Source   string
	Category string
	Skill    string
	Reason   string
	Err      error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("dictionary %s", e.Source)
	if e.Category != "" {
		msg += fmt.Sprintf(", category %q", e.Category)
	}
	if e.Skill != "" {
		msg += fmt.Sprintf(", skill %q", e.Skill)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error { return e.Err }

// Load compiles the embedded default dictionary.
func Load(norm *textnorm.Normalizer) (*Dictionary, error) {
	return LoadFrom(defaultTechSkills, defaultSoftSkills, defaultProfiles, norm)
}

// LoadFrom compiles a dictionary from raw JSON sources. Every synonym is
// normalized through the same pipeline as posting text, and every context
// pattern is compiled up front so pattern errors surface at startup rather
// than at match time.
func LoadFrom(techJSON, softJSON, profilesJSON []byte, norm *textnorm.Normalizer) (*Dictionary, error) {
	d := &Dictionary{
		skills:     make(map[string]*Skill),
		byCategory: make(map[string][]*Skill),
	}

	if err := d.loadSkills("skills_tech.json", techJSON, norm); err != nil {
		return nil, err
	}
	if err := d.loadSkills("skills_soft.json", softJSON, norm); err != nil {
		return nil, err
	}
	if err := d.loadProfiles("profiles.json", profilesJSON); err != nil {
		return nil, err
	}

	for cat, skills := range d.byCategory {
		sort.Slice(skills, func(i, j int) bool { return skills[i].Name < skills[j].Name })
		d.categories = append(d.categories, cat)
	}
	sort.Strings(d.categories)

	return d, nil
}

func (d *Dictionary) loadSkills(source string, data []byte, norm *textnorm.Normalizer) error {
	if err := validateSkillsDocument(source, data); err != nil {
		return err
	}

	var raw map[string]map[string]skillEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return &LoadError{Source: source, Reason: "invalid JSON", Err: err}
	}

	// Sorted iteration keeps error reporting and registry layout stable.
	categories := make([]string, 0, len(raw))
	for cat := range raw {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		kind, ok := categoryKinds[cat]
		if !ok {
			return &LoadError{Source: source, Category: cat, Reason: "unknown category"}
		}

		names := make([]string, 0, len(raw[cat]))
		for name := range raw[cat] {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			entry := raw[cat][name]
			skill, err := compileSkill(source, cat, kind, name, entry, norm)
			if err != nil {
				return err
			}
			if existing, ok := d.skills[skill.Name]; ok {
				return &LoadError{
					Source:   source,
					Category: cat,
					Skill:    name,
					Reason:   fmt.Sprintf("already defined in category %q; a skill belongs to exactly one category", existing.Category),
				}
			}
			d.skills[skill.Name] = skill
			d.byCategory[cat] = append(d.byCategory[cat], skill)
		}
	}

	return nil
}

func compileSkill(source, cat string, kind Kind, name string, entry skillEntry, norm *textnorm.Normalizer) (*Skill, error) {
	canonical := textnorm.Fold(name)
	if canonical == "" {
		return nil, &LoadError{Source: source, Category: cat, Skill: name, Reason: "empty skill name"}
	}

	skill := &Skill{Name: canonical, Category: cat, Kind: kind}

	seen := make(map[string]struct{})
	add := func(surface string) error {
		cleaned, _ := norm.Normalize(surface)
		if cleaned == "" {
			return &LoadError{Source: source, Category: cat, Skill: name,
				Reason: fmt.Sprintf("synonym %q normalizes to nothing", surface)}
		}
		if _, dup := seen[cleaned]; dup {
			return nil
		}
		seen[cleaned] = struct{}{}
		skill.Synonyms = append(skill.Synonyms, cleaned)
		return nil
	}

	// The canonical name doubles as a synonym, matching how the source data
	// is written (synonym lists hold variants only).
	if err := add(name); err != nil {
		return nil, err
	}
	for _, syn := range entry.Synonyms {
		if err := add(syn); err != nil {
			return nil, err
		}
	}

	for _, pat := range entry.ContextPatterns {
		re, err := regexp.Compile(pat)
		if err != nil {
			return nil, &LoadError{Source: source, Category: cat, Skill: name,
				Reason: fmt.Sprintf("invalid context pattern %q", pat), Err: err}
		}
		skill.Patterns = append(skill.Patterns, re)
	}

	return skill, nil
}

func (d *Dictionary) loadProfiles(source string, data []byte) error {
	if err := validateProfilesDocument(source, data); err != nil {
		return err
	}

	var raw map[string]profileEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return &LoadError{Source: source, Reason: "invalid JSON", Err: err}
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		entry := raw[name]
		if len(entry.Skills) == 0 {
			return &LoadError{Source: source, Skill: name, Reason: "profile has no skills"}
		}
		skills := make(map[string]float64, len(entry.Skills))
		for skillName, weight := range entry.Skills {
			canonical := textnorm.Fold(skillName)
			if _, ok := d.skills[canonical]; !ok {
				return &LoadError{Source: source, Skill: name,
					Reason: fmt.Sprintf("references unknown skill %q", skillName)}
			}
			skills[canonical] = weight
		}
		d.profiles = append(d.profiles, Profile{Name: name, Skills: skills})
	}

	return nil
}

// Categories returns the loaded category labels, sorted.
func (d *Dictionary) Categories() []string { return d.categories }

// KindOf reports the kind of a loaded category.
func (d *Dictionary) KindOf(category string) (Kind, bool) {
	if _, ok := d.byCategory[category]; !ok {
		return "", false
	}
	return categoryKinds[category], true
}

// SkillsIn returns the skills of one category, sorted by canonical name.
func (d *Dictionary) SkillsIn(category string) []*Skill {
	return d.byCategory[category]
}

// CategoryOf resolves a canonical skill name to its single owning category.
func (d *Dictionary) CategoryOf(name string) (string, bool) {
	s, ok := d.skills[textnorm.Fold(name)]
	if !ok {
		return "", false
	}
	return s.Category, true
}

// Profiles returns the reference profiles, sorted by name.
func (d *Dictionary) Profiles() []Profile { return d.profiles }

// Len returns the total number of skills across all categories.
func (d *Dictionary) Len() int { return len(d.skills) }
