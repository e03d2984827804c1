// Package enrich assembles the full enrichment record for one posting:
// normalization, skill detection, profile categorization and structured info
// extraction, combined into a single storable result.
package enrich

import (
	"math"

	"github.com/jmorel/offerlens/internal/dictionary"
	"github.com/jmorel/offerlens/internal/extract"
	"github.com/jmorel/offerlens/internal/matcher"
	"github.com/jmorel/offerlens/internal/textnorm"
)

// Record is the complete enrichment result for one posting. Every field is
// always present; optional facts stay nil (or empty) when the posting says
// nothing about them, so a record with no detections is still a valid,
// complete result.
type Record struct {
	CleanedText string   `json:"cleaned_text"`
	Lemmas      []string `json:"lemmas"`

	TechnicalSkills map[string][]string       `json:"technical_skills"`
	SoftSkills      map[string][]string       `json:"soft_skills"`
	AllTechnical    []string                  `json:"all_technical"`
	AllSoft         []string                  `json:"all_soft"`
	SkillSources    map[string]matcher.Source `json:"skill_sources,omitempty"`

	Profile           string `json:"profile,omitempty"`
	ProfileConfidence int    `json:"profile_confidence,omitempty"`

	Salary     *extract.Salary     `json:"salary,omitempty"`
	Experience *extract.Experience `json:"experience,omitempty"`
	Education  *extract.Education  `json:"education,omitempty"`
	Remote     *extract.Remote     `json:"remote,omitempty"`
	Contracts  []string            `json:"contracts,omitempty"`
}

// Pipeline wires the stages together. Stateless after construction and safe
// for concurrent use.
type Pipeline struct {
	norm      *textnorm.Normalizer
	match     *matcher.Matcher
	threshold float64
}

// New builds an enrichment pipeline. A threshold <= 0 falls back to the
// default profile-confidence floor.
func New(norm *textnorm.Normalizer, dict *dictionary.Dictionary, threshold float64) *Pipeline {
	return &Pipeline{
		norm:      norm,
		match:     matcher.New(dict),
		threshold: threshold,
	}
}

// Enrich runs the full pipeline over one posting description. Skill matching
// operates on the cleaned text; structured extraction operates on the folded
// original so figures and currency signs survive.
func (p *Pipeline) Enrich(description string) Record {
	cleaned, lemmas := p.norm.Normalize(description)
	skills := p.match.FindSkills(cleaned)
	info := extract.All(description)

	rec := Record{
		CleanedText:     cleaned,
		Lemmas:          lemmas,
		TechnicalSkills: skills.Technical,
		SoftSkills:      skills.Soft,
		AllTechnical:    skills.AllTechnical(),
		AllSoft:         skills.AllSoft(),
		SkillSources:    skills.Sources,
		Salary:          info.Salary,
		Experience:      info.Experience,
		Education:       info.Education,
		Remote:          info.Remote,
		Contracts:       info.Contracts,
	}

	// Scoring stays fractional internally; the stored confidence is a whole
	// percentage.
	if score, ok := p.match.Categorize(skills, p.threshold); ok {
		rec.Profile = score.Profile
		rec.ProfileConfidence = int(math.Round(score.Confidence))
	}

	return rec
}
