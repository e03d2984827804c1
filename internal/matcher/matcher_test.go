package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmorel/offerlens/internal/dictionary"
	"github.com/jmorel/offerlens/internal/textnorm"
)

func newTestMatcher(t *testing.T) (*Matcher, *textnorm.Normalizer) {
	t.Helper()
	norm := textnorm.NewDefault()
	dict, err := dictionary.Load(norm)
	require.NoError(t, err)
	return New(dict), norm
}

func TestFindSkillsLiteral(t *testing.T) {
	m, norm := newTestMatcher(t)

	cleaned, _ := norm.Normalize("Développeur Python avec Django et PostgreSQL, déploiement sur AWS")
	res := m.FindSkills(cleaned)

	assert.Equal(t, []string{"python"}, res.Technical["languages"])
	assert.Equal(t, []string{"django"}, res.Technical["frameworks"])
	assert.Equal(t, []string{"postgresql"}, res.Technical["databases"])
	assert.Equal(t, []string{"aws"}, res.Technical["cloud"])
	assert.Equal(t, SourceLiteral, res.Sources["python"])
}

func TestFindSkillsWholeWordOnly(t *testing.T) {
	m, norm := newTestMatcher(t)

	// "django" must not surface "go", and "scala" must not surface inside
	// "scalable".
	cleaned, _ := norm.Normalize("Application Django scalable")
	res := m.FindSkills(cleaned)

	assert.NotContains(t, res.AllTechnical(), "go")
	assert.NotContains(t, res.AllTechnical(), "scala")
	assert.Contains(t, res.AllTechnical(), "django")
}

func TestFindSkillsSynonyms(t *testing.T) {
	m, norm := newTestMatcher(t)

	cleaned, _ := norm.Normalize("Stack : Golang, Postgres, K8s et l'intégration continue")
	res := m.FindSkills(cleaned)

	all := res.AllTechnical()
	assert.Contains(t, all, "go")
	assert.Contains(t, all, "postgresql")
	assert.Contains(t, all, "kubernetes")
	assert.Contains(t, all, "ci/cd")
}

func TestFindSkillsContextual(t *testing.T) {
	m, norm := newTestMatcher(t)

	cleaned, _ := norm.Normalize("Vous écrirez l'infrastructure as code de la plateforme")
	res := m.FindSkills(cleaned)

	require.Contains(t, res.Technical["devops"], "terraform")
	assert.Equal(t, SourceContextual, res.Sources["terraform"])
}

func TestFindSkillsLiteralWinsOverContextual(t *testing.T) {
	m, norm := newTestMatcher(t)

	cleaned, _ := norm.Normalize("Terraform pour l'infrastructure as code")
	res := m.FindSkills(cleaned)

	require.Contains(t, res.Technical["devops"], "terraform")
	assert.Equal(t, SourceLiteral, res.Sources["terraform"])
	// A skill belongs to one category, so it can never be listed twice.
	count := 0
	for _, s := range res.AllTechnical() {
		if s == "terraform" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestFindSkillsSoft(t *testing.T) {
	m, norm := newTestMatcher(t)

	cleaned, _ := norm.Normalize("Autonomie, rigueur et esprit d'équipe exigés")
	res := m.FindSkills(cleaned)

	assert.Contains(t, res.Soft["autonomy"], "autonomie")
	assert.Contains(t, res.Soft["personal_qualities"], "rigueur")
	assert.Contains(t, res.Soft["teamwork"], "travail d'equipe")
}

func TestFindSkillsEmptyText(t *testing.T) {
	m, _ := newTestMatcher(t)

	res := m.FindSkills("")
	assert.Empty(t, res.AllTechnical())
	assert.Empty(t, res.AllSoft())
}

func TestCategorize(t *testing.T) {
	m, norm := newTestMatcher(t)

	cleaned, _ := norm.Normalize(
		"Ingénieur DevOps : Docker, Kubernetes, Terraform, Jenkins et pipelines CI/CD sur Linux")
	res := m.FindSkills(cleaned)

	score, ok := m.Categorize(res, 0)
	require.True(t, ok)
	assert.Equal(t, "DevOps / SRE", score.Profile)
	assert.Greater(t, score.Confidence, 50.0)
	assert.LessOrEqual(t, score.Confidence, 100.0)
}

func TestCategorizeBelowThreshold(t *testing.T) {
	m, norm := newTestMatcher(t)

	cleaned, _ := norm.Normalize("Poste de comptable, maîtrise d'Excel souhaitée")
	res := m.FindSkills(cleaned)

	_, ok := m.Categorize(res, 90)
	assert.False(t, ok)
}

func TestCategorizeNoSkills(t *testing.T) {
	m, _ := newTestMatcher(t)

	_, ok := m.Categorize(m.FindSkills(""), 0)
	assert.False(t, ok)
}

func TestScoreProfiles(t *testing.T) {
	m, norm := newTestMatcher(t)

	cleaned, _ := norm.Normalize("Python, Spark, Airflow, Kafka et pipelines ETL")
	res := m.FindSkills(cleaned)

	scores := m.ScoreProfiles(res)
	require.NotEmpty(t, scores)

	byName := make(map[string]float64)
	for _, s := range scores {
		byName[s.Profile] = s.Confidence
	}
	assert.Greater(t, byName["Data Engineering"], byName["Frontend Developer"])
}
