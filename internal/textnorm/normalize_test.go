package textnorm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmptyInput(t *testing.T) {
	n := NewDefault()

	tests := []struct {
		name  string
		input string
	}{
		{"Empty string", ""},
		{"Whitespace only", "   \t\n  "},
		{"Stopwords only", "le la les et ou"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaned, lemmas := n.Normalize(tt.input)
			assert.Empty(t, cleaned)
			assert.Empty(t, lemmas)
		})
	}
}

func TestNormalizeBasicPipeline(t *testing.T) {
	n := NewDefault()

	cleaned, lemmas := n.Normalize("Développeur Python et SQL pour les équipes Data")
	assert.Equal(t, "developpeur python sql equipe data", cleaned)
	assert.Equal(t, []string{"developpeur", "python", "sql", "equipe", "data"}, lemmas)
}

func TestNormalizePreservesSkillPunctuation(t *testing.T) {
	n := NewDefault()

	cleaned, _ := n.Normalize("Maîtrise de C++, C# et Node.js ; pratique CI/CD.")
	assert.Contains(t, cleaned, "c++")
	assert.Contains(t, cleaned, "c#")
	assert.Contains(t, cleaned, "node.js")
	assert.Contains(t, cleaned, "ci/cd")
	// Sentence-final period must not stick to the last token.
	assert.NotContains(t, cleaned, "ci/cd.")
}

func TestNormalizeDropsRecruitingBoilerplate(t *testing.T) {
	n := NewDefault()

	cleaned, _ := n.Normalize("Data Engineer H/F senior confirmé")
	assert.Equal(t, "data engineer", cleaned)
}

func TestNormalizeOrderAndDuplicates(t *testing.T) {
	n := NewDefault()

	_, lemmas := n.Normalize("python sql python")
	assert.Equal(t, []string{"python", "sql", "python"}, lemmas, "duplicates retained, order preserved")
}

func TestNormalizeStripsHTML(t *testing.T) {
	n := NewDefault()

	raw := "<div><h1>Data Analyst</h1><p>Missions : analyse des données.</p><script>alert(1)</script></div>"
	cleaned, _ := n.Normalize(raw)
	assert.Contains(t, cleaned, "data")
	assert.Contains(t, cleaned, "analyst")
	assert.Contains(t, cleaned, "donnee")
	assert.NotContains(t, cleaned, "alert")
	assert.NotContains(t, cleaned, "script")
}

func TestNormalizeRepairsEncoding(t *testing.T) {
	n := NewDefault()

	cleaned, _ := n.Normalize("D├®veloppeur exp├®riment├® en donn├®es")
	assert.Contains(t, cleaned, "developpeur")
	assert.Contains(t, cleaned, "donnee")
}

func TestNormalizeDeterministicAndIdempotent(t *testing.T) {
	n := NewDefault()

	inputs := []string{
		"Ingénieur DevOps avec 5 ans d'expérience sur AWS, Docker et Kubernetes.",
		"<p>Chef de projet IT — gestion des équipes & budgets</p>",
		"Analyste BI : Power BI, Tableau, requêtes SQL complexes",
		"télétravail partiel 2 jours / semaine",
	}

	for _, input := range inputs {
		cleaned1, lemmas1 := n.Normalize(input)
		cleaned2, lemmas2 := n.Normalize(input)
		require.Equal(t, cleaned1, cleaned2, "normalization must be deterministic")
		require.Equal(t, lemmas1, lemmas2)

		// Re-cleaning already-clean text is a no-op.
		recleaned, relemmas := n.Normalize(cleaned1)
		assert.Equal(t, cleaned1, recleaned, "input: %q", input)
		assert.Equal(t, lemmas1, relemmas)
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Précédé", "precede"},
		{"À BIENTÔT", "a bientot"},
		{"maîtrise", "maitrise"},
		{"already plain", "already plain"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Fold(tt.input))
	}
}

func TestLemmatize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"equipes", "equipe"},
		{"donnees", "donnee"},
		{"travaux", "travail"},
		{"reseaux", "reseau"},
		{"processus", "processus"},
		{"process", "process"},
		{"ans", "ans"},
		{"go", "go"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Lemmatize(tt.input))
	}
}

func TestLemmatizeIsFixedPoint(t *testing.T) {
	words := []string{"equipes", "travaux", "reseaux", "press", "pays", "internationaux", "developpeuse"}
	for _, w := range words {
		once := Lemmatize(w)
		assert.Equal(t, once, Lemmatize(once), "Lemmatize must be idempotent for %q", w)
	}
}

func TestStripHTMLLeavesPlainTextAlone(t *testing.T) {
	plain := "salaire 35k < 45k selon profil"
	assert.Equal(t, plain, StripHTML(plain))
}

func TestRepairEncodingPassthrough(t *testing.T) {
	s := "texte propre sans mojibake"
	assert.Equal(t, s, RepairEncoding(s))
	assert.True(t, strings.Contains(RepairEncoding("d├®but"), "début"))
}
