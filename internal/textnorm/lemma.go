package textnorm

import "strings"

// lemmaExceptions maps folded surface forms to their lemma when suffix rules
// get it wrong. Values must be fixed points of Lemmatize.
var lemmaExceptions = map[string]string{
	"yeux":         "oeil",
	"travaux":      "travail",
	"reseaux":      "reseau",
	"niveaux":      "niveau",
	"logiciels":    "logiciel",
	"equipes":      "equipe",
	"developpeurs": "developpeur",
	"developpeuse": "developpeur",
	"ingenieure":   "ingenieur",
	"ingenieurs":   "ingenieur",
	"analystes":    "analyste",
	"consultantes": "consultant",
	"consultants":  "consultant",
	"chargee":      "charge",
	"chargees":     "charge",
}

// protectedTokens are technology names that look like French plurals but must
// not be stemmed. Dictionary synonyms and posting text share this pipeline,
// so matching would stay consistent either way; the list just keeps cleaned
// output readable.
var protectedTokens = map[string]struct{}{
	"devops": {}, "kubernetes": {}, "redis": {}, "postgres": {},
	"jenkins": {}, "css": {}, "sass": {}, "less": {}, "rails": {},
	"ios": {}, "windows": {}, "express": {}, "saas": {},
	"paas": {}, "iaas": {}, "cypress": {}, "nodejs": {},
}

// Lemmatize reduces a folded token to a canonical form using light French
// suffix rules. The exact lemmatization toolkit is deliberately unspecified
// upstream; the only contract is determinism and idempotence, which these
// rules guarantee: the output of Lemmatize is always a fixed point.
func Lemmatize(token string) string {
	if lemma, ok := lemmaExceptions[token]; ok {
		return lemma
	}
	if _, ok := protectedTokens[token]; ok {
		return token
	}

	// Plural -aux / -eux endings: "internationaux" -> "internationau" is an
	// acceptable stem; both surface and dictionary forms pass through the
	// same rule so matching stays consistent.
	if len(token) >= 5 && (strings.HasSuffix(token, "aux") || strings.HasSuffix(token, "eux")) {
		return token[:len(token)-1]
	}

	// Plural -s, skipping -ss ("process") and -us ("processus") endings.
	if len(token) >= 4 && strings.HasSuffix(token, "s") &&
		!strings.HasSuffix(token, "ss") && !strings.HasSuffix(token, "us") {
		return token[:len(token)-1]
	}

	return token
}
