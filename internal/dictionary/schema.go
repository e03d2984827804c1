package dictionary

import (
	"github.com/xeipuuv/gojsonschema"
)

// The schemas gate structure before decoding so a malformed source fails the
// whole load with a precise message instead of a partial dictionary.

const skillsSchema = `{
	"type": "object",
	"additionalProperties": {
		"type": "object",
		"additionalProperties": {
			"type": "object",
			"properties": {
				"synonyms": {
					"type": "array",
					"items": {"type": "string", "minLength": 1}
				},
				"context_patterns": {
					"type": "array",
					"items": {"type": "string", "minLength": 1}
				}
			},
			"required": ["synonyms"],
			"additionalProperties": false
		}
	}
}`

const profilesSchema = `{
	"type": "object",
	"additionalProperties": {
		"type": "object",
		"properties": {
			"skills": {
				"type": "object",
				"minProperties": 1,
				"additionalProperties": {"type": "number", "minimum": 0}
			}
		},
		"required": ["skills"],
		"additionalProperties": false
	}
}`

func validateDocument(source, schema string, data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return &LoadError{Source: source, Reason: "invalid JSON", Err: err}
	}
	if !result.Valid() {
		reason := "schema violation"
		if errs := result.Errors(); len(errs) > 0 {
			reason = "schema violation: " + errs[0].String()
		}
		return &LoadError{Source: source, Reason: reason}
	}
	return nil
}

func validateSkillsDocument(source string, data []byte) error {
	return validateDocument(source, skillsSchema, data)
}

func validateProfilesDocument(source string, data []byte) error {
	return validateDocument(source, profilesSchema, data)
}
