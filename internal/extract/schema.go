package extract

import (
	"bytes"
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"cardscan/pkg/models"
)

// BuildContactJSONSchema returns a JSON-Schema (draft 2020-12 subset) for the
// contact record as a generic map. Every known field must be a string or
// null; none is required (absent fields default to empty), and unknown keys
// are permitted here because the record conversion drops them.
func BuildContactJSONSchema() map[string]any {
	props := make(map[string]any, len(models.ContactFieldNames))
	for _, name := range models.ContactFieldNames {
		props[name] = map[string]any{"type": []string{"string", "null"}}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
	}
}

// compileContactSchema compiles the contact schema once for reuse across
// requests.
func compileContactSchema() (*jsonschema.Schema, error) {
	raw, err := json.Marshal(BuildContactJSONSchema())
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("contact.schema.json", bytes.NewReader(raw)); err != nil {
		return nil, err
	}
	return compiler.Compile("contact.schema.json")
}
