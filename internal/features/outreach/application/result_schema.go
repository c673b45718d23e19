package application

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// emailResultSchema describes what the prompt templates ask the model to return.
const emailResultSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["email"],
  "properties": {
    "email": {"type": "string", "minLength": 1},
    "subject": {"type": "string"},
    "personalization_points": {"type": "array", "items": {"type": "string"}}
  }
}`

var emailResultSchemaLoader = gojsonschema.NewStringLoader(emailResultSchema)

// SchemaViolation lists the ways a parsed payload deviates from the expected shape.
type SchemaViolation struct {
	Problems []string
}

func (e *SchemaViolation) Error() string {
	return "generation result does not match schema: " + strings.Join(e.Problems, "; ")
}

// CheckEmailPayload validates a parsed generation payload against emailResultSchema.
func CheckEmailPayload(payload map[string]any) error {
	result, err := gojsonschema.Validate(emailResultSchemaLoader, gojsonschema.NewGoLoader(payload))
	if err != nil {
		return fmt.Errorf("failed to validate generation result: %w", err)
	}
	if result.Valid() {
		return nil
	}

	violation := &SchemaViolation{Problems: make([]string, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		violation.Problems = append(violation.Problems, fmt.Sprintf("%s: %s", field, desc.Description()))
	}
	return violation
}
