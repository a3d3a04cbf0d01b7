package validation

import (
	"fmt"
	"strings"

	"nanomatch/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaValidator validates job variables against a compiled JSON schema.
type SchemaValidator struct {
	schema *gojsonschema.Schema
}

// NewSchemaValidator compiles a JSON schema given as a Go value (map or JSON-tagged struct)
// or as a raw JSON string.
func NewSchemaValidator(schema interface{}) (*SchemaValidator, error) {
	var loader gojsonschema.JSONLoader
	if s, ok := schema.(string); ok {
		loader = gojsonschema.NewStringLoader(s)
	} else {
		loader = gojsonschema.NewGoLoader(schema)
	}

	compiled, err := gojsonschema.NewSchema(loader)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &SchemaValidator{schema: compiled}, nil
}

func MustSchemaValidator(schema interface{}) *SchemaValidator {
	v, err := NewSchemaValidator(schema)
	if err != nil {
		panic(err)
	}
	return v
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Validate returns nil when the document satisfies the schema, otherwise an
// INVALID_INPUT StandardError listing every violation.
func (v *SchemaValidator) Validate(document interface{}) error {
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(document))
	if err != nil {
		return errors.NewInvalidInputError(fmt.Sprintf("validation error: %v", err))
	}
	if result.Valid() {
		return nil
	}

	violations := toValidationErrors(result.Errors())
	msgs := make([]string, len(violations))
	for i, ve := range violations {
		msgs[i] = fmt.Sprintf("%s: %s", ve.Field, ve.Message)
	}

	stdErr := errors.NewInvalidInputError(strings.Join(msgs, "; "))
	stdErr.Metadata = map[string]interface{}{"violations": violations}
	return stdErr
}

func toValidationErrors(results []gojsonschema.ResultError) []ValidationError {
	out := make([]ValidationError, 0, len(results))
	for _, re := range results {
		out = append(out, ValidationError{
			Field:   re.Field(),
			Message: re.Description(),
			Code:    strings.ToUpper(re.Type()),
		})
	}
	return out
}
