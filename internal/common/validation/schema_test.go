package validation

import (
	stderrors "errors"
	"testing"

	"nanomatch/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const limitSchema = `{
  "type": "object",
  "required": ["smeId"],
  "properties": {
    "smeId": {"type": "string", "minLength": 1},
    "limit": {"type": "integer"}
  }
}`

func TestSchemaValidator_Validate(t *testing.T) {
	v, err := NewSchemaValidator(limitSchema)
	require.NoError(t, err)

	tests := []struct {
		name    string
		doc     map[string]interface{}
		wantErr bool
		field   string
	}{
		{"valid", map[string]interface{}{"smeId": "sme-1", "limit": 3}, false, ""},
		{"missing required", map[string]interface{}{"limit": 3}, true, "(root)"},
		{"empty id", map[string]interface{}{"smeId": ""}, true, "smeId"},
		{"wrong type", map[string]interface{}{"smeId": "sme-1", "limit": "three"}, true, "limit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.doc)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsInvalidInput(err))

			var stdErr *errors.StandardError
			require.True(t, stderrors.As(err, &stdErr))
			violations := stdErr.Metadata["violations"].([]ValidationError)
			require.NotEmpty(t, violations)
			assert.Equal(t, tt.field, violations[0].Field)
		})
	}
}

func TestNewSchemaValidator_GoValue(t *testing.T) {
	v, err := NewSchemaValidator(map[string]interface{}{
		"type":     "object",
		"required": []string{"influencerId"},
	})
	require.NoError(t, err)
	assert.NoError(t, v.Validate(map[string]interface{}{"influencerId": "inf-1"}))
	assert.Error(t, v.Validate(map[string]interface{}{}))
}

func TestNewSchemaValidator_BadSchema(t *testing.T) {
	_, err := NewSchemaValidator(`{"type": 12}`)
	assert.Error(t, err)
}
