// internal/workers/matching/recommend-influencers/validation.go
package recommendinfluencers

import "nanomatch/internal/common/validation"

// limit is optional; zero or a missing value means the configured default.
const inputSchema = `{
  "type": "object",
  "required": ["smeId"],
  "properties": {
    "smeId": {"type": "string", "minLength": 1},
    "limit": {"type": "integer", "minimum": 0}
  }
}`

var inputValidator = validation.MustSchemaValidator(inputSchema)

func GetInputSchema() *validation.SchemaValidator {
	return inputValidator
}
