// internal/workers/matching/calculate-match-score/validation.go
package calculatematchscore

import "nanomatch/internal/common/validation"

const inputSchema = `{
  "type": "object",
  "required": ["smeId", "influencerId"],
  "properties": {
    "smeId": {"type": "string", "minLength": 1},
    "influencerId": {"type": "string", "minLength": 1}
  }
}`

var inputValidator = validation.MustSchemaValidator(inputSchema)

// GetInputSchema returns the compiled schema for job variables.
func GetInputSchema() *validation.SchemaValidator {
	return inputValidator
}
