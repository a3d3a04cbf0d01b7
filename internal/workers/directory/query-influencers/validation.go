// internal/workers/directory/query-influencers/validation.go
package queryinfluencers

import "nanomatch/internal/common/validation"

const inputSchema = `{
  "type": "object",
  "required": ["queryType"],
  "properties": {
    "queryType": {
      "type": "string",
      "enum": ["influencer_by_id", "influencers_filtered", "top_influencers", "search_influencers", "sme_profile"]
    },
    "influencerId": {"type": "string"},
    "smeId": {"type": "string"},
    "searchTerm": {"type": "string", "maxLength": 100},
    "limit": {"type": "integer", "minimum": 0},
    "filters": {
      "type": "object",
      "properties": {
        "niche": {"type": "string"},
        "location": {"type": "string"},
        "minPrice": {"type": "number", "minimum": 0},
        "maxPrice": {"type": "number", "minimum": 0},
        "minEngagement": {"type": "number", "minimum": 0, "maximum": 100}
      }
    }
  }
}`

var inputValidator = validation.MustSchemaValidator(inputSchema)

// GetInputSchema returns the compiled schema for job variables.
func GetInputSchema() *validation.SchemaValidator {
	return inputValidator
}
