// internal/workers/directory/query-influencers/models.go
package queryinfluencers

type Input struct {
	QueryType    string   `json:"queryType"`
	InfluencerID string   `json:"influencerId,omitempty"`
	SMEID        string   `json:"smeId,omitempty"`
	SearchTerm   string   `json:"searchTerm,omitempty"`
	Filters      *Filters `json:"filters,omitempty"`
	Limit        int      `json:"limit,omitempty"`
}

type Filters struct {
	Niche         string  `json:"niche,omitempty"`
	Location      string  `json:"location,omitempty"`
	MinPrice      float64 `json:"minPrice,omitempty"`
	MaxPrice      float64 `json:"maxPrice,omitempty"`
	MinEngagement float64 `json:"minEngagement,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"`
}
