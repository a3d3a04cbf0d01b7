// internal/models/sme.go
package models

// SME is a small or medium enterprise looking for an influencer campaign.
type SME struct {
	ID             string  `json:"id"`
	Name           string  `json:"name,omitempty"`
	Budget         float64 `json:"budget"`
	Niche          string  `json:"niche"`
	Location       string  `json:"location"`
	TargetAudience string  `json:"targetAudience,omitempty"`
}
