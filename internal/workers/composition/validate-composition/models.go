// internal/workers/composition/validate-composition/models.go
package validatecomposition

import "brand-content-engine/internal/models"

// Input carries explicit rules, or a platform whose configured rules apply.
type Input struct {
	Sections []models.Section         `json:"sections"`
	Rules    *models.CompositionRules `json:"rules,omitempty"`
	Platform string                   `json:"platform"`
}

type Output struct {
	Platform   string                       `json:"platform,omitempty"`
	Validation models.CompositionValidation `json:"validation"`
}
