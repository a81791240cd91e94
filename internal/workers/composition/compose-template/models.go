// internal/workers/composition/compose-template/models.go
package composetemplate

import "brand-content-engine/internal/models"

type Input struct {
	UserIntent models.UserIntent `json:"userIntent"`
	BrandDNA   models.BrandDNA   `json:"brandDNA"`
	Validate   bool              `json:"validate"`
}

type Output struct {
	ComposedTemplate *models.ComposedTemplate     `json:"composedTemplate"`
	Validation       *models.CompositionValidation `json:"validation,omitempty"`
}
