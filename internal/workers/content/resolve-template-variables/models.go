// internal/workers/content/resolve-template-variables/models.go
package resolvetemplatevariables

import "brand-content-engine/internal/models"

type Input struct {
	BrandID        string                `json:"brandId"`
	BrandName      string                `json:"brandName"`
	VariableSchema models.VariableSchema `json:"variableSchema"`
	ContentMatrix  *models.ContentMatrix `json:"contentMatrix,omitempty"`
	ImagePool      models.ImagePool      `json:"imagePool"`
	IncludeTrace   bool                  `json:"includeTrace"`
}

type Output struct {
	Bindings       models.Bindings   `json:"bindings"`
	UnresolvedKeys []string          `json:"unresolvedKeys"`
	RuleTrace      map[string]string `json:"ruleTrace,omitempty"`
}
