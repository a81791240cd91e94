// internal/workers/content/generate-content-matrix/models.go
package generatecontentmatrix

import "brand-content-engine/internal/models"

type Input struct {
	BrandID         string `json:"brandId"`
	BrandContext    string `json:"brandContext"`
	ForceRegenerate bool   `json:"forceRegenerate"`
}

type Output struct {
	BrandID       string                `json:"brandId"`
	ContentMatrix *models.ContentMatrix `json:"contentMatrix"`
	Generated     bool                  `json:"generated"`
}
