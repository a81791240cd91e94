// internal/workers/composition/score-section/models.go
package scoresection

import (
	"brand-content-engine/internal/composition/scorer"
	"brand-content-engine/internal/models"
)

type Input struct {
	Sections   []models.Section  `json:"sections"`
	UserIntent models.UserIntent `json:"userIntent"`
	BrandDNA   models.BrandDNA   `json:"brandDNA"`
}

type Output struct {
	Scores        []SectionScore `json:"scores"`
	BestSectionID string         `json:"bestSectionId,omitempty"`
}

// SectionScore keeps the input order of the sections.
type SectionScore struct {
	SectionID string           `json:"sectionId"`
	Category  string           `json:"category"`
	Score     int              `json:"score"`
	Breakdown scorer.Breakdown `json:"breakdown"`
}
