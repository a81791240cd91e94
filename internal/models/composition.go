// internal/models/composition.go
package models

// UserIntent is the caller-declared purpose of the content being produced.
type UserIntent struct {
	Primary        string   `json:"primary"`
	Secondary      []string `json:"secondary,omitempty"`
	Platform       []string `json:"platform,omitempty"`
	Urgency        string   `json:"urgency,omitempty"`
	ConversionGoal string   `json:"conversionGoal,omitempty"`
}

// BrandDNA carries the personality attributes used to bias section choice.
type BrandDNA struct {
	Archetype      string   `json:"archetype,omitempty"`
	Industry       string   `json:"industry,omitempty"`
	Voice          string   `json:"voice,omitempty"`
	EmotionalTone  []string `json:"emotionalTone,omitempty"`
	TargetAudience string   `json:"targetAudience,omitempty"`
}

// Section is a reusable layout fragment returned by the candidate query.
type Section struct {
	ID                  string   `json:"id"`
	Category            string   `json:"category"`
	ContentType         string   `json:"contentType,omitempty"`
	Height              int      `json:"height"`
	IntentKeywords      []string `json:"intentKeywords"`
	BrandArchetypeMatch []string `json:"brandArchetypeMatch"`
	IndustryFit         []string `json:"industryFit"`
	PlatformOptimized   []string `json:"platformOptimized"`
	EmotionalTone       []string `json:"emotionalTone"`
	ConversionGoal      string   `json:"conversionGoal,omitempty"`
}

// CompositionRules constrains a composition for one platform.
type CompositionRules struct {
	MinSections        int      `json:"minSections" yaml:"min_sections"`
	MaxSections        int      `json:"maxSections" yaml:"max_sections"`
	RequiredCategories []string `json:"requiredCategories" yaml:"required_categories"`
	OptionalCategories []string `json:"optionalCategories" yaml:"optional_categories"`
	HeightBudget       int      `json:"heightBudget" yaml:"height_budget"`
	AllowOverlap       bool     `json:"allowOverlap" yaml:"allow_overlap"`
}

// SectionScore explains why a section was selected.
type SectionScore struct {
	SectionID string `json:"sectionId"`
	Score     int    `json:"score"`
	Reason    string `json:"reason"`
}

// ComposedTemplate is the ordered result of a composition run.
type ComposedTemplate struct {
	CompositionID       string         `json:"compositionId"`
	Platform            string         `json:"platform"`
	Intent              string         `json:"intent"`
	SectionIDs          []string       `json:"sectionIds"`
	Sections            []Section      `json:"-"`
	TotalHeight         int            `json:"totalHeight"`
	CompositionStrategy string         `json:"compositionStrategy"`
	ScoreBreakdown      []SectionScore `json:"scoreBreakdown"`
}

// CompositionValidation is the non-mutating report of ValidateComposition.
type CompositionValidation struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}
