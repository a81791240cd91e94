// internal/models/matrix.go
package models

// Category names a bucket of the content matrix. The string value doubles as
// the JSON field name used by the generation backend and the stores.
type Category string

const (
	CategoryHeadlines     Category = "headlines"
	CategorySubheadlines  Category = "subheadlines"
	CategoryBodyText      Category = "body_text"
	CategoryCTAs          Category = "ctas"
	CategoryQuotes        Category = "quotes"
	CategoryHashtags      Category = "hashtags"
	CategoryFeatures      Category = "features"
	CategoryBenefits      Category = "benefits"
	CategoryStatistics    Category = "statistics"
	CategoryQuestions     Category = "questions"
	CategoryDates         Category = "dates"
	CategoryPrices        Category = "prices"
	CategorySteps         Category = "steps"
	CategoryLocations     Category = "locations"
	CategoryContactInfo   Category = "contact_info"
	CategoryImageKeywords Category = "image_keywords"
	CategoryVisualStyle   Category = "visual_style"
)

// ListCategories is the ordered set of string-list categories.
var ListCategories = []Category{
	CategoryHeadlines,
	CategorySubheadlines,
	CategoryBodyText,
	CategoryCTAs,
	CategoryQuotes,
	CategoryHashtags,
	CategoryFeatures,
	CategoryBenefits,
	CategoryStatistics,
	CategoryQuestions,
	CategoryDates,
	CategoryPrices,
	CategorySteps,
	CategoryLocations,
	CategoryContactInfo,
	CategoryImageKeywords,
}

// AllCategories is ListCategories plus the scalar visual_style.
var AllCategories = append(append([]Category{}, ListCategories...), CategoryVisualStyle)

// ContentMatrix is the per-brand bank of generated marketing copy.
type ContentMatrix struct {
	Headlines     []string `json:"headlines"`
	Subheadlines  []string `json:"subheadlines"`
	BodyText      []string `json:"body_text"`
	CTAs          []string `json:"ctas"`
	Quotes        []string `json:"quotes"`
	Hashtags      []string `json:"hashtags"`
	Features      []string `json:"features"`
	Benefits      []string `json:"benefits"`
	Statistics    []string `json:"statistics"`
	Questions     []string `json:"questions"`
	Dates         []string `json:"dates"`
	Prices        []string `json:"prices"`
	Steps         []string `json:"steps"`
	Locations     []string `json:"locations"`
	ContactInfo   []string `json:"contact_info"`
	ImageKeywords []string `json:"image_keywords"`
	VisualStyle   string   `json:"visual_style"`
}

// List returns the items stored under a list category, or nil for the scalar
// category and unknown names.
func (m *ContentMatrix) List(c Category) []string {
	if m == nil {
		return nil
	}
	switch c {
	case CategoryHeadlines:
		return m.Headlines
	case CategorySubheadlines:
		return m.Subheadlines
	case CategoryBodyText:
		return m.BodyText
	case CategoryCTAs:
		return m.CTAs
	case CategoryQuotes:
		return m.Quotes
	case CategoryHashtags:
		return m.Hashtags
	case CategoryFeatures:
		return m.Features
	case CategoryBenefits:
		return m.Benefits
	case CategoryStatistics:
		return m.Statistics
	case CategoryQuestions:
		return m.Questions
	case CategoryDates:
		return m.Dates
	case CategoryPrices:
		return m.Prices
	case CategorySteps:
		return m.Steps
	case CategoryLocations:
		return m.Locations
	case CategoryContactInfo:
		return m.ContactInfo
	case CategoryImageKeywords:
		return m.ImageKeywords
	}
	return nil
}

// EmptyCategories reports list categories that hold no items.
func (m *ContentMatrix) EmptyCategories() []Category {
	var empty []Category
	for _, c := range ListCategories {
		if len(m.List(c)) == 0 {
			empty = append(empty, c)
		}
	}
	return empty
}
