// internal/content/matrix/prompt.go
package matrix

import (
	"fmt"
	"strings"

	"brand-content-engine/internal/models"
)

const (
	SchemaName = "brand_content_matrix"

	minItems = 5
	maxItems = 10
)

// categoryGuidance describes what the backend should write per category.
var categoryGuidance = map[models.Category]string{
	models.CategoryHeadlines:     "short attention-grabbing headlines, under 8 words",
	models.CategorySubheadlines:  "supporting subheadlines that expand a headline in one sentence",
	models.CategoryBodyText:      "body paragraphs of 2-3 sentences in the brand voice",
	models.CategoryCTAs:          "call-to-action button labels, 2-4 words, action verbs first",
	models.CategoryQuotes:        "customer testimonial quotes written in first person",
	models.CategoryHashtags:      "hashtags including the leading # and no spaces",
	models.CategoryFeatures:      "concrete product or service features",
	models.CategoryBenefits:      "customer-facing benefits phrased as outcomes",
	models.CategoryStatistics:    "plausible headline statistics such as \"10,000+ customers\"",
	models.CategoryQuestions:     "questions a prospective customer would ask",
	models.CategoryDates:         "event or campaign date phrases such as \"Every Saturday\"",
	models.CategoryPrices:        "price points or offers such as \"From $29/month\"",
	models.CategorySteps:         "short how-it-works steps, one action each",
	models.CategoryLocations:     "locations, venues or service areas",
	models.CategoryContactInfo:   "contact lines such as an email, phone or booking handle",
	models.CategoryImageKeywords: "visual search keywords describing photography that fits the brand, one concept per item",
	models.CategoryVisualStyle:   "one sentence describing the brand's visual style: palette, lighting, composition and mood",
}

// BuildPrompt names every category so one call fills the whole matrix.
func BuildPrompt(brandContext string) string {
	var b strings.Builder
	b.WriteString("You are a senior brand copywriter. Using the brand context below, write a reusable content bank.\n\n")
	b.WriteString("BRAND CONTEXT:\n")
	b.WriteString(strings.TrimSpace(brandContext))
	b.WriteString("\n\nReturn a JSON object with exactly these fields:\n")

	for _, c := range models.ListCategories {
		fmt.Fprintf(&b, "- %s: array of %d-%d varied %s\n", c, minItems, maxItems, categoryGuidance[c])
	}
	fmt.Fprintf(&b, "- %s: string, %s\n", models.CategoryVisualStyle, categoryGuidance[models.CategoryVisualStyle])

	b.WriteString("\nEvery array must be non-empty. Do not repeat items across or within fields. Stay consistent with the brand voice.")
	return b.String()
}

// RequestSchema is the schema sent to the backend, item counts included.
func RequestSchema() map[string]interface{} {
	return matrixSchema(true)
}

// ResponseSchema checks shape only: every field present with the right type.
func ResponseSchema() map[string]interface{} {
	return matrixSchema(false)
}

func matrixSchema(withCounts bool) map[string]interface{} {
	properties := make(map[string]interface{}, len(models.AllCategories))
	required := make([]interface{}, 0, len(models.AllCategories))

	for _, c := range models.ListCategories {
		prop := map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
		}
		if withCounts {
			prop["minItems"] = minItems
			prop["maxItems"] = maxItems
		}
		properties[string(c)] = prop
		required = append(required, string(c))
	}
	properties[string(models.CategoryVisualStyle)] = map[string]interface{}{"type": "string"}
	required = append(required, string(models.CategoryVisualStyle))

	return map[string]interface{}{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}
