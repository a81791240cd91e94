package composer

import (
	"fmt"
	"strings"

	"brand-content-engine/internal/models"
)

// ValidateComposition reports every rule the selection breaks. It never
// changes the selection. The height budget is only enforced when the
// platform disallows overlap.
func ValidateComposition(selection []models.Section, rules models.CompositionRules) models.CompositionValidation {
	errs := []string{}

	if n := len(selection); n < rules.MinSections {
		errs = append(errs, fmt.Sprintf("expected at least %d sections, got %d", rules.MinSections, n))
	} else if n > rules.MaxSections {
		errs = append(errs, fmt.Sprintf("expected at most %d sections, got %d", rules.MaxSections, n))
	}

	present := make(map[string]struct{}, len(selection))
	total := 0
	for _, s := range selection {
		present[strings.ToLower(strings.TrimSpace(s.Category))] = struct{}{}
		total += s.Height
	}
	for _, required := range rules.RequiredCategories {
		if _, ok := present[strings.ToLower(strings.TrimSpace(required))]; !ok {
			errs = append(errs, fmt.Sprintf("missing required category %q", required))
		}
	}

	if !rules.AllowOverlap && total > rules.HeightBudget {
		errs = append(errs, fmt.Sprintf("total height %d exceeds budget %d", total, rules.HeightBudget))
	}

	return models.CompositionValidation{
		IsValid: len(errs) == 0,
		Errors:  errs,
	}
}
