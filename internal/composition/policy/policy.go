// Package policy holds the intent and platform lookup tables used by the
// composer. Tables are plain values so tests can inject alternate sets.
package policy

import (
	"fmt"
	"os"
	"strings"

	apperrors "brand-content-engine/internal/common/errors"
	"brand-content-engine/internal/models"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultVersion identifies the built-in tables.
	DefaultVersion = "2024-06"

	// BaselinePlatform is used when an intent names no known platform.
	BaselinePlatform = "website"

	// HeroCategory is always selected first and is exempt from the score threshold.
	HeroCategory = "hero"
)

// Policy is the composition preference for one primary intent.
type Policy struct {
	PreferredCategories []string `yaml:"preferred_categories" json:"preferredCategories"`
	Tags                []string `yaml:"tags" json:"tags"`
	Tone                string   `yaml:"tone" json:"tone"`
	ConversionGoal      string   `yaml:"conversion_goal" json:"conversionGoal"`
}

// Tables is a versioned set of intent policies and platform rules.
type Tables struct {
	Version   string                             `yaml:"version"`
	Baseline  string                             `yaml:"baseline_platform"`
	Intents   map[string]Policy                  `yaml:"intents"`
	Platforms map[string]models.CompositionRules `yaml:"platforms"`
}

// Default returns a fresh copy of the built-in tables.
func Default() *Tables {
	return &Tables{
		Version:  DefaultVersion,
		Baseline: BaselinePlatform,
		Intents: map[string]Policy{
			"product-launch": {
				PreferredCategories: []string{"hero", "product", "bridge", "cta"},
				Tags:                []string{"new", "launch", "innovation"},
				Tone:                "exciting",
				ConversionGoal:      "purchase",
			},
			"brand-awareness": {
				PreferredCategories: []string{"hero", "story", "values", "social-proof"},
				Tags:                []string{"brand", "story", "identity"},
				Tone:                "inspiring",
				ConversionGoal:      "engagement",
			},
			"social-proof": {
				PreferredCategories: []string{"hero", "testimonial", "stats", "cta"},
				Tags:                []string{"trust", "reviews", "results"},
				Tone:                "trustworthy",
				ConversionGoal:      "trust",
			},
			"lead-generation": {
				PreferredCategories: []string{"hero", "benefits", "form", "cta"},
				Tags:                []string{"signup", "offer", "value"},
				Tone:                "persuasive",
				ConversionGoal:      "signup",
			},
			"event-promotion": {
				PreferredCategories: []string{"hero", "event-details", "schedule", "cta"},
				Tags:                []string{"event", "date", "register"},
				Tone:                "urgent",
				ConversionGoal:      "registration",
			},
			"sale-promotion": {
				PreferredCategories: []string{"hero", "offer", "product", "countdown", "cta"},
				Tags:                []string{"sale", "discount", "limited"},
				Tone:                "urgent",
				ConversionGoal:      "purchase",
			},
			"educational": {
				PreferredCategories: []string{"hero", "steps", "faq", "bridge"},
				Tags:                []string{"learn", "guide", "how-to"},
				Tone:                "helpful",
				ConversionGoal:      "engagement",
			},
		},
		Platforms: map[string]models.CompositionRules{
			"instagram": {
				MinSections:        1,
				MaxSections:        3,
				RequiredCategories: []string{"hero"},
				OptionalCategories: []string{"product", "cta", "testimonial"},
				HeightBudget:       1350,
				AllowOverlap:       false,
			},
			"facebook": {
				MinSections:        1,
				MaxSections:        4,
				RequiredCategories: []string{"hero"},
				OptionalCategories: []string{"product", "cta", "testimonial", "offer"},
				HeightBudget:       1800,
				AllowOverlap:       false,
			},
			"linkedin": {
				MinSections:        1,
				MaxSections:        4,
				RequiredCategories: []string{"hero"},
				OptionalCategories: []string{"stats", "testimonial", "cta"},
				HeightBudget:       1600,
				AllowOverlap:       false,
			},
			"twitter": {
				MinSections:        1,
				MaxSections:        2,
				RequiredCategories: []string{"hero"},
				OptionalCategories: []string{"cta"},
				HeightBudget:       900,
				AllowOverlap:       false,
			},
			"email": {
				MinSections:        2,
				MaxSections:        5,
				RequiredCategories: []string{"hero", "cta"},
				OptionalCategories: []string{"product", "benefits", "testimonial"},
				HeightBudget:       3000,
				AllowOverlap:       false,
			},
			"story": {
				MinSections:        1,
				MaxSections:        2,
				RequiredCategories: []string{"hero"},
				OptionalCategories: []string{"cta"},
				HeightBudget:       1920,
				AllowOverlap:       true,
			},
			BaselinePlatform: {
				MinSections:        2,
				MaxSections:        6,
				RequiredCategories: []string{"hero"},
				OptionalCategories: []string{"product", "bridge", "testimonial", "stats", "faq", "cta"},
				HeightBudget:       4000,
				AllowOverlap:       true,
			},
		},
	}
}

// LoadFile reads a YAML policy file. Entries in the file override or extend
// the built-in tables with the same key.
func LoadFile(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewPolicyLoadFailedError(path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, apperrors.NewPolicyLoadFailedError(path, err)
	}
	return t, nil
}

// Parse decodes YAML policy tables on top of Default.
func Parse(data []byte) (*Tables, error) {
	t := Default()
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("failed to parse policy tables: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks that the tables are internally consistent.
func (t *Tables) Validate() error {
	if t.Baseline == "" {
		return fmt.Errorf("baseline_platform is required")
	}
	if _, ok := t.Platforms[t.Baseline]; !ok {
		return fmt.Errorf("baseline platform %q has no rules", t.Baseline)
	}
	for name, r := range t.Platforms {
		if r.MaxSections < 0 || r.MinSections < 0 {
			return fmt.Errorf("platform %q: section bounds must not be negative", name)
		}
		if r.MinSections > r.MaxSections {
			return fmt.Errorf("platform %q: min_sections %d exceeds max_sections %d", name, r.MinSections, r.MaxSections)
		}
		if r.HeightBudget < 0 {
			return fmt.Errorf("platform %q: height_budget must not be negative", name)
		}
	}
	return nil
}

// PolicyFor looks up the policy of a primary intent.
func (t *Tables) PolicyFor(intent string) (Policy, bool) {
	p, ok := t.Intents[strings.ToLower(strings.TrimSpace(intent))]
	return p, ok
}

// RulesFor returns the rules of the first known platform, or the baseline.
func (t *Tables) RulesFor(platforms []string) (string, models.CompositionRules) {
	for _, p := range platforms {
		name := strings.ToLower(strings.TrimSpace(p))
		if r, ok := t.Platforms[name]; ok {
			return name, r
		}
	}
	return t.Baseline, t.Platforms[t.Baseline]
}
