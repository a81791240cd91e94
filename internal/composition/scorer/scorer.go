// Package scorer rates how well a layout section fits an intent and brand.
package scorer

import (
	"math"
	"strings"

	"brand-content-engine/internal/models"
)

// Weights of the scoring rubric. Each term is capped before summing.
const (
	KeywordWeight   = 10.0
	KeywordCap      = 30.0
	ArchetypeWeight = 25.0
	IndustryWeight  = 20.0
	PlatformWeight  = 7.5
	PlatformCap     = 15.0
	ToneWeight      = 5.0
	ToneCap         = 10.0

	MaxScore = 100
)

// Breakdown is the per-term contribution of one score.
type Breakdown struct {
	Keywords  float64 `json:"keywords"`
	Archetype float64 `json:"archetype"`
	Industry  float64 `json:"industry"`
	Platform  float64 `json:"platform"`
	Tone      float64 `json:"tone"`
}

// Total clamps and rounds the sum of the terms.
func (b Breakdown) Total() int {
	sum := b.Keywords + b.Archetype + b.Industry + b.Platform + b.Tone
	return int(math.Round(math.Max(0, math.Min(MaxScore, sum))))
}

// Score returns a value in [0,100]. Comparisons ignore case and surrounding
// whitespace.
func Score(section models.Section, intent models.UserIntent, dna models.BrandDNA) int {
	return Explain(section, intent, dna).Total()
}

// Explain returns the contribution of every term.
func Explain(section models.Section, intent models.UserIntent, dna models.BrandDNA) Breakdown {
	keywords := append([]string{intent.Primary}, intent.Secondary...)

	var b Breakdown
	b.Keywords = math.Min(float64(overlap(section.IntentKeywords, keywords))*KeywordWeight, KeywordCap)
	if contains(section.BrandArchetypeMatch, dna.Archetype) {
		b.Archetype = ArchetypeWeight
	}
	if contains(section.IndustryFit, dna.Industry) {
		b.Industry = IndustryWeight
	}
	b.Platform = math.Min(float64(overlap(section.PlatformOptimized, intent.Platform))*PlatformWeight, PlatformCap)
	b.Tone = math.Min(float64(overlap(section.EmotionalTone, dna.EmotionalTone))*ToneWeight, ToneCap)
	return b
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func contains(list []string, value string) bool {
	v := normalize(value)
	if v == "" {
		return false
	}
	for _, item := range list {
		if normalize(item) == v {
			return true
		}
	}
	return false
}

// overlap counts distinct non-empty values of want present in have.
func overlap(have, want []string) int {
	if len(have) == 0 || len(want) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		if n := normalize(h); n != "" {
			set[n] = struct{}{}
		}
	}

	count := 0
	seen := make(map[string]struct{}, len(want))
	for _, w := range want {
		n := normalize(w)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		if _, ok := set[n]; ok {
			count++
		}
	}
	return count
}
