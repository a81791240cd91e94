// internal/content/resolver/rules.go
package resolver

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"brand-content-engine/internal/models"
)

// Variable is one schema entry as seen by the rules. Name is lowercased.
type Variable struct {
	Key  string
	Name string
	Decl models.VariableDecl
}

func (v Variable) declaredType() string {
	return strings.ToLower(strings.TrimSpace(v.Decl.Type))
}

// Rule is one link of the classification chain.
type Rule struct {
	Name    string
	Match   func(v Variable) bool
	Resolve func(c *Context, v Variable) string
}

var (
	imageTypes   = []string{"image", "img", "photo", "picture", "media"}
	imageHints   = []string{"image", "img", "photo", "background", "bg", "icon", "avatar", "picture", "thumbnail", "cover", "screenshot", "logo"}
	nonImageHint = []string{"text", "label", "title"}
	textualTypes = []string{"text", "string", "textarea", "richtext"}
)

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// keyTokens splits a key on separators and lower-to-upper case changes,
// so "itemCount" and "item_count" both yield [item count].
func keyTokens(key string) []string {
	var tokens []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			tokens = append(tokens, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}
	var prev rune
	for _, r := range key {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
		prev = r
	}
	flush()
	return tokens
}

// hasToken matches whole key tokens, so "ask" never matches "task".
func hasToken(v Variable, words ...string) bool {
	for _, tok := range keyTokens(v.Key) {
		if isOneOf(tok, words...) {
			return true
		}
	}
	return false
}

func isOneOf(s string, set ...string) bool {
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}

func pickRule(name string, category models.Category, subs ...string) Rule {
	return Rule{
		Name:    name,
		Match:   func(v Variable) bool { return containsAny(v.Name, subs...) },
		Resolve: func(c *Context, v Variable) string { return c.Pick(category) },
	}
}

// DefaultRules returns the classification chain in priority order. The first
// matching rule wins, so a name such as "product_image" is an image and not
// a product name.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name: "explicit-image",
			Match: func(v Variable) bool {
				t := v.declaredType()
				return isOneOf(t, imageTypes...) || (t == "url" && containsAny(v.Name, imageHints...))
			},
			Resolve: resolveImage,
		},
		{
			Name: "implicit-image",
			Match: func(v Variable) bool {
				return v.declaredType() == "" &&
					containsAny(v.Name, imageHints...) &&
					!containsAny(v.Name, nonImageHint...)
			},
			Resolve: resolveImage,
		},
		{
			Name:    "color",
			Match:   func(v Variable) bool { return containsAny(v.Name, "color", "colour") },
			Resolve: resolveColor,
		},
		{
			Name:    "badge",
			Match:   func(v Variable) bool { return containsAny(v.Name, "category", "badge", "label") },
			Resolve: func(*Context, Variable) string { return BadgeLiteral },
		},
		{
			Name: "headline",
			Match: func(v Variable) bool {
				return (containsAny(v.Name, "headline", "heading", "title") || hasToken(v, "h1")) &&
					!strings.Contains(v.Name, "sub")
			},
			Resolve: func(c *Context, v Variable) string { return c.Pick(models.CategoryHeadlines) },
		},
		pickRule("subtitle", models.CategorySubheadlines, "subtitle", "subheadline", "subheading", "subhead", "tagline"),
		pickRule("cta", models.CategoryCTAs, "cta", "button", "action"),
		pickRule("quote", models.CategoryQuotes, "quote", "testimonial", "review"),
		{
			Name:  "feature-benefit",
			Match: func(v Variable) bool { return containsAny(v.Name, "feature", "benefit") },
			Resolve: func(c *Context, v Variable) string {
				if strings.Contains(v.Name, "benefit") && !strings.Contains(v.Name, "feature") {
					return c.Pick(models.CategoryBenefits)
				}
				return c.Pick(models.CategoryFeatures)
			},
		},
		{
			Name: "statistic",
			Match: func(v Variable) bool {
				// "discount" belongs to the price rule.
				name := strings.ReplaceAll(v.Name, "discount", "")
				return containsAny(name, "stat", "number", "metric", "percent") || hasToken(v, "count", "counter")
			},
			Resolve: func(c *Context, v Variable) string { return c.Pick(models.CategoryStatistics) },
		},
		pickRule("date", models.CategoryDates, "date", "time", "when", "deadline"),
		pickRule("price", models.CategoryPrices, "price", "cost", "amount", "discount", "offer"),
		{
			Name:  "contact-location",
			Match: func(v Variable) bool { return containsAny(v.Name, "contact", "email", "phone", "location", "address", "city", "country", "venue") },
			Resolve: func(c *Context, v Variable) string {
				if containsAny(v.Name, "contact", "email", "phone") {
					return c.Pick(models.CategoryContactInfo)
				}
				return c.Pick(models.CategoryLocations)
			},
		},
		pickRule("step", models.CategorySteps, "step", "instruction"),
		{
			Name:    "question",
			Match:   func(v Variable) bool { return containsAny(v.Name, "question", "faq") || hasToken(v, "ask") },
			Resolve: func(c *Context, v Variable) string { return c.Pick(models.CategoryQuestions) },
		},
		{
			Name:    "hashtag",
			Match:   func(v Variable) bool { return containsAny(v.Name, "hashtag", "tags") },
			Resolve: func(c *Context, v Variable) string { return strings.Join(c.First(models.CategoryHashtags, 3), " ") },
		},
		{
			Name:    "name",
			Match:   func(v Variable) bool { return strings.Contains(v.Name, "name") },
			Resolve: resolveName,
		},
		pickRule("body", models.CategoryBodyText, "body", "text", "description", "desc", "content", "paragraph", "copy", "message", "caption"),
		{
			Name:    "fallback",
			Match:   func(Variable) bool { return true },
			Resolve: resolveFallback,
		},
	}
}

func resolveImage(c *Context, v Variable) string {
	return c.images.Select(v.Name)
}

func resolveColor(_ *Context, v Variable) string {
	switch {
	case strings.Contains(v.Name, "primary"):
		return PrimaryColorToken
	case strings.Contains(v.Name, "secondary"):
		return SecondaryColorToken
	case strings.Contains(v.Name, "accent"):
		return AccentColorToken
	}
	return DefaultColor
}

func resolveName(c *Context, v Variable) string {
	switch {
	case containsAny(v.Name, "brand", "company", "business"):
		if c.brandName != "" {
			return c.brandName
		}
		return DefaultBrandName
	case strings.Contains(v.Name, "product"):
		return c.Pick(models.CategoryFeatures)
	}
	return c.Pick(models.CategoryHeadlines)
}

func resolveFallback(c *Context, v Variable) string {
	if v.Decl.Default != nil {
		return stringify(v.Decl.Default)
	}
	if isOneOf(v.declaredType(), textualTypes...) {
		return c.Pick(models.CategoryFeatures)
	}
	return Placeholder(v.Key)
}

func stringify(value interface{}) string {
	switch d := value.(type) {
	case string:
		return d
	case bool, float64, float32, int, int64, int32:
		return fmt.Sprint(d)
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(data)
}
