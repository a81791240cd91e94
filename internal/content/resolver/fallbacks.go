// internal/content/resolver/fallbacks.go
package resolver

import "brand-content-engine/internal/models"

const (
	BadgeLiteral     = "Featured"
	DefaultBrandName = "Your Brand"
	DefaultColor     = "#000000"

	PrimaryColorToken   = "var(--brand-primary)"
	SecondaryColorToken = "var(--brand-secondary)"
	AccentColorToken    = "var(--brand-accent)"
)

// staticFallbacks are used only when the matrix category is empty.
var staticFallbacks = map[models.Category][]string{
	models.CategoryHeadlines:    {"Discover Something New", "Made for You", "Experience the Difference"},
	models.CategorySubheadlines: {"Quality you can count on", "Crafted with care for every customer"},
	models.CategoryBodyText:     {"We bring care and craft to everything we do, so you can focus on what matters most."},
	models.CategoryCTAs:         {"Learn More", "Get Started", "Shop Now"},
	models.CategoryQuotes:       {"\"Absolutely wonderful experience from start to finish.\""},
	models.CategoryHashtags:     {"#new", "#quality", "#community"},
	models.CategoryFeatures:     {"Premium quality", "Fast delivery", "Friendly support"},
	models.CategoryBenefits:     {"Save time every day", "Feel confident in every choice"},
	models.CategoryStatistics:   {"100% satisfaction", "1,000+ happy customers"},
	models.CategoryQuestions:    {"Ready to get started?", "Why choose us?"},
	models.CategoryDates:        {"Coming soon", "Available now"},
	models.CategoryPrices:       {"Contact us for pricing", "Special offer available"},
	models.CategorySteps:        {"Choose your plan", "Tell us what you need", "Enjoy the results"},
	models.CategoryLocations:    {"Visit us in store", "Available online"},
	models.CategoryContactInfo:  {"Get in touch today"},
}
