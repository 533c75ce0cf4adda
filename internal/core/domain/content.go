package domain

// GeneratedContent is the structured website content produced by synthesis.
type GeneratedContent struct {
	Hero     HeroSection     `json:"hero"`
	About    AboutSection    `json:"about"`
	Services ServicesSection `json:"services"`
	Contact  ContactSection  `json:"contact"`
	Pages    []string        `json:"pages"`
}

// HeroSection is the page header block.
type HeroSection struct {
	Headline    string `json:"headline"`
	Subheadline string `json:"subheadline"`
	CTAText     string `json:"ctaText"`
}

// AboutSection describes the business.
type AboutSection struct {
	Content    string   `json:"content"`
	Highlights []string `json:"highlights"`
}

// ServicesSection lists the services offered.
type ServicesSection struct {
	Title string        `json:"title"`
	Items []ServiceItem `json:"items"`
}

// ServiceItem is a single service entry.
type ServiceItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ContactSection holds contact details.
type ContactSection struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

// GenerationResult is the outcome of context-aware generation.
type GenerationResult struct {
	// Content is the synthesized content.
	Content GeneratedContent `json:"content"`

	// ProfileID is the id of the profile stored with the content.
	ProfileID string `json:"profileId"`

	// Template is the template the content was generated for.
	Template string `json:"template"`

	// Fallback is true when the deterministic template produced the content.
	Fallback bool `json:"fallback"`

	// SimilarProfiles is the number of similar profiles used as context.
	SimilarProfiles int `json:"similarProfiles"`

	// RelevantDocuments is the number of document passages used as context.
	RelevantDocuments int `json:"relevantDocuments"`
}
