package model

// Boycott is one campaign record reconstructed from the boycotts page text
type Boycott struct {
	Company        string   `json:"company"`        // Target company, unique case-insensitively
	Category       string   `json:"category"`       // Free-text category (e.g., "Human Rights")
	CalledBy       string   `json:"calledBy"`       // Organizer, empty if absent
	DateStarted    string   `json:"dateStarted"`    // Free-text start date
	CompanyProfile string   `json:"companyProfile"` // Profile link label
	Reason         string   `json:"reason"`         // Space-joined description fragments
	RelatedGuides  []string `json:"relatedGuides"`  // Related shopping guides, never null
}

// NewBoycott returns an empty record with a non-nil guides slice
func NewBoycott() Boycott {
	return Boycott{RelatedGuides: []string{}}
}

// Archive is the envelope written to the raw boycotts file
type Archive struct {
	Source    string    `json:"source"`
	URL       string    `json:"url"`
	ScrapedAt string    `json:"scrapedAt"` // ISO-8601, UTC, millisecond precision
	Boycotts  []Boycott `json:"boycotts"`
}

// ScrapedAtFormat is the timestamp layout used for Archive.ScrapedAt
const ScrapedAtFormat = "2006-01-02T15:04:05.000Z07:00"

// EvilCompany is the lookup entry consumed by the downstream app
type EvilCompany struct {
	Evil         bool     `json:"evil"`
	Reason       string   `json:"reason"`
	Alternatives []string `json:"alternatives"` // Curated downstream, always empty here
	Supports     []string `json:"supports"`     // Inferred tags
}

// Tags inferred from category and organizer text
const (
	TagIsrael        = "Israel"
	TagLabor         = "Labor"
	TagEnvironment   = "Environment"
	TagAnimalTesting = "Animal-Testing"
	TagTaxAvoidance  = "Tax Avoidance"
)

// FetchMeta contains HTTP metadata from fetching the source page
type FetchMeta struct {
	StatusCode   int    `json:"status_code"`
	ContentType  string `json:"content_type,omitempty"`
	LastModified string `json:"last_modified,omitempty"`
	ETag         string `json:"etag,omitempty"`
	FinalURL     string `json:"final_url,omitempty"`
	FromCache    bool   `json:"from_cache"`
	Truncated    bool   `json:"truncated,omitempty"` // Body was cut at the max body size
}
