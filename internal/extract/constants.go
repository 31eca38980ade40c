package extract

import "github.com/ppiankov/boycotts/internal/model"

// Label lines as they render on the boycotts page.
// The page has no machine-readable structure once flattened; these strings
// are the only stable markers, so any wording change upstream breaks extraction.
const (
	LabelCategory       = "Category:"
	LabelCalledBy       = "Called by:"
	LabelDateStarted    = "Date boycott started:"
	LabelCompanyProfile = "Company profile:"
	LabelRelatedGuides  = "Related Shopping Guides:"
)

// Window sizes, in lines. Fitted to one layout of one page.
const (
	// DefaultValueLookahead bounds the search for a label's value after the label line
	DefaultValueLookahead = 9
	// DefaultCompanyLookback bounds the backward search for the company name
	DefaultCompanyLookback = 15
	// DefaultFieldScan bounds the forward scan for a record's fields
	DefaultFieldScan = 80
	// DefaultGuidesLookahead bounds the related-guides list
	DefaultGuidesLookahead = 14
	// DefaultMinReasonLength is both the description-line threshold and the
	// reason length that alone qualifies a record
	DefaultMinReasonLength = 50
)

// Company-name length bounds, exclusive, in characters
const (
	minNameLength = 2
	maxNameLength = 100
)

// skipPatterns are lowercase substrings of navigation and section headings
var skipPatterns = []string{
	"energy", "fashion", "clothing", "food &", "health &", "home &", "money",
	"retailers", "technology", "travel", "boycotts list", "also in", "navigation",
	"main navigation", "about us", "campaigns", "contact", "connect", "sign in",
	"shopping guides", "explore ethical", "skip to", "sign up", "subscribe",
}

// labelPrefixes disqualify a line as a company name or description fragment
var labelPrefixes = []string{
	"Category:", "Called by:", "Date boycott", "Company profile", "Related", "Share", "View",
}

// guideExcludePrefixes are skipped inside a related-guides list
var guideExcludePrefixes = []string{
	"Category:", "Called by:", "Date boycott", "Company profile",
}

// guideStopPrefixes end a related-guides list
var guideStopPrefixes = []string{
	"Category:", "Called by:",
}

// Options tunes the record extractor
type Options struct {
	ValueLookahead  int
	CompanyLookback int
	FieldScan       int
	GuidesLookahead int
	MinReasonLength int
}

// DefaultOptions returns the windows the page layout was fitted with
func DefaultOptions() Options {
	return Options{
		ValueLookahead:  DefaultValueLookahead,
		CompanyLookback: DefaultCompanyLookback,
		FieldScan:       DefaultFieldScan,
		GuidesLookahead: DefaultGuidesLookahead,
		MinReasonLength: DefaultMinReasonLength,
	}
}

// OptionsFromConfig overlays positive config values on DefaultOptions
func OptionsFromConfig(cfg model.ExtractConfig) Options {
	opts := DefaultOptions()
	if cfg.ValueLookahead > 0 {
		opts.ValueLookahead = cfg.ValueLookahead
	}
	if cfg.CompanyLookback > 0 {
		opts.CompanyLookback = cfg.CompanyLookback
	}
	if cfg.FieldScan > 0 {
		opts.FieldScan = cfg.FieldScan
	}
	if cfg.GuidesLookahead > 0 {
		opts.GuidesLookahead = cfg.GuidesLookahead
	}
	if cfg.MinReasonLength > 0 {
		opts.MinReasonLength = cfg.MinReasonLength
	}
	return opts
}
