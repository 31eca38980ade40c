package transform

import (
	"fmt"
	"strings"

	"github.com/ppiankov/boycotts/internal/model"
)

// tagRule maps lowercase category substrings to a tag
type tagRule struct {
	tag      string
	keywords []string
}

var categoryRules = []tagRule{
	{tag: model.TagLabor, keywords: []string{"workers", "labor", "workers' rights", "workers’ rights"}},
	{tag: model.TagEnvironment, keywords: []string{"environment", "climate"}},
	{tag: model.TagAnimalTesting, keywords: []string{"animal"}},
	{tag: model.TagTaxAvoidance, keywords: []string{"tax"}},
}

// InferTags derives the supports tags for a record.
// Rules are evaluated independently; with no match the result is Labor alone.
func InferTags(category, calledBy string) []string {
	cat := strings.ToLower(category)
	var tags []string

	// Most human-rights boycotts on the page are BDS campaigns
	if strings.Contains(cat, "human rights") || strings.Contains(strings.ToLower(calledBy), "bds") {
		tags = append(tags, model.TagIsrael)
	}

	for _, rule := range categoryRules {
		if containsAny(cat, rule.keywords) {
			tags = append(tags, rule.tag)
		}
	}

	if len(tags) == 0 {
		return []string{model.TagLabor}
	}
	return tags
}

// Reason returns the record's description, or a synthesized one when empty
func Reason(b model.Boycott) string {
	if b.Reason != "" {
		return b.Reason
	}
	return fmt.Sprintf("%s - Called by %s", b.Category, b.CalledBy)
}

// Key normalizes a company name into a lookup key
func Key(company string) string {
	return strings.ToLower(strings.TrimSpace(company))
}

// Collision records two records that normalized to the same key
type Collision struct {
	Key      string
	Previous string
	Current  string
}

// EvilCompanies maps records to the downstream lookup.
// Records without a company are skipped; on a key collision the later record
// wins and the collision is reported.
func EvilCompanies(records []model.Boycott) (map[string]model.EvilCompany, []Collision) {
	out := make(map[string]model.EvilCompany, len(records))
	owners := make(map[string]string, len(records))
	var collisions []Collision

	for _, rec := range records {
		if rec.Company == "" {
			continue
		}

		key := Key(rec.Company)
		if prev, ok := owners[key]; ok {
			collisions = append(collisions, Collision{Key: key, Previous: prev, Current: rec.Company})
		}
		owners[key] = rec.Company

		out[key] = model.EvilCompany{
			Evil:         true,
			Reason:       Reason(rec),
			Alternatives: []string{},
			Supports:     InferTags(rec.Category, rec.CalledBy),
		}
	}

	return out, collisions
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
