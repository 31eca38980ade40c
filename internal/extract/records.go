package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/boycotts/internal/model"
)

// RecordExtractor reconstructs boycott records from flattened page lines.
//
// "Category:" is the only reliable anchor; every other field is found with a
// bounded, label-relative lookup. The result is best-effort: a caption that
// looks like a company name can end a record early, and a stray heading can be
// taken as the company.
type RecordExtractor struct {
	opts Options
}

// NewRecordExtractor creates a new record extractor
func NewRecordExtractor(opts Options) *RecordExtractor {
	return &RecordExtractor{opts: opts}
}

// FindAnchors returns the indices of lines that are exactly "Category:"
func FindAnchors(lines []string) []int {
	var anchors []int
	for i, line := range lines {
		if line == LabelCategory {
			anchors = append(anchors, i)
		}
	}
	return anchors
}

// Extract returns the retained records in page order, deduplicated by company
func (e *RecordExtractor) Extract(lines []string) []model.Boycott {
	records := []model.Boycott{}
	seen := make(map[string]bool)

	for _, anchor := range FindAnchors(lines) {
		rec, ok := e.extractAt(lines, anchor)
		if !ok || !e.retain(rec) {
			continue
		}

		key := strings.ToLower(rec.Company)
		if seen[key] {
			continue
		}
		seen[key] = true
		records = append(records, rec)
	}

	return records
}

// extractAt builds the candidate record seeded by one anchor.
// It reports false when no company name precedes the anchor.
func (e *RecordExtractor) extractAt(lines []string, anchor int) (model.Boycott, bool) {
	rec := model.NewBoycott()

	if _, value, ok := e.nextValue(lines, anchor); ok {
		rec.Category = value
	}

	company, ok := e.findCompany(lines, anchor)
	if !ok {
		return rec, false
	}
	rec.Company = company

	e.scanFields(lines, anchor, &rec)
	return rec, true
}

// nextValue returns the first non-empty line within the lookahead window after from
func (e *RecordExtractor) nextValue(lines []string, from int) (int, string, bool) {
	end := min(from+1+e.opts.ValueLookahead, len(lines))
	for j := from + 1; j < end; j++ {
		if lines[j] != "" {
			return j, lines[j], true
		}
	}
	return 0, "", false
}

// findCompany scans backward from the anchor for the nearest plausible name
func (e *RecordExtractor) findCompany(lines []string, anchor int) (string, bool) {
	stop := max(anchor-e.opts.CompanyLookback-1, -1)
	for j := anchor - 1; j > stop; j-- {
		candidate := lines[j]
		if candidate == "" {
			continue
		}
		if isNameLike(candidate) && !hasAnyPrefix(candidate, labelPrefixes) {
			return candidate, true
		}
	}
	return "", false
}

// scanFields walks forward from the anchor filling the remaining fields
func (e *RecordExtractor) scanFields(lines []string, anchor int, rec *model.Boycott) {
	var reason []string
	end := min(anchor+e.opts.FieldScan, len(lines))

scan:
	for i := anchor + 1; i < end; {
		line := lines[i]

		switch {
		case line == LabelCalledBy, line == LabelDateStarted, line == LabelCompanyProfile:
			j, value, ok := e.nextValue(lines, i)
			if !ok {
				i++
				continue
			}
			switch line {
			case LabelCalledBy:
				rec.CalledBy = value
			case LabelDateStarted:
				rec.DateStarted = value
			case LabelCompanyProfile:
				rec.CompanyProfile = value
			}
			// Resume on the value line itself; capturedValue keeps it from ending the record
			i = j

		case line == LabelRelatedGuides:
			rec.RelatedGuides, i = e.collectGuides(lines, i)

		case line == LabelCategory:
			break scan

		case runeLen(line) > e.opts.MinReasonLength && !hasAnyPrefix(line, labelPrefixes):
			reason = append(reason, line)
			i++

		case line != "" && isNameLike(line) && line != rec.Company && line != rec.Category:
			// Probably the next entry's heading. Only trusted once the record has data.
			if (rec.Category != "" || rec.CalledBy != "") && !capturedValue(rec, line) {
				break scan
			}
			i++

		default:
			i++
		}
	}

	rec.Reason = strings.TrimSpace(strings.Join(reason, " "))
}

// collectGuides gathers the related-guides list and returns the index to resume at
func (e *RecordExtractor) collectGuides(lines []string, label int) ([]string, int) {
	guides := []string{}
	end := min(label+1+e.opts.GuidesLookahead, len(lines))

	j := label + 1
	for ; j < end; j++ {
		line := lines[j]
		if hasAnyPrefix(line, guideStopPrefixes) {
			break
		}
		if line != "" && !hasAnyPrefix(line, guideExcludePrefixes) {
			guides = append(guides, line)
		}
	}

	return guides, j
}

// retain applies the minimum-data rule
func (e *RecordExtractor) retain(rec model.Boycott) bool {
	return rec.Category != "" ||
		rec.CalledBy != "" ||
		rec.DateStarted != "" ||
		runeLen(rec.Reason) > e.opts.MinReasonLength
}

// isNameLike checks length bounds and the navigation denylist
func isNameLike(line string) bool {
	n := runeLen(line)
	if n <= minNameLength || n >= maxNameLength {
		return false
	}
	return !matchesSkipPattern(line)
}

func matchesSkipPattern(line string) bool {
	lower := strings.ToLower(line)
	for _, pattern := range skipPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

func capturedValue(rec *model.Boycott, line string) bool {
	return line == rec.CalledBy || line == rec.DateStarted || line == rec.CompanyProfile
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
