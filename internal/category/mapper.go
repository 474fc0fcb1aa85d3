// Package category implements the deterministic mapping of source
// categories to canonical tracks and the relevance model built on it.
package category

import (
	"sort"
	"strings"

	"github.com/davidhoeppner/LernApp2-sub000/internal/domain"
)

// Rule maps source categories matching a pattern to a target track.
// Patterns are matched against the normalized (trimmed, lower-cased)
// source category; a pattern without wildcards is a prefix match, a
// pattern containing '*' is a simple glob.
type Rule struct {
	ID          string       `json:"id"`
	Priority    int          `json:"priority"` // lower runs first
	Pattern     string       `json:"sourcePattern"`
	TargetTrack domain.Track `json:"targetTrack"`
	Description string       `json:"description"`
}

// Mapper is a pure rule engine over a priority-ordered table.
type Mapper struct {
	rules []Rule
}

// NewMapper builds a mapper from the given rules. The table is copied and
// stably sorted by ascending priority; construction never mutates rules.
func NewMapper(rules []Rule) *Mapper {
	sorted := make([]Rule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})
	return &Mapper{rules: sorted}
}

// NewDefaultMapper builds a mapper over the bundled rule table.
func NewDefaultMapper() *Mapper {
	return NewMapper(DefaultRules())
}

// Map resolves a source category to its canonical track. The result is a
// pure function of the source category and the rule table: unknown or
// empty categories fall back to the GENERAL track with no applied rule.
func (m *Mapper) Map(sourceCategory string) domain.CategoryMapping {
	normalized := Normalize(sourceCategory)
	if normalized == "" {
		return domain.CategoryMapping{
			SourceCategory: sourceCategory,
			Track:          domain.TrackGeneral,
			Reason:         "empty source category",
		}
	}
	for _, rule := range m.rules {
		if matchPattern(normalized, Normalize(rule.Pattern)) {
			return domain.CategoryMapping{
				SourceCategory: sourceCategory,
				Track:          rule.TargetTrack,
				AppliedRule:    rule.ID,
				Reason:         rule.Description,
			}
		}
	}
	return domain.CategoryMapping{
		SourceCategory: sourceCategory,
		Track:          domain.TrackGeneral,
		Reason:         "default fallback",
	}
}

// Track is a convenience wrapper around Map for callers that only need
// the resolved track.
func (m *Mapper) Track(sourceCategory string) domain.Track {
	return m.Map(sourceCategory).Track
}

// Rules returns the rule table in evaluation order.
func (m *Mapper) Rules() []Rule {
	out := make([]Rule, len(m.rules))
	copy(out, m.rules)
	return out
}

// Normalize trims and lower-cases a source category for matching.
func Normalize(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}

// matchPattern matches a normalized category against a normalized pattern.
// "*" matches everything. Patterns with '*' are matched segment-wise;
// anything else is a prefix match.
func matchPattern(category, pattern string) bool {
	if pattern == "" {
		return false
	}
	if pattern == "*" {
		return true
	}
	if !strings.Contains(pattern, "*") {
		return strings.HasPrefix(category, pattern)
	}

	segments := strings.Split(pattern, "*")
	rest := category
	for i, segment := range segments {
		if segment == "" {
			continue
		}
		idx := strings.Index(rest, segment)
		if idx < 0 {
			return false
		}
		if i == 0 && idx != 0 {
			// leading segment is anchored at the start
			return false
		}
		rest = rest[idx+len(segment):]
	}
	if last := segments[len(segments)-1]; last != "" {
		// trailing segment is anchored at the end
		return strings.HasSuffix(category, last)
	}
	return true
}
