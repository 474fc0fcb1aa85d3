package category_test

import (
	"testing"

	"github.com/davidhoeppner/LernApp2-sub000/internal/category"
	"github.com/davidhoeppner/LernApp2-sub000/internal/domain"
)

func testRules() []category.Rule {
	return []category.Rule{
		{ID: "bp-dpa", Priority: 10, Pattern: "BP-DPA", TargetTrack: domain.TrackDPA},
		{ID: "bp-ae", Priority: 20, Pattern: "BP-AE", TargetTrack: domain.TrackAE},
		{ID: "bp", Priority: 30, Pattern: "BP", TargetTrack: domain.TrackAE},
	}
}

func TestMapAppliesFirstMatchingRule(t *testing.T) {
	mapper := category.NewMapper(testRules())

	cases := []struct {
		source string
		track  domain.Track
		rule   string
	}{
		{"bp-dpa-01-data-modeling", domain.TrackDPA, "bp-dpa"},
		{"BP-AE-03", domain.TrackAE, "bp-ae"},
		{"BP-04", domain.TrackAE, "bp"},
		{"FUE-01", domain.TrackGeneral, ""},
	}
	for _, tc := range cases {
		got := mapper.Map(tc.source)
		if got.Track != tc.track {
			t.Fatalf("%s: expected track %s, got %s", tc.source, tc.track, got.Track)
		}
		if got.AppliedRule != tc.rule {
			t.Fatalf("%s: expected rule %q, got %q", tc.source, tc.rule, got.AppliedRule)
		}
	}
}

func TestMapFallbackReason(t *testing.T) {
	mapper := category.NewMapper(testRules())
	got := mapper.Map("FUE-01")
	if got.Reason != "default fallback" {
		t.Fatalf("expected default fallback reason, got %q", got.Reason)
	}
}

func TestMapNormalizesInput(t *testing.T) {
	mapper := category.NewMapper(testRules())
	if got := mapper.Map("  Bp-DpA-02  "); got.Track != domain.TrackDPA {
		t.Fatalf("expected DPA after normalization, got %s", got.Track)
	}
}

func TestMapEmptyCategoryDefaultsToGeneral(t *testing.T) {
	mapper := category.NewMapper(testRules())
	for _, source := range []string{"", "   "} {
		got := mapper.Map(source)
		if got.Track != domain.TrackGeneral || got.AppliedRule != "" {
			t.Fatalf("expected unruled GENERAL for %q, got %+v", source, got)
		}
	}
}

func TestMapIsDeterministic(t *testing.T) {
	mapper := category.NewMapper(testRules())
	first := mapper.Map("bp-dpa-01")
	for i := 0; i < 10; i++ {
		if got := mapper.Map("bp-dpa-01"); got != first {
			t.Fatalf("mapping changed between calls: %+v vs %+v", first, got)
		}
	}
}

func TestMapPriorityOrderIndependentOfSliceOrder(t *testing.T) {
	rules := testRules()
	reversed := []category.Rule{rules[2], rules[1], rules[0]}
	mapper := category.NewMapper(reversed)
	if got := mapper.Map("BP-DPA-01"); got.AppliedRule != "bp-dpa" {
		t.Fatalf("expected lowest-priority rule to win, got %q", got.AppliedRule)
	}
}

func TestMapWildcardPatterns(t *testing.T) {
	mapper := category.NewMapper([]category.Rule{
		{ID: "any-sql", Priority: 5, Pattern: "*sql*", TargetTrack: domain.TrackDPA},
		{ID: "catch-all", Priority: 90, Pattern: "*", TargetTrack: domain.TrackGeneral},
	})

	if got := mapper.Map("bp-sql-queries"); got.AppliedRule != "any-sql" {
		t.Fatalf("expected wildcard match, got %+v", got)
	}
	got := mapper.Map("anything-else")
	if got.Track != domain.TrackGeneral || got.AppliedRule != "catch-all" {
		t.Fatalf("expected catch-all rule, got %+v", got)
	}
}

func TestDefaultRulesCoverKnownScheme(t *testing.T) {
	mapper := category.NewDefaultMapper()

	cases := map[string]domain.Track{
		"BP-DPA-01-01": domain.TrackDPA,
		"BP-AE-02":     domain.TrackAE,
		"BP-03":        domain.TrackAE,
		"FUE-02":       domain.TrackGeneral,
		"sonstiges":    domain.TrackGeneral,
	}
	for source, want := range cases {
		if got := mapper.Track(source); got != want {
			t.Fatalf("%s: expected %s, got %s", source, want, got)
		}
		if !mapper.Track(source).Valid() {
			t.Fatalf("%s: mapped to invalid track", source)
		}
	}
}

func TestRelevanceTable(t *testing.T) {
	cases := []struct {
		track, specialization domain.Track
		want                  domain.Relevance
	}{
		{domain.TrackDPA, domain.TrackDPA, domain.RelevanceHigh},
		{domain.TrackDPA, domain.TrackAE, domain.RelevanceLow},
		{domain.TrackAE, domain.TrackAE, domain.RelevanceHigh},
		{domain.TrackAE, domain.TrackDPA, domain.RelevanceLow},
		{domain.TrackGeneral, domain.TrackDPA, domain.RelevanceMedium},
		{domain.TrackGeneral, domain.TrackAE, domain.RelevanceMedium},
		{domain.TrackDPA, domain.TrackGeneral, domain.RelevanceMedium},
	}
	for _, tc := range cases {
		if got := category.Relevance(tc.track, tc.specialization); got != tc.want {
			t.Fatalf("relevance(%s, %s): expected %s, got %s", tc.track, tc.specialization, tc.want, got)
		}
	}
}

func TestRelevanceOrdering(t *testing.T) {
	if !(domain.RelevanceHigh.Rank() > domain.RelevanceMedium.Rank() &&
		domain.RelevanceMedium.Rank() > domain.RelevanceLow.Rank() &&
		domain.RelevanceLow.Rank() > domain.RelevanceNone.Rank()) {
		t.Fatal("relevance ordering high>medium>low>none violated")
	}
}
