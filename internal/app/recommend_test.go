package app_test

import (
	"context"
	"testing"

	"github.com/davidhoeppner/LernApp2-sub000/internal/app"
	"github.com/davidhoeppner/LernApp2-sub000/internal/domain"
)

func TestRecommendationsContinueFirst(t *testing.T) {
	ctx := context.Background()
	loader := &fixtureLoader{
		modules: []domain.Module{
			fixtureModule("m-started", "BP-DPA-01", domain.RelevanceMedium),
			fixtureModule("m-fresh", "BP-DPA-02", domain.RelevanceHigh),
		},
	}
	h := newHarness(t, loader)
	if err := h.tracker.MarkModuleInProgress(ctx, "m-started"); err != nil {
		t.Fatalf("mark in progress failed: %v", err)
	}

	groups := h.recommend.Recommendations()
	if len(groups) < 2 {
		t.Fatalf("expected continue and high-relevance groups, got %v", groups)
	}
	if groups[0].Type != app.GroupContinue || groups[0].Priority != app.SeverityHigh {
		t.Fatalf("expected continue group first, got %+v", groups[0])
	}
	if len(groups[0].Modules) != 1 || groups[0].Modules[0].ID != "m-started" {
		t.Fatalf("unexpected continue picks: %+v", groups[0].Modules)
	}
}

func TestRecommendationsWeakCategory(t *testing.T) {
	ctx := context.Background()
	loader := &fixtureLoader{
		modules: []domain.Module{
			fixtureModule("m-qs", "FUE-02", domain.RelevanceMedium),
			fixtureModule("m-qs-done", "FUE-02", domain.RelevanceMedium),
		},
		quizzes: []domain.Quiz{fixtureQuiz("fue-02-quiz", "FUE-02", 2)},
	}
	h := newHarness(t, loader)
	if err := h.tracker.MarkModuleComplete(ctx, "m-qs-done"); err != nil {
		t.Fatalf("mark complete failed: %v", err)
	}
	attempt := domain.QuizAttempt{QuizID: "fue-02-quiz", Score: 40, TotalQuestions: 2}
	if err := h.tracker.RecordAttempt(ctx, attempt); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	var weakGroup *app.RecommendationGroup
	groups := h.recommend.Recommendations()
	for i := range groups {
		if groups[i].Type == app.GroupWeakCategory {
			weakGroup = &groups[i]
			break
		}
	}
	if weakGroup == nil {
		t.Fatalf("expected a weak-category group")
	}
	if weakGroup.Category != "FUE-02" || weakGroup.Priority != app.SeverityHigh {
		t.Fatalf("unexpected weak group: %+v", weakGroup)
	}
	// Completed modules are never recommended.
	if len(weakGroup.Modules) != 1 || weakGroup.Modules[0].ID != "m-qs" {
		t.Fatalf("unexpected weak picks: %+v", weakGroup.Modules)
	}
}

func TestRecommendationsSkipRemovedTopics(t *testing.T) {
	removedHigh := fixtureModule("m-removed", "BP-03", domain.RelevanceHigh)
	removedNew := fixtureModule("m-removed-new", "BP-03", domain.RelevanceHigh)
	removedNew.Flags.NewIn2025 = true
	kept := fixtureModule("m-kept", "BP-DPA-01", domain.RelevanceHigh)

	loader := &fixtureLoader{
		modules: []domain.Module{removedHigh, removedNew, kept},
		changes: domain.ExamChanges{RemovedTopics: []string{"BP-03"}},
	}
	h := newHarness(t, loader)

	for _, group := range h.recommend.Recommendations() {
		for _, m := range group.Modules {
			if m.ID == "m-removed" || m.ID == "m-removed-new" {
				t.Fatalf("removed topic recommended in group %s", group.Type)
			}
		}
	}
}

func TestRecommendationsEmptyWhenNothingApplies(t *testing.T) {
	ctx := context.Background()
	loader := &fixtureLoader{
		modules: []domain.Module{fixtureModule("m1", "FUE-01", domain.RelevanceMedium)},
	}
	h := newHarness(t, loader)
	if err := h.tracker.MarkModuleComplete(ctx, "m1"); err != nil {
		t.Fatalf("mark complete failed: %v", err)
	}

	if groups := h.recommend.Recommendations(); len(groups) != 0 {
		t.Fatalf("expected no recommendations, got %v", groups)
	}
}
