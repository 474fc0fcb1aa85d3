package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/davidhoeppner/LernApp2-sub000/internal/app"
	"github.com/davidhoeppner/LernApp2-sub000/internal/category"
	"github.com/davidhoeppner/LernApp2-sub000/internal/content"
	"github.com/davidhoeppner/LernApp2-sub000/internal/domain"
	"github.com/davidhoeppner/LernApp2-sub000/internal/infra/memory"
	"github.com/davidhoeppner/LernApp2-sub000/internal/state"
)

// fixtureLoader serves the fixed content set of a single test.
type fixtureLoader struct {
	modules  []domain.Module
	quizzes  []domain.Quiz
	taxonomy []domain.ExamArea
	changes  domain.ExamChanges
}

func (l *fixtureLoader) LoadModules(context.Context) ([]domain.Module, error) {
	return l.modules, nil
}
func (l *fixtureLoader) LoadQuizzes(context.Context) ([]domain.Quiz, error) {
	return l.quizzes, nil
}
func (l *fixtureLoader) LoadTaxonomy(context.Context) ([]domain.ExamArea, error) {
	return l.taxonomy, nil
}
func (l *fixtureLoader) LoadExamChanges(context.Context) (domain.ExamChanges, error) {
	return l.changes, nil
}

type harness struct {
	registry  *content.Registry
	tracker   *state.Tracker
	quiz      *app.QuizEngine
	modules   *app.ModuleService
	progress  *app.ProgressEngine
	recommend *app.RecommendationEngine
	exporter  *app.Exporter
}

func newHarness(t *testing.T, loader *fixtureLoader) *harness {
	t.Helper()
	ctx := context.Background()

	registry := content.NewRegistry(loader, category.NewDefaultMapper(), nil)
	if err := registry.Warm(ctx); err != nil {
		t.Fatalf("warm failed: %v", err)
	}

	adapter := state.NewAdapter(ctx, memory.NewKVStore(0), "test:", 0, nil)
	store := state.NewStore(ctx, adapter, nil)
	clock := func() time.Time {
		return time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)
	}
	tracker := state.NewTrackerWithClock(store, clock)
	registry.SetProgressReader(tracker)

	progress := app.NewProgressEngine(registry, tracker)
	return &harness{
		registry:  registry,
		tracker:   tracker,
		quiz:      app.NewQuizEngine(registry, tracker, nil),
		modules:   app.NewModuleService(registry, tracker),
		progress:  progress,
		recommend: app.NewRecommendationEngine(registry, progress, tracker),
		exporter:  app.NewExporter(progress, tracker),
	}
}

func fixtureModule(id, cat string, relevance domain.Relevance) domain.Module {
	return domain.Module{
		ID: id, Title: "Titel " + id, Description: "Beschreibung " + id,
		Category: cat, Difficulty: domain.DifficultyIntermediate,
		ExamRelevance: relevance, Content: "Inhalt", EstimatedMinutes: 30,
	}
}

func fixtureQuiz(id, cat string, questions int) domain.Quiz {
	quiz := domain.Quiz{ID: id, Title: "Quiz " + id, Category: cat}
	for i := 0; i < questions; i++ {
		quiz.Questions = append(quiz.Questions, domain.Question{
			ID:            questionID(i),
			Prompt:        "Frage?",
			Options:       []string{"richtig", "falsch"},
			CorrectAnswer: "richtig",
			Explanation:   "Erklärung",
		})
	}
	return quiz
}

func questionID(i int) string {
	return "q" + string(rune('1'+i))
}
