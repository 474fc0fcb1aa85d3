package state_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/davidhoeppner/LernApp2-sub000/internal/domain"
	"github.com/davidhoeppner/LernApp2-sub000/internal/infra/memory"
	"github.com/davidhoeppner/LernApp2-sub000/internal/state"
)

func newTestTracker(t *testing.T) *state.Tracker {
	t.Helper()
	clock := func() time.Time {
		return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	}
	return state.NewTrackerWithClock(newTestStore(t), clock)
}

func TestCompletedAndInProgressStayDisjoint(t *testing.T) {
	ctx := context.Background()
	tracker := newTestTracker(t)

	if err := tracker.MarkModuleInProgress(ctx, "m1"); err != nil {
		t.Fatalf("mark in progress failed: %v", err)
	}
	if err := tracker.MarkModuleComplete(ctx, "m1"); err != nil {
		t.Fatalf("mark complete failed: %v", err)
	}

	if got := tracker.CompletedModules(); len(got) != 1 || got[0] != "m1" {
		t.Fatalf("expected completed [m1], got %v", got)
	}
	if got := tracker.InProgressModules(); len(got) != 0 {
		t.Fatalf("expected empty in-progress set, got %v", got)
	}
	if got := tracker.ModuleStatus("m1"); got != domain.StatusCompleted {
		t.Fatalf("expected completed status, got %v", got)
	}
}

func TestMarkCompleteIdempotent(t *testing.T) {
	ctx := context.Background()
	tracker := newTestTracker(t)

	for i := 0; i < 3; i++ {
		if err := tracker.MarkModuleComplete(ctx, "m1"); err != nil {
			t.Fatalf("mark complete failed: %v", err)
		}
	}
	if got := tracker.CompletedModules(); len(got) != 1 {
		t.Fatalf("expected single entry, got %v", got)
	}
}

func TestInProgressIgnoredWhenCompleted(t *testing.T) {
	ctx := context.Background()
	tracker := newTestTracker(t)

	if err := tracker.MarkModuleComplete(ctx, "m1"); err != nil {
		t.Fatalf("mark complete failed: %v", err)
	}
	if err := tracker.MarkModuleInProgress(ctx, "m1"); err != nil {
		t.Fatalf("mark in progress failed: %v", err)
	}
	if got := tracker.InProgressModules(); len(got) != 0 {
		t.Fatalf("completed module must not re-enter in-progress, got %v", got)
	}
}

func TestRecordAttemptAppendOnly(t *testing.T) {
	ctx := context.Background()
	tracker := newTestTracker(t)

	first := domain.QuizAttempt{QuizID: "q1", Score: 50, TotalQuestions: 4, CorrectAnswers: 2}
	second := domain.QuizAttempt{QuizID: "q1", Score: 75, TotalQuestions: 4, CorrectAnswers: 3}
	if err := tracker.RecordAttempt(ctx, first); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if err := tracker.RecordAttempt(ctx, second); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	attempts := tracker.Attempts()
	if len(attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(attempts))
	}
	if attempts[0].Score != 50 || attempts[1].Score != 75 {
		t.Fatalf("expected submission order preserved, got %+v", attempts)
	}
	if attempts[0].Date != "2026-03-14T09:30:00Z" {
		t.Fatalf("expected clock-stamped date, got %q", attempts[0].Date)
	}
}

func TestRecordAttemptRequiresQuizID(t *testing.T) {
	ctx := context.Background()
	tracker := newTestTracker(t)

	err := tracker.RecordAttempt(ctx, domain.QuizAttempt{})
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMutationsSurviveQuotaFailure(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore(10)
	store := state.NewStore(ctx, state.NewAdapter(ctx, kv, "test:", 10, nil), nil)
	tracker := state.NewTracker(store)

	// Autosave fails on every write, but the in-memory snapshot must
	// still apply the full mutation.
	if err := tracker.MarkModuleInProgress(ctx, "m1"); !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("expected quota error, got %v", err)
	}
	if got := tracker.ModuleStatus("m1"); got != domain.StatusInProgress {
		t.Fatalf("expected in-progress despite quota error, got %v", got)
	}
	if err := tracker.MarkModuleComplete(ctx, "m1"); !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("expected quota error, got %v", err)
	}
	if got := tracker.ModuleStatus("m1"); got != domain.StatusCompleted {
		t.Fatalf("expected completed despite quota error, got %v", got)
	}
	if got := tracker.InProgressModules(); len(got) != 0 {
		t.Fatalf("expected empty in-progress set, got %v", got)
	}
}

func TestAttemptsSurviveRehydration(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKVStore(0)
	store := state.NewStore(ctx, state.NewAdapter(ctx, kv, "test:", 0, nil), nil)
	tracker := state.NewTracker(store)

	attempt := domain.QuizAttempt{
		QuizID: "fue-02-quiz", Score: 67, TotalQuestions: 3, CorrectAnswers: 2,
		Answers: []domain.AnswerRecord{{QuestionID: "q1", Choice: "a", Correct: true}},
	}
	if err := tracker.RecordAttempt(ctx, attempt); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	// A fresh store sees JSON-decoded maps, not typed attempts.
	rehydrated := state.NewTracker(state.NewStore(ctx, state.NewAdapter(ctx, kv, "test:", 0, nil), nil))
	attempts := rehydrated.Attempts()
	if len(attempts) != 1 {
		t.Fatalf("expected 1 attempt after rehydration, got %d", len(attempts))
	}
	got := attempts[0]
	if got.QuizID != "fue-02-quiz" || got.Score != 67 || len(got.Answers) != 1 || !got.Answers[0].Correct {
		t.Fatalf("attempt lost fidelity across rehydration: %+v", got)
	}
}

func TestSnapshotTouchesLastActivity(t *testing.T) {
	ctx := context.Background()
	tracker := newTestTracker(t)

	if err := tracker.MarkModuleComplete(ctx, "m1"); err != nil {
		t.Fatalf("mark complete failed: %v", err)
	}
	snapshot := tracker.Snapshot()
	if snapshot.LastActivity != "2026-03-14T09:30:00Z" {
		t.Fatalf("expected last activity timestamp, got %q", snapshot.LastActivity)
	}
	if len(snapshot.ModulesCompleted) != 1 {
		t.Fatalf("expected snapshot to include completed module")
	}
}
