package state

import (
	"context"
	"encoding/json"
	"time"

	"github.com/davidhoeppner/LernApp2-sub000/internal/domain"
)

// Dotted paths of the progress snapshot inside the state tree.
const (
	PathModulesCompleted  = "progress.modulesCompleted"
	PathModulesInProgress = "progress.modulesInProgress"
	PathQuizAttempts      = "progress.quizAttempts"
	PathLastActivity      = "progress.lastActivity"
)

// Tracker is the typed view over the progress subtree. It is the only
// writer of the progress snapshot; the completed and in-progress sets
// stay disjoint and the attempt sequence is append-only.
type Tracker struct {
	store *Store
	clock func() time.Time
}

// NewTracker builds a tracker over the store.
func NewTracker(store *Store) *Tracker {
	return NewTrackerWithClock(store, time.Now)
}

// NewTrackerWithClock allows deterministic timestamps in tests.
func NewTrackerWithClock(store *Store, clock func() time.Time) *Tracker {
	return &Tracker{store: store, clock: clock}
}

// Snapshot returns the full progress snapshot.
func (t *Tracker) Snapshot() domain.ProgressSnapshot {
	return domain.ProgressSnapshot{
		ModulesCompleted:  t.CompletedModules(),
		ModulesInProgress: t.InProgressModules(),
		QuizAttempts:      t.Attempts(),
		LastActivity:      t.LastActivity(),
	}
}

// CompletedModules returns the completed-module id set.
func (t *Tracker) CompletedModules() []string {
	return decodeStrings(t.store.Get(PathModulesCompleted))
}

// InProgressModules returns the in-progress-module id set.
func (t *Tracker) InProgressModules() []string {
	return decodeStrings(t.store.Get(PathModulesInProgress))
}

// Attempts returns all recorded quiz attempts in submission order.
func (t *Tracker) Attempts() []domain.QuizAttempt {
	raw := t.store.Get(PathQuizAttempts)
	if raw == nil {
		return nil
	}
	// Attempts live in the any-tree either as typed values (written this
	// process) or as decoded JSON maps (rehydrated); normalize through JSON.
	if typed, ok := raw.([]domain.QuizAttempt); ok {
		out := make([]domain.QuizAttempt, len(typed))
		copy(out, typed)
		return out
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var attempts []domain.QuizAttempt
	if err := json.Unmarshal(data, &attempts); err != nil {
		return nil
	}
	return attempts
}

// LastActivity returns the RFC 3339 timestamp of the last mutation.
func (t *Tracker) LastActivity() string {
	if s, ok := t.store.Get(PathLastActivity).(string); ok {
		return s
	}
	return ""
}

// ModuleStatus derives the tri-state learning status of a module;
// completed takes precedence over in-progress.
func (t *Tracker) ModuleStatus(moduleID string) domain.LearningStatus {
	if contains(t.CompletedModules(), moduleID) {
		return domain.StatusCompleted
	}
	if contains(t.InProgressModules(), moduleID) {
		return domain.StatusInProgress
	}
	return domain.StatusNotStarted
}

// MarkModuleComplete adds the module to the completed set and drops it
// from the in-progress set. Idempotent.
func (t *Tracker) MarkModuleComplete(ctx context.Context, moduleID string) error {
	if moduleID == "" {
		return domain.NewValidationError("moduleId", "must not be empty")
	}
	inProgress := remove(t.InProgressModules(), moduleID)
	completed := t.CompletedModules()
	if !contains(completed, moduleID) {
		completed = append(completed, moduleID)
	}
	// All tree writes go through even when autosave fails, so the
	// in-memory snapshot stays consistent; the first error is reported
	// once the mutation is fully applied.
	err := t.store.Set(ctx, PathModulesInProgress, inProgress)
	if e := t.store.Set(ctx, PathModulesCompleted, completed); err == nil {
		err = e
	}
	if e := t.touch(ctx); err == nil {
		err = e
	}
	return err
}

// MarkModuleInProgress adds the module to the in-progress set unless it
// is already completed. Idempotent.
func (t *Tracker) MarkModuleInProgress(ctx context.Context, moduleID string) error {
	if moduleID == "" {
		return domain.NewValidationError("moduleId", "must not be empty")
	}
	if contains(t.CompletedModules(), moduleID) {
		return nil
	}
	inProgress := t.InProgressModules()
	if !contains(inProgress, moduleID) {
		inProgress = append(inProgress, moduleID)
	}
	err := t.store.Set(ctx, PathModulesInProgress, inProgress)
	if e := t.touch(ctx); err == nil {
		err = e
	}
	return err
}

// RecordAttempt appends one attempt to the history. Strictly append-only;
// best-score semantics are the caller's to derive.
func (t *Tracker) RecordAttempt(ctx context.Context, attempt domain.QuizAttempt) error {
	if attempt.QuizID == "" {
		return domain.NewValidationError("quizId", "must not be empty")
	}
	if attempt.Date == "" {
		attempt.Date = t.now()
	}
	attempts := append(t.Attempts(), attempt)
	err := t.store.Set(ctx, PathQuizAttempts, attempts)
	if e := t.touch(ctx); err == nil {
		err = e
	}
	return err
}

func (t *Tracker) touch(ctx context.Context) error {
	return t.store.Set(ctx, PathLastActivity, t.now())
}

func (t *Tracker) now() string {
	return t.clock().UTC().Format(time.RFC3339)
}

func decodeStrings(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}
