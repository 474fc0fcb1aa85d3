// Package content implements the in-memory content registry: modules and
// quizzes keyed by id, category-derived indexes, search and related-content
// lookups.
package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/davidhoeppner/LernApp2-sub000/internal/category"
	"github.com/davidhoeppner/LernApp2-sub000/internal/domain"
)

// ProgressReader reports the learning status of a module for content
// enrichment. Implemented by the state layer; the registry only consumes it.
type ProgressReader interface {
	ModuleStatus(moduleID string) domain.LearningStatus
}

// EnrichedModule is a module annotated with the caller's progress status.
// The underlying registry record is never mutated; enrichment copies.
type EnrichedModule struct {
	domain.Module
	Completed  bool                  `json:"completed"`
	InProgress bool                  `json:"inProgress"`
	Status     domain.LearningStatus `json:"status"`
}

// CacheStats describes the warmed registry for diagnostics views.
type CacheStats struct {
	Modules     int       `json:"modules"`
	Quizzes     int       `json:"quizzes"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Registry owns the module and quiz maps. Content is immutable after
// warm-up; every other component is a read-only consumer.
type Registry struct {
	loader   Loader
	mapper   *category.Mapper
	logger   *slog.Logger
	resolver QuizResolver
	progress ProgressReader
	diags    *domain.Diagnostics
	sf       singleflight.Group

	mu           sync.RWMutex
	warmed       bool
	modules      map[string]*domain.Module
	moduleOrder  []string
	quizzes      map[string]*domain.Quiz
	quizOrder    []string
	moduleIndex  map[domain.Track][]string
	quizIndex    map[domain.Track][]string
	contentIndex map[domain.Track][]string
	taxonomy     []domain.ExamArea
	examChanges  domain.ExamChanges
	lastUpdated  time.Time
}

// NewRegistry builds an unwarmed registry. If logger is nil the default
// logger is used. Call Warm before any read.
func NewRegistry(loader Loader, mapper *category.Mapper, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		loader:  loader,
		mapper:  mapper,
		logger:  logger.With(slog.String("component", "content_registry")),
		modules: make(map[string]*domain.Module),
		quizzes: make(map[string]*domain.Quiz),
	}
}

// SetQuizResolver installs an on-demand source for quiz ids missing from
// the warm-up bundle.
func (r *Registry) SetQuizResolver(resolver QuizResolver) { r.resolver = resolver }

// SetProgressReader installs the progress source used for enrichment.
func (r *Registry) SetProgressReader(progress ProgressReader) { r.progress = progress }

// SetDiagnostics installs an integrity-warning sink.
func (r *Registry) SetDiagnostics(d *domain.Diagnostics) { r.diags = d }

// Warm loads all bundled content. Idempotent: a second call is a no-op.
// Individual malformed records are skipped with a warning; Warm only
// fails when the loader itself cannot deliver.
func (r *Registry) Warm(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.warmed {
		return nil
	}

	modules, err := r.loader.LoadModules(ctx)
	if err != nil {
		return fmt.Errorf("warm modules: %w", err)
	}
	quizzes, err := r.loader.LoadQuizzes(ctx)
	if err != nil {
		return fmt.Errorf("warm quizzes: %w", err)
	}
	if taxonomy, err := r.loader.LoadTaxonomy(ctx); err != nil {
		r.logger.Warn("taxonomy unavailable", "error", err)
	} else {
		r.taxonomy = taxonomy
	}
	if changes, err := r.loader.LoadExamChanges(ctx); err != nil {
		r.logger.Warn("exam changes unavailable", "error", err)
	} else {
		r.examChanges = changes
	}

	for _, m := range modules {
		if reason := validateModule(m); reason != "" {
			r.skip("module", m.ID, reason)
			continue
		}
		if _, exists := r.modules[m.ID]; exists {
			r.skip("module", m.ID, "duplicate id")
			continue
		}
		r.attachModuleMapping(&m)
		record := m
		r.modules[m.ID] = &record
		r.moduleOrder = append(r.moduleOrder, m.ID)
	}
	for _, q := range quizzes {
		if reason := validateQuiz(q); reason != "" {
			r.skip("quiz", q.ID, reason)
			continue
		}
		if _, exists := r.quizzes[q.ID]; exists {
			r.skip("quiz", q.ID, "duplicate id")
			continue
		}
		r.attachQuizMapping(&q)
		record := q
		r.quizzes[q.ID] = &record
		r.quizOrder = append(r.quizOrder, q.ID)
	}

	r.checkReferencesLocked()
	r.rebuildIndexesLocked()
	r.lastUpdated = time.Now().UTC()
	r.warmed = true
	r.logger.Info("content registry warmed",
		"modules", len(r.modules), "quizzes", len(r.quizzes))
	return nil
}

func (r *Registry) skip(source, id, reason string) {
	if id == "" {
		id = "(no id)"
	}
	r.logger.Warn("skipping malformed content record",
		"kind", source, "id", id, "reason", reason)
	r.diags.Warn(source, id, reason)
}

func (r *Registry) attachModuleMapping(m *domain.Module) {
	mapping := r.mapper.Map(m.Category)
	m.Track = mapping.Track
	m.Mapping = &mapping
}

func (r *Registry) attachQuizMapping(q *domain.Quiz) {
	mapping := r.mapper.Map(q.Category)
	q.Track = mapping.Track
	q.Mapping = &mapping
}

// checkReferencesLocked flags dangling prerequisite and related-quiz ids.
// Dangling references are warnings, never load failures.
func (r *Registry) checkReferencesLocked() {
	for _, id := range r.moduleOrder {
		m := r.modules[id]
		for _, prereq := range m.Prerequisites {
			if _, ok := r.modules[prereq]; !ok {
				r.diags.Warn("module", id, fmt.Sprintf("prerequisite %q does not resolve", prereq))
			}
		}
		for _, quizID := range m.RelatedQuizzes {
			if _, ok := r.quizzes[quizID]; !ok {
				r.diags.Warn("module", id, fmt.Sprintf("related quiz %q does not resolve", quizID))
			}
		}
	}
}

func (r *Registry) rebuildIndexesLocked() {
	r.moduleIndex = make(map[domain.Track][]string)
	r.quizIndex = make(map[domain.Track][]string)
	r.contentIndex = make(map[domain.Track][]string)
	for _, id := range r.moduleOrder {
		track := r.modules[id].Track
		r.moduleIndex[track] = append(r.moduleIndex[track], id)
		r.contentIndex[track] = append(r.contentIndex[track], id)
	}
	for _, id := range r.quizOrder {
		track := r.quizzes[id].Track
		r.quizIndex[track] = append(r.quizIndex[track], id)
		r.contentIndex[track] = append(r.contentIndex[track], id)
	}
}

// ClearCategoryCache recomputes every cached mapping from the current rule
// table and rebuilds the per-track indexes.
func (r *Registry) ClearCategoryCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.modules {
		r.attachModuleMapping(m)
	}
	for _, q := range r.quizzes {
		r.attachQuizMapping(q)
	}
	r.rebuildIndexesLocked()
	r.lastUpdated = time.Now().UTC()
}

// GetModule returns a copy of the module, or nil when the id is unknown.
func (r *Registry) GetModule(id string) *domain.Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[id]
	if !ok {
		return nil
	}
	record := *m
	return &record
}

// GetQuiz returns a copy of the quiz, or nil when the id is unknown.
// Use ResolveQuiz to fall through to the on-demand source.
func (r *Registry) GetQuiz(id string) *domain.Quiz {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.quizzes[id]
	if !ok {
		return nil
	}
	record := *q
	return &record
}

// ResolveQuiz returns the quiz from the map, or loads it once through the
// on-demand resolver and memoizes the result. Concurrent resolutions of
// the same id collapse into a single load.
func (r *Registry) ResolveQuiz(ctx context.Context, id string) (domain.Quiz, error) {
	if q := r.GetQuiz(id); q != nil {
		return *q, nil
	}
	if r.resolver == nil {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}

	result, err, _ := r.sf.Do(id, func() (interface{}, error) {
		if q := r.GetQuiz(id); q != nil {
			return *q, nil
		}
		quiz, err := r.resolver.ResolveQuiz(ctx, id)
		if err != nil {
			return domain.Quiz{}, err
		}
		if reason := validateQuiz(quiz); reason != "" {
			r.skip("quiz", id, reason)
			return domain.Quiz{}, domain.ErrQuizNotFound
		}
		r.attachQuizMapping(&quiz)

		r.mu.Lock()
		if _, exists := r.quizzes[quiz.ID]; !exists {
			record := quiz
			r.quizzes[quiz.ID] = &record
			r.quizOrder = append(r.quizOrder, quiz.ID)
			r.rebuildIndexesLocked()
		}
		r.mu.Unlock()
		return quiz, nil
	})
	if err != nil {
		return domain.Quiz{}, err
	}
	return result.(domain.Quiz), nil
}

// AllModules returns every module in load order.
func (r *Registry) AllModules() []domain.Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Module, 0, len(r.moduleOrder))
	for _, id := range r.moduleOrder {
		out = append(out, *r.modules[id])
	}
	return out
}

// AllQuizzes returns every quiz in load order.
func (r *Registry) AllQuizzes() []domain.Quiz {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Quiz, 0, len(r.quizOrder))
	for _, id := range r.quizOrder {
		out = append(out, *r.quizzes[id])
	}
	return out
}

// ModulesByTrack returns the modules of one canonical track.
func (r *Registry) ModulesByTrack(track domain.Track) ([]domain.Module, error) {
	if !track.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTrack, track)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.moduleIndex[track]
	out := make([]domain.Module, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.modules[id])
	}
	return out, nil
}

// QuizzesByTrack returns the quizzes of one canonical track.
func (r *Registry) QuizzesByTrack(track domain.Track) ([]domain.Quiz, error) {
	if !track.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTrack, track)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.quizIndex[track]
	out := make([]domain.Quiz, 0, len(ids))
	for _, id := range ids {
		out = append(out, *r.quizzes[id])
	}
	return out, nil
}

// NewIn2025Modules returns the 2025-revision modules, important ones
// first, then by exam relevance (high before medium before low).
func (r *Registry) NewIn2025Modules() []domain.Module {
	all := r.AllModules()
	out := make([]domain.Module, 0)
	for _, m := range all {
		if m.Flags.NewIn2025 {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Flags.Important != out[j].Flags.Important {
			return out[i].Flags.Important
		}
		return relevanceSortRank(out[i].ExamRelevance) < relevanceSortRank(out[j].ExamRelevance)
	})
	return out
}

// relevanceSortRank orders exam relevance ascending as high < medium < low.
func relevanceSortRank(r domain.Relevance) int {
	switch r {
	case domain.RelevanceHigh:
		return 0
	case domain.RelevanceMedium:
		return 1
	default:
		return 2
	}
}

// Taxonomy returns the exam category taxonomy.
func (r *Registry) Taxonomy() []domain.ExamArea {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.taxonomy
}

// ExamChanges returns the 2025 exam revision metadata.
func (r *Registry) ExamChanges() domain.ExamChanges {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.examChanges
}

// Stats reports cache statistics.
func (r *Registry) Stats() CacheStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return CacheStats{
		Modules:     len(r.modules),
		Quizzes:     len(r.quizzes),
		LastUpdated: r.lastUpdated,
	}
}

// Enrich attaches the caller's progress status to a module copy.
func (r *Registry) Enrich(m domain.Module) EnrichedModule {
	status := domain.StatusNotStarted
	if r.progress != nil {
		status = r.progress.ModuleStatus(m.ID)
	}
	return EnrichedModule{
		Module:     m,
		Completed:  status == domain.StatusCompleted,
		InProgress: status == domain.StatusInProgress,
		Status:     status,
	}
}

// validateModule returns a non-empty reason when the record must be
// skipped at warm-up.
func validateModule(m domain.Module) string {
	switch {
	case m.ID == "":
		return "missing id"
	case m.Title == "":
		return "missing title"
	case m.Description == "":
		return "missing description"
	case containsUndefined(m):
		return "contains literal \"undefined\""
	}
	return ""
}

// validateQuiz returns a non-empty reason when the record must be
// skipped at warm-up.
func validateQuiz(q domain.Quiz) string {
	switch {
	case q.ID == "":
		return "missing id"
	case q.Title == "":
		return "missing title"
	case len(q.Questions) == 0:
		return "no questions"
	case containsUndefined(q):
		return "contains literal \"undefined\""
	}
	seen := make(map[string]bool, len(q.Questions))
	for _, question := range q.Questions {
		switch {
		case question.ID == "":
			return "question missing id"
		case seen[question.ID]:
			return fmt.Sprintf("duplicate question id %q", question.ID)
		case len(question.Options) < 2:
			return fmt.Sprintf("question %q has fewer than two options", question.ID)
		case !optionListed(question.Options, question.CorrectAnswer):
			return fmt.Sprintf("question %q correctAnswer is not an option", question.ID)
		}
		seen[question.ID] = true
	}
	return ""
}

func optionListed(options []string, answer string) bool {
	for _, option := range options {
		if option == answer {
			return true
		}
	}
	return false
}

// containsUndefined reports whether any field of the record serializes to
// the literal string "undefined", a leftover of broken upstream exports.
func containsUndefined(record any) bool {
	data, err := json.Marshal(record)
	if err != nil {
		return false
	}
	return bytes.Contains(data, []byte(`"undefined"`))
}
