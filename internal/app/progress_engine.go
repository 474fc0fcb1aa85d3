package app

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/davidhoeppner/LernApp2-sub000/internal/category"
	"github.com/davidhoeppner/LernApp2-sub000/internal/content"
	"github.com/davidhoeppner/LernApp2-sub000/internal/domain"
	"github.com/davidhoeppner/LernApp2-sub000/internal/state"
)

// TrackBreakdown reports progress within one canonical track.
type TrackBreakdown struct {
	Track             domain.Track     `json:"track"`
	TotalModules      int              `json:"totalModules"`
	CompletedModules  int              `json:"completedModules"`
	CompletionPercent int              `json:"completionPercent"`
	TotalQuizzes      int              `json:"totalQuizzes"`
	QuizzesTaken      int              `json:"quizzesTaken"`
	AverageScore      int              `json:"averageScore"`
	Relevance         domain.Relevance `json:"relevance,omitempty"`
}

// OverallProgress is the top-level progress summary.
type OverallProgress struct {
	OverallPercentage       int              `json:"overallPercentage"`
	ModuleCompletionPercent int              `json:"moduleCompletionPercent"`
	ModulesCompleted        int              `json:"modulesCompleted"`
	TotalModules            int              `json:"totalModules"`
	AverageQuizScore        int              `json:"averageQuizScore"`
	LastActivity            string           `json:"lastActivity,omitempty"`
	Tracks                  []TrackBreakdown `json:"tracks"`
}

// ModuleProgress is the tri-state progress of one module.
type ModuleProgress struct {
	ID         string                `json:"id"`
	Completed  bool                  `json:"completed"`
	InProgress bool                  `json:"inProgress"`
	Status     domain.LearningStatus `json:"status"`
}

// HistoryEntry is one attempt annotated with the passing flag.
type HistoryEntry struct {
	domain.QuizAttempt
	Passed bool `json:"passed"`
}

// CategoryProgress reports progress within one taxonomy subcategory.
type CategoryProgress struct {
	Code          string                `json:"code"`
	Name          string                `json:"name"`
	TotalModules  int                   `json:"totalModules"`
	Completed     int                   `json:"completed"`
	InProgress    int                   `json:"inProgress"`
	NotStarted    int                   `json:"notStarted"`
	Percent       int                   `json:"percent"`
	Status        domain.LearningStatus `json:"status"`
	ExamRelevance domain.Relevance      `json:"examRelevance"`
}

// Weak area types and severities.
const (
	WeakAreaQuizPerformance = "quiz-performance"
	WeakAreaLowCompletion   = "low-completion"
	WeakAreaNewTopics       = "new-topics-2025"

	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// WeakArea is a derived diagnostic for a below-threshold category.
type WeakArea struct {
	Type              string `json:"type"`
	Category          string `json:"category,omitempty"`
	AverageScore      int    `json:"averageScore,omitempty"`
	Attempts          int    `json:"attempts,omitempty"`
	CompletionPercent int    `json:"completionPercent,omitempty"`
	Severity          string `json:"severity"`
	Description       string `json:"description,omitempty"`
}

// ReadinessStats carries the raw counts behind a readiness report.
type ReadinessStats struct {
	TotalModules       int `json:"totalModules"`
	CompletedModules   int `json:"completedModules"`
	TotalAttempts      int `json:"totalAttempts"`
	NewTopicsTotal     int `json:"newTopicsTotal"`
	NewTopicsCompleted int `json:"newTopicsCompleted"`
}

// ReadinessReport estimates exam preparedness on a 0..100 scale.
type ReadinessReport struct {
	Overall            int            `json:"overall"`
	Level              string         `json:"level"`
	ModuleReadiness    float64        `json:"moduleReadiness"`
	QuizReadiness      float64        `json:"quizReadiness"`
	NewTopicsReadiness float64        `json:"newTopicsReadiness"`
	Stats              ReadinessStats `json:"stats"`
}

// ProgressEngine derives every analytics view as a pure function of the
// registry, the mapper and the progress snapshot. It never mutates state.
type ProgressEngine struct {
	registry *content.Registry
	tracker  *state.Tracker
}

// NewProgressEngine builds the engine.
func NewProgressEngine(registry *content.Registry, tracker *state.Tracker) *ProgressEngine {
	return &ProgressEngine{registry: registry, tracker: tracker}
}

// scopeOptions is how the engine scopes content to a specialization:
// at least medium relevance, general content included.
var scopeOptions = category.FilterOptions{
	MinRelevance:   domain.RelevanceMedium,
	IncludeGeneral: true,
}

// OverallProgress computes the weighted progress summary, scoped to a
// specialization when one is given (empty track means everything).
func (e *ProgressEngine) OverallProgress(specialization domain.Track) OverallProgress {
	modules := e.registry.AllModules()
	quizzes := e.registry.AllQuizzes()
	if specialization != "" {
		modules = category.FilterModules(modules, specialization, scopeOptions)
		quizzes = category.FilterQuizzes(quizzes, specialization, scopeOptions)
	}

	snapshot := e.tracker.Snapshot()
	completedSet := toSet(snapshot.ModulesCompleted)

	completed := 0
	for _, m := range modules {
		if completedSet[m.ID] {
			completed++
		}
	}
	moduleCompletion := percent(completed, len(modules))

	quizSet := make(map[string]bool, len(quizzes))
	for _, q := range quizzes {
		quizSet[q.ID] = true
	}
	scoreSum, scoreCount := 0, 0
	for _, attempt := range snapshot.QuizAttempts {
		if quizSet[attempt.QuizID] {
			scoreSum += attempt.Score
			scoreCount++
		}
	}
	avgScore := 0
	if scoreCount > 0 {
		avgScore = int(math.Round(float64(scoreSum) / float64(scoreCount)))
	}

	return OverallProgress{
		OverallPercentage:       int(math.Round(0.7*float64(moduleCompletion) + 0.3*float64(avgScore))),
		ModuleCompletionPercent: moduleCompletion,
		ModulesCompleted:        completed,
		TotalModules:            len(modules),
		AverageQuizScore:        avgScore,
		LastActivity:            snapshot.LastActivity,
		Tracks:                  e.trackBreakdowns(specialization, snapshot),
	}
}

// ModuleProgress returns the tri-state status of one module.
func (e *ProgressEngine) ModuleProgress(moduleID string) (ModuleProgress, error) {
	if e.registry.GetModule(moduleID) == nil {
		return ModuleProgress{}, domain.ErrModuleNotFound
	}
	status := e.tracker.ModuleStatus(moduleID)
	return ModuleProgress{
		ID:         moduleID,
		Completed:  status == domain.StatusCompleted,
		InProgress: status == domain.StatusInProgress,
		Status:     status,
	}, nil
}

// QuizHistory returns all attempts, newest first, annotated with the
// passing flag.
func (e *ProgressEngine) QuizHistory() []HistoryEntry {
	attempts := e.tracker.Attempts()
	entries := make([]HistoryEntry, 0, len(attempts))
	for _, attempt := range attempts {
		entries = append(entries, HistoryEntry{
			QuizAttempt: attempt,
			Passed:      Passed(attempt.Score),
		})
	}
	// RFC 3339 timestamps order lexicographically.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date > entries[j].Date
	})
	return entries
}

// ProgressByExamCategory groups modules by taxonomy subcategory, high
// exam relevance first, then completion percent descending.
func (e *ProgressEngine) ProgressByExamCategory() []CategoryProgress {
	modules := e.registry.AllModules()
	var out []CategoryProgress
	for _, area := range e.registry.Taxonomy() {
		for _, sub := range area.Subcategories {
			cp := CategoryProgress{
				Code:          sub.Code,
				Name:          sub.Name,
				ExamRelevance: sub.ExamRelevance,
			}
			for _, m := range modules {
				if !categoryHasPrefix(m.Category, sub.Code) {
					continue
				}
				cp.TotalModules++
				switch e.tracker.ModuleStatus(m.ID) {
				case domain.StatusCompleted:
					cp.Completed++
				case domain.StatusInProgress:
					cp.InProgress++
				default:
					cp.NotStarted++
				}
			}
			if cp.TotalModules == 0 {
				continue
			}
			cp.Percent = percent(cp.Completed, cp.TotalModules)
			switch {
			case cp.Completed == cp.TotalModules:
				cp.Status = domain.StatusCompleted
			case cp.Completed > 0 || cp.InProgress > 0:
				cp.Status = domain.StatusInProgress
			default:
				cp.Status = domain.StatusNotStarted
			}
			out = append(out, cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].ExamRelevance.Rank(), out[j].ExamRelevance.Rank()
		if ri != rj {
			return ri > rj
		}
		return out[i].Percent > out[j].Percent
	})
	return out
}

// WeakAreas derives the weak-area diagnostics: poor quiz performance per
// exam category, under-completed high-relevance categories, and pending
// 2025 revision topics. Sorted by severity, high first.
func (e *ProgressEngine) WeakAreas() []WeakArea {
	var out []WeakArea

	type bucket struct {
		sum, count int
	}
	buckets := make(map[string]*bucket)
	var bucketOrder []string
	for _, attempt := range e.tracker.Attempts() {
		prefix := e.attemptCategory(attempt)
		if prefix == "" {
			continue
		}
		b, ok := buckets[prefix]
		if !ok {
			b = &bucket{}
			buckets[prefix] = b
			bucketOrder = append(bucketOrder, prefix)
		}
		b.sum += attempt.Score
		b.count++
	}
	for _, prefix := range bucketOrder {
		b := buckets[prefix]
		mean := int(math.Round(float64(b.sum) / float64(b.count)))
		if mean >= PassingScore {
			continue
		}
		out = append(out, WeakArea{
			Type:         WeakAreaQuizPerformance,
			Category:     prefix,
			AverageScore: mean,
			Attempts:     b.count,
			Severity:     scoreSeverity(mean),
			Description:  "quiz scores below passing threshold",
		})
	}

	for _, cp := range e.ProgressByExamCategory() {
		if cp.ExamRelevance != domain.RelevanceHigh || cp.Percent >= 50 {
			continue
		}
		out = append(out, WeakArea{
			Type:              WeakAreaLowCompletion,
			Category:          cp.Code,
			CompletionPercent: cp.Percent,
			Severity:          completionSeverity(cp.Percent),
			Description:       "high exam relevance with low completion",
		})
	}

	newTopics := e.registry.NewIn2025Modules()
	incomplete := 0
	for _, m := range newTopics {
		if e.tracker.ModuleStatus(m.ID) != domain.StatusCompleted {
			incomplete++
		}
	}
	if incomplete > 0 {
		out = append(out, WeakArea{
			Type:        WeakAreaNewTopics,
			Severity:    SeverityHigh,
			Description: "2025 revision topics not yet completed",
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return severityRank(out[i].Severity) > severityRank(out[j].Severity)
	})
	return out
}

// ExamReadiness weights module completion by exam relevance, blends in
// quiz performance and 2025-topic coverage, and bands the result.
func (e *ProgressEngine) ExamReadiness() ReadinessReport {
	modules := e.registry.AllModules()
	snapshot := e.tracker.Snapshot()
	completedSet := toSet(snapshot.ModulesCompleted)

	weightSum, weightedCompleted := 0, 0
	// Completed ids that no longer resolve in the registry stay out of
	// the count as well as out of the weighting.
	completedKnown := 0
	for _, m := range modules {
		w := relevanceWeight(m.ExamRelevance)
		weightSum += w
		if completedSet[m.ID] {
			weightedCompleted += w
			completedKnown++
		}
	}
	moduleReadiness := 0.0
	if weightSum > 0 {
		moduleReadiness = 100 * float64(weightedCompleted) / float64(weightSum)
	}

	quizReadiness := 0.0
	if len(snapshot.QuizAttempts) > 0 {
		sum := 0
		for _, attempt := range snapshot.QuizAttempts {
			sum += attempt.Score
		}
		quizReadiness = float64(sum) / float64(len(snapshot.QuizAttempts))
	}

	newTopics := e.registry.NewIn2025Modules()
	newCompleted := 0
	for _, m := range newTopics {
		if completedSet[m.ID] {
			newCompleted++
		}
	}
	newTopicsReadiness := 100.0
	if len(newTopics) > 0 {
		newTopicsReadiness = 100 * float64(newCompleted) / float64(len(newTopics))
	}

	overall := int(math.Round(0.5*moduleReadiness + 0.3*quizReadiness + 0.2*newTopicsReadiness))
	return ReadinessReport{
		Overall:            overall,
		Level:              readinessLevel(overall),
		ModuleReadiness:    moduleReadiness,
		QuizReadiness:      quizReadiness,
		NewTopicsReadiness: newTopicsReadiness,
		Stats: ReadinessStats{
			TotalModules:       len(modules),
			CompletedModules:   completedKnown,
			TotalAttempts:      len(snapshot.QuizAttempts),
			NewTopicsTotal:     len(newTopics),
			NewTopicsCompleted: newCompleted,
		},
	}
}

// CategoryBreakdown reports per-track totals with the relevance each
// track has for the given specialization.
func (e *ProgressEngine) CategoryBreakdown(specialization domain.Track) []TrackBreakdown {
	return e.trackBreakdowns(specialization, e.tracker.Snapshot())
}

func (e *ProgressEngine) trackBreakdowns(specialization domain.Track, snapshot domain.ProgressSnapshot) []TrackBreakdown {
	completedSet := toSet(snapshot.ModulesCompleted)
	out := make([]TrackBreakdown, 0, 3)
	for _, track := range domain.AllTracks() {
		modules, err := e.registry.ModulesByTrack(track)
		if err != nil {
			continue
		}
		quizzes, err := e.registry.QuizzesByTrack(track)
		if err != nil {
			continue
		}
		b := TrackBreakdown{Track: track, TotalModules: len(modules), TotalQuizzes: len(quizzes)}
		for _, m := range modules {
			if completedSet[m.ID] {
				b.CompletedModules++
			}
		}
		b.CompletionPercent = percent(b.CompletedModules, b.TotalModules)

		quizSet := make(map[string]bool, len(quizzes))
		for _, q := range quizzes {
			quizSet[q.ID] = true
		}
		taken := make(map[string]bool)
		sum, count := 0, 0
		for _, attempt := range snapshot.QuizAttempts {
			if !quizSet[attempt.QuizID] {
				continue
			}
			taken[attempt.QuizID] = true
			sum += attempt.Score
			count++
		}
		b.QuizzesTaken = len(taken)
		if count > 0 {
			b.AverageScore = int(math.Round(float64(sum) / float64(count)))
		}
		if specialization != "" {
			b.Relevance = category.Relevance(track, specialization)
		}
		out = append(out, b)
	}
	return out
}

// attemptCategory resolves the exam-category prefix of an attempt from
// the quiz's own category field, falling back to parsing the quiz id.
func (e *ProgressEngine) attemptCategory(attempt domain.QuizAttempt) string {
	if quiz := e.registry.GetQuiz(attempt.QuizID); quiz != nil && quiz.Category != "" {
		if prefix := examCategoryPrefix(quiz.Category); prefix != "" {
			return prefix
		}
	}
	return examCategoryPrefix(attempt.QuizID)
}

var examCategoryPattern = regexp.MustCompile(`(?i)^(bp-dpa-\d+|bp-ae-\d+|bp-\d+|fue-\d+)`)

// examCategoryPrefix extracts the taxonomy code, e.g. FUE-02 out of
// "fue-02-qualitaetssicherung".
func examCategoryPrefix(s string) string {
	match := examCategoryPattern.FindString(strings.TrimSpace(s))
	return strings.ToUpper(match)
}

func categoryHasPrefix(sourceCategory, code string) bool {
	return strings.HasPrefix(
		category.Normalize(sourceCategory),
		category.Normalize(code),
	)
}

func scoreSeverity(mean int) string {
	switch {
	case mean < 50:
		return SeverityHigh
	case mean < 60:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

func completionSeverity(completionPercent int) string {
	switch {
	case completionPercent == 0:
		return SeverityHigh
	case completionPercent < 25:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

func severityRank(severity string) int {
	switch severity {
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}

func relevanceWeight(r domain.Relevance) int {
	switch r {
	case domain.RelevanceHigh:
		return 3
	case domain.RelevanceMedium:
		return 2
	default:
		return 1
	}
}

func readinessLevel(overall int) string {
	switch {
	case overall >= 85:
		return "excellent"
	case overall >= 70:
		return "good"
	case overall >= 50:
		return "moderate"
	case overall >= 30:
		return "needs-improvement"
	default:
		return "insufficient"
	}
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
