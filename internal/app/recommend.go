package app

import (
	"sort"
	"strings"

	"github.com/davidhoeppner/LernApp2-sub000/internal/category"
	"github.com/davidhoeppner/LernApp2-sub000/internal/content"
	"github.com/davidhoeppner/LernApp2-sub000/internal/domain"
	"github.com/davidhoeppner/LernApp2-sub000/internal/state"
)

// Recommendation group types.
const (
	GroupContinue      = "continue"
	GroupWeakCategory  = "weak-category"
	GroupHighRelevance = "high-relevance"
	GroupNewTopics     = "new-2025"
)

const (
	maxContinue     = 3
	maxWeakCategory = 3
	maxRelevance    = 5
	maxNewTopics    = 5
)

// RecommendationGroup is one ranked group of suggested modules.
type RecommendationGroup struct {
	Type     string                   `json:"type"`
	Title    string                   `json:"title"`
	Category string                   `json:"category,omitempty"`
	Priority string                   `json:"priority"`
	Modules  []content.EnrichedModule `json:"modules"`
}

// RecommendationEngine ranks what to study next from the registry and
// the progress analytics. Read-only.
type RecommendationEngine struct {
	registry *content.Registry
	progress *ProgressEngine
	tracker  *state.Tracker
}

// NewRecommendationEngine builds the engine.
func NewRecommendationEngine(registry *content.Registry, progress *ProgressEngine, tracker *state.Tracker) *RecommendationEngine {
	return &RecommendationEngine{registry: registry, progress: progress, tracker: tracker}
}

// Recommendations emits up to four groups: continue in-progress modules,
// shore up weak quiz categories, cover high exam relevance, and close
// 2025 revision topics. Empty groups are dropped; within a group ties
// keep registry order.
func (e *RecommendationEngine) Recommendations() []RecommendationGroup {
	var groups []RecommendationGroup
	modules := e.registry.AllModules()
	removed := removedTopicSet(e.registry.ExamChanges())

	if g := e.continueGroup(modules); g != nil {
		groups = append(groups, *g)
	}
	groups = append(groups, e.weakCategoryGroups(modules)...)
	if g := e.highRelevanceGroup(modules, removed); g != nil {
		groups = append(groups, *g)
	}
	if g := e.newTopicsGroup(removed); g != nil {
		groups = append(groups, *g)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return severityRank(groups[i].Priority) > severityRank(groups[j].Priority)
	})
	return groups
}

func (e *RecommendationEngine) continueGroup(modules []domain.Module) *RecommendationGroup {
	var picks []content.EnrichedModule
	for _, m := range modules {
		if e.tracker.ModuleStatus(m.ID) == domain.StatusInProgress {
			picks = append(picks, e.registry.Enrich(m))
			if len(picks) == maxContinue {
				break
			}
		}
	}
	if len(picks) == 0 {
		return nil
	}
	return &RecommendationGroup{
		Type:     GroupContinue,
		Title:    "Weiterlernen",
		Priority: SeverityHigh,
		Modules:  picks,
	}
}

func (e *RecommendationEngine) weakCategoryGroups(modules []domain.Module) []RecommendationGroup {
	var groups []RecommendationGroup
	for _, weak := range e.progress.WeakAreas() {
		if weak.Type != WeakAreaQuizPerformance {
			continue
		}
		var picks []content.EnrichedModule
		for _, m := range modules {
			if e.tracker.ModuleStatus(m.ID) == domain.StatusCompleted {
				continue
			}
			if !categoryHasPrefix(m.Category, weak.Category) {
				continue
			}
			picks = append(picks, e.registry.Enrich(m))
			if len(picks) == maxWeakCategory {
				break
			}
		}
		if len(picks) == 0 {
			continue
		}
		groups = append(groups, RecommendationGroup{
			Type:     GroupWeakCategory,
			Title:    "Schwäche aufarbeiten: " + weak.Category,
			Category: weak.Category,
			Priority: weak.Severity,
			Modules:  picks,
		})
	}
	return groups
}

func (e *RecommendationEngine) highRelevanceGroup(modules []domain.Module, removed map[string]bool) *RecommendationGroup {
	var picks []content.EnrichedModule
	for _, m := range modules {
		if m.ExamRelevance != domain.RelevanceHigh {
			continue
		}
		if e.tracker.ModuleStatus(m.ID) != domain.StatusNotStarted {
			continue
		}
		if topicRemoved(removed, m.Category) {
			continue
		}
		picks = append(picks, e.registry.Enrich(m))
		if len(picks) == maxRelevance {
			break
		}
	}
	if len(picks) == 0 {
		return nil
	}
	return &RecommendationGroup{
		Type:     GroupHighRelevance,
		Title:    "Hohe Prüfungsrelevanz",
		Priority: SeverityMedium,
		Modules:  picks,
	}
}

func (e *RecommendationEngine) newTopicsGroup(removed map[string]bool) *RecommendationGroup {
	var picks []content.EnrichedModule
	for _, m := range e.registry.NewIn2025Modules() {
		if e.tracker.ModuleStatus(m.ID) == domain.StatusCompleted {
			continue
		}
		if topicRemoved(removed, m.Category) {
			continue
		}
		picks = append(picks, e.registry.Enrich(m))
		if len(picks) == maxNewTopics {
			break
		}
	}
	if len(picks) == 0 {
		return nil
	}
	return &RecommendationGroup{
		Type:     GroupNewTopics,
		Title:    "Neue Themen 2025",
		Priority: SeverityMedium,
		Modules:  picks,
	}
}

func removedTopicSet(changes domain.ExamChanges) map[string]bool {
	set := make(map[string]bool, len(changes.RemovedTopics))
	for _, topic := range changes.RemovedTopics {
		set[category.Normalize(topic)] = true
	}
	return set
}

// topicRemoved reports whether the category falls under a topic dropped
// by the 2025 revision.
func topicRemoved(removed map[string]bool, sourceCategory string) bool {
	normalized := category.Normalize(sourceCategory)
	for topic := range removed {
		if topic != "" && strings.HasPrefix(normalized, topic) {
			return true
		}
	}
	return false
}
