package content

import (
	"fmt"
	"sort"
	"strings"

	"github.com/davidhoeppner/LernApp2-sub000/internal/domain"
)

// SearchFilters narrow a search result; zero-valued fields are inactive.
// All active filters must match (conjunction).
type SearchFilters struct {
	Category       string
	Difficulty     domain.Difficulty
	ExamRelevance  domain.Relevance
	NewIn2025      *bool
	Important      *bool
	LearningStatus domain.LearningStatus
}

// ContentKind discriminates mixed module/quiz results.
type ContentKind string

const (
	KindModule ContentKind = "module"
	KindQuiz   ContentKind = "quiz"
)

// ScoredContent is one in-track search hit with its relevance score.
// Exactly one of Module and Quiz is set, per Kind.
type ScoredContent struct {
	Kind   ContentKind     `json:"kind"`
	Module *EnrichedModule `json:"module,omitempty"`
	Quiz   *domain.Quiz    `json:"quiz,omitempty"`
	Score  int             `json:"score"`
}

// ID returns the hit's content id.
func (s ScoredContent) ID() string {
	if s.Kind == KindQuiz {
		return s.Quiz.ID
	}
	return s.Module.ID
}

// Search finds modules by case-insensitive substring match against title,
// description, content and tags, then applies the filter conjunction.
// Results are enriched with the caller's progress status.
func (r *Registry) Search(query string, filters SearchFilters) []EnrichedModule {
	needle := strings.ToLower(strings.TrimSpace(query))
	var out []EnrichedModule
	for _, m := range r.AllModules() {
		if needle != "" && !moduleMatches(m, needle) {
			continue
		}
		enriched := r.Enrich(m)
		if !filters.match(enriched) {
			continue
		}
		out = append(out, enriched)
	}
	return out
}

func moduleMatches(m domain.Module, needle string) bool {
	if strings.Contains(strings.ToLower(m.Title), needle) ||
		strings.Contains(strings.ToLower(m.Description), needle) ||
		strings.Contains(strings.ToLower(m.Content), needle) {
		return true
	}
	for _, tag := range m.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

func (f SearchFilters) match(m EnrichedModule) bool {
	if f.Category != "" && !strings.EqualFold(strings.TrimSpace(f.Category), strings.TrimSpace(m.Category)) {
		return false
	}
	if f.Difficulty != "" && m.Difficulty != f.Difficulty {
		return false
	}
	if f.ExamRelevance != "" && m.ExamRelevance != f.ExamRelevance {
		return false
	}
	if f.NewIn2025 != nil && m.Flags.NewIn2025 != *f.NewIn2025 {
		return false
	}
	if f.Important != nil && m.Flags.Important != *f.Important {
		return false
	}
	if f.LearningStatus != "" && m.Status != f.LearningStatus {
		return false
	}
	return true
}

// Search scoring weights.
const (
	scoreTitle      = 10
	scoreExactTitle = 5
	scoreDesc       = 5
	scoreTag        = 3
	scoreContent    = 2
	scoreQuestion   = 2
)

// SearchInTrack searches modules and quizzes of one track, ranking hits
// by a weighted relevance score: title matches above description matches,
// description above content, with an exact-title bonus on top.
func (r *Registry) SearchInTrack(query string, track domain.Track) ([]ScoredContent, error) {
	if !track.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTrack, track)
	}
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil, nil
	}

	modules, err := r.ModulesByTrack(track)
	if err != nil {
		return nil, err
	}
	quizzes, err := r.QuizzesByTrack(track)
	if err != nil {
		return nil, err
	}

	var hits []ScoredContent
	for _, m := range modules {
		if score := scoreModule(m, needle); score > 0 {
			enriched := r.Enrich(m)
			hits = append(hits, ScoredContent{Kind: KindModule, Module: &enriched, Score: score})
		}
	}
	for i := range quizzes {
		if score := scoreQuiz(quizzes[i], needle); score > 0 {
			hits = append(hits, ScoredContent{Kind: KindQuiz, Quiz: &quizzes[i], Score: score})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	return hits, nil
}

func scoreModule(m domain.Module, needle string) int {
	score := 0
	title := strings.ToLower(m.Title)
	if strings.Contains(title, needle) {
		score += scoreTitle
		if title == needle {
			score += scoreExactTitle
		}
	}
	if strings.Contains(strings.ToLower(m.Description), needle) {
		score += scoreDesc
	}
	for _, tag := range m.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			score += scoreTag
		}
	}
	if strings.Contains(strings.ToLower(m.Content), needle) {
		score += scoreContent
	}
	return score
}

func scoreQuiz(q domain.Quiz, needle string) int {
	score := 0
	title := strings.ToLower(q.Title)
	if strings.Contains(title, needle) {
		score += scoreTitle
		if title == needle {
			score += scoreExactTitle
		}
	}
	for _, question := range q.Questions {
		if strings.Contains(strings.ToLower(question.Prompt), needle) {
			score += scoreQuestion
		}
	}
	return score
}
