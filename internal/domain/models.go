package domain

// Track is the canonical three-way classification of content for the
// IHK Fachinformatiker part-2 exam.
type Track string

const (
	TrackDPA     Track = "daten-prozessanalyse"
	TrackAE      Track = "anwendungsentwicklung"
	TrackGeneral Track = "allgemein"
)

// AllTracks returns the closed track set in canonical order.
func AllTracks() []Track {
	return []Track{TrackDPA, TrackAE, TrackGeneral}
}

// Valid reports whether t is a member of the closed track set.
func (t Track) Valid() bool {
	return t == TrackDPA || t == TrackAE || t == TrackGeneral
}

// Relevance describes how useful content is to a specialization.
type Relevance string

const (
	RelevanceHigh   Relevance = "high"
	RelevanceMedium Relevance = "medium"
	RelevanceLow    Relevance = "low"
	RelevanceNone   Relevance = "none"
)

// Rank orders relevance levels: high > medium > low > none.
func (r Relevance) Rank() int {
	switch r {
	case RelevanceHigh:
		return 3
	case RelevanceMedium:
		return 2
	case RelevanceLow:
		return 1
	default:
		return 0
	}
}

// Difficulty of a module or quiz.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// LearningStatus is the tri-state progress of a module.
type LearningStatus string

const (
	StatusCompleted  LearningStatus = "completed"
	StatusInProgress LearningStatus = "in-progress"
	StatusNotStarted LearningStatus = "not-started"
)

// CategoryMapping records how a source category was resolved to a track.
type CategoryMapping struct {
	SourceCategory string `json:"sourceCategory"`
	Track          Track  `json:"track"`
	AppliedRule    string `json:"appliedRule,omitempty"`
	Reason         string `json:"reason"`
}

// ModuleFlags carry exam-change markers on a module.
type ModuleFlags struct {
	NewIn2025 bool `json:"newIn2025"`
	Important bool `json:"important"`
}

// Module is one markdown study unit.
type Module struct {
	ID               string      `json:"id"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	Category         string      `json:"category"` // source category, kept verbatim for back-compat
	Difficulty       Difficulty  `json:"difficulty"`
	ExamRelevance    Relevance   `json:"examRelevance"`
	EstimatedMinutes int         `json:"estimatedMinutes"`
	Prerequisites    []string    `json:"prerequisites,omitempty"`
	Tags             []string    `json:"tags,omitempty"`
	Content          string      `json:"content"`
	RelatedQuizzes   []string    `json:"relatedQuizzes,omitempty"`
	Flags            ModuleFlags `json:"flags"`

	// Derived at registry warm-up.
	Track   Track            `json:"track,omitempty"`
	Mapping *CategoryMapping `json:"categoryMapping,omitempty"`
}

// Question models an MCQ question; CorrectAnswer is always a member of Options.
type Question struct {
	ID            string   `json:"id"`
	Prompt        string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
	Weight        int      `json:"weight,omitempty"` // defaults to 1 if zero
}

// Quiz is an ordered, non-empty set of questions.
type Quiz struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	ModuleID   string     `json:"moduleId,omitempty"`
	Category   string     `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
	Questions  []Question `json:"questions"`

	Track   Track            `json:"track,omitempty"`
	Mapping *CategoryMapping `json:"categoryMapping,omitempty"`
}

// ExamArea is one top-level area of the category taxonomy.
type ExamArea struct {
	Code          string            `json:"code"`
	Name          string            `json:"name"`
	Subcategories []ExamSubcategory `json:"subcategories"`
}

// ExamSubcategory is one taxonomy leaf, e.g. FUE-02.
type ExamSubcategory struct {
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	ExamRelevance Relevance `json:"examRelevance"`
}

// ExamChanges carries the 2025 exam revision metadata.
type ExamChanges struct {
	RemovedTopics []string `json:"removedTopics"`
}
