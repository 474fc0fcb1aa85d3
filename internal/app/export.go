package app

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/davidhoeppner/LernApp2-sub000/internal/domain"
	"github.com/davidhoeppner/LernApp2-sub000/internal/state"
)

// ExportSnapshot is the serialized progress export.
type ExportSnapshot struct {
	ExportDate string          `json:"exportDate"`
	Summary    OverallProgress `json:"summary"`
	Details    ExportDetails   `json:"details"`
}

// ExportDetails carries the raw progress record of the export.
type ExportDetails struct {
	ModulesCompleted  []string             `json:"modulesCompleted"`
	ModulesInProgress []string             `json:"modulesInProgress"`
	QuizAttempts      []domain.QuizAttempt `json:"quizAttempts"`
	LastActivity      string               `json:"lastActivity,omitempty"`
}

// Exporter serializes a progress snapshot for a download sink. Delivery
// of the bytes is the caller's concern.
type Exporter struct {
	progress *ProgressEngine
	tracker  *state.Tracker
	clock    func() time.Time
}

// NewExporter builds the exporter.
func NewExporter(progress *ProgressEngine, tracker *state.Tracker) *Exporter {
	return &Exporter{progress: progress, tracker: tracker, clock: time.Now}
}

// Export returns the pretty-printed JSON snapshot.
func (e *Exporter) Export(specialization domain.Track) ([]byte, error) {
	snapshot := e.tracker.Snapshot()
	export := ExportSnapshot{
		ExportDate: e.clock().UTC().Format(time.RFC3339),
		Summary:    e.progress.OverallProgress(specialization),
		Details: ExportDetails{
			ModulesCompleted:  snapshot.ModulesCompleted,
			ModulesInProgress: snapshot.ModulesInProgress,
			QuizAttempts:      snapshot.QuizAttempts,
			LastActivity:      snapshot.LastActivity,
		},
	}
	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export progress: %w", err)
	}
	return data, nil
}
