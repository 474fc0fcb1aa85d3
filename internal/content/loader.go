package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"

	"github.com/davidhoeppner/LernApp2-sub000/internal/domain"
)

// Loader supplies bundled content records at registry warm-up.
type Loader interface {
	LoadModules(ctx context.Context) ([]domain.Module, error)
	LoadQuizzes(ctx context.Context) ([]domain.Quiz, error)
	LoadTaxonomy(ctx context.Context) ([]domain.ExamArea, error)
	LoadExamChanges(ctx context.Context) (domain.ExamChanges, error)
}

// QuizResolver loads a single quiz on demand, for ids that were not part
// of the warm-up bundle. The registry memoizes successful resolutions.
type QuizResolver interface {
	ResolveQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// FSLoader reads bundled JSON content from a file system:
//
//	modules/*.json      single module record or {"modules": [...]}
//	quizzes/*.json      single quiz record
//	taxonomy.json       exam areas with subcategories
//	exam-changes.json   2025 revision metadata
//
// Files that fail to decode are skipped with a warning; warm-up never
// fails on individual records.
type FSLoader struct {
	fsys   fs.FS
	logger *slog.Logger
}

// NewFSLoader builds a loader over fsys. If logger is nil the default
// logger is used.
func NewFSLoader(fsys fs.FS, logger *slog.Logger) *FSLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSLoader{
		fsys:   fsys,
		logger: logger.With(slog.String("component", "content_loader")),
	}
}

func (l *FSLoader) LoadModules(_ context.Context) ([]domain.Module, error) {
	files, err := fs.Glob(l.fsys, "modules/*.json")
	if err != nil {
		return nil, fmt.Errorf("glob modules: %w", err)
	}
	var modules []domain.Module
	for _, name := range files {
		data, err := fs.ReadFile(l.fsys, name)
		if err != nil {
			l.logger.Warn("skipping unreadable module file", "file", name, "error", err)
			continue
		}
		records, err := decodeModuleFile(data)
		if err != nil {
			l.logger.Warn("skipping malformed module file", "file", name, "error", err)
			continue
		}
		modules = append(modules, records...)
	}
	return modules, nil
}

// decodeModuleFile accepts either a single module record or an aggregated
// file carrying a modules array, flattened one level.
func decodeModuleFile(data []byte) ([]domain.Module, error) {
	var aggregate struct {
		Modules []domain.Module `json:"modules"`
	}
	if err := json.Unmarshal(data, &aggregate); err == nil && len(aggregate.Modules) > 0 {
		return aggregate.Modules, nil
	}
	var single domain.Module
	if err := json.Unmarshal(data, &single); err != nil {
		return nil, err
	}
	return []domain.Module{single}, nil
}

func (l *FSLoader) LoadQuizzes(_ context.Context) ([]domain.Quiz, error) {
	files, err := fs.Glob(l.fsys, "quizzes/*.json")
	if err != nil {
		return nil, fmt.Errorf("glob quizzes: %w", err)
	}
	var quizzes []domain.Quiz
	for _, name := range files {
		data, err := fs.ReadFile(l.fsys, name)
		if err != nil {
			l.logger.Warn("skipping unreadable quiz file", "file", name, "error", err)
			continue
		}
		var quiz domain.Quiz
		if err := json.Unmarshal(data, &quiz); err != nil {
			l.logger.Warn("skipping malformed quiz file", "file", name, "error", err)
			continue
		}
		quizzes = append(quizzes, quiz)
	}
	return quizzes, nil
}

func (l *FSLoader) LoadTaxonomy(_ context.Context) ([]domain.ExamArea, error) {
	data, err := fs.ReadFile(l.fsys, "taxonomy.json")
	if err != nil {
		if isNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read taxonomy: %w", err)
	}
	var taxonomy struct {
		Areas []domain.ExamArea `json:"areas"`
	}
	if err := json.Unmarshal(data, &taxonomy); err != nil {
		return nil, fmt.Errorf("unmarshal taxonomy: %w", err)
	}
	return taxonomy.Areas, nil
}

func (l *FSLoader) LoadExamChanges(_ context.Context) (domain.ExamChanges, error) {
	data, err := fs.ReadFile(l.fsys, "exam-changes.json")
	if err != nil {
		if isNotExist(err) {
			return domain.ExamChanges{}, nil
		}
		return domain.ExamChanges{}, fmt.Errorf("read exam changes: %w", err)
	}
	var changes domain.ExamChanges
	if err := json.Unmarshal(data, &changes); err != nil {
		return domain.ExamChanges{}, fmt.Errorf("unmarshal exam changes: %w", err)
	}
	return changes, nil
}

// ResolveQuiz lets an FSLoader double as an on-demand source for per-quiz
// files named quizzes/<id>.json.
func (l *FSLoader) ResolveQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	data, err := fs.ReadFile(l.fsys, path.Join("quizzes", quizID+".json"))
	if err != nil {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal quiz %s: %w", quizID, err)
	}
	return quiz, nil
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
