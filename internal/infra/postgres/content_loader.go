package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/davidhoeppner/LernApp2-sub000/internal/content"
	"github.com/davidhoeppner/LernApp2-sub000/internal/domain"
)

// ContentLoader warms the registry from Postgres JSONB rows instead of
// bundled files. It also serves as the on-demand quiz resolver.
type ContentLoader struct {
	pool *pgxpool.Pool
}

var (
	_ content.Loader       = (*ContentLoader)(nil)
	_ content.QuizResolver = (*ContentLoader)(nil)
)

// NewContentLoader wraps an existing pool.
func NewContentLoader(pool *pgxpool.Pool) *ContentLoader {
	return &ContentLoader{pool: pool}
}

func (l *ContentLoader) LoadModules(ctx context.Context) ([]domain.Module, error) {
	rows, err := l.pool.Query(ctx, `SELECT data FROM modules ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load modules: %w", err)
	}
	defer rows.Close()

	var modules []domain.Module
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}
		var m domain.Module
		if err := json.Unmarshal(raw, &m); err != nil {
			// Malformed rows are the registry's skip-and-warn territory;
			// surface them as empty records it will reject.
			modules = append(modules, domain.Module{})
			continue
		}
		modules = append(modules, m)
	}
	return modules, rows.Err()
}

func (l *ContentLoader) LoadQuizzes(ctx context.Context) ([]domain.Quiz, error) {
	rows, err := l.pool.Query(ctx, `SELECT data FROM quizzes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load quizzes: %w", err)
	}
	defer rows.Close()

	var quizzes []domain.Quiz
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		var q domain.Quiz
		if err := json.Unmarshal(raw, &q); err != nil {
			quizzes = append(quizzes, domain.Quiz{})
			continue
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

func (l *ContentLoader) LoadTaxonomy(ctx context.Context) ([]domain.ExamArea, error) {
	raw, err := l.meta(ctx, "taxonomy")
	if err != nil || raw == nil {
		return nil, err
	}
	var taxonomy struct {
		Areas []domain.ExamArea `json:"areas"`
	}
	if err := json.Unmarshal(raw, &taxonomy); err != nil {
		return nil, fmt.Errorf("unmarshal taxonomy: %w", err)
	}
	return taxonomy.Areas, nil
}

func (l *ContentLoader) LoadExamChanges(ctx context.Context) (domain.ExamChanges, error) {
	raw, err := l.meta(ctx, "exam-changes")
	if err != nil || raw == nil {
		return domain.ExamChanges{}, err
	}
	var changes domain.ExamChanges
	if err := json.Unmarshal(raw, &changes); err != nil {
		return domain.ExamChanges{}, fmt.Errorf("unmarshal exam changes: %w", err)
	}
	return changes, nil
}

func (l *ContentLoader) meta(ctx context.Context, key string) ([]byte, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM content_meta WHERE key=$1`, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	return raw, nil
}

// ResolveQuiz loads a single quiz row for ids outside the warm-up set.
func (l *ContentLoader) ResolveQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM quizzes WHERE id=$1`, quizID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("resolve quiz: %w", err)
	}
	var quiz domain.Quiz
	if err := json.Unmarshal(raw, &quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal quiz: %w", err)
	}
	return quiz, nil
}
