package content_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/davidhoeppner/LernApp2-sub000/internal/content"
	"github.com/davidhoeppner/LernApp2-sub000/internal/domain"
)

func TestFSLoaderReadsSingleAndAggregateModuleFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"modules/single.json": {Data: []byte(`{
			"id": "m-single", "title": "T", "description": "D",
			"category": "FUE-01", "content": "Inhalt"
		}`)},
		"modules/aggregate.json": {Data: []byte(`{"modules": [
			{"id": "m-a", "title": "A", "description": "D", "category": "BP-DPA-01", "content": "x"},
			{"id": "m-b", "title": "B", "description": "D", "category": "BP-AE-01", "content": "x"}
		]}`)},
		"modules/broken.json": {Data: []byte(`{not json`)},
	}
	loader := content.NewFSLoader(fsys, nil)

	modules, err := loader.LoadModules(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(modules) != 3 {
		t.Fatalf("expected 3 modules (broken file skipped), got %d", len(modules))
	}
}

func TestFSLoaderMissingMetadataFilesAreOptional(t *testing.T) {
	loader := content.NewFSLoader(fstest.MapFS{}, nil)
	ctx := context.Background()

	taxonomy, err := loader.LoadTaxonomy(ctx)
	if err != nil || taxonomy != nil {
		t.Fatalf("expected empty taxonomy without error, got %v %v", taxonomy, err)
	}
	changes, err := loader.LoadExamChanges(ctx)
	if err != nil || len(changes.RemovedTopics) != 0 {
		t.Fatalf("expected zero exam changes without error, got %v %v", changes, err)
	}
}

func TestFSLoaderResolveQuiz(t *testing.T) {
	fsys := fstest.MapFS{
		"quizzes/fue-02-quiz.json": {Data: []byte(`{
			"id": "fue-02-quiz", "title": "QS", "category": "FUE-02",
			"questions": [{"id": "q1", "question": "?", "options": ["a","b"], "correctAnswer": "a"}]
		}`)},
	}
	loader := content.NewFSLoader(fsys, nil)

	quiz, err := loader.ResolveQuiz(context.Background(), "fue-02-quiz")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if quiz.ID != "fue-02-quiz" || len(quiz.Questions) != 1 {
		t.Fatalf("unexpected quiz: %+v", quiz)
	}

	if _, err := loader.ResolveQuiz(context.Background(), "missing"); !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}
