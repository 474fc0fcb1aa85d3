// Package app contains the assessment and analytics use cases built on
// the content registry and the state layer.
package app

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/davidhoeppner/LernApp2-sub000/internal/content"
	"github.com/davidhoeppner/LernApp2-sub000/internal/domain"
	"github.com/davidhoeppner/LernApp2-sub000/internal/state"
)

// PassingScore is the fixed passing threshold for quiz attempts.
const PassingScore = 70

// Passed reports whether a score meets the passing threshold.
func Passed(score int) bool {
	return score >= PassingScore
}

// Answer is one submitted answer within an attempt.
type Answer struct {
	QuestionID string `json:"questionId"`
	Choice     string `json:"choice"`
}

// AnswerFeedback is the outcome of checking a single answer.
type AnswerFeedback struct {
	QuestionID    string `json:"questionId"`
	Choice        string `json:"choice"`
	CorrectAnswer string `json:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
	Explanation   string `json:"explanation,omitempty"`
}

// ScoreResult summarizes a scored attempt. The denominator is always the
// quiz's question count; unanswered questions count as incorrect.
type ScoreResult struct {
	QuizID           string                `json:"quizId"`
	TotalQuestions   int                   `json:"totalQuestions"`
	CorrectAnswers   int                   `json:"correctAnswers"`
	IncorrectAnswers int                   `json:"incorrectAnswers"`
	Score            int                   `json:"score"`
	PerQuestion      []domain.AnswerRecord `json:"perQuestion"`
}

// QuizEngine validates answers, scores attempts and appends attempt
// records to the progress snapshot. Scoring is pure; recording is the
// only mutation and goes through the tracker.
type QuizEngine struct {
	registry *content.Registry
	tracker  *state.Tracker
	logger   *slog.Logger
	clock    func() time.Time
}

// NewQuizEngine builds the engine. If logger is nil the default logger
// is used.
func NewQuizEngine(registry *content.Registry, tracker *state.Tracker, logger *slog.Logger) *QuizEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuizEngine{
		registry: registry,
		tracker:  tracker,
		logger:   logger.With(slog.String("component", "quiz_engine")),
		clock:    time.Now,
	}
}

// SubmitAnswer checks a single answer against the quiz content.
func (e *QuizEngine) SubmitAnswer(ctx context.Context, quizID, questionID, choice string) (AnswerFeedback, error) {
	quiz, err := e.registry.ResolveQuiz(ctx, quizID)
	if err != nil {
		return AnswerFeedback{}, err
	}
	question := findQuestion(quiz, questionID)
	if question == nil {
		return AnswerFeedback{}, domain.ErrQuestionNotFound
	}
	if !optionOf(question, choice) {
		return AnswerFeedback{}, domain.NewValidationError("choice", "answer is not one of the question's options")
	}
	return AnswerFeedback{
		QuestionID:    questionID,
		Choice:        choice,
		CorrectAnswer: question.CorrectAnswer,
		IsCorrect:     choice == question.CorrectAnswer,
		Explanation:   question.Explanation,
	}, nil
}

// ScoreAttempt scores a full answer set against the quiz. Answers for
// unknown question ids are skipped with a warning.
func (e *QuizEngine) ScoreAttempt(ctx context.Context, quizID string, answers []Answer) (ScoreResult, error) {
	quiz, err := e.registry.ResolveQuiz(ctx, quizID)
	if err != nil {
		return ScoreResult{}, err
	}

	total := len(quiz.Questions)
	records := make([]domain.AnswerRecord, 0, len(answers))
	// Last answer per question wins so a question never counts twice.
	seen := make(map[string]int, len(answers))
	for _, answer := range answers {
		question := findQuestion(quiz, answer.QuestionID)
		if question == nil {
			e.logger.Warn("answer references unknown question",
				"quiz", quizID, "question", answer.QuestionID)
			continue
		}
		record := domain.AnswerRecord{
			QuestionID: answer.QuestionID,
			Choice:     answer.Choice,
			Correct:    answer.Choice == question.CorrectAnswer,
		}
		if i, ok := seen[answer.QuestionID]; ok {
			records[i] = record
			continue
		}
		seen[answer.QuestionID] = len(records)
		records = append(records, record)
	}
	correct := 0
	for _, record := range records {
		if record.Correct {
			correct++
		}
	}

	return ScoreResult{
		QuizID:           quizID,
		TotalQuestions:   total,
		CorrectAnswers:   correct,
		IncorrectAnswers: total - correct,
		Score:            percent(correct, total),
		PerQuestion:      records,
	}, nil
}

// RecordAttempt appends the scored attempt to the progress history and
// bumps last activity. Persistence errors from the state layer propagate
// unchanged.
func (e *QuizEngine) RecordAttempt(ctx context.Context, result ScoreResult) (domain.QuizAttempt, error) {
	if result.QuizID == "" {
		return domain.QuizAttempt{}, domain.NewValidationError("quizId", "must not be empty")
	}
	if result.TotalQuestions <= 0 {
		return domain.QuizAttempt{}, domain.NewValidationError("totalQuestions", "must be positive")
	}
	attempt := domain.QuizAttempt{
		QuizID:         result.QuizID,
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		CorrectAnswers: result.CorrectAnswers,
		Date:           e.clock().UTC().Format(time.RFC3339),
		Answers:        result.PerQuestion,
	}
	if err := e.tracker.RecordAttempt(ctx, attempt); err != nil {
		return domain.QuizAttempt{}, err
	}
	return attempt, nil
}

func findQuestion(quiz domain.Quiz, questionID string) *domain.Question {
	for i := range quiz.Questions {
		if quiz.Questions[i].ID == questionID {
			return &quiz.Questions[i]
		}
	}
	return nil
}

func optionOf(question *domain.Question, choice string) bool {
	for _, option := range question.Options {
		if option == choice {
			return true
		}
	}
	return false
}

// percent is round(100·part/total), 0 when total is 0.
func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}
