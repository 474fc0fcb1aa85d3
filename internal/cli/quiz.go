package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/davidhoeppner/LernApp2-sub000/internal/app"
)

func newQuizCmd(configPath *string) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "quiz <quiz-id> [question-id=answer ...]",
		Short: "Score a quiz attempt",
		Long: `Scores the given answers against the quiz and records the attempt.
Each answer is written question-id=answer-text; unanswered questions
count as incorrect.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			quizID := args[0]
			answers := make([]app.Answer, 0, len(args)-1)
			for _, arg := range args[1:] {
				id, choice, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("malformed answer %q, want question-id=answer", arg)
				}
				answers = append(answers, app.Answer{QuestionID: id, Choice: choice})
			}

			result, err := a.Quiz.ScoreAttempt(cmd.Context(), quizID, answers)
			if err != nil {
				return err
			}
			if !dryRun {
				if _, err := a.Quiz.RecordAttempt(cmd.Context(), result); err != nil {
					return err
				}
			}
			verdict := "failed"
			if app.Passed(result.Score) {
				verdict = "passed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d correct, score %d%% (%s)\n",
				result.QuizID, result.CorrectAnswers, result.TotalQuestions, result.Score, verdict)
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "score without recording the attempt")
	return cmd
}
