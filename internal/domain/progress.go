package domain

// AnswerRecord is one answered question within an attempt.
type AnswerRecord struct {
	QuestionID string `json:"questionId"`
	Choice     string `json:"choice"`
	Correct    bool   `json:"correct"`
}

// QuizAttempt is one recorded quiz submission. Attempts are append-only.
type QuizAttempt struct {
	QuizID         string         `json:"quizId"`
	Score          int            `json:"score"` // 0..100
	TotalQuestions int            `json:"totalQuestions"`
	CorrectAnswers int            `json:"correctAnswers"`
	Date           string         `json:"date"` // RFC 3339 UTC
	Answers        []AnswerRecord `json:"answers,omitempty"`
}

// ProgressSnapshot is the single persisted user state record.
// Invariant: ModulesCompleted and ModulesInProgress are disjoint.
type ProgressSnapshot struct {
	ModulesCompleted  []string      `json:"modulesCompleted"`
	ModulesInProgress []string      `json:"modulesInProgress"`
	QuizAttempts      []QuizAttempt `json:"quizAttempts"`
	LastActivity      string        `json:"lastActivity,omitempty"`
}
