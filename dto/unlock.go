package dto

import "github.com/guardianlock/guardian_api/model"

type StartUnlockSessionResponse struct {
	SessionID     string               `json:"session_id"`
	QuestionCount int                  `json:"question_count"`
	PassingScore  int                  `json:"passing_score"`
	Questions     []model.QuizQuestion `json:"questions"`
}

type SubmitQuizRequest struct {
	FinalScore     int `json:"final_score" validate:"min=0"`
	TotalQuestions int `json:"total_questions" validate:"required,min=1"`
}

func (r SubmitQuizRequest) Validate() error {
	return GetValidator().Struct(r)
}

type SubmitQuizResponse struct {
	Passed          bool  `json:"passed"`
	PassingScore    int   `json:"passing_score"`
	UnlockExpiresAt int64 `json:"unlock_expires_at,omitempty"`
	UnlockMinutes   int   `json:"unlock_minutes,omitempty"`
}
