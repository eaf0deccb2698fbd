package dto

import "github.com/guardianlock/guardian_api/model"

type RecordActivityRequest struct {
	Type    string `json:"type" validate:"required,oneof=READING SPELLING MATH HOMEWORK QUIZ"`
	Success bool   `json:"success"`
	Details string `json:"details" validate:"omitempty,max=300"`
}

func (r RecordActivityRequest) Validate() error {
	return GetValidator().Struct(r)
}

type CategoryStats struct {
	Correct    int `json:"correct"`
	Attempts   int `json:"attempts"`
	Percentage int `json:"percentage"`
}

type LearningStatsResponse struct {
	Math           CategoryStats       `json:"math"`
	Reading        CategoryStats       `json:"reading"`
	Spelling       CategoryStats       `json:"spelling"`
	HomeworkScans  int                 `json:"homework_scans"`
	RecentActivity []model.ActivityLog `json:"recent_activity"`
}

func NewLearningStatsResponse(stats model.LearningStats) LearningStatsResponse {
	return LearningStatsResponse{
		Math: CategoryStats{
			Correct:    stats.MathCorrect,
			Attempts:   stats.MathAttempts,
			Percentage: model.Percentage(stats.MathCorrect, stats.MathAttempts),
		},
		Reading: CategoryStats{
			Correct:    stats.ReadingCorrect,
			Attempts:   stats.ReadingAttempts,
			Percentage: model.Percentage(stats.ReadingCorrect, stats.ReadingAttempts),
		},
		Spelling: CategoryStats{
			Correct:    stats.SpellingCorrect,
			Attempts:   stats.SpellingAttempts,
			Percentage: model.Percentage(stats.SpellingCorrect, stats.SpellingAttempts),
		},
		HomeworkScans:  stats.HomeworkScans,
		RecentActivity: stats.RecentActivity,
	}
}
