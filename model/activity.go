package model

import "math"

type ActivityType string

const (
	ActivityReading  ActivityType = "READING"
	ActivitySpelling ActivityType = "SPELLING"
	ActivityMath     ActivityType = "MATH"
	ActivityHomework ActivityType = "HOMEWORK"
	ActivityQuiz     ActivityType = "QUIZ"
)

func (t ActivityType) Valid() bool {
	switch t {
	case ActivityReading, ActivitySpelling, ActivityMath, ActivityHomework, ActivityQuiz:
		return true
	}
	return false
}

// MaxRecentActivity caps the recentActivity list; insertion evicts the oldest.
const MaxRecentActivity = 50

// ActivityLog is immutable once created.
type ActivityLog struct {
	ID        string       `json:"id"`
	Type      ActivityType `json:"type"`
	Success   bool         `json:"success"`
	Timestamp int64        `json:"timestamp"`
	Details   string       `json:"details,omitempty"`
}

type LearningStats struct {
	MathCorrect      int           `json:"mathCorrect"`
	MathAttempts     int           `json:"mathAttempts"`
	ReadingCorrect   int           `json:"readingCorrect"`
	ReadingAttempts  int           `json:"readingAttempts"`
	SpellingCorrect  int           `json:"spellingCorrect"`
	SpellingAttempts int           `json:"spellingAttempts"`
	HomeworkScans    int           `json:"homeworkScans"`
	RecentActivity   []ActivityLog `json:"recentActivity"`
}

// Percentage is round(correct/attempts*100), 0 when there are no attempts.
func Percentage(correct, attempts int) int {
	if attempts == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(attempts) * 100))
}
