package services

import (
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/guardianlock/guardian_api/model"
)

// ActivityService appends bounded activity-log entries and keeps the rolling
// per-kind correctness counters. Persistence goes through the store
// adapter's partial-merge write like every other mutation.
type ActivityService struct {
	context.DefaultService

	stateSvc *StateService
}

const ACTIVITY_SVC = "activity_svc"

func (svc ActivityService) Id() string {
	return ACTIVITY_SVC
}

func (svc *ActivityService) Start() error {
	svc.stateSvc = svc.Service(STATE_SVC).(*StateService)
	return nil
}

// Record adds an ActivityLog entry, evicting the oldest past the cap, and
// bumps the counters for kinds that have a correctness dimension. An unknown
// kind is a no-op, not an error; the current record is returned unchanged.
// Counter math runs inside the store's atomic update so concurrent records
// on this surface never lose each other's increments.
func (svc *ActivityService) Record(activityType model.ActivityType, success bool, details string) (*model.DeviceState, error) {
	if !activityType.Valid() {
		log.WithField("type", activityType).Warn("Ignoring unknown activity type")
		return svc.stateSvc.Read()
	}

	entry := model.ActivityLog{
		ID:        uuid.New().String(),
		Type:      activityType,
		Success:   success,
		Timestamp: time.Now().UnixMilli(),
		Details:   details,
	}

	state, err := svc.stateSvc.Update(func(state *model.DeviceState) error {
		stats := &state.LearningStats

		recent := make([]model.ActivityLog, 0, len(stats.RecentActivity)+1)
		recent = append(recent, entry)
		recent = append(recent, stats.RecentActivity...)
		if len(recent) > model.MaxRecentActivity {
			recent = recent[:model.MaxRecentActivity]
		}
		stats.RecentActivity = recent

		switch activityType {
		case model.ActivityMath:
			stats.MathAttempts++
			if success {
				stats.MathCorrect++
			}
		case model.ActivityReading:
			stats.ReadingAttempts++
			if success {
				stats.ReadingCorrect++
			}
		case model.ActivitySpelling:
			stats.SpellingAttempts++
			if success {
				stats.SpellingCorrect++
			}
		case model.ActivityHomework:
			stats.HomeworkScans++
		case model.ActivityQuiz:
			// Log entry only, no dedicated counters.
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	activityRecordsTotal.WithLabelValues(string(activityType)).Inc()

	return state, nil
}
