package dto

import "github.com/guardianlock/guardian_api/model"

// UpdateStateRequest is the generic partial update accepted from the parent
// surface; it maps one-to-one onto model.DeviceStatePatch.
type UpdateStateRequest struct {
	Status                *string                   `json:"status" validate:"omitempty,oneof=ACTIVE LOCKED_MANUAL LOCKED_SCHEDULE"`
	Schedule              *ScheduleRequest          `json:"schedule"`
	UnlockMessage         *string                   `json:"unlock_message" validate:"omitempty,max=200"`
	ChildAge              *int                      `json:"child_age" validate:"omitempty,min=3,max=17"`
	QuizQuestionCount     *int                      `json:"quiz_question_count" validate:"omitempty,min=1,max=100"`
	QuizUnlockDuration    *int                      `json:"quiz_unlock_duration" validate:"omitempty,min=1,max=1440"`
	StrictEducationalMode *bool                     `json:"strict_educational_mode"`
	LearningStats         *model.LearningStatsPatch `json:"learning_stats"`
	Apps                  []model.AppConfig         `json:"apps" validate:"omitempty,dive"`
}

func (r UpdateStateRequest) Validate() error {
	return GetValidator().Struct(r)
}

// Patch converts the request into the store adapter's merge form.
func (r UpdateStateRequest) Patch() model.DeviceStatePatch {
	patch := model.DeviceStatePatch{
		UnlockMessage:         r.UnlockMessage,
		ChildAge:              r.ChildAge,
		QuizQuestionCount:     r.QuizQuestionCount,
		QuizUnlockDuration:    r.QuizUnlockDuration,
		StrictEducationalMode: r.StrictEducationalMode,
		LearningStats:         r.LearningStats,
		Apps:                  r.Apps,
	}
	if r.Status != nil {
		status := model.DeviceStatus(*r.Status)
		patch.Status = &status
	}
	if r.Schedule != nil {
		schedule := r.Schedule.Model()
		patch.Schedule = &schedule
	}
	return patch
}

type ScheduleRequest struct {
	Enabled   bool   `json:"enabled"`
	StartTime string `json:"start_time" validate:"required,clock"`
	EndTime   string `json:"end_time" validate:"required,clock"`
}

func (r ScheduleRequest) Validate() error {
	return GetValidator().Struct(r)
}

func (r ScheduleRequest) Model() model.Schedule {
	return model.Schedule{
		Enabled:   r.Enabled,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
	}
}

type StrictModeRequest struct {
	Enabled bool `json:"enabled"`
}

func (r StrictModeRequest) Validate() error {
	return GetValidator().Struct(r)
}

type HeartbeatRequest struct {
	BatteryLevel    *int     `json:"battery_level" validate:"omitempty,min=0,max=100"`
	ScreenTimeToday *int     `json:"screen_time_today" validate:"omitempty,min=0"`
	Lat             *float64 `json:"lat" validate:"omitempty,latitude"`
	Lng             *float64 `json:"lng" validate:"omitempty,longitude"`
}

func (r HeartbeatRequest) Validate() error {
	return GetValidator().Struct(r)
}

type StateResponse struct {
	State           model.DeviceState  `json:"state"`
	EffectiveStatus model.DeviceStatus `json:"effective_status"`
}

type EffectiveStatusResponse struct {
	EffectiveStatus model.DeviceStatus `json:"effective_status"`
	Locked          bool               `json:"locked"`
	UnlockMessage   string             `json:"unlock_message,omitempty"`
	TempUnlocked    bool               `json:"temp_unlocked"`
	UnlockExpiresAt int64              `json:"unlock_expires_at,omitempty"`
}

type AppAllowedResponse struct {
	AppID   string `json:"app_id"`
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

type LocationResponse struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	LastUpdated int64   `json:"last_updated"`
}
