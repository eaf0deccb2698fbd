package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/guardianlock/guardian_api/dto"
	"github.com/guardianlock/guardian_api/model"
)

type AuthServiceInterface interface {
	SetupPin(req dto.SetupPinRequest) (*dto.LoginResponse, error)
	Login(req dto.LoginRequest) (*dto.LoginResponse, error)
	Activate(req dto.ActivateRequest) (*dto.ActivateResponse, error)
	RequiredAuth() fiber.Handler
}

type StateServiceInterface interface {
	Read() (*model.DeviceState, error)
	Write(patch model.DeviceStatePatch) (*model.DeviceState, error)
	SetManualLock(locked bool) (*model.DeviceState, error)
	UpdateSchedule(schedule model.Schedule) (*model.DeviceState, error)
	Heartbeat(req dto.HeartbeatRequest) (*model.DeviceState, error)
}

type PolicyServiceInterface interface {
	EffectiveStatus() (*dto.EffectiveStatusResponse, error)
}

type ActivityServiceInterface interface {
	Record(activityType model.ActivityType, success bool, details string) (*model.DeviceState, error)
}

type UnlockServiceInterface interface {
	StartSession() (*dto.StartUnlockSessionResponse, error)
	Submit(sessionID string, finalScore, totalQuestions int) (*dto.SubmitQuizResponse, error)
	Cancel(sessionID string)
}

type RestrictionServiceInterface interface {
	CheckApp(appID string) (*dto.AppAllowedResponse, error)
	ToggleApp(appID string) (*model.DeviceState, error)
	SetStrictMode(enabled bool) (*model.DeviceState, error)
}

type ContentServiceInterface interface {
	Generate(kind model.ChallengeKind, age, count int) *dto.ChallengeSetResponse
}

type ChangeBusInterface interface {
	Subscribe() (<-chan struct{}, func())
}
