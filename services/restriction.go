package services

import (
	"errors"

	"github.com/alphabatem/common/context"

	"github.com/guardianlock/guardian_api/dto"
	"github.com/guardianlock/guardian_api/model"
	"github.com/guardianlock/guardian_api/shared"
)

// AppAllowed is the per-app decision: individually permitted, and under
// strict educational mode also tagged educational. Evaluated fresh on every
// call so toggles take effect immediately.
func AppAllowed(app *model.AppConfig, state *model.DeviceState) bool {
	return app.Allowed && !(state.StrictEducationalMode && !app.IsEducational)
}

// RestrictionService evaluates and mutates the per-app allow flags and the
// global strict educational mode gate.
type RestrictionService struct {
	context.DefaultService

	stateSvc *StateService
}

const RESTRICTION_SVC = "restriction_svc"

func (svc RestrictionService) Id() string {
	return RESTRICTION_SVC
}

func (svc *RestrictionService) Start() error {
	svc.stateSvc = svc.Service(STATE_SVC).(*StateService)
	return nil
}

// CheckApp decides whether the child shell may open the app right now.
func (svc *RestrictionService) CheckApp(appID string) (*dto.AppAllowedResponse, error) {
	state, err := svc.stateSvc.Read()
	if err != nil {
		return nil, err
	}

	app := state.App(appID)
	if app == nil {
		return nil, shared.NewNotFoundError(errors.New("unknown app id"), "Unknown app")
	}

	resp := &dto.AppAllowedResponse{AppID: appID, Allowed: AppAllowed(app, state)}
	if !resp.Allowed {
		switch {
		case !app.Allowed:
			resp.Reason = "Blocked by your parent"
		default:
			resp.Reason = "Only educational apps are allowed right now"
		}
	}
	return resp, nil
}

// ToggleApp flips the allow flag for one app atomically. An unknown id
// leaves the record untouched; stale UI references must not crash the engine.
func (svc *RestrictionService) ToggleApp(appID string) (*model.DeviceState, error) {
	return svc.stateSvc.Update(func(state *model.DeviceState) error {
		app := state.App(appID)
		if app == nil {
			return shared.NewNotFoundError(errors.New("unknown app id"), "Unknown app")
		}
		app.Allowed = !app.Allowed
		return nil
	})
}

// SetStrictMode flips the global educational-only gate.
func (svc *RestrictionService) SetStrictMode(enabled bool) (*model.DeviceState, error) {
	return svc.stateSvc.Write(model.DeviceStatePatch{StrictEducationalMode: &enabled})
}
