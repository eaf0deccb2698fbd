package handlers

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guardianlock/guardian_api/dto"
	"github.com/guardianlock/guardian_api/model"
	"github.com/guardianlock/guardian_api/shared"
)

type stubStateService struct {
	state model.DeviceState
}

func (s *stubStateService) Read() (*model.DeviceState, error) {
	state := s.state
	return &state, nil
}

func (s *stubStateService) Write(patch model.DeviceStatePatch) (*model.DeviceState, error) {
	patch.Apply(&s.state)
	state := s.state
	return &state, nil
}

func (s *stubStateService) SetManualLock(locked bool) (*model.DeviceState, error) {
	status := model.StatusActive
	if locked {
		status = model.StatusLockedManual
	}
	return s.Write(model.DeviceStatePatch{Status: &status})
}

func (s *stubStateService) UpdateSchedule(schedule model.Schedule) (*model.DeviceState, error) {
	return s.Write(model.DeviceStatePatch{Schedule: &schedule})
}

func (s *stubStateService) Heartbeat(req dto.HeartbeatRequest) (*model.DeviceState, error) {
	return s.Write(model.DeviceStatePatch{BatteryLevel: req.BatteryLevel, ScreenTimeToday: req.ScreenTimeToday})
}

type stubPolicyService struct {
	status dto.EffectiveStatusResponse
}

func (s *stubPolicyService) EffectiveStatus() (*dto.EffectiveStatusResponse, error) {
	status := s.status
	return &status, nil
}

type stubRestrictionService struct {
	state *stubStateService
}

func (s *stubRestrictionService) CheckApp(appID string) (*dto.AppAllowedResponse, error) {
	app := s.state.state.App(appID)
	if app == nil {
		return nil, shared.NewNotFoundError(errors.New("unknown app id"), "Unknown app")
	}
	return &dto.AppAllowedResponse{AppID: appID, Allowed: app.Allowed}, nil
}

func (s *stubRestrictionService) ToggleApp(appID string) (*model.DeviceState, error) {
	return s.state.Read()
}

func (s *stubRestrictionService) SetStrictMode(enabled bool) (*model.DeviceState, error) {
	return s.state.Write(model.DeviceStatePatch{StrictEducationalMode: &enabled})
}

type stubActivityService struct {
	lastType model.ActivityType
}

func (s *stubActivityService) Record(activityType model.ActivityType, success bool, details string) (*model.DeviceState, error) {
	s.lastType = activityType
	state := model.DefaultDeviceState()
	return &state, nil
}

type stubBus struct {
	ch chan struct{}
}

func (s *stubBus) Subscribe() (<-chan struct{}, func()) {
	return s.ch, func() {}
}

func newChildApp(state *stubStateService, policy *stubPolicyService, activity *stubActivityService) (*fiber.App, *stubBus) {
	bus := &stubBus{ch: make(chan struct{}, 1)}
	h := NewChildHandler(state, policy, &stubRestrictionService{state: state}, activity, bus)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if appErr, ok := shared.GetAppError(err); ok {
				return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
			}
			return shared.ResponseInternalError(c, err)
		},
	})
	app.Get("/status", h.GetStatus)
	app.Get("/state", h.GetState)
	app.Get("/state/wait", h.WaitForChange)
	app.Get("/apps/:appId/allowed", h.CheckApp)
	app.Post("/activity", h.RecordActivity)
	app.Post("/heartbeat", h.Heartbeat)
	return app, bus
}

func TestChildGetStatus(t *testing.T) {
	state := &stubStateService{state: model.DefaultDeviceState()}
	policy := &stubPolicyService{status: dto.EffectiveStatusResponse{
		EffectiveStatus: model.StatusLockedSchedule,
		Locked:          true,
	}}
	app, _ := newChildApp(state, policy, &stubActivityService{})

	resp, err := app.Test(httptest.NewRequest("GET", "/status", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var envelope struct {
		Code int                         `json:"code"`
		Data dto.EffectiveStatusResponse `json:"data"`
	}
	require.NoError(t, sonic.Unmarshal(body, &envelope))
	assert.Equal(t, model.StatusLockedSchedule, envelope.Data.EffectiveStatus)
	assert.True(t, envelope.Data.Locked)
}

func TestChildWaitForChangeReturnsOnSignal(t *testing.T) {
	state := &stubStateService{state: model.DefaultDeviceState()}
	policy := &stubPolicyService{status: dto.EffectiveStatusResponse{EffectiveStatus: model.StatusActive}}
	app, bus := newChildApp(state, policy, &stubActivityService{})

	// Pending signal makes the long poll return immediately.
	bus.ch <- struct{}{}

	resp, err := app.Test(httptest.NewRequest("GET", "/state/wait", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestChildCheckAppUnknownIDReturns404(t *testing.T) {
	state := &stubStateService{state: model.DefaultDeviceState()}
	app, _ := newChildApp(state, &stubPolicyService{}, &stubActivityService{})

	resp, err := app.Test(httptest.NewRequest("GET", "/apps/tiktok/allowed", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestChildRecordActivityRejectsUnknownType(t *testing.T) {
	state := &stubStateService{state: model.DefaultDeviceState()}
	activity := &stubActivityService{}
	app, _ := newChildApp(state, &stubPolicyService{}, activity)

	req := httptest.NewRequest("POST", "/activity", strings.NewReader(`{"type":"DANCING","success":true}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, activity.lastType)
}

func TestChildRecordActivity(t *testing.T) {
	state := &stubStateService{state: model.DefaultDeviceState()}
	activity := &stubActivityService{}
	app, _ := newChildApp(state, &stubPolicyService{}, activity)

	req := httptest.NewRequest("POST", "/activity", strings.NewReader(`{"type":"MATH","success":true,"details":"7x8"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, model.ActivityMath, activity.lastType)
}

func TestChildHeartbeatValidation(t *testing.T) {
	state := &stubStateService{state: model.DefaultDeviceState()}
	app, _ := newChildApp(state, &stubPolicyService{}, &stubActivityService{})

	req := httptest.NewRequest("POST", "/heartbeat", strings.NewReader(`{"battery_level":150}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	req = httptest.NewRequest("POST", "/heartbeat", strings.NewReader(`{"battery_level":55,"screen_time_today":120}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 55, state.state.BatteryLevel)
	assert.Equal(t, 120, state.state.ScreenTimeToday)
}
