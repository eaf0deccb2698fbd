package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/guardianlock/guardian_api/dto"
	"github.com/guardianlock/guardian_api/model"
	"github.com/guardianlock/guardian_api/shared"
)

// longPollTimeout bounds the state-wait endpoint; clients reconnect after a
// timed-out poll, which doubles as their refresh backstop.
const longPollTimeout = 25 * time.Second

// ChildHandler backs the child phone-shell surface: effective status,
// per-app gate checks, activity recording and telemetry.
type ChildHandler struct {
	stateSvc       StateServiceInterface
	policySvc      PolicyServiceInterface
	restrictionSvc RestrictionServiceInterface
	activitySvc    ActivityServiceInterface
	busSvc         ChangeBusInterface
}

func NewChildHandler(stateSvc StateServiceInterface, policySvc PolicyServiceInterface, restrictionSvc RestrictionServiceInterface, activitySvc ActivityServiceInterface, busSvc ChangeBusInterface) *ChildHandler {
	return &ChildHandler{
		stateSvc:       stateSvc,
		policySvc:      policySvc,
		restrictionSvc: restrictionSvc,
		activitySvc:    activitySvc,
		busSvc:         busSvc,
	}
}

// @Summary Get Device State
// @Description Full record plus the effective status the shell should render
// @Tags child
// @Produce json
// @Success 200 {object} shared.Response{data=dto.StateResponse}
// @Router /api/v1/child/state [get]
func (h *ChildHandler) GetState(c *fiber.Ctx) error {
	state, err := h.stateSvc.Read()
	if err != nil {
		return err
	}
	status, err := h.policySvc.EffectiveStatus()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", dto.StateResponse{
		State:           *state,
		EffectiveStatus: status.EffectiveStatus,
	})
}

// @Summary Get Effective Status
// @Description Lock status after schedule resolution and any temporary unlock
// @Tags child
// @Produce json
// @Success 200 {object} shared.Response{data=dto.EffectiveStatusResponse}
// @Router /api/v1/child/status [get]
func (h *ChildHandler) GetStatus(c *fiber.Ctx) error {
	status, err := h.policySvc.EffectiveStatus()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", status)
}

// @Summary Wait For Change
// @Description Long-poll that returns when the shared record changes or the poll times out
// @Tags child
// @Produce json
// @Success 200 {object} shared.Response{data=dto.EffectiveStatusResponse}
// @Router /api/v1/child/state/wait [get]
func (h *ChildHandler) WaitForChange(c *fiber.Ctx) error {
	changes, cancel := h.busSvc.Subscribe()
	defer cancel()

	select {
	case <-changes:
	case <-time.After(longPollTimeout):
	case <-c.Context().Done():
		return nil
	}

	return h.GetStatus(c)
}

// @Summary Check App Access
// @Description Whether the shell may open the given app right now
// @Tags child
// @Produce json
// @Param appId path string true "App ID"
// @Success 200 {object} shared.Response{data=dto.AppAllowedResponse}
// @Router /api/v1/child/apps/{appId}/allowed [get]
func (h *ChildHandler) CheckApp(c *fiber.Ctx) error {
	appID := c.Params("appId")

	resp, err := h.restrictionSvc.CheckApp(appID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Record Learning Activity
// @Description Appends an activity-log entry and updates the rolling counters
// @Tags child
// @Accept  json
// @Produce json
// @Param recordActivityRequest body dto.RecordActivityRequest true "Activity"
// @Success 200 {object} shared.Response{data=dto.LearningStatsResponse}
// @Router /api/v1/child/activity [post]
func (h *ChildHandler) RecordActivity(c *fiber.Ctx) error {
	var req dto.RecordActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	state, err := h.activitySvc.Record(model.ActivityType(req.Type), req.Success, req.Details)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", dto.NewLearningStatsResponse(state.LearningStats))
}

// @Summary Device Heartbeat
// @Description Periodic telemetry from the child shell: battery, screen time, location
// @Tags child
// @Accept  json
// @Produce json
// @Param heartbeatRequest body dto.HeartbeatRequest true "Heartbeat"
// @Success 200 {object} shared.Response
// @Router /api/v1/child/heartbeat [post]
func (h *ChildHandler) Heartbeat(c *fiber.Ctx) error {
	var req dto.HeartbeatRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	if _, err := h.stateSvc.Heartbeat(req); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", nil)
}
