package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/guardianlock/guardian_api/dto"
	"github.com/guardianlock/guardian_api/shared"
)

// ParentHandler backs the parent dashboard surface: full state access,
// manual lock, schedule, app restrictions and the learning summary.
type ParentHandler struct {
	stateSvc       StateServiceInterface
	policySvc      PolicyServiceInterface
	restrictionSvc RestrictionServiceInterface
}

func NewParentHandler(stateSvc StateServiceInterface, policySvc PolicyServiceInterface, restrictionSvc RestrictionServiceInterface) *ParentHandler {
	return &ParentHandler{
		stateSvc:       stateSvc,
		policySvc:      policySvc,
		restrictionSvc: restrictionSvc,
	}
}

// @Summary Get Device State
// @Description Full device record plus the policy-resolved effective status
// @Tags parent
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=dto.StateResponse}
// @Router /api/v1/parent/state [get]
func (h *ParentHandler) GetState(c *fiber.Ctx) error {
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

// @Summary Update Device State
// @Description Partial update merged over the current record
// @Tags parent
// @Accept  json
// @Produce json
// @Param updateStateRequest body dto.UpdateStateRequest true "Partial update"
// @Success 200 {object} shared.Response{data=model.DeviceState}
// @Router /api/v1/parent/state [patch]
func (h *ParentHandler) UpdateState(c *fiber.Ctx) error {
	var req dto.UpdateStateRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	state, err := h.stateSvc.Write(req.Patch())
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", state)
}

// @Summary Lock Device
// @Description Engages the manual lock, overriding any schedule
// @Tags parent
// @Produce json
// @Success 200 {object} shared.Response{data=model.DeviceState}
// @Router /api/v1/parent/lock [post]
func (h *ParentHandler) Lock(c *fiber.Ctx) error {
	state, err := h.stateSvc.SetManualLock(true)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", state)
}

// @Summary Unlock Device
// @Description Releases the manual lock; the schedule remains authoritative
// @Tags parent
// @Produce json
// @Success 200 {object} shared.Response{data=model.DeviceState}
// @Router /api/v1/parent/unlock [post]
func (h *ParentHandler) Unlock(c *fiber.Ctx) error {
	state, err := h.stateSvc.SetManualLock(false)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", state)
}

// @Summary Update Schedule
// @Description Replaces the recurring daily lock window
// @Tags parent
// @Accept  json
// @Produce json
// @Param scheduleRequest body dto.ScheduleRequest true "Schedule"
// @Success 200 {object} shared.Response{data=model.DeviceState}
// @Router /api/v1/parent/schedule [put]
func (h *ParentHandler) UpdateSchedule(c *fiber.Ctx) error {
	var req dto.ScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	state, err := h.stateSvc.UpdateSchedule(req.Model())
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", state)
}

// @Summary Toggle App
// @Description Flips the allow flag for one app
// @Tags parent
// @Produce json
// @Param appId path string true "App ID"
// @Success 200 {object} shared.Response{data=model.DeviceState}
// @Router /api/v1/parent/apps/{appId}/toggle [post]
func (h *ParentHandler) ToggleApp(c *fiber.Ctx) error {
	appID := c.Params("appId")

	state, err := h.restrictionSvc.ToggleApp(appID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", state)
}

// @Summary Set Strict Educational Mode
// @Description Restricts usable apps to those tagged educational
// @Tags parent
// @Accept  json
// @Produce json
// @Param strictModeRequest body dto.StrictModeRequest true "Strict mode"
// @Success 200 {object} shared.Response{data=model.DeviceState}
// @Router /api/v1/parent/strict-mode [put]
func (h *ParentHandler) SetStrictMode(c *fiber.Ctx) error {
	var req dto.StrictModeRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	state, err := h.restrictionSvc.SetStrictMode(req.Enabled)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", state)
}

// @Summary Get Learning Stats
// @Description Per-category correctness summary and the recent activity log
// @Tags parent
// @Produce json
// @Success 200 {object} shared.Response{data=dto.LearningStatsResponse}
// @Router /api/v1/parent/stats [get]
func (h *ParentHandler) GetStats(c *fiber.Ctx) error {
	state, err := h.stateSvc.Read()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", dto.NewLearningStatsResponse(state.LearningStats))
}

// @Summary Get Device Location
// @Description Last location reported by the child device heartbeat
// @Tags parent
// @Produce json
// @Success 200 {object} shared.Response{data=dto.LocationResponse}
// @Router /api/v1/parent/location [get]
func (h *ParentHandler) GetLocation(c *fiber.Ctx) error {
	state, err := h.stateSvc.Read()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", dto.LocationResponse{
		Lat:         state.Location.Lat,
		Lng:         state.Location.Lng,
		LastUpdated: state.Location.LastUpdated,
	})
}
