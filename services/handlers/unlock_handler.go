package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/guardianlock/guardian_api/dto"
	"github.com/guardianlock/guardian_api/shared"
)

// UnlockHandler drives the challenge-then-timed-unlock flow from the locked
// child shell.
type UnlockHandler struct {
	unlockSvc UnlockServiceInterface
}

func NewUnlockHandler(unlockSvc UnlockServiceInterface) *UnlockHandler {
	return &UnlockHandler{
		unlockSvc: unlockSvc,
	}
}

// @Summary Start Unlock Session
// @Description Opens a challenge session and returns the quiz question set
// @Tags unlock
// @Produce json
// @Success 200 {object} shared.Response{data=dto.StartUnlockSessionResponse}
// @Router /api/v1/child/unlock/session [post]
func (h *UnlockHandler) StartSession(c *fiber.Ctx) error {
	resp, err := h.unlockSvc.StartSession()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Submit Quiz Result
// @Description Applies the 80% pass threshold; a pass starts the temporary unlock countdown
// @Tags unlock
// @Accept  json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param submitQuizRequest body dto.SubmitQuizRequest true "Quiz outcome"
// @Success 200 {object} shared.Response{data=dto.SubmitQuizResponse}
// @Router /api/v1/child/unlock/session/{sessionId}/submit [post]
func (h *UnlockHandler) Submit(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")

	var req dto.SubmitQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.unlockSvc.Submit(sessionID, req.FinalScore, req.TotalQuestions)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Cancel Unlock Session
// @Description Tears the session down before a pass, recording nothing
// @Tags unlock
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} shared.Response
// @Router /api/v1/child/unlock/session/{sessionId} [delete]
func (h *UnlockHandler) Cancel(c *fiber.Ctx) error {
	h.unlockSvc.Cancel(c.Params("sessionId"))
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", nil)
}
