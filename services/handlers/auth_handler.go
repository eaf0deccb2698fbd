package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/guardianlock/guardian_api/dto"
	"github.com/guardianlock/guardian_api/shared"
)

type AuthHandler struct {
	authSvc AuthServiceInterface
}

func NewAuthHandler(authSvc AuthServiceInterface) *AuthHandler {
	return &AuthHandler{
		authSvc: authSvc,
	}
}

// @Summary Set Parent PIN
// @Description One-time device provisioning: sets the parent PIN and returns a dashboard session token
// @Tags auth
// @Accept  json
// @Produce json
// @Param setupPinRequest body dto.SetupPinRequest true "Setup PIN request"
// @Success 200 {object} shared.Response{data=dto.LoginResponse}
// @Router /api/v1/parent/pin [post]
func (h *AuthHandler) SetupPin(c *fiber.Ctx) error {
	var req dto.SetupPinRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.authSvc.SetupPin(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Parent Login
// @Description Verifies the parent PIN and returns a dashboard session token
// @Tags auth
// @Accept  json
// @Produce json
// @Param loginRequest body dto.LoginRequest true "Login request"
// @Success 200 {object} shared.Response{data=dto.LoginResponse}
// @Router /api/v1/parent/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.authSvc.Login(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}

// @Summary Activate Child Device
// @Description Pairs the child device by verifying the parent PIN
// @Tags auth
// @Accept  json
// @Produce json
// @Param activateRequest body dto.ActivateRequest true "Activate request"
// @Success 200 {object} shared.Response{data=dto.ActivateResponse}
// @Router /api/v1/child/activate [post]
func (h *AuthHandler) Activate(c *fiber.Ctx) error {
	var req dto.ActivateRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request")
	}

	if err := req.Validate(); err != nil {
		validationResp := dto.CreateValidationErrorResponse(err)
		return c.Status(fiber.StatusBadRequest).JSON(validationResp)
	}

	resp, err := h.authSvc.Activate(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", resp)
}
