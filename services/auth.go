package services

import (
	"crypto/subtle"
	"errors"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/guardianlock/guardian_api/dto"
	"github.com/guardianlock/guardian_api/model"
	"github.com/guardianlock/guardian_api/shared"
)

// AuthService owns the PIN lifecycle: one-time setup on the parent surface,
// PIN login issuing a session token, and child-device activation. The PIN is
// compared as stored, with no lockout or backoff; a mismatch is just a
// rejection.
type AuthService struct {
	context.DefaultService

	stateSvc *StateService
	jwtSvc   *JWTService
}

const AUTH_SVC = "auth_svc"

func (svc AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Start() error {
	svc.stateSvc = svc.Service(STATE_SVC).(*StateService)
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	return nil
}

// SetupPin provisions the device with a parent PIN. It only works once; the
// already-set check and the write happen in one atomic update so racing
// setups cannot both win.
func (svc *AuthService) SetupPin(req dto.SetupPinRequest) (*dto.LoginResponse, error) {
	_, err := svc.stateSvc.Update(func(state *model.DeviceState) error {
		if state.ParentPin != "" {
			return shared.NewConflictError(errors.New("pin already set"), "PIN already configured")
		}
		state.ParentPin = req.Pin
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Parent PIN configured")
	return svc.issueToken()
}

// Login verifies the PIN and hands back a dashboard session token.
func (svc *AuthService) Login(req dto.LoginRequest) (*dto.LoginResponse, error) {
	state, err := svc.stateSvc.Read()
	if err != nil {
		return nil, err
	}
	if state.ParentPin == "" {
		return nil, shared.NewConflictError(errors.New("pin not set"), "Device not provisioned")
	}
	if !pinMatches(req.Pin, state.ParentPin) {
		return nil, shared.NewUnauthorizedError(errors.New("pin mismatch"), "Incorrect PIN")
	}

	return svc.issueToken()
}

// Activate pairs the child device: entering the parent PIN flips
// isActivated. A device without a PIN can never be activated. The PIN check
// and the flip happen in one atomic update.
func (svc *AuthService) Activate(req dto.ActivateRequest) (*dto.ActivateResponse, error) {
	_, err := svc.stateSvc.Update(func(state *model.DeviceState) error {
		if state.ParentPin == "" {
			return shared.NewConflictError(errors.New("pin not set"), "Device not provisioned")
		}
		if !pinMatches(req.Pin, state.ParentPin) {
			return shared.NewUnauthorizedError(errors.New("pin mismatch"), "Invalid PIN")
		}
		state.IsActivated = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Child device activated")
	return &dto.ActivateResponse{Activated: true}, nil
}

// RequiredAuth guards the parent route group. Child routes stay open so the
// locked surface can still read state and run unlock challenges.
func (svc *AuthService) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		token, err := svc.jwtSvc.ExtractTokenFromHeader(authHeader)
		if err != nil {
			return shared.ResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", err.Error())
		}

		parentID, err := svc.jwtSvc.VerifyJWTToken(token)
		if err != nil {
			return shared.ResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "Invalid JWT token")
		}

		if parentID == "" {
			return shared.ResponseJSON(c, fiber.StatusUnauthorized, "Unauthorized", "Invalid parent ID in token")
		}

		c.Locals(shared.ParentID, parentID)
		return c.Next()
	}
}

func (svc *AuthService) issueToken() (*dto.LoginResponse, error) {
	token, err := svc.jwtSvc.ToJWT("parent")
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to issue session token")
	}
	return &dto.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(svc.jwtSvc.AccessTokenDuration.Seconds()),
	}, nil
}

func pinMatches(entered, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(entered), []byte(stored)) == 1
}
