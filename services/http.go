package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"

	"github.com/guardianlock/guardian_api/services/handlers"
	"github.com/guardianlock/guardian_api/shared"
)

// HttpService exposes the two surfaces over one fiber app: an authenticated
// parent group for the dashboard and an open child group for the lock screen.
type HttpService struct {
	context.DefaultService

	authSvc        *AuthService
	stateSvc       *StateService
	policySvc      *PolicyService
	activitySvc    *ActivityService
	unlockSvc      *UnlockSessionService
	restrictionSvc *RestrictionService
	contentSvc     *ContentService
	busSvc         *ChangeBusService

	port int
	app  *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.authSvc = svc.Service(AUTH_SVC).(*AuthService)
	svc.stateSvc = svc.Service(STATE_SVC).(*StateService)
	svc.policySvc = svc.Service(POLICY_SVC).(*PolicyService)
	svc.activitySvc = svc.Service(ACTIVITY_SVC).(*ActivityService)
	svc.unlockSvc = svc.Service(UNLOCK_SVC).(*UnlockSessionService)
	svc.restrictionSvc = svc.Service(RESTRICTION_SVC).(*RestrictionService)
	svc.contentSvc = svc.Service(CONTENT_SVC).(*ContentService)
	svc.busSvc = svc.Service(CHANGE_BUS_SVC).(*ChangeBusService)

	svc.app = fiber.New(fiber.Config{
		ErrorHandler: svc.handleError,
	})

	svc.app.Use(recover.New())
	if os.Getenv("LOG_LEVEL") == "TRACE" {
		svc.app.Use(logger.New())
	}
	svc.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	svc.app.Get("/ping", svc.ping)

	svc.registerRoutes()

	svc.app.Use(func(c *fiber.Ctx) error {
		return shared.ResponseNotFound(c)
	})

	log.Infof("HTTP listening on :%v", svc.port)
	return svc.app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) registerRoutes() {
	authHandler := handlers.NewAuthHandler(svc.authSvc)
	parentHandler := handlers.NewParentHandler(svc.stateSvc, svc.policySvc, svc.restrictionSvc)
	childHandler := handlers.NewChildHandler(svc.stateSvc, svc.policySvc, svc.restrictionSvc, svc.activitySvc, svc.busSvc)
	unlockHandler := handlers.NewUnlockHandler(svc.unlockSvc)
	contentHandler := handlers.NewContentHandler(svc.contentSvc, svc.stateSvc)

	v1 := svc.app.Group("/api/v1")

	v1.Get("/ping", svc.ping)

	parent := v1.Group("/parent")
	parent.Post("/pin", authHandler.SetupPin)
	parent.Post("/login", authHandler.Login)

	guarded := parent.Group("", svc.authSvc.RequiredAuth())
	guarded.Get("/state", parentHandler.GetState)
	guarded.Patch("/state", parentHandler.UpdateState)
	guarded.Post("/lock", parentHandler.Lock)
	guarded.Post("/unlock", parentHandler.Unlock)
	guarded.Put("/schedule", parentHandler.UpdateSchedule)
	guarded.Post("/apps/:appId/toggle", parentHandler.ToggleApp)
	guarded.Put("/strict-mode", parentHandler.SetStrictMode)
	guarded.Get("/stats", parentHandler.GetStats)
	guarded.Get("/location", parentHandler.GetLocation)

	child := v1.Group("/child")
	child.Post("/activate", authHandler.Activate)
	child.Get("/state", childHandler.GetState)
	child.Get("/status", childHandler.GetStatus)
	child.Get("/state/wait", childHandler.WaitForChange)
	child.Get("/apps/:appId/allowed", childHandler.CheckApp)
	child.Post("/activity", childHandler.RecordActivity)
	child.Post("/heartbeat", childHandler.Heartbeat)
	child.Post("/unlock/session", unlockHandler.StartSession)
	child.Post("/unlock/session/:sessionId/submit", unlockHandler.Submit)
	child.Delete("/unlock/session/:sessionId", unlockHandler.Cancel)
	child.Get("/challenges/:kind", contentHandler.GetChallenges)
}

func (svc *HttpService) Shutdown() {
	if svc.app != nil {
		_ = svc.app.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", "pong")
}

func (svc *HttpService) handleError(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.WithError(err).Error("Unhandled request error")
	return shared.ResponseInternalError(c, err)
}
