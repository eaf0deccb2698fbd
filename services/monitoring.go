package services

import (
	"fmt"
	"os"
	"strconv"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const (
	SERVICE_NAME            = "guardian_api"
	DEFAULT_PROMETHEUS_PORT = 9090
)

var (
	stateWritesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "guardian_state_writes_total",
		Help: "Device state writes persisted by this surface",
	})
	changeNotificationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "guardian_change_notifications_total",
		Help: "Change bus broadcasts, local and external combined",
	})
	activityRecordsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "guardian_activity_records_total",
		Help: "Learning activity entries recorded, by kind",
	}, []string{"type"})
	unlockSessionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "guardian_unlock_submissions_total",
		Help: "Unlock quiz submissions, by outcome",
	}, []string{"result"})
	challengeFallbackTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "guardian_challenge_fallback_total",
		Help: "Challenge sets served from the built-in fallback content",
	})
)

// MonitoringService serves prometheus metrics and a health probe on a port
// of its own, away from the surface API.
type MonitoringService struct {
	appContext.DefaultService

	port     int
	register *prometheus.Registry
	server   *fiber.App
}

const MONITORING_SVC = "monitoring_svc"

func (svc MonitoringService) Id() string {
	return MONITORING_SVC
}

func (svc *MonitoringService) Configure(ctx *appContext.Context) error {
	port, err := strconv.Atoi(os.Getenv("PROMETHEUS_PORT"))
	if err != nil {
		port = DEFAULT_PROMETHEUS_PORT
	}
	svc.port = port
	return svc.DefaultService.Configure(ctx)
}

func (svc *MonitoringService) Start() error {
	reg := prometheus.NewRegistry()

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	reg.MustRegister(
		stateWritesTotal,
		changeNotificationsTotal,
		activityRecordsTotal,
		unlockSessionsTotal,
		challengeFallbackTotal,
	)

	svc.register = reg

	svc.server = fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
		},
	})
	svc.server.Use(recover.New())

	svc.server.Get("/metrics", svc.metricsHandler)
	svc.server.Get("/health", svc.healthHandler)

	log.Info().Int("port", svc.port).Msg("Prometheus metrics server started")

	go func() {
		if err := svc.server.Listen(fmt.Sprintf(":%v", svc.port)); err != nil {
			log.Error().Err(err).Msg("Metrics server stopped")
		}
	}()
	return nil
}

func (svc *MonitoringService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

func (svc *MonitoringService) metricsHandler(c *fiber.Ctx) error {
	handler := promhttp.HandlerFor(svc.register, promhttp.HandlerOpts{})
	return adaptor.HTTPHandler(handler)(c)
}

func (svc *MonitoringService) healthHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status":    "healthy",
		"service":   SERVICE_NAME,
		"timestamp": time.Now().Unix(),
	})
}
