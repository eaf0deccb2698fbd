package main

import (
	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/guardianlock/guardian_api/services"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	ctx, err := context.NewCtx(
		&services.SqliteService{},
		&services.MonitoringService{},

		&services.JWTService{},
		&services.StateService{},
		&services.ChangeBusService{},
		&services.PolicyService{},
		&services.ActivityService{},
		&services.ContentService{},
		&services.UnlockSessionService{},
		&services.RestrictionService{},
		&services.AuthService{},

		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err)
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err)
		return
	}
}
