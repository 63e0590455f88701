// Command dailychallenge picks a new daily challenge and exits. It is meant
// to be run once a day by an external scheduler.
package main

import (
	"context"
	"database/sql"
	"filmrover/internal/constants"
	fxmodules "filmrover/internal/fx"
	"filmrover/internal/service"
	"os"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		fxmodules.Core,
		fx.Invoke(generate),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), constants.DailyJobTimeout)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		os.Exit(1)
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		os.Exit(1)
	}
}

func generate(lc fx.Lifecycle, challenges *service.ChallengeService, db *sql.DB, logger zerolog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			pair, err := challenges.GenerateDailyChallenge(ctx)
			if err != nil {
				logger.Error().Err(err).Msg("failed to generate daily challenge")
				return err
			}
			logger.Info().Str("start", pair.Start.String()).Str("end", pair.End.String()).Msg("daily challenge ready")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return db.Close()
		},
	})
}
