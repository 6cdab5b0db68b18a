package main

import (
	"context"
	"github.com/mufasadev/velocity-ledger/internal/app"
	"github.com/mufasadev/velocity-ledger/internal/config"
	"github.com/mufasadev/velocity-ledger/internal/di"
	"github.com/mufasadev/velocity-ledger/internal/errors"
	"github.com/mufasadev/velocity-ledger/internal/infrastructure/api/routers"
	"github.com/mufasadev/velocity-ledger/pkg/log"
)

const (
	appName = "velocity-ledger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	opts := []log.LoggerOption{log.WithConsoleLogger(), log.WithLogLevel(cfg.Log.Level)}
	if cfg.Log.File != "" {
		opts = append(opts, log.WithFileLogger(cfg.Log.File))
	}
	log.Init(appName, opts...)
	logger := log.GetLogger()

	journal, closeJournal, err := di.NewJournal(ctx, cfg.PostgreSQL)
	if err != nil {
		logger.Fatal().Err(err).Msg(errors.ErrorFailedToConnectToTheDatabase)
	}
	defer closeJournal()

	publisher, err := di.NewPublisher(cfg.Events)
	if err != nil {
		logger.Fatal().Err(err).Msg(errors.ErrorFailedToConnectToTheBroker)
	}
	defer publisher.Close()

	container := di.NewContainer(cfg, publisher, journal)

	reconcile := app.NewReconcileProcess(container.ReconcileInteractor, cfg.Process.IntervalDuration())
	go reconcile.Run(ctx)

	router := routers.NewRouter(container, cfg.CORS.Origins())
	service := app.NewService(cfg)
	if err = service.Run(ctx, router); err != nil {
		logger.Error().Err(err).Msg(errors.ErrorFailedToRunTheServer)
	}
}
