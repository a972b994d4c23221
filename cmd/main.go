package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"

	"registrar/cmd/buildCFG"
	"registrar/internal/api/api"
	rabbitReader "registrar/internal/consumerWorker"
	"registrar/internal/mailer"
	"registrar/internal/rabbit"
	"registrar/internal/repo"
	"registrar/internal/service"
	"registrar/internal/submission"
	"registrar/internal/supabase"
)

func main() {
	zlog.Init()
	log := zlog.Logger

	cfg := config.New()
	if err := buildCFG.LoadConfig(cfg, "config.yaml", ".env", &log); err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	serverCfg := buildCFG.BuildServerConfig(cfg, &log)
	storeCfg := buildCFG.BuildStoreConfig(cfg, serverCfg.Env, &log)

	store, err := buildStore(cfg, storeCfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize store")
	}

	var publisher service.Publisher
	var reader *rabbitReader.Reader
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	rabbitCfg, enabled, err := buildCFG.BuildRabbitConfig(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load RabbitMQ config")
	}
	if enabled {
		rmq, err := rabbit.NewRabbit(rabbitCfg.Url, rabbitCfg.Exchange, rabbitCfg.Queue)
		if err != nil {
			log.Fatal().Msgf("Failed to connect to RabbitMQ: %v", err)
		}
		defer rmq.Close()
		publisher = rmq

		notifier := mailer.New(buildCFG.BuildMailConfig(cfg), &log)
		if notifier.Configured() {
			reader = rabbitReader.NewReader(rmq, notifier, &log)
			reader.Start(workerCtx)
		} else {
			log.Warn().Msg("mail is not configured, organizer notifications are disabled")
		}
	}

	handler := submission.NewHandler(store, &log)
	serviceInstance := service.NewService(handler, &log, publisher)
	app := api.NewRouters(&api.Routers{
		Service:      serviceInstance,
		Log:          &log,
		AllowOrigins: serverCfg.AllowOrigins,
	})

	srv := &http.Server{
		Addr:    ":" + serverCfg.Port,
		Handler: app,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info().Msgf("Starting server on %s", serverCfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-signalChan:
		log.Info().Msgf("Received signal %s. Initiating shutdown...", sig)
	case err := <-serverErrChan:
		log.Error().Msgf("Server error: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Msgf("Error shutting down server: %v", err)
	}

	cancelWorkers()
	if reader != nil {
		reader.Stop()
	}

	log.Info().Msg("Shutdown complete")
}

func buildStore(cfg *config.Config, storeCfg buildCFG.StoreConfig, log *zerolog.Logger) (submission.Store, error) {
	switch storeCfg.Driver {
	case buildCFG.StoreSupabase:
		var opts []supabase.Option
		if storeCfg.Table != "" {
			opts = append(opts, supabase.WithTable(storeCfg.Table))
		}
		log.Info().Msg("Using Supabase store")
		return supabase.NewClient(storeCfg.SupabaseURL, storeCfg.SupabaseKey, log, opts...), nil

	case buildCFG.StorePostgres:
		masterDSN, slaveDSNs, poolOptions, err := buildCFG.BuildDBConfig(cfg, log)
		if err != nil {
			return nil, fmt.Errorf("failed to build DB config: %w", err)
		}
		db, err := dbpg.New(masterDSN, slaveDSNs, poolOptions)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to DB: %w", err)
		}
		repository, err := repo.NewRepository(db, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize repository: %w", err)
		}
		log.Info().Msg("Database connected successfully")

		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("cannot get working directory: %w", err)
		}
		if err := repository.MigrateUp(filepath.Join(cwd, "migrations/postgres")); err != nil {
			return nil, fmt.Errorf("migration failed: %w", err)
		}
		return repository, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", storeCfg.Driver)
}
