package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/verdana-labs/esgbridge/internal/api"
	"github.com/verdana-labs/esgbridge/internal/api/handlers"
	"github.com/verdana-labs/esgbridge/internal/archive"
	"github.com/verdana-labs/esgbridge/internal/esg"
	"github.com/verdana-labs/esgbridge/internal/oracle"
	"github.com/verdana-labs/esgbridge/internal/realtime"
	"github.com/verdana-labs/esgbridge/internal/scheduler"
	"github.com/verdana-labs/esgbridge/internal/scheduler/jobs"
	"github.com/verdana-labs/esgbridge/internal/token"
	"github.com/verdana-labs/esgbridge/pkg/config"
	"github.com/verdana-labs/esgbridge/pkg/database"
	"github.com/verdana-labs/esgbridge/pkg/logger"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Start the REST API server.

This command starts:
- the HTTP API for classification, registry, ledger and issuance
- the websocket event stream
- the score freshness sweep scheduler
- the optional issuance archive (when DATABASE_URL is set)

Endpoints:
  GET  /health                       - Health check
  POST /api/esg/classify             - Score + classification + SETR message
  POST /api/esg/validate             - Compliance validation
  POST /api/providers                - Register a score provider
  POST /api/oracle/scores            - Submit a score
  POST /api/token/mint               - Score-gated token issuance
  GET  /ws/events                    - Event stream

Example:
  esgbridge api
  esgbridge api --port 8090`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if apiPort != "" {
		cfg.Port = apiPort
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	// 3. Core pipeline
	calculator, err := esg.NewCalculator(
		cfg.Scoring.EnvironmentalWeight,
		cfg.Scoring.SocialWeight,
		cfg.Scoring.GovernanceWeight,
	)
	if err != nil {
		return fmt.Errorf("build calculator: %w", err)
	}

	// 4. Oracle state
	admin := oracle.Address(cfg.Oracle.Admin)
	registry := oracle.NewRegistry(admin)
	ledger := oracle.NewLedger(admin, registry)

	// 5. Event hub and issuance gate
	hub := realtime.NewHub(log)
	sinks := []token.EventSink{hub}

	if cfg.Database.Enabled() {
		db, err := database.New(cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		repo := archive.NewRepository(db, log)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := repo.EnsureSchema(ctx); err != nil {
			cancel()
			return fmt.Errorf("prepare archive schema: %w", err)
		}
		cancel()

		sinks = append(sinks, archive.NewSink(repo, log))
		log.Info("Issuance archive enabled")
	}

	gate := token.NewGate(ledger, sinks...)

	// 6. Scheduler
	sched := scheduler.New(log)
	sweep := jobs.NewFreshnessSweep(ledger, cfg.Oracle.ScoreMaxAge, cfg.Oracle.FreshnessSweepSchedule, log)
	if err := sched.AddJob(sweep); err != nil {
		return fmt.Errorf("schedule freshness sweep: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	// 7. HTTP server
	esgHandler := handlers.NewESGHandler(calculator, cfg.Scoring.WithCarbonIntensity, log)
	oracleHandler := handlers.NewOracleHandler(registry, ledger, hub, log)
	tokenHandler := handlers.NewTokenHandler(gate, cfg.Oracle.MinMintScore, log)

	router := api.NewRouter(esgHandler, oracleHandler, tokenHandler, hub, log)
	server := api.New(cfg, log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	// 8. Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.WithField("signal", sig.String()).Info("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}
