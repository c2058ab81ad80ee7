package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arjun115/freecell/internal/config"
	"github.com/arjun115/freecell/internal/game"
	"github.com/arjun115/freecell/internal/server"
	"github.com/arjun115/freecell/internal/session"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting freecell server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize session manager
	sessionMgr := session.NewManager(session.Options{
		Settings:    gameSettings(cfg.Game),
		AutoSettle:  cfg.Game.AutoSettle,
		MaxSessions: cfg.Server.MaxSessions,
		IdleTTL:     cfg.Server.SessionIdleTTL,
	}, logger)
	logger.Info("session manager initialized",
		zap.Int("max_sessions", cfg.Server.MaxSessions),
		zap.Duration("idle_ttl", cfg.Server.SessionIdleTTL),
		zap.Bool("auto_settle", cfg.Game.AutoSettle),
	)

	// Start session cleanup goroutine
	go sessionMgr.CleanupExpiredSessions(ctx, time.Minute)

	hub := server.NewHub(cfg.Server.WebSocket, sessionMgr, logger)
	go hub.Run(ctx)

	mux := http.NewServeMux()
	mux.Handle(cfg.Server.WebSocket.Path, hub)
	httpServer := &http.Server{
		Addr:              cfg.Server.WebSocket.Address,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start WebSocket server
	go func() {
		logger.Info("starting WebSocket server",
			zap.String("address", cfg.Server.WebSocket.Address),
			zap.String("path", cfg.Server.WebSocket.Path),
		)
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("WebSocket server error", zap.Error(serveErr))
			sigChan <- syscall.SIGTERM
		}
	}()

	// Wait for termination signal
	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	// Graceful shutdown
	logger.Info("shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown incomplete", zap.Error(err))
	}
	cancel()

	// Close all active sessions
	sessionMgr.CloseAll()

	logger.Info("freecell server stopped")
}

func gameSettings(cfg config.GameConfig) game.Settings {
	return game.Settings{
		Seed: cfg.Seed,
		Scoring: game.Scoring{
			FoundationMove:      cfg.Scoring.FoundationMove,
			Exposure:            cfg.Scoring.Exposure,
			WasteToTableau:      cfg.Scoring.WasteToTableau,
			FoundationToTableau: cfg.Scoring.FoundationToTableau,
			Undo:                cfg.Scoring.Undo,
		},
	}
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
