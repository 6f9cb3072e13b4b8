package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/RegimeEngine/internal/analysis/regime"
	"github.com/Alias1177/RegimeEngine/internal/api/twelvedata"
	"github.com/Alias1177/RegimeEngine/internal/config"
	"github.com/Alias1177/RegimeEngine/internal/database"
	"github.com/Alias1177/RegimeEngine/internal/engine"
	"github.com/Alias1177/RegimeEngine/internal/notifier"
	"github.com/Alias1177/RegimeEngine/internal/trading/gate"
	"github.com/Alias1177/RegimeEngine/internal/trading/risk"
)

func main() {
	once := flag.Bool("once", false, "run a single evaluation and exit")
	flag.Parse()

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignalHandling(cancel)

	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// 2. Configure logging
	setupLogging(cfg.LogLevel)
	log.Info().Msg("Starting Market Regime & Risk Engine")
	printConfig(cfg)

	// 3. Setup API client
	client := twelvedata.NewClient(twelvedata.ClientOptions{
		APIKey:         cfg.TwelveAPIKey,
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
		RequestsPerSec: 5,
	})

	// 4. Build the classifier and gate
	classifier := regime.NewClassifier(regime.Config{
		LookbackVol:      cfg.LookbackVol,
		LookbackTrend:    cfg.LookbackTrend,
		TypicalVolWindow: cfg.TypicalVolWindow,
		VolMultHigh:      cfg.VolMultHigh,
		SlopeThreshold:   cfg.SlopeThreshold,
		AutoSlopeWindow:  cfg.AutoSlopeWindow,
	})

	policy := gate.DefaultPolicy()
	if cfg.GatePolicyFile != "" {
		policy, err = gate.LoadPolicy(cfg.GatePolicyFile)
		if err != nil {
			log.Fatal().Err(err).Str("file", cfg.GatePolicyFile).Msg("Failed to load gate policy")
		}
		log.Info().Str("file", cfg.GatePolicyFile).Msg("Gate policy loaded")
	}
	gateEval := gate.NewEvaluator(policy)

	// 5. Optional persistence
	var store engine.Store
	if cfg.DBHost != "" {
		db, err := database.New(database.ConnectionParams{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			DBName:   cfg.DBName,
			SSLMode:  cfg.DBSSLMode,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()
		store = db
		log.Info().Str("host", cfg.DBHost).Msg("Persistence enabled")
		logStoredHistory(db, cfg.Symbol)
	}

	// 6. Optional Telegram alerts
	var notify engine.Notifier
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != 0 {
		tn, err := notifier.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Telegram notifier")
		}
		notify = tn
		log.Info().Msg("Telegram alerts enabled")
	}

	eng := engine.New(engine.Options{
		Symbol:      cfg.Symbol,
		Interval:    cfg.Interval,
		CandleCount: cfg.CandleCount,
		Schedule:    cfg.EvalSchedule,
		PlanConfig: risk.PlanConfig{
			AccountSize:    cfg.AccountSize,
			RiskPerTrade:   cfg.RiskPerTrade,
			ATRPeriod:      cfg.ATRPeriod,
			ATRShortPeriod: cfg.ATRShortPeriod,
			ATRLongPeriod:  cfg.ATRLongPeriod,
		},
	}, client, classifier, gateEval, store, notify)

	if *once {
		if _, err := eng.EvaluateOnce(ctx); err != nil {
			log.Fatal().Err(err).Msg("Evaluation failed")
		}
		return
	}

	if cfg.RunOnStart {
		if _, err := eng.EvaluateOnce(ctx); err != nil {
			log.Error().Err(err).Msg("Initial evaluation failed")
		}
	}

	if err := eng.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start engine")
	}

	<-ctx.Done()
	eng.Stop()
}

// setupSignalHandling configures signal handling for graceful shutdown
func setupSignalHandling(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Info().Msg("Shutdown signal received, exiting...")
		cancel()
	}()
}

// setupLogging configures the logger
func setupLogging(logLevel string) {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log.Logger = log.Logger.Level(level)
}

// logStoredHistory summarizes what previous runs persisted for the symbol,
// so a restart shows where the engine left off.
func logStoredHistory(db *database.DB, symbol string) {
	dist, err := db.GetRegimeDistribution(symbol)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read stored regime distribution")
		return
	}
	if len(dist) == 0 {
		log.Info().Str("symbol", symbol).Msg("No stored history for symbol")
		return
	}

	ev := log.Info().Str("symbol", symbol)
	for label, count := range dist {
		ev = ev.Int(string(label), count)
	}

	snapshots, err := db.GetRecentSnapshots(symbol, 1)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to read last stored snapshot")
	} else if len(snapshots) > 0 {
		ev = ev.
			Str("last_bar", snapshots[0].BarDatetime).
			Str("last_regime", string(snapshots[0].Label))
	}
	ev.Msg("Stored regime history")
}

// printConfig outputs the current configuration
func printConfig(cfg *config.Config) {
	log.Info().
		Str("Symbol", cfg.Symbol).
		Str("Interval", cfg.Interval).
		Int("CandleCount", cfg.CandleCount).
		Int("LookbackVol", cfg.LookbackVol).
		Int("LookbackTrend", cfg.LookbackTrend).
		Int("TypicalVolWindow", cfg.TypicalVolWindow).
		Float64("VolMultHigh", cfg.VolMultHigh).
		Float64("SlopeThreshold", cfg.SlopeThreshold).
		Float64("AccountSize", cfg.AccountSize).
		Float64("RiskPerTrade", cfg.RiskPerTrade).
		Str("EvalSchedule", cfg.EvalSchedule).
		Msg("Configuration loaded")
}
