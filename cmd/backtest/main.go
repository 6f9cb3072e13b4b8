package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/RegimeEngine/internal/analysis/regime"
	"github.com/Alias1177/RegimeEngine/internal/api/twelvedata"
	"github.com/Alias1177/RegimeEngine/internal/backtest"
	"github.com/Alias1177/RegimeEngine/internal/config"
	"github.com/Alias1177/RegimeEngine/internal/trading/gate"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogging(cfg.LogLevel)

	log.Info().
		Str("symbol", cfg.Symbol).
		Str("interval", cfg.Interval).
		Int("days", cfg.BacktestDays).
		Msg("Running backtest")

	client := twelvedata.NewClient(twelvedata.ClientOptions{
		APIKey:         cfg.TwelveAPIKey,
		RequestTimeout: time.Duration(cfg.RequestTimeout) * time.Second,
		RequestsPerSec: 5,
	})

	candles, err := client.GetHistoricalCandles(ctx, cfg.Symbol, cfg.Interval, cfg.BacktestDays)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to fetch historical data")
	}

	classifier := regime.NewClassifier(regime.Config{
		LookbackVol:      cfg.LookbackVol,
		LookbackTrend:    cfg.LookbackTrend,
		TypicalVolWindow: cfg.TypicalVolWindow,
		VolMultHigh:      cfg.VolMultHigh,
		SlopeThreshold:   cfg.SlopeThreshold,
		AutoSlopeWindow:  cfg.AutoSlopeWindow,
	})

	// Historical bars are always stale, so the freshness check is disabled.
	policy := gate.DefaultPolicy()
	if cfg.GatePolicyFile != "" {
		policy, err = gate.LoadPolicy(cfg.GatePolicyFile)
		if err != nil {
			log.Fatal().Err(err).Str("file", cfg.GatePolicyFile).Msg("Failed to load gate policy")
		}
	}
	policy.MaxCandleAge = 0

	engine := backtest.NewEngine(classifier, gate.NewEvaluator(policy), cfg.CandleCount)
	engine.SetInitialValue(cfg.AccountSize)

	results, err := engine.Run(candles)
	if err != nil {
		log.Fatal().Err(err).Msg("Backtest failed")
	}

	fmt.Println(engine.FormatResults(results))
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
