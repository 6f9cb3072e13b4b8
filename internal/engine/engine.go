package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/RegimeEngine/internal/analysis/regime"
	"github.com/Alias1177/RegimeEngine/internal/model"
	"github.com/Alias1177/RegimeEngine/internal/notifier"
	"github.com/Alias1177/RegimeEngine/internal/trading/gate"
	"github.com/Alias1177/RegimeEngine/internal/trading/risk"
)

// CandleSource provides candle series for evaluation.
type CandleSource interface {
	GetCandles(ctx context.Context, symbol string, interval string, count int) ([]model.Candle, error)
}

// Store persists evaluation results. Both methods are optional concerns:
// a nil Store disables persistence.
type Store interface {
	SaveSnapshot(symbol, interval string, s *model.RegimeSnapshot) error
	SaveDecision(symbol, interval, barDatetime string, d *model.GateDecision, plan *model.RiskPlan) error
}

// Notifier delivers alerts. A nil Notifier disables them.
type Notifier interface {
	Send(text string) error
}

// Options configures an engine instance.
type Options struct {
	Symbol      string
	Interval    string
	CandleCount int
	Schedule    string // cron spec with seconds field
	PlanConfig  risk.PlanConfig
}

// Engine runs the fetch → classify → gate → size pipeline on a schedule.
type Engine struct {
	opts       Options
	source     CandleSource
	classifier *regime.Classifier
	tracker    *regime.Tracker
	gate       *gate.Evaluator
	store      Store
	notify     Notifier
	cron       *cron.Cron
	logger     zerolog.Logger
	lastBlock  string
}

// Result is the outcome of one evaluation.
type Result struct {
	Snapshot *model.RegimeSnapshot
	Decision *model.GateDecision
	Plan     *model.RiskPlan
	Change   *model.RegimeChange
}

// New creates an engine. store and notify may be nil.
func New(opts Options, source CandleSource, classifier *regime.Classifier, gateEval *gate.Evaluator, store Store, notify Notifier) *Engine {
	return &Engine{
		opts:       opts,
		source:     source,
		classifier: classifier,
		tracker:    regime.NewTracker(100),
		gate:       gateEval,
		store:      store,
		notify:     notify,
		cron:       cron.New(cron.WithSeconds()),
		logger:     log.With().Str("component", "engine").Logger(),
	}
}

// Start registers the evaluation task and starts the scheduler.
func (e *Engine) Start(ctx context.Context) error {
	if _, err := e.cron.AddFunc(e.opts.Schedule, func() {
		if _, err := e.EvaluateOnce(ctx); err != nil {
			e.logger.Error().Err(err).Msg("Scheduled evaluation failed")
		}
	}); err != nil {
		return fmt.Errorf("register evaluation task: %w", err)
	}

	e.cron.Start()
	e.logger.Info().Str("schedule", e.opts.Schedule).Msg("Scheduler started")
	return nil
}

// Stop stops the scheduler and waits for a running evaluation to finish.
func (e *Engine) Stop() {
	<-e.cron.Stop().Done()
	e.logger.Info().Msg("Scheduler stopped")
}

// EvaluateOnce runs one complete evaluation cycle.
func (e *Engine) EvaluateOnce(ctx context.Context) (*Result, error) {
	candles, err := e.source.GetCandles(ctx, e.opts.Symbol, e.opts.Interval, e.opts.CandleCount)
	if err != nil {
		return nil, fmt.Errorf("fetching candles: %w", err)
	}

	snapshot := e.classifier.ClassifyLatest(candles)
	decision := e.gate.Evaluate(snapshot, candles)
	plan := risk.BuildPlan(candles, snapshot, decision, e.opts.PlanConfig)
	change := e.tracker.Observe(snapshot.Label, time.Now())

	e.logger.Info().
		Str("regime", string(snapshot.Label)).
		Str("direction", snapshot.Direction).
		Bool("allow", decision.Allow).
		Float64("size_factor", decision.SizeFactor).
		Float64("position_size", plan.PositionSize).
		Msg("Evaluation complete")

	e.persist(snapshot, decision, plan)
	e.alert(snapshot, decision, plan, change)

	return &Result{Snapshot: snapshot, Decision: decision, Plan: plan, Change: change}, nil
}

func (e *Engine) persist(snapshot *model.RegimeSnapshot, decision *model.GateDecision, plan *model.RiskPlan) {
	if e.store == nil {
		return
	}
	if err := e.store.SaveSnapshot(e.opts.Symbol, e.opts.Interval, snapshot); err != nil {
		e.logger.Error().Err(err).Msg("Failed to save snapshot")
	}
	if err := e.store.SaveDecision(e.opts.Symbol, e.opts.Interval, snapshot.BarDatetime, decision, plan); err != nil {
		e.logger.Error().Err(err).Msg("Failed to save decision")
	}
}

func (e *Engine) alert(snapshot *model.RegimeSnapshot, decision *model.GateDecision, plan *model.RiskPlan, change *model.RegimeChange) {
	if e.notify == nil {
		return
	}

	if change != nil {
		msg := notifier.FormatRegimeChange(e.opts.Symbol, change, snapshot)
		msg += "\n\n" + notifier.FormatDecision(e.opts.Symbol, decision, plan)
		e.send(msg)
		e.rememberBlock(decision)
		return
	}

	if decision.Allow {
		e.lastBlock = ""
		return
	}

	// A new block within an unchanged regime is still actionable. Repeats
	// of the same block stay silent until the reasons change or an
	// evaluation allows again.
	key := blockKey(decision)
	if key == e.lastBlock {
		return
	}
	e.send(notifier.FormatDecision(e.opts.Symbol, decision, plan))
	e.lastBlock = key
}

// blockKey identifies a block by its reason categories. The detail after
// the category varies between cycles (ages, bar counts) and must not
// retrigger the alert.
func blockKey(decision *model.GateDecision) string {
	cats := make([]string, len(decision.Reasons))
	for i, r := range decision.Reasons {
		cats[i] = r
		if idx := strings.Index(r, ":"); idx >= 0 {
			cats[i] = r[:idx]
		}
	}
	return strings.Join(cats, ";")
}

func (e *Engine) send(msg string) {
	if err := e.notify.Send(msg); err != nil {
		e.logger.Error().Err(err).Msg("Failed to send alert")
	}
}

func (e *Engine) rememberBlock(decision *model.GateDecision) {
	if decision.Allow {
		e.lastBlock = ""
		return
	}
	e.lastBlock = blockKey(decision)
}
