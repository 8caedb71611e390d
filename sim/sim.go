// Package sim drives the predictors from a trace. A Simulator owns one
// value predictor engine and one branch predictor and feeds them the events
// of a single instruction stream.
package sim

import (
	"context"
	"io"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/sarchlab/vpsim/predictor"
	"github.com/sarchlab/vpsim/trace"
)

// Stats holds event counts for a run.
type Stats struct {
	// Events is the number of events read from the trace.
	Events uint64 `json:"events"`
	// ValueEvents is the number of events that wrote a register.
	ValueEvents uint64 `json:"value_events"`
	// Skipped is the number of value events that wrote no register.
	Skipped uint64 `json:"skipped"`
	// BranchEvents is the number of branch events.
	BranchEvents uint64 `json:"branch_events"`
}

// Result is the finalized outcome of a run.
type Result struct {
	Name   string                 `json:"name"`
	Config predictor.Config       `json:"config"`
	Stats  Stats                  `json:"stats"`
	Value  predictor.Report       `json:"value"`
	Branch predictor.BranchReport `json:"branch"`
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithLogger sets the logger used for run progress.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulator) {
		s.logger = logger
	}
}

// WithName labels the run in logs and results.
func WithName(name string) Option {
	return func(s *Simulator) {
		s.name = name
	}
}

// Simulator runs one instruction stream through the predictors.
type Simulator struct {
	config predictor.Config
	name   string
	logger *slog.Logger

	engine *predictor.Engine
	branch *predictor.BranchPredictor

	stats              Stats
	branchLimitReached bool
}

// New creates a simulator. It fails if config does not describe valid tables.
func New(config *predictor.Config, opts ...Option) (*Simulator, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid predictor config")
	}

	s := &Simulator{
		config: *config,
		engine: predictor.NewEngine(*config),
		branch: predictor.NewBranchPredictor(predictor.BranchPredictorConfig{
			TableSize: config.BranchTableSize,
		}),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	s.logger = s.logger.With("run", s.name)

	return s, nil
}

// Engine returns the value predictor.
func (s *Simulator) Engine() *predictor.Engine {
	return s.engine
}

// BranchPredictor returns the branch predictor.
func (s *Simulator) BranchPredictor() *predictor.BranchPredictor {
	return s.branch
}

// Halted returns true once either predictor has reached its limit.
func (s *Simulator) Halted() bool {
	return s.engine.Done() || s.branchLimitReached
}

// Step processes one event. It returns false once the simulator has halted;
// events passed after that are ignored.
func (s *Simulator) Step(ev trace.Event) bool {
	if s.Halted() {
		return false
	}
	s.stats.Events++

	switch ev.Kind {
	case trace.KindValue:
		if !ev.WritesRegister {
			s.stats.Skipped++
			break
		}
		s.stats.ValueEvents++
		s.engine.Observe(predictor.ValueEvent{
			Addr:  ev.Addr,
			Value: ev.Value,
			Shape: ev.Shape(),
		})
		if s.engine.Done() {
			s.logger.Info("instruction limit reached",
				"limit", s.config.InstructionLimit)
		}
	case trace.KindBranch:
		s.stats.BranchEvents++
		s.branch.Observe(ev.Addr, ev.Taken)
		if s.config.BranchLimit > 0 && s.branch.Stats().Seen >= s.config.BranchLimit {
			s.branchLimitReached = true
			s.logger.Info("branch limit reached", "limit", s.config.BranchLimit)
		}
	}

	return !s.Halted()
}

// Run feeds events from r until the trace ends, a limit is reached or ctx
// is cancelled, and returns the finalized result.
func (s *Simulator) Run(ctx context.Context, r trace.Reader) (Result, error) {
	s.logger.Debug("run started")

	for !s.Halted() {
		if err := ctx.Err(); err != nil {
			return s.Result(), err
		}

		ev, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return s.Result(), errors.Wrap(err, "failed to read trace")
		}

		s.Step(ev)
	}

	result := s.Result()
	s.logger.Info("run finished",
		"reason", result.Value.Reason,
		"events", s.stats.Events,
		"instructions", result.Value.Total.Instructions,
		"value_accuracy", result.Value.Total.Accuracy(),
		"branch_accuracy", result.Branch.Accuracy,
	)

	return result, nil
}

// Result finalizes the reports of both predictors. A limit on either one
// marks both reports as limit reached, since the run stops as a whole.
func (s *Simulator) Result() Result {
	value := s.engine.Report()
	halted := s.Halted()
	if halted {
		value.LimitReached = true
		value.Reason = predictor.ReasonLimitReached
	}

	return Result{
		Name:   s.name,
		Config: s.config,
		Stats:  s.stats,
		Value:  value,
		Branch: s.branch.Report(halted),
	}
}
