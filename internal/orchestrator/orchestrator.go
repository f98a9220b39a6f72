// Package orchestrator drives reasoning chains: it picks strategies, runs them
// against the knowledge adapter, scores convergence and synthesizes the answer.
package orchestrator

// #region imports
import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/reasoning-orchestrator/internal/chain"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/cognitive"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/convergence"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/errs"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/knowledge"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/logging"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/metrics"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/performance"
	"github.com/danielpatrickdp/reasoning-orchestrator/internal/strategy"
)

// #endregion

// #region orchestrator-struct

// Orchestrator owns the shared registry, cognitive store and tracker. One
// instance serves any number of concurrent chains.
type Orchestrator struct {
	registry  *strategy.Registry
	kb        knowledge.Adapter
	cognitive *cognitive.Manager
	tracker   *performance.Tracker
	selector  *Selector
	recorder  Recorder
	log       *zap.Logger

	maxSteps     int
	target       float64
	maxAuto      int
	batchLimit   int
	cognitiveOff bool

	now   func() time.Time
	newID func() string
}

// #endregion

// #region constructor

// New wires an orchestrator. It fails with an initialization error when the
// registry is missing or empty or no knowledge adapter is configured.
func New(opts Options) (*Orchestrator, error) {
	const op = "orchestrator.new"
	if opts.Registry == nil || opts.Registry.Len() == 0 {
		return nil, errs.Initialization(op, "no strategies registered")
	}
	if opts.Knowledge == nil {
		return nil, errs.Initialization(op, "no knowledge adapter configured")
	}
	if opts.ConvergenceTarget < 0 || opts.ConvergenceTarget > 1 || math.IsNaN(opts.ConvergenceTarget) {
		return nil, errs.Initialization(op, "convergence target must be in (0,1]", "target", opts.ConvergenceTarget)
	}

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Tracker == nil {
		opts.Tracker = performance.NewTracker()
	}
	if opts.Cognitive == nil {
		opts.Cognitive = cognitive.NewManager(cognitive.Options{Now: opts.Now, NewID: opts.NewID, Logger: opts.Logger})
	}
	if opts.MaxStepsPerChain <= 0 {
		opts.MaxStepsPerChain = DefaultMaxStepsPerChain
	}
	if opts.ConvergenceTarget == 0 {
		opts.ConvergenceTarget = DefaultConvergenceTarget
	}
	if opts.MaxAutoStrategies <= 0 {
		opts.MaxAutoStrategies = DefaultMaxAutoStrategies
	}
	if opts.BatchConcurrency <= 0 {
		opts.BatchConcurrency = DefaultBatchConcurrency
	}

	return &Orchestrator{
		registry:     opts.Registry,
		kb:           opts.Knowledge,
		cognitive:    opts.Cognitive,
		tracker:      opts.Tracker,
		selector:     NewSelector(opts.Cognitive, opts.Tracker),
		recorder:     opts.Recorder,
		log:          opts.Logger.Named("orchestrator"),
		maxSteps:     opts.MaxStepsPerChain,
		target:       opts.ConvergenceTarget,
		maxAuto:      opts.MaxAutoStrategies,
		batchLimit:   opts.BatchConcurrency,
		cognitiveOff: opts.DisableCognitive,
		now:          opts.Now,
		newID:        opts.NewID,
	}, nil
}

// Cognitive exposes the state manager for direct superposition and resolution calls.
func (o *Orchestrator) Cognitive() *cognitive.Manager { return o.cognitive }

func (o *Orchestrator) Registry() *strategy.Registry { return o.registry }

func (o *Orchestrator) Tracker() *performance.Tracker { return o.tracker }

// #endregion

// #region execute

// ExecuteReasoningChain runs one chain to convergence or the step cap. Invalid
// input, an empty candidate set and cancellation abort with an error and no chain.
// A chain in which every strategy failed is returned with zero steps, not an error.
func (o *Orchestrator) ExecuteReasoningChain(ctx context.Context, req Request) (*Result, error) {
	start := o.now()
	res, err := o.execute(ctx, req, start)
	if err != nil {
		outcome := OutcomeAborted
		if errs.CategoryOf(err) == errs.CategoryCancelled {
			outcome = OutcomeCancelled
		}
		metrics.ChainsTotal.WithLabelValues(string(outcome)).Inc()
		o.log.Warn("chain aborted", zap.String("outcome", string(outcome)), zap.String("goal", req.Goal), zap.Error(err))
		req.Hooks.aborted(err)
		return nil, err
	}
	return res, nil
}

// plan is a validated request.
type plan struct {
	goal        string
	candidates  []strategy.Strategy
	qc          strategy.Context
	target      float64
	maxSteps    int
	cognitiveOn bool
}

func (o *Orchestrator) execute(ctx context.Context, req Request, start time.Time) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, cancelled("orchestrator.execute", err, req.Goal)
	}
	p, err := o.plan(ctx, req)
	if err != nil {
		return nil, err
	}

	c := chain.New(o.newID(), p.goal, start)
	log := o.log.With(zap.String("chain_id", c.ID()))
	names := strategyNames(p.candidates)

	stateID := ""
	if p.cognitiveOn {
		st, err := o.cognitive.CreateSuperposition(names)
		if err != nil {
			return nil, err
		}
		stateID = st.ID
		if err := c.AttachCognitiveState(st.ID, st.Coherence); err != nil {
			return nil, err
		}
	}
	log.Info("chain initialized",
		zap.String("goal", p.goal),
		zap.Strings("strategies", names),
		zap.Float64("target", p.target),
		zap.Bool("cognitive", stateID != ""))

	budget := newStepBudget(p.maxSteps)
	view := c.View()
	current := convergence.Evaluate(view)
	outcome := OutcomeMaxSteps
	var attempts []logging.StepOutcome

	for {
		iteration, ok := budget.take()
		if !ok {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, cancelled("orchestrator.execute", err, p.goal).With("chain_id", c.ID()).With("iteration", iteration)
		}

		choice, err := o.selector.Next(stateID, p.candidates, iteration)
		if err != nil {
			// the state was evicted or expired mid-chain
			log.Warn("cognitive selection failed, continuing round-robin", zap.Error(err))
			stateID = ""
		}
		if choice.Coherence != nil {
			if err := c.SetCoherence(*choice.Coherence); err != nil {
				return nil, err
			}
		}
		name := choice.Strategy.Info().Name

		stepStart := o.now()
		step, err := o.dispatch(ctx, choice.Strategy, view, p.qc)
		latency := o.now().Sub(stepStart)
		metrics.StepDuration.WithLabelValues(name).Observe(latency.Seconds())

		if err != nil {
			budget.fail()
			metrics.StepsTotal.WithLabelValues(name, logging.StatusFailed).Inc()
			log.Warn("strategy failed", zap.String("strategy", name), zap.Int("iteration", iteration), zap.Error(err))
			attempts = append(attempts, logging.StepOutcome{
				Iteration: iteration, Strategy: name, Status: logging.StatusFailed, Latency: latency, Error: err.Error(),
			})
			req.Hooks.strategyFailed(name, iteration, err)
			continue
		}

		step.ID = o.newID()
		step.Strategy = name
		step.Confidence = clamp01(step.Confidence)
		step.Conclusion.Confidence = clamp01(step.Conclusion.Confidence)
		step.Metadata.Latency = latency
		step.CognitiveEnhancement = choice.Enhancement
		if err := c.Append(step); err != nil {
			return nil, err
		}
		o.tracker.Record(name, step.Confidence, latency)
		metrics.StepsTotal.WithLabelValues(name, logging.StatusOK).Inc()
		attempts = append(attempts, logging.StepOutcome{
			Iteration: iteration, StepID: step.ID, Strategy: name, Status: logging.StatusOK, Confidence: step.Confidence, Latency: latency,
		})

		current = convergence.Evaluate(view)
		log.Debug("step appended",
			zap.String("strategy", name),
			zap.Int("iteration", iteration),
			zap.Float64("confidence", step.Confidence),
			zap.Float64("convergence", current.Overall))
		req.Hooks.stepAppended(view, step, current)

		if current.Converged(p.target) {
			outcome = OutcomeConverged
			req.Hooks.converged(view, current)
			break
		}
	}

	return o.finalize(ctx, c, p, current, outcome, start, attempts, budget, log)
}

// #endregion

// #region plan

func (o *Orchestrator) plan(ctx context.Context, req Request) (plan, error) {
	const op = "orchestrator.execute"
	goal := strings.TrimSpace(req.Goal)
	if goal == "" {
		return plan{}, errs.Validation(op, "goal must not be empty")
	}

	target := o.target
	if req.ConvergenceTarget != nil {
		target = *req.ConvergenceTarget
		if math.IsNaN(target) || target <= 0 || target > 1 {
			return plan{}, errs.Validation(op, "convergence target must be in (0,1]", "goal", goal, "target", target)
		}
	}
	if req.MaxSteps < 0 {
		return plan{}, errs.Validation(op, "max steps must not be negative", "goal", goal, "max_steps", req.MaxSteps)
	}
	maxSteps := o.maxSteps
	if req.MaxSteps > 0 {
		maxSteps = req.MaxSteps
	}

	qc, err := strategy.ParseContext(req.Context)
	if err != nil {
		var e *errs.Error
		if errors.As(err, &e) {
			return plan{}, e.With("goal", goal)
		}
		return plan{}, err
	}

	cognitiveOn := !o.cognitiveOff
	if req.CognitiveEnhancement != nil {
		cognitiveOn = *req.CognitiveEnhancement
	}

	var candidates []strategy.Strategy
	if len(req.Strategies) > 0 {
		seen := make(map[string]bool, len(req.Strategies))
		for _, n := range req.Strategies {
			s, ok := o.registry.Lookup(n)
			if !ok {
				return plan{}, errs.Validation(op, "unknown strategy", "goal", goal, "strategy", n)
			}
			if name := s.Info().Name; !seen[name] {
				seen[name] = true
				candidates = append(candidates, s)
			}
		}
	} else {
		candidates = o.autoSelect(ctx, goal, qc, cognitiveOn)
	}
	if len(candidates) == 0 {
		return plan{}, errs.Initialization(op, "no candidate strategies", "goal", goal, "cognitive", cognitiveOn)
	}

	return plan{
		goal:        goal,
		candidates:  candidates,
		qc:          qc,
		target:      target,
		maxSteps:    maxSteps,
		cognitiveOn: cognitiveOn,
	}, nil
}

// #endregion

// #region dispatch

// dispatch runs one strategy, converting a panic into a strategy_execution error.
func (o *Orchestrator) dispatch(ctx context.Context, s strategy.Strategy, view chain.View, qc strategy.Context) (step chain.Step, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.StrategyExecution("strategy.execute", fmt.Sprintf("panic: %v", r),
				"strategy", s.Info().Name, "goal", view.Goal(), "chain_id", view.ID())
		}
	}()
	step, err = s.ExecuteStep(ctx, view, qc, o.kb)
	if err != nil && errs.CategoryOf(err) != errs.CategoryStrategyExecution {
		err = errs.Wrap(errs.CategoryStrategyExecution, "strategy.execute", err,
			"strategy", s.Info().Name, "goal", view.Goal(), "chain_id", view.ID())
	}
	return step, err
}

// #endregion

// #region finalize

func (o *Orchestrator) finalize(
	ctx context.Context,
	c *chain.Chain,
	p plan,
	m convergence.Metrics,
	outcome Outcome,
	start time.Time,
	attempts []logging.StepOutcome,
	budget *stepBudget,
	log *zap.Logger,
) (*Result, error) {
	conclusion := synthesize(c.Steps())
	total := o.now().Sub(start)
	if err := c.Finalize(conclusion, m.Overall, total); err != nil {
		return nil, err
	}

	metrics.ChainsTotal.WithLabelValues(string(outcome)).Inc()
	metrics.ChainDuration.Observe(total.Seconds())
	metrics.ConvergenceScore.Observe(m.Overall)
	log.Info("chain finalized",
		zap.String("outcome", string(outcome)),
		zap.Int("steps", c.Len()),
		zap.Int("failures", budget.failures),
		zap.Float64("convergence", m.Overall),
		zap.Float64("confidence", conclusion.Confidence),
		zap.Duration("duration", total))

	names := strategyNames(p.candidates)
	res := &Result{
		Chain:              c,
		ConvergenceMetrics: m,
		Performance: Performance{
			TotalProcessingTimeMs: total.Milliseconds(),
			StepsExecuted:         c.Len(),
			ConvergenceAchieved:   outcome == OutcomeConverged,
		},
		Outcome:    outcome,
		Strategies: names,
	}

	if o.recorder != nil {
		entry := logging.ChainEntry{
			ChainID:          c.ID(),
			Goal:             c.Goal(),
			Outcome:          string(outcome),
			Statement:        conclusion.Statement,
			Confidence:       conclusion.Confidence,
			ConvergenceScore: m.Overall,
			StepsExecuted:    c.Len(),
			Strategies:       names,
			Duration:         total,
			CreatedAt:        start,
			Steps:            attempts,
		}
		if err := o.recorder.Record(context.WithoutCancel(ctx), entry); err != nil {
			log.Error("provenance record failed", zap.Error(err))
		}
	}
	return res, nil
}

// #endregion

// #region helpers

func strategyNames(ss []strategy.Strategy) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = s.Info().Name
	}
	return out
}

func cancelled(op string, cause error, goal string) *errs.Error {
	return errs.Wrap(errs.CategoryCancelled, op, cause, "goal", goal)
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// #endregion
