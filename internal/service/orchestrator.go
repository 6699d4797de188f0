package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hugo-lorenzo-mato/ai-consensus/internal/core"
	"github.com/hugo-lorenzo-mato/ai-consensus/internal/logging"
	"github.com/hugo-lorenzo-mato/ai-consensus/internal/security"
)

// Request is one consensus run.
type Request struct {
	Solvers   []string
	Consensus string
	Prompt    string
}

// Result is the outcome of a successful run.
type Result struct {
	RunID     string
	Consensus string
	Report    *core.ExecutionReport
	Skipped   []string
	Warnings  []string
	Metrics   RunMetrics
}

// Orchestrator validates a request, runs the solvers and asks the
// consensus tool for the final answer.
type Orchestrator struct {
	registry   *core.Registry
	prober     core.AvailabilityProber
	executor   *SolverExecutor
	aggregator *Aggregator
	reporter   core.ProgressReporter
	preflight  core.PreflightChecker
	logger     *logging.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithReporter sets the progress reporter.
func WithReporter(r core.ProgressReporter) Option {
	return func(o *Orchestrator) { o.reporter = r }
}

// WithPreflight sets the host resource checker.
func WithPreflight(p core.PreflightChecker) Option {
	return func(o *Orchestrator) { o.preflight = p }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// NewOrchestrator creates an orchestrator over a loaded registry.
func NewOrchestrator(registry *core.Registry, runner core.ToolRunner, prober core.AvailabilityProber, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		registry: registry,
		prober:   prober,
		reporter: nopReporter{},
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.executor = NewSolverExecutor(runner, o.logger)
	o.aggregator = NewAggregator(runner, o.logger)
	return o
}

// Run executes the full pipeline. Tool keys and the prompt are validated
// before any process is spawned.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Result, error) {
	runID := uuid.NewString()
	log := o.logger.WithRun(runID)
	metrics := NewMetricsCollector()
	metrics.StartRun()

	solverKeys := dedupe(req.Solvers)
	if len(solverKeys) == 0 {
		return nil, core.ErrConfig(core.CodeNoTools, "no solver tools specified")
	}
	if err := security.ValidateTools(solverKeys, req.Consensus, o.registry); err != nil {
		return nil, err
	}
	prompt, err := security.SanitizePrompt(req.Prompt)
	if err != nil {
		return nil, err
	}

	available, unavailable := o.prober.CheckAvailability(solverKeys, o.registry)
	consensusSpec, _ := o.registry.Get(req.Consensus)
	if !o.prober.IsAvailable(consensusSpec) {
		return nil, core.ErrToolNotFound(req.Consensus).
			WithHint(fmt.Sprintf("consensus tool executable '%s' not available", consensusSpec.Command))
	}
	if len(unavailable) > 0 {
		log.Info("unavailable tools", "tools", strings.Join(unavailable, ", "))
		o.reporter.ToolsSkipped(unavailable)
		metrics.RecordSkipped(len(unavailable))
	}
	if len(available) == 0 {
		return nil, core.ErrAllSolversFailed(unavailable).WithHint("no available tools")
	}

	result := &Result{RunID: runID, Skipped: unavailable}
	if o.preflight != nil {
		for _, w := range o.preflight.Check(len(available)) {
			log.Info("preflight warning", "warning", w)
			result.Warnings = append(result.Warnings, w)
		}
	}

	log.Info("running solvers",
		"solvers", solverNames(available),
		"consensus", req.Consensus,
	)
	o.reporter.SolversStarted(len(available))
	start := time.Now()
	report, err := o.executor.RunSolvers(ctx, available, prompt)
	elapsed := time.Since(start)
	for _, outcome := range report.Outcomes {
		o.reporter.SolverFinished(outcome)
	}
	o.reporter.SolversFinished(elapsed)
	metrics.RecordReport(report, elapsed)
	result.Report = report
	if err != nil {
		log.Info("all solvers failed", "failed", strings.Join(report.FailedKeys, ", "))
		return result, err
	}

	o.reporter.ConsensusStarted()
	start = time.Now()
	raw, err := o.aggregator.GetConsensus(ctx, consensusSpec, report.SuccessfulResponses, prompt)
	elapsed = time.Since(start)
	metrics.RecordConsensus(elapsed)
	if err != nil {
		log.Info("consensus failed", "tool", req.Consensus, "error", err)
		return result, err
	}
	o.reporter.ConsensusFinished(elapsed)

	result.Consensus = strings.TrimSpace(security.StripANSICodes(raw))
	metrics.EndRun()
	result.Metrics = metrics.Run()

	log.Info("run completed",
		"succeeded", result.Metrics.SolversSucceeded,
		"failed", result.Metrics.SolversFailed,
		"skipped", result.Metrics.SolversSkipped,
		"duration", result.Metrics.TotalDuration,
	)
	return result, nil
}

func dedupe(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

func solverNames(solvers []core.Solver) string {
	names := make([]string, len(solvers))
	for i, s := range solvers {
		names[i] = s.Key
	}
	return strings.Join(names, ", ")
}

type nopReporter struct{}

func (nopReporter) SolversStarted(int) {}
func (nopReporter) SolverFinished(core.SolverOutcome) {}
func (nopReporter) SolversFinished(time.Duration) {}
func (nopReporter) ToolsSkipped([]string) {}
func (nopReporter) ConsensusStarted() {}
func (nopReporter) ConsensusFinished(time.Duration) {}
