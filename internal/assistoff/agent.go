package assistoff

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"assistoff.io/assistoff/internal/assistoff/core"
	"assistoff.io/assistoff/internal/assistoff/policy"
	"assistoff.io/assistoff/internal/assistoff/status"
	"assistoff.io/assistoff/pkg/log"
	"assistoff.io/assistoff/pkg/options"
)

// Result is the outcome of handling one notification.
type Result string

const (
	// ResultIgnored means the notification named another file.
	ResultIgnored Result = "ignored"
	// ResultMalformed means the status file could not be read or parsed.
	ResultMalformed Result = "malformed"
	// ResultNoAction means the policy did not ask for a correction.
	ResultNoAction Result = "no_action"
	// ResultCorrected means the key press was sent.
	ResultCorrected Result = "corrected"
	// ResultTriggerFailed means the key press could not be sent.
	ResultTriggerFailed Result = "trigger_failed"
)

const (
	reportQueueSize = 64

	// readyTimeout bounds how long /readyz waits for the notifier connection.
	readyTimeout = 250 * time.Millisecond
)

var (
	// ErrSourceClosed is returned by Run when the source stops on its own.
	ErrSourceClosed = errors.New("notification source closed unexpectedly")

	errNotWatching = errors.New("watch not registered")
)

// Agent owns the pipeline: it consumes notifications from a Source, reads the
// status file, evaluates the policy and fires the Trigger.
type Agent struct {
	filename string
	source   core.Source
	trigger  *core.Trigger

	keyboard core.Keyboard
	notifier core.Notifier
	metrics  *Metrics
	logger   log.Logger
	httpOpts *options.HttpOptions
	server   *Server

	sm      *stateMachine
	mu      sync.Mutex
	ready   atomic.Bool
	reports chan func(context.Context) error
}

// Option configures an Agent.
type Option func(*Agent)

// WithNotifier publishes status and correction reports through n.
func WithNotifier(n core.Notifier) Option {
	return func(a *Agent) { a.notifier = n }
}

// WithMetrics records pipeline metrics on m instead of a private registry.
func WithMetrics(m *Metrics) Option {
	return func(a *Agent) { a.metrics = m }
}

// WithKeyboard hands the keyboard to the agent, which closes it when Run returns.
func WithKeyboard(kb core.Keyboard) Option {
	return func(a *Agent) { a.keyboard = kb }
}

// WithHTTPServer serves metrics and probes on opts.Addr while running.
func WithHTTPServer(opts *options.HttpOptions) Option {
	return func(a *Agent) { a.httpOpts = opts }
}

func WithLogger(l log.Logger) Option {
	return func(a *Agent) { a.logger = l }
}

// NewAgent creates an agent reacting to notifications whose name is filename.
func NewAgent(filename string, source core.Source, trigger *core.Trigger, opts ...Option) *Agent {
	a := &Agent{
		filename: filename,
		source:   source,
		trigger:  trigger,
		reports:  make(chan func(context.Context) error, reportQueueSize),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.metrics == nil {
		a.metrics = NewMetrics(prometheus.NewRegistry())
	}
	if a.logger == nil {
		a.logger = log.WithName("agent")
	}
	if a.httpOpts != nil && a.httpOpts.Enabled() {
		a.server = NewServer(a.httpOpts, a.metrics, a.checkReady)
	}
	a.sm = newStateMachine(a.metrics)

	return a
}

// Metrics returns the collectors the agent records on.
func (a *Agent) Metrics() *Metrics { return a.metrics }

// State returns the current state of the pipeline, StateIdle or StateHandling.
func (a *Agent) State() string { return a.sm.Current() }

// Ready reports whether the source is registered and notifications are consumed.
func (a *Agent) Ready() bool { return a.ready.Load() }

// checkReady also requires the notifier connection, if the notifier has one.
func (a *Agent) checkReady(ctx context.Context) error {
	if !a.ready.Load() {
		return errNotWatching
	}

	if rc, ok := a.notifier.(core.ReadinessChecker); ok {
		ctx, cancel := context.WithTimeout(ctx, readyTimeout)
		defer cancel()
		return rc.AwaitReady(ctx)
	}
	return nil
}

// Run starts the source and processes notifications one at a time until ctx
// is cancelled. It returns ErrSourceClosed if the source ends first.
func (a *Agent) Run(ctx context.Context) error {
	a.logger.Info("Starting assistoff", "filename", a.filename, "scanCode", a.trigger.ScanCode(), "hold", a.trigger.Hold())

	if err := a.source.Start(ctx); err != nil {
		a.release()
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.consume(ctx, gctx)
	})

	if a.server != nil {
		g.Go(func() error {
			return a.server.Start(gctx)
		})
	}

	if a.notifier != nil {
		g.Go(func() error {
			a.publish(gctx)
			return nil
		})
	}

	a.ready.Store(true)
	err := g.Wait()
	a.ready.Store(false)

	if stopErr := a.source.Stop(); stopErr != nil {
		a.logger.Error(stopErr, "Failed to stop the watcher")
	}
	a.release()

	a.logger.Info("assistoff stopped")
	return err
}

func (a *Agent) consume(parent, ctx context.Context) error {
	events := a.source.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case n, ok := <-events:
			if !ok {
				if parent.Err() != nil {
					return nil
				}
				return ErrSourceClosed
			}
			a.Handle(ctx, n)
		}
	}
}

func (a *Agent) release() {
	if a.notifier != nil {
		a.drainReports()
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		a.notifier.Close(closeCtx)
		cancel()
	}

	if a.keyboard != nil {
		if err := a.keyboard.Close(); err != nil {
			a.logger.Error(err, "Failed to close the keyboard")
		}
	}

	_ = a.logger.Sync()
}

// Handle runs one notification through the pipeline. Errors are logged and
// reflected in the Result, never returned.
func (a *Agent) Handle(ctx context.Context, n core.Notification) Result {
	if n.Name != a.filename {
		a.logger.Debug("Ignoring notification", "name", n.Name, "op", n.Op)
		a.metrics.observe(ResultIgnored, 0)
		return ResultIgnored
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	start := time.Now()
	smCtx := context.WithoutCancel(ctx)
	if err := a.sm.begin(smCtx); err != nil {
		a.logger.Error(err, "Unexpected state transition", "event", EventHandle)
	}

	result := a.handle(ctx, n)

	if err := a.sm.finish(smCtx); err != nil {
		a.logger.Error(err, "Unexpected state transition", "event", EventDone)
	}
	a.metrics.observe(result, time.Since(start))

	return result
}

func (a *Agent) handle(ctx context.Context, n core.Notification) Result {
	rec, err := status.ReadFile(n.Path)
	if err != nil {
		a.logger.Debug("Skipping unreadable status file", "path", n.Path, "error", err)
		return ResultMalformed
	}

	flags := uint32(rec.Flags)
	diag := policy.Describe(flags)
	a.logger.Info("Status", "flags", rec.Flags, diag)

	a.enqueue(func(ctx context.Context) error {
		return a.notifier.NotifyStatus(ctx, core.StatusReport{
			Timestamp:       rec.Timestamp,
			Event:           rec.Event,
			Flags:           flags,
			Docked:          diag.Docked,
			LandingGearDown: diag.LandingGearDown,
			InSRV:           diag.InSRV,
			FlightAssistOff: diag.FlightAssistOff,
			ObservedAt:      n.Timestamp,
		})
	})

	if !policy.ShouldDisableFlightAssist(flags) {
		return ResultNoAction
	}

	a.logger.Info("Disabling Flight Assist", "scanCode", a.trigger.ScanCode())

	firedAt := time.Now()
	result := ResultCorrected
	report := core.CorrectionReport{
		Flags:    flags,
		ScanCode: a.trigger.ScanCode(),
		Hold:     a.trigger.Hold(),
		FiredAt:  firedAt,
	}

	if err := a.trigger.Fire(ctx); err != nil {
		a.logger.Error(err, "Failed to send the Flight Assist toggle")
		report.Error = err.Error()
		result = ResultTriggerFailed
	} else {
		a.metrics.Corrections.Inc()
	}

	a.enqueue(func(ctx context.Context) error {
		return a.notifier.NotifyCorrection(ctx, report)
	})

	return result
}

// enqueue hands a report to the publisher without blocking the pipeline.
func (a *Agent) enqueue(fn func(context.Context) error) {
	if a.notifier == nil {
		return
	}

	select {
	case a.reports <- fn:
	default:
		a.metrics.DroppedReports.Inc()
		a.logger.Warn("Report queue full, dropping report")
	}
}

func (a *Agent) publish(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-a.reports:
			if err := fn(ctx); err != nil {
				a.logger.Debug("Failed to publish report", "error", err)
			}
		}
	}
}

// drainReports flushes reports queued before shutdown.
func (a *Agent) drainReports() {
	ctx := context.Background()
	for {
		select {
		case fn := <-a.reports:
			if err := fn(ctx); err != nil {
				a.logger.Debug("Failed to publish report", "error", err)
			}
		default:
			return
		}
	}
}
