package views

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tramatch/tramatch-web/internal/observability/metrics"
)

const (
	// DefaultPreloadDelay is how long after the first render preloading starts.
	DefaultPreloadDelay = time.Second
	// DefaultPreloadConcurrency bounds parallel view loads during preloading.
	DefaultPreloadConcurrency = 4
)

// Result is the outcome of loading one view during a preload pass.
type Result struct {
	View     string
	Err      error
	Duration time.Duration
}

// PreloadReport lists every attempt of a preload pass.
type PreloadReport struct {
	Started time.Time
	Elapsed time.Duration
	Results []Result
}

// Failed returns the attempts that did not load.
func (r PreloadReport) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// PreloaderOptions configures a Preloader.
type PreloaderOptions struct {
	Registry    *Registry
	Delay       time.Duration
	Concurrency int
	// Context bounds the background pass; it is usually the server lifetime.
	Context context.Context
	Metrics *metrics.Registry
	Logger  *slog.Logger
}

// Preloader warms the view cache once, shortly after the first page has
// been served. It never reports failures to callers; each failed view is
// logged and counted and will be loaded again on demand.
type Preloader struct {
	reg         *Registry
	delay       time.Duration
	concurrency int
	ctx         context.Context
	metrics     *metrics.Registry
	logger      *slog.Logger

	once   sync.Once
	done   chan struct{}
	mu     sync.Mutex
	report *PreloadReport
}

// NewPreloader constructs a Preloader. A negative delay is treated as zero.
func NewPreloader(opts PreloaderOptions) *Preloader {
	delay := opts.Delay
	if delay < 0 {
		delay = 0
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultPreloadConcurrency
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Preloader{
		reg:         opts.Registry,
		delay:       delay,
		concurrency: concurrency,
		ctx:         ctx,
		metrics:     opts.Metrics,
		logger:      logger.With("component", "preloader"),
		done:        make(chan struct{}),
	}
}

// Trigger starts the background pass. Only the first call has an effect;
// it is safe to call on every successful render.
func (p *Preloader) Trigger() {
	if p == nil {
		return
	}
	p.once.Do(func() {
		go func() {
			defer close(p.done)
			if !sleep(p.ctx, p.delay) {
				p.logger.Debug("preload canceled before start")
				return
			}
			rep := p.Run(p.ctx)
			p.mu.Lock()
			p.report = &rep
			p.mu.Unlock()
		}()
	})
}

// Done is closed when the background pass has finished or was canceled.
func (p *Preloader) Done() <-chan struct{} { return p.done }

// Report returns the background pass report once it has finished.
func (p *Preloader) Report() (PreloadReport, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.report == nil {
		return PreloadReport{}, false
	}
	return *p.report, true
}

// Run loads every pending view now, without the delay, and returns the
// report. Attempts are independent; one failure does not stop the others.
func (p *Preloader) Run(ctx context.Context) PreloadReport {
	rep := PreloadReport{Started: time.Now()}
	pending := p.reg.Pending()
	results := make([]Result, len(pending))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, view := range pending {
		g.Go(func() error {
			start := time.Now()
			_, err := p.reg.load(gctx, view, OriginPreload)
			results[i] = Result{View: view, Err: err, Duration: time.Since(start)}
			if err != nil {
				p.logger.Warn("view preload failed", slog.String("view", view), slog.Any("error", err))
				p.metrics.PreloadFailure(view, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	rep.Results = results
	rep.Elapsed = time.Since(rep.Started)
	p.metrics.PreloadPass(rep.Elapsed)
	p.logger.Info("views preloaded",
		slog.Int("attempted", len(results)),
		slog.Int("failed", len(rep.Failed())),
		slog.Duration("duration", rep.Elapsed),
	)
	return rep
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d == 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
