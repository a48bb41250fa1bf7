// Package views loads page templates on first use and warms the rest in the background.
package views

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tramatch/tramatch-web/internal/observability/metrics"
)

// ContentTemplate is the template every page file defines.
const ContentTemplate = "content"

// Load origins for metrics.
const (
	OriginRequest = "request"
	OriginPreload = "preload"
)

// ErrUnknownView is returned for a view name the registry was not told about.
var ErrUnknownView = errors.New("unknown view")

// Config configures a Registry.
type Config struct {
	// FS holds "pages/<view>.tmpl" and shared "partials/*.tmpl".
	FS fs.FS
	// Views is the closed set of loadable view names.
	Views []string
	// Funcs is merged over the default template funcs.
	Funcs template.FuncMap
	// Reload disables caching so edits on disk show up on the next request.
	Reload  bool
	Metrics *metrics.Registry
	Logger  *slog.Logger
}

// Registry parses page templates lazily. Each view is parsed at most once
// per process unless the parse fails; concurrent first loads share one parse.
type Registry struct {
	fsys    fs.FS
	base    *template.Template
	known   map[string]bool
	reload  bool
	metrics *metrics.Registry
	logger  *slog.Logger

	mu     sync.RWMutex
	loaded map[string]*template.Template
	group  singleflight.Group
}

// NewRegistry parses the shared partials and prepares lazy loading of views.
func NewRegistry(cfg Config) (*Registry, error) {
	if cfg.FS == nil {
		return nil, errors.New("views: FS is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	funcs := Funcs()
	for k, v := range cfg.Funcs {
		funcs[k] = v
	}
	base := template.New("views").Funcs(funcs)
	partials, err := fs.Glob(cfg.FS, "partials/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("views: glob partials: %w", err)
	}
	if len(partials) > 0 {
		if base, err = base.ParseFS(cfg.FS, partials...); err != nil {
			logger.Error("template parsing failed", slog.Any("error", err), slog.String("phase", "partials"))
			return nil, fmt.Errorf("views: parse partials: %w", err)
		}
	}

	known := make(map[string]bool, len(cfg.Views))
	for _, v := range cfg.Views {
		known[v] = true
	}
	return &Registry{
		fsys:    cfg.FS,
		base:    base,
		known:   known,
		reload:  cfg.Reload,
		metrics: cfg.Metrics,
		logger:  logger.With("component", "views"),
		loaded:  make(map[string]*template.Template, len(known)),
	}, nil
}

// Views returns the known view names, sorted.
func (r *Registry) Views() []string {
	out := make([]string, 0, len(r.known))
	for v := range r.known {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// IsLoaded reports whether view has been parsed successfully.
func (r *Registry) IsLoaded(view string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.loaded[view]
	return ok
}

// Pending returns the known views that have not been parsed yet, sorted.
func (r *Registry) Pending() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.known))
	for v := range r.known {
		if _, ok := r.loaded[v]; !ok {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

// Load returns the parsed template for view, parsing it on first use.
func (r *Registry) Load(ctx context.Context, view string) (*template.Template, error) {
	return r.load(ctx, view, OriginRequest)
}

func (r *Registry) load(ctx context.Context, view, origin string) (*template.Template, error) {
	if !r.known[view] {
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, view)
	}
	if !r.reload {
		r.mu.RLock()
		t, ok := r.loaded[view]
		r.mu.RUnlock()
		if ok {
			return t, nil
		}
	}

	ch := r.group.DoChan(view, func() (any, error) {
		return r.parse(view)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		r.metrics.ViewLoad(origin, res.Err)
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*template.Template), nil
	}
}

// parse is only ever run inside the singleflight group. Failures are not
// stored so the next request tries again.
func (r *Registry) parse(view string) (*template.Template, error) {
	start := time.Now()
	clone, err := r.base.Clone()
	if err != nil {
		return nil, &LoadError{View: view, Err: err}
	}
	t, err := clone.ParseFS(r.fsys, "pages/"+view+".tmpl")
	if err != nil {
		return nil, &LoadError{View: view, Err: err}
	}
	if t.Lookup(ContentTemplate) == nil {
		return nil, &LoadError{View: view, Err: fmt.Errorf("no %q template defined", ContentTemplate)}
	}
	if !r.reload {
		r.mu.Lock()
		r.loaded[view] = t
		r.mu.Unlock()
	}
	r.logger.Debug("view loaded", slog.String("view", view), slog.Duration("duration", time.Since(start)))
	return t, nil
}

// Render loads view and executes its content template into w. Nothing is
// written when loading or execution fails.
func (r *Registry) Render(ctx context.Context, w io.Writer, view string, data any) error {
	t, err := r.Load(ctx, view)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, ContentTemplate, data); err != nil {
		r.logger.Error("template execution failed", slog.String("view", view), slog.Any("error", err))
		return fmt.Errorf("execute view %q: %w", view, err)
	}
	_, err = buf.WriteTo(w)
	return err
}

// RenderHTML is Render returning the markup for embedding in a shell.
func (r *Registry) RenderHTML(ctx context.Context, view string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.Render(ctx, &buf, view, data); err != nil {
		return "", err
	}
	// #nosec G203 - produced by html/template which already escaped user values.
	return template.HTML(buf.String()), nil
}

// LoadError is returned when a view template cannot be read or parsed.
// Handlers show a retry page for it; the next attempt parses again.
type LoadError struct {
	View string
	Err  error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load view %q: %v", e.View, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// IsLoadError reports whether err came from loading (not executing) a view.
func IsLoadError(err error) bool {
	var le *LoadError
	return errors.As(err, &le)
}
