package httpx

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	g "maragu.dev/gomponents"

	domainauth "github.com/tramatch/tramatch-web/internal/domain/auth"
	"github.com/tramatch/tramatch-web/internal/domain/model"
	"github.com/tramatch/tramatch-web/internal/domain/nav"
	apperrors "github.com/tramatch/tramatch-web/internal/errors"
	"github.com/tramatch/tramatch-web/internal/http/ui/chrome"
	"github.com/tramatch/tramatch-web/internal/http/views"
	"github.com/tramatch/tramatch-web/internal/observability/metrics"
)

// ViewRenderer renders a named view's content template.
type ViewRenderer interface {
	RenderHTML(ctx context.Context, view string, data any) (template.HTML, error)
}

// Preloader is started after the first page has been rendered.
type Preloader interface {
	Trigger()
}

// Loader fills PageData.Data for a view. Returning an error aborts the
// render; not found and forbidden errors get their own pages.
type Loader func(r *http.Request, pd *PageData) error

// PageData is what every view template receives.
type PageData struct {
	Title     string
	Path      string
	Params    nav.Params
	Query     url.Values
	State     domainauth.SessionState
	User      *domainauth.UserProfile
	CSRFToken string
	// Flash is a one-line success message shown above the view.
	Flash  string
	Errors model.FieldErrors
	// Form echoes submitted values back into a form after a failed post.
	Form url.Values
	Data any
}

// Value returns the submitted form value for a field.
func (pd *PageData) Value(field string) string {
	if pd.Form == nil {
		return ""
	}
	return pd.Form.Get(field)
}

// Error returns the message for a field, or "".
func (pd *PageData) Error(field string) string {
	return pd.Errors[field]
}

// PagesConfig configures the page dispatcher.
type PagesConfig struct {
	Table     *nav.Table
	Views     ViewRenderer
	Preloader Preloader
	Loaders   map[string]Loader
	// Unread counts a user's unread notifications for the header badge.
	Unread  func(ctx context.Context, userID string) (int, error)
	Metrics *metrics.Registry
	Logger  *slog.Logger
}

// Pages serves every GET path through the route table: legacy redirects,
// guards, layout selection and the lazily loaded view.
type Pages struct {
	table     *nav.Table
	views     ViewRenderer
	preloader Preloader
	loaders   map[string]Loader
	unread    func(ctx context.Context, userID string) (int, error)
	metrics   *metrics.Registry
	logger    *slog.Logger
}

// NewPages builds the dispatcher.
func NewPages(cfg PagesConfig) *Pages {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	loaders := cfg.Loaders
	if loaders == nil {
		loaders = map[string]Loader{}
	}
	return &Pages{
		table:     cfg.Table,
		views:     cfg.Views,
		preloader: cfg.Preloader,
		loaders:   loaders,
		unread:    cfg.Unread,
		metrics:   cfg.Metrics,
		logger:    logger,
	}
}

func (p *Pages) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m, ok := p.table.Match(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	setRoutePattern(r, m.Route.Pattern.String())

	if m.Route.IsRedirect() {
		p.serveRedirect(w, r, m)
		return
	}

	st := SessionStateFromContext(r.Context())
	d := nav.Evaluate(m.Route.Guard, st)
	p.metrics.GuardDecision(m.Route.Guard.String(), d.Outcome.String())
	switch d.Outcome {
	case nav.OutcomeBlank:
		p.serveBlank(w, r)
		return
	case nav.OutcomeRedirect:
		location := d.Location
		if location == nav.LoginPath {
			location = loginURL(r.URL.RequestURI())
		}
		seeOther(w, r, location)
		return
	case nav.OutcomeRender:
	}

	status := http.StatusOK
	if m.Route.View == nav.ViewNotFound {
		status = http.StatusNotFound
	}
	pd := p.NewPageData(r, m.Route.Title)
	pd.Params = m.Params
	p.Render(w, r, RenderParams{View: m.Route.View, Status: status, Data: pd})
}

func (p *Pages) serveRedirect(w http.ResponseWriter, r *http.Request, m nav.Match) {
	location, err := m.Route.RedirectLocation(m.Params)
	if err != nil {
		p.logger.Error("redirect expansion failed", slog.String("pattern", m.Route.Pattern.String()), slog.Any("error", err))
		http.NotFound(w, r)
		return
	}
	if r.URL.RawQuery != "" {
		location += "?" + r.URL.RawQuery
	}
	if IsHTMX(r) {
		SetHXRedirect(w, location)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, location, http.StatusMovedPermanently)
}

// serveBlank answers while the session is unresolved: nothing of the view
// is rendered and the client is told to retry in a second.
func (p *Pages) serveBlank(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", "1")
	w.Header().Set("Cache-Control", "no-store")
	if IsHTMX(r) {
		SetHXRedirect(w, r.URL.RequestURI())
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	writeNode(w, http.StatusServiceUnavailable, chrome.Loading(r.URL.RequestURI()))
}

// NewPageData prepares template data for the current request.
func (p *Pages) NewPageData(r *http.Request, title string) *PageData {
	st := SessionStateFromContext(r.Context())
	return &PageData{
		Title:     title,
		Path:      r.URL.Path,
		Params:    nav.Params{},
		Query:     r.URL.Query(),
		State:     st,
		User:      st.User,
		CSRFToken: GetCSRFToken(r),
	}
}

// RenderParams groups the inputs of Render.
type RenderParams struct {
	View   string
	Status int
	Data   *PageData
	// SkipLoader renders with Data as given, for re-rendering a form after
	// a failed post where the handler already filled it.
	SkipLoader bool
}

// Render loads data for a view, renders it and wraps it in the right shell.
// htmx navigations within the same shell get only the fragment; a change
// of shell is upgraded to a full navigation.
func (p *Pages) Render(w http.ResponseWriter, r *http.Request, rp RenderParams) {
	pd := rp.Data
	authed := pd.State.IsAuthenticated
	want := nav.ChromeFor(pd.Path, authed)

	if WantsPartial(r) && r.Method == http.MethodGet && ClientChrome(r) != want {
		SetHXRedirect(w, r.URL.RequestURI())
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if loader, ok := p.loaders[rp.View]; ok && !rp.SkipLoader {
		if err := loader(r, pd); err != nil {
			p.renderLoaderError(w, r, pd, err)
			return
		}
	}

	content, err := p.views.RenderHTML(r.Context(), rp.View, pd)
	if err != nil {
		p.renderViewError(w, r, pd, rp.View, err)
		return
	}

	page := p.shellPage(r, pd, content)
	status := rp.Status
	if status == 0 {
		status = http.StatusOK
	}
	if WantsPartial(r) {
		if status >= http.StatusBadRequest {
			SetErrorSwap(w)
		}
		writeNode(w, status, chrome.Fragment(page))
	} else {
		writeNode(w, status, chrome.Document(page))
	}
	if p.preloader != nil {
		p.preloader.Trigger()
	}
}

func (p *Pages) shellPage(r *http.Request, pd *PageData, content template.HTML) chrome.Page {
	page := chrome.Page{
		Title:     pd.Title,
		Path:      pd.Path,
		State:     pd.State,
		CSRFToken: pd.CSRFToken,
		Content:   content,
	}
	if !nav.IsDashboardPage(pd.Path, pd.State.IsAuthenticated) {
		return page
	}
	c, err := r.Cookie(nav.SidebarCookie)
	raw, present := "", err == nil
	if present {
		raw = c.Value
	}
	page.Sidebar = nav.MountSidebar(pd.Path, nav.ParsePersistedOpen(raw, present))
	if p.unread != nil && pd.User != nil && !WantsPartial(r) {
		n, err := p.unread(r.Context(), pd.User.ID)
		if err != nil {
			p.logger.WarnContext(r.Context(), "unread count failed", slog.Any("error", err))
		}
		page.Unread = n
	}
	return page
}

func (p *Pages) renderLoaderError(w http.ResponseWriter, r *http.Request, pd *PageData, err error) {
	switch {
	case apperrors.IsNotFound(err):
		p.NotFound(w, r)
	case apperrors.IsForbidden(err):
		p.Problem(w, r, ProblemParams{Status: http.StatusForbidden, Heading: "アクセスできません", Message: "このページを表示する権限がありません。", Data: pd})
	case errors.Is(err, context.Canceled):
		return
	default:
		p.logger.ErrorContext(r.Context(), "page data failed", slog.String("path", pd.Path), slog.Any("error", err))
		p.Problem(w, r, ProblemParams{Status: http.StatusInternalServerError, Heading: "エラーが発生しました", Message: "時間をおいて再度お試しください。", Data: pd})
	}
}

// renderViewError distinguishes a view that could not be loaded, which
// gets the retry page, from one that failed while executing.
func (p *Pages) renderViewError(w http.ResponseWriter, r *http.Request, pd *PageData, view string, err error) {
	if views.IsLoadError(err) || errors.Is(err, context.DeadlineExceeded) {
		p.logger.WarnContext(r.Context(), "view load failed", slog.String("view", view), slog.Any("error", err))
		w.Header().Set("Cache-Control", "no-store")
		if WantsPartial(r) {
			SetHXRedirect(w, r.URL.RequestURI())
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeNode(w, http.StatusServiceUnavailable, chrome.Retry(p.shellPage(r, pd, "")))
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}
	p.logger.ErrorContext(r.Context(), "view render failed", slog.String("view", view), slog.Any("error", err))
	p.Problem(w, r, ProblemParams{Status: http.StatusInternalServerError, Heading: "エラーが発生しました", Message: "時間をおいて再度お試しください。", Data: pd})
}

// ProblemParams groups the inputs of Problem.
type ProblemParams struct {
	Status  int
	Heading string
	Message string
	Data    *PageData
}

// Problem renders a plain error page in the shell for the current path.
func (p *Pages) Problem(w http.ResponseWriter, r *http.Request, pp ProblemParams) {
	pd := pp.Data
	if pd == nil {
		pd = p.NewPageData(r, pp.Heading)
	}
	page := p.shellPage(r, pd, "")
	if WantsPartial(r) {
		SetErrorSwap(w)
		writeNode(w, pp.Status, chrome.ProblemFragment(page, pp.Heading, pp.Message))
		return
	}
	writeNode(w, pp.Status, chrome.Problem(page, pp.Heading, pp.Message))
}

// NotFound renders the not-found view.
func (p *Pages) NotFound(w http.ResponseWriter, r *http.Request) {
	pd := p.NewPageData(r, "ページが見つかりません")
	p.Render(w, r, RenderParams{View: nav.ViewNotFound, Status: http.StatusNotFound, Data: pd, SkipLoader: true})
}

// writeNode renders n fully before sending anything, so a render error
// still produces a clean 500.
func writeNode(w http.ResponseWriter, status int, n g.Node) {
	var buf bytes.Buffer
	if err := n.Render(&buf); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
