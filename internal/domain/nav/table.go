package nav

import (
	"errors"
	"fmt"
)

// Route is one entry of the ordered route table. A route either renders a
// View or, when RedirectTo is set, forwards to another pattern.
type Route struct {
	Pattern    Pattern
	View       string
	Title      string
	Guard      GuardKind
	RedirectTo string
}

// IsRedirect reports whether the route forwards instead of rendering.
func (r Route) IsRedirect() bool { return r.RedirectTo != "" }

// RedirectLocation expands the redirect target with the matched params.
func (r Route) RedirectLocation(params Params) (string, error) {
	target, err := ParsePattern(r.RedirectTo)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRedirect, err)
	}
	return target.Expand(params)
}

// Match is the result of resolving a path against the table.
type Match struct {
	Route  Route
	Params Params
}

// Table is an ordered, first-match-wins list of routes. More specific
// patterns must come before the general ones they overlap with; Validate
// rejects tables where that does not hold.
type Table struct {
	routes []Route
}

// NewTable builds and validates a table.
func NewTable(routes ...Route) (*Table, error) {
	t := &Table{routes: append([]Route(nil), routes...)}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Routes returns a copy of the entries in table order.
func (t *Table) Routes() []Route {
	return append([]Route(nil), t.routes...)
}

// Match returns the first route whose pattern matches urlPath.
func (t *Table) Match(urlPath string) (Match, bool) {
	for _, r := range t.routes {
		if params, ok := r.Pattern.Match(urlPath); ok {
			return Match{Route: r, Params: params}, true
		}
	}
	return Match{}, false
}

// Views lists the distinct view names referenced by the table, in order.
func (t *Table) Views() []string {
	seen := make(map[string]bool, len(t.routes))
	out := make([]string, 0, len(t.routes))
	for _, r := range t.routes {
		if r.View == "" || seen[r.View] {
			continue
		}
		seen[r.View] = true
		out = append(out, r.View)
	}
	return out
}

// Validate checks the ordering and redirect invariants of the table:
// no entry may be unreachable because an earlier entry covers it, and
// every redirect must be expandable from the params its source captures.
func (t *Table) Validate() error {
	var errs []error
	for j, later := range t.routes {
		if later.View == "" && !later.IsRedirect() {
			errs = append(errs, fmt.Errorf("route %q has neither view nor redirect", later.Pattern))
		}
		if later.IsRedirect() {
			if err := validateRedirect(later); err != nil {
				errs = append(errs, err)
			}
		}
		for i := 0; i < j; i++ {
			if t.routes[i].Pattern.Covers(later.Pattern) {
				errs = append(errs, fmt.Errorf("%w: %q (#%d) hides %q (#%d)",
					ErrShadowed, t.routes[i].Pattern, i, later.Pattern, j))
				break
			}
		}
	}
	return errors.Join(errs...)
}

func validateRedirect(r Route) error {
	target, err := ParsePattern(r.RedirectTo)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidRedirect, r.Pattern, err)
	}
	have := map[string]bool{}
	for _, n := range r.Pattern.ParamNames() {
		have[n] = true
	}
	for _, n := range target.ParamNames() {
		if !have[n] {
			return fmt.Errorf("%w: %q -> %q needs :%s", ErrInvalidRedirect, r.Pattern, r.RedirectTo, n)
		}
	}
	if target.IsCatchAll() {
		return fmt.Errorf("%w: %q targets catch-all", ErrInvalidRedirect, r.Pattern)
	}
	return nil
}
