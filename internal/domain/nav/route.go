// Package nav holds the routing, access-scoping and chrome selection rules
// for the web UI. Everything here is a pure function of its inputs.
package nav

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

var (
	// ErrShadowed is returned when an earlier route matches every path a later route matches.
	ErrShadowed = errors.New("route shadowed by earlier entry")
	// ErrInvalidPattern is returned for malformed patterns.
	ErrInvalidPattern = errors.New("invalid route pattern")
	// ErrInvalidRedirect is returned when a redirect target cannot be built from the source params.
	ErrInvalidRedirect = errors.New("invalid redirect target")
)

// Params holds named path parameters extracted by a match.
type Params map[string]string

// Get returns the named parameter or "".
func (p Params) Get(name string) string { return p[name] }

type segment struct {
	literal string
	param   string
}

// Pattern is a parsed route pattern. Supported forms are literal segments,
// ":name" single-segment parameters and a lone trailing "*" catch-all.
type Pattern struct {
	raw      string
	segs     []segment
	catchAll bool
}

// ParsePattern parses a route pattern such as "/cargo/edit/:id" or "*".
func ParsePattern(raw string) (Pattern, error) {
	p := Pattern{raw: raw}
	if raw == "*" {
		p.catchAll = true
		return p, nil
	}
	if !strings.HasPrefix(raw, "/") {
		return Pattern{}, fmt.Errorf("%w: %q must start with /", ErrInvalidPattern, raw)
	}
	seen := map[string]bool{}
	for _, part := range splitPath(raw) {
		switch {
		case part == "*":
			return Pattern{}, fmt.Errorf("%w: %q catch-all must be the whole pattern", ErrInvalidPattern, raw)
		case strings.HasPrefix(part, ":"):
			name := part[1:]
			if name == "" || seen[name] {
				return Pattern{}, fmt.Errorf("%w: %q bad parameter %q", ErrInvalidPattern, raw, part)
			}
			seen[name] = true
			p.segs = append(p.segs, segment{param: name})
		default:
			p.segs = append(p.segs, segment{literal: part})
		}
	}
	return p, nil
}

// MustPattern is ParsePattern for static tables; it panics on error.
func MustPattern(raw string) Pattern {
	p, err := ParsePattern(raw)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Pattern) String() string { return p.raw }

// IsCatchAll reports whether p matches every path.
func (p Pattern) IsCatchAll() bool { return p.catchAll }

// ParamNames lists the parameter names in order of appearance.
func (p Pattern) ParamNames() []string {
	var names []string
	for _, s := range p.segs {
		if s.param != "" {
			names = append(names, s.param)
		}
	}
	return names
}

// Match reports whether urlPath matches p and returns the extracted parameters.
func (p Pattern) Match(urlPath string) (Params, bool) {
	if p.catchAll {
		return Params{}, true
	}
	parts := splitPath(urlPath)
	if len(parts) != len(p.segs) {
		return nil, false
	}
	params := Params{}
	for i, s := range p.segs {
		if s.param != "" {
			if parts[i] == "" {
				return nil, false
			}
			params[s.param] = parts[i]
			continue
		}
		if parts[i] != s.literal {
			return nil, false
		}
	}
	return params, true
}

// Covers reports whether every path matched by q is also matched by p.
func (p Pattern) Covers(q Pattern) bool {
	if p.catchAll {
		return true
	}
	if q.catchAll || len(p.segs) != len(q.segs) {
		return false
	}
	for i, s := range p.segs {
		if s.param != "" {
			continue
		}
		if q.segs[i].param != "" || q.segs[i].literal != s.literal {
			return false
		}
	}
	return true
}

// Expand substitutes params into p, producing a concrete path.
func (p Pattern) Expand(params Params) (string, error) {
	if p.catchAll {
		return "", fmt.Errorf("%w: cannot expand catch-all", ErrInvalidRedirect)
	}
	if len(p.segs) == 0 {
		return "/", nil
	}
	var b strings.Builder
	for _, s := range p.segs {
		b.WriteByte('/')
		if s.param == "" {
			b.WriteString(s.literal)
			continue
		}
		v, ok := params[s.param]
		if !ok || v == "" {
			return "", fmt.Errorf("%w: missing parameter %q for %s", ErrInvalidRedirect, s.param, p.raw)
		}
		b.WriteString(v)
	}
	return b.String(), nil
}

// splitPath cleans a URL path and returns its segments. "/" yields none.
func splitPath(p string) []string {
	if p == "" {
		p = "/"
	}
	cleaned := path.Clean("/" + p)
	if cleaned == "/" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(cleaned, "/"), "/")
}
