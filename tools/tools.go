//go:build tools
// +build tools

// Package tools documents development tool dependencies.
// These tools are installed globally via `go install` and are not tracked in go.mod
// since they are development tools, not runtime dependencies.
package tools

// Development tools (install via `go install`):
//
// Air - Live reload for Go apps (pair with APP_ENV=development so templates
// and static files are read from disk)
//   Install: go install github.com/air-verse/air@v1.63.0
//   Version: v1.63.0 (pinned 2025-01-01)
//   Docs: https://github.com/air-verse/air
//
// mockgen - regenerates internal/mocks from the core interfaces
//   Install: go install go.uber.org/mock/mockgen@v0.6.0
//
// Frontend assets:
//
// htmx is served from frontend/static/js/htmx.min.js and is not committed:
//   curl -fsSL -o frontend/static/js/htmx.min.js https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js
// Every link and form also works as plain HTML without it.
