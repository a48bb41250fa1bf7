// Package tramatch embeds the page templates and static files so the
// server binary runs without a checkout. With DEV=true both are read from
// disk instead and edits show up on reload.
package tramatch

import "embed"

// StaticFS holds frontend/static: the stylesheet and, once downloaded,
// htmx.
//
//go:embed all:frontend/static
var StaticFS embed.FS

// TemplateFS holds the layout, page and partial templates the view
// registry loads by name.
//
//go:embed all:frontend/templates
var TemplateFS embed.FS
