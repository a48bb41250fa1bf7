// Package chrome renders the page shells around view content: the
// dashboard shell with header and sidebar, the marketing shell with header
// and footer, and the stand-alone loading, retry and error documents.
package chrome

import (
	"encoding/json"
	"html/template"

	g "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	h "maragu.dev/gomponents/html"

	domainauth "github.com/tramatch/tramatch-web/internal/domain/auth"
	"github.com/tramatch/tramatch-web/internal/domain/nav"
)

// Header is the request header htmx sends with the shell the browser is
// currently showing.
const Header = "X-Tramatch-Chrome"

// SiteName is shown in titles and the header logo.
const SiteName = "TRA MATCH"

// Element ids targeted by htmx swaps.
const (
	ContentID      = "content"
	SidebarFlagID  = "sidebar-open"
	PrimaryNavID   = "sidebar-primary"
	AgentNavID     = "sidebar-agent"
	AdminGroupID   = "sidebar-admin"
	AdminItemsID   = "sidebar-admin-items"
	MobileDrawerID = "mobile-drawer"
)

// HTMXConfig makes htmx swap error responses too, so 4xx and 5xx pages
// sent for a partial navigation replace the content area. 204 carries
// only headers.
const HTMXConfig = `{"responseHandling":[{"code":"204","swap":false},{"code":"[23]..","swap":true},{"code":"[45]..","swap":true,"error":true}]}`

// Page is everything a shell needs besides the view markup.
type Page struct {
	Title     string
	Path      string
	State     domainauth.SessionState
	Sidebar   nav.SidebarState
	CSRFToken string
	Unread    int
	Content   template.HTML
}

func (p Page) fullTitle() string {
	if p.Title == "" || p.Title == SiteName {
		return SiteName
	}
	return p.Title + " | " + SiteName
}

// Document renders the full HTML document in the shell the path calls for.
func Document(p Page) g.Node {
	if nav.IsDashboardPage(p.Path, p.State.IsAuthenticated) {
		return Dashboard(p)
	}
	return Marketing(p)
}

// Fragment renders the response to an htmx navigation that stays within
// the current shell: the view content, plus out-of-band updates of the
// active sidebar links and a closed mobile drawer.
func Fragment(p Page) g.Node {
	nodes := g.Group{
		h.TitleEl(g.Text(p.fullTitle())),
		g.Raw(string(p.Content)),
	}
	if !nav.IsDashboardPage(p.Path, p.State.IsAuthenticated) {
		return nodes
	}
	menu := nav.BuildMenu(p.State.Role())
	nodes = append(nodes, primaryNav(menu, p.Path, g.Attr("hx-swap-oob", "true")))
	if menu.Agent != nil {
		nodes = append(nodes, agentNav(menu, p.Path, g.Attr("hx-swap-oob", "true")))
	}
	if menu.HasAdminSection() {
		nodes = append(nodes, adminItems(menu.Admin, p.Path, g.Attr("hx-swap-oob", "true")))
	}
	nodes = append(nodes, MobileDrawer(menu, p.Path, false, g.Attr("hx-swap-oob", "true")))
	return nodes
}

func document(p Page, chrome nav.Chrome, body ...g.Node) g.Node {
	return h.Doctype(
		h.HTML(h.Lang("ja"),
			h.Head(
				h.Meta(h.Charset("utf-8")),
				h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
				g.If(p.CSRFToken != "", h.Meta(h.Name("csrf-token"), h.Content(p.CSRFToken))),
				h.Meta(h.Name("htmx-config"), h.Content(HTMXConfig)),
				h.TitleEl(g.Text(p.fullTitle())),
				h.Link(h.Rel("stylesheet"), h.Href("/static/css/app.css")),
				h.Script(h.Src("/static/js/htmx.min.js"), h.Defer()),
			),
			h.Body(
				c.Classes{"chrome-" + string(chrome): true},
				g.Attr("data-chrome", string(chrome)),
				g.Attr("hx-headers", hxHeaders(chrome, p.CSRFToken)),
				g.Group(body),
			),
		),
	)
}

// hxHeaders is sent by htmx with every request from the page.
func hxHeaders(chrome nav.Chrome, csrf string) string {
	m := map[string]string{Header: string(chrome)}
	if csrf != "" {
		m["X-Csrf-Token"] = csrf
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// navLink is a link that swaps the content area and pushes the URL.
func navLink(href string, children ...g.Node) g.Node {
	return h.A(
		h.Href(href),
		g.Attr("hx-get", href),
		g.Attr("hx-target", "#"+ContentID),
		g.Attr("hx-push-url", "true"),
		g.Group(children),
	)
}

func logo() g.Node {
	return h.A(h.Href("/"), h.Class("logo"), g.Text(SiteName))
}
