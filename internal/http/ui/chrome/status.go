package chrome

import (
	"html/template"
	"net/url"
	"strings"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/tramatch/tramatch-web/internal/domain/nav"
)

// Loading is the blank page served while the session cannot be resolved.
// It shows no view content and asks the browser to try again shortly.
func Loading(path string) g.Node {
	return h.Doctype(
		h.HTML(h.Lang("ja"),
			h.Head(
				h.Meta(h.Charset("utf-8")),
				g.El("meta", g.Attr("http-equiv", "refresh"), h.Content("1;url="+safeURL(path))),
				h.TitleEl(g.Text(SiteName)),
				h.Link(h.Rel("stylesheet"), h.Href("/static/css/app.css")),
			),
			h.Body(h.Class("chrome-blank"), g.Attr("aria-busy", "true")),
		),
	)
}

// Retry is the recoverable error shown when a view fails to load. Following
// the link loads the view again from scratch.
func Retry(p Page) g.Node {
	body := h.Section(h.Class("load-error"), g.Attr("role", "alert"),
		h.H1(g.Text("ページを読み込めませんでした")),
		h.P(g.Text("一時的な問題が発生しました。もう一度お試しください。")),
		h.A(h.Href(safeURL(p.Path)), h.Class("button button-primary"), g.Text("再読み込み")),
	)
	return Document(withBody(p, body))
}

// Problem renders a plain error page (forbidden, server error) inside the
// shell the path calls for.
func Problem(p Page, heading, message string) g.Node {
	return Document(withBody(p, problemBody(p, heading, message)))
}

// ProblemFragment is Problem for an htmx navigation: the same message as
// a content fragment.
func ProblemFragment(p Page, heading, message string) g.Node {
	return Fragment(withBody(p, problemBody(p, heading, message)))
}

func problemBody(p Page, heading, message string) g.Node {
	return h.Section(h.Class("problem"), g.Attr("role", "alert"),
		h.H1(g.Text(heading)),
		h.P(g.Text(message)),
		h.A(h.Href(homeFor(p)), h.Class("button"), g.Text("トップへ戻る")),
	)
}

func withBody(p Page, body g.Node) Page {
	var b strings.Builder
	if err := body.Render(&b); err != nil {
		return p
	}
	// #nosec G203 - built from gomponents nodes, which escape text.
	p.Content = template.HTML(b.String())
	return p
}

func homeFor(p Page) string {
	if p.State.IsAuthenticated {
		return nav.HomePath
	}
	return "/"
}

// safeURL keeps a same-origin path, dropping anything else.
func safeURL(path string) string {
	u, err := url.Parse(path)
	if err != nil || u.IsAbs() || u.Host != "" || len(u.Path) == 0 || u.Path[0] != '/' {
		return "/"
	}
	return u.String()
}
