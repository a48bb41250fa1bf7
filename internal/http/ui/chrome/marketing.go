package chrome

import (
	"time"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/tramatch/tramatch-web/internal/domain/nav"
)

var footerLinks = []nav.MenuEntry{
	{Label: "ご利用ガイド", Path: "/guide"},
	{Label: "よくある質問", Path: "/faq"},
	{Label: "コラム", Path: "/column"},
	{Label: "運営会社", Path: "/company-info"},
	{Label: "お問い合わせ", Path: "/contact"},
	{Label: "利用規約", Path: "/terms"},
	{Label: "プライバシーポリシー", Path: "/privacy"},
}

// Marketing renders the public shell: a normally scrolling document with
// header and footer.
func Marketing(p Page) g.Node {
	return document(p, nav.ChromeMarketing,
		marketingHeader(p),
		h.Main(h.ID(ContentID), h.Class("marketing-content"), g.Raw(string(p.Content))),
		marketingFooter(),
	)
}

func marketingHeader(p Page) g.Node {
	var actions g.Node
	if p.State.IsAuthenticated {
		actions = h.Div(h.Class("header-actions"),
			h.A(h.Href(nav.HomePath), h.Class("button button-primary"), g.Text("ダッシュボードへ")),
		)
	} else {
		actions = h.Div(h.Class("header-actions"),
			h.A(h.Href(nav.LoginPath), h.Class("button"), g.Text("ログイン")),
			h.A(h.Href("/register"), h.Class("button button-primary"), g.Text("無料で登録")),
		)
	}
	return h.Header(h.Class("marketing-header"),
		logo(),
		h.Nav(h.Class("marketing-nav"),
			navLink("/guide", g.Text("ご利用ガイド")),
			navLink("/column", g.Text("コラム")),
			navLink("/faq", g.Text("よくある質問")),
		),
		actions,
	)
}

func marketingFooter() g.Node {
	links := make([]g.Node, 0, len(footerLinks))
	for _, l := range footerLinks {
		links = append(links, h.Li(navLink(l.Path, g.Text(l.Label))))
	}
	return h.Footer(h.Class("marketing-footer"),
		h.Ul(h.Class("footer-links"), g.Group(links)),
		h.P(h.Class("copyright"), g.Textf("© %d %s", time.Now().Year(), SiteName)),
	)
}
