package chrome

import (
	"strconv"

	g "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	h "maragu.dev/gomponents/html"

	domainauth "github.com/tramatch/tramatch-web/internal/domain/auth"
	"github.com/tramatch/tramatch-web/internal/domain/nav"
)

// Dashboard renders the application shell: a fixed-height viewport with a
// persistent header and sidebar where only the content column scrolls.
// There is no footer.
func Dashboard(p Page) g.Node {
	menu := nav.BuildMenu(p.State.Role())
	return document(p, nav.ChromeDashboard,
		SidebarFlag(p.Sidebar.DesktopOpen),
		h.Div(h.Class("dashboard-layout"),
			dashboardHeader(p),
			h.Div(h.Class("dashboard-body"),
				Sidebar(menu, p.Path, p.Sidebar),
				h.Main(h.ID(ContentID), h.Class("dashboard-content"),
					pendingBanner(p.State.User),
					g.Raw(string(p.Content)),
				),
			),
		),
		MobileDrawer(menu, p.Path, p.Sidebar.MobileOpen),
	)
}

// SidebarFlag is the hidden checkbox the stylesheet reads to show or hide
// the desktop sidebar. The toggle endpoint swaps it in place.
func SidebarFlag(open bool) g.Node {
	return h.Input(
		h.Type("checkbox"),
		h.ID(SidebarFlagID),
		h.Class("sidebar-flag"),
		g.If(open, h.Checked()),
		g.Attr("hidden", ""),
		g.Attr("aria-hidden", "true"),
	)
}

func dashboardHeader(p Page) g.Node {
	var name string
	if p.State.User != nil {
		name = p.State.User.CompanyName
		if name == "" {
			name = p.State.User.Username
		}
	}
	return h.Header(h.Class("dashboard-header"),
		h.Button(
			h.Type("button"),
			h.Class("mobile-menu-button"),
			g.Attr("aria-label", "メニューを開く"),
			g.Attr("hx-get", "/ui/sidebar/mobile?open=true"),
			g.Attr("hx-target", "#"+MobileDrawerID),
			g.Attr("hx-swap", "outerHTML"),
			g.Text("☰"),
		),
		h.Button(
			h.Type("button"),
			h.Class("sidebar-toggle"),
			g.Attr("aria-label", "サイドバーの表示切替"),
			g.Attr("hx-post", "/ui/sidebar/toggle"),
			g.Attr("hx-target", "#"+SidebarFlagID),
			g.Attr("hx-swap", "outerHTML"),
			g.Text("⇔"),
		),
		logo(),
		h.Div(h.Class("header-actions"),
			navLink("/notifications",
				h.Class("notification-link"),
				g.Text("通知"),
				g.If(p.Unread > 0, h.Span(h.Class("badge"), g.Text(strconv.Itoa(p.Unread)))),
			),
			h.Span(h.Class("header-user"), g.Text(name)),
			logoutForm(p.CSRFToken),
		),
	)
}

func logoutForm(csrf string) g.Node {
	return g.El("form",
		h.Method("post"),
		h.Action("/logout"),
		h.Class("logout-form"),
		g.If(csrf != "", h.Input(h.Type("hidden"), h.Name("csrf_token"), h.Value(csrf))),
		h.Button(h.Type("submit"), g.Text("ログアウト")),
	)
}

func pendingBanner(u *domainauth.UserProfile) g.Node {
	if u == nil || u.Approved {
		return nil
	}
	return h.Div(h.Class("notice notice-pending"), g.Attr("role", "status"),
		g.Text("アカウントは現在承認待ちです。承認されるまで一部の機能はご利用いただけません。"),
	)
}

// Sidebar renders the desktop navigation for a menu and location.
func Sidebar(menu nav.Menu, path string, st nav.SidebarState) g.Node {
	return h.Aside(h.ID("sidebar"), h.Class("sidebar"),
		h.Nav(g.Attr("aria-label", "メインメニュー"),
			primaryNav(menu, path),
			agentNav(menu, path),
			g.If(menu.HasAdminSection(), AdminGroup(menu.Admin, path, st.AdminExpanded)),
		),
	)
}

func primaryNav(menu nav.Menu, path string, extra ...g.Node) g.Node {
	items := make([]g.Node, 0, len(menu.Primary))
	for _, e := range menu.Primary {
		items = append(items, entryItem(e, path, menu.Primary))
	}
	return h.Ul(h.ID(PrimaryNavID), h.Class("nav-list"), g.Group(extra), g.Group(items))
}

// agentNav is the agent link in a list of its own, set apart from the
// primary menu. Nil when the menu has no agent entry.
func agentNav(menu nav.Menu, path string, extra ...g.Node) g.Node {
	if menu.Agent == nil {
		return nil
	}
	return h.Ul(h.ID(AgentNavID), h.Class("nav-list nav-section"), g.Group(extra),
		entryItem(*menu.Agent, path, nil),
	)
}

// AdminGroup renders the collapsible back-office group. The toggle posts
// the current state and the server answers with the flipped group.
func AdminGroup(entries []nav.MenuEntry, path string, expanded bool) g.Node {
	return h.Div(h.ID(AdminGroupID),
		c.Classes{"nav-group": true, "expanded": expanded},
		h.Button(
			h.Type("button"),
			h.Class("nav-group-toggle"),
			g.Attr("aria-expanded", strconv.FormatBool(expanded)),
			g.Attr("aria-controls", AdminItemsID),
			g.Attr("hx-post", "/ui/sidebar/admin?expanded="+strconv.FormatBool(expanded)),
			g.Attr("hx-target", "#"+AdminGroupID),
			g.Attr("hx-swap", "outerHTML"),
			g.Text("管理メニュー"),
		),
		adminItems(entries, path, g.If(!expanded, g.Attr("hidden", ""))),
	)
}

func adminItems(entries []nav.MenuEntry, path string, extra ...g.Node) g.Node {
	items := make([]g.Node, 0, len(entries))
	for _, e := range entries {
		items = append(items, entryItem(e, path, entries))
	}
	return h.Ul(h.ID(AdminItemsID), h.Class("nav-list nav-sublist"), g.Group(extra), g.Group(items))
}

func entryItem(e nav.MenuEntry, path string, siblings []nav.MenuEntry) g.Node {
	active := nav.IsActive(e, path, siblings)
	return h.Li(
		navLink(e.Path,
			c.Classes{"nav-link": true, "active": active},
			g.If(active, g.Attr("aria-current", "page")),
			g.Attr("data-icon", e.Icon),
			g.Text(e.Label),
		),
	)
}

// MobileDrawer renders the overlay menu for small screens. When closed it
// is an empty placeholder the open button swaps.
func MobileDrawer(menu nav.Menu, path string, open bool, extra ...g.Node) g.Node {
	if !open {
		return h.Div(h.ID(MobileDrawerID), h.Class("mobile-drawer"), g.Group(extra))
	}
	closeAttrs := g.Group{
		g.Attr("hx-get", "/ui/sidebar/mobile?open=false"),
		g.Attr("hx-target", "#"+MobileDrawerID),
		g.Attr("hx-swap", "outerHTML"),
	}
	items := make([]g.Node, 0, len(menu.Primary))
	for _, e := range menu.Primary {
		items = append(items, entryItem(e, path, menu.Primary))
	}
	sections := make([]g.Node, 0, 2)
	if menu.Agent != nil {
		sections = append(sections, h.Ul(h.Class("nav-list nav-section"), entryItem(*menu.Agent, path, nil)))
	}
	if menu.HasAdminSection() {
		admin := make([]g.Node, 0, len(menu.Admin))
		for _, e := range menu.Admin {
			admin = append(admin, entryItem(e, path, menu.Admin))
		}
		sections = append(sections, h.Ul(h.Class("nav-list nav-section"), g.Group(admin)))
	}
	return h.Div(h.ID(MobileDrawerID), h.Class("mobile-drawer open"), g.Group(extra),
		h.Div(h.Class("mobile-backdrop"), closeAttrs),
		h.Nav(h.Class("mobile-menu"), g.Attr("aria-label", "モバイルメニュー"),
			h.Button(h.Type("button"), h.Class("mobile-close"), g.Attr("aria-label", "メニューを閉じる"), closeAttrs, g.Text("×")),
			h.Ul(h.Class("nav-list"), g.Group(items)),
			g.Group(sections),
		),
	)
}
