package nav

import (
	"strings"

	domainauth "github.com/tramatch/tramatch-web/internal/domain/auth"
)

// MenuEntry is a single sidebar link.
type MenuEntry struct {
	Label string
	Path  string
	Icon  string
}

// Menu is the role-scoped sidebar content. Agent and Admin are only
// populated for administrators.
type Menu struct {
	Primary []MenuEntry
	Agent   *MenuEntry
	Admin   []MenuEntry
}

// HasAdminSection reports whether the collapsible admin group is shown.
func (m Menu) HasAdminSection() bool { return len(m.Admin) > 0 }

// AdminPrefix is the path prefix of the back office.
const AdminPrefix = "/admin"

var primaryMenu = []MenuEntry{
	{Label: "ホーム", Path: "/home", Icon: "home"},
	{Label: "荷物を探す", Path: "/cargo", Icon: "search"},
	{Label: "荷物を登録", Path: "/cargo/new", Icon: "plus"},
	{Label: "登録した荷物", Path: "/my-cargo", Icon: "package"},
	{Label: "成約した荷物", Path: "/completed-cargo", Icon: "check"},
	{Label: "キャンセルした荷物", Path: "/cancelled-cargo", Icon: "x"},
	{Label: "車両を探す", Path: "/trucks", Icon: "truck"},
	{Label: "車両を登録", Path: "/trucks/new", Icon: "plus"},
	{Label: "登録した車両", Path: "/my-trucks", Icon: "truck"},
	{Label: "企業を探す", Path: "/companies", Icon: "building"},
	{Label: "取引先", Path: "/partners", Icon: "users"},
	{Label: "実運送体制管理簿", Path: "/transport-ledger", Icon: "file-text"},
	{Label: "お支払い", Path: "/payment", Icon: "credit-card"},
	{Label: "サービス", Path: "/services", Icon: "grid"},
	{Label: "通知", Path: "/notifications", Icon: "bell"},
	{Label: "設定", Path: "/settings", Icon: "settings"},
}

var agentEntry = MenuEntry{Label: "エージェント管理", Path: "/agents", Icon: "briefcase"}

var adminMenu = []MenuEntry{
	{Label: "管理ダッシュボード", Path: "/admin", Icon: "layout-dashboard"},
	{Label: "ユーザー管理", Path: "/admin/users", Icon: "users"},
	{Label: "申請管理", Path: "/admin/applications", Icon: "inbox"},
	{Label: "荷物管理", Path: "/admin/cargo", Icon: "package"},
	{Label: "車両管理", Path: "/admin/trucks", Icon: "truck"},
	{Label: "お知らせ管理", Path: "/admin/announcements", Icon: "megaphone"},
	{Label: "通知配信", Path: "/admin/notifications", Icon: "bell"},
	{Label: "請求書", Path: "/admin/invoices", Icon: "file-text"},
	{Label: "売上管理", Path: "/admin/revenue", Icon: "chart-bar"},
	{Label: "SEO記事生成", Path: "/admin/seo", Icon: "pen"},
	{Label: "LP生成", Path: "/admin/lp", Icon: "layout-template"},
	{Label: "メディア文案", Path: "/admin/media", Icon: "image"},
	{Label: "システム設定", Path: "/admin/settings", Icon: "shield"},
}

// BuildMenu assembles the sidebar for a role. The returned slices are
// fresh copies and may be modified by the caller.
func BuildMenu(role domainauth.Role) Menu {
	m := Menu{Primary: append([]MenuEntry(nil), primaryMenu...)}
	switch role {
	case domainauth.RoleAdmin:
		agent := agentEntry
		m.Agent = &agent
		m.Admin = append([]MenuEntry(nil), adminMenu...)
	case domainauth.RoleUser:
	}
	return m
}

// IsUnderAdmin reports whether urlPath is the back office or below it.
func IsUnderAdmin(urlPath string) bool {
	return urlPath == AdminPrefix || strings.HasPrefix(urlPath, AdminPrefix+"/")
}

// IsActive reports whether a menu entry should be highlighted for urlPath.
// Entries match exactly or as a path prefix, except that a prefix match
// does not win over a more specific sibling entry (so "/cargo/new" does
// not also light up "/cargo").
func IsActive(entry MenuEntry, urlPath string, siblings []MenuEntry) bool {
	if entry.Path == urlPath {
		return true
	}
	if !strings.HasPrefix(urlPath, entry.Path+"/") {
		return false
	}
	for _, s := range siblings {
		if s.Path == urlPath {
			return false
		}
	}
	return entry.Path != AdminPrefix
}
