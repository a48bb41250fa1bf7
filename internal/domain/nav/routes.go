package nav

// View names. Each names a page template loaded on first use.
const (
	ViewLanding        = "landing"
	ViewLogin          = "login"
	ViewRegister       = "register"
	ViewForgotPassword = "forgot-password"
	ViewResetPassword  = "reset-password"
	ViewHome           = "home"

	ViewCargoNew    = "cargo-new"
	ViewCargoEdit   = "cargo-edit"
	ViewCargoDetail = "cargo-detail"
	ViewCargoList   = "cargo-list"
	ViewTruckNew    = "trucks-new"
	ViewTruckEdit   = "trucks-edit"
	ViewTruckDetail = "trucks-detail"
	ViewTruckList   = "trucks-list"

	ViewMyTrucks        = "my-trucks"
	ViewMyCargo         = "my-cargo"
	ViewCompletedCargo  = "completed-cargo"
	ViewCancelledCargo  = "cancelled-cargo"
	ViewCompanyDetail   = "company-detail"
	ViewCompanies       = "companies"
	ViewPartners        = "partners"
	ViewTransportLedger = "transport-ledger"
	ViewPayment         = "payment"
	ViewServices        = "services"
	ViewSettings        = "settings"
	ViewNotifications   = "notifications"
	ViewAgents          = "agents"

	ViewAdmin              = "admin"
	ViewAdminUsers         = "admin-users"
	ViewAdminApplications  = "admin-applications"
	ViewAdminCargo         = "admin-cargo"
	ViewAdminTrucks        = "admin-trucks"
	ViewAdminAnnouncements = "admin-announcements"
	ViewAdminNotifications = "admin-notifications"
	ViewAdminInvoices      = "admin-invoices"
	ViewAdminRevenue       = "admin-revenue"
	ViewAdminSEO           = "admin-seo"
	ViewAdminLP            = "admin-lp"
	ViewAdminMedia         = "admin-media"
	ViewAdminSettings      = "admin-settings"

	ViewGuide                   = "guide"
	ViewFAQ                     = "faq"
	ViewContact                 = "contact"
	ViewCompanyInfo             = "company-info"
	ViewTerms                   = "terms"
	ViewPrivacy                 = "privacy"
	ViewColumnKyukakyusha       = "column-kyukakyusha"
	ViewColumnTruckOrder        = "column-truck-order"
	ViewColumnCarrierSales      = "column-carrier-sales"
	ViewColumnArticle           = "column-article"
	ViewColumnIndex             = "column-index"
	ViewGuideKyukakyushaGuide   = "guide-kyukakyusha-complete"
	ViewCompareKyukakyushaSites = "compare-kyukakyusha-sites"
	ViewAlternativeTrabox       = "alternative-trabox"

	ViewNotFound = "not-found"
)

func page(pattern, view, title string) Route {
	return Route{Pattern: MustPattern(pattern), View: view, Title: title}
}

func authed(pattern, view, title string) Route {
	return Route{Pattern: MustPattern(pattern), View: view, Title: title, Guard: GuardAuthenticated}
}

func admin(pattern, view, title string) Route {
	return Route{Pattern: MustPattern(pattern), View: view, Title: title, Guard: GuardAdmin}
}

func redirect(pattern, target string) Route {
	return Route{Pattern: MustPattern(pattern), RedirectTo: target}
}

// AppRoutes is the route table of the web UI in match order. Literal paths
// precede parameterised siblings; the catch-all is last.
func AppRoutes() []Route {
	return []Route{
		page("/", ViewLanding, "TRA MATCH"),
		page("/login", ViewLogin, "ログイン"),
		page("/register", ViewRegister, "新規登録"),
		page("/forgot-password", ViewForgotPassword, "パスワード再設定"),
		page("/reset-password", ViewResetPassword, "パスワード再設定"),

		authed("/home", ViewHome, "ホーム"),
		authed("/cargo/new", ViewCargoNew, "荷物を登録"),
		authed("/cargo/edit/:id", ViewCargoEdit, "荷物を編集"),
		authed("/cargo/:id", ViewCargoDetail, "荷物詳細"),
		authed("/cargo", ViewCargoList, "荷物を探す"),
		authed("/trucks/new", ViewTruckNew, "車両を登録"),
		authed("/trucks/edit/:id", ViewTruckEdit, "車両を編集"),
		authed("/trucks/:id", ViewTruckDetail, "車両詳細"),
		authed("/trucks", ViewTruckList, "車両を探す"),
		authed("/my-trucks", ViewMyTrucks, "登録した車両"),
		authed("/my-cargo", ViewMyCargo, "登録した荷物"),
		authed("/completed-cargo", ViewCompletedCargo, "成約した荷物"),
		authed("/cancelled-cargo", ViewCancelledCargo, "キャンセルした荷物"),
		authed("/companies/:id", ViewCompanyDetail, "企業詳細"),
		authed("/companies", ViewCompanies, "企業を探す"),
		authed("/partners", ViewPartners, "取引先"),
		authed("/transport-ledger", ViewTransportLedger, "実運送体制管理簿"),
		authed("/payment", ViewPayment, "お支払い"),
		authed("/services", ViewServices, "サービス"),
		authed("/settings", ViewSettings, "設定"),
		authed("/notifications", ViewNotifications, "通知"),

		admin("/agents", ViewAgents, "エージェント管理"),
		admin("/admin", ViewAdmin, "管理ダッシュボード"),
		admin("/admin/users", ViewAdminUsers, "ユーザー管理"),
		admin("/admin/applications", ViewAdminApplications, "申請管理"),
		admin("/admin/cargo", ViewAdminCargo, "荷物管理"),
		admin("/admin/trucks", ViewAdminTrucks, "車両管理"),
		admin("/admin/announcements", ViewAdminAnnouncements, "お知らせ管理"),
		admin("/admin/notifications", ViewAdminNotifications, "通知配信"),
		admin("/admin/invoices", ViewAdminInvoices, "請求書"),
		admin("/admin/revenue", ViewAdminRevenue, "売上管理"),
		admin("/admin/seo", ViewAdminSEO, "SEO記事生成"),
		admin("/admin/lp", ViewAdminLP, "LP生成"),
		admin("/admin/media", ViewAdminMedia, "メディア文案"),
		admin("/admin/settings", ViewAdminSettings, "システム設定"),

		page("/guide", ViewGuide, "ご利用ガイド"),
		page("/faq", ViewFAQ, "よくある質問"),
		page("/contact", ViewContact, "お問い合わせ"),
		page("/company-info", ViewCompanyInfo, "運営会社"),
		page("/terms", ViewTerms, "利用規約"),
		page("/privacy", ViewPrivacy, "プライバシーポリシー"),
		page("/column/kyukakyusha", ViewColumnKyukakyusha, "求荷求車とは"),
		page("/column/truck-order", ViewColumnTruckOrder, "トラックの手配方法"),
		page("/column/carrier-sales", ViewColumnCarrierSales, "運送会社の営業方法"),
		page("/column/:slug", ViewColumnArticle, "コラム"),
		page("/column", ViewColumnIndex, "コラム"),
		page("/guide/kyukakyusha-complete", ViewGuideKyukakyushaGuide, "求荷求車 完全ガイド"),
		page("/compare/kyukakyusha-sites", ViewCompareKyukakyushaSites, "求荷求車サイト比較"),
		page("/alternative/trabox", ViewAlternativeTrabox, "トラボックスの代替サービス"),

		redirect("/columns", "/column"),
		redirect("/columns/:slug", "/column/:slug"),

		page("*", ViewNotFound, "ページが見つかりません"),
	}
}

// NewAppTable builds the validated application route table.
func NewAppTable() (*Table, error) {
	return NewTable(AppRoutes()...)
}
