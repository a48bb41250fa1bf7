package httpx

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	domainauth "github.com/tramatch/tramatch-web/internal/domain/auth"
	"github.com/tramatch/tramatch-web/internal/domain/model"
	"github.com/tramatch/tramatch-web/internal/domain/nav"
	apperrors "github.com/tramatch/tramatch-web/internal/errors"
	"github.com/tramatch/tramatch-web/internal/service"
)

const (
	homeRecentLimit  = 5
	pickerLimit      = 100
	companyListLimit = 10
)

// SettingRow is one line of the read-only system settings view.
type SettingRow struct {
	Name  string
	Value string
}

// Page data for the individual views.
type (
	LandingData struct {
		Announcements []*model.Announcement
	}

	HomeData struct {
		Announcements []*model.Announcement
		RecentCargo   []*model.CargoListing
		RecentTrucks  []*model.TruckListing
		MyActiveCargo int
		MyTrucks      int
	}

	CargoListData struct {
		Items      []*model.CargoListing
		Filter     model.ListingFilter
		Pagination Pagination
	}

	TruckListData struct {
		Items      []*model.TruckListing
		Filter     model.ListingFilter
		Pagination Pagination
	}

	CargoDetailData struct {
		Cargo   *model.CargoListing
		CanEdit bool
		// Companies is the partner picker, filled only for the owner of an
		// active listing.
		Companies []*model.User
	}

	TruckDetailData struct {
		Truck   *model.TruckListing
		CanEdit bool
	}

	CompaniesData struct {
		Companies  []*model.User
		Query      string
		Pagination Pagination
	}

	CompanyDetailData struct {
		Company *model.User
		Cargo   []*model.CargoListing
		Trucks  []*model.TruckListing
	}

	PartnersData struct {
		Partners []*model.User
	}

	NotificationsData struct {
		Notifications []*model.Notification
		Unread        int
	}

	ServicesData struct {
		MonthlyFeeYen int
	}

	SettingsData struct {
		Profile *model.User
	}

	UsersData struct {
		Users      []*model.User
		Query      string
		Approved   string
		Pagination Pagination
	}

	AdminOverviewData struct {
		Stats        *model.AdminStats
		Applications []*model.User
	}

	AnnouncementsData struct {
		Announcements []*model.Announcement
	}

	InvoicesData struct {
		Companies []*model.User
		UserID    string
		Month     string
		Invoice   *model.Invoice
	}

	RevenueData struct {
		Months        int
		Rows          []*model.MonthlyActivity
		MonthlyFeeYen int
		TotalYen      int
	}

	ContentData struct {
		Kind    service.ContentKind
		Enabled bool
		Result  string
	}

	SettingsRowsData struct {
		Rows []SettingRow
	}
)

// pageLoaders fetches the data each view needs.
type pageLoaders struct {
	svc RouterServices
}

// Loaders returns the loader for every view that needs data. Views
// without an entry render with PageData alone.
func (l *pageLoaders) Loaders() map[string]Loader {
	m := map[string]Loader{
		nav.ViewLanding:            l.landing,
		nav.ViewHome:               l.home,
		nav.ViewCargoList:          l.cargoList(""),
		nav.ViewMyCargo:            l.cargoList(scopeMine),
		nav.ViewCompletedCargo:     l.cargoStatusList(model.StatusCompleted),
		nav.ViewCancelledCargo:     l.cargoStatusList(model.StatusCancelled),
		nav.ViewTransportLedger:    l.cargoStatusList(model.StatusCompleted),
		nav.ViewCargoDetail:        l.cargoDetail,
		nav.ViewCargoEdit:          l.cargoEdit,
		nav.ViewTruckList:          l.truckList(""),
		nav.ViewMyTrucks:           l.truckList(scopeMine),
		nav.ViewTruckDetail:        l.truckDetail,
		nav.ViewTruckEdit:          l.truckEdit,
		nav.ViewCompanies:          l.companies,
		nav.ViewCompanyDetail:      l.companyDetail,
		nav.ViewPartners:           l.partners,
		nav.ViewPayment:            l.payment,
		nav.ViewServices:           l.services,
		nav.ViewSettings:           l.settings,
		nav.ViewNotifications:      l.notifications,
		nav.ViewAgents:             l.agents,
		nav.ViewAdmin:              l.adminOverview,
		nav.ViewAdminUsers:         l.adminUsers,
		nav.ViewAdminApplications:  l.adminApplications,
		nav.ViewAdminCargo:         l.cargoList(scopeAll),
		nav.ViewAdminTrucks:        l.truckList(scopeAll),
		nav.ViewAdminAnnouncements: l.adminAnnouncements,
		nav.ViewAdminInvoices:      l.adminInvoices,
		nav.ViewAdminRevenue:       l.adminRevenue,
		nav.ViewAdminSEO:           l.content(service.ContentSEO),
		nav.ViewAdminLP:            l.content(service.ContentLP),
		nav.ViewAdminMedia:         l.content(service.ContentMedia),
		nav.ViewAdminSettings:      l.adminSettings,
	}
	return m
}

const (
	scopeMine = "mine"
	scopeAll  = "all"
)

func actorOf(pd *PageData) service.Actor {
	if pd.User == nil {
		return service.Actor{}
	}
	return service.Actor{UserID: pd.User.ID, IsAdmin: pd.State.IsAdmin}
}

func (l *pageLoaders) landing(r *http.Request, pd *PageData) error {
	anns, err := l.svc.Announcements.Published(r.Context())
	if err != nil {
		return err
	}
	pd.Data = &LandingData{Announcements: anns}
	return nil
}

func (l *pageLoaders) home(r *http.Request, pd *PageData) error {
	data := &HomeData{}
	userID := actorOf(pd).UserID
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		anns, err := l.svc.Announcements.Published(ctx)
		data.Announcements = anns
		return err
	})
	g.Go(func() error {
		page, err := l.svc.Listings.ListCargo(ctx, model.ListingFilter{Status: model.StatusActive, Limit: homeRecentLimit})
		if err == nil {
			data.RecentCargo = page.Items
		}
		return err
	})
	g.Go(func() error {
		page, err := l.svc.Listings.ListTrucks(ctx, model.ListingFilter{Status: model.StatusActive, Limit: homeRecentLimit})
		if err == nil {
			data.RecentTrucks = page.Items
		}
		return err
	})
	g.Go(func() error {
		page, err := l.svc.Listings.ListCargo(ctx, model.ListingFilter{UserID: userID, Status: model.StatusActive, Limit: 1})
		if err == nil {
			data.MyActiveCargo = page.Total
		}
		return err
	})
	g.Go(func() error {
		page, err := l.svc.Listings.ListTrucks(ctx, model.ListingFilter{UserID: userID, Limit: 1})
		if err == nil {
			data.MyTrucks = page.Total
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	pd.Data = data
	return nil
}

func listingFilter(r *http.Request, pd *PageData, scope string, p pageRequest) model.ListingFilter {
	q := r.URL.Query()
	limit, offset := p.LimitAndOffset()
	f := model.ListingFilter{
		Keyword:  strings.TrimSpace(q.Get("q")),
		FromArea: strings.TrimSpace(q.Get("from")),
		ToArea:   strings.TrimSpace(q.Get("to")),
		Status:   strings.TrimSpace(q.Get("status")),
		Limit:    limit,
		Offset:   offset,
	}
	switch scope {
	case scopeMine:
		f.UserID = actorOf(pd).UserID
	case scopeAll:
	default:
		// Public boards show open listings unless a status was asked for.
		if f.Status == "" {
			f.Status = model.StatusActive
		}
	}
	return f
}

func (l *pageLoaders) cargoList(scope string) Loader {
	return func(r *http.Request, pd *PageData) error {
		p := parsePageRequest(r.URL.Query())
		f := listingFilter(r, pd, scope, p)
		page, err := l.svc.Listings.ListCargo(r.Context(), f)
		if err != nil {
			return err
		}
		pd.Data = &CargoListData{
			Items:      page.Items,
			Filter:     f,
			Pagination: paginate(r.URL.Path, r.URL.Query(), p, len(page.Items), page.Total),
		}
		return nil
	}
}

// cargoStatusList lists the signed-in user's cargo in one status.
func (l *pageLoaders) cargoStatusList(status string) Loader {
	return func(r *http.Request, pd *PageData) error {
		p := parsePageRequest(r.URL.Query())
		limit, offset := p.LimitAndOffset()
		f := model.ListingFilter{UserID: actorOf(pd).UserID, Status: status, Limit: limit, Offset: offset}
		page, err := l.svc.Listings.ListCargo(r.Context(), f)
		if err != nil {
			return err
		}
		pd.Data = &CargoListData{
			Items:      page.Items,
			Filter:     f,
			Pagination: paginate(r.URL.Path, r.URL.Query(), p, len(page.Items), page.Total),
		}
		return nil
	}
}

func (l *pageLoaders) truckList(scope string) Loader {
	return func(r *http.Request, pd *PageData) error {
		p := parsePageRequest(r.URL.Query())
		f := listingFilter(r, pd, scope, p)
		page, err := l.svc.Listings.ListTrucks(r.Context(), f)
		if err != nil {
			return err
		}
		pd.Data = &TruckListData{
			Items:      page.Items,
			Filter:     f,
			Pagination: paginate(r.URL.Path, r.URL.Query(), p, len(page.Items), page.Total),
		}
		return nil
	}
}

func (l *pageLoaders) cargoDetail(r *http.Request, pd *PageData) error {
	c, err := l.svc.Listings.GetCargo(r.Context(), pd.Params["id"])
	if err != nil {
		return err
	}
	data := &CargoDetailData{Cargo: c, CanEdit: actorOf(pd).CanEdit(c.UserID)}
	if data.CanEdit && c.Status == model.StatusActive {
		approved := true
		res, err := l.svc.Users.List(r.Context(), model.UsersListOptions{Approved: &approved, Limit: pickerLimit})
		if err != nil {
			return err
		}
		for _, u := range res.Users {
			if u.ID != c.UserID {
				data.Companies = append(data.Companies, u)
			}
		}
	}
	pd.Data = data
	return nil
}

// cargoEdit also pre-fills the form from the stored listing when the
// request is not a re-render after a failed post.
func (l *pageLoaders) cargoEdit(r *http.Request, pd *PageData) error {
	c, err := l.svc.Listings.GetCargo(r.Context(), pd.Params["id"])
	if err != nil {
		return err
	}
	if !actorOf(pd).CanEdit(c.UserID) {
		return apperrors.Forbidden("not the owner of this listing")
	}
	if pd.Form == nil {
		pd.Form = cargoFormValues(c)
	}
	pd.Data = &CargoDetailData{Cargo: c, CanEdit: true}
	return nil
}

func (l *pageLoaders) truckDetail(r *http.Request, pd *PageData) error {
	t, err := l.svc.Listings.GetTruck(r.Context(), pd.Params["id"])
	if err != nil {
		return err
	}
	pd.Data = &TruckDetailData{Truck: t, CanEdit: actorOf(pd).CanEdit(t.UserID)}
	return nil
}

func (l *pageLoaders) truckEdit(r *http.Request, pd *PageData) error {
	t, err := l.svc.Listings.GetTruck(r.Context(), pd.Params["id"])
	if err != nil {
		return err
	}
	if !actorOf(pd).CanEdit(t.UserID) {
		return apperrors.Forbidden("not the owner of this listing")
	}
	if pd.Form == nil {
		pd.Form = truckFormValues(t)
	}
	pd.Data = &TruckDetailData{Truck: t, CanEdit: true}
	return nil
}

func (l *pageLoaders) companies(r *http.Request, pd *PageData) error {
	q := r.URL.Query()
	p := parsePageRequest(q)
	limit, offset := p.LimitAndOffset()
	approved := true
	query := strings.TrimSpace(q.Get("q"))
	res, err := l.svc.Users.List(r.Context(), model.UsersListOptions{
		Q: query, Approved: &approved, Limit: limit, Offset: offset,
	})
	if err != nil {
		return err
	}
	pd.Data = &CompaniesData{
		Companies:  res.Users,
		Query:      query,
		Pagination: paginate(r.URL.Path, q, p, len(res.Users), res.Total),
	}
	return nil
}

func (l *pageLoaders) companyDetail(r *http.Request, pd *PageData) error {
	u, err := l.svc.Users.Get(r.Context(), pd.Params["id"])
	if err != nil {
		return err
	}
	if !u.Approved && !pd.State.IsAdmin {
		return apperrors.NotFound("company")
	}
	data := &CompanyDetailData{Company: u}
	g, ctx := errgroup.WithContext(r.Context())
	f := model.ListingFilter{UserID: u.ID, Status: model.StatusActive, Limit: companyListLimit}
	g.Go(func() error {
		page, err := l.svc.Listings.ListCargo(ctx, f)
		if err == nil {
			data.Cargo = page.Items
		}
		return err
	})
	g.Go(func() error {
		page, err := l.svc.Listings.ListTrucks(ctx, f)
		if err == nil {
			data.Trucks = page.Items
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	pd.Data = data
	return nil
}

func (l *pageLoaders) partners(r *http.Request, pd *PageData) error {
	partners, err := l.svc.Users.Partners(r.Context(), actorOf(pd).UserID)
	if err != nil {
		return err
	}
	pd.Data = &PartnersData{Partners: partners}
	return nil
}

func (l *pageLoaders) payment(r *http.Request, pd *PageData) error {
	p, err := l.svc.Admin.PaymentSummary(r.Context(), actorOf(pd).UserID)
	if err != nil {
		return err
	}
	pd.Data = p
	return nil
}

func (l *pageLoaders) services(_ *http.Request, pd *PageData) error {
	pd.Data = &ServicesData{MonthlyFeeYen: l.svc.Admin.MonthlyFeeYen()}
	return nil
}

func (l *pageLoaders) settings(r *http.Request, pd *PageData) error {
	u, err := l.svc.Users.Get(r.Context(), actorOf(pd).UserID)
	if err != nil {
		return err
	}
	if pd.Form == nil {
		pd.Form = profileFormValues(u)
	}
	pd.Data = &SettingsData{Profile: u}
	return nil
}

func (l *pageLoaders) notifications(r *http.Request, pd *PageData) error {
	list, err := l.svc.Notifications.List(r.Context(), actorOf(pd).UserID)
	if err != nil {
		return err
	}
	unread := 0
	for _, n := range list {
		if !n.IsRead {
			unread++
		}
	}
	pd.Data = &NotificationsData{Notifications: list, Unread: unread}
	return nil
}

// agents lists the accounts with the admin role.
func (l *pageLoaders) agents(r *http.Request, pd *PageData) error {
	res, err := l.svc.Users.List(r.Context(), model.UsersListOptions{Limit: maxPageSize})
	if err != nil {
		return err
	}
	var agents []*model.User
	for _, u := range res.Users {
		if domainauth.ParseRole(u.Role).IsAdmin() {
			agents = append(agents, u)
		}
	}
	pd.Data = &UsersData{Users: agents}
	return nil
}

func (l *pageLoaders) adminOverview(r *http.Request, pd *PageData) error {
	data := &AdminOverviewData{}
	notApproved := false
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		st, err := l.svc.Admin.Overview(ctx)
		data.Stats = st
		return err
	})
	g.Go(func() error {
		res, err := l.svc.Users.List(ctx, model.UsersListOptions{Approved: &notApproved, Limit: homeRecentLimit})
		if err == nil {
			data.Applications = res.Users
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	pd.Data = data
	return nil
}

func (l *pageLoaders) adminUsers(r *http.Request, pd *PageData) error {
	opts, approved := usersListOptions(r.URL.Query())
	return l.userList(r, pd, opts, approved)
}

func (l *pageLoaders) adminApplications(r *http.Request, pd *PageData) error {
	opts, _ := usersListOptions(r.URL.Query())
	pending := false
	opts.Approved = &pending
	return l.userList(r, pd, opts, "false")
}

func usersListOptions(q url.Values) (model.UsersListOptions, string) {
	opts := model.UsersListOptions{Q: strings.TrimSpace(q.Get("q"))}
	approved := q.Get("approved")
	if b, err := strconv.ParseBool(approved); err == nil {
		opts.Approved = &b
	} else {
		approved = ""
	}
	return opts, approved
}

func (l *pageLoaders) userList(r *http.Request, pd *PageData, opts model.UsersListOptions, approved string) error {
	p := parsePageRequest(r.URL.Query())
	opts.Limit, opts.Offset = p.LimitAndOffset()
	res, err := l.svc.Users.List(r.Context(), opts)
	if err != nil {
		return err
	}
	pd.Data = &UsersData{
		Users:      res.Users,
		Query:      opts.Q,
		Approved:   approved,
		Pagination: paginate(r.URL.Path, r.URL.Query(), p, len(res.Users), res.Total),
	}
	return nil
}

func (l *pageLoaders) adminAnnouncements(r *http.Request, pd *PageData) error {
	anns, err := l.svc.Announcements.All(r.Context())
	if err != nil {
		return err
	}
	pd.Data = &AnnouncementsData{Announcements: anns}
	return nil
}

// adminInvoices shows the company picker and, once a company is chosen,
// the invoice for ?user=&month=.
func (l *pageLoaders) adminInvoices(r *http.Request, pd *PageData) error {
	q := r.URL.Query()
	data := &InvoicesData{UserID: q.Get("user"), Month: q.Get("month")}
	if data.Month == "" {
		data.Month = l.svc.Admin.CurrentMonth()
	}
	approved := true
	res, err := l.svc.Users.List(r.Context(), model.UsersListOptions{Approved: &approved, Limit: pickerLimit})
	if err != nil {
		return err
	}
	data.Companies = res.Users
	if data.UserID != "" {
		inv, err := l.svc.Admin.Invoice(r.Context(), data.UserID, data.Month)
		switch {
		case apperrors.IsValidation(err):
			pd.Errors = model.FieldErrors{"month": "月はYYYY-MM形式で指定してください"}
		case err != nil:
			return err
		default:
			data.Invoice = inv
		}
	}
	pd.Data = data
	return nil
}

func (l *pageLoaders) adminRevenue(r *http.Request, pd *PageData) error {
	months, _ := strconv.Atoi(r.URL.Query().Get("months"))
	rows, err := l.svc.Admin.Revenue(r.Context(), months)
	if err != nil {
		return err
	}
	data := &RevenueData{Months: len(rows), Rows: rows, MonthlyFeeYen: l.svc.Admin.MonthlyFeeYen()}
	for _, row := range rows {
		data.TotalYen += row.RevenueYen
	}
	pd.Data = data
	return nil
}

func (l *pageLoaders) content(kind service.ContentKind) Loader {
	return func(_ *http.Request, pd *PageData) error {
		if data, ok := pd.Data.(*ContentData); ok {
			data.Enabled = l.contentEnabled()
			return nil
		}
		pd.Data = &ContentData{Kind: kind, Enabled: l.contentEnabled()}
		return nil
	}
}

func (l *pageLoaders) contentEnabled() bool {
	return l.svc.Content != nil && l.svc.Content.Enabled()
}

func (l *pageLoaders) adminSettings(_ *http.Request, pd *PageData) error {
	pd.Data = &SettingsRowsData{Rows: l.svc.Settings}
	return nil
}

// unreadCount feeds the header badge.
func (l *pageLoaders) unreadCount(ctx context.Context, userID string) (int, error) {
	if l.svc.Notifications == nil {
		return 0, nil
	}
	return l.svc.Notifications.Unread(ctx, userID)
}
