package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/tramatch/tramatch-web/internal/core"
	"github.com/tramatch/tramatch-web/internal/domain/model"
	apperrors "github.com/tramatch/tramatch-web/internal/errors"
)

const (
	// DefaultMonthlyFeeYen is the subscription fee before tax.
	DefaultMonthlyFeeYen = 11000
	defaultRevenueMonths = 12
	monthLayout          = "2006-01"

	overviewCacheKey = "admin:overview"
	revenueCacheKey  = "admin:revenue:"
)

// AdminServiceOptions groups dependencies for AdminService.
type AdminServiceOptions struct {
	Stats         core.StatsRepository
	Users         core.UserRepository
	Cargo         core.CargoRepository
	MonthlyFeeYen int
	Now           func() time.Time
	// Cache holds report query results for CacheTTL. Optional.
	Cache    core.CacheRepository
	CacheTTL time.Duration
	Logger   *slog.Logger
}

// AdminService backs the back office reports.
type AdminService struct {
	stats    core.StatsRepository
	users    core.UserRepository
	cargo    core.CargoRepository
	feeYen   int
	now      func() time.Time
	cache    core.CacheRepository
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewAdminService constructs a new AdminService.
func NewAdminService(opts AdminServiceOptions) *AdminService {
	fee := opts.MonthlyFeeYen
	if fee <= 0 {
		fee = DefaultMonthlyFeeYen
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	svc := &AdminService{
		stats:  opts.Stats,
		users:  opts.Users,
		cargo:  opts.Cargo,
		feeYen: fee,
		now:    now,
		logger: logger.With("component", "admin_service"),
	}
	if opts.Cache != nil && opts.CacheTTL > 0 {
		svc.cache, svc.cacheTTL = opts.Cache, opts.CacheTTL
	}
	return svc
}

// MonthlyFeeYen returns the configured fee.
func (s *AdminService) MonthlyFeeYen() int { return s.feeYen }

// Overview returns the dashboard counters.
func (s *AdminService) Overview(ctx context.Context) (*model.AdminStats, error) {
	var st *model.AdminStats
	if s.cached(ctx, overviewCacheKey, &st) {
		return st, nil
	}
	st, err := s.stats.Overview(ctx)
	if err != nil {
		return nil, fmt.Errorf("admin overview: %w", err)
	}
	s.store(ctx, overviewCacheKey, st)
	return st, nil
}

// InvalidateOverview drops the cached counters, for use after a change the
// dashboard should show at once, such as approving an account.
func (s *AdminService) InvalidateOverview(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, overviewCacheKey); err != nil {
		s.logger.WarnContext(ctx, "cache delete failed", "key", overviewCacheKey, "error", err)
	}
}

// Revenue returns monthly activity with the fee applied to paying users.
func (s *AdminService) Revenue(ctx context.Context, months int) ([]*model.MonthlyActivity, error) {
	if months <= 0 || months > 36 {
		months = defaultRevenueMonths
	}
	key := revenueCacheKey + strconv.Itoa(months)
	var rows []*model.MonthlyActivity
	if !s.cached(ctx, key, &rows) {
		var err error
		rows, err = s.stats.MonthlyActivity(ctx, months)
		if err != nil {
			return nil, fmt.Errorf("monthly activity: %w", err)
		}
		s.store(ctx, key, rows)
	}
	for _, r := range rows {
		r.RevenueYen = r.PayingUsers * s.feeYen
	}
	return rows, nil
}

// CurrentMonth returns the month the admin screens default to.
func (s *AdminService) CurrentMonth() string {
	return s.now().Format(monthLayout)
}

// Invoice builds the monthly invoice for one company. month is "YYYY-MM".
func (s *AdminService) Invoice(ctx context.Context, userID, month string) (*model.Invoice, error) {
	from, err := time.ParseInLocation(monthLayout, month, time.Local)
	if err != nil {
		return nil, apperrors.ValidationField("month", "month must be YYYY-MM")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	rows, err := s.cargo.CompletedBetween(ctx, userID, from, from.AddDate(0, 1, 0))
	if err != nil {
		return nil, fmt.Errorf("completed cargo: %w", err)
	}
	completed := make([]model.CargoListing, 0, len(rows))
	for _, c := range rows {
		completed = append(completed, *c)
	}
	inv := model.NewInvoice(*user, month, s.feeYen, completed, s.now().Format("2006-01-02"))
	return &inv, nil
}

// Payment summarizes the current month's fee for the signed-in user.
type Payment struct {
	Month    string
	FeeYen   int
	TaxYen   int
	TotalYen int
	Approved bool
}

// PaymentSummary returns the fee summary shown on the payment page.
func (s *AdminService) PaymentSummary(ctx context.Context, userID string) (*Payment, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	inv := model.NewInvoice(*user, s.CurrentMonth(), s.feeYen, nil, "")
	return &Payment{
		Month:    inv.Month,
		FeeYen:   inv.FeeYen,
		TaxYen:   inv.TaxYen,
		TotalYen: inv.TotalYen,
		Approved: user.Approved,
	}, nil
}

// cached decodes key into dst. Cache errors are logged and read as a miss.
func (s *AdminService) cached(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "cache get failed", "key", key, "error", err)
		return false
	}
	if raw == nil {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.logger.WarnContext(ctx, "cache entry unreadable", "key", key, "error", err)
		return false
	}
	return true
}

func (s *AdminService) store(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
		s.logger.WarnContext(ctx, "cache set failed", "key", key, "error", err)
	}
}
