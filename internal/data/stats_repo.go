package data

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"

	"github.com/tramatch/tramatch-web/internal/core"
	"github.com/tramatch/tramatch-web/internal/data/pgxutil"
	"github.com/tramatch/tramatch-web/internal/domain/model"
)

var _ core.StatsRepository = (*StatsRepo)(nil)

// StatsRepo runs the back office reporting queries.
type StatsRepo struct {
	DB *sql.DB
}

// NewStatsRepo creates a new StatsRepo.
func NewStatsRepo(db *sql.DB) *StatsRepo {
	return &StatsRepo{DB: db}
}

// Overview returns the dashboard counters.
func (r *StatsRepo) Overview(ctx context.Context) (*model.AdminStats, error) {
	var out *model.AdminStats
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var err error
		out, err = pgxutil.QueryOne[model.AdminStats](ctx, conn, `
			SELECT
				(SELECT COUNT(*) FROM users)                                          AS users,
				(SELECT COUNT(*) FROM users WHERE NOT approved)                       AS pending_users,
				(SELECT COUNT(*) FROM cargo_listings WHERE status = 'active')         AS active_cargo,
				(SELECT COUNT(*) FROM truck_listings WHERE status = 'active')         AS active_trucks,
				(SELECT COUNT(*) FROM cargo_listings WHERE status = 'completed')      AS completed_cargo`)
		return err
	})
	if err != nil {
		return nil, dbErr("admin overview", err)
	}
	return out, nil
}

// MonthlyActivity returns per-month sign-ups, completed cargo and the
// number of approved users at month end, oldest month first.
func (r *StatsRepo) MonthlyActivity(ctx context.Context, months int) ([]*model.MonthlyActivity, error) {
	if months <= 0 {
		months = 12
	}
	var out []*model.MonthlyActivity
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var err error
		out, err = pgxutil.QueryAll[model.MonthlyActivity](ctx, conn, `
			WITH m AS (
				SELECT generate_series(
					date_trunc('month', now()) - make_interval(months => $1 - 1),
					date_trunc('month', now()),
					interval '1 month'
				) AS month_start
			)
			SELECT
				to_char(m.month_start, 'YYYY-MM') AS month,
				(SELECT COUNT(*) FROM users u
					WHERE u.created_at >= m.month_start AND u.created_at < m.month_start + interval '1 month')::int AS new_users,
				(SELECT COUNT(*) FROM cargo_listings c
					WHERE c.status = 'completed'
					AND c.updated_at >= m.month_start AND c.updated_at < m.month_start + interval '1 month')::int AS completed_cargo,
				(SELECT COUNT(*) FROM users u
					WHERE u.approved AND u.created_at < m.month_start + interval '1 month')::int AS paying_users
			FROM m
			ORDER BY m.month_start`, months)
		return err
	})
	if err != nil {
		return nil, dbErr("monthly activity", err)
	}
	return out, nil
}
