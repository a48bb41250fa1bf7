package data

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tramatch/tramatch-web/internal/core"
	"github.com/tramatch/tramatch-web/internal/data/database"
	"github.com/tramatch/tramatch-web/internal/data/pgxutil"
	"github.com/tramatch/tramatch-web/internal/domain/model"
	apperrors "github.com/tramatch/tramatch-web/internal/errors"
)

const (
	cargoFrom    = `cargo_listings c JOIN users u ON u.id = c.user_id`
	cargoColumns = `c.id, c.user_id, c.title, c.departure_area, c.arrival_area, c.departure_date,
		c.arrival_date, c.cargo_type, c.weight_kg, c.vehicle_type, c.price_yen, c.description,
		c.status, c.partner_id, u.company_name, c.created_at, c.updated_at`
	defaultListLimit = 50
)

var _ core.CargoRepository = (*CargoRepo)(nil)

// CargoRepo provides database operations for cargo listings.
type CargoRepo struct {
	DB    *sql.DB
	clock Clock
}

// NewCargoRepo creates a new CargoRepo on the system clock.
func NewCargoRepo(db *sql.DB) *CargoRepo {
	return &CargoRepo{DB: db, clock: SystemClock{}}
}

// NewCargoRepoWithClock creates a CargoRepo with a custom clock.
func NewCargoRepoWithClock(db *sql.DB, clock Clock) *CargoRepo {
	return &CargoRepo{DB: db, clock: clock}
}

// Create inserts a cargo listing owned by userID.
func (r *CargoRepo) Create(ctx context.Context, userID string, in model.CargoInput) (*model.CargoListing, error) {
	if err := checkID("user", userID); err != nil {
		return nil, err
	}
	dep, arr := in.Dates()
	now := r.clock.Now().UTC()
	var id string
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO cargo_listings (user_id, title, departure_area, arrival_area, departure_date, arrival_date,
			cargo_type, weight_kg, vehicle_type, price_yen, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
		RETURNING id`,
		userID, in.Title, in.DepartureArea, in.ArrivalArea, dep, arr,
		in.CargoType, in.WeightKg, in.VehicleType, in.PriceYen, in.Description, now,
	).Scan(&id)
	if err != nil {
		return nil, dbErr("create cargo", err)
	}
	return r.GetByID(ctx, id)
}

// Update replaces the editable fields of a cargo listing.
func (r *CargoRepo) Update(ctx context.Context, id string, in model.CargoInput) (*model.CargoListing, error) {
	if err := checkID("cargo", id); err != nil {
		return nil, err
	}
	dep, arr := in.Dates()
	res, err := r.DB.ExecContext(ctx, `
		UPDATE cargo_listings SET title = $2, departure_area = $3, arrival_area = $4, departure_date = $5,
			arrival_date = $6, cargo_type = $7, weight_kg = $8, vehicle_type = $9, price_yen = $10,
			description = $11, updated_at = $12
		WHERE id = $1`,
		id, in.Title, in.DepartureArea, in.ArrivalArea, dep, arr,
		in.CargoType, in.WeightKg, in.VehicleType, in.PriceYen, in.Description, r.clock.Now().UTC())
	if err != nil {
		return nil, dbErr("update cargo", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperrors.NotFound("cargo not found")
	}
	return r.GetByID(ctx, id)
}

// GetByID retrieves a cargo listing with its owner's company name.
func (r *CargoRepo) GetByID(ctx context.Context, id string) (*model.CargoListing, error) {
	if err := checkID("cargo", id); err != nil {
		return nil, err
	}
	query, args := database.Select(cargoFrom, cargoColumns).Where("c.id = $1", id).Build()
	var out *model.CargoListing
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var err error
		out, err = pgxutil.QueryOne[model.CargoListing](ctx, conn, query, args...)
		return err
	})
	if err != nil {
		return nil, dbErr("get cargo", err)
	}
	return out, nil
}

func cargoQuery(f model.ListingFilter) *database.Query {
	return database.Select(cargoFrom, cargoColumns).
		WhereEq("c.status", f.Status).
		WhereEq("c.user_id", f.UserID).
		WhereContains(f.FromArea, "c.departure_area").
		WhereContains(f.ToArea, "c.arrival_area").
		WhereContains(f.Keyword, "c.title", "c.cargo_type", "c.description", "u.company_name")
}

// List returns cargo listings matching f, newest first.
func (r *CargoRepo) List(ctx context.Context, f model.ListingFilter) ([]*model.CargoListing, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query, args := cargoQuery(f).OrderBy("c.created_at DESC").Page(limit, f.Offset).Build()
	return r.list(ctx, "list cargo", query, args...)
}

func (r *CargoRepo) list(ctx context.Context, op, query string, args ...any) ([]*model.CargoListing, error) {
	var out []*model.CargoListing
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var err error
		out, err = pgxutil.QueryAll[model.CargoListing](ctx, conn, query, args...)
		return err
	})
	if err != nil {
		return nil, dbErr(op, err)
	}
	return out, nil
}

// Count returns the number of cargo listings matching f.
func (r *CargoRepo) Count(ctx context.Context, f model.ListingFilter) (int, error) {
	query, args := cargoQuery(f).BuildCount()
	var n int
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, dbErr("count cargo", err)
	}
	return n, nil
}

// UpdateStatus stores any status value. A partner is only recorded when given.
func (r *CargoRepo) UpdateStatus(ctx context.Context, p core.UpdateStatusParams) error {
	if err := checkID("cargo", p.ID); err != nil {
		return err
	}
	if p.PartnerID != nil {
		if err := checkID("partner", *p.PartnerID); err != nil {
			return err
		}
	}
	res, err := r.DB.ExecContext(ctx, `
		UPDATE cargo_listings SET status = $2, partner_id = COALESCE($3, partner_id), updated_at = $4
		WHERE id = $1`, p.ID, p.Status, p.PartnerID, r.clock.Now().UTC())
	if err != nil {
		return dbErr("update cargo status", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("cargo not found")
	}
	return nil
}

// CompletedBetween lists a user's completed cargo last updated in [from, to).
func (r *CargoRepo) CompletedBetween(ctx context.Context, userID string, from, to time.Time) ([]*model.CargoListing, error) {
	if err := checkID("user", userID); err != nil {
		return nil, err
	}
	query, args := database.Select(cargoFrom, cargoColumns).
		Where("c.user_id = $1 AND c.status = 'completed'", userID).
		Where("c.updated_at >= $1 AND c.updated_at < $2", from, to).
		OrderBy("c.updated_at").
		Build()
	return r.list(ctx, "list completed cargo", query, args...)
}
