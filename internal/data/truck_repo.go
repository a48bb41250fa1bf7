package data

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"

	"github.com/tramatch/tramatch-web/internal/core"
	"github.com/tramatch/tramatch-web/internal/data/database"
	"github.com/tramatch/tramatch-web/internal/data/pgxutil"
	"github.com/tramatch/tramatch-web/internal/domain/model"
	apperrors "github.com/tramatch/tramatch-web/internal/errors"
)

const (
	truckFrom    = `truck_listings t JOIN users u ON u.id = t.user_id`
	truckColumns = `t.id, t.user_id, t.title, t.current_area, t.destination_area, t.available_date,
		t.vehicle_type, t.max_weight_kg, t.price_yen, t.description, t.status, u.company_name,
		t.created_at, t.updated_at`
)

var _ core.TruckRepository = (*TruckRepo)(nil)

// TruckRepo provides database operations for truck listings.
type TruckRepo struct {
	DB    *sql.DB
	clock Clock
}

// NewTruckRepo creates a new TruckRepo.
func NewTruckRepo(db *sql.DB) *TruckRepo {
	return &TruckRepo{DB: db, clock: SystemClock{}}
}

// Create inserts a truck listing owned by userID.
func (r *TruckRepo) Create(ctx context.Context, userID string, in model.TruckInput) (*model.TruckListing, error) {
	if err := checkID("user", userID); err != nil {
		return nil, err
	}
	now := r.clock.Now().UTC()
	var id string
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO truck_listings (user_id, title, current_area, destination_area, available_date,
			vehicle_type, max_weight_kg, price_yen, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)
		RETURNING id`,
		userID, in.Title, in.CurrentArea, in.DestinationArea, in.Date(),
		in.VehicleType, in.MaxWeightKg, in.PriceYen, in.Description, now,
	).Scan(&id)
	if err != nil {
		return nil, dbErr("create truck", err)
	}
	return r.GetByID(ctx, id)
}

// Update replaces the editable fields of a truck listing.
func (r *TruckRepo) Update(ctx context.Context, id string, in model.TruckInput) (*model.TruckListing, error) {
	if err := checkID("truck", id); err != nil {
		return nil, err
	}
	res, err := r.DB.ExecContext(ctx, `
		UPDATE truck_listings SET title = $2, current_area = $3, destination_area = $4, available_date = $5,
			vehicle_type = $6, max_weight_kg = $7, price_yen = $8, description = $9, updated_at = $10
		WHERE id = $1`,
		id, in.Title, in.CurrentArea, in.DestinationArea, in.Date(),
		in.VehicleType, in.MaxWeightKg, in.PriceYen, in.Description, r.clock.Now().UTC())
	if err != nil {
		return nil, dbErr("update truck", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperrors.NotFound("truck not found")
	}
	return r.GetByID(ctx, id)
}

// GetByID retrieves a truck listing with its owner's company name.
func (r *TruckRepo) GetByID(ctx context.Context, id string) (*model.TruckListing, error) {
	if err := checkID("truck", id); err != nil {
		return nil, err
	}
	query, args := database.Select(truckFrom, truckColumns).Where("t.id = $1", id).Build()
	var out *model.TruckListing
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var err error
		out, err = pgxutil.QueryOne[model.TruckListing](ctx, conn, query, args...)
		return err
	})
	if err != nil {
		return nil, dbErr("get truck", err)
	}
	return out, nil
}

func truckQuery(f model.ListingFilter) *database.Query {
	return database.Select(truckFrom, truckColumns).
		WhereEq("t.status", f.Status).
		WhereEq("t.user_id", f.UserID).
		WhereContains(f.FromArea, "t.current_area").
		WhereContains(f.ToArea, "t.destination_area").
		WhereContains(f.Keyword, "t.title", "t.vehicle_type", "t.description", "u.company_name")
}

// List returns truck listings matching f, newest first.
func (r *TruckRepo) List(ctx context.Context, f model.ListingFilter) ([]*model.TruckListing, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query, args := truckQuery(f).OrderBy("t.created_at DESC").Page(limit, f.Offset).Build()
	var out []*model.TruckListing
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var err error
		out, err = pgxutil.QueryAll[model.TruckListing](ctx, conn, query, args...)
		return err
	})
	if err != nil {
		return nil, dbErr("list trucks", err)
	}
	return out, nil
}

// Count returns the number of truck listings matching f.
func (r *TruckRepo) Count(ctx context.Context, f model.ListingFilter) (int, error) {
	query, args := truckQuery(f).BuildCount()
	var n int
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, dbErr("count trucks", err)
	}
	return n, nil
}

// UpdateStatus stores any status value.
func (r *TruckRepo) UpdateStatus(ctx context.Context, p core.UpdateStatusParams) error {
	if err := checkID("truck", p.ID); err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE truck_listings SET status = $2, updated_at = $3 WHERE id = $1`,
		p.ID, p.Status, r.clock.Now().UTC())
	if err != nil {
		return dbErr("update truck status", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("truck not found")
	}
	return nil
}
