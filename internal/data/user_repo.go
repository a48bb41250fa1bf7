package data

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/tramatch/tramatch-web/internal/core"
	"github.com/tramatch/tramatch-web/internal/data/database"
	"github.com/tramatch/tramatch-web/internal/data/pgxutil"
	"github.com/tramatch/tramatch-web/internal/domain/model"
	apperrors "github.com/tramatch/tramatch-web/internal/errors"
)

const userColumns = `id, username, email, password_hash, company_name, contact_name, phone, address,
	role, approved, created_at`

var _ core.UserRepository = (*UserRepo)(nil)

// UserRepo provides database operations for company accounts.
type UserRepo struct {
	DB *sql.DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

// Create inserts a user. Username and email uniqueness violations surface
// as conflict errors carrying the field name.
func (r *UserRepo) Create(ctx context.Context, p core.CreateUserParams) (*model.User, error) {
	role := p.Role
	if role == "" {
		role = "user"
	}
	var out *model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var err error
		out, err = pgxutil.QueryOne[model.User](ctx, conn, `
			INSERT INTO users (username, email, password_hash, company_name, contact_name, phone, address, role, approved)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING `+userColumns,
			p.Username, strings.ToLower(p.Email), p.PasswordHash, p.CompanyName,
			p.ContactName, p.Phone, p.Address, role, p.Approved)
		return err
	})
	if err != nil {
		return nil, dbErr("create user", err)
	}
	return out, nil
}

// GetByID retrieves a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	if err := checkID("user", id); err != nil {
		return nil, err
	}
	return r.getOne(ctx, "get user", `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByUsername retrieves a user by username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getOne(ctx, "get user by username", `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// GetByEmail retrieves a user by email, case-insensitively.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, "get user by email", `SELECT `+userColumns+` FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)))
}

func (r *UserRepo) getOne(ctx context.Context, op, query string, args ...any) (*model.User, error) {
	var out *model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var err error
		out, err = pgxutil.QueryOne[model.User](ctx, conn, query, args...)
		return err
	})
	if err != nil {
		return nil, dbErr(op, err)
	}
	return out, nil
}

func (r *UserRepo) listQuery(opts model.UsersListOptions) *database.Query {
	q := database.Select("users", userColumns).
		WhereContains(opts.Q, "username", "company_name", "email")
	if opts.Approved != nil {
		q.Where("approved = $1", *opts.Approved)
	}
	return q
}

// List returns users matching opts, newest first.
func (r *UserRepo) List(ctx context.Context, opts model.UsersListOptions) ([]*model.User, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	query, args := r.listQuery(opts).OrderBy("created_at DESC").Page(limit, opts.Offset).Build()
	var out []*model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var err error
		out, err = pgxutil.QueryAll[model.User](ctx, conn, query, args...)
		return err
	})
	if err != nil {
		return nil, dbErr("list users", err)
	}
	return out, nil
}

// Count returns the number of users matching opts.
func (r *UserRepo) Count(ctx context.Context, opts model.UsersListOptions) (int, error) {
	query, args := r.listQuery(opts).BuildCount()
	var n int
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, dbErr("count users", err)
	}
	return n, nil
}

// SetApproved flips the approval flag.
func (r *UserRepo) SetApproved(ctx context.Context, id string, approved bool) error {
	return r.execOne(ctx, "approve user", `UPDATE users SET approved = $2 WHERE id = $1`, id, approved)
}

// SetRole stores the role string.
func (r *UserRepo) SetRole(ctx context.Context, id, role string) error {
	return r.execOne(ctx, "set role", `UPDATE users SET role = $2 WHERE id = $1`, id, role)
}

// UpdatePasswordHash replaces the stored bcrypt hash.
func (r *UserRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	return r.execOne(ctx, "update password", `UPDATE users SET password_hash = $2 WHERE id = $1`, id, hash)
}

func (r *UserRepo) execOne(ctx context.Context, op, query string, id string, arg any) error {
	if err := checkID("user", id); err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query, id, arg)
	if err != nil {
		return dbErr(op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("user not found")
	}
	return nil
}

// UpdateProfile stores the settings form.
func (r *UserRepo) UpdateProfile(ctx context.Context, id string, p model.ProfileUpdate) (*model.User, error) {
	if err := checkID("user", id); err != nil {
		return nil, err
	}
	return r.getOne(ctx, "update profile", `
		UPDATE users SET company_name = $2, contact_name = $3, phone = $4, address = $5
		WHERE id = $1
		RETURNING `+userColumns,
		id, p.CompanyName, strings.TrimSpace(p.ContactName), strings.TrimSpace(p.Phone), strings.TrimSpace(p.Address))
}

// ApprovedIDs lists every approved user id.
func (r *UserRepo) ApprovedIDs(ctx context.Context) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id FROM users WHERE approved ORDER BY created_at`)
	if err != nil {
		return nil, dbErr("list approved users", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, dbErr("scan approved user", err)
		}
		ids = append(ids, id)
	}
	return ids, dbErr("iterate approved users", rows.Err())
}

// Partners lists the distinct counterparts recorded on the user's
// completed cargo, plus shippers who completed cargo with the user as partner.
func (r *UserRepo) Partners(ctx context.Context, userID string) ([]*model.User, error) {
	if err := checkID("user", userID); err != nil {
		return nil, err
	}
	var out []*model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var err error
		out, err = pgxutil.QueryAll[model.User](ctx, conn, `
			SELECT `+userColumns+` FROM users
			WHERE id IN (
				SELECT partner_id FROM cargo_listings
				WHERE user_id = $1 AND status = 'completed' AND partner_id IS NOT NULL
				UNION
				SELECT user_id FROM cargo_listings
				WHERE partner_id = $1 AND status = 'completed'
			)
			ORDER BY company_name`, userID)
		return err
	})
	if err != nil {
		return nil, dbErr("list partners", err)
	}
	return out, nil
}
