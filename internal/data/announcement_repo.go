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

const announcementColumns = `id, title, content, is_published, created_at`

var _ core.AnnouncementRepository = (*AnnouncementRepo)(nil)

// AnnouncementRepo provides database operations for announcements.
type AnnouncementRepo struct {
	DB *sql.DB
}

// NewAnnouncementRepo creates a new AnnouncementRepo.
func NewAnnouncementRepo(db *sql.DB) *AnnouncementRepo {
	return &AnnouncementRepo{DB: db}
}

// Create inserts an announcement.
func (r *AnnouncementRepo) Create(ctx context.Context, in model.AnnouncementInput) (*model.Announcement, error) {
	var out *model.Announcement
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var err error
		out, err = pgxutil.QueryOne[model.Announcement](ctx, conn, `
			INSERT INTO announcements (title, content, is_published)
			VALUES ($1, $2, $3)
			RETURNING `+announcementColumns,
			strings.TrimSpace(in.Title), strings.TrimSpace(in.Content), in.IsPublished)
		return err
	})
	if err != nil {
		return nil, dbErr("create announcement", err)
	}
	return out, nil
}

// List returns announcements, newest first.
func (r *AnnouncementRepo) List(ctx context.Context, publishedOnly bool, limit int) ([]*model.Announcement, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	q := database.Select("announcements", announcementColumns)
	if publishedOnly {
		q.Where("is_published")
	}
	query, args := q.OrderBy("created_at DESC").Page(limit, 0).Build()
	var out []*model.Announcement
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var err error
		out, err = pgxutil.QueryAll[model.Announcement](ctx, conn, query, args...)
		return err
	})
	if err != nil {
		return nil, dbErr("list announcements", err)
	}
	return out, nil
}

// SetPublished toggles visibility.
func (r *AnnouncementRepo) SetPublished(ctx context.Context, id string, published bool) error {
	if err := checkID("announcement", id); err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, `UPDATE announcements SET is_published = $2 WHERE id = $1`, id, published)
	if err != nil {
		return dbErr("publish announcement", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("announcement not found")
	}
	return nil
}

// Delete removes an announcement.
func (r *AnnouncementRepo) Delete(ctx context.Context, id string) error {
	if err := checkID("announcement", id); err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return dbErr("delete announcement", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NotFound("announcement not found")
	}
	return nil
}
