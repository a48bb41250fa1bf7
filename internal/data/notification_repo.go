package data

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"

	"github.com/tramatch/tramatch-web/internal/core"
	"github.com/tramatch/tramatch-web/internal/data/pgxutil"
	"github.com/tramatch/tramatch-web/internal/domain/model"
	apperrors "github.com/tramatch/tramatch-web/internal/errors"
)

const notificationColumns = `id, user_id, type, title, message, is_read, created_at`

var _ core.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo provides database operations for user notifications.
type NotificationRepo struct {
	DB *sql.DB
}

// NewNotificationRepo creates a new NotificationRepo.
func NewNotificationRepo(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{DB: db}
}

// Create inserts one notification.
func (r *NotificationRepo) Create(
	ctx context.Context,
	userID string,
	p core.CreateNotificationParams,
) (*model.Notification, error) {
	if err := checkID("user", userID); err != nil {
		return nil, err
	}
	var out *model.Notification
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var err error
		out, err = pgxutil.QueryOne[model.Notification](ctx, conn, `
			INSERT INTO notifications (user_id, type, title, message)
			VALUES ($1, $2, $3, $4)
			RETURNING `+notificationColumns, userID, p.Type, p.Title, p.Message)
		return err
	})
	if err != nil {
		return nil, dbErr("create notification", err)
	}
	return out, nil
}

// CreateMany inserts the same notification for every user in one transaction.
func (r *NotificationRepo) CreateMany(
	ctx context.Context,
	userIDs []string,
	p core.CreateNotificationParams,
) (int, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	var n int64
	err := pgxutil.WithPgxTx(ctx, r.DB, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			INSERT INTO notifications (user_id, type, title, message)
			SELECT uid, $2, $3, $4 FROM unnest($1::uuid[]) AS uid`,
			userIDs, p.Type, p.Title, p.Message)
		if err != nil {
			return err
		}
		n = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, dbErr("broadcast notification", err)
	}
	return int(n), nil
}

// ListByUser returns the user's notifications, newest first.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*model.Notification, error) {
	if err := checkID("user", userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	var out []*model.Notification
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		var err error
		out, err = pgxutil.QueryAll[model.Notification](ctx, conn, `
			SELECT `+notificationColumns+` FROM notifications
			WHERE user_id = $1
			ORDER BY created_at DESC
			LIMIT $2`, userID, limit)
		return err
	})
	if err != nil {
		return nil, dbErr("list notifications", err)
	}
	return out, nil
}

// CountUnread returns how many unread notifications the user has.
func (r *NotificationRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	if err := checkID("user", userID); err != nil {
		return 0, err
	}
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read`, userID).Scan(&n)
	if err != nil {
		return 0, dbErr("count unread", err)
	}
	return n, nil
}

// MarkAllRead marks every notification of the user as read.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string) (int, error) {
	if err := checkID("user", userID); err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND NOT is_read`, userID)
	if err != nil {
		return 0, dbErr("mark read", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrCodeInternal, "mark read")
	}
	return int(n), nil
}
