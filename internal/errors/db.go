package errors

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// reKeyField pulls the column out of "Key (email)=(x) already exists.".
	reKeyField       = regexp.MustCompile(`Key \((.+?)\)=\(`)
	reReferencedFrom = regexp.MustCompile(`is still referenced from table "?([^"]+)"?`)
	reNotPresent     = regexp.MustCompile(`is not present in table "?([^"]+)"?`)
)

var tableLabels = map[string]string{
	"users":          "ユーザー",
	"cargo_listings": "荷物",
	"truck_listings": "車両",
	"notifications":  "通知",
	"announcements":  "お知らせ",
}

// MapDBError translates pgx and Postgres errors into AppErrors. Errors it
// does not recognize are returned unchanged.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(err, ErrCodeTimeout, "処理がタイムアウトしました。")
	case errors.Is(err, context.Canceled):
		return Wrap(err, ErrCodeCanceled, "処理が中断されました。")
	case errors.Is(err, pgx.ErrNoRows):
		return Wrap(err, ErrCodeNotFound, "見つかりません。")
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		e := Wrap(pgErr, ErrCodeConflict, "既に登録されています。")
		e.Field = uniqueField(pgErr)
		return e
	case pgerrcode.ForeignKeyViolation:
		return Wrap(pgErr, ErrCodeForeignKey, foreignKeyMessage(pgErr))
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation:
		e := Wrap(pgErr, ErrCodeValidation, "入力内容を確認してください。")
		e.Field = pgErr.ColumnName
		return e
	default:
		return Wrap(pgErr, ErrCodeInternal, "データベースエラーが発生しました。")
	}
}

func uniqueField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	if m := reKeyField.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
		return strings.TrimPrefix(strings.TrimSuffix(m[1], ")"), "lower(")
	}
	// users_email_key -> email
	parts := strings.Split(pgErr.ConstraintName, "_")
	if len(parts) == 3 && parts[2] == "key" {
		return parts[1]
	}
	return ""
}

func foreignKeyMessage(pgErr *pgconn.PgError) string {
	if m := reReferencedFrom.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
		if label, ok := tableLabels[m[1]]; ok {
			return label + "から参照されているため削除できません。"
		}
	}
	if m := reNotPresent.FindStringSubmatch(pgErr.Detail); len(m) == 2 {
		if label, ok := tableLabels[m[1]]; ok {
			return "参照先の" + label + "が存在しません。"
		}
	}
	return "関連するデータが存在するため処理できません。"
}
