package data

import (
	"fmt"

	"github.com/google/uuid"

	apperrors "github.com/tramatch/tramatch-web/internal/errors"
)

// dbErr maps a database error and prefixes it with the failed operation.
// AppErrors stay reachable through errors.As.
func dbErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, apperrors.MapDBError(err))
}

// checkID rejects ids that are not UUIDs before they reach Postgres, so
// a mistyped URL is a not-found instead of a driver error.
func checkID(kind, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NotFoundf("%s not found", kind)
	}
	return nil
}
