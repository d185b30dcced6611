// Package repository defines the entity store contracts and their pgx
// implementations. The gormrepo subpackage implements the same interfaces on
// top of the ORM.
package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/ledgerdesk/backoffice/pkg/util/errorutil"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = apperrors.ErrNotFound

func notFound(err error, resource string, id int64) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", resource, id, ErrNotFound)
	}
	return err
}

// createdAt maps a zero time to NULL so the column default applies.
func createdAt(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
