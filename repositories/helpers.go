package repositories

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// ErrStoreUnavailable marks failures to reach the database at all, as opposed to query errors.
var ErrStoreUnavailable = errors.New("store unavailable")

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}

// classify tags connection-level failures with ErrStoreUnavailable and leaves everything else as is.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStoreUnavailable) {
		return err
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// class 08: connection exception, 57P0x: operator intervention / shutdown
		code := string(pqErr.Code)
		if strings.HasPrefix(code, "08") || strings.HasPrefix(code, "57P") {
			return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		return err
	}
	if strings.Contains(err.Error(), "connection refused") {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return err
}

func isForeignKeyViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503" && (constraint == "" || pqErr.Constraint == constraint)
	}
	return false
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}
