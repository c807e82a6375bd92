package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/rpupo63/portfolio-backend/errs"
	"gorm.io/gorm"
)

// Driver error shapes recognised without inspecting message text.
type (
	// pgconn.PgError
	sqlStateError interface{ SQLState() string }
	// modernc.org/sqlite Error
	sqliteCodeError interface{ Code() int }
)

const (
	pgUniqueViolation         = "23505"
	sqliteConstraintUnique    = 2067
	sqliteConstraintPrimaryKy = 1555
)

// translate maps driver and gorm errors onto the errs sentinels while keeping the original in the chain.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", errs.ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return fmt.Errorf("%w: %w", errs.ErrUniqueConstraintViolation, err)
	case isConnectionError(err):
		return fmt.Errorf("%w: %w", errs.ErrDatabaseConnection, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr sqlStateError
	if errors.As(err, &pgErr) && pgErr.SQLState() == pgUniqueViolation {
		return true
	}
	var liteErr sqliteCodeError
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqliteConstraintUnique || code == sqliteConstraintPrimaryKy
	}
	return false
}

// isConnectionError reports failures to reach the server: dial and network errors
// (pgconn.ConnectError unwraps to them), broken pool connections and timed out pings.
func isConnectionError(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded)
}

// affected turns a zero-row write into errs.ErrNotFound.
func affected(result *gorm.DB) error {
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}
