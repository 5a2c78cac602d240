package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrRequestNotPending is returned by AcceptAndConvert when the request was
// already decided by the time the transaction acquired the row.
var ErrRequestNotPending = errors.New("booking request is not pending")

// IsUniqueViolation reports whether err is a unique-constraint violation,
// optionally scoped to one constraint/index name. Postgres errors carry the
// constraint name; the sqlite fallback matches on the message.
func IsUniqueViolation(err error, constraint string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != "23505" {
			return false
		}
		return constraint == "" || pgErr.ConstraintName == constraint
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "unique") && !strings.Contains(msg, "duplicate") {
		return false
	}
	return constraint == "" || strings.Contains(msg, strings.ToLower(constraint))
}

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
