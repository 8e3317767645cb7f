package common

import (
	"errors"

	"github.com/lib/pq"
)

var ErrRecordNotFound = errors.New("record not found")

// UniqueViolation reports whether err is a unique-constraint violation on the
// named constraint. Toggle paths use this to treat a racing duplicate insert
// as "already toggled" instead of a hard failure.
func UniqueViolation(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505" && pqErr.Constraint == name
	}
	return false
}

// AnyUniqueViolation reports whether err is any unique-constraint violation.
func AnyUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// ForeignKeyViolation reports whether err is a foreign-key violation on the
// named constraint.
func ForeignKeyViolation(err error, name string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23503" && pqErr.Constraint == name
	}
	return false
}

// CheckViolation reports whether err is a check-constraint violation.
func CheckViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23514"
	}
	return false
}
