// Package sqlgraph provides helpers for classifying SQLite errors returned
// by the adapter. The adapter itself returns driver errors unchanged; these
// predicates are meant for its callers.
package sqlgraph

import (
	"errors"
	"strings"
)

// errorCoder is an interface for database errors that provide result codes.
// Implemented by: modernc.org/sqlite.
type errorCoder interface {
	Code() int
}

// SQLite extended result codes for constraint violations.
const (
	sqliteConstraint           = 19
	sqliteConstraintCheck      = 275
	sqliteConstraintForeignKey = 787
	sqliteConstraintNotNull    = 1299
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

// IsConstraintError returns true if the error resulted from a database constraint violation.
func IsConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if e, ok := asError[errorCoder](err); ok && e.Code()&0xff == sqliteConstraint {
		return true
	}
	return IsUniqueConstraintError(err) ||
		IsForeignKeyConstraintError(err) ||
		IsCheckConstraintError(err) ||
		IsNotNullConstraintError(err)
}

// IsUniqueConstraintError reports if the error resulted from a DB uniqueness constraint violation.
// e.g. duplicate value in unique index or primary key.
func IsUniqueConstraintError(err error) bool {
	return hasCode(err, sqliteConstraintUnique, sqliteConstraintPrimaryKey) ||
		containsAny(err, "UNIQUE constraint failed")
}

// IsForeignKeyConstraintError reports if the error resulted from a database foreign-key constraint violation.
// e.g. parent row does not exist.
func IsForeignKeyConstraintError(err error) bool {
	return hasCode(err, sqliteConstraintForeignKey) ||
		containsAny(err, "FOREIGN KEY constraint failed")
}

// IsCheckConstraintError reports if the error resulted from a database check constraint violation.
// e.g. a value does not satisfy a check condition.
func IsCheckConstraintError(err error) bool {
	return hasCode(err, sqliteConstraintCheck) ||
		containsAny(err, "CHECK constraint failed")
}

// IsNotNullConstraintError reports if the error resulted from storing NULL
// in a NOT NULL column.
func IsNotNullConstraintError(err error) bool {
	return hasCode(err, sqliteConstraintNotNull) ||
		containsAny(err, "NOT NULL constraint failed")
}

// hasCode reports if the error chain holds a result code among codes.
func hasCode(err error, codes ...int) bool {
	e, ok := asError[errorCoder](err)
	if !ok {
		return false
	}
	for _, c := range codes {
		if e.Code() == c {
			return true
		}
	}
	return false
}

// asError attempts to extract an error implementing interface T from the error chain.
func asError[T any](err error) (T, bool) {
	var target T
	for err != nil {
		if e, ok := err.(T); ok {
			return e, true
		}
		err = errors.Unwrap(err)
	}
	return target, false
}

// containsAny is the fallback for drivers that don't expose result codes,
// such as github.com/mattn/go-sqlite3.
func containsAny(err error, substrings ...string) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
