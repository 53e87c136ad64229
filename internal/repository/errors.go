// Package repository defines the data access layer and the sentinel errors
// shared by its repositories. Handlers translate these into HTTP statuses;
// every other error returned from here is a storage failure.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrFilmNotFound is returned when the film does not exist or has already
// been soft-deleted.
var ErrFilmNotFound = errors.New("film not found")

// ErrUserNotFound is returned when the user does not exist or has already
// been soft-deleted.
var ErrUserNotFound = errors.New("user not found")

// ErrUsernameExists signals that a live user already holds the username.
var ErrUsernameExists = errors.New("username already exists")

const mysqlDuplicateEntry = 1062

// isDuplicateKey reports whether err is a MySQL unique constraint violation.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
