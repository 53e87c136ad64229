package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"golang.org/x/crypto/bcrypt"
)

var userCols = []string{"user_id", "username", "password_hash", "role", "created_at"}

func newUserRepo(t *testing.T) (*UserRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	r := NewUserRepo(db)
	r.now = func() time.Time { return fixedNow }
	return r, mock
}

func TestUserCreate_DuplicateUsername(t *testing.T) {
	r, mock := newUserRepo(t)
	mock.ExpectExec("INSERT INTO users").
		WithArgs("ana", sqlmock.AnyArg(), "reader", fixedNow).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'ana'"})

	_, err := r.Create(context.Background(), " ana ", "pw", "reader", bcrypt.MinCost)
	if !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("err = %v, want ErrUsernameExists", err)
	}
}

func TestUserCreate_OtherErrorsPassThrough(t *testing.T) {
	r, mock := newUserRepo(t)
	mock.ExpectExec("INSERT INTO users").WillReturnError(&mysql.MySQLError{Number: 1406, Message: "Data too long"})

	_, err := r.Create(context.Background(), "ana", "pw", "reader", bcrypt.MinCost)
	if err == nil || errors.Is(err, ErrUsernameExists) {
		t.Fatalf("err = %v, want a plain storage error", err)
	}
}

func TestUserGetByUsername_NotFound(t *testing.T) {
	r, mock := newUserRepo(t)
	mock.ExpectQuery("FROM users WHERE username").WithArgs("ghost").WillReturnRows(sqlmock.NewRows(userCols))

	if _, err := r.GetByUsername(context.Background(), "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestUserUpdate(t *testing.T) {
	tests := []struct {
		name   string
		result func(*sqlmock.ExpectedExec)
		want   error
	}{
		{"ok", func(e *sqlmock.ExpectedExec) { e.WillReturnResult(sqlmock.NewResult(0, 1)) }, nil},
		{"missing", func(e *sqlmock.ExpectedExec) { e.WillReturnResult(sqlmock.NewResult(0, 0)) }, ErrUserNotFound},
		{"taken", func(e *sqlmock.ExpectedExec) { e.WillReturnError(&mysql.MySQLError{Number: 1062}) }, ErrUsernameExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, mock := newUserRepo(t)
			tt.result(mock.ExpectExec("UPDATE users SET username").WithArgs("bob", sqlmock.AnyArg(), 4))

			err := r.Update(context.Background(), 4, "bob", "secret", bcrypt.MinCost)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestUserSoftDelete_NotFound(t *testing.T) {
	r, mock := newUserRepo(t)
	mock.ExpectExec("UPDATE users SET deleted_at").WithArgs(fixedNow, 9).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := r.SoftDelete(context.Background(), 9); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestUserListNonAdmin(t *testing.T) {
	r, mock := newUserRepo(t)
	mock.ExpectQuery("FROM users WHERE role").WithArgs("admin").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(2, "ana", "hash", "reader", fixedNow))

	got, err := r.ListNonAdmin(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Username != "ana" || got[0].Role != "reader" {
		t.Errorf("ListNonAdmin = %+v", got)
	}
}

func TestEnsureAdmin(t *testing.T) {
	t.Run("exists", func(t *testing.T) {
		r, mock := newUserRepo(t)
		mock.ExpectQuery("FROM users WHERE username").WithArgs("root").
			WillReturnRows(sqlmock.NewRows(userCols).AddRow(1, "root", "hash", "admin", fixedNow))

		created, err := r.EnsureAdmin(context.Background(), "root", "pw", bcrypt.MinCost)
		if err != nil || created {
			t.Fatalf("EnsureAdmin = %v, %v; want false, nil", created, err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})
	t.Run("creates", func(t *testing.T) {
		r, mock := newUserRepo(t)
		mock.ExpectQuery("FROM users WHERE username").WithArgs("root").WillReturnRows(sqlmock.NewRows(userCols))
		mock.ExpectExec("INSERT INTO users").
			WithArgs("root", sqlmock.AnyArg(), "admin", fixedNow).
			WillReturnResult(sqlmock.NewResult(1, 1))

		created, err := r.EnsureAdmin(context.Background(), "root", "pw", bcrypt.MinCost)
		if err != nil || !created {
			t.Fatalf("EnsureAdmin = %v, %v; want true, nil", created, err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	})
}
