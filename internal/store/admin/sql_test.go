package adminstore_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pkg/errors"

	admin "github.com/5w1tchy/library-api/internal/api/handlers/admin"
	"github.com/5w1tchy/library-api/internal/errs"
	adminstore "github.com/5w1tchy/library-api/internal/store/admin"
)

func TestStats(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	store := adminstore.New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`(SELECT COUNT(*) FROM user_books)`)).
		WillReturnRows(sqlmock.NewRows([]string{"u", "a", "b", "au", "c", "l", "s"}).
			AddRow(42, 2, 300, 120, 18, 999, 3))

	st, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	want := admin.StatsResponse{Users: 42, Admins: 2, Books: 300, Authors: 120, Categories: 18, CollectionLinks: 999, SignupsLast24h: 3}
	if st != want {
		t.Fatalf("want %+v, got %+v", want, st)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSetUserRole_OK(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	store := adminstore.New(db)

	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE users SET role = $1, token_version = token_version + 1 WHERE id = $2`,
	)).
		WithArgs("ADMIN", int64(123)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := store.SetUserRole(context.Background(), 123, "admin"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestSetUserRole_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	store := adminstore.New(db)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET role = $1`)).
		WithArgs("USER", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = store.SetUserRole(context.Background(), 7, "USER")
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestSetUserRole_UnknownRole(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if err := adminstore.New(db).SetUserRole(context.Background(), 1, "owner"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestListUsers_Filters(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	store := adminstore.New(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM users u WHERE`)).
		WithArgs("%ann%", "%ann%", "ADMIN").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY u.created_at DESC, u.id DESC LIMIT 10 OFFSET 10`)).
		WithArgs("%ann%", "%ann%", "ADMIN").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "role", "created_at", "count"}).
			AddRow(int64(5), "anna", "anna@example.com", "ADMIN", created, 12))

	rows, total, err := store.ListUsers(context.Background(), admin.ListFilter{Query: " ann ", Role: "ADMIN", Page: 2, Size: 10})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("want 1 row, got total=%d rows=%d", total, len(rows))
	}
	if rows[0].Username != "anna" || rows[0].CollectionSize != 12 {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users u WHERE u.id = $1`)).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "role", "created_at", "count"}))

	_, err = adminstore.New(db).GetUser(context.Background(), 9)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}
