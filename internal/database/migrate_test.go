package database

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/film-archive-api/internal/config"
)

func TestStatements(t *testing.T) {
	script := `-- header comment
CREATE TABLE a (
    id INT
);

-- another
CREATE TABLE b (id INT);
`
	got := Statements(script)
	if len(got) != 2 {
		t.Fatalf("got %d statements, want 2: %q", len(got), got)
	}
	if !strings.HasPrefix(got[0], "CREATE TABLE a") || strings.HasSuffix(got[0], ";") {
		t.Errorf("unexpected first statement %q", got[0])
	}
	if got[1] != "CREATE TABLE b (id INT)" {
		t.Errorf("unexpected second statement %q", got[1])
	}
}

func TestEmbeddedSchema(t *testing.T) {
	stmts := Statements(schemaSQL)
	if len(stmts) != 10 {
		t.Fatalf("schema has %d statements, want 10", len(stmts))
	}
	for _, table := range []string{
		"users", "films", "film_production_details", "film_authors",
		"film_production_team", "film_actors", "film_equipment",
		"film_documents", "film_institutional_info", "film_screenings",
	} {
		found := false
		for _, s := range stmts {
			if strings.Contains(s, "CREATE TABLE IF NOT EXISTS "+table+" (") {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("schema does not create %s", table)
		}
	}
}

func TestMigrate_StopsOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS films").WillReturnError(errors.New("boom"))

	err = Migrate(context.Background(), db)
	if err == nil || !strings.Contains(err.Error(), "schema statement 2") {
		t.Fatalf("Migrate error = %v, want statement 2 failure", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.Config{DBUser: "u", DBPass: "p", DBHost: "db", DBPort: "3306", DBName: "films"})
	for _, want := range []string{"u:p@tcp(db:3306)/films", "parseTime=true", "clientFoundRows=true", "charset=utf8mb4"} {
		if !strings.Contains(dsn, want) {
			t.Errorf("DSN %q missing %q", dsn, want)
		}
	}
}
