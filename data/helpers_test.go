package data

import (
	"errors"
	"os"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/globaltfn/remindme-server/internal/projectpath"
)

// TestMain rebuilds the schema before the package tests run when a test
// database is configured. Tests that touch the database skip themselves when
// it is not, so the rest of the suite stays runnable without postgres.
func TestMain(m *testing.M) {
	if conn := os.Getenv("TEST_DB_CONN"); conn != "" {
		os.Setenv("DB_CONN", conn)
		if err := resetSchema(conn); err != nil {
			panic(err)
		}
	}
	os.Exit(m.Run())
}

// resetSchema tears every migration down and reapplies them, so each test run
// starts from an empty schedules/teachers/holidays schema. The migrations are
// read from the checked-out tree, the same files the up command applies.
func resetSchema(conn string) error {
	m, err := migrate.New("file://"+projectpath.Root+"/migrations", conn)
	if err != nil {
		return err
	}
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return m.Up()
}
