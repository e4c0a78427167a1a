package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/globaltfn/remindme-server/internal/projectpath"
)

var testDbPool *pgxpool.Pool

// TestMain rebuilds the schema and opens a pool when a test database is
// configured. Handler tests that hit the database skip themselves when it is
// not; the validation-only tests run either way.
func TestMain(m *testing.M) {
	if conn := os.Getenv("TEST_DB_CONN"); conn != "" {
		mg, err := migrate.New("file://"+projectpath.Root+"/migrations", conn)
		if err != nil {
			panic(err)
		}
		if err := mg.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			panic(err)
		}
		if err := mg.Up(); err != nil {
			panic(err)
		}
		if testDbPool, err = pgxpool.New(context.Background(), conn); err != nil {
			panic(err)
		}
	}
	os.Exit(m.Run())
}

func dbHandler(t *testing.T) *Handler {
	t.Helper()
	if testDbPool == nil {
		t.Skip("TEST_DB_CONN not set")
	}
	return &Handler{DbPool: testDbPool}
}

// withURLParam plants a chi route context so handlers reading URL parameters
// can be called without a router.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func responseMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("non-json response body: %s", rec.Body)
	}
	return body.Message
}
