package data

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/globaltfn/remindme-server/internal/projectpath"
)

var (
	pool    *pgxpool.Pool
	poolErr error
	once    sync.Once
)

func init() {
	if err := godotenv.Load(filepath.Join(projectpath.Root, ".env")); err != nil {
		log.Warn("no .env file found, relying on the environment")
	}
}

// NewPool returns the process-wide connection pool, created on first use from
// the DB_CONN connection string. The server handlers and the cron jobs all
// share the one pool.
func NewPool(ctx context.Context) (*pgxpool.Pool, error) {
	once.Do(func() {
		pool, poolErr = pgxpool.New(ctx, os.Getenv("DB_CONN"))
		if poolErr != nil {
			poolErr = fmt.Errorf("opening database pool: %w", poolErr)
		}
	})
	return pool, poolErr
}
