package server

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/globaltfn/remindme-server/data/db"
	"github.com/globaltfn/remindme-server/roster"
)

// startJobs runs the nightly roster reconciliation: re-derive teachers from
// every stored schedule so rows lost to manual edits or imports made outside
// the save flow reappear.
func startJobs(pool *pgxpool.Pool) *cron.Cron {
	c := cron.New()

	c.AddFunc("@daily", func() {
		log.Info("running roster reconciliation job")

		ctx := context.Background()
		q := db.New(pool)
		rows, err := q.ListSchedules(ctx)
		if err != nil {
			log.WithError(err).Error("roster reconciliation failed to list schedules")
			return
		}
		for _, row := range rows {
			roster.Derive(ctx, q, row.Week, row.University, row.Program)
		}

		log.Infof("roster reconciliation covered %d schedules", len(rows))
	})

	c.Start()
	return c
}
