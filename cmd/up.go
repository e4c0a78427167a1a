package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/globaltfn/remindme-server/internal/projectpath"
)

// upCmd represents the up command
var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Runs the up migrations",
	Long:  `Runs the up migrations and errors if the up migrations cannot work`,
	Run: func(cmd *cobra.Command, args []string) {
		dbName := os.Getenv("DB_CONN")

		m, err := migrate.New("file://"+projectpath.Root+"/migrations", dbName)
		if err != nil {
			log.WithError(err).Error("Could not set up migrations")
			return
		}

		err = m.Up()
		if err != nil {
			log.WithError(err).Error("Could not run up migrations")
			return
		}
		log.Info("Database has been synced with any up migrations")
	},
}

func init() {
	appCmd.AddCommand(upCmd)
}
