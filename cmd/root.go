package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "remindme",
	Short: "remindme manages university class schedules, holidays and timetable extraction",
	Long: `The remindme server stores weekly class schedules per university program,
derives the teacher roster from them, keeps the holiday calendar, and can
extract a schedule from an uploaded PDF timetable`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
