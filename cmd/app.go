/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"
)

// appCmd represents the app command
var appCmd = &cobra.Command{
	Use:   "app",
	Short: "used to run the remindme service",
	Long: `The remindme service is a json api server for class schedule management
(this command is not ran directly)`,
}

func init() {
	rootCmd.AddCommand(appCmd)
}
