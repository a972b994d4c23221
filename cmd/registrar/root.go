package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "registrar",
	Short: "Client for the alumni registration API",
	Long: `registrar submits alumni registrations to the registration API.
Fields are checked locally with the same rules the server applies before anything is sent.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}
