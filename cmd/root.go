package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passport-reader",
		Short: "Passport MRZ and OCR extraction service",
		Long: `Passport Reader extracts identity fields from passport scans.

It reads the machine readable zone, runs full page OCR to recover the
printed names and answers with a JSON record over HTTP.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(newServeCmd())

	return cmd
}
