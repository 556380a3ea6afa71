package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/csheth/notebookconv/internal/session"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Probe the conversion service once",
	Long: `Health calls the service's /health endpoint once and reports how long it
took to answer. A sleeping service is woken up by the call. The command
exits non-zero when the service is not ready.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		closeLog, err := setupLogging(cfg)
		if err != nil {
			return err
		}
		defer closeLog()

		client := newClient(cfg)
		s := session.New()
		s.BeginProbe()
		res := session.Probe(cmd.Context(), client, time.Now(), time.Now)
		s.FinishProbe(res)
		if res.Err != nil {
			return fmt.Errorf("%s: %w", client.BaseURL(), res.Err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ready (warm-up %.1fs)\n", s.State().WarmupElapsed)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
