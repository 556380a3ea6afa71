package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/csheth/notebookconv/internal/stubserver"
)

var stubCmd = &cobra.Command{
	Use:   "stub-server",
	Short: "Run a local conversion service for development",
	Long: `Stub-server answers the same routes as the real conversion service
(/, /health and /convert/{html,pdf}) with a small built-in renderer. Use
--warmup to imitate a service that has to wake up before its first answer.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		warmup, _ := cmd.Flags().GetDuration("warmup")
		quiet, _ := cmd.Flags().GetBool("quiet")

		opts := stubserver.Options{WarmupDelay: warmup}
		if !quiet {
			opts.RequestLog = cmd.ErrOrStderr()
		}
		e := stubserver.New(opts)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			fmt.Fprintf(cmd.ErrOrStderr(), "stub conversion service listening on %s\n", addr)
			errCh <- e.Start(addr)
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	},
}

func init() {
	stubCmd.Flags().String("addr", "127.0.0.1:8000", "listen address")
	stubCmd.Flags().Duration("warmup", 0, "delay before the first response")
	stubCmd.Flags().Bool("quiet", false, "do not log requests")
	rootCmd.AddCommand(stubCmd)
}
