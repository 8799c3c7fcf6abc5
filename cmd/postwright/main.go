// Command postwright runs the LinkedIn post generation agent as an HTTP
// service.
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

	"github.com/postwright/postwright"
	"github.com/postwright/postwright/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dotenvPath string

	cmd := &cobra.Command{
		Use:           "postwright",
		Short:         "LinkedIn post generation agent",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&dotenvPath, "env-file", ".env", "path to the .env file loaded outside production")

	cmd.AddCommand(newServeCmd(&dotenvPath))
	return cmd
}

func newServeCmd(dotenvPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the agent HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*dotenvPath)
			if err != nil {
				return err
			}

			app, err := postwright.New(cfg)
			if err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() {
				if err := app.Serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
					return
				}
				errCh <- nil
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-sigCh:
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
			defer cancel()
			if err := app.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return <-errCh
		},
	}
}
