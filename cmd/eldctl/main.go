// Command eldctl is the driver's command-line client for the HOS API:
// sign in, manage trips and duty statuses, and print daily ELD logs.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	_ "time/tzdata"

	"github.com/pkordes/hos-planner/internal/app"
	"github.com/pkordes/hos-planner/internal/config"
	"github.com/pkordes/hos-planner/internal/repo"
)

func main() {
	_ = godotenv.Load()

	e := &env{}
	if err := execute(context.Background(), e, newRootCmd(e)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// env carries what every subcommand needs. app is built lazily in the root
// PersistentPreRunE unless a test injected one.
type env struct {
	app      *app.App
	cfg      config.Config
	closeApp func()
	printer  *printer
}

func newRootCmd(e *env) *cobra.Command {
	// Group commands add a session check on top of the root's setup.
	cobra.EnableTraverseRunHooks = true

	var (
		logLevel string
		output   string
	)

	cmd := &cobra.Command{
		Use:           "eldctl",
		Short:         "Plan trips and review ELD logs against the HOS API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			p, err := newPrinter(cmd.OutOrStdout(), output)
			if err != nil {
				return err
			}
			e.printer = p
			if e.app != nil {
				return nil
			}
			return e.open(cmd.Context(), cmd.ErrOrStderr(), logLevel)
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVarP(&output, "output", "o", formatText, "Output format (text, json, yaml)")

	cmd.AddCommand(
		loginCmd(e),
		registerCmd(e),
		logoutCmd(e),
		whoamiCmd(e),
		tripsCmd(e),
		dutyCmd(e),
		logCmd(e),
	)
	return cmd
}

// execute runs cmd and releases the app afterwards, including when the
// command fails. cobra skips post-run hooks on error.
func execute(ctx context.Context, e *env, cmd *cobra.Command) error {
	defer e.close()
	return cmd.ExecuteContext(ctx)
}

func (e *env) close() {
	if e.closeApp != nil {
		e.closeApp()
		e.closeApp = nil
	}
}

func (e *env) open(ctx context.Context, stderr io.Writer, logLevel string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(logLevel)
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	a, closeApp, err := app.New(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	e.app, e.cfg, e.closeApp = a, cfg, closeApp
	return nil
}

// ephemeral reports whether the session will be lost when the process exits.
func (e *env) ephemeral() bool {
	return e.cfg.StoreBackend == "" || e.cfg.StoreBackend == repo.BackendMemory
}
