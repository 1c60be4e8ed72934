package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/edge/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the journal and analytics over HTTP",
	Long: `Start the JSON HTTP API. Requests select the journal owner with the
X-User-ID header and fall back to the configured account user.

Examples:
  edge serve --addr :8080
  curl -H 'X-User-ID: alice' localhost:8080/api/dashboard/stats`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	j, err := openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	settings, err := cfg.Settings()
	if err != nil {
		return err
	}
	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv, err := api.NewServer(api.Config{
		Addr:        addr,
		Store:       j,
		Settings:    settings,
		Policy:      cfg.Risk,
		DefaultUser: cfg.Account.UserID,
		MaxOps:      cfg.Sim.MaxOps,
		Seed:        cfg.Sim.Seed,
		Logger:      slog.Default(),
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx)
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
