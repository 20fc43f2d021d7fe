package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/convive/convive/internal/config"
	"github.com/convive/convive/internal/db"
	"github.com/convive/convive/internal/db/migrations"
	"github.com/convive/convive/internal/logging"
	"github.com/convive/convive/internal/server"
)

var (
	cfgFile string
	quiet   bool
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "convive",
		Short: "Convive - dinner event planning service",
		Long: `Convive hosts dinner events, invites guests over SMS, and collects
RSVPs through a conversational agent. Running with no subcommand starts
the server.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress log output")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	return rootCmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	if quiet {
		logging.Disable()
		migrations.QuietMode = true
	}

	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if c.Auth.AccessSecret == "" {
		if c.IsProductionMode() {
			return fmt.Errorf("auth.access_secret must be set in production")
		}
		logging.Warn("auth.access_secret not set - using a development default")
		c.Auth.AccessSecret = "convive-dev-secret"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx, c, server.ServerOptions{Quiet: quiet})
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			store, err := db.NewSQLite(c.Database.SQLitePath)
			if err != nil {
				return err
			}
			defer store.Close()
			fmt.Printf("Database migrated at %s\n", c.Database.SQLitePath)
			return nil
		},
	}
}
