// Package app implements the main application commands.
package app

import (
	"context"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/bobasettings/bobasettings/internal/config"
	"github.com/bobasettings/bobasettings/internal/daemon"
	"github.com/bobasettings/bobasettings/internal/db"
	"github.com/bobasettings/bobasettings/internal/logger"
	"github.com/bobasettings/bobasettings/internal/settings"
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Directory holding "+config.MainFile)
}

var (
	configPath string // Path to the configuration directory
	cfg        config.Config

	rootCmd = &cobra.Command{
		Use:   "bobasettings",
		Short: "bobasettings stores typed settings groups as key/value records",
		Long: `bobasettings persists typed settings groups as flat key/value records
in memory, sqlite, mysql, postgres or redis, and serves them through a JSON API.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// readConfig loads the configuration and initializes the logger.
func readConfig() error {
	var err error
	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err
	}

	return errors.Wrap(logger.Init(cfg.Log), "failed to init logger")
}

// withSettings runs fn against the configured store and closes it afterwards.
func withSettings(ctx context.Context, fn func(svc *settings.Service) error) error {
	if err := readConfig(); err != nil {
		return err
	}

	svc, store, err := daemon.Open(ctx, &cfg)
	if err != nil {
		return err
	}

	defer func(store *db.Store) {
		_ = store.Close()
	}(store)

	return fn(svc)
}

func printJSON(w io.Writer, v any) error {
	j := json.NewEncoder(w)
	j.SetIndent("", "  ")

	return j.Encode(v) //nolint: wrapcheck
}
