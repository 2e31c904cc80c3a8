// Package daemon wires the store, the settings engine and the web service.
package daemon

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/bobasettings/bobasettings/internal/config"
	"github.com/bobasettings/bobasettings/internal/db"
	"github.com/bobasettings/bobasettings/internal/groups"
	"github.com/bobasettings/bobasettings/internal/seed"
	"github.com/bobasettings/bobasettings/internal/settings"
	"github.com/bobasettings/bobasettings/internal/web"
)

// ErrConfigNil is returned by New without a config.
var ErrConfigNil = errors.New("config is nil")

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	store      *db.Store
	settings   *settings.Service
	webService *web.Service
}

// Start serves the API until SIGINT or SIGTERM, then closes the store.
func (d *Daemon) Start() error {
	addr := fmt.Sprintf(":%d", d.cfg.Webserver.Port)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("starting http server")
		errCh <- d.webService.Start(addr)
	}()

	go d.webService.WaitShutdown()

	err := <-errCh

	if closeErr := d.Close(); closeErr != nil {
		log.Error().Err(closeErr).Msg("failed to close settings store")
	}

	return err
}

// Close releases the settings store.
func (d *Daemon) Close() error {
	return d.store.Close()
}

// Settings returns the settings engine of the daemon.
func (d *Daemon) Settings() *settings.Service {
	return d.settings
}

// Web returns the web service of the daemon.
func (d *Daemon) Web() *web.Service {
	return d.webService
}

// New opens the store of cfg, registers the shipped groups, imports the seed
// file and builds the web service.
func New(ctx context.Context, cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}

	svc, store, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Seed.File != "" {
		res, err := seed.ImportFile(ctx, svc, cfg.Seed.File, !cfg.Seed.Overwrite)
		if err != nil {
			_ = store.Close()

			return nil, errors.Wrap(err, "failed to import seed file")
		}

		log.Info().
			Str("file", cfg.Seed.File).
			Int("written", res.Written).
			Int("skipped", res.Skipped).
			Msg("seed file imported")
	}

	return &Daemon{
		cfg:        cfg,
		store:      store,
		settings:   svc,
		webService: web.New(cfg, svc),
	}, nil
}

// Open returns the settings engine on the store of cfg with the shipped groups registered.
func Open(ctx context.Context, cfg *config.Config) (*settings.Service, *db.Store, error) {
	store, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	r := settings.NewRegistry()
	if err = groups.Register(r); err != nil {
		_ = store.Close()

		return nil, nil, errors.Wrap(err, "failed to register settings groups")
	}

	svc, err := settings.NewService(store.Repository, settings.WithRegistry(r))
	if err != nil {
		_ = store.Close()

		return nil, nil, err
	}

	return svc, store, nil
}
