// Package app runs the vault server from startup to graceful shutdown.
package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/lovincyrus/darkcyber-vault/internal/api"
	"github.com/lovincyrus/darkcyber-vault/internal/config"
	"github.com/lovincyrus/darkcyber-vault/internal/logging"
	"github.com/lovincyrus/darkcyber-vault/internal/vault"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	Conf   *config.Config
	Vault  *vault.Vault
	Server *api.Server
	log    zerolog.Logger
}

func New(conf *config.Config, log zerolog.Logger, v *vault.Vault, srv *api.Server) *App {
	return &App{
		Conf:   conf,
		Vault:  v,
		Server: srv,
		log:    logging.Component(log, "app"),
	}
}

// Run loads the vault, serves HTTP and blocks until ctx is cancelled or the
// process receives SIGINT or SIGTERM. ready, if non-nil, receives the bound
// address once the listener is up.
func (a *App) Run(ctx context.Context, ready func(addr string)) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.log.Info().Str("app", a.Conf.AppName).Str("db", a.Conf.Storage.Path).Msg("starting")
	a.Vault.Initialize()

	ln, err := a.Server.Start()
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.Conf.Addr(), err)
	}
	addr := ln.Addr().String()
	a.log.Info().Str("addr", addr).Msg("listening")
	if ready != nil {
		ready(addr)
	}

	<-ctx.Done()
	a.log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	a.log.Info().Msg("gracefully stopped")
	return nil
}
