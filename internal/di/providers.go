package di

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/lovincyrus/darkcyber-vault/internal/ai"
	"github.com/lovincyrus/darkcyber-vault/internal/api"
	"github.com/lovincyrus/darkcyber-vault/internal/config"
	"github.com/lovincyrus/darkcyber-vault/internal/metrics"
	"github.com/lovincyrus/darkcyber-vault/internal/store"
	"github.com/lovincyrus/darkcyber-vault/internal/vault"
)

func provideStore(conf *config.Config, log zerolog.Logger) (*store.DB, func(), error) {
	db, err := store.Open(conf.Storage.Path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("closing database")
		}
	}
	return db, cleanup, nil
}

// provideGenerator falls back to the offline generator when no API key is
// configured, so the vault still runs with AI features degraded.
func provideGenerator(conf *config.Config, log zerolog.Logger) (ai.Generator, error) {
	gen, err := ai.NewGemini(context.Background(), conf.Gemini.APIKey)
	if errors.Is(err, ai.ErrNotConfigured) {
		log.Warn().Msg("no Gemini API key configured, AI features are offline")
		return ai.Offline{}, nil
	}
	if err != nil {
		return nil, err
	}
	return gen, nil
}

func provideLimits(conf *config.Config) vault.Limits {
	return vault.Limits{
		MaxUploadBytes: conf.Vault.MaxUploadBytes,
		TotalCapacity:  conf.Vault.TotalCapacity,
	}
}

func provideServer(v *vault.Vault, conf *config.Config, log zerolog.Logger, rec metrics.Recorder) *api.Server {
	return api.New(v, conf.Addr(), log, rec)
}
