//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/lovincyrus/darkcyber-vault/internal/ai"
	"github.com/lovincyrus/darkcyber-vault/internal/app"
	"github.com/lovincyrus/darkcyber-vault/internal/config"
	"github.com/lovincyrus/darkcyber-vault/internal/logging"
	"github.com/lovincyrus/darkcyber-vault/internal/metrics"
	"github.com/lovincyrus/darkcyber-vault/internal/store"
	"github.com/lovincyrus/darkcyber-vault/internal/vault"
)

func InitApp(flags *config.Flags) (*app.App, func(), error) {

	wire.Build(
		config.Load,
		logging.New,
		metrics.New,

		provideStore,
		wire.Bind(new(vault.KV), new(*store.DB)),
		wire.Bind(new(vault.ActivityRecorder), new(*store.DB)),
		vault.NewPersistence,

		provideGenerator,
		ai.NewCache,
		ai.OptionsFromConfig,
		ai.New,
		wire.Bind(new(vault.Assistant), new(*ai.Client)),

		provideLimits,
		vault.New,
		provideServer,
		app.New,
	)

	return nil, nil, nil
}
