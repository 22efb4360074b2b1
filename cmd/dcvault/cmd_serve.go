package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/lovincyrus/darkcyber-vault/internal/config"
	"github.com/lovincyrus/darkcyber-vault/internal/di"
)

func cmdServe(c *cli.Context) error {
	flags := &config.Flags{
		ConfigPath: c.String("config"),
		Debug:      c.Bool("debug"),
	}
	a, cleanup, err := di.InitApp(flags)
	if err != nil {
		return fmt.Errorf("starting vault: %w", err)
	}
	defer cleanup()

	return a.Run(c.Context, func(addr string) {
		fmt.Fprintf(os.Stderr, "Vault server listening on http://%s/ui\n", addr)
	})
}
