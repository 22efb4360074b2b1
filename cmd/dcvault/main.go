package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

const defaultServerAddr = "http://127.0.0.1:7300"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	addrFlag := &cli.StringFlag{
		Name:    "addr",
		Usage:   "vault server base URL",
		Value:   defaultServerAddr,
		EnvVars: []string{"DCVAULT_ADDR"},
	}

	return &cli.App{
		Name:                 "dcvault",
		Usage:                "DarkCyber secure file vault",
		EnableBashCompletion: true,
		Flags:                []cli.Flag{addrFlag},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the vault server in the foreground",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "path to a YAML config file",
						EnvVars: []string{"DCVAULT_CONFIG"},
					},
					&cli.BoolFlag{
						Name:  "debug",
						Usage: "enable debug logging",
					},
				},
				Action: cmdServe,
			},
			{
				Name:   "ui",
				Usage:  "Open the vault dashboard in a browser",
				Action: cmdUI,
			},
			{
				Name:   "status",
				Usage:  "Show vault statistics",
				Action: cmdStatus,
			},
			{
				Name:      "list",
				Usage:     "List files, optionally filtered by name",
				ArgsUsage: "[query]",
				Action:    cmdList,
			},
			{
				Name:      "upload",
				Usage:     "Upload a file into the vault",
				ArgsUsage: "<path>",
				Action:    cmdUpload,
			},
			{
				Name:      "delete",
				Usage:     "Purge a file from the vault",
				ArgsUsage: "<id>",
				Action:    cmdDelete,
			},
			{
				Name:      "scan",
				Usage:     "Run a security analysis on a file",
				ArgsUsage: "<id>",
				Action:    cmdScan,
			},
			{
				Name:   "chat",
				Usage:  "Talk to the vault assistant",
				Action: cmdChat,
			},
			{
				Name:  "activity",
				Usage: "Show the vault activity log",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "number of entries",
						Value: 20,
					},
				},
				Action: cmdActivity,
			},
		},
	}
}
