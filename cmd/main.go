package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	cfgPkg "github.com/xhad/docmind/pkg/config"
)

// Version information (set during build)
var (
	Version = "dev"
	Commit  = "none"
)

func main() {
	app := &cli.App{
		Name:    "docmind",
		Usage:   "Ask questions about a PDF",
		Version: fmt.Sprintf("%s (%s)", Version, Commit),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				EnvVars: []string{"DOCMIND_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			chatCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file named by --config and applies command line overrides.
func loadConfig(c *cli.Context) (*cfgPkg.Config, error) {
	cfg, err := cfgPkg.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("port") {
		cfg.Server.Port = c.Int("port")
	}
	if c.IsSet("provider") {
		cfg.LLM.Provider = strings.ToLower(c.String("provider"))
	}
	if c.IsSet("model") {
		cfg.LLM.Model = c.String("model")
	}
	if c.IsSet("server") {
		cfg.Client.ServerURL = c.String("server")
	}
	if c.IsSet("theme") {
		cfg.Client.Theme = c.String("theme")
	}
	return cfg, nil
}

func validationError(errs []cfgPkg.ValidationError) error {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}
