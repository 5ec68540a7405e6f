package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"go.hackfix.me/purr/app/config"
	actx "go.hackfix.me/purr/app/context"
)

// CLI is the command line interface of purr.
type CLI struct {
	Serve Serve `kong:"cmd,help='Start the web server.'"`
	Cat   Cat   `kong:"cmd,help='Manage cats.'"`

	Log struct {
		Level slog.Level `enum:"DEBUG,INFO,WARN,ERROR" default:"INFO" help:"Set the app logging level."`
	} `embed:"" prefix:"log-"`
	// NOTE: kong.ConfigFlag is not used, since configuration is managed
	// independently from the CLI.
	ConfigFile string           `kong:"default='${configFile}',help='Path to the purr configuration file.'"`
	DataDir    string           `kong:"default='${dataDir}',help='Path to the directory where purr data is stored.'"`
	Version    kong.VersionFlag `kong:"help='Output version and exit.'"`

	kong *kong.Kong
	kctx *kong.Context
}

// New initializes the command-line interface.
func New(configFilePath, dataDir, version string, opts ...kong.Option) (*CLI, error) {
	c := &CLI{}
	kopts := append([]kong.Option{
		kong.Name("purr"),
		kong.UsageOnError(),
		kong.DefaultEnvars("PURR"),
		kong.NamedMapper("xduration", DurationMapper{}),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			Summary:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"configFile": configFilePath,
			"dataDir":    dataDir,
			"version":    version,
		},
	}, opts...)

	kparser, err := kong.New(c, kopts...)
	if err != nil {
		return nil, fmt.Errorf("failed creating the Kong parser: %w", err)
	}

	c.kong = kparser

	return c, nil
}

// Execute starts the command execution. Parse must be called before this method.
func (c *CLI) Execute(appCtx *actx.Context) error {
	if c.kctx == nil {
		panic("the CLI wasn't initialized properly")
	}
	c.kong.Stdout = appCtx.Stdout
	c.kong.Stderr = appCtx.Stderr

	//nolint:wrapcheck // This is fine.
	return c.kctx.Run(appCtx)
}

// Parse the given command line arguments. This method must be called before
// Execute.
func (c *CLI) Parse(args []string) error {
	kctx, err := c.kong.Parse(args)
	if err != nil {
		return fmt.Errorf("failed parsing CLI arguments: %w", err)
	}
	c.kctx = kctx

	return nil
}

// Command returns the full path of the executed command.
func (c *CLI) Command() string {
	if c.kctx == nil {
		panic("the CLI wasn't initialized properly")
	}
	cmdPath := []string{}
	for _, p := range c.kctx.Path {
		if p.Command != nil {
			cmdPath = append(cmdPath, p.Command.Name)
		}
	}

	return strings.Join(cmdPath, " ")
}

// NeedsStore returns true if the executed command uses the local cat store.
// Parse must be called before this method.
func (c *CLI) NeedsStore() bool {
	switch c.Command() {
	case "serve":
		return true
	case "":
		return false
	default:
		return c.Cat.Remote == ""
	}
}

// ApplyConfig applies configuration values to the CLI, but only if they weren't
// already set.
func (c *CLI) ApplyConfig(cfg *config.Config) {
	if c.Serve.Address == "" && cfg.Server.Address.Valid {
		c.Serve.Address = cfg.Server.Address.V
	}
	if c.Serve.ErrorLevel == "" && cfg.Server.ErrorLevel.Valid {
		c.Serve.ErrorLevel = string(cfg.Server.ErrorLevel.V)
	}
	if c.Serve.ReadTimeout == 0 && cfg.Server.ReadTimeout.Valid {
		c.Serve.ReadTimeout = cfg.Server.ReadTimeout.V
	}
	if c.Serve.WriteTimeout == 0 && cfg.Server.WriteTimeout.Valid {
		c.Serve.WriteTimeout = cfg.Server.WriteTimeout.V
	}
}
