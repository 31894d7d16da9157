package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	urfave "github.com/urfave/cli/v3"
	"github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"

	"github.com/scisight/interdisc/pkg/config"
	"github.com/scisight/interdisc/pkg/data"
	"github.com/scisight/interdisc/pkg/logging"
)

const (
	appName      = "interdisc"
	appConfigKey = "app-config"

	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""

	debugFlag = &urfave.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs (optional, default: false)",
	}

	configDirFlag = &urfave.StringFlag{
		Name:  "config",
		Usage: "Path to the config directory (default: $HOME/.interdisc)",
	}

	formatFlag = &urfave.StringFlag{
		Name:  "format",
		Usage: "Output format [json, yaml]",
		Value: formatJSON,
	}
)

// Execute creates and runs the CLI application.
func Execute() {
	logging.SetDefaultCLILogger("info")

	app := newApp()
	if err := app.Run(context.Background(), os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appConfig struct {
	Config *config.Config
	Format string
	Debug  bool
}

func getConfig(cmd *urfave.Command) *appConfig {
	return cmd.Root().Metadata[appConfigKey].(*appConfig)
}

func newApp() *urfave.Command {
	return &urfave.Command{
		Name:                  appName,
		Version:               fmt.Sprintf("%s (%s - %s)", version, commit, date),
		EnableShellCompletion: true,
		HideHelpCommand:       true,
		Usage:                 "Interdisciplinarity scores for papers and authors from citation data",
		Metadata:              map[string]any{},
		Flags: []urfave.Flag{
			debugFlag,
			configDirFlag,
			formatFlag,
		},
		Commands: []*urfave.Command{
			scoreCmd,
			resolveCmd,
			fieldsCmd,
			matrixCmd,
			authCmd,
		},
		Before: func(ctx context.Context, cmd *urfave.Command) (context.Context, error) {
			if cmd.Bool(debugFlag.Name) {
				logging.SetDefaultCLILogger("debug")
			}

			format := cmd.String(formatFlag.Name)
			if format == "yml" {
				format = formatYAML
			}
			if format != formatJSON && format != formatYAML {
				return ctx, fmt.Errorf("unsupported output format: %s", format)
			}

			dir := cmd.String(configDirFlag.Name)
			if dir == "" {
				var err error
				dir, _, err = config.GetOrCreateHomeDir(appName)
				if err != nil {
					return ctx, fmt.Errorf("resolving config dir: %w", err)
				}
			}

			cfg, err := config.ReadOrCreate(dir)
			if err != nil {
				return ctx, fmt.Errorf("loading config: %w", err)
			}

			cmd.Metadata[appConfigKey] = &appConfig{
				Config: cfg,
				Format: format,
				Debug:  cmd.Bool(debugFlag.Name),
			}
			return ctx, nil
		},
	}
}

// openStore connects the configured citation store, injecting the
// keyring-held password into the postgres DSN when configured.
func openStore(cfg *config.Config) (*data.Store, error) {
	dsn := cfg.Store.DSN
	if cfg.Store.PasswordFromKeyring && cfg.Store.Driver == data.DriverPostgres {
		pass, err := keyring.Get(keyringService, keyringUser)
		if err != nil {
			return nil, fmt.Errorf("reading store password from keyring: %w", err)
		}
		dsn, err = dsnWithPassword(dsn, pass)
		if err != nil {
			return nil, err
		}
	}
	return data.Open(cfg.Store.Driver, dsn, cfg.Store.Source)
}

func dsnWithPassword(dsn, password string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parsing store DSN: %w", err)
	}
	user := ""
	if u.User != nil {
		user = u.User.Username()
	}
	u.User = url.UserPassword(user, password)
	return u.String(), nil
}

func encode(cmd *urfave.Command, v any) error {
	w := cmd.Root().Writer
	if getConfig(cmd).Format == formatYAML {
		return yaml.NewEncoder(w).Encode(v)
	}
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
