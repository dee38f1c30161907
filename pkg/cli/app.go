package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mchmarny/churn/pkg/config"
	"github.com/mchmarny/churn/pkg/logging"
	"github.com/mchmarny/churn/pkg/model"
	urfave "github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	appName      = "churn"
	appConfigKey = "app-config"

	exitCodeError = 1
	exitCodeUsage = 2
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""
)

// Loader opens the classifier stored at path.
type Loader func(path string, strict bool) (model.Classifier, error)

func loadModel(path string, strict bool) (model.Classifier, error) {
	return model.Load(path, model.WithStrictCategories(strict))
}

// Execute creates and runs the CLI application.
func Execute() {
	logging.SetDefaultCLILogger("info")

	app := newApp(loadModel)
	if err := app.Run(context.Background(), os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var ue *UsageError
	if errors.As(err, &ue) {
		return exitCodeUsage
	}
	return exitCodeError
}

type appConfig struct {
	*config.Config
}

func getConfig(cmd *urfave.Command) *appConfig {
	return cmd.Root().Metadata[appConfigKey].(*appConfig)
}

func newApp(load Loader) *urfave.Command {
	return &urfave.Command{
		Name:            appName,
		Version:         fmt.Sprintf("%s (%s - %s)", version, commit, date),
		Usage:           "Estimate the churn probability of a customer with a pretrained model",
		HideHelpCommand: true,
		Metadata:        map[string]any{},
		Flags:           append(appFlags(), recordFlags()...),
		OnUsageError:    onUsageError,
		Before: func(ctx context.Context, cmd *urfave.Command) (context.Context, error) {
			cfg, err := resolveConfig(cmd)
			if err != nil {
				return ctx, &UsageError{Err: err}
			}

			slog.SetDefault(logging.NewCLILogger(cmd.Root().ErrWriter, cfg.LogLevel))
			slog.Debug("config resolved",
				"model", cfg.ModelPath,
				"format", cfg.Format,
				"strict", cfg.StrictCategories,
			)

			cmd.Root().Metadata[appConfigKey] = &appConfig{Config: cfg}
			return ctx, nil
		},
		Action: func(ctx context.Context, cmd *urfave.Command) error {
			return cmdPredict(ctx, cmd, load)
		},
	}
}

// resolveConfig layers explicitly set flags over the config file over
// the defaults.
func resolveConfig(cmd *urfave.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String(configFlagName))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet(modelFlagName) {
		cfg.ModelPath = cmd.String(modelFlagName)
	}
	if cmd.IsSet(formatFlagName) {
		cfg.Format = cmd.String(formatFlagName)
	}
	if cmd.IsSet(strictFlagName) {
		cfg.StrictCategories = cmd.Bool(strictFlagName)
	}
	if cmd.IsSet(logLevelFlagName) {
		cfg.LogLevel = cmd.String(logLevelFlagName)
	}
	if cmd.Bool(debugFlagName) {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func onUsageError(_ context.Context, cmd *urfave.Command, err error, _ bool) error {
	fmt.Fprintf(cmd.Root().ErrWriter, "Incorrect Usage: %s\n", err)
	fmt.Fprintf(cmd.Root().ErrWriter, "Run '%s --help' for usage.\n", cmd.Root().Name)
	return &UsageError{Err: err}
}

func encode(w io.Writer, format string, v any) error {
	if format == config.FormatYAML {
		e := yaml.NewEncoder(w)
		defer e.Close()
		return e.Encode(v)
	}
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
