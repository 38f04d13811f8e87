// Package commands implements the orcli command tree. Commands run the
// tool dispatcher in-process; `orcli serve` exposes the same registry
// over HTTP.
package commands

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/orcli-org/orcli/pkg/config"
	"github.com/orcli-org/orcli/pkg/engine"
	"github.com/orcli-org/orcli/pkg/llm"
	"github.com/orcli-org/orcli/pkg/llm/factory"
	"github.com/orcli-org/orcli/pkg/tool"
	"github.com/orcli-org/orcli/pkg/tool/builtin"
)

// App carries the wired runtime shared by every command. It is built
// once in the root PersistentPreRunE so subcommands can assume it.
type App struct {
	Config     *config.Config
	Engine     *engine.Engine
	Registry   *tool.Registry
	Dispatcher *tool.Dispatcher
	Gateway    *llm.Gateway
	Log        *slog.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd(logger *slog.Logger) *cobra.Command {
	cobra.OnInitialize(initConfig)

	app := &App{Log: logger}

	cmd := &cobra.Command{
		Use:           "orcli",
		Short:         "AI-assisted file operations with single-step undo",
		Long:          "orcli runs schema-validated tools for file, code, web, system and AI operations,\nbacking up every mutation so the last one can be undone.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd)
		},
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Path to configuration file")
	cmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
	viper.BindPFlag("config", cmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log-level", cmd.PersistentFlags().Lookup("log-level"))

	cmd.AddCommand(NewToolsCmd(app))
	cmd.AddCommand(NewHistoryCmd(app))
	cmd.AddCommand(NewBackupsCmd(app))
	cmd.AddCommand(NewServeCmd(app))
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

func initConfig() {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	viper.AddConfigPath(filepath.Join(home, ".orcli"))
	viper.SetConfigType("yaml")
	viper.SetConfigName("config")

	viper.SetEnvPrefix("ORCLI")
	viper.AutomaticEnv()
	viper.ReadInConfig()
}

// init loads configuration and wires engine, registry and dispatcher.
// A missing provider is not fatal; AI-dependent tools fail at call time.
func (a *App) init(cmd *cobra.Command) error {
	cfg, err := config.Load(viper.GetString("config"))
	if err != nil {
		return err
	}
	a.Config = cfg

	if level := viper.GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	a.Log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(a.Log)

	a.Engine = engine.New(cfg, a.Log)

	gateway, err := factory.NewGateway(cmd.Context(), cfg, a.Log)
	if err != nil {
		a.Log.Debug("no provider available", "error", err)
	} else {
		a.Gateway = gateway
	}

	a.Registry = tool.NewRegistry()
	if err := builtin.Register(a.Registry, builtin.Deps{
		Engine:  a.Engine,
		Gateway: a.Gateway,
		Config:  cfg,
		Log:     a.Log,
	}); err != nil {
		return err
	}
	a.Dispatcher = tool.NewDispatcher(a.Registry, tool.NewPolicy(cfg.Security), a.Log)
	return nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
