// Package appenv builds the shared runtime (paths, store, config, logger)
// every switchboard subcommand works against.
package appenv

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papercomputeco/switchboard/pkg/config"
	"github.com/papercomputeco/switchboard/pkg/dotdir"
	"github.com/papercomputeco/switchboard/pkg/fsutil"
	"github.com/papercomputeco/switchboard/pkg/logger"
	"github.com/papercomputeco/switchboard/pkg/store"
	"github.com/papercomputeco/switchboard/pkg/tool"
	"github.com/papercomputeco/switchboard/pkg/writer"
)

type Env struct {
	closers []io.Closer

	ConfigDir string
	Paths     dotdir.Paths
	Registry  *writer.Registry
	Store     *store.Store
	Configer  *config.Configer
	Viper     *viper.Viper
	Logger    *slog.Logger
}

// Load resolves the switchboard root from --config-dir and wires the
// store and writer registry against it. Debug logging comes from --debug,
// SWITCHBOARD_LOG_DEBUG or log.debug in config.toml; --log-file (or
// log.file) adds a JSON copy of every record. Callers Close the Env.
func Load(cmd *cobra.Command) (*Env, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")

	paths, err := dotdir.NewManager().Resolve(configDir)
	if err != nil {
		return nil, err
	}

	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	v, err := config.InitViper(configDir)
	if err != nil {
		return nil, err
	}
	config.BindRegisteredFlags(v, cmd, config.GlobalFlags, []string{config.FlagDebug, config.FlagLogFile})

	var closers []io.Closer
	log := logger.New(
		logger.WithDebug(v.GetBool("log.debug")),
		logger.WithPretty(true),
		logger.WithWriter(cmd.ErrOrStderr()),
	)
	if path := v.GetString("log.file"); path != "" {
		f, err := openLogFile(path)
		if err != nil {
			return nil, err
		}
		closers = append(closers, f)
		log = logger.Multi(log, logger.New(
			logger.WithJSON(true),
			logger.WithDebug(true),
			logger.WithSource(true),
			logger.WithWriter(f),
		))
	}

	registry := writer.NewRegistry(paths)
	return &Env{
		closers:   closers,
		ConfigDir: configDir,
		Paths:     paths,
		Registry:  registry,
		Store:     store.New(paths, registry, store.WithLogger(log)),
		Configer:  cfger,
		Viper:     v,
		Logger:    log,
	}, nil
}

// Close releases files opened by Load.
func (e *Env) Close() error {
	var errs []error
	for _, c := range e.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), fsutil.DirMode); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, fsutil.FileMode)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}

// CompleteTool completes the first positional argument with tool names.
func CompleteTool(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return tool.Names(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

// CompleteProvider completes the tool argument, then provider names for it.
func CompleteProvider(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return CompleteTool(cmd, args, toComplete)
	}
	if len(args) > 1 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	t, err := tool.Parse(args[0])
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	env, err := Load(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer env.Close()

	providers, err := env.Store.List(t)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	names := make([]string, 0, len(providers))
	for _, p := range providers {
		names = append(names, p.Name)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
