package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline, so the same logical flag
// reads the same on "sync upload", "sync merge" and "sync status".
type Flag struct {
	// Name is the long flag name (e.g. "webdav-url").
	Name string

	// Shorthand is the one-letter short flag. Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "sync.webdav_url").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
const (
	FlagWebDAVURL = "webdav-url"
	FlagUsername  = "username"
	FlagAuthType  = "auth-type"
	FlagRemoteDir = "remote-dir"
	FlagTimeout   = "timeout"
	FlagDebug     = "debug"
	FlagLogFile   = "log-file"
)

// SyncFlags are the flags shared by every sync subcommand.
var SyncFlags = FlagSet{
	FlagWebDAVURL: {Name: "webdav-url", ViperKey: "sync.webdav_url", Description: "WebDAV endpoint URL"},
	FlagUsername:  {Name: "username", Shorthand: "u", ViperKey: "sync.username", Description: "WebDAV username"},
	FlagAuthType:  {Name: "auth-type", ViperKey: "sync.auth_type", Description: "WebDAV auth type (basic or digest)"},
	FlagRemoteDir: {Name: "remote-dir", ViperKey: "sync.remote_dir", Description: "Remote directory holding <tool>.json documents"},
	FlagTimeout:   {Name: "timeout", ViperKey: "sync.timeout_seconds", Description: "Request timeout in seconds"},
}

// GlobalFlags are persistent flags on the root command.
var GlobalFlags = FlagSet{
	FlagDebug:   {Name: "debug", Shorthand: "d", ViperKey: "log.debug", Description: "Enable debug logging"},
	FlagLogFile: {Name: "log-file", ViperKey: "log.file", Description: "Also write JSON log records to this file"},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddUintFlag registers a uint flag on cmd from the given FlagSet.
func AddUintFlag(cmd *cobra.Command, fs FlagSet, registryKey string, target *uint) {
	def, ok := fs[registryKey]
	if !ok {
		return
	}

	defaultVal := defaultUint(def.ViperKey)
	if def.Shorthand != "" {
		cmd.Flags().UintVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.Flags().UintVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddPersistentStringFlag registers a persistent string flag on cmd.
func AddPersistentStringFlag(cmd *cobra.Command, fs FlagSet, registryKey string, target *string) {
	def, ok := fs[registryKey]
	if !ok {
		return
	}

	defaultVal := defaultString(def.ViperKey)
	if def.Shorthand != "" {
		cmd.PersistentFlags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.PersistentFlags().StringVar(target, def.Name, defaultVal, def.Description)
	}
}

// AddPersistentBoolFlag registers a persistent bool flag on cmd.
func AddPersistentBoolFlag(cmd *cobra.Command, fs FlagSet, registryKey string, target *bool) {
	def, ok := fs[registryKey]
	if !ok {
		return
	}

	defaultVal := defaultBool(def.ViperKey)
	if def.Shorthand != "" {
		cmd.PersistentFlags().BoolVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
	} else {
		cmd.PersistentFlags().BoolVar(target, def.Name, defaultVal, def.Description)
	}
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this after InitViper to connect flags to the
// viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

func defaults() *viper.Viper {
	v := viper.New()
	setViperDefaults(v)
	return v
}

func defaultString(viperKey string) string { return defaults().GetString(viperKey) }
func defaultUint(viperKey string) uint     { return defaults().GetUint(viperKey) }
func defaultBool(viperKey string) bool     { return defaults().GetBool(viperKey) }
