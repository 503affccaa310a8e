// Package synccmder provides the `switchboard sync` commands.
package synccmder

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/switchboard/cmd/switchboard/appenv"
	"github.com/papercomputeco/switchboard/pkg/cliui"
	"github.com/papercomputeco/switchboard/pkg/config"
	"github.com/papercomputeco/switchboard/pkg/syncer"
	"github.com/papercomputeco/switchboard/pkg/tool"
	"github.com/papercomputeco/switchboard/pkg/webdav"
)

const syncLongDesc string = `Sync provider profiles through a WebDAV server.

API keys are encrypted with the sync password before they leave this
machine. Local files are backed up before they are overwritten, and every
change made by a failed run is rolled back.

Modes:
  upload     Replace the remote copy with the local stores
  download   Replace the local stores with the remote copy
  merge      Combine both sides; newer edits win per provider

Configure the server with:
  switchboard config set sync.webdav_url https://dav.example.com/remote.php/dav/files/me
  switchboard config set sync.username me
  switchboard config set sync.password ...
  switchboard config set sync.sync_password ...`

const syncShortDesc string = "Sync provider profiles through WebDAV"

func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: syncShortDesc,
		Long:  syncLongDesc,
	}

	cmd.AddCommand(newModeCmd(syncer.ModeUpload, "Upload local providers to the remote", false))
	cmd.AddCommand(newModeCmd(syncer.ModeDownload, "Replace local providers with the remote copy", true))
	cmd.AddCommand(newModeCmd(syncer.ModeMerge, "Merge local and remote providers", true))
	cmd.AddCommand(newStatusCmd())

	return cmd
}

// syncFlags holds the connection flags every sync subcommand accepts.
// Values are read back through viper so flags override env and config.toml.
type syncFlags struct {
	webdavURL string
	username  string
	authType  string
	remoteDir string
	timeout   uint
	tools     []string
}

func (f *syncFlags) register(cmd *cobra.Command) {
	config.AddStringFlag(cmd, config.SyncFlags, config.FlagWebDAVURL, &f.webdavURL)
	config.AddStringFlag(cmd, config.SyncFlags, config.FlagUsername, &f.username)
	config.AddStringFlag(cmd, config.SyncFlags, config.FlagAuthType, &f.authType)
	config.AddStringFlag(cmd, config.SyncFlags, config.FlagRemoteDir, &f.remoteDir)
	config.AddUintFlag(cmd, config.SyncFlags, config.FlagTimeout, &f.timeout)
	cmd.Flags().StringSliceVarP(&f.tools, "tool", "t", nil, "Limit the run to these tools (default: all)")
}

func (f *syncFlags) registryKeys() []string {
	return []string{
		config.FlagWebDAVURL,
		config.FlagUsername,
		config.FlagAuthType,
		config.FlagRemoteDir,
		config.FlagTimeout,
	}
}

func (f *syncFlags) parseTools() ([]tool.Tool, error) {
	out := make([]tool.Tool, 0, len(f.tools))
	for _, name := range f.tools {
		t, err := tool.Parse(name)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// settings resolves the effective sync settings: flags, then
// SWITCHBOARD_SYNC_* env vars, then config.toml (or the keyring for
// secrets), then defaults.
func (f *syncFlags) settings(cmd *cobra.Command, env *appenv.Env) (config.SyncConfig, error) {
	config.BindRegisteredFlags(env.Viper, cmd, config.SyncFlags, f.registryKeys())

	cfg, err := env.Configer.LoadConfig()
	if err != nil {
		return config.SyncConfig{}, err
	}
	base, err := env.Configer.ResolveSync(cfg)
	if err != nil {
		return config.SyncConfig{}, err
	}

	sc := config.SyncFromViper(env.Viper, base)
	if sc.WebDAVURL == "" {
		return config.SyncConfig{}, errors.New("sync.webdav_url is not set; run: switchboard config set sync.webdav_url <url>")
	}
	return sc, nil
}

func newClient(sc config.SyncConfig, env *appenv.Env) (*webdav.Client, error) {
	return webdav.New(webdav.Config{
		URL:       sc.WebDAVURL,
		Username:  sc.Username,
		Password:  sc.Password,
		AuthType:  sc.AuthType,
		RemoteDir: sc.RemoteDir,
		Timeout:   time.Duration(sc.TimeoutSeconds) * time.Second,
		Logger:    env.Logger,
	})
}

type modeCommander struct {
	mode  syncer.Mode
	flags syncFlags
	yes   bool
}

func newModeCmd(mode syncer.Mode, short string, confirm bool) *cobra.Command {
	cmder := &modeCommander{mode: mode}

	cmd := &cobra.Command{
		Use:   string(mode),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	cmder.flags.register(cmd)
	if confirm {
		cmd.Flags().BoolVarP(&cmder.yes, "yes", "y", false, "Do not ask for confirmation")
	}

	return cmd
}

func (c *modeCommander) run(cmd *cobra.Command) error {
	env, err := appenv.Load(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	tools, err := c.flags.parseTools()
	if err != nil {
		return err
	}
	sc, err := c.flags.settings(cmd, env)
	if err != nil {
		return err
	}
	client, err := newClient(sc, env)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if c.mode != syncer.ModeUpload && !c.yes {
		question := "Replace local providers with the remote copy?"
		if c.mode == syncer.ModeMerge {
			question = "Merge remote providers into the local stores?"
		}
		ok, err := cliui.Confirm(cmd.InOrStdin(), out, question)
		if err != nil {
			return err
		}
		if !ok {
			return cliui.ErrAborted
		}
	}

	password := sc.SyncPassword
	if password == "" {
		password, err = cliui.PromptSecret(out, "Sync password: ")
		if err != nil {
			return err
		}
	}

	engine, err := syncer.New(syncer.Options{
		Store:    env.Store,
		Remote:   client,
		Password: password,
		Tools:    tools,
		Logger:   env.Logger,
		OnSuccess: func(res *syncer.Result) error {
			return env.Configer.RecordSync(res.At)
		},
	})
	if err != nil {
		return err
	}

	var res *syncer.Result
	ctx := cmd.Context()
	if err := cliui.Step(out, stepMessage(c.mode), func() error {
		var runErr error
		switch c.mode {
		case syncer.ModeUpload:
			res, runErr = engine.Upload(ctx)
		case syncer.ModeDownload:
			res, runErr = engine.Download(ctx)
		case syncer.ModeMerge:
			res, runErr = engine.Merge(ctx)
		}
		return runErr
	}); err != nil {
		return err
	}

	printResult(out, res)
	return nil
}

func stepMessage(mode syncer.Mode) string {
	switch mode {
	case syncer.ModeUpload:
		return "Uploading providers"
	case syncer.ModeDownload:
		return "Downloading providers"
	default:
		return "Merging providers"
	}
}

func printResult(w io.Writer, res *syncer.Result) {
	fmt.Fprintln(w)
	switch {
	case res.AlreadyInSync:
		fmt.Fprintf(w, "  %s Already in sync\n", cliui.SuccessMark)
	case res.Degraded:
		fmt.Fprintf(w, "  %s No remote data yet; uploaded local providers\n", cliui.SuccessMark)
	}

	for _, tr := range res.Tools {
		line := fmt.Sprintf("  %s %-12s %s", cliui.SuccessMark, tr.Tool.DisplayName(), tr.Action)
		if tr.Uploaded && tr.Action != syncer.ActionUploaded {
			line += cliui.DimStyle.Render(" (uploaded)")
		}
		fmt.Fprintln(w, line)
		for _, b := range tr.Backups {
			fmt.Fprintf(w, "      %s %s\n", cliui.DimStyle.Render("backup:"), cliui.DimStyle.Render(b))
		}
	}
	for _, s := range res.Skipped {
		fmt.Fprintf(w, "  %s %-12s %s\n", cliui.WarnStyle.Render("-"), s.Tool.DisplayName(), cliui.DimStyle.Render(s.Reason))
	}
	fmt.Fprintln(w)
}
