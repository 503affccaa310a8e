package synccmder

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/switchboard/cmd/switchboard/appenv"
	"github.com/papercomputeco/switchboard/pkg/cliui"
	"github.com/papercomputeco/switchboard/pkg/fsutil"
	"github.com/papercomputeco/switchboard/pkg/tool"
)

const statusLongDesc string = `Show sync settings and what the remote holds.

Connects to the WebDAV server and reports, per tool, whether a remote copy
exists. Nothing is downloaded or written.`

func newStatusCmd() *cobra.Command {
	flags := &syncFlags{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show sync settings and remote state",
		Long:  statusLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, flags)
		},
	}

	flags.register(cmd)

	return cmd
}

func runStatus(cmd *cobra.Command, flags *syncFlags) error {
	env, err := appenv.Load(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	tools, err := flags.parseTools()
	if err != nil {
		return err
	}
	if len(tools) == 0 {
		tools = tool.All()
	}
	sc, err := flags.settings(cmd, env)
	if err != nil {
		return err
	}
	client, err := newClient(sc, env)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	lastSync := "never"
	if cfg, err := env.Configer.LoadConfig(); err == nil && cfg.Sync.LastSyncAt > 0 {
		lastSync = time.UnixMilli(cfg.Sync.LastSyncAt).Local().Format(time.DateTime)
	}

	fmt.Fprintf(out, "\n  %s %s\n", cliui.KeyStyle.Render("Server:   "), sc.WebDAVURL)
	fmt.Fprintf(out, "  %s %s\n", cliui.KeyStyle.Render("Auth:     "), sc.AuthType)
	fmt.Fprintf(out, "  %s %s\n", cliui.KeyStyle.Render("Remote:   "), cliui.DimStyle.Render(client.RemoteDir()))
	fmt.Fprintf(out, "  %s %s\n\n", cliui.KeyStyle.Render("Last sync:"), lastSync)

	ctx := cmd.Context()
	if err := cliui.Step(out, "Connecting", func() error { return client.Ping(ctx) }); err != nil {
		return err
	}

	for _, t := range tools {
		ok, err := client.Exists(ctx, t)
		if err != nil {
			return err
		}
		state := cliui.DimStyle.Render("no remote copy")
		if ok {
			state = cliui.ValueStyle.Render("remote copy present")
		}
		local := cliui.DimStyle.Render("no local store")
		if fsutil.Exists(env.Store.Path(t)) {
			local = "local store present"
		}
		fmt.Fprintf(out, "  %-12s %s, %s\n", t.DisplayName(), state, local)
	}
	fmt.Fprintln(out)
	return nil
}
