// Package providercmder provides the `switchboard provider` commands.
package providercmder

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/switchboard/pkg/cliui"
	"github.com/papercomputeco/switchboard/pkg/provider"
)

const providerLongDesc string = `Manage provider profiles for an AI CLI tool.

A provider is a named base URL + API key (+ optional model). Switching to a
provider rewrites only the fields switchboard owns in the tool's native
config; everything else in those files is left alone.

Supported tools: codex, claude, gemini, opencode, openclaw.`

const providerShortDesc string = "Manage provider profiles"

func NewProviderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "provider",
		Aliases: []string{"providers", "p"},
		Short:   providerShortDesc,
		Long:    providerLongDesc,
	}

	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newShowCmd())
	cmd.AddCommand(newEditCmd())
	cmd.AddCommand(newRemoveCmd())
	cmd.AddCommand(newUseCmd())
	cmd.AddCommand(newCurrentCmd())
	cmd.AddCommand(newCloneCmd())
	cmd.AddCommand(newImportCmd())

	return cmd
}

// printProvider writes the detail view shared by show, current and add.
func printProvider(w io.Writer, p provider.Provider, current bool, showKey bool) {
	key := provider.MaskKey(p.APIKey)
	if showKey {
		key = p.APIKey
	}

	name := cliui.ValueStyle.Render(p.Name)
	if current {
		name = cliui.CurrentStyle.Render(p.Name) + " " + cliui.DimStyle.Render("(current)")
	}

	fmt.Fprintf(w, "  %s %s\n", cliui.KeyStyle.Render("Name:    "), name)
	fmt.Fprintf(w, "  %s %s\n", cliui.KeyStyle.Render("ID:      "), cliui.DimStyle.Render(p.ID))
	fmt.Fprintf(w, "  %s %s\n", cliui.KeyStyle.Render("Base URL:"), p.BaseURL)
	fmt.Fprintf(w, "  %s %s\n", cliui.KeyStyle.Render("API key: "), key)
	if p.Model != "" {
		fmt.Fprintf(w, "  %s %s\n", cliui.KeyStyle.Render("Model:   "), p.Model)
	}
	if p.Desc != "" {
		fmt.Fprintf(w, "  %s %s\n", cliui.KeyStyle.Render("Desc:    "), p.Desc)
	}
	if p.LastUsedAt > 0 {
		fmt.Fprintf(w, "  %s %s\n", cliui.KeyStyle.Render("Last used:"), formatMillis(p.LastUsedAt))
	}
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).Local().Format(time.DateTime)
}
