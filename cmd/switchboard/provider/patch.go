package providercmder

import (
	"github.com/spf13/cobra"

	"github.com/papercomputeco/switchboard/pkg/store"
)

// patchFlags registers the optional field flags shared by edit and clone.
type patchFlags struct {
	name, baseURL, apiKey, model, desc string
}

func (f *patchFlags) register(cmd *cobra.Command, withName bool) {
	if withName {
		cmd.Flags().StringVar(&f.name, "name", "", "New provider name")
	}
	cmd.Flags().StringVar(&f.baseURL, "base-url", "", "API base URL")
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "API key")
	cmd.Flags().StringVar(&f.model, "model", "", "Model override (empty clears it)")
	cmd.Flags().StringVar(&f.desc, "desc", "", "Description (empty clears it)")
}

// patch includes only the flags that were set on the command line, so an
// explicit --model "" clears the model while an absent flag keeps it.
func (f *patchFlags) patch(cmd *cobra.Command) store.Patch {
	var p store.Patch
	set := func(flag string, v *string) *string {
		if cmd.Flags().Changed(flag) {
			return v
		}
		return nil
	}
	p.Name = set("name", &f.name)
	p.BaseURL = set("base-url", &f.baseURL)
	p.APIKey = set("api-key", &f.apiKey)
	p.Model = set("model", &f.model)
	p.Desc = set("desc", &f.desc)
	return p
}
