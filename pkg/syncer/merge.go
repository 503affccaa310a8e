package syncer

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/papercomputeco/switchboard/pkg/provider"
)

// MergeOutcome is the result of MergeProviders.
type MergeOutcome struct {
	Providers []provider.Provider

	// HasChanges reports whether Providers differs from the local set.
	HasChanges bool

	// Aliases maps the id of every record dropped by content dedup to the id
	// of the record that replaced it.
	Aliases map[string]string

	// Renamed maps the ids of records that were renamed to avoid a name
	// collision to their new name.
	Renamed map[string]string
}

// MergeProviders reconciles a local and a remote provider set:
//
//   - the same id on both sides keeps the record with the greater
//     updatedAt, local on a tie;
//   - different ids with the same (baseUrl, apiKey) are one logical
//     provider, resolved the same way, and the loser is dropped;
//   - anything else is kept. When a new remote record takes the name of a
//     local one, the record with the greater id is renamed
//     "<name> (<last 6 chars of id>)", then "... #2", "... #3", and its
//     updatedAt is bumped by one. Both machines of a clash pick the same
//     record that way.
//
// Local order is preserved and new remote records are appended in remote
// order. Neither input is modified.
func MergeProviders(local, remote []provider.Provider) MergeOutcome {
	out := MergeOutcome{
		Providers: slices.Clone(local),
		Aliases:   map[string]string{},
		Renamed:   map[string]string{},
	}
	merged := &out.Providers

	for _, r := range remote {
		if i := indexByID(*merged, r.ID); i >= 0 {
			if r.UpdatedAt > (*merged)[i].UpdatedAt {
				(*merged)[i] = out.uniqueName(*merged, i, r)
			}
			continue
		}

		if i := indexByContent(*merged, r); i >= 0 {
			kept := (*merged)[i]
			if r.UpdatedAt > kept.UpdatedAt {
				(*merged)[i] = out.uniqueName(*merged, i, r)
				out.Aliases[kept.ID] = r.ID
			} else {
				out.Aliases[r.ID] = kept.ID
			}
			continue
		}

		clash := slices.IndexFunc(*merged, func(p provider.Provider) bool { return p.Name == r.Name })
		*merged = append(*merged, r)
		last := len(*merged) - 1
		if clash >= 0 && (*merged)[clash].ID > r.ID {
			(*merged)[clash] = out.uniqueName(*merged, clash, (*merged)[clash])
		}
		(*merged)[last] = out.uniqueName(*merged, last, r)
	}

	out.HasChanges = !sameSet(out.Providers, local)
	return out
}

// uniqueName renames r, the record at index self, when another entry
// already uses its name.
func (o *MergeOutcome) uniqueName(set []provider.Provider, self int, r provider.Provider) provider.Provider {
	taken := func(name string) bool {
		for i, p := range set {
			if i != self && p.Name == name {
				return true
			}
		}
		return false
	}
	if !taken(r.Name) {
		return r
	}

	base := fmt.Sprintf("%s (%s)", r.Name, idSuffix(r.ID))
	name := base
	for n := 2; taken(name); n++ {
		name = fmt.Sprintf("%s #%d", base, n)
	}
	r.Name = name
	// A rename counts as an edit.
	r.UpdatedAt++
	o.Renamed[r.ID] = name
	return r
}

func idSuffix(id string) string {
	if len(id) <= 6 {
		return id
	}
	return id[len(id)-6:]
}

func indexByID(set []provider.Provider, id string) int {
	return slices.IndexFunc(set, func(p provider.Provider) bool { return p.ID == id })
}

func indexByContent(set []provider.Provider, r provider.Provider) int {
	return slices.IndexFunc(set, func(p provider.Provider) bool {
		return p.BaseURL == r.BaseURL && p.APIKey == r.APIKey
	})
}

// sameSet compares two provider sets by membership and field values,
// ignoring order.
func sameSet(a, b []provider.Provider) bool {
	if len(a) != len(b) {
		return false
	}
	byID := func(x, y provider.Provider) int { return cmp.Compare(x.ID, y.ID) }
	as, bs := slices.Clone(a), slices.Clone(b)
	slices.SortFunc(as, byID)
	slices.SortFunc(bs, byID)
	return slices.Equal(as, bs)
}

// mergePresets unions user presets by name; local entries win.
func mergePresets(local, remote []provider.PresetTemplate) []provider.PresetTemplate {
	out := slices.Clone(local)
	for _, r := range remote {
		if !slices.ContainsFunc(out, func(p provider.PresetTemplate) bool { return p.Name == r.Name }) {
			out = append(out, r)
		}
	}
	return out
}

func samePresets(a, b []provider.PresetTemplate) bool {
	if len(a) != len(b) {
		return false
	}
	byName := func(x, y provider.PresetTemplate) int { return cmp.Compare(x.Name, y.Name) }
	as, bs := slices.Clone(a), slices.Clone(b)
	slices.SortFunc(as, byName)
	slices.SortFunc(bs, byName)
	return slices.Equal(as, bs)
}

// resolvePointer picks the active provider id for a merged set: the local
// pointer if it survived, else its dedup replacement, else the remote
// pointer (or its replacement), else none.
func resolvePointer(merged []provider.Provider, aliases map[string]string, local, remote string) string {
	for _, id := range []string{local, aliases[local], remote, aliases[remote]} {
		if id != "" && indexByID(merged, id) >= 0 {
			return id
		}
	}
	return ""
}
