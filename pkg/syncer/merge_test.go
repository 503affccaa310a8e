package syncer_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/switchboard/pkg/provider"
	"github.com/papercomputeco/switchboard/pkg/syncer"
)

var _ = Describe("MergeProviders", func() {
	It("keeps the newer record for the same id", func() {
		local := []provider.Provider{{ID: "a", Name: "A", UpdatedAt: 100, BaseURL: "x", APIKey: "k"}}
		remote := []provider.Provider{{ID: "a", Name: "A", UpdatedAt: 200, BaseURL: "x2", APIKey: "k"}}

		out := syncer.MergeProviders(local, remote)
		Expect(out.Providers).To(Equal(remote))
		Expect(out.HasChanges).To(BeTrue())
	})

	It("keeps local on an updatedAt tie", func() {
		local := []provider.Provider{{ID: "a", Name: "A", UpdatedAt: 100, BaseURL: "x", APIKey: "k"}}
		remote := []provider.Provider{{ID: "a", Name: "A", UpdatedAt: 100, BaseURL: "y", APIKey: "k"}}

		out := syncer.MergeProviders(local, remote)
		Expect(out.Providers).To(Equal(local))
		Expect(out.HasChanges).To(BeFalse())
	})

	It("collapses records with the same base url and key", func() {
		local := []provider.Provider{{ID: "a", Name: "Mine", BaseURL: "u", APIKey: "p", UpdatedAt: 50}}
		remote := []provider.Provider{{ID: "b", Name: "Theirs", BaseURL: "u", APIKey: "p", UpdatedAt: 80}}

		out := syncer.MergeProviders(local, remote)
		Expect(out.Providers).To(HaveLen(1))
		Expect(out.Providers[0].ID).To(Equal("b"))
		Expect(out.Aliases).To(HaveKeyWithValue("a", "b"))
	})

	It("drops an older duplicate from the remote side", func() {
		local := []provider.Provider{{ID: "a", Name: "Mine", BaseURL: "u", APIKey: "p", UpdatedAt: 90}}
		remote := []provider.Provider{{ID: "b", Name: "Theirs", BaseURL: "u", APIKey: "p", UpdatedAt: 80}}

		out := syncer.MergeProviders(local, remote)
		Expect(out.Providers).To(Equal(local))
		Expect(out.HasChanges).To(BeFalse())
		Expect(out.Aliases).To(HaveKeyWithValue("b", "a"))
	})

	It("keeps both records when only the name collides", func() {
		local := []provider.Provider{
			{ID: "claude-1-aaaaaa", Name: "Work", BaseURL: "https://a.dev", APIKey: "1"},
			{ID: "claude-2-bbbbbb", Name: "Work (cccccc)", BaseURL: "https://b.dev", APIKey: "2"},
		}
		remote := []provider.Provider{
			{ID: "claude-3-cccccc", Name: "Work", BaseURL: "https://c.dev", APIKey: "3"},
			{ID: "claude-4-dddddd", Name: "Home", BaseURL: "https://d.dev", APIKey: "4"},
		}

		out := syncer.MergeProviders(local, remote)
		names := []string{}
		for _, p := range out.Providers {
			names = append(names, p.Name)
		}
		Expect(names).To(Equal([]string{"Work", "Work (cccccc)", "Work (cccccc) #2", "Home"}))
		Expect(out.Renamed).To(HaveKeyWithValue("claude-3-cccccc", "Work (cccccc) #2"))
		Expect(out.HasChanges).To(BeTrue())
	})

	It("renames the record with the greater id whichever side it is on", func() {
		low := provider.Provider{ID: "codex-1-aaaaaa", Name: "Work", BaseURL: "https://a.dev", APIKey: "1", UpdatedAt: 1}
		high := provider.Provider{ID: "codex-2-bbbbbb", Name: "Work", BaseURL: "https://b.dev", APIKey: "2", UpdatedAt: 1}

		onLow := syncer.MergeProviders([]provider.Provider{low}, []provider.Provider{high})
		onHigh := syncer.MergeProviders([]provider.Provider{high}, []provider.Provider{low})

		Expect(onLow.Renamed).To(Equal(map[string]string{high.ID: "Work (bbbbbb)"}))
		Expect(onHigh.Renamed).To(Equal(map[string]string{high.ID: "Work (bbbbbb)"}))
		Expect(onHigh.Providers[0].Name).To(Equal("Work (bbbbbb)"))
		Expect(onHigh.Providers[0].UpdatedAt).To(Equal(int64(2)))
		Expect(onHigh.Providers[1].Name).To(Equal("Work"))
		Expect(onHigh.HasChanges).To(BeTrue())
	})

	It("renames a newer remote version that now collides with another local name", func() {
		local := []provider.Provider{
			{ID: "a-000001", Name: "Old", BaseURL: "x", APIKey: "1", UpdatedAt: 1},
			{ID: "b-000002", Name: "New", BaseURL: "y", APIKey: "2", UpdatedAt: 1},
		}
		remote := []provider.Provider{{ID: "a-000001", Name: "New", BaseURL: "x", APIKey: "1", UpdatedAt: 5}}

		out := syncer.MergeProviders(local, remote)
		Expect(out.Providers[0].Name).To(Equal("New (000001)"))
		Expect(out.Providers[1].Name).To(Equal("New"))
	})

	It("reports no changes for identical sets in any order and leaves inputs alone", func() {
		a := provider.Provider{ID: "a", Name: "A", BaseURL: "x", APIKey: "1", UpdatedAt: 3}
		b := provider.Provider{ID: "b", Name: "B", BaseURL: "y", APIKey: "2", UpdatedAt: 4}
		local := []provider.Provider{a, b}
		remote := []provider.Provider{b, a}

		out := syncer.MergeProviders(local, remote)
		Expect(out.HasChanges).To(BeFalse())
		Expect(out.Providers).To(Equal(local))
		Expect(remote[0]).To(Equal(b))
	})
})
