package provider_test

import (
	"encoding/json"
	"errors"
	"regexp"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/switchboard/pkg/provider"
	"github.com/papercomputeco/switchboard/pkg/tool"
)

var _ = Describe("NewID", func() {
	It("has the {tool}-{unixMillis}-{random6} shape", func() {
		id := provider.NewID(tool.Codex, time.UnixMilli(1712345678901))
		Expect(id).To(MatchRegexp(`^codex-1712345678901-[0-9a-f]{6}$`))
	})

	It("does not repeat within the same millisecond", func() {
		now := time.Now()
		seen := map[string]bool{}
		for range 50 {
			id := provider.NewID(tool.Claude, now)
			Expect(seen).NotTo(HaveKey(id))
			seen[id] = true
		}
	})
})

var _ = Describe("ToolStorage JSON", func() {
	It("preserves unknown top-level keys across a round trip", func() {
		in := []byte(`{
			"providers": [{"id":"a","name":"A","baseUrl":"https://x/","apiKey":"k","createdAt":1,"updatedAt":2}],
			"currentProviderId": "a",
			"schemaVersion": 3,
			"ui": {"collapsed": true}
		}`)

		var doc provider.ToolStorage
		Expect(json.Unmarshal(in, &doc)).To(Succeed())
		Expect(doc.Providers).To(HaveLen(1))
		Expect(doc.Providers[0].BaseURL).To(Equal("https://x/"))
		Expect(doc.CurrentProviderID).To(Equal("a"))
		Expect(doc.Extra).To(HaveKey("schemaVersion"))

		out, err := json.Marshal(doc)
		Expect(err).NotTo(HaveOccurred())

		var generic map[string]any
		Expect(json.Unmarshal(out, &generic)).To(Succeed())
		Expect(generic).To(HaveKeyWithValue("schemaVersion", BeNumerically("==", 3)))
		Expect(generic).To(HaveKeyWithValue("ui", HaveKeyWithValue("collapsed", true)))
	})

	It("writes an empty providers array and omits an unset pointer", func() {
		out, err := json.Marshal(provider.ToolStorage{})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(out)).To(Equal(`{"providers":[]}`))
	})

	It("never persists presets as built-in", func() {
		doc := provider.ToolStorage{Presets: []provider.PresetTemplate{{Name: "p", BaseURL: "https://p", IsBuiltIn: true}}}
		out, err := json.Marshal(doc)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(out)).To(ContainSubstring(`"isBuiltIn":false`))
	})

	It("produces byte-identical output for the same document", func() {
		doc := provider.ToolStorage{
			Providers: []provider.Provider{{ID: "a", Name: "A", BaseURL: "https://a", APIKey: "k"}},
			Extra:     map[string]json.RawMessage{"z": json.RawMessage(`1`), "b": json.RawMessage(`2`)},
		}
		first, err := json.Marshal(doc)
		Expect(err).NotTo(HaveOccurred())
		second, err := json.Marshal(doc.Clone())
		Expect(err).NotTo(HaveOccurred())
		Expect(second).To(Equal(first))
	})
})

var _ = Describe("ToolStorage helpers", func() {
	doc := provider.ToolStorage{
		Providers: []provider.Provider{
			{ID: "a", Name: "Alpha"},
			{ID: "b", Name: "beta"},
		},
		CurrentProviderID: "b",
	}

	It("finds by id and case-sensitive name", func() {
		Expect(doc.Find("b")).To(Equal(1))
		Expect(doc.Find("c")).To(Equal(-1))
		Expect(doc.FindByName("Alpha")).To(Equal(0))
		Expect(doc.FindByName("alpha")).To(Equal(-1))
	})

	It("resolves the current provider", func() {
		cur, ok := doc.Current()
		Expect(ok).To(BeTrue())
		Expect(cur.Name).To(Equal("beta"))

		dangling := doc.Clone()
		dangling.CurrentProviderID = "gone"
		_, ok = dangling.Current()
		Expect(ok).To(BeFalse())
	})

	It("clones without sharing the providers slice", func() {
		cp := doc.Clone()
		cp.Providers[0].Name = "changed"
		Expect(doc.Providers[0].Name).To(Equal("Alpha"))
	})
})

var _ = Describe("SortNewestFirst", func() {
	It("orders by createdAt descending with id as tie breaker", func() {
		sorted := provider.SortNewestFirst([]provider.Provider{
			{ID: "b", CreatedAt: 10},
			{ID: "c", CreatedAt: 30},
			{ID: "a", CreatedAt: 10},
		})
		ids := []string{sorted[0].ID, sorted[1].ID, sorted[2].ID}
		Expect(ids).To(Equal([]string{"c", "a", "b"}))
	})
})

var _ = Describe("Validate", func() {
	valid := provider.Provider{Name: "n", BaseURL: "https://api.example.com/v1/", APIKey: "k"}

	It("accepts a well-formed provider", func() {
		Expect(provider.Validate(valid)).To(Succeed())
	})

	DescribeTable("rejects malformed input",
		func(mutate func(*provider.Provider), field string) {
			p := valid
			mutate(&p)
			err := provider.Validate(p)

			var verr *provider.ValidationError
			Expect(errors.As(err, &verr)).To(BeTrue())
			Expect(verr.Field).To(Equal(field))
		},
		Entry("blank name", func(p *provider.Provider) { p.Name = "  " }, "name"),
		Entry("missing base url", func(p *provider.Provider) { p.BaseURL = "" }, "baseUrl"),
		Entry("relative base url", func(p *provider.Provider) { p.BaseURL = "api.example.com" }, "baseUrl"),
		Entry("non-http scheme", func(p *provider.Provider) { p.BaseURL = "ftp://example.com" }, "baseUrl"),
		Entry("empty api key", func(p *provider.Provider) { p.APIKey = "" }, "apiKey"),
	)
})

var _ = Describe("MaskKey", func() {
	It("keeps the last four characters", func() {
		Expect(provider.MaskKey("sk-abcdef1234")).To(Equal("****1234"))
		Expect(provider.MaskKey("abc")).To(Equal("****"))
		Expect(provider.MaskKey("")).To(BeEmpty())
		Expect(regexp.MustCompile(`abcdef`).MatchString(provider.MaskKey("sk-abcdef1234"))).To(BeFalse())
	})
})
