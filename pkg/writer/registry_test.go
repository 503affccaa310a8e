package writer_test

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/switchboard/pkg/dotdir"
	"github.com/papercomputeco/switchboard/pkg/provider"
	"github.com/papercomputeco/switchboard/pkg/tool"
	"github.com/papercomputeco/switchboard/pkg/writer"
)

var _ = Describe("Registry", func() {
	var (
		home string
		reg  *writer.Registry
	)

	BeforeEach(func() {
		home = GinkgoT().TempDir()
		paths, err := dotdir.NewPaths(filepath.Join(home, ".switchboard"), home)
		Expect(err).NotTo(HaveOccurred())
		reg = writer.NewRegistry(paths)
	})

	It("has a writer and presets for every tool", func() {
		for _, t := range tool.All() {
			w, err := reg.Writer(t)
			Expect(err).NotTo(HaveOccurred())
			Expect(w.Tool()).To(Equal(t))

			presets, err := reg.Presets(t)
			Expect(err).NotTo(HaveOccurred())
			Expect(presets).NotTo(BeEmpty())
			for _, p := range presets {
				Expect(p.IsBuiltIn).To(BeTrue())
			}
		}
	})

	It("resolves native paths under the configured home", func() {
		paths, err := reg.Paths(tool.Codex)
		Expect(err).NotTo(HaveOccurred())
		Expect(paths).To(Equal([]string{
			filepath.Join(home, ".codex", "config.toml"),
			filepath.Join(home, ".codex", "auth.json"),
		}))

		paths, err = reg.Paths(tool.OpenCode)
		Expect(err).NotTo(HaveOccurred())
		Expect(paths).To(Equal([]string{filepath.Join(home, ".config", "opencode", "opencode.json")}))
	})

	It("rejects an unknown tool", func() {
		_, err := reg.Writer(tool.Tool(99))
		Expect(err).To(BeAssignableToTypeOf(&tool.UnsupportedError{}))
	})
})

var _ = Describe("ProviderKey", func() {
	DescribeTable("derives a stable key",
		func(name, baseURL, want string) {
			Expect(writer.ProviderKey(provider.Provider{Name: name, BaseURL: baseURL})).To(Equal(want))
		},
		Entry("known host", "My Router", "https://openrouter.ai/api/v1", "openrouter"),
		Entry("known host, case-insensitive", "x", "https://API.DeepSeek.com", "deepseek"),
		Entry("name slug", "Team Proxy #2", "https://proxy.example.com", "team_proxy_2"),
		Entry("empty slug", "!!!", "https://proxy.example.com", "custom"),
	)
})
