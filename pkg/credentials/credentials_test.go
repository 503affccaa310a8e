package credentials_test

import (
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/switchboard/pkg/credentials"
	"github.com/papercomputeco/switchboard/pkg/dotdir"
	"github.com/papercomputeco/switchboard/pkg/provider"
	"github.com/papercomputeco/switchboard/pkg/tool"
	"github.com/papercomputeco/switchboard/pkg/writer"
)

var _ = Describe("Detect", func() {
	var (
		home string
		reg  *writer.Registry
	)

	writeFile := func(rel, content string) {
		path := filepath.Join(home, rel)
		Expect(os.MkdirAll(filepath.Dir(path), 0o700)).To(Succeed())
		Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())
	}

	BeforeEach(func() {
		tmp := GinkgoT().TempDir()
		home = filepath.Join(tmp, "home")
		paths, err := dotdir.NewPaths(filepath.Join(tmp, "root"), home)
		Expect(err).NotTo(HaveOccurred())
		reg = writer.NewRegistry(paths)
	})

	It("reports unconfigured tools", func() {
		for _, t := range tool.All() {
			_, err := credentials.Detect(reg, t)
			Expect(err).To(MatchError(credentials.ErrNotConfigured), t.String())
		}
	})

	It("reads back whatever each writer wrote", func() {
		p := provider.Provider{
			Name:    "OpenRouter",
			BaseURL: "https://openrouter.ai/api/v1",
			APIKey:  "sk-or-1",
			Model:   "anthropic/claude-sonnet-4",
		}
		for _, t := range tool.All() {
			w, err := reg.Writer(t)
			Expect(err).NotTo(HaveOccurred())
			Expect(w.Write(p)).To(Succeed())

			live, err := credentials.Detect(reg, t)
			Expect(err).NotTo(HaveOccurred(), t.String())
			Expect(live.BaseURL).To(Equal(p.BaseURL), t.String())
			Expect(live.APIKey).To(Equal(p.APIKey), t.String())
			Expect(live.Model).To(Equal(p.Model), t.String())
		}
	})

	Describe("codex", func() {
		It("ignores an OAuth-only login", func() {
			writeFile(".codex/config.toml", "model_provider = \"x\"\n[model_providers.x]\nbase_url = \"https://x.example/v1\"\n")
			writeFile(".codex/auth.json", `{"OPENAI_API_KEY": null, "tokens": {"access_token": "oa"}}`)

			_, err := credentials.Detect(reg, tool.Codex)
			Expect(err).To(MatchError(credentials.ErrNotConfigured))
		})

		It("returns a ParseError for broken TOML", func() {
			writeFile(".codex/config.toml", "model_provider = ")

			_, err := credentials.Detect(reg, tool.Codex)
			var pe *writer.ParseError
			Expect(errors.As(err, &pe)).To(BeTrue())
		})
	})

	Describe("claude", func() {
		It("defaults to the official endpoint", func() {
			writeFile(".claude/settings.json", `{"env": {"ANTHROPIC_API_KEY": "sk-ant"}}`)

			live, err := credentials.Detect(reg, tool.Claude)
			Expect(err).NotTo(HaveOccurred())
			Expect(live.BaseURL).To(Equal("https://api.anthropic.com"))
			Expect(live.APIKey).To(Equal("sk-ant"))
		})
	})

	Describe("gemini", func() {
		It("reads the .env file", func() {
			writeFile(".gemini/.env", "GEMINI_API_KEY=g-1\nGEMINI_MODEL=gemini-2.5-pro\n")

			live, err := credentials.Detect(reg, tool.Gemini)
			Expect(err).NotTo(HaveOccurred())
			Expect(live.BaseURL).To(Equal("https://generativelanguage.googleapis.com"))
			Expect(live.Model).To(Equal("gemini-2.5-pro"))
		})
	})

	Describe("opencode", func() {
		It("reads a commented config with a single provider", func() {
			writeFile(".config/opencode/opencode.json", `{
  // local gateway
  "provider": {
    "gw": {"options": {"baseURL": "http://localhost:4000/v1", "apiKey": "k",},},
  },
}`)

			live, err := credentials.Detect(reg, tool.OpenCode)
			Expect(err).NotTo(HaveOccurred())
			Expect(live.Key).To(Equal("gw"))
			Expect(live.BaseURL).To(Equal("http://localhost:4000/v1"))
		})
	})

	Describe("openclaw", func() {
		It("follows the primary model reference", func() {
			writeFile(".openclaw/openclaw.json", `{
  "agents": {"defaults": {"model": {"primary": "kimi/kimi-k2"}}},
  "models": {"providers": {"kimi": {"baseUrl": "https://api.moonshot.cn/v1", "apiKey": "sk-k"}}}
}`)

			live, err := credentials.Detect(reg, tool.OpenClaw)
			Expect(err).NotTo(HaveOccurred())
			Expect(live.Key).To(Equal("kimi"))
			Expect(live.Model).To(Equal("kimi-k2"))
		})
	})
})
