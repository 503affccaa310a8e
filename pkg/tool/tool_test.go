package tool_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/switchboard/pkg/tool"
)

var _ = Describe("Parse", func() {
	It("parses every canonical name", func() {
		for _, t := range tool.All() {
			parsed, err := tool.Parse(t.String())
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed).To(Equal(t))
		}
	})

	It("is case-insensitive and trims whitespace", func() {
		parsed, err := tool.Parse("  Codex ")
		Expect(err).NotTo(HaveOccurred())
		Expect(parsed).To(Equal(tool.Codex))
	})

	It("accepts aliases", func() {
		parsed, err := tool.Parse("claude-code")
		Expect(err).NotTo(HaveOccurred())
		Expect(parsed).To(Equal(tool.Claude))
	})

	It("rejects unknown tools with an UnsupportedError", func() {
		_, err := tool.Parse("cursor")
		Expect(err).To(HaveOccurred())

		var unsupported *tool.UnsupportedError
		Expect(errors.As(err, &unsupported)).To(BeTrue())
		Expect(unsupported.Name).To(Equal("cursor"))
		Expect(err.Error()).To(ContainSubstring("codex"))
	})
})

var _ = Describe("Tool", func() {
	It("lists all tools in a stable order", func() {
		Expect(tool.Names()).To(Equal([]string{"codex", "claude", "gemini", "opencode", "openclaw"}))
	})

	It("reports validity", func() {
		Expect(tool.Claude.Valid()).To(BeTrue())
		Expect(tool.Tool(0).Valid()).To(BeFalse())
		Expect(tool.Tool(0).String()).To(Equal("unknown"))
	})

	It("has display names", func() {
		Expect(tool.Claude.DisplayName()).To(Equal("Claude Code"))
		Expect(tool.OpenClaw.DisplayName()).To(Equal("OpenClaw"))
	})
})
