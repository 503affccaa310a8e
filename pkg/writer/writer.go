// Package writer rewrites the native configuration files of each supported
// tool so that they point at a provider.
//
// Writers are zero-breaking: every key they touch belongs to one of four
// provenance classes.
//
//   - managed keys are always overwritten from the provider
//   - defaulted keys are set only when absent
//   - deprecated keys are deleted when present
//   - every other key passes through unchanged
//
// An existing file that cannot be parsed is never replaced; Write fails with
// a *ParseError instead.
package writer

import (
	"github.com/papercomputeco/switchboard/pkg/provider"
	"github.com/papercomputeco/switchboard/pkg/tool"
)

// Writer applies a provider to one tool's native config files.
type Writer interface {
	Tool() tool.Tool

	// Paths lists every file Write may modify, primary file first.
	Paths() []string

	Write(p provider.Provider) error
}

// PresetSource offers built-in preset templates for a tool.
type PresetSource interface {
	Presets() []provider.PresetTemplate
}

// PathResolver reports the native config files of a tool.
type PathResolver interface {
	Paths() []string
}
