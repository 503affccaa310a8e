package syncer

import (
	"time"

	"github.com/papercomputeco/switchboard/pkg/tool"
)

// Mode names a sync operation.
type Mode string

const (
	ModeUpload   Mode = "upload"
	ModeDownload Mode = "download"
	ModeMerge    Mode = "merge"
)

// Action is what happened to one tool.
type Action string

const (
	ActionUploaded   Action = "uploaded"
	ActionDownloaded Action = "downloaded"
	ActionMerged     Action = "merged"
	ActionUnchanged  Action = "unchanged"
)

// ToolResult describes the outcome for one tool.
type ToolResult struct {
	Tool   tool.Tool
	Action Action

	// Uploaded is set when the tool's document was pushed to the remote.
	Uploaded bool

	// Backups lists the backup files taken before local files were
	// overwritten.
	Backups []string
}

// Skipped is a tool the operation passed over without failing.
type Skipped struct {
	Tool   tool.Tool
	Reason string
}

// Result summarizes a sync run.
type Result struct {
	Mode  Mode
	Tools []ToolResult

	// Skipped aggregates per-tool issues that did not abort the run.
	Skipped []Skipped

	// AlreadyInSync is set by Merge when nothing had to be written or
	// uploaded.
	AlreadyInSync bool

	// Degraded is set by Merge when no remote data existed and the run fell
	// back to a plain upload.
	Degraded bool

	// At is when the run completed.
	At time.Time
}

func (r *Result) skip(t tool.Tool, reason string) {
	r.Skipped = append(r.Skipped, Skipped{Tool: t, Reason: reason})
}

// Uploads counts tools pushed to the remote.
func (r *Result) Uploads() int {
	n := 0
	for _, tr := range r.Tools {
		if tr.Uploaded {
			n++
		}
	}
	return n
}
