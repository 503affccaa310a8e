// Package syncer reconciles local provider stores with their encrypted copies
// on a remote, in one of three modes: upload, download or merge.
//
// Every mode walks the configured tools in order. Local files touched by
// download and merge are backed up first; if any later step fails, every file
// changed in the run is restored before the error is returned.
package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/papercomputeco/switchboard/pkg/backup"
	"github.com/papercomputeco/switchboard/pkg/crypto"
	"github.com/papercomputeco/switchboard/pkg/fsutil"
	"github.com/papercomputeco/switchboard/pkg/logger"
	"github.com/papercomputeco/switchboard/pkg/provider"
	"github.com/papercomputeco/switchboard/pkg/tool"
	"github.com/papercomputeco/switchboard/pkg/writer"
)

// LocalStore is the slice of *store.Store the engine needs.
type LocalStore interface {
	Load(t tool.Tool) (provider.ToolStorage, error)
	Save(t tool.Tool, doc provider.ToolStorage) error
	Path(t tool.Tool) string
	NativePaths(t tool.Tool) ([]string, error)
	ReapplyCurrent(t tool.Tool) (bool, error)
}

// Remote is the slice of *webdav.Client the engine needs. Download is only
// called for tools Exists reported as present.
type Remote interface {
	Exists(ctx context.Context, t tool.Tool) (bool, error)
	Download(ctx context.Context, t tool.Tool) ([]byte, error)
	Upload(ctx context.Context, t tool.Tool, data []byte) error
}

// Options configures an Engine.
type Options struct {
	Store    LocalStore
	Remote   Remote
	Password string

	// Tools defaults to tool.All().
	Tools []tool.Tool

	// Keep is the number of backups retained per file. Defaults to
	// backup.DefaultKeep.
	Keep int

	Now    func() time.Time
	Logger *slog.Logger

	// OnSuccess runs after a run completed without error, e.g. to record the
	// last sync time.
	OnSuccess func(*Result) error
}

// Engine runs sync operations.
type Engine struct {
	store     LocalStore
	remote    Remote
	password  string
	tools     []tool.Tool
	keep      int
	now       func() time.Time
	logger    *slog.Logger
	onSuccess func(*Result) error
}

// New returns an Engine.
func New(opts Options) (*Engine, error) {
	if opts.Store == nil {
		return nil, errors.New("syncer: a local store is required")
	}
	if opts.Remote == nil {
		return nil, errors.New("syncer: a remote is required")
	}
	if opts.Password == "" {
		return nil, &provider.ValidationError{Field: "syncPassword", Reason: "is required"}
	}

	e := &Engine{
		store:     opts.Store,
		remote:    opts.Remote,
		password:  opts.Password,
		tools:     opts.Tools,
		keep:      opts.Keep,
		now:       opts.Now,
		logger:    logger.OrNop(opts.Logger),
		onSuccess: opts.OnSuccess,
	}
	if len(e.tools) == 0 {
		e.tools = tool.All()
	}
	if e.keep <= 0 {
		e.keep = backup.DefaultKeep
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e, nil
}

// Upload pushes every tool's local document to the remote with api keys
// encrypted. Tools without a local store file are skipped.
func (e *Engine) Upload(ctx context.Context) (*Result, error) {
	res := &Result{Mode: ModeUpload}
	if err := e.upload(ctx, res); err != nil {
		return nil, err
	}
	return e.finish(res)
}

func (e *Engine) upload(ctx context.Context, res *Result) error {
	for _, t := range e.tools {
		if !fsutil.Exists(e.store.Path(t)) {
			res.skip(t, "no local data")
			continue
		}
		doc, err := e.store.Load(t)
		if err != nil {
			return err
		}

		if err := e.push(ctx, t, doc); err != nil {
			return err
		}
		res.Tools = append(res.Tools, ToolResult{Tool: t, Action: ActionUploaded, Uploaded: true})
	}
	return nil
}

// push encrypts doc and uploads it. doc itself is not modified.
func (e *Engine) push(ctx context.Context, t tool.Tool, doc provider.ToolStorage) error {
	enc, err := crypto.EncryptProviders(doc.Providers, e.password)
	if err != nil {
		return fmt.Errorf("encrypting %s providers: %w", t, err)
	}
	out := doc.Clone()
	out.Providers = enc

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s document: %w", t, err)
	}
	if err := e.remote.Upload(ctx, t, data); err != nil {
		return err
	}
	e.logger.Info("uploaded", "tool", t.String(), "providers", len(doc.Providers))
	return nil
}

// fetch downloads and decrypts the remote document of every tool that has
// one. Nothing local is touched.
func (e *Engine) fetch(ctx context.Context) (map[tool.Tool]provider.ToolStorage, error) {
	remote := map[tool.Tool]provider.ToolStorage{}
	for _, t := range e.tools {
		ok, err := e.remote.Exists(ctx, t)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		data, err := e.remote.Download(ctx, t)
		if err != nil {
			return nil, err
		}
		var doc provider.ToolStorage
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decoding remote %s document: %w", t, err)
		}
		doc.Providers, err = crypto.DecryptProviders(doc.Providers, e.password)
		if err != nil {
			return nil, fmt.Errorf("decrypting remote %s document: %w", t, err)
		}
		remote[t] = doc
	}
	return remote, nil
}

// Download replaces local documents with the remote ones and re-applies the
// active provider of each tool. Tools without a remote document are skipped;
// if no tool has one the run fails with ErrNoRemoteData.
func (e *Engine) Download(ctx context.Context) (*Result, error) {
	remote, err := e.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if len(remote) == 0 {
		return nil, ErrNoRemoteData
	}

	res := &Result{Mode: ModeDownload}
	j := newJournal(e.keep)
	for _, t := range e.tools {
		doc, ok := remote[t]
		if !ok {
			res.skip(t, "no remote data")
			continue
		}

		tr := ToolResult{Tool: t, Action: ActionDownloaded}
		if err := e.writeLocal(t, doc, j, &tr, res); err != nil {
			return nil, e.abort(j, err)
		}
		res.Tools = append(res.Tools, tr)
	}
	return e.finish(res)
}

// Merge reconciles local and remote documents tool by tool. Local files are
// only written for tools whose merged set differs from the local one, and
// only tools whose merged document differs from the remote are uploaded.
// When nothing differs the run is a no-op and reports AlreadyInSync.
func (e *Engine) Merge(ctx context.Context) (*Result, error) {
	remote, err := e.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if len(remote) == 0 {
		e.logger.Info("no remote data, merging as upload")
		res := &Result{Mode: ModeMerge, Degraded: true}
		if err := e.upload(ctx, res); err != nil {
			return nil, err
		}
		return e.finish(res)
	}

	type plan struct {
		tool        tool.Tool
		merged      provider.ToolStorage
		writeLocal  bool
		writeRemote bool
	}

	var plans []plan
	for _, t := range e.tools {
		local, err := e.store.Load(t)
		if err != nil {
			return nil, err
		}
		rdoc, hasRemote := remote[t]
		if !hasRemote {
			plans = append(plans, plan{
				tool:        t,
				merged:      local,
				writeRemote: fsutil.Exists(e.store.Path(t)),
			})
			continue
		}

		outcome := MergeProviders(local.Providers, rdoc.Providers)
		merged := local.Clone()
		merged.Providers = outcome.Providers
		merged.Presets = mergePresets(local.Presets, rdoc.Presets)
		merged.CurrentProviderID = resolvePointer(outcome.Providers, outcome.Aliases, local.CurrentProviderID, rdoc.CurrentProviderID)

		for id, name := range outcome.Renamed {
			e.logger.Info("renamed provider to avoid a name clash", "tool", t.String(), "id", id, "name", name)
		}

		plans = append(plans, plan{
			tool:   t,
			merged: merged,
			writeLocal: outcome.HasChanges ||
				!samePresets(merged.Presets, local.Presets) ||
				merged.CurrentProviderID != local.CurrentProviderID,
			// The active pointer is per machine and never forces an upload.
			writeRemote: !sameSet(merged.Providers, rdoc.Providers) ||
				!samePresets(merged.Presets, rdoc.Presets),
		})
	}

	res := &Result{Mode: ModeMerge, AlreadyInSync: true}
	for _, p := range plans {
		if p.writeLocal || p.writeRemote {
			res.AlreadyInSync = false
		}
	}
	if res.AlreadyInSync {
		for _, p := range plans {
			res.Tools = append(res.Tools, ToolResult{Tool: p.tool, Action: ActionUnchanged})
		}
		e.logger.Info("already in sync")
		return e.finish(res)
	}

	j := newJournal(e.keep)
	for _, p := range plans {
		tr := ToolResult{Tool: p.tool, Action: ActionUnchanged}
		if p.writeLocal {
			tr.Action = ActionMerged
			if err := e.writeLocal(p.tool, p.merged, j, &tr, res); err != nil {
				return nil, e.abort(j, err)
			}
		}
		res.Tools = append(res.Tools, tr)
	}
	for i, p := range plans {
		if !p.writeRemote {
			continue
		}
		if err := e.push(ctx, p.tool, p.merged); err != nil {
			return nil, e.abort(j, err)
		}
		res.Tools[i].Uploaded = true
	}
	return e.finish(res)
}

// writeLocal backs up the tool's store file and native config files, saves
// doc and re-applies the active provider. A native config the writer cannot
// parse is reported in res.Skipped and does not fail the run.
func (e *Engine) writeLocal(t tool.Tool, doc provider.ToolStorage, j *journal, tr *ToolResult, res *Result) error {
	native, err := e.store.NativePaths(t)
	if err != nil {
		return err
	}
	for _, path := range append([]string{e.store.Path(t)}, native...) {
		b, err := j.protect(path)
		if err != nil {
			return err
		}
		if b != "" {
			tr.Backups = append(tr.Backups, b)
		}
	}

	if err := e.store.Save(t, doc); err != nil {
		return err
	}
	if _, err := e.store.ReapplyCurrent(t); err != nil {
		var perr *writer.ParseError
		if errors.As(err, &perr) {
			e.logger.Warn("active provider not applied", "tool", t.String(), "path", perr.Path)
			res.skip(t, err.Error())
			return nil
		}
		return err
	}
	e.logger.Info("local store updated", "tool", t.String(), "providers", len(doc.Providers))
	return nil
}

// abort rolls back j and returns cause, joined with any rollback failure.
func (e *Engine) abort(j *journal, cause error) error {
	if err := j.rollback(); err != nil {
		e.logger.Error("rollback incomplete", "error", err)
		return errors.Join(cause, err)
	}
	e.logger.Warn("sync failed, local files restored", "error", cause)
	return cause
}

// finish stamps res and runs the success hook. A merge that found nothing
// to do writes nothing, so the hook is not called.
func (e *Engine) finish(res *Result) (*Result, error) {
	res.At = e.now()
	if e.onSuccess != nil && !res.AlreadyInSync {
		if err := e.onSuccess(res); err != nil {
			return res, err
		}
	}
	return res, nil
}
