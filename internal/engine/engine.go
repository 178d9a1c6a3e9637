// Package engine executes a transfer plan: one file at a time, in plan
// order, sanitizing destination paths and emitting a progress event after
// each completed file.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/driftline/ferry/internal/event"
	"github.com/driftline/ferry/internal/fsys"
	"github.com/driftline/ferry/internal/plan"
	"github.com/driftline/ferry/internal/platform"
	"github.com/driftline/ferry/internal/sanitize"
	"github.com/driftline/ferry/internal/stats"
)

// Config describes one transfer run.
type Config struct {
	Plan       *plan.Plan
	SrcRoot    string
	DstRoot    string
	DstProfile fsys.Profile
	Mode       Mode
	Verify     bool // BLAKE3-compare source and destination after each copy

	Stats  *stats.Collector
	Events chan<- event.Event // optional; nil disables emission
}

// Result is the terminal state of a run.
type Result struct {
	Stats stats.Snapshot
	Mode  Mode // effective mode after the read-only degrade check
	Err   error
}

// Run transfers every plan entry in order, blocking until the plan is
// exhausted, the first entry fails, or ctx is cancelled between files.
// Events are emitted inline; there is no background goroutine here.
func Run(ctx context.Context, cfg Config) Result {
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}
	cfg.Stats.SetTotals(cfg.Plan.TotalFiles, cfg.Plan.TotalBytes)
	cfg.emit(event.Event{
		Type:  event.ScanComplete,
		Files: cfg.Plan.TotalFiles,
		Bytes: cfg.Plan.TotalBytes,
	})

	mode := EffectiveMode(cfg.SrcRoot, cfg.Mode)
	if mode != cfg.Mode {
		cfg.emit(event.Event{Type: event.ModeDegraded, Path: cfg.SrcRoot})
	}

	if err := os.MkdirAll(cfg.DstRoot, 0755); err != nil {
		return Result{
			Stats: cfg.Stats.Snapshot(),
			Mode:  mode,
			Err:   fmt.Errorf("create destination: %w", err),
		}
	}

	resolver := sanitize.NewResolver(cfg.DstProfile)
	madeDirs := map[string]bool{cfg.DstRoot: true}

	for _, entry := range cfg.Plan.Entries {
		select {
		case <-ctx.Done():
			return Result{Stats: cfg.Stats.Snapshot(), Mode: mode, Err: ErrCancelled}
		default:
		}

		rel := resolver.Resolve(entry.RelPath)
		dstPath := filepath.Join(cfg.DstRoot, rel)

		if rel != entry.RelPath {
			cfg.Stats.AddFilesRenamed(1)
			cfg.emit(event.Event{
				Type:    event.FileRenamed,
				Path:    entry.RelPath,
				NewPath: rel,
				Size:    entry.Size,
			})
		}

		dir := filepath.Dir(dstPath)
		if !madeDirs[dir] {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return cfg.fail(mode, entry, fmt.Errorf("create directory: %w", err))
			}
			madeDirs[dir] = true
			cfg.Stats.AddDirsCreated(1)
			cfg.emit(event.Event{Type: event.DirCreated, Path: filepath.Dir(rel)})
		}

		if err := copyEntry(entry, dstPath, cfg.Verify); err != nil {
			return cfg.fail(mode, entry, err)
		}

		if mode == Move {
			if err := os.Remove(entry.SrcPath); err != nil {
				return cfg.fail(mode, entry, fmt.Errorf("remove source: %w", err))
			}
			cfg.Stats.AddFilesMoved(1)
			cfg.emit(event.Event{Type: event.SourceRemoved, Path: entry.RelPath})
		}

		cfg.Stats.AddFilesCopied(1)
		cfg.Stats.AddBytesCopied(entry.Size)
		snap := cfg.Stats.Snapshot()
		cfg.emit(event.Event{
			Type:  event.FileCompleted,
			Path:  rel,
			Size:  entry.Size,
			Files: snap.FilesCopied,
			Bytes: snap.BytesCopied,
		})
	}

	return Result{Stats: cfg.Stats.Snapshot(), Mode: mode}
}

func copyEntry(entry plan.Entry, dstPath string, verify bool) error {
	dst, err := os.OpenFile(dstPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("create %s: %w", dstPath, err)
	}

	result, err := platform.CopyFile(entry.SrcPath, dst, entry.Size)
	if cerr := dst.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("copy (%s after %d bytes): %w", result.Method, result.BytesWritten, err)
	}

	if verify {
		return verifyCopy(entry.SrcPath, dstPath)
	}
	return nil
}

func (cfg Config) fail(mode Mode, entry plan.Entry, err error) Result {
	cfg.Stats.AddFilesFailed(1)
	terr := &TransferError{Path: entry.SrcPath, Err: err}
	cfg.emit(event.Event{
		Type:  event.FileFailed,
		Path:  entry.RelPath,
		Size:  entry.Size,
		Error: terr,
	})
	return Result{Stats: cfg.Stats.Snapshot(), Mode: mode, Err: terr}
}

func (cfg Config) emit(ev event.Event) {
	if cfg.Events == nil {
		return
	}
	ev.Timestamp = time.Now()
	cfg.Events <- ev
}
