package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/driftline/ferry/internal/stats"
)

// plainPresenter outputs one line per completed file to stdout, and periodic
// progress to stderr. Used when stderr is not a TTY or progress is disabled.
type plainPresenter struct {
	w     io.Writer
	errW  io.Writer
	stats *stats.Collector
}

func (p *plainPresenter) Run(events <-chan Event) error {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	ticks := 0
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			p.handleEvent(ev)
		case <-ticker.C:
			p.stats.Tick()
			ticks++
			if ticks%5 == 0 {
				p.printProgress()
			}
		}
	}
}

func (p *plainPresenter) handleEvent(ev Event) {
	switch ev.Type {
	case FileCompleted:
		speed := p.stats.RollingSpeed(5)
		fmt.Fprintf(p.w, "%s  %s  %s\n", ev.Path, FormatBytes(ev.Size), FormatRate(speed))
	case FileRenamed:
		fmt.Fprintf(p.w, "rename: %s -> %s\n", ev.Path, ev.NewPath)
	case FileFailed:
		errMsg := "error"
		if ev.Error != nil {
			errMsg = ev.Error.Error()
		}
		fmt.Fprintf(p.w, "%s  %s  %s\n", ev.Path, FormatBytes(ev.Size), errMsg)
	case ModeDegraded:
		fmt.Fprintf(p.errW, "source %s is not writable, moving degraded to copying\n", ev.Path)
	}
}

func (p *plainPresenter) printProgress() {
	snap := p.stats.Snapshot()
	if snap.BytesTotal > 0 {
		pct := float64(snap.BytesCopied) / float64(snap.BytesTotal) * 100
		fmt.Fprintf(p.errW, "progress: %.0f%% %s/%s %s/%s files %s eta %s\n",
			pct,
			FormatBytes(snap.BytesCopied), FormatBytes(snap.BytesTotal),
			FormatCount(snap.FilesCopied), FormatCount(snap.FilesTotal),
			FormatRate(p.stats.RollingSpeed(10)),
			FormatETA(p.stats.ETA()),
		)
	} else {
		fmt.Fprintf(p.errW, "progress: %s copied %s files\n",
			FormatBytes(snap.BytesCopied),
			FormatCount(snap.FilesCopied),
		)
	}
}

func (p *plainPresenter) Summary() string {
	return completionSummary(p.stats.Snapshot())
}
