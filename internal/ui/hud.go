package ui

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/driftline/ferry/internal/stats"
)

// ANSI escape sequences.
const (
	ansiDim   = "\033[2m"
	ansiReset = "\033[0m"
)

const (
	sparklineWidth   = 20
	progressBarWidth = 20
	hudMinInterval   = 50 * time.Millisecond // don't redraw faster than this
)

// hudPresenter provides a TTY display: a scrolling feed of completed files
// above a 2-line HUD that redraws in place.
type hudPresenter struct {
	w     io.Writer
	stats *stats.Collector

	hudDrawn     bool
	hudLineCount int
	lastHUDDraw  time.Time
}

func (p *hudPresenter) Run(events <-chan Event) error {
	// Fire the first tick quickly to seed the ring buffer with speed data,
	// then switch to 1s interval.
	secTicker := time.NewTicker(250 * time.Millisecond)
	defer secTicker.Stop()
	firstTickDone := false

	// Redraw ticker for when no events are flowing (a large file copy).
	redrawTicker := time.NewTicker(100 * time.Millisecond)
	defer redrawTicker.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				p.clearHUD()
				return nil
			}
			p.handleEvent(ev)
			p.maybeDrawHUD()

		case <-redrawTicker.C:
			p.drawHUD()

		case <-secTicker.C:
			p.stats.Tick()
			if !firstTickDone {
				firstTickDone = true
				secTicker.Reset(1 * time.Second)
			}
		}
	}
}

func (p *hudPresenter) handleEvent(ev Event) {
	switch ev.Type {
	case FileCompleted:
		p.clearHUD()
		p.printFileCompleted(ev)
		p.drawHUD()

	case FileRenamed:
		p.clearHUD()
		fmt.Fprintf(p.w, "↳  %s %s→%s %s\n",
			p.styledPath(ev.Path), ansiDim, ansiReset, p.styledPath(ev.NewPath))
		p.drawHUD()

	case FileFailed:
		p.clearHUD()
		p.printFileFailed(ev)
		p.drawHUD()

	case ModeDegraded:
		p.clearHUD()
		fmt.Fprintf(p.w, "%ssource is read-only, moving degraded to copying%s\n",
			ansiDim, ansiReset)
		p.drawHUD()
	}
}

func (p *hudPresenter) printFileCompleted(ev Event) {
	speed := p.stats.RollingSpeed(5)
	if speed > 0 {
		fmt.Fprintf(p.w, "✓  %s  %10s  %s\n",
			p.styledPath(ev.Path), FormatBytes(ev.Size), FormatRate(speed))
	} else {
		fmt.Fprintf(p.w, "✓  %s  %10s\n",
			p.styledPath(ev.Path), FormatBytes(ev.Size))
	}
}

func (p *hudPresenter) printFileFailed(ev Event) {
	errMsg := "error"
	if ev.Error != nil {
		errMsg = ev.Error.Error()
	}
	fmt.Fprintf(p.w, "✗  %s  %10s  %s\n",
		p.styledPath(ev.Path), FormatBytes(ev.Size), errMsg)
}

// maybeDrawHUD redraws the HUD if enough time has passed since the last draw.
func (p *hudPresenter) maybeDrawHUD() {
	if time.Since(p.lastHUDDraw) < hudMinInterval {
		return
	}
	p.drawHUD()
}

func (p *hudPresenter) drawHUD() {
	snap := p.stats.Snapshot()
	p.clearHUD()

	var pct float64
	if snap.BytesTotal > 0 {
		pct = float64(snap.BytesCopied) / float64(snap.BytesTotal)
	}

	// Line 1: throughput sparkline + speed + byte totals.
	spark := Sparkline(p.stats.SparklineData(sparklineWidth), sparklineWidth)
	fmt.Fprintf(p.w, "       %s   %s   %s / %s\n",
		spark, FormatRate(p.stats.RollingSpeed(10)),
		FormatBytes(snap.BytesCopied), FormatBytes(snap.BytesTotal))

	// Line 2: progress bar + files + eta.
	bar := ProgressBar(pct, progressBarWidth)
	fmt.Fprintf(p.w, " %3.0f%%  %s   %s / %s files   eta %s\n",
		pct*100, bar,
		FormatCount(snap.FilesCopied), FormatCount(snap.FilesTotal),
		FormatETA(p.stats.ETA()))

	p.hudDrawn = true
	p.hudLineCount = 2
	p.lastHUDDraw = time.Now()
}

func (p *hudPresenter) clearHUD() {
	if !p.hudDrawn {
		return
	}
	// Move cursor up N lines and clear to end of screen.
	fmt.Fprintf(p.w, "\033[%dA\033[J", p.hudLineCount)
	p.hudDrawn = false
}

func (p *hudPresenter) Summary() string {
	return completionSummary(p.stats.Snapshot())
}

// styledPath returns the path with the directory portion dimmed and the
// filename in normal weight, making the actual filename stand out.
func (p *hudPresenter) styledPath(path string) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if dir == "." || dir == "" {
		return base
	}
	return fmt.Sprintf("%s%s/%s%s", ansiDim, dir, ansiReset, base)
}
