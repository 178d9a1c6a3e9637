package ui

import "github.com/driftline/ferry/internal/event"

// Event is re-exported for presenter signatures.
type Event = event.Event

// Re-export event types for convenience.
const (
	ScanComplete  = event.ScanComplete
	FileCompleted = event.FileCompleted
	FileRenamed   = event.FileRenamed
	FileFailed    = event.FileFailed
	DirCreated    = event.DirCreated
	SourceRemoved = event.SourceRemoved
	ModeDegraded  = event.ModeDegraded
)
