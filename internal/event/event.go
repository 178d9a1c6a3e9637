package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	ScanComplete Type = iota + 1
	FileCompleted
	FileRenamed
	FileFailed
	DirCreated
	SourceRemoved
	ModeDegraded
)

var typeNames = [...]string{
	ScanComplete:  "ScanComplete",
	FileCompleted: "FileCompleted",
	FileRenamed:   "FileRenamed",
	FileFailed:    "FileFailed",
	DirCreated:    "DirCreated",
	SourceRemoved: "SourceRemoved",
	ModeDegraded:  "ModeDegraded",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event is a single progress notification from the engine. The engine emits
// exactly one FileCompleted per transferred file, inline between copies;
// presenters derive percentages, speed and ETA from the aggregate counters.
type Event struct {
	Type      Type
	Timestamp time.Time
	Path      string // destination-relative path (source-relative for FileRenamed)
	NewPath   string // sanitized destination-relative path (FileRenamed only)
	Size      int64  // size of this file in bytes
	Files     int64  // aggregate files completed; plan total on ScanComplete
	Bytes     int64  // aggregate bytes completed; plan total on ScanComplete
	Error     error
}
