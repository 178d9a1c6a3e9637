package engine

// Mode selects between copying and moving source files.
type Mode int

const (
	Copy Mode = iota
	Move
)

func (m Mode) String() string {
	if m == Move {
		return "MOVE"
	}
	return "COPY"
}

// EffectiveMode degrades Move to Copy when the source root is not writable.
// The check runs once per run, before the first copy, so a read-only source
// never ends up with some files moved and some copied.
func EffectiveMode(srcRoot string, m Mode) Mode {
	if m == Move && !writable(srcRoot) {
		return Copy
	}
	return m
}
