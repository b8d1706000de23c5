package program

// Segment identifies which region of the generated program a line belongs to.
type Segment string

const (
	// SegmentPreamble holds module-scope declarations (imports, items).
	SegmentPreamble Segment = "preamble"

	// SegmentBody holds executable statements run inside the entry routine.
	SegmentBody Segment = "body"
)

// Valid reports whether s is a recognized segment.
func (s Segment) Valid() bool {
	return s == SegmentPreamble || s == SegmentBody
}

// Runtime identifies a supported async runtime crate.
type Runtime string

const (
	RuntimeTokio    Runtime = "tokio"
	RuntimeAsyncStd Runtime = "async-std"
	RuntimeSmol     Runtime = "smol"
)

// RuntimePriority lists the supported runtimes in selection order. When a
// manifest declares more than one, the earliest entry wins.
var RuntimePriority = []Runtime{RuntimeTokio, RuntimeAsyncStd, RuntimeSmol}

// Valid reports whether r is a supported runtime.
func (r Runtime) Valid() bool {
	switch r {
	case RuntimeTokio, RuntimeAsyncStd, RuntimeSmol:
		return true
	}
	return false
}

// Mode is the session's execution model: sync, or async under one runtime.
//
// The zero value is sync. An async Mode always carries a valid Runtime.
type Mode struct {
	Async   bool    `json:"async"`
	Runtime Runtime `json:"runtime,omitempty"`
}

// ModeSync is the initial execution model of every session.
var ModeSync = Mode{}

// ModeAsync returns the async execution model under the given runtime.
func ModeAsync(rt Runtime) Mode {
	return Mode{Async: true, Runtime: rt}
}

// String renders the mode for prompts, logs, and transcripts.
func (m Mode) String() string {
	if m.Async {
		return "async:" + string(m.Runtime)
	}
	return "sync"
}

// Block is one user-submitted, blank-line-terminated group of lines. It is
// the unit of submission: a block's lines are classified and appended
// together, and rolled back together if a mode switch fails.
type Block []string
