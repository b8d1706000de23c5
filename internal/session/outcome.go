package session

import (
	"rsh/internal/cargo"
	"rsh/internal/program"
)

// Status classifies what one submission did to the session.
type Status string

const (
	// StatusOK means the execute cycle succeeded; the block is kept.
	StatusOK Status = "ok"

	// StatusSkipped means the block held no code; no cycle ran.
	StatusSkipped Status = "skipped"

	// StatusBuildFailed means the cycle failed for ordinary reasons; the
	// block is kept and the diagnostics were surfaced verbatim.
	StatusBuildFailed Status = "build_failed"

	// StatusSwitched means an async signature triggered a mode switch and
	// the post-switch rerun succeeded; the mode change is permanent.
	StatusSwitched Status = "switched"

	// StatusRolledBack means the post-switch rerun failed; buffers and mode
	// were restored to the pre-submission snapshot.
	StatusRolledBack Status = "rolled_back"

	// StatusNoRuntime means an async signature was detected but the manifest
	// declares no supported runtime; the block is kept, the mode unchanged.
	StatusNoRuntime Status = "no_runtime"
)

// Outcome reports one submission. First is always the initial cycle's result
// when a cycle ran; Second is the post-switch rerun when one was attempted.
type Outcome struct {
	Status Status           `json:"status"`
	Mode   program.Mode     `json:"mode"`
	First  cargo.RunResult  `json:"first"`
	Second *cargo.RunResult `json:"second,omitempty"`
}
