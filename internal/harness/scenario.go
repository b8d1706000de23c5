package harness

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test for the shell. A scenario scripts the
// user's input and the build tool's outcomes, then asserts on the final
// session state; the full terminal transcript is compared against a golden
// file.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Manifest selects the Cargo.toml fixture the session is attached to.
	// One of "basic", "tokio", "async-std", "smol". Empty means "basic".
	Manifest string `yaml:"manifest,omitempty"`

	// Runs scripts the build tool outcomes, consumed one per execute
	// cycle. A scenario fails unless every scripted run is consumed.
	Runs []RunStep `yaml:"runs,omitempty"`

	// Steps is the user's input: code blocks and meta-commands, in order.
	Steps []InputStep `yaml:"steps"`

	// Expect asserts on the session after the last step.
	Expect Expectation `yaml:"expect"`
}

// RunStep is one predetermined build outcome.
type RunStep struct {
	// Outcome is "pass", "fail", or "error". A pass is a clean build and
	// run; a fail is a non-zero exit with diagnostics; an error means the
	// tool could not be invoked at all.
	Outcome string `yaml:"outcome"`

	// Stdout and Stderr are the captured streams, surfaced verbatim.
	Stdout string `yaml:"stdout,omitempty"`
	Stderr string `yaml:"stderr,omitempty"`

	// Message is the invocation error text (outcome "error" only).
	Message string `yaml:"message,omitempty"`
}

// InputStep is one unit of user input: either a code block terminated by a
// blank line, or a single meta-command. Exactly one field is set.
type InputStep struct {
	Block   []string `yaml:"block,omitempty"`
	Command string   `yaml:"command,omitempty"`
}

// Expectation asserts on the session after the scenario has run. Nil slice
// pointers skip the corresponding check; an explicit empty list asserts the
// buffer is empty.
type Expectation struct {
	// Mode is the expected mode string, e.g. "sync" or "async:tokio".
	Mode string `yaml:"mode,omitempty"`

	// Preamble and Body are the expected buffer contents.
	Preamble *[]string `yaml:"preamble,omitempty"`
	Body     *[]string `yaml:"body,omitempty"`

	// TranscriptContains lists substrings the transcript must include.
	TranscriptContains []string `yaml:"transcript_contains,omitempty"`
}

// Run outcome constants.
const (
	RunPass  = "pass"
	RunFail  = "fail"
	RunError = "error"
)

// Manifest fixture constants.
const (
	ManifestBasic    = "basic"
	ManifestTokio    = "tokio"
	ManifestAsyncStd = "async-std"
	ManifestSmol     = "smol"
)

// LoadScenario reads and parses a scenario YAML file. Returns an error if
// the file doesn't exist, is malformed, contains unknown fields (typos), or
// is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "step:" vs "steps:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Manifest == "" {
		scenario.Manifest = ManifestBasic
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch s.Manifest {
	case ManifestBasic, ManifestTokio, ManifestAsyncStd, ManifestSmol:
	default:
		return fmt.Errorf("unknown manifest fixture %q", s.Manifest)
	}

	for i, run := range s.Runs {
		switch run.Outcome {
		case RunPass, RunFail:
		case RunError:
			if run.Message == "" {
				return fmt.Errorf("runs[%d]: message is required for outcome \"error\"", i)
			}
		default:
			return fmt.Errorf("runs[%d]: unknown outcome %q", i, run.Outcome)
		}
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}
	for i, step := range s.Steps {
		hasBlock := len(step.Block) > 0
		hasCommand := step.Command != ""
		if hasBlock == hasCommand {
			return fmt.Errorf("steps[%d]: exactly one of block or command is required", i)
		}
		if hasCommand && !strings.HasPrefix(strings.TrimSpace(step.Command), ":") {
			return fmt.Errorf("steps[%d]: command must start with ':'", i)
		}
	}

	exp := s.Expect
	if exp.Mode == "" && exp.Preamble == nil && exp.Body == nil && len(exp.TranscriptContains) == 0 {
		return fmt.Errorf("expect must assert at least one of mode, preamble, body, or transcript_contains")
	}
	return nil
}

// inputLines flattens the steps into the raw line sequence the prompter
// feeds to the shell. Each block is terminated by the blank line the user
// would type.
func (s *Scenario) inputLines() []string {
	var lines []string
	for _, step := range s.Steps {
		if step.Command != "" {
			lines = append(lines, step.Command)
			continue
		}
		lines = append(lines, step.Block...)
		lines = append(lines, "")
	}
	return lines
}
