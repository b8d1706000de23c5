package repl

import (
	"strings"

	"rsh/internal/program"
)

// Prompts shown while collecting a block.
const (
	PromptPrimary      = "rsh> "
	PromptContinuation = "...> "
)

// Prompter produces one line of user input per call. It is satisfied by
// LinerPrompter and by test fakes.
type Prompter interface {
	// Prompt displays the given prompt and returns the next line without
	// its trailing newline. It returns io.EOF when input is exhausted.
	Prompt(prompt string) (string, error)

	// AppendHistory records a line for recall on later prompts.
	AppendHistory(line string)
}

// Input is one unit of interaction: either a meta-command or a code block,
// never both.
type Input struct {
	Command string
	Block   program.Block
}

// ReadInput collects the next input from p.
//
// A line whose trimmed form starts with ':' is a meta-command, but only as
// the first line of a block; inside a block it is ordinary code. Blank lines
// before any content are ignored, and the first blank line after content
// terminates the block. Code lines are kept verbatim and appended to
// history; meta-commands and blanks are not.
func ReadInput(p Prompter) (Input, error) {
	var block program.Block
	prompt := PromptPrimary

	for {
		line, err := p.Prompt(prompt)
		if err != nil {
			return Input{}, err
		}
		trimmed := strings.TrimSpace(line)

		if len(block) == 0 && strings.HasPrefix(trimmed, ":") {
			return Input{Command: trimmed}, nil
		}
		if trimmed == "" {
			if len(block) == 0 {
				continue
			}
			return Input{Block: block}, nil
		}

		p.AppendHistory(line)
		block = append(block, line)
		prompt = PromptContinuation
	}
}
