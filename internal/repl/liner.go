package repl

import (
	"fmt"
	"os"

	"github.com/peterh/liner"
)

// LinerPrompter reads lines with github.com/peterh/liner, giving the shell
// line editing, Ctrl-C block abort, and persistent history.
type LinerPrompter struct {
	state       *liner.State
	historyFile string
}

// NewLinerPrompter sets up the terminal and loads history from historyFile
// if it exists. An empty historyFile disables persistence. Callers must
// Close the prompter to restore the terminal.
func NewLinerPrompter(historyFile string) *LinerPrompter {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)

	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			state.ReadHistory(f)
			f.Close()
		}
	}
	return &LinerPrompter{state: state, historyFile: historyFile}
}

// Prompt reads one line. It returns liner.ErrPromptAborted on Ctrl-C and
// io.EOF on Ctrl-D.
func (p *LinerPrompter) Prompt(prompt string) (string, error) {
	return p.state.Prompt(prompt)
}

// AppendHistory records a line for recall.
func (p *LinerPrompter) AppendHistory(line string) {
	p.state.AppendHistory(line)
}

// Close writes history back to the history file and restores the terminal.
func (p *LinerPrompter) Close() error {
	defer p.state.Close()

	if p.historyFile == "" {
		return nil
	}
	f, err := os.Create(p.historyFile)
	if err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	defer f.Close()

	if _, err := p.state.WriteHistory(f); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}
