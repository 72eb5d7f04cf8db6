package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
)

// Prompter reads one line of input after printing a prompt.
//
// Prompt returns io.EOF when input is exhausted or the user aborts, and
// [ErrInterrupted] when a termination signal arrives while waiting.
type Prompter interface {
	Prompt(prompt string) (string, error)
	Close() error
}

// linePrompter reads lines from a plain reader. Used when stdin is not a
// terminal (pipes, files, tests).
type linePrompter struct {
	out   io.Writer
	lines chan lineResult
	done  chan struct{}
	sigCh <-chan os.Signal
}

type lineResult struct {
	line string
	err  error
}

func newLinePrompter(in io.Reader, out io.Writer, sigCh <-chan os.Signal) *linePrompter {
	p := &linePrompter{
		out:   out,
		lines: make(chan lineResult),
		done:  make(chan struct{}),
		sigCh: sigCh,
	}

	go p.read(in)

	return p
}

func (p *linePrompter) read(in io.Reader) {
	defer close(p.lines)

	if in == nil {
		in = strings.NewReader("")
	}

	br := bufio.NewReader(in)

	for {
		line, err := br.ReadString('\n')
		if line != "" || err == nil {
			line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")

			select {
			case p.lines <- lineResult{line: line}:
			case <-p.done:
				return
			}
		}

		if err != nil {
			select {
			case p.lines <- lineResult{err: err}:
			case <-p.done:
			}

			return
		}
	}
}

func (p *linePrompter) Prompt(prompt string) (string, error) {
	_, _ = io.WriteString(p.out, prompt)

	select {
	case res, ok := <-p.lines:
		if !ok {
			return "", io.EOF
		}

		return res.line, res.err
	case sig := <-p.sigCh:
		return "", fmt.Errorf("%w: %v", ErrInterrupted, sig)
	}
}

func (p *linePrompter) Close() error {
	close(p.done)

	return nil
}

// linerPrompter provides line editing and history on a terminal.
type linerPrompter struct {
	state       *liner.State
	historyPath string
}

func newLinerPrompter(historyPath string, completer func(line string) []string) *linerPrompter {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)

	if completer != nil {
		state.SetCompleter(completer)
	}

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = state.ReadHistory(f)
			_ = f.Close()
		}
	}

	return &linerPrompter{state: state, historyPath: historyPath}
}

func (p *linerPrompter) Prompt(prompt string) (string, error) {
	line, err := p.state.Prompt(prompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", io.EOF
		}

		return "", err
	}

	if strings.TrimSpace(line) != "" {
		p.state.AppendHistory(line)
	}

	return line, nil
}

func (p *linerPrompter) Close() error {
	if p.historyPath != "" {
		if f, err := os.Create(p.historyPath); err == nil {
			_, _ = p.state.WriteHistory(f)
			_ = f.Close()
		}
	}

	return p.state.Close()
}
