package cli

import (
	"strconv"
	"strings"

	"github.com/calvinalkan/kvtable/internal/table"
)

const invalidNumberPrompt = "Invalid input! Please enter a valid number: "

// input reads typed answers through a [Prompter], re-asking until the answer
// is acceptable. Errors are input errors only (EOF, interrupt).
type input struct {
	p  Prompter
	io *IO
}

// Int reads a non-negative integer. Non-numeric answers switch to the
// "invalid input" prompt; negative numbers repeat the original prompt.
func (in *input) Int(prompt string) (int, error) {
	current := prompt

	for {
		line, err := in.p.Prompt(current)
		if err != nil {
			return 0, err
		}

		n, convErr := strconv.Atoi(strings.TrimSpace(line))
		if convErr != nil {
			current = invalidNumberPrompt

			continue
		}

		if n < 0 {
			current = prompt

			continue
		}

		return n, nil
	}
}

// Choice reads K or V, case-insensitive.
func (in *input) Choice(prompt string) (table.Choice, error) {
	for {
		line, err := in.p.Prompt(prompt)
		if err != nil {
			return 0, err
		}

		choice, parseErr := table.ParseChoice(line)
		if parseErr == nil {
			return choice, nil
		}

		in.io.Println("Invalid input. Please enter 'K' or 'V'.")
	}
}

// String reads a non-blank answer with surrounding whitespace removed.
func (in *input) String(prompt string) (string, error) {
	for {
		line, err := in.p.Prompt(prompt)
		if err != nil {
			return "", err
		}

		if s := strings.TrimSpace(line); s != "" {
			return s, nil
		}
	}
}
