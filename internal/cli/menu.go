package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/tally/pkg/types"
)

// prompter reads answers line by line from in and writes prompts to out.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewScanner(in), out: out}
}

// ask prints label and returns the next trimmed line. It returns io.EOF
// when input is exhausted.
func (p *prompter) ask(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.in.Scan() {
		fmt.Fprintln(p.out)
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func (p *prompter) askInt(label string) (int, error) {
	s, err := p.ask(label)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &types.FieldError{Field: "number", Reason: fmt.Sprintf("%q is not an integer", s)}
	}
	return n, nil
}

func (p *prompter) askFloat(label string) (float64, error) {
	s, err := p.ask(label)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &types.FieldError{Field: "number", Reason: fmt.Sprintf("%q is not a number", s)}
	}
	return f, nil
}

func (p *prompter) askCents(label string) (types.Cents, error) {
	s, err := p.ask(label)
	if err != nil {
		return 0, err
	}
	return types.ParseCents(s)
}

// askOptional returns nil for an empty answer, meaning keep the current
// value.
func (p *prompter) askOptional(label string) (*string, error) {
	s, err := p.ask(label)
	if err != nil || s == "" {
		return nil, err
	}
	return &s, nil
}

func (p *prompter) println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

func (p *prompter) printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

// menuItem is one numbered menu entry.
type menuItem struct {
	label string
	run   func(p *prompter) error
}

// menu is a numbered menu loop. The last number always exits.
type menu struct {
	title string
	items []menuItem
	// save runs once when the loop ends.
	save func() error
}

// run shows the menu until the exit option or end of input. An invalid
// choice prints "Invalid choice"; an operation error prints "Error: <msg>"
// and the loop continues. Only a failed final save is returned.
func (m *menu) run(p *prompter) error {
	exit := len(m.items) + 1
	for {
		p.printf("\n=== %s ===\n", m.title)
		for i, it := range m.items {
			p.printf("%d. %s\n", i+1, it.label)
		}
		p.printf("%d. Exit\n", exit)

		choice, err := p.ask("Choose an option: ")
		if err != nil {
			break
		}
		n, convErr := strconv.Atoi(choice)
		if convErr == nil && n == exit {
			break
		}
		if convErr != nil || n < 1 || n > len(m.items) {
			p.println("Invalid choice")
			continue
		}
		if err := m.items[n-1].run(p); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			p.println("Error:", err)
		}
	}

	if m.save != nil {
		if err := m.save(); err != nil {
			return sysErrorf("save: %w", err)
		}
	}
	p.println("Goodbye!")
	return nil
}
