package wordlist

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Prompt asks for confirmation on a terminal.
type Prompt struct {
	In        io.Reader
	Out       io.Writer
	AssumeYes bool
	// IsTerminal reports whether In is interactive. Nil means it is.
	IsTerminal func() bool
}

// NewPrompt returns a Prompt reading stdin and writing stderr.
func NewPrompt(assumeYes bool) *Prompt {
	return &Prompt{
		In:        os.Stdin,
		Out:       os.Stderr,
		AssumeYes: assumeYes,
		IsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// Confirm prints question and waits for y/yes. Anything else, including an empty line, is no.
func (p *Prompt) Confirm(question string) (bool, error) {
	if p.AssumeYes {
		return true, nil
	}
	if p.IsTerminal != nil && !p.IsTerminal() {
		return false, errors.New("cannot ask for confirmation: stdin is not a terminal (rerun with --yes)")
	}

	style := lipgloss.NewRenderer(p.Out).NewStyle().Bold(true)
	fmt.Fprintf(p.Out, "%s [y/N] ", style.Render(question))

	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
