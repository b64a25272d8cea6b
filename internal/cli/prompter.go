package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Prompter asks the user yes/no questions and collects free-form answers
// on an interactive terminal.
type Prompter struct {
	reader *NonBlockingReader
	writer io.Writer
}

// NewPrompter creates a prompter reading from r and writing to w.
func NewPrompter(r io.Reader, w io.Writer) *Prompter {
	return &Prompter{
		reader: NewNonBlockingReader(r),
		writer: w,
	}
}

// Confirm asks a yes/no question. An empty answer takes the default.
func (p *Prompter) Confirm(ctx context.Context, question string, defaultYes bool) (bool, error) {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}

	if _, err := fmt.Fprintf(p.writer, "%s %s ", FormatPrompt(question), SubtleStyle.Render(hint)); err != nil {
		return false, fmt.Errorf("failed to write prompt: %w", err)
	}

	line, err := p.reader.ReadLine(ctx)
	if err != nil {
		return false, err
	}

	switch strings.ToLower(line) {
	case "":
		return defaultYes, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Input asks a question and returns the trimmed answer. An empty answer
// returns the fallback.
func (p *Prompter) Input(ctx context.Context, question, fallback string) (string, error) {
	prompt := question
	if fallback != "" {
		prompt = fmt.Sprintf("%s (%s)", question, fallback)
	}

	if _, err := fmt.Fprintf(p.writer, "%s", FormatPrompt(prompt)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	line, err := p.reader.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	if line == "" {
		return fallback, nil
	}
	return line, nil
}
