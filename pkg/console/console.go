// Package console is the line-oriented terminal used by the CLI.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Style int

const (
	Plain Style = iota
	Banner
	Info
	Prompt
	Success
	Warning
	Failure
	Heading
	Reply
)

var styles = map[Style]lipgloss.Style{
	Plain:   lipgloss.NewStyle(),
	Banner:  lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	Prompt:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	Success: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	Failure: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	Heading: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	Reply:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
}

// Console reads answers line by line and prints styled text.
type Console struct {
	in  *bufio.Reader
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Console {
	return &Console{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Print writes text followed by a newline in the given style.
func (c *Console) Print(style Style, text string) {
	fmt.Fprintln(c.out, render(style, text))
}

// Ask prints prompt without a newline and returns the next input line
// without its line terminator. io.EOF is returned once input is exhausted
// and nothing was read.
func (c *Console) Ask(style Style, prompt string) (string, error) {
	fmt.Fprint(c.out, render(style, prompt))

	line, err := c.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadLine asks in the prompt style. The context is not consulted: a
// blocked terminal read cannot be interrupted.
func (c *Console) ReadLine(_ context.Context, prompt string) (string, error) {
	return c.Ask(Prompt, prompt)
}

func (c *Console) Notice(text string) {
	c.Print(Info, text)
}

func (c *Console) Warn(text string) {
	c.Print(Failure, text)
}

// Answer prints a model reply under a heading.
func (c *Console) Answer(text string) {
	c.Print(Heading, "\nAssistant's Response:")
	c.Print(Reply, text)
}

func render(style Style, text string) string {
	s, ok := styles[style]
	if !ok || style == Plain {
		return text
	}
	return s.Render(text)
}
