package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestAskReturnsLinesWithoutTerminator(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	c := New(strings.NewReader("first\r\nsecond\nlast"), &out)

	for _, want := range []string{"first", "second", "last"} {
		got, err := c.Ask(Plain, "> ")
		if err != nil {
			t.Fatalf("Ask() error = %v", err)
		}
		if got != want {
			t.Fatalf("Ask() = %q, want %q", got, want)
		}
	}

	if _, err := c.Ask(Plain, "> "); !errors.Is(err, io.EOF) {
		t.Fatalf("Ask() error = %v, want io.EOF", err)
	}
	if !strings.Contains(out.String(), "> ") {
		t.Fatalf("prompt not written: %q", out.String())
	}
}

func TestPrintPlainIsUnstyled(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	New(strings.NewReader(""), &out).Print(Plain, "hello")
	if out.String() != "hello\n" {
		t.Fatalf("Print() wrote %q", out.String())
	}
}

func TestSessionAdapters(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	c := New(strings.NewReader("why?\n"), &out)

	line, err := c.ReadLine(context.Background(), "Your question: ")
	if err != nil || line != "why?" {
		t.Fatalf("ReadLine() = %q, %v", line, err)
	}
	if _, err := c.ReadLine(context.Background(), "Your question: "); !errors.Is(err, io.EOF) {
		t.Fatalf("ReadLine() error = %v, want io.EOF", err)
	}

	c.Notice("working")
	c.Warn("Please enter a valid question.")
	c.Answer("because")

	written := out.String()
	for _, want := range []string{"Your question: ", "working", "Please enter a valid question.", "Assistant's Response:", "because"} {
		if !strings.Contains(written, want) {
			t.Fatalf("output %q missing %q", written, want)
		}
	}
}
