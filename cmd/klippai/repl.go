package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

const replPrompt = "> "

// runREPL reads one prompt per line until exit, quit or EOF. Empty lines are
// skipped. A failed generation is reported and the session continues.
func runREPL(ctx context.Context, in io.Reader, out, errOut io.Writer, s *session) error {
	fmt.Fprintln(out, "klippai REPL, type 'exit' or Ctrl-D to quit")

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Fprint(out, replPrompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}
		if err := s.ask(ctx, line); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
	}
}
