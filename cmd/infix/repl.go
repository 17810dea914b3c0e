package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/zephyrtronium/infix"
)

const (
	greeting = "Welcome to REPL Console!"
	prompt   = "> "
)

// session is a sequence of statements sharing one context.
type session struct {
	ctx     *infix.Context
	mode    infix.Mode
	postfix bool
	out     io.Writer
	log     log.FieldLogger
}

// bind handles a name=value definition given before any statement.
func (s *session) bind(def string) error {
	name, src, ok := infix.SplitAssignment(def)
	if !ok {
		return fmt.Errorf(`variable definitions must be "name=value", not %q`, def)
	}
	n, err := infix.Parse(src)
	if err != nil {
		return fmt.Errorf("setting %c: %w", name, err)
	}
	s.ctx.Set(name, n)
	return nil
}

// run evaluates one statement and prints its result or error.
func (s *session) run(stmt string) error {
	var (
		r   *infix.Node
		err error
	)
	switch s.mode {
	case infix.ModeEvaluate:
		r, err = s.ctx.Evaluate(stmt)
	default:
		r, err = s.ctx.Simplify(stmt)
	}
	if err != nil {
		fmt.Fprintln(s.out, err)
		return err
	}
	if s.postfix {
		fmt.Fprintf(s.out, "%s : ", echo(stmt))
	}
	fmt.Fprintln(s.out, r)
	return nil
}

// echo renders the postfix form of a statement that is known to parse.
func echo(stmt string) string {
	name, src, ok := infix.SplitAssignment(stmt)
	if !ok {
		src = stmt
	}
	toks, err := infix.Postfix(src)
	if err != nil {
		panic("infix: statement parsed but did not convert: " + err.Error())
	}
	if ok {
		return string(name) + " = " + infix.FormatPostfix(toks)
	}
	return infix.FormatPostfix(toks)
}

// lineReader reads one line of input at a time, returning io.EOF at the end.
// *term.Terminal is a lineReader.
type lineReader interface {
	ReadLine() (string, error)
}

type scanLines struct {
	*bufio.Scanner
}

func (s scanLines) ReadLine() (string, error) {
	if s.Scan() {
		return s.Text(), nil
	}
	if err := s.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// console runs the interactive loop on stdin. When both stdin and the output
// are terminals, lines are read through a line editor with history.
func (s *session) console(stdin io.Reader) error {
	in, iok := stdin.(*os.File)
	out, ook := s.out.(*os.File)
	if !iok || !ook || !term.IsTerminal(int(in.Fd())) || !term.IsTerminal(int(out.Fd())) {
		return s.repl(scanLines{bufio.NewScanner(stdin)}, prompt)
	}

	fd := int(in.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	defer term.Restore(fd, state)
	screen := struct {
		io.Reader
		io.Writer
	}{in, out}
	t := term.NewTerminal(screen, prompt)
	if w, h, err := term.GetSize(int(out.Fd())); err == nil {
		t.SetSize(w, h)
	}
	// Output goes through the terminal so that newlines are translated while
	// it is in raw mode.
	s.out = t
	return s.repl(t, "")
}

// repl reads statements and commands until EOF or :quit. If p is not empty, it
// is written before each line is read.
func (s *session) repl(lines lineReader, p string) error {
	fmt.Fprintln(s.out, greeting)
	for {
		fmt.Fprint(s.out, p)
		line, err := lines.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				if p != "" {
					fmt.Fprintln(s.out)
				}
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		switch {
		case line == "":
			// do nothing
		case strings.HasPrefix(line, ":"):
			if !s.command(line) {
				return nil
			}
		default:
			if err := s.run(line); err != nil {
				s.log.WithError(err).Debug("statement failed")
			}
		}
	}
}

const help = `Enter an expression like (1+4)*7+9-2 or an assignment like x = y*2.
Commands:
  :simplify  keep variables with no binding as symbols
  :evaluate  report variables with no binding as errors
  :mode      show the current mode
  :vars      list variable bindings
  :help      show this message
  :quit      leave the console`

// command runs a console command. It returns false if the console should
// stop.
func (s *session) command(line string) bool {
	switch strings.ToLower(line) {
	case ":simplify":
		s.mode = infix.ModeSimplify
		fmt.Fprintln(s.out, "mode:", s.mode)
	case ":evaluate":
		s.mode = infix.ModeEvaluate
		fmt.Fprintln(s.out, "mode:", s.mode)
	case ":mode":
		fmt.Fprintln(s.out, "mode:", s.mode)
	case ":vars":
		names := s.ctx.Vars()
		if len(names) == 0 {
			fmt.Fprintln(s.out, "no variables")
		}
		for _, name := range names {
			fmt.Fprintf(s.out, "%c = %v\n", name, s.ctx.Lookup(name))
		}
	case ":help":
		fmt.Fprintln(s.out, help)
	case ":quit":
		return false
	default:
		fmt.Fprintf(s.out, "unknown command %q; try :help\n", line)
	}
	return true
}
