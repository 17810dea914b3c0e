package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/infix"
)

// Version is filled in by the linker when building releases.
var Version string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	mode := modeFlag(infix.ModeSimplify)
	var (
		given                     []string
		inname                    string
		postfix, verbose, version bool
	)
	cmd := &cobra.Command{
		Use:   "infix [flags] [statement...]",
		Short: "Simplify and evaluate arithmetic statements",
		Long: `Simplify and evaluate arithmetic statements over single-letter variables.

Each argument is a statement, either an expression like "(1+4)*7+9-2" or an
assignment like "x = y*2". Statements share one set of variables and are
handled in order. With no statements, infix starts an interactive console.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if version {
				printVersion(cmd.OutOrStdout())
				return nil
			}
			logger := log.New()
			logger.SetOutput(cmd.ErrOrStderr())
			logger.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
			logger.SetLevel(log.WarnLevel)
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}

			s := &session{
				ctx:     infix.NewContext(infix.WithLogger(logger)),
				mode:    infix.Mode(mode),
				postfix: postfix,
				out:     cmd.OutOrStdout(),
				log:     logger,
			}
			for _, g := range given {
				if err := s.bind(g); err != nil {
					return err
				}
			}

			stmts := args
			if inname != "" {
				in, err := readStatements(inname, cmd.InOrStdin())
				if err != nil {
					return err
				}
				stmts = append(in, stmts...)
			}
			if inname == "" && len(stmts) == 0 {
				return s.console(cmd.InOrStdin())
			}

			failed := 0
			for _, stmt := range stmts {
				if err := s.run(stmt); err != nil {
					logger.WithError(err).WithField("stmt", stmt).Error("statement failed")
					failed++
				}
			}
			if failed != 0 {
				return fmt.Errorf("%d of %d statements failed", failed, len(stmts))
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.Var(&mode, "mode", "how to treat variables with no binding: simplify keeps them, evaluate fails")
	flags.StringArrayVar(&given, "given", nil, "name=value variable definition (any number of times)")
	flags.StringVar(&inname, "in", "", "file of statements, one per line (- for stdin)")
	flags.BoolVar(&postfix, "postfix", false, "print the postfix form of each statement")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log variable bindings and lookups")
	flags.BoolVar(&version, "version", false, "report the version of this executable")
	return cmd
}

// modeFlag is an infix.Mode as a command-line flag.
type modeFlag infix.Mode

func (m *modeFlag) String() string {
	return infix.Mode(*m).String()
}

func (m *modeFlag) Set(s string) error {
	switch strings.ToLower(s) {
	case "simplify":
		*m = modeFlag(infix.ModeSimplify)
	case "evaluate":
		*m = modeFlag(infix.ModeEvaluate)
	default:
		return fmt.Errorf(`mode must be "simplify" or "evaluate", not %q`, s)
	}
	return nil
}

func (m *modeFlag) Type() string {
	return "mode"
}

// readStatements reads the non-blank lines of a file, or of stdin if name is
// "-".
func readStatements(name string, stdin io.Reader) ([]string, error) {
	var r io.Reader = stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var stmts []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			stmts = append(stmts, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return stmts, nil
}

func printVersion(w io.Writer) {
	fmt.Fprint(w, "infix ")
	switch info, ok := debug.ReadBuildInfo(); {
	case Version != "":
		fmt.Fprint(w, Version)
	case ok:
		fmt.Fprint(w, info.Main.Version)
	default:
		fmt.Fprint(w, "(unknown version)")
	}
	fmt.Fprintln(w)
}
