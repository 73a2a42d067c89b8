// Package repl implements an interactive read-eval-print loop for ray.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/brownplt/BlockLang-sub000/parser"
	"github.com/brownplt/BlockLang-sub000/ray"
	"github.com/chzyer/readline"
	"go.uber.org/zap"
)

const helpText = `Enter ray definitions and expressions.  Commands:
  :names        list the bound identifiers
  :limit [n]    show or change the function call limit
  :help         show this message
  :quit         leave the repl
`

// Session evaluates the lines of one interactive session.  Input that ends
// inside an unclosed list is held until a later line completes it.
type Session struct {
	in     *ray.Interpreter
	out    io.Writer
	errOut io.Writer
	log    *zap.Logger
	buf    string
	done   bool
}

// NewSession returns a session evaluating with in.  Values are printed to out
// and errors to errOut.
func NewSession(in *ray.Interpreter, out, errOut io.Writer, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{in: in, out: out, errOut: errOut, log: log}
}

// Pending returns true if the session holds incomplete input.
func (s *Session) Pending() bool {
	return s.buf != ""
}

// Done returns true after the user asked to leave.
func (s *Session) Done() bool {
	return s.done
}

// Reset discards incomplete input.
func (s *Session) Reset() {
	s.buf = ""
}

// Line processes one line of input.
func (s *Session) Line(line string) {
	if s.buf == "" && strings.HasPrefix(strings.TrimSpace(line), ":") {
		s.command(strings.Fields(strings.TrimSpace(line)))
		return
	}
	src := line
	if s.buf != "" {
		src = s.buf + "\n" + line
	}
	s.buf = ""
	if strings.TrimSpace(src) == "" {
		return
	}
	stmts, err := parser.ParseString("stdin", src)
	if err != nil {
		var perr *parser.Error
		if errors.As(err, &perr) && perr.Incomplete {
			s.buf = src
			return
		}
		s.errln(err)
		return
	}
	// A stop requested while idle belongs to an evaluation that already
	// finished.
	s.in.SetStop(false)
	for _, stmt := range stmts {
		v, err := parser.Exec(s.in, stmt)
		if err != nil {
			s.log.Debug("statement failed", zap.Stringer("source", stmt.Source), zap.Error(err))
			s.errln(err)
			if ray.IsStopped(err) {
				return
			}
			continue
		}
		if stmt.IsDefinition() {
			continue
		}
		fmt.Fprintln(s.out, ray.Display(v))
	}
}

func (s *Session) command(fields []string) {
	switch fields[0] {
	case ":quit", ":q":
		s.done = true
	case ":help", ":h":
		fmt.Fprint(s.out, helpText)
	case ":names":
		for _, name := range s.in.GetAllBoundIdentifiers() {
			if s.in.IsBuiltin(name) {
				continue
			}
			fmt.Fprintln(s.out, name)
		}
	case ":limit":
		if len(fields) > 1 {
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 1 {
				s.errln(fmt.Errorf("invalid function call limit: %s", fields[1]))
				return
			}
			s.in.SetFunctionCallLimit(n)
		}
		fmt.Fprintln(s.out, s.in.FunctionCallLimit())
	default:
		s.errln(fmt.Errorf("unknown command %s (try :help)", fields[0]))
	}
}

func (s *Session) errln(v ...interface{}) {
	fmt.Fprintln(s.errOut, v...)
}

// StopOnInterrupt stops the evaluation running in in whenever the process
// receives an interrupt.  The returned function restores the default
// interrupt handling.
func StopOnInterrupt(in *ray.Interpreter, log *zap.Logger) func() {
	sig := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(sig, os.Interrupt)
	go func() {
		for {
			select {
			case <-sig:
				log.Info("interrupt received, stopping evaluation")
				in.Stop()
			case <-done:
				return
			}
		}
	}()
	return func() {
		signal.Stop(sig)
		close(done)
	}
}

// RunRepl runs an interactive session on the terminal until the input ends
// or the user quits.
func RunRepl(in *ray.Interpreter, prompt string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		AutoComplete:    &completer{in: in},
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()
	contPrompt := strings.Repeat(" ", len(prompt)) // prompt had better be ascii...

	restore := StopOnInterrupt(in, log)
	defer restore()

	session := NewSession(in, rl.Stdout(), rl.Stderr(), log)
	for !session.Done() {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			session.Reset()
			rl.SetPrompt(prompt)
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		session.Line(line)
		if session.Pending() {
			rl.SetPrompt(contPrompt)
		} else {
			rl.SetPrompt(prompt)
		}
	}
	return nil
}

// completer completes bound identifiers.
type completer struct {
	in *ray.Interpreter
}

func (c *completer) Do(line []rune, pos int) ([][]rune, int) {
	return complete(c.in.GetAllBoundIdentifiers(), line, pos)
}

// complete returns the suffixes of names extending the identifier that ends
// at pos, along with the length of that identifier.
func complete(names []string, line []rune, pos int) ([][]rune, int) {
	start := pos
	for start > 0 && !isDelimiter(line[start-1]) {
		start--
	}
	prefix := string(line[start:pos])
	var suffixes [][]rune
	for _, name := range names {
		if len(name) > len(prefix) && strings.HasPrefix(name, prefix) {
			suffixes = append(suffixes, []rune(name[len(prefix):]))
		}
	}
	return suffixes, pos - start
}

func isDelimiter(c rune) bool {
	return c == ' ' || c == '\t' || c == '\n' || strings.ContainsRune(`()[]";'`, c)
}
