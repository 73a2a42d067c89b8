// Package raytest runs ray source against an interpreter in go tests.
package raytest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/brownplt/BlockLang-sub000/parser"
	"github.com/brownplt/BlockLang-sub000/ray"
	"github.com/brownplt/BlockLang-sub000/ray/raylib"
)

// TestPrefix marks the top-level functions of a test file that RunTestFile
// runs as tests.
const TestPrefix = "test-"

// Runner is a test runner.
type Runner struct {
	// Config is applied to every interpreter the runner creates.
	Config []ray.Config
	// Loader is used to initialize the builtin namespace.  When Loader is
	// nil raylib.Load is used.
	Loader func(*ray.Interpreter) error
}

// NewInterpreter returns an interpreter with the runner's configuration and
// library.
func (r *Runner) NewInterpreter() (*ray.Interpreter, error) {
	in, err := ray.New(r.Config...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize interpreter: %w", err)
	}
	loader := r.Loader
	if loader == nil {
		loader = raylib.Load
	}
	err = loader(in)
	if err != nil {
		return nil, fmt.Errorf("failed to load library: %w", err)
	}
	return in, nil
}

// Result executes the statements in src and returns the text of the last
// result.  The result of a definition is the defined name.  When a
// statement fails the error text is returned.
func Result(in *ray.Interpreter, src string) string {
	stmts, err := parser.ParseString("test", src)
	if err != nil {
		return err.Error()
	}
	var result string
	for _, stmt := range stmts {
		v, err := parser.Exec(in, stmt)
		switch {
		case err != nil:
			return err.Error()
		case stmt.IsDefinition():
			result = stmt.Name
		default:
			result = ray.Display(v)
		}
	}
	return result
}

// TestSequence is a sequence of expressions which are evaluated sequentially
// by one interpreter.
type TestSequence []struct {
	Expr   string // source text
	Result string // the displayed result or error text
}

// TestSuite is a set of named TestSequences.
type TestSuite []struct {
	Name string
	TestSequence
}

// RunTestSuite runs each TestSequence in tests on an isolated interpreter
// created by a default Runner.
func RunTestSuite(t *testing.T, tests TestSuite) {
	t.Helper()
	(&Runner{}).RunTestSuite(t, tests)
}

// RunTestSuite runs each TestSequence in tests on an isolated interpreter.
func (r *Runner) RunTestSuite(t *testing.T, tests TestSuite) {
	t.Helper()
	for i, test := range tests {
		in, err := r.NewInterpreter()
		if err != nil {
			t.Fatal(err)
		}
		for j, expr := range test.TestSequence {
			result := Result(in, expr.Expr)
			if result != expr.Result {
				t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
			}
		}
	}
}

// RunTestFile loads the program at path and runs each of its zero argument
// top-level functions whose name begins with TestPrefix as a subtest.  A
// test passes when its function returns anything other than false.
func (r *Runner) RunTestFile(t *testing.T, path string) {
	source, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("Unable to read test file: %v", err)
		return
	}
	var names []string
	ok := t.Run("$load", func(t *testing.T) {
		in, err := r.load(path, source)
		if err != nil {
			t.Error(err)
			return
		}
		for _, name := range in.GetAllBoundIdentifiers() {
			if strings.HasPrefix(name, TestPrefix) && !in.IsBuiltin(name) {
				names = append(names, name)
			}
		}
		if len(names) == 0 {
			t.Errorf("no tests defined in %s", path)
		}
	})
	if !ok {
		return
	}
	for _, name := range names {
		name := name
		// Every test gets a fresh interpreter so a failure cannot leak into
		// the tests that follow.
		t.Run(name, func(t *testing.T) {
			in, err := r.load(path, source)
			if err != nil {
				t.Error(err)
				return
			}
			v, err := in.Eval(&ray.AppExpr{Fn: &ray.NameExpr{Name: name}})
			if err != nil {
				t.Error(err)
				var stopped *ray.StoppedError
				if errors.As(err, &stopped) {
					var buf bytes.Buffer
					stopped.Stack.DebugPrint(&buf)
					t.Error(buf.String())
				}
				return
			}
			if ray.IsFalse(v) {
				t.Errorf("%s returned false", name)
			}
		})
	}
}

// RunTestDir runs every *.ray file in dir with RunTestFile.
func (r *Runner) RunTestDir(t *testing.T, dir string) {
	files, err := filepath.Glob(filepath.Join(dir, "*.ray"))
	if err != nil {
		t.Fatalf("Failed to list test files: %v", err)
	}
	sort.Strings(files)
	for _, path := range files {
		path := path
		t.Run(filepath.Base(path), func(t *testing.T) {
			r.RunTestFile(t, path)
		})
	}
}

func (r *Runner) load(path string, source []byte) (*ray.Interpreter, error) {
	in, err := r.NewInterpreter()
	if err != nil {
		return nil, err
	}
	err = parser.Load(in, filepath.Base(path), bytes.NewReader(source), nil)
	if err != nil {
		return nil, err
	}
	return in, nil
}

// BenchmarkFile returns a benchmark that loads the program at path with a
// fresh interpreter on every iteration.
func (r *Runner) BenchmarkFile(path string) func(*testing.B) {
	return func(b *testing.B) {
		source, err := os.ReadFile(path)
		if err != nil {
			b.Fatal(err)
		}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			_, err := r.load(path, source)
			if err != nil {
				b.Fatal(err)
			}
		}
	}
}
