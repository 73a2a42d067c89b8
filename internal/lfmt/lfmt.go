// Package lfmt contains helpers for writing s-expression text.
package lfmt

import (
	"fmt"
	"io"
)

// WriteOp is a function that looks like w.Write but may involve many calls to
// w.Write and aggregate the result.
type WriteOp func(w io.Writer) (int, error)

// Writer is an io.Writer that tracks the total number of bytes written and
// retains the first error encountered.  After an error all further writes
// are skipped, so a sequence of writes can be checked once at the end.
type Writer struct {
	w   io.Writer
	n   int
	err error
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) count(n int, err error) (int, error) {
	w.n += n
	if err != nil && w.err == nil {
		w.err = err
	}
	return n, err
}

// Write implements io.Writer
func (w *Writer) Write(b []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	return w.count(w.w.Write(b))
}

// WriteString implements io.StringWriter
func (w *Writer) WriteString(s string) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	if sw, ok := w.w.(io.StringWriter); ok {
		return w.count(sw.WriteString(s))
	}
	return w.count(w.w.Write([]byte(s)))
}

// Printf formats according to format and writes the result.
func (w *Writer) Printf(format string, v ...interface{}) {
	if w.err != nil {
		return
	}
	w.count(fmt.Fprintf(w.w, format, v...))
}

// Do passes the underlying io.Writer to op and counts the bytes op reports.
// Do is used when op would otherwise call Write many times.
func (w *Writer) Do(op WriteOp) {
	if w.err != nil {
		return
	}
	w.count(op(w.w))
}

// N returns the total number of bytes written.
func (w *Writer) N() int {
	return w.n
}

// Err returns the first error encountered.
func (w *Writer) Err() error {
	return w.err
}

// Result returns N() and Err().
func (w *Writer) Result() (int, error) {
	return w.n, w.err
}

// Join writes each item with fn, separating items with sep.
func Join[T any](w *Writer, items []T, sep string, fn func(w io.Writer, item T) (int, error)) {
	for i, item := range items {
		if i > 0 {
			w.WriteString(sep)
		}
		item := item
		w.Do(func(w io.Writer) (int, error) { return fn(w, item) })
	}
}
