package ray

import (
	"bytes"
	"fmt"
	"io"
)

// DefaultMaxStackHeight is the default limit on the height of an
// Interpreter's CallStack.
const DefaultMaxStackHeight = 10000

// CallStack is a function call stack.
type CallStack struct {
	Frames []CallFrame
	// MaxHeight is the largest number of frames allowed on the stack.  A
	// MaxHeight of zero imposes no limit.
	MaxHeight int
}

// CallFrame is one frame in the CallStack
type CallFrame struct {
	Name      string
	Primitive bool
	// Repeat is the number of consecutive entries into the same closure
	// when the frame was pushed.
	Repeat int
}

// FunName returns the display name for the function in f.
func (f *CallFrame) FunName() string {
	if f == nil {
		return ""
	}
	if f.Name == "" {
		return "lambda"
	}
	return f.Name
}

// Copy creates a copy of the current stack so that it can be attached to a
// StoppedError.
func (s *CallStack) Copy() *CallStack {
	frames := make([]CallFrame, len(s.Frames))
	copy(frames, s.Frames)
	return &CallStack{Frames: frames, MaxHeight: s.MaxHeight}
}

// Height returns the number of frames on the stack.
func (s *CallStack) Height() int {
	if s == nil {
		return 0
	}
	return len(s.Frames)
}

// Top returns the CallFrame at the top of the stack or nil if none exists.
func (s *CallStack) Top() *CallFrame {
	if s == nil || len(s.Frames) == 0 {
		return nil
	}
	return &s.Frames[len(s.Frames)-1]
}

// Push pushes a new stack frame onto s.  Push returns false without modifying
// s if the frame would exceed s.MaxHeight.
func (s *CallStack) Push(frame CallFrame) bool {
	if s.MaxHeight > 0 && len(s.Frames) >= s.MaxHeight {
		return false
	}
	s.Frames = append(s.Frames, frame)
	return true
}

// Pop removes the top CallFrame from the stack and returns it.
func (s *CallStack) Pop() CallFrame {
	if len(s.Frames) < 1 {
		panic("pop called on an empty stack")
	}
	f := s.Frames[len(s.Frames)-1]
	s.Frames[len(s.Frames)-1] = CallFrame{}
	s.Frames = s.Frames[:len(s.Frames)-1]
	return f
}

// Reset removes all frames from s.
func (s *CallStack) Reset() {
	for i := range s.Frames {
		s.Frames[i] = CallFrame{}
	}
	s.Frames = s.Frames[:0]
}

// DebugPrint prints s
func (s *CallStack) DebugPrint(w io.Writer) (int, error) {
	n, err := fmt.Fprintf(w, "Stack Trace [%d frames -- entrypoint last]:\n", len(s.Frames))
	if err != nil {
		return n, err
	}
	indent := "  "
	for i := len(s.Frames) - 1; i >= 0; i-- {
		f := s.Frames[i]
		var mod bytes.Buffer
		if f.Primitive {
			mod.WriteString(" [primitive]")
		}
		if f.Repeat > 1 {
			fmt.Fprintf(&mod, " [repeat %d]", f.Repeat)
		}
		_n, err := fmt.Fprintf(w, "%sheight %d: %s%s\n", indent, i, f.FunName(), mod.String())
		n += _n
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
