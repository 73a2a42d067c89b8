package ray

import (
	"sort"

	"github.com/samber/lo"
)

// Cell is a binding slot.  A Cell created by NewCell is already set.  An
// empty Cell is a forward reference that is set exactly once, which lets a
// closure's environment refer to the closure itself.
type Cell struct {
	v Value
}

// NewCell returns a Cell holding v.
func NewCell(v Value) *Cell {
	return &Cell{v: v}
}

// Get returns the value in c and false if c has not been set.
func (c *Cell) Get() (Value, bool) {
	return c.v, c.v != nil
}

// Set stores v in c.  Set returns an error if c was already set.
func (c *Cell) Set(v Value) error {
	if c.v != nil {
		return evalErrorf(RecursiveBindingConflict, "", "binding cell already set")
	}
	c.v = v
	return nil
}

// Frame maps names to stacks of Cells.  The most recently pushed Cell for a
// name shadows the others.
type Frame struct {
	bindings map[string][]*Cell
}

func newFrame() *Frame {
	return &Frame{bindings: make(map[string][]*Cell)}
}

// Bound returns true if name has at least one binding in f.
func (f *Frame) Bound(name string) bool {
	return len(f.bindings[name]) > 0
}

// Names returns the names bound in f in sorted order.
func (f *Frame) Names() []string {
	var names []string
	for name, cells := range f.bindings {
		if len(cells) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (f *Frame) cell(name string) (*Cell, bool) {
	cells := f.bindings[name]
	if len(cells) == 0 {
		return nil, false
	}
	return cells[len(cells)-1], true
}

func (f *Frame) clone() *Frame {
	cp := &Frame{bindings: make(map[string][]*Cell, len(f.bindings))}
	for name, cells := range f.bindings {
		if len(cells) == 0 {
			continue
		}
		cp.bindings[name] = append([]*Cell(nil), cells...)
	}
	return cp
}

// Environment is a chain of lexical frames.  The last frame is innermost.
type Environment struct {
	frames []*Frame
}

// NewEnvironment returns an Environment with a single empty frame.
func NewEnvironment() *Environment {
	return &Environment{frames: []*Frame{newFrame()}}
}

// Depth returns the number of frames in env.
func (env *Environment) Depth() int {
	return len(env.frames)
}

// Top returns the innermost frame or nil if env has no frames.
func (env *Environment) Top() *Frame {
	if len(env.frames) == 0 {
		return nil
	}
	return env.frames[len(env.frames)-1]
}

// Push adds an empty innermost frame and returns env.
func (env *Environment) Push() *Environment {
	env.frames = append(env.frames, newFrame())
	return env
}

// Pop removes the innermost frame and returns it.
func (env *Environment) Pop() (*Frame, error) {
	if len(env.frames) == 0 {
		return nil, evalErrorf(EmptyBinding, "", "pop called on an empty environment")
	}
	f := env.frames[len(env.frames)-1]
	env.frames[len(env.frames)-1] = nil
	env.frames = env.frames[:len(env.frames)-1]
	return f, nil
}

// Extend binds name to v in the innermost frame, shadowing any existing
// binding, and returns env.
func (env *Environment) Extend(name string, v Value) *Environment {
	return env.ExtendCell(name, NewCell(v))
}

// ExtendCell binds name to c in the innermost frame and returns env.
func (env *Environment) ExtendCell(name string, c *Cell) *Environment {
	if len(env.frames) == 0 {
		env.Push()
	}
	f := env.Top()
	f.bindings[name] = append(f.bindings[name], c)
	return env
}

// Unbind removes the most recent binding of name from the innermost frame
// binding it and returns the removed value.
func (env *Environment) Unbind(name string) (Value, error) {
	for i := len(env.frames) - 1; i >= 0; i-- {
		f := env.frames[i]
		cells := f.bindings[name]
		if len(cells) == 0 {
			continue
		}
		c := cells[len(cells)-1]
		cells[len(cells)-1] = nil
		f.bindings[name] = cells[:len(cells)-1]
		v, _ := c.Get()
		return v, nil
	}
	return nil, evalErrorf(EmptyBinding, name, "no binding to remove")
}

// LookupCell returns the Cell currently bound to name.
func (env *Environment) LookupCell(name string) (*Cell, bool) {
	for i := len(env.frames) - 1; i >= 0; i-- {
		if c, ok := env.frames[i].cell(name); ok {
			return c, true
		}
	}
	return nil, false
}

// Lookup scans frames innermost-out and returns the value most recently bound
// to name in the first frame that binds it.  A forward reference that has not
// been set is reported as unbound.
func (env *Environment) Lookup(name string) (Value, bool) {
	c, ok := env.LookupCell(name)
	if !ok {
		return nil, false
	}
	return c.Get()
}

// Clone returns a copy of env that can be extended, unbound, pushed and popped
// without affecting env.  Cells and the values they hold are shared.
func (env *Environment) Clone() *Environment {
	frames := make([]*Frame, len(env.frames))
	for i, f := range env.frames {
		frames[i] = f.clone()
	}
	return &Environment{frames: frames}
}

// Names returns every name bound anywhere in env, sorted and without
// duplicates.
func (env *Environment) Names() []string {
	var names []string
	for _, f := range env.frames {
		names = append(names, f.Names()...)
	}
	names = lo.Uniq(names)
	sort.Strings(names)
	return names
}
