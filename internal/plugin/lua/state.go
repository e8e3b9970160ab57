package lua

import (
	"context"
	"fmt"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/geodraw/internal/logging"
)

// DefaultTimeout bounds a single script load or hook call.
const DefaultTimeout = time.Second

// State is a sandboxed Lua runtime.
//
// gopher-lua states are not goroutine-safe; a State must only be used from
// the goroutine that drives its mode manager.
type State struct {
	L *lua.LState

	timeout time.Duration
	log     *logging.Logger
	sandbox *Sandbox
	closed  bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithTimeout bounds each call into Lua. Zero disables the bound.
func WithTimeout(d time.Duration) StateOption {
	return func(s *State) { s.timeout = d }
}

// WithLogger receives the output of print.
func WithLogger(log *logging.Logger) StateOption {
	return func(s *State) { s.log = log }
}

// NewState creates a sandboxed state.
func NewState(opts ...StateOption) *State {
	s := &State{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logging.Nop()
	}

	s.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(s.L)
	s.sandbox = NewSandbox(s.L, s.log)
	s.sandbox.Install()
	return s
}

// openSafeLibraries opens base, table, string and math. io, os, debug,
// channel, coroutine and package stay closed.
func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
}

// Sandbox returns the sandbox of the state.
func (s *State) Sandbox() *Sandbox {
	return s.sandbox
}

// LoadModule runs a script file and returns the table it evaluates to.
func (s *State) LoadModule(path string) (*lua.LTable, error) {
	if s.closed {
		return nil, ErrStateClosed
	}
	fn, err := s.L.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return s.module(fn)
}

// LoadModuleString runs script source and returns the table it evaluates to.
func (s *State) LoadModuleString(name, src string) (*lua.LTable, error) {
	if s.closed {
		return nil, ErrStateClosed
	}
	fn, err := s.L.Load(strings.NewReader(src), name)
	if err != nil {
		return nil, err
	}
	return s.module(fn)
}

func (s *State) module(fn *lua.LFunction) (*lua.LTable, error) {
	ret, err := s.Call(fn)
	if err != nil {
		return nil, err
	}
	if len(ret) == 0 {
		return nil, ErrNotAModule
	}
	tbl, ok := ret[0].(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%w, got %s", ErrNotAModule, ret[0].Type())
	}
	return tbl, nil
}

// Call calls fn with args and returns its results.
func (s *State) Call(fn *lua.LFunction, args ...lua.LValue) (ret []lua.LValue, err error) {
	if s.closed {
		return nil, ErrStateClosed
	}

	if s.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		prev := s.L.Context()
		s.L.SetContext(ctx)
		defer func() {
			if prev != nil {
				s.L.SetContext(prev)
			} else {
				s.L.RemoveContext()
			}
		}()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	top := s.L.GetTop()
	s.L.Push(fn)
	for _, a := range args {
		s.L.Push(a)
	}
	if err := s.L.PCall(len(args), lua.MultRet, nil); err != nil {
		s.L.SetTop(top)
		return nil, err
	}

	n := s.L.GetTop() - top
	ret = make([]lua.LValue, n)
	for i := 0; i < n; i++ {
		ret[i] = s.L.Get(top + i + 1)
	}
	s.L.SetTop(top)
	return ret, nil
}

// Close releases the state.
func (s *State) Close() {
	if s.closed {
		return
	}
	s.L.Close()
	s.closed = true
}

// IsClosed reports whether Close has been called.
func (s *State) IsClosed() bool {
	return s.closed
}
