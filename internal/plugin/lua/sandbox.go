package lua

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/geodraw/internal/logging"
)

// Sandbox restricts what a script can reach.
type Sandbox struct {
	L   *lua.LState
	log *logging.Logger

	// modules are the tables require may return.
	modules map[string]lua.LValue
}

// NewSandbox creates a sandbox for L. print output goes to log.
func NewSandbox(L *lua.LState, log *logging.Logger) *Sandbox {
	return &Sandbox{L: L, log: log, modules: make(map[string]lua.LValue)}
}

// Install removes the loaders from the base library and replaces print
// and require.
func (s *Sandbox) Install() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "module"} {
		s.L.SetGlobal(name, lua.LNil)
	}
	for _, name := range []string{lua.TabLibName, lua.StringLibName, lua.MathLibName} {
		s.modules[name] = s.L.GetGlobal(name)
	}
	s.L.SetGlobal("print", s.L.NewFunction(s.print))
	s.L.SetGlobal("require", s.L.NewFunction(s.require))
}

// Provide makes a module available to require and as a global.
func (s *Sandbox) Provide(name string, mod lua.LValue) {
	s.modules[name] = mod
	s.L.SetGlobal(name, mod)
}

// Allowed reports whether require accepts name.
func (s *Sandbox) Allowed(name string) bool {
	_, ok := s.modules[name]
	return ok
}

func (s *Sandbox) print(L *lua.LState) int {
	n := L.GetTop()
	parts := make([]string, n)
	for i := 1; i <= n; i++ {
		parts[i-1] = L.ToStringMeta(L.Get(i)).String()
	}
	s.log.Info("%s", strings.Join(parts, "\t"))
	return 0
}

func (s *Sandbox) require(L *lua.LState) int {
	name := L.CheckString(1)
	mod, ok := s.modules[name]
	if !ok {
		L.RaiseError("module %q is not available", name)
		return 0
	}
	L.Push(mod)
	return 1
}
