package scripting

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/roulette/internal/game/rng"
)

var (
	// ErrNoScript is returned by Call when no script is loaded under the name.
	ErrNoScript = errors.New("scripting: no such script")
	// ErrNoHook is returned by Call when the script does not define the hook.
	ErrNoHook = errors.New("scripting: hook not defined")
)

type script struct {
	mu    sync.Mutex
	L     *lua.LState
	limit int
}

// Manager owns one sandboxed LState per loaded script.
//
// Manager is safe for concurrent use. Each LState is single-threaded; calls
// into the same script are serialized.
type Manager struct {
	mu      sync.RWMutex
	scripts map[string]*script
	src     rng.Source
	logger  *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: src and logger must be non-nil.
func NewManager(src rng.Source, logger *zap.Logger) *Manager {
	if src == nil || logger == nil {
		panic("scripting.NewManager: src and logger must be non-nil")
	}
	return &Manager{
		scripts: make(map[string]*script),
		src:     src,
		logger:  logger,
	}
}

// LoadFile reads path and loads it under name. See LoadString.
func (m *Manager) LoadFile(name, path string, instLimit int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("scripting: reading %q: %w", path, err)
	}
	return m.LoadString(name, string(data), instLimit)
}

// LoadString creates a sandboxed VM for name, registers the engine modules,
// and executes src. A previously loaded script under name is replaced.
//
// Precondition: name must be non-empty.
// Postcondition: returns an error on Lua load failure or when the top-level
// chunk exceeds instLimit opcodes; the previous script, if any, is kept.
func (m *Manager) LoadString(name, src string, instLimit int) error {
	if name == "" {
		return errors.New("scripting: script name must be non-empty")
	}
	L := NewSandboxedState()
	m.RegisterModules(L, name)
	if err := Budgeted(context.Background(), L, instLimit, func() error { return L.DoString(src) }); err != nil {
		L.Close()
		return fmt.Errorf("scripting: loading %q: %w", name, err)
	}

	m.mu.Lock()
	if old, ok := m.scripts[name]; ok {
		old.mu.Lock()
		old.L.Close()
		old.mu.Unlock()
	}
	m.scripts[name] = &script{L: L, limit: instLimit}
	m.mu.Unlock()
	m.logger.Info("script loaded", zap.String("script", name), zap.Int("instruction_limit", instLimit))
	return nil
}

// Call invokes the Lua global hook in the named script. args builds the
// arguments with the script's LState, so tables can be constructed for it.
// A nil args passes no arguments.
//
// Postcondition: returns the hook's first return value, or an error wrapping
// ErrNoScript or ErrNoHook, or the Lua runtime error (including the
// instruction limit and ctx cancellation).
func (m *Manager) Call(ctx context.Context, name, hook string, args func(L *lua.LState) []lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	s, ok := m.scripts[name]
	m.mu.RUnlock()
	if !ok {
		return lua.LNil, fmt.Errorf("%q: %w", name, ErrNoScript)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	fn := s.L.GetGlobal(hook)
	if fn.Type() != lua.LTFunction {
		return lua.LNil, fmt.Errorf("%s.%s: %w", name, hook, ErrNoHook)
	}
	var argv []lua.LValue
	if args != nil {
		argv = args(s.L)
	}

	err := Budgeted(ctx, s.L, s.limit, func() error {
		return s.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, argv...)
	})
	if err != nil {
		m.logger.Warn("Lua runtime error",
			zap.String("script", name),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, fmt.Errorf("scripting: %s.%s: %w", name, hook, err)
	}
	ret := s.L.Get(-1)
	s.L.Pop(1)
	return ret, nil
}

// Close releases every loaded VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, s := range m.scripts {
		s.mu.Lock()
		s.L.Close()
		s.mu.Unlock()
		delete(m.scripts, name)
	}
}
