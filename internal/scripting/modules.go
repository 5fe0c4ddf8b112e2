package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers the engine table into L:
//
//	engine.log.debug/info/warn/error(msg)  write to the manager's logger
//	engine.random(n)                       uniform integer in [1, n]
//
// Precondition: L must be from NewSandboxedState.
func (m *Manager) RegisterModules(L *lua.LState, script string) {
	engine := L.NewTable()

	logTbl := L.NewTable()
	for level, fn := range map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	} {
		L.SetField(logTbl, level, L.NewFunction(func(L *lua.LState) int {
			fn(L.CheckString(1), zap.String("script", script))
			return 0
		}))
	}
	L.SetField(engine, "log", logTbl)

	L.SetField(engine, "random", L.NewFunction(func(L *lua.LState) int {
		n := L.CheckInt(1)
		if n < 1 {
			L.ArgError(1, "n must be >= 1")
			return 0
		}
		L.Push(lua.LNumber(m.src.Intn(n) + 1))
		return 1
	}))

	L.SetGlobal("engine", engine)
}
