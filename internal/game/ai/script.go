package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/roulette/internal/game/chamber"
	"github.com/cory-johannsen/roulette/internal/game/command"
	"github.com/cory-johannsen/roulette/internal/game/inventory"
	"github.com/cory-johannsen/roulette/internal/game/match"
)

// DecideHook is the Lua global a dealer script must define.
const DecideHook = "decide"

// ErrBadDecision is returned when a policy's answer cannot be interpreted.
var ErrBadDecision = errors.New("ai: unusable decision")

// ScriptCaller is the interface required by Script to run the decide hook.
type ScriptCaller interface {
	Call(ctx context.Context, name, hook string, args func(L *lua.LState) []lua.LValue) (lua.LValue, error)
}

// Script delegates decisions to the decide(state) hook of a loaded Lua script.
//
// The hook receives a table shaped like:
//
//	{ stage = 1, stage_label = "I", known = "live" | "blank" | nil,
//	  me = { name, health, health_cap, eligible, items = { scan = 1, ... } },
//	  opponent = { ... },
//	  chamber = { remaining, live, blank, damage } }
//
// and returns either a command line such as "fire self" or a table
// { action = "fire", target = "self" }.
type Script struct {
	caller   ScriptCaller
	name     string
	registry *command.Registry
}

// NewScript constructs a Script policy.
//
// Precondition: caller and registry must not be nil; name must be non-empty.
func NewScript(caller ScriptCaller, name string, registry *command.Registry) *Script {
	if caller == nil || registry == nil {
		panic("ai.NewScript: caller and registry must not be nil")
	}
	if name == "" {
		panic("ai.NewScript: name must not be empty")
	}
	return &Script{caller: caller, name: name, registry: registry}
}

// Decide implements match.Policy.
func (s *Script) Decide(ctx context.Context, v match.View) (command.Request, error) {
	ts := BuildTableState(v)
	ret, err := s.caller.Call(ctx, s.name, DecideHook, func(L *lua.LState) []lua.LValue {
		return []lua.LValue{ts.LuaTable(L)}
	})
	if err != nil {
		return command.Request{}, err
	}
	return s.parse(ret)
}

func (s *Script) parse(ret lua.LValue) (command.Request, error) {
	switch v := ret.(type) {
	case lua.LString:
		return s.registry.InterpretLine(string(v))
	case *lua.LTable:
		act, ok := v.RawGetString("action").(lua.LString)
		if !ok || act == "" {
			return command.Request{}, fmt.Errorf("decide returned a table without action: %w", ErrBadDecision)
		}
		var args []string
		if target, ok := v.RawGetString("target").(lua.LString); ok && target != "" {
			args = append(args, string(target))
		}
		return s.registry.Interpret(string(act), args...)
	default:
		return command.Request{}, fmt.Errorf("decide returned %s: %w", ret.Type(), ErrBadDecision)
	}
}

// LuaTable renders ts as the decide hook's argument.
func (ts *TableState) LuaTable(L *lua.LState) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "stage", lua.LNumber(ts.Stage))
	L.SetField(t, "stage_label", lua.LString(ts.StageLabel))
	if ts.Known != nil {
		L.SetField(t, "known", lua.LString(knownName(*ts.Known)))
	}
	L.SetField(t, "me", seatTable(L, ts.Me))
	L.SetField(t, "opponent", seatTable(L, ts.Opponent))

	ch := L.NewTable()
	L.SetField(ch, "remaining", lua.LNumber(ts.Remaining))
	L.SetField(ch, "live", lua.LNumber(ts.Live))
	L.SetField(ch, "blank", lua.LNumber(ts.Blank))
	L.SetField(ch, "damage", lua.LNumber(ts.Damage))
	L.SetField(t, "chamber", ch)
	return t
}

func seatTable(L *lua.LState, s *SeatState) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "name", lua.LString(s.Name))
	L.SetField(t, "health", lua.LNumber(s.Health))
	L.SetField(t, "health_cap", lua.LNumber(s.HealthCap))
	L.SetField(t, "eligible", lua.LBool(s.Eligible))
	items := L.NewTable()
	for _, k := range inventory.Kinds {
		L.SetField(items, k.String(), lua.LNumber(s.Items[k]))
	}
	L.SetField(t, "items", items)
	return t
}

func knownName(r chamber.Round) string {
	return strings.ToLower(r.String())
}
