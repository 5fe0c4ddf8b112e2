package scripting_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/roulette/internal/scripting"
)

func TestNewSandboxedState_UnsafeLibsNil(t *testing.T) {
	L := scripting.NewSandboxedState()
	require.NotNil(t, L)
	defer L.Close()
	for _, name := range []string{"os", "io", "debug"} {
		assert.Equal(t, lua.LNil, L.GetGlobal(name), "expected %s to be nil", name)
	}
}

func TestNewSandboxedState_DangerousGlobalsNil(t *testing.T) {
	L := scripting.NewSandboxedState()
	defer L.Close()
	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require"} {
		assert.Equal(t, lua.LNil, L.GetGlobal(name), "expected %s to be nil", name)
	}
}

func TestNewSandboxedState_SafeLibsAvailable(t *testing.T) {
	L := scripting.NewSandboxedState()
	defer L.Close()
	err := L.DoString(`
		local x = math.sqrt(4)
		assert(x == 2.0, "math.sqrt failed")
		local s = string.upper("hello")
		assert(s == "HELLO", "string.upper failed")
		local t = {3, 1, 2}
		table.sort(t)
		assert(t[1] == 1, "table.sort failed")
	`)
	assert.NoError(t, err)
}

func TestBudgeted_InstructionLimitExceeded(t *testing.T) {
	L := scripting.NewSandboxedState()
	defer L.Close()
	err := scripting.Budgeted(context.Background(), L, 10, func() error {
		return L.DoString(`while true do end`)
	})
	assert.Error(t, err)
}

func TestBudgeted_BudgetIsPerCall(t *testing.T) {
	L := scripting.NewSandboxedState()
	defer L.Close()
	for i := 0; i < 5; i++ {
		err := scripting.Budgeted(context.Background(), L, 200, func() error {
			return L.DoString(`local n = 0 for i = 1, 10 do n = n + i end`)
		})
		require.NoError(t, err, "call %d", i)
	}
}

func TestBudgeted_CanceledContext(t *testing.T) {
	L := scripting.NewSandboxedState()
	defer L.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := scripting.Budgeted(ctx, L, 0, func() error {
		return L.DoString(`local x = 1 + 1`)
	})
	assert.Error(t, err)
}

func TestBudgeted_DefaultLimitRunsNormalScript(t *testing.T) {
	L := scripting.NewSandboxedState()
	defer L.Close()
	err := scripting.Budgeted(context.Background(), L, 0, func() error {
		return L.DoString(`local x = 1 + 1`)
	})
	assert.NoError(t, err)
}

func TestProperty_InstructionLimitAlwaysErrors(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		limit := rapid.IntRange(1, 50).Draw(t, "limit")
		L := scripting.NewSandboxedState()
		defer L.Close()
		err := scripting.Budgeted(context.Background(), L, limit, func() error {
			return L.DoString(`while true do end`)
		})
		if err == nil {
			t.Fatalf("expected error with limit=%d but got nil", limit)
		}
	})
}
