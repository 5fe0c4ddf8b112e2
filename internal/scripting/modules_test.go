package scripting_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/roulette/internal/game/rng"
	"github.com/cory-johannsen/roulette/internal/scripting"
	"github.com/cory-johannsen/roulette/internal/testutil"
)

func runHook(t *testing.T, mgr *scripting.Manager, luaSrc, hook string) lua.LValue {
	t.Helper()
	require.NoError(t, mgr.LoadString("modtest", luaSrc, 0))
	ret, err := mgr.Call(context.Background(), "modtest", hook, nil)
	require.NoError(t, err)
	return ret
}

func TestEngineLog_AllLevels(t *testing.T) {
	mgr, logs := newTestManager(t)
	runHook(t, mgr, `
		function do_logs()
			engine.log.debug("d")
			engine.log.info("i")
			engine.log.warn("w")
			engine.log.error("e")
		end
	`, "do_logs")

	levels := map[string]zapcore.Level{}
	for _, e := range logs.All() {
		levels[e.Message] = e.Level
	}
	assert.Equal(t, zapcore.DebugLevel, levels["d"])
	assert.Equal(t, zapcore.InfoLevel, levels["i"])
	assert.Equal(t, zapcore.WarnLevel, levels["w"])
	assert.Equal(t, zapcore.ErrorLevel, levels["e"])
}

func TestEngineLog_TagsScript(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	mgr := scripting.NewManager(rng.NewSeededSource(1), zap.New(core))
	defer mgr.Close()
	runHook(t, mgr, `function go_log() engine.log.info("tagged") end`, "go_log")
	entries := logs.FilterMessage("tagged").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "modtest", entries[0].ContextMap()["script"])
}

func TestEngineRandom_UsesSource(t *testing.T) {
	src := testutil.NewSequenceSource(4)
	mgr := scripting.NewManager(src, zap.NewNop())
	defer mgr.Close()
	ret := runHook(t, mgr, `function roll() return engine.random(6) end`, "roll")
	assert.Equal(t, lua.LNumber(5), ret)
	assert.Equal(t, 1, src.Calls())
	src.AssertExhausted(t)
}

func TestEngineRandom_RejectsNonPositive(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.LoadString("modtest", `function roll() return engine.random(0) end`, 0))
	_, err := mgr.Call(context.Background(), "modtest", "roll", nil)
	assert.Error(t, err)
}

func TestProperty_EngineRandomInRange(t *testing.T) {
	mgr, _ := newTestManager(t)
	require.NoError(t, mgr.LoadString("modtest", `function roll(n) return engine.random(n) end`, 0))
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 1000).Draw(rt, "n")
		ret, err := mgr.Call(context.Background(), "modtest", "roll", numbers(float64(n)))
		require.NoError(rt, err)
		v := int(ret.(lua.LNumber))
		assert.GreaterOrEqual(rt, v, 1)
		assert.LessOrEqual(rt, v, n)
	})
}
