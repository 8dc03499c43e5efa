// scenario.go - scripting surface binding Lua calls to a powerdfs.Manager
package main

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/intuitionamiga/powerdfs"
	"github.com/intuitionamiga/powerdfs/simhw"
)

// scenario owns one simulated Manager plus a monotonically advancing
// virtual clock, and registers the lock/unlock/advance/assert_mode
// vocabulary used by both the Lua scenario files and the REPL.
type scenario struct {
	mgr   *powerdfs.Manager
	clock *simhw.Clock
	tick  *simhw.Tick
	nowUS int64
}

func newScenario() *scenario {
	clock := simhw.NewClock(10, 80, []int{10, 40, 80, 160, 240}, 160)
	tick := simhw.NewTick(1, 100_000)
	tick.SeedCompare(0, 100_000)
	timer := simhw.NewTimer(80)
	seq := simhw.NewSleepSequencer()

	s := &scenario{clock: clock, tick: tick}
	s.mgr = powerdfs.NewManager(1, clock, tick, timer, seq, powerdfs.WithClockFunc(func() int64 { return s.nowUS }))
	if err := s.mgr.Init(160); err != nil {
		panic(fmt.Sprintf("pmsim: init: %v", err))
	}
	return s
}

// register binds this scenario's vocabulary into L as global functions.
func (s *scenario) register(L *lua.LState) {
	L.SetGlobal("lock", L.NewFunction(s.luaLock))
	L.SetGlobal("unlock", L.NewFunction(s.luaUnlock))
	L.SetGlobal("idle", L.NewFunction(s.luaIdle))
	L.SetGlobal("isr", L.NewFunction(s.luaISR))
	L.SetGlobal("advance", L.NewFunction(s.luaAdvance))
	L.SetGlobal("configure", L.NewFunction(s.luaConfigure))
	L.SetGlobal("assert_mode", L.NewFunction(s.luaAssertMode))
	L.SetGlobal("mode", L.NewFunction(s.luaMode))
}

func lockKindFromString(name string) (powerdfs.LockKind, error) {
	switch name {
	case "CPU_FREQ_MAX":
		return powerdfs.LockCPUFreqMax, nil
	case "APB_FREQ_MAX":
		return powerdfs.LockAPBFreqMax, nil
	case "NO_LIGHT_SLEEP":
		return powerdfs.LockNoLightSleep, nil
	default:
		return 0, fmt.Errorf("unknown lock kind %q", name)
	}
}

func (s *scenario) luaLock(L *lua.LState) int {
	kind, err := lockKindFromString(L.CheckString(1))
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	s.mgr.Notify(kind, powerdfs.ActionLock, 0, s.nowUS)
	return 0
}

func (s *scenario) luaUnlock(L *lua.LState) int {
	kind, err := lockKindFromString(L.CheckString(1))
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	s.mgr.Notify(kind, powerdfs.ActionUnlock, 0, s.nowUS)
	return 0
}

func (s *scenario) luaIdle(L *lua.LState) int {
	s.mgr.IdleHook(0)
	return 0
}

func (s *scenario) luaISR(L *lua.LState) int {
	s.mgr.ISRHook(0)
	return 0
}

func (s *scenario) luaAdvance(L *lua.LState) int {
	us := int64(L.CheckNumber(1))
	s.nowUS += us
	s.tick.Advance(0, uint32(us))
	return 0
}

func (s *scenario) luaConfigure(L *lua.LState) int {
	tbl := L.CheckTable(1)
	cfg := powerdfs.Config{
		MinFreqMHz:        int(lua.LVAsNumber(tbl.RawGetString("min"))),
		MaxFreqMHz:        int(lua.LVAsNumber(tbl.RawGetString("max"))),
		LightSleepEnabled: lua.LVAsBool(tbl.RawGetString("light")),
	}
	if err := s.mgr.Configure(cfg); err != nil {
		L.Push(lua.LString(err.Error()))
		return 1
	}
	L.Push(lua.LNil)
	return 1
}

func (s *scenario) luaAssertMode(L *lua.LState) int {
	want := L.CheckString(1)
	if got := s.mgr.CurrentMode().String(); got != want {
		L.RaiseError("assert_mode: mode is %s, want %s", got, want)
	}
	return 0
}

func (s *scenario) luaMode(L *lua.LState) int {
	L.Push(lua.LString(s.mgr.CurrentMode().String()))
	return 1
}
