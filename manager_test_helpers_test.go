// manager_test_helpers_test.go - shared simulated-hardware fixture for tests

package powerdfs

import (
	"testing"

	"github.com/intuitionamiga/powerdfs/simhw"
)

type testRig struct {
	mgr   *Manager
	clock *simhw.Clock
	tick  *simhw.Tick
	timer *simhw.Timer
	seq   *simhw.SleepSequencer
}

// newTestRig wires a Manager to deterministic simulated hardware
// supporting 10/40/80/160/240 MHz, booting at 160 MHz with a 10 MHz
// XTAL, and seeds both CPUs' compare registers one tick period out.
func newTestRig(t *testing.T, numCPUs int, opts ...Option) *testRig {
	t.Helper()

	clock := simhw.NewClock(10, 80, []int{10, 40, 80, 160, 240}, 160)
	tick := simhw.NewTick(numCPUs, 100_000)
	for c := 0; c < numCPUs; c++ {
		tick.SeedCompare(c, 100_000)
	}
	timer := simhw.NewTimer(80)
	seq := simhw.NewSleepSequencer()

	mgr := NewManager(numCPUs, clock, tick, timer, seq, opts...)
	tick.OnCrossCoreInterrupt = func(target int) { mgr.ISRHook(target) }

	if err := mgr.Init(160); err != nil {
		t.Fatalf("Init: %v", err)
	}

	return &testRig{mgr: mgr, clock: clock, tick: tick, timer: timer, seq: seq}
}

// newDisabledFixture builds the bare collaborators needed to construct
// a Manager that is never Init'd, for WithDisabled tests where every
// entry point must be a no-op rather than touch the hardware at all.
func newDisabledFixture() (*simhw.Clock, *simhw.Tick, *simhw.Timer, *simhw.SleepSequencer) {
	clock := simhw.NewClock(10, 80, []int{10, 40, 80, 160, 240}, 160)
	tick := simhw.NewTick(1, 100_000)
	timer := simhw.NewTimer(80)
	seq := simhw.NewSleepSequencer()
	return clock, tick, timer, seq
}
