// simhw.go - deterministic simulated collaborators for demos and tests
//
// Package simhw implements powerdfs's ClockDriver, TickHardware,
// TimerSubsystem, and SleepSequencer collaborator interfaces purely
// in software, in the shape the teacher's own emulated chips take
// (a register/state struct behind a mutex, no real I/O). It exists so
// cmd/pmsim, cmd/pmmonitor's in-process mode, and the core's own
// scenario tests can all drive a Manager without real hardware.
package simhw

import (
	"fmt"
	"sync"

	"github.com/intuitionamiga/powerdfs"
)

// Clock simulates the PLL/XTAL clock tree.
type Clock struct {
	mu sync.Mutex

	xtalMHz   int
	apbCapMHz int
	supported map[int]bool

	live        powerdfs.FreqConfig
	flashEvents int
	trace       *[]string
}

// Trace makes this Clock append one entry per ApplyConfigFast/
// NotifyFlashTiming call to log, interleaved with whatever other
// collaborator shares the same log - tests use this to pin the
// relative ordering of the APB-timer rebase and the clock-tree change.
func (c *Clock) Trace(log *[]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trace = log
}

// NewClock builds a Clock that accepts exactly the frequencies in
// supportedMHz, booting at bootMHz.
func NewClock(xtalMHz, apbCapMHz int, supportedMHz []int, bootMHz int) *Clock {
	c := &Clock{
		xtalMHz:   xtalMHz,
		apbCapMHz: apbCapMHz,
		supported: make(map[int]bool, len(supportedMHz)),
	}
	for _, f := range supportedMHz {
		c.supported[f] = true
	}
	cfg, ok := c.FreqToConfig(bootMHz)
	if !ok {
		panic(fmt.Sprintf("simhw: boot frequency %d MHz not in supported set", bootMHz))
	}
	c.live = cfg
	return c
}

func (c *Clock) FreqToConfig(mhz int) (powerdfs.FreqConfig, bool) {
	if !c.supported[mhz] {
		return powerdfs.FreqConfig{}, false
	}
	return powerdfs.FreqConfig{MHz: mhz, FromPLL: mhz > c.xtalMHz}, true
}

func (c *Clock) ApplyConfigFast(cfg powerdfs.FreqConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.live = cfg
	if c.trace != nil {
		*c.trace = append(*c.trace, "apply_config_fast")
	}
}

func (c *Clock) NotifyFlashTiming(mhz int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flashEvents++
	if c.trace != nil {
		*c.trace = append(*c.trace, "notify_flash_timing")
	}
}

func (c *Clock) ReadConfig() powerdfs.FreqConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.live
}

func (c *Clock) XtalMHz() int { return c.xtalMHz }
func (c *Clock) ApbMHz() int  { return min(c.live.MHz, c.apbCapMHz) }

// FlashEvents reports how many times NotifyFlashTiming fired, for
// tests asserting on the PLL-vs-non-PLL ordering rule.
func (c *Clock) FlashEvents() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flashEvents
}

// Tick simulates the per-CPU cycle counter and compare register. Time
// only moves when the caller calls Advance, making it suitable for
// deterministic tests of the tick-compensation math.
type Tick struct {
	mu sync.Mutex

	ccount       []uint32
	compare      []uint32
	periodCycles uint32

	// OnCrossCoreInterrupt, if set, is invoked synchronously to
	// stand in for the real cross-core interrupt - in a
	// single-process simulation there is no second physical core to
	// interrupt, so the simulated ISR runs inline on the caller's
	// goroutine, the same way a test harness would poke a mock.
	OnCrossCoreInterrupt func(targetCPU int)
}

// NewTick builds simulated tick hardware for numCPUs CPUs with the
// given tick period, in cycles.
func NewTick(numCPUs int, periodCycles uint32) *Tick {
	return &Tick{
		ccount:       make([]uint32, numCPUs),
		compare:      make([]uint32, numCPUs),
		periodCycles: periodCycles,
	}
}

func (t *Tick) NumCPUs() int { return len(t.ccount) }

func (t *Tick) CCount(cpu int) uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ccount[cpu]
}

func (t *Tick) Compare(cpu int) uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.compare[cpu]
}

func (t *Tick) SetCompare(cpu int, value uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.compare[cpu] = value
}

func (t *Tick) TickPeriodCycles(cpu int) uint32 { return t.periodCycles }

func (t *Tick) RaiseCrossCoreInterrupt(target int) {
	if t.OnCrossCoreInterrupt != nil {
		t.OnCrossCoreInterrupt(target)
	}
}

// Advance moves cpu's cycle counter forward and, if it has crossed
// compare, rearms compare one period later (the scheduler tick
// firing and being rescheduled).
func (t *Tick) Advance(cpu int, cycles uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ccount[cpu] += cycles
	for t.ccount[cpu]-t.compare[cpu] < (1 << 31) {
		t.compare[cpu] += t.periodCycles
	}
}

// SeedCompare arms cpu's first compare deadline, e.g. right after
// boot.
func (t *Tick) SeedCompare(cpu int, value uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.compare[cpu] = value
}

// SeedCCount sets cpu's cycle counter directly, for tests that need a
// specific CCOUNT/CMP relationship without advancing through Advance.
func (t *Tick) SeedCCount(cpu int, value uint32) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ccount[cpu] = value
}

// Timer simulates the software hi-resolution timer's APB-tick base.
type Timer struct {
	mu        sync.Mutex
	apbMHz    int
	updateLog []int
	trace     *[]string
}

func NewTimer(bootApbMHz int) *Timer {
	return &Timer{apbMHz: bootApbMHz}
}

// Trace makes this Timer append one entry per UpdateAPBFreq call to
// log; see Clock.Trace.
func (t *Timer) Trace(log *[]string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.trace = log
}

func (t *Timer) UpdateAPBFreq(apbMHz int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.apbMHz = apbMHz
	t.updateLog = append(t.updateLog, apbMHz)
	if t.trace != nil {
		*t.trace = append(*t.trace, "update_apb_freq")
	}
}

func (t *Timer) APBMHz() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.apbMHz
}

// UpdateLog returns every apbMHz value UpdateAPBFreq was called with,
// in order, for checking that it fires exactly when spec.md §6 says
// it should.
func (t *Timer) UpdateLog() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]int, len(t.updateLog))
	copy(out, t.updateLog)
	return out
}

// SleepSequencer simulates the light-sleep entry/exit sequencer.
type SleepSequencer struct {
	mu          sync.Mutex
	rejectNext  bool
	lastMax     int
	lastMin     int
	lastEnabled bool
	calls       int
}

func NewSleepSequencer() *SleepSequencer { return &SleepSequencer{} }

func (s *SleepSequencer) Configure(maxMHz, minMHz int, lightSleepEnabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.rejectNext {
		s.rejectNext = false
		return fmt.Errorf("simhw: sleep sequencer rejected configuration")
	}
	s.lastMax, s.lastMin, s.lastEnabled = maxMHz, minMHz, lightSleepEnabled
	return nil
}

// RejectNextConfigure makes the next Configure call fail, to exercise
// powerdfs.ErrDomain.
func (s *SleepSequencer) RejectNextConfigure() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejectNext = true
}

func (s *SleepSequencer) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
