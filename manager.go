// manager.go - the singleton core object and its construction

package powerdfs

import (
	"sync"
	"sync/atomic"
	"time"
)

// clockSource supplies the microsecond timestamps Notify and the
// implicit-lock hooks charge dwell time against. Swapped out in tests
// so property tests can drive time deterministically.
type clockSource struct {
	nowFunc func() int64
}

func (c clockSource) now() int64 {
	if c.nowFunc != nil {
		return c.nowFunc()
	}
	return time.Now().UnixMicro()
}

// Manager is the one process-wide object every core entry point in
// spec.md §6 is a method on - ModeArbiter, SwitchEngine, ModeTable,
// TickCompensator, and IdleISRProtocol state all live here behind a
// single mutex, the Go stand-in for the interrupt-disabling
// SWITCH_LOCK spinlock spec.md §5 describes (see DESIGN.md for why no
// third-party spinlock package fits here).
type Manager struct {
	mu sync.Mutex

	// --- arbiter state (spec.md §3 "Arbiter state") ---
	lockCounts  [modeCount]int
	modeMask    uint32
	currentMode Mode
	isSwitching bool
	configChanged bool

	// --- mode table (spec.md §3 "Mode table") ---
	freqCfg           [modeCount]FreqConfig
	lightSleepEnabled bool
	variant           socVariant
	radioEnabled      bool

	// --- per-CPU state (spec.md §3 "Per-CPU state") ---
	numCPUs           int
	coreIdle          []bool
	rtosLock          []LockHandle
	needUpdateCompare []atomic.Bool

	// --- compensator state (spec.md §3 "Compensator state") ---
	// Published outside mu, visible to the peer CPU's ISR hook
	// across the cross-core interrupt; atomic is the synchronization
	// primitive here, not mu.
	ccountMul atomic.Uint32
	ccountDiv atomic.Uint32

	// --- collaborators ---
	clockDriver ClockDriver
	tick        TickHardware
	timer       TimerSubsystem
	sleepSeq    SleepSequencer
	lockAPI     LockAPI
	clock       clockSource

	profiler *Profiler // nil unless WithProfiling is supplied

	supported bool
	autoDFS   bool
	initDone  bool
}

// Option configures a Manager at construction time.
type Option func(*Manager)

// WithProfiling enables the optional dwell-time/light-sleep observer.
func WithProfiling() Option {
	return func(m *Manager) { m.profiler = newProfiler() }
}

// WithSoCVariant selects the compile-time SoC constant table by name;
// unrecognized names fall back to defaultSoCVariant.
func WithSoCVariant(name string) Option {
	return func(m *Manager) { m.variant = lookupSoCVariant(name) }
}

// WithAutoDFS makes Init immediately call Configure with the boot
// default (XTAL, default frequency, light sleep disabled), the way
// auto-DFS-enabled builds do in spec.md §6.
func WithAutoDFS() Option {
	return func(m *Manager) { m.autoDFS = true }
}

// WithDisabled models power management compiled out: Configure
// returns ErrNotSupported and every other entry point is an inert
// no-op, per spec.md §4.4.
func WithDisabled() Option {
	return func(m *Manager) { m.supported = false }
}

// WithClockFunc overrides the microsecond clock used internally by
// the idle/ISR hooks; tests use this to drive dwell-time accounting
// deterministically.
func WithClockFunc(f func() int64) Option {
	return func(m *Manager) { m.clock.nowFunc = f }
}

// NewManager constructs a Manager for a system with numCPUs CPUs
// (1 or 2) driven by the given collaborators. It does not call Init.
func NewManager(numCPUs int, driver ClockDriver, tick TickHardware, timer TimerSubsystem, seq SleepSequencer, opts ...Option) *Manager {
	if numCPUs != 1 && numCPUs != 2 {
		fatal("NewManager: numCPUs must be 1 or 2, got %d", numCPUs)
	}
	m := &Manager{
		numCPUs:     numCPUs,
		coreIdle:    make([]bool, numCPUs),
		rtosLock:    make([]LockHandle, numCPUs),
		clockDriver: driver,
		tick:        tick,
		timer:       timer,
		sleepSeq:    seq,
		supported:   true,
		variant:     lookupSoCVariant(defaultSoCVariant),
		currentMode: ModeCPUMax,
	}
	m.needUpdateCompare = make([]atomic.Bool, numCPUs)
	for _, opt := range opts {
		opt(m)
	}
	m.lockAPI = newManagerLockAPI(m)
	return m
}

// Init acquires rtos_lock[c] for every CPU (boot state: all cores
// running, not idle), seeds the mode table with the default boot
// frequency, and - if configured with WithAutoDFS - immediately calls
// Configure with {xtal, default, false}. Must be called exactly once
// before any other entry point, per spec.md §6.
func (m *Manager) Init(defaultFreqMHz int) error {
	if !m.supported {
		return nil
	}
	if m.initDone {
		fatal("Manager.Init: called twice")
	}
	m.initDone = true

	cfg, ok := m.clockDriver.FreqToConfig(defaultFreqMHz)
	if !ok {
		fatal("Manager.Init: clock driver rejected default frequency %d MHz", defaultFreqMHz)
	}
	m.mu.Lock()
	for i := range m.freqCfg {
		m.freqCfg[i] = cfg
	}
	m.currentMode = ModeCPUMax
	m.mu.Unlock()

	for c := 0; c < m.numCPUs; c++ {
		h, err := m.lockAPI.Create(LockCPUFreqMax, "rtos")
		if err != nil {
			return err
		}
		m.rtosLock[c] = h
		m.coreIdle[c] = false
		m.lockAPI.Acquire(h, c)
	}

	if m.autoDFS {
		return m.Configure(Config{
			MaxFreqMHz:        defaultFreqMHz,
			MinFreqMHz:        m.clockDriver.XtalMHz(),
			LightSleepEnabled: false,
		})
	}
	return nil
}
