// clockdriver.go - collaborator interfaces consumed by the core

package powerdfs

// FreqConfig is the frozen hardware configuration for one power mode:
// a clock-tree setting that ClockDriver can apply in one fast call.
// Its contents are opaque to this package beyond MHz and the PLL
// source flag the switch-ordering rule in §4.2 needs.
type FreqConfig struct {
	MHz      int
	FromPLL  bool
	Internal any // opaque driver-specific payload (dividers, etc.)
}

// ClockDriver is the hardware clock-tree boundary: read/program the
// PLL and dividers. Implemented externally; this package only calls
// it, never owns clock-tree state.
type ClockDriver interface {
	// FreqToConfig resolves a requested CPU frequency to a hardware
	// configuration. ok is false if the hardware cannot produce mhz.
	FreqToConfig(mhz int) (cfg FreqConfig, ok bool)

	// ApplyConfigFast programs the clock tree to cfg. Must complete
	// fast enough to run under the switch-engine's is_switching
	// interlock; it is never called while SWITCH_LOCK is held.
	ApplyConfigFast(cfg FreqConfig)

	// NotifyFlashTiming tells the flash-timing domain that the speed
	// mode changed to mhz. SwitchEngine orders this relative to
	// ApplyConfigFast based on FreqConfig.FromPLL, per spec.md §4.2
	// step 5.
	NotifyFlashTiming(mhz int)

	// ReadConfig reads the live hardware configuration.
	ReadConfig() FreqConfig

	XtalMHz() int
	ApbMHz() int
}

// TickHardware is the per-CPU tick-timer boundary: CCOUNT/CMP access,
// the tick divisor register, and the cross-core interrupt primitive
// TickCompensator needs to rescale both CPUs' compare registers.
type TickHardware interface {
	// NumCPUs reports how many CPUs share this tick hardware (1 or 2).
	NumCPUs() int

	// CCount returns the free-running cycle counter of cpu.
	CCount(cpu int) uint32

	// Compare returns the programmed tick-compare register of cpu.
	Compare(cpu int) uint32

	// SetCompare reprograms the tick-compare register of cpu.
	SetCompare(cpu int, value uint32)

	// TickPeriodCycles returns the programmed tick period, in cycles
	// at cpu's current frequency, used to decide whether a rescaled
	// compare is still "this tick" or needs no update.
	TickPeriodCycles(cpu int) uint32

	// RaiseCrossCoreInterrupt signals target that a tick-compare
	// update is pending; TickCompensator polls need_update_compare,
	// not the interrupt itself, for the synchronization edge.
	RaiseCrossCoreInterrupt(target int)
}

// TimerSubsystem is the software hi-resolution timer whose APB-tick
// base must be rebased whenever the APB-relevant frequency changes.
type TimerSubsystem interface {
	UpdateAPBFreq(apbMHz int)
}

// SleepSequencer is the light-sleep entry/exit sequencer (radio power,
// flash retention, RAM retention). Configure is called once per
// Configurator.Configure with the new bounds.
type SleepSequencer interface {
	Configure(maxMHz, minMHz int, lightSleepEnabled bool) error
}

// StatsSink is the character sink DumpStats renders its table to.
type StatsSink interface {
	WriteString(s string) (int, error)
}
