// profiler.go - optional dwell-time and light-sleep observer

package powerdfs

import (
	"fmt"
	"sync/atomic"
)

// Profiler observes Manager's mode transitions and the sleep
// sequencer's light-sleep accept/reject outcomes. It is a pure
// observer: nothing it records feeds back into arbitration. Enabled
// at construction time via WithProfiling, never by conditional
// compilation, so a disabled Manager and an enabled one share the
// same struct layout.
type Profiler struct {
	timeInMode         [modeCount]int64
	lastModeChangeTime int64
	haveLastChange     bool

	lightSleepCounts       atomic.Uint64
	lightSleepRejectCounts atomic.Uint64
}

func newProfiler() *Profiler {
	return &Profiler{}
}

// chargeLocked accumulates the elapsed time since the last transition
// into oldMode and records now as the new baseline. Called from
// Manager.applyLocked with mu held.
func (p *Profiler) chargeLocked(oldMode Mode, now int64) {
	if p.haveLastChange {
		p.timeInMode[oldMode] += now - p.lastModeChangeTime
	}
	p.lastModeChangeTime = now
	p.haveLastChange = true
}

// RecordLightSleepOutcome is called by the external sleep sequencer
// after each light-sleep entry attempt. This supplements spec.md's
// profiler, whose counters are otherwise dangling: see SPEC_FULL.md §3.
func (p *Profiler) RecordLightSleepOutcome(accepted bool) {
	if accepted {
		p.lightSleepCounts.Add(1)
	} else {
		p.lightSleepRejectCounts.Add(1)
	}
}

// Profiler returns the Manager's optional profiler, or nil if it was
// constructed without WithProfiling.
func (m *Manager) Profiler() *Profiler {
	return m.profiler
}

// DumpStats snapshots the counters and the time-in-mode table under
// mu, adds the live partial interval to the current mode, and writes
// a table to sink. Returns ErrNotSupported if profiling is disabled.
func (m *Manager) DumpStats(sink StatsSink, now int64) error {
	if m.profiler == nil {
		return ErrNotSupported
	}

	m.mu.Lock()
	var times [modeCount]int64
	copy(times[:], m.profiler.timeInMode[:])
	if m.profiler.haveLastChange {
		times[m.currentMode] += now - m.profiler.lastModeChangeTime
	}
	lightSleepEnabled := m.lightSleepEnabled
	m.mu.Unlock()

	for mode := Mode(0); mode < modeCount; mode++ {
		if mode == ModeLightSleep && !lightSleepEnabled {
			continue
		}
		if _, err := fmt.Fprintf(sinkWriter{sink}, "%-12s %12d us\n", mode, times[mode]); err != nil {
			return err
		}
	}

	if lightSleepEnabled {
		_, err := sink.WriteString(fmt.Sprintf(
			"light_sleep_counts:%d  light_sleep_reject_counts:%d\n",
			m.profiler.lightSleepCounts.Load(),
			m.profiler.lightSleepRejectCounts.Load(),
		))
		if err != nil {
			return err
		}
	}
	return nil
}

// sinkWriter adapts StatsSink to io.Writer so DumpStats can use
// fmt.Fprintf without requiring every StatsSink implementation to
// also implement Write.
type sinkWriter struct{ StatsSink }

func (w sinkWriter) Write(p []byte) (int, error) {
	return w.WriteString(string(p))
}
