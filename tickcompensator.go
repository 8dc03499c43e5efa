// tickcompensator.go - tick-compare rescaling across a frequency step

package powerdfs

import "math"

const (
	// minFutureCycles ensures a freshly programmed compare register
	// is never set at or behind CCOUNT.
	minFutureCycles = 1000

	// ccompareUpdateTimeout bounds the busy spin waiting for the
	// peer CPU to service its pending compare update. Exceeding it
	// means the peer has stopped servicing interrupts - a deadlock,
	// not a transient condition - so it is fatal.
	ccompareUpdateTimeout = 1_000_000
)

// tickCompensatorUpdate implements spec.md §4.3. Called only while
// is_switching is true and only by the CPU driving the switch.
func (m *Manager) tickCompensatorUpdate(callerCPU, oldFreqMHz, newFreqMHz int) {
	m.ccountMul.Store(uint32(newFreqMHz))
	m.ccountDiv.Store(uint32(oldFreqMHz))

	m.rescaleCompareForCPU(callerCPU)

	if m.numCPUs == 2 {
		other := otherCPU(callerCPU)
		m.needUpdateCompare[other].Store(true)
		m.tick.RaiseCrossCoreInterrupt(other)

		spins := 0
		for m.needUpdateCompare[other].Load() {
			spins++
			if spins >= ccompareUpdateTimeout {
				fatal("tick compensator: CPU %d did not service its compare update within %d cycles (deadlock)", other, ccompareUpdateTimeout)
			}
		}
	}

	m.ccountMul.Store(0)
	m.ccountDiv.Store(0)
}

// rescaleCompareForCPU implements spec.md §4.3 step 2 for a single
// CPU: reprogram CMP so it still fires at the same wall-clock instant
// after the pending frequency step, or leave it alone if it is not
// safely in the future or the rescaled value isn't sooner than the
// next natural tick.
func (m *Manager) rescaleCompareForCPU(cpu int) {
	mul := m.ccountMul.Load()
	div := m.ccountDiv.Load()
	if div == 0 {
		return
	}

	ccount := m.tick.CCount(cpu)
	cmp := m.tick.Compare(cpu)
	diff := cmp - ccount // uint32 register arithmetic, wraps like real hardware

	margin := cmp - uint32(minFutureCycles) - ccount
	stillInFuture := int32(margin) >= 0

	if !stillInFuture {
		return
	}

	scaled := math.Ceil(float64(diff) * float64(mul) / float64(div))
	newDiff := uint32(scaled)

	period := m.tick.TickPeriodCycles(cpu)
	if newDiff < period {
		m.tick.SetCompare(cpu, ccount+newDiff)
	}
	// else: a tick-period boundary will rearm it naturally.
}

// serviceOwnPendingCompareUpdateLocked applies a pending compensator
// update targeted at cpu and clears the flag. Called with mu held from
// the switch-engine re-entry guard (spec.md §4.2 step 1); ISRHook
// performs the same rescale-and-clear inline, after releasing mu.
func (m *Manager) serviceOwnPendingCompareUpdateLocked(cpu int) {
	if m.needUpdateCompare[cpu].Load() {
		m.rescaleCompareForCPU(cpu)
		m.needUpdateCompare[cpu].Store(false)
	}
}

func otherCPU(cpu int) int {
	if cpu == 0 {
		return 1
	}
	return 0
}
