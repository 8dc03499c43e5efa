// idleisr.go - the idle-loop and ISR-entry hook protocol

package powerdfs

// IdleHook is called by the scheduler's idle loop on cpu, with the
// scheduler already locked against rescheduling for the duration of
// the call. If this is the first idle callback since the CPU last did
// useful work, it releases the CPU's implicit RTOS lock, which feeds
// an UNLOCK into the arbiter and may drop the system to a lower mode.
func (m *Manager) IdleHook(cpu int) {
	if !m.supported {
		return
	}

	m.mu.Lock()
	release := !m.coreIdle[cpu]
	if release {
		m.coreIdle[cpu] = true
	}
	m.mu.Unlock()

	if release {
		m.lockAPI.Release(m.rtosLock[cpu], cpu)
	}
}

// ISRHook is called at the first instruction of any ISR entered on
// cpu. It first checks for a pending cross-core tick-compare update
// targeted at cpu and services it; otherwise, if cpu was idle, it
// reacquires the implicit RTOS lock, restoring CPU_MAX.
func (m *Manager) ISRHook(cpu int) {
	if !m.supported {
		return
	}

	m.mu.Lock()
	pending := m.needUpdateCompare[cpu].Load()
	var acquire bool
	if !pending {
		acquire = m.coreIdle[cpu]
		if acquire {
			m.coreIdle[cpu] = false
		}
	}
	m.mu.Unlock()

	switch {
	case pending:
		m.rescaleCompareForCPU(cpu)
		m.needUpdateCompare[cpu].Store(false)
	case acquire:
		m.lockAPI.Acquire(m.rtosLock[cpu], cpu)
	}
}
