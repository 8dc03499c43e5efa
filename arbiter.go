// arbiter.go - the lock-driven mode arbiter

package powerdfs

// Notify is the entry point the lock subsystem calls on every power
// lock acquire/release. cpu identifies the CPU the call executes on
// (see LockAPI for why this is explicit in Go). It never blocks: the
// whole bookkeeping step runs under mu, and the switch engine is only
// driven after mu is released, per spec.md §4.1.
func (m *Manager) Notify(kind LockKind, action Action, cpu int, now int64) {
	if !m.supported {
		return
	}
	mode := kind.floorMode()

	m.mu.Lock()
	needSwitch, newMode := m.applyLocked(mode, action, now)
	m.mu.Unlock()

	if needSwitch {
		m.driveToFixedPoint(cpu, newMode)
	}
}

// applyLocked performs spec.md §4.1 steps 1-3 under mu and returns
// whether a switch is needed and, if so, the new target mode.
func (m *Manager) applyLocked(mode Mode, action Action, now int64) (needSwitch bool, newMode Mode) {
	switch action {
	case ActionLock:
		m.lockCounts[mode]++
		if m.lockCounts[mode] == 1 {
			m.modeMask |= 1 << uint(mode)
			needSwitch = true
		}
	case ActionUnlock:
		if m.lockCounts[mode] == 0 {
			fatal("Notify: unlock of mode %s with zero lock count", mode)
			return false, 0
		}
		m.lockCounts[mode]--
		if m.lockCounts[mode] == 0 {
			m.modeMask &^= 1 << uint(mode)
			needSwitch = true
		}
	}

	if needSwitch {
		newMode = m.lowestAllowedModeLocked()
		if m.profiler != nil {
			m.profiler.chargeLocked(m.currentMode, now)
		}
	}
	return needSwitch, newMode
}

// lowestAllowedModeLocked implements the tie-break rule of spec.md
// §4.1.1. Must be called with mu held.
func (m *Manager) lowestAllowedModeLocked() Mode {
	if m.modeMask&(1<<uint(ModeCPUMax)) != 0 {
		return ModeCPUMax
	}
	if m.modeMask&(1<<uint(ModeAPBMax)) != 0 {
		return ModeAPBMax
	}
	if m.modeMask&(1<<uint(ModeAPBMin)) != 0 || !m.lightSleepEnabled {
		return ModeAPBMin
	}
	return ModeLightSleep
}

// CurrentMode returns the mode the switch engine is in or
// transitioning from.
func (m *Manager) CurrentMode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentMode
}
