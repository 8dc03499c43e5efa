// switchengine.go - the re-entrancy-safe mode-switch state machine

package powerdfs

// driveToFixedPoint runs doSwitch repeatedly until the observed mode
// matches the lowest allowed mode computed from the live lock state,
// coalescing any mode changes that arrived while the hardware
// transition was in flight - the "natural fixed-point behavior"
// spec.md §7 describes.
func (m *Manager) driveToFixedPoint(cpu int, target Mode) {
	for {
		m.doSwitch(cpu, target)

		m.mu.Lock()
		latest := m.lowestAllowedModeLocked()
		reached := m.currentMode == latest
		m.mu.Unlock()

		if reached || latest == target {
			return
		}
		target = latest
	}
}

// doSwitch implements spec.md §4.2. It is safe to call re-entrantly:
// a CPU that calls it while another CPU is mid-switch first services
// its own pending tick-compare update (so the driving CPU's
// cross-core rendezvous can complete) and then retries.
func (m *Manager) doSwitch(cpu int, newMode Mode) {
	if !newMode.valid() {
		fatal("doSwitch: invalid mode %d", newMode)
	}

	var oldMode Mode
	var wasConfigChanged bool
	var newCfg, oldCfgFromTable FreqConfig

	for {
		m.mu.Lock()
		if m.isSwitching {
			m.serviceOwnPendingCompareUpdateLocked(cpu)
			m.mu.Unlock()
			continue
		}

		if newMode == m.currentMode {
			m.mu.Unlock()
			return
		}

		m.isSwitching = true
		oldMode = m.currentMode
		wasConfigChanged = m.configChanged
		m.configChanged = false
		newCfg = m.freqCfg[newMode]
		oldCfgFromTable = m.freqCfg[oldMode]
		m.mu.Unlock()
		break
	}

	oldCfg := oldCfgFromTable
	if wasConfigChanged {
		// The mode table was rewritten since the last realized
		// switch; the live hardware configuration, not the table
		// entry for oldMode, is the true starting point.
		oldCfg = m.clockDriver.ReadConfig()
	}

	if newCfg.MHz != oldCfg.MHz {
		switchingDown := newCfg.MHz < oldCfg.MHz
		if switchingDown {
			m.notifyAPBFreqChange(oldCfg.MHz, newCfg.MHz)
			m.tickCompensatorUpdate(cpu, oldCfg.MHz, newCfg.MHz)
		}

		if newCfg.FromPLL {
			m.clockDriver.ApplyConfigFast(newCfg)
			m.clockDriver.NotifyFlashTiming(newCfg.MHz)
		} else {
			m.clockDriver.NotifyFlashTiming(newCfg.MHz)
			m.clockDriver.ApplyConfigFast(newCfg)
		}

		if !switchingDown {
			m.tickCompensatorUpdate(cpu, oldCfg.MHz, newCfg.MHz)
			m.notifyAPBFreqChange(oldCfg.MHz, newCfg.MHz)
		}
	}

	m.mu.Lock()
	m.currentMode = newMode
	m.isSwitching = false
	m.mu.Unlock()
}

// notifyAPBFreqChange rebases the software hi-res timer's APB-tick
// base whenever the APB-relevant frequency (capped at 80 MHz, per
// spec.md §6) actually changes.
func (m *Manager) notifyAPBFreqChange(oldMHz, newMHz int) {
	if min(oldMHz, 80) != min(newMHz, 80) {
		m.timer.UpdateAPBFreq(min(newMHz, 80))
	}
}
