// configurator.go - configuration validation and the mode table writer

package powerdfs

import "fmt"

// refClkFreqMHz is the fixed reference clock frequency the divider
// check in spec.md §4.4 is computed against (1 MHz - divider equals
// min_mhz directly).
const refClkFreqMHz = 1

// SetRadioEnabled records whether a radio subsystem is currently
// enabled, which Configure consults when computing apb_max on SoCs
// with a radio APB floor (spec.md §4.4). Supplemental to spec.md,
// grounded on original_source's radio-floor apb_max computation.
func (m *Manager) SetRadioEnabled(enabled bool) {
	m.mu.Lock()
	m.radioEnabled = enabled
	m.mu.Unlock()
}

// Configure validates cfg and, if accepted, rewrites the mode table
// and notifies the sleep sequencer. Returns ErrNotSupported if power
// management was compiled out, ErrInvalidArg if cfg is out of range
// or inconsistent, or a wrapped ErrDomain if the sleep sequencer
// rejects the new bounds.
func (m *Manager) Configure(cfg Config) error {
	if !m.supported {
		return ErrNotSupported
	}
	if cfg.MinFreqMHz > cfg.MaxFreqMHz {
		return fmt.Errorf("%w: min_freq_mhz %d > max_freq_mhz %d", ErrInvalidArg, cfg.MinFreqMHz, cfg.MaxFreqMHz)
	}

	maxCfg, ok := m.clockDriver.FreqToConfig(cfg.MaxFreqMHz)
	if !ok {
		return fmt.Errorf("%w: unsupported max_freq_mhz %d", ErrInvalidArg, cfg.MaxFreqMHz)
	}
	minCfg, ok := m.clockDriver.FreqToConfig(cfg.MinFreqMHz)
	if !ok {
		return fmt.Errorf("%w: unsupported min_freq_mhz %d", ErrInvalidArg, cfg.MinFreqMHz)
	}

	xtal := m.clockDriver.XtalMHz()
	if cfg.MinFreqMHz < xtal {
		divider := cfg.MinFreqMHz / refClkFreqMHz
		if divider < m.variant.refClkDivMin {
			return fmt.Errorf("%w: min_freq_mhz %d gives reference-clock divider %d below minimum %d",
				ErrInvalidArg, cfg.MinFreqMHz, divider, m.variant.refClkDivMin)
		}
	}

	m.mu.Lock()
	radioEnabled := m.radioEnabled
	m.mu.Unlock()

	apbMaxMHz := m.variant.apbMax(cfg.MaxFreqMHz, cfg.MinFreqMHz, radioEnabled)
	apbMaxCfg, ok := m.clockDriver.FreqToConfig(apbMaxMHz)
	if !ok {
		return fmt.Errorf("%w: derived apb_max %d MHz unsupported by clock driver", ErrInvalidArg, apbMaxMHz)
	}

	m.mu.Lock()
	m.freqCfg[ModeCPUMax] = maxCfg
	m.freqCfg[ModeAPBMax] = apbMaxCfg
	m.freqCfg[ModeAPBMin] = minCfg
	m.freqCfg[ModeLightSleep] = minCfg
	m.lightSleepEnabled = cfg.LightSleepEnabled
	m.configChanged = true
	m.mu.Unlock()

	if err := m.sleepSeq.Configure(cfg.MaxFreqMHz, cfg.MinFreqMHz, cfg.LightSleepEnabled); err != nil {
		return fmt.Errorf("%w: %v", ErrDomain, err)
	}
	return nil
}

// GetConfiguration reads the live mode-table bounds and light-sleep
// flag under mu.
func (m *Manager) GetConfiguration() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Config{
		MaxFreqMHz:        m.freqCfg[ModeCPUMax].MHz,
		MinFreqMHz:        m.freqCfg[ModeAPBMin].MHz,
		LightSleepEnabled: m.lightSleepEnabled,
	}
}
