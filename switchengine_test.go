// switchengine_test.go - SwitchEngine ordering and coalescing (spec.md §4.2)

package powerdfs

import "testing"

// A non-PLL destination gets NotifyFlashTiming before ApplyConfigFast;
// a PLL destination gets ApplyConfigFast first, then NotifyFlashTiming.
func TestDoSwitchOrdersFlashNotifyByPLLSource(t *testing.T) {
	rig := newTestRig(t, 1)
	m := rig.mgr

	if err := m.Configure(Config{MinFreqMHz: 10, MaxFreqMHz: 160, LightSleepEnabled: false}); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	var log []string
	rig.clock.Trace(&log)

	// CPU_MAX (160 MHz, PLL-sourced since 160 > xtal 10) -> APB_MIN
	// (10 MHz, XTAL-sourced): non-PLL destination, so NotifyFlashTiming
	// must fire before ApplyConfigFast.
	m.IdleHook(0)

	if got := m.CurrentMode(); got != ModeAPBMin {
		t.Fatalf("mode = %v, want APB_MIN", got)
	}
	if rig.clock.FlashEvents() == 0 {
		t.Fatalf("expected NotifyFlashTiming to fire on frequency change")
	}
	if len(log) != 2 || log[0] != "notify_flash_timing" || log[1] != "apply_config_fast" {
		t.Fatalf("non-PLL destination: got %v, want [notify_flash_timing apply_config_fast]", log)
	}

	// APB_MIN (10 MHz) -> CPU_MAX (160 MHz, PLL-sourced): the rate is
	// applied first, then the flash-timing domain is notified.
	log = nil
	m.ISRHook(0)
	if len(log) != 2 || log[0] != "apply_config_fast" || log[1] != "notify_flash_timing" {
		t.Fatalf("PLL destination: got %v, want [apply_config_fast notify_flash_timing]", log)
	}
}

// On a switch down, the APB timer must be rebased and the tick
// compare rescaled before the hardware frequency actually changes; on
// a switch up, both must happen after - original_source/components/
// esp_pm/pm_impl.c's do_switch bundles the APB-timer rebase with the
// CCOMPARE rescale under the same direction rule.
func TestDoSwitchOrdersAPBTimerRebaseByDirection(t *testing.T) {
	rig := newTestRig(t, 1)
	m := rig.mgr
	if err := m.Configure(Config{MinFreqMHz: 10, MaxFreqMHz: 160, LightSleepEnabled: false}); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	var log []string
	rig.clock.Trace(&log)
	rig.timer.Trace(&log)

	m.IdleHook(0) // CPU_MAX (160) -> APB_MIN (10): switching down
	if got := m.CurrentMode(); got != ModeAPBMin {
		t.Fatalf("mode = %v, want APB_MIN", got)
	}
	downLog := append([]string(nil), log...)
	if len(downLog) == 0 || downLog[0] != "update_apb_freq" {
		t.Fatalf("switching down: update_apb_freq did not run first, got %v", downLog)
	}

	log = nil
	m.ISRHook(0) // APB_MIN (10) -> CPU_MAX (160): switching up
	if got := m.CurrentMode(); got != ModeCPUMax {
		t.Fatalf("mode = %v, want CPU_MAX", got)
	}
	upLog := append([]string(nil), log...)
	if len(upLog) == 0 || upLog[len(upLog)-1] != "update_apb_freq" {
		t.Fatalf("switching up: update_apb_freq did not run last, got %v", upLog)
	}
}

func TestDoSwitchNoOpWhenTargetEqualsCurrent(t *testing.T) {
	rig := newTestRig(t, 1)
	m := rig.mgr

	before := rig.clock.FlashEvents()
	m.doSwitch(0, ModeCPUMax) // already CPU_MAX after Init
	if got := rig.clock.FlashEvents(); got != before {
		t.Fatalf("doSwitch to the current mode touched the clock driver")
	}
}

func TestDoSwitchUsesLiveConfigAfterConfigChanged(t *testing.T) {
	rig := newTestRig(t, 1)
	m := rig.mgr

	if err := m.Configure(Config{MinFreqMHz: 40, MaxFreqMHz: 160, LightSleepEnabled: false}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	// Still CPU_MAX (160) after Configure; config_changed is set but
	// no switch has realized it yet. Drop to APB_MIN and check the
	// resulting frequency is 40, from the new table, not whatever the
	// old APB_MIN table entry held.
	m.IdleHook(0)

	if got := m.CPUFreqMHz(ModeAPBMin); got != 40 {
		t.Fatalf("freq_cfg[APB_MIN] = %d, want 40", got)
	}
	if got := rig.clock.ReadConfig().MHz; got != 40 {
		t.Fatalf("live clock = %d MHz, want 40", got)
	}
}
