// profiler_test.go - dwell-time accounting and stats rendering (spec.md §4.6)

package powerdfs

import (
	"errors"
	"strings"
	"testing"
)

func TestDumpStatsNotSupportedWithoutProfiling(t *testing.T) {
	rig := newTestRig(t, 1)
	var sink strings.Builder
	if err := rig.mgr.DumpStats(&sink, 0); !errors.Is(err, ErrNotSupported) {
		t.Fatalf("DumpStats without WithProfiling = %v, want ErrNotSupported", err)
	}
}

func TestDumpStatsAccumulatesDwellTime(t *testing.T) {
	var now int64 = 1000
	rig := newTestRig(t, 1, WithProfiling(), WithClockFunc(func() int64 { return now }))
	m := rig.mgr

	if err := m.Configure(Config{MinFreqMHz: 10, MaxFreqMHz: 160, LightSleepEnabled: false}); err != nil {
		t.Fatalf("Configure: %v", err)
	}

	now = 1500 // 500us spent in CPU_MAX before the drop
	m.IdleHook(0)
	if got := m.CurrentMode(); got != ModeAPBMin {
		t.Fatalf("mode = %v, want APB_MIN", got)
	}

	now = 1800 // 300us spent in APB_MIN so far, not yet charged

	var sink strings.Builder
	if err := m.DumpStats(&sink, now); err != nil {
		t.Fatalf("DumpStats: %v", err)
	}

	out := sink.String()
	if !strings.Contains(out, "CPU_MAX") || !strings.Contains(out, "500") {
		t.Fatalf("DumpStats output missing CPU_MAX dwell time: %q", out)
	}
	if !strings.Contains(out, "APB_MIN") || !strings.Contains(out, "300") {
		t.Fatalf("DumpStats output missing live APB_MIN partial interval: %q", out)
	}
	if strings.Contains(out, "LIGHT_SLEEP") {
		t.Fatalf("DumpStats listed LIGHT_SLEEP while light sleep is disabled: %q", out)
	}
}

func TestDumpStatsIncludesLightSleepCountersWhenEnabled(t *testing.T) {
	rig := newTestRig(t, 1, WithProfiling())
	m := rig.mgr

	if err := m.Configure(Config{MinFreqMHz: 10, MaxFreqMHz: 160, LightSleepEnabled: true}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	m.Profiler().RecordLightSleepOutcome(true)
	m.Profiler().RecordLightSleepOutcome(true)
	m.Profiler().RecordLightSleepOutcome(false)

	var sink strings.Builder
	if err := m.DumpStats(&sink, 0); err != nil {
		t.Fatalf("DumpStats: %v", err)
	}

	out := sink.String()
	if !strings.Contains(out, "light_sleep_counts:2") {
		t.Fatalf("DumpStats missing light_sleep_counts:2: %q", out)
	}
	if !strings.Contains(out, "light_sleep_reject_counts:1") {
		t.Fatalf("DumpStats missing light_sleep_reject_counts:1: %q", out)
	}
	if !strings.Contains(out, "LIGHT_SLEEP") {
		t.Fatalf("DumpStats omitted LIGHT_SLEEP row while light sleep is enabled: %q", out)
	}
}
