// stats_test.go - DumpStats text parsing
package main

import "testing"

func TestParseStatsTextParsesDwellAndLightSleepCounters(t *testing.T) {
	text := "APB_MIN           300 us\n" +
		"APB_MAX             0 us\n" +
		"CPU_MAX           500 us\n" +
		"light_sleep_counts:2  light_sleep_reject_counts:1\n"

	snap := parseStatsText(text)

	if snap.DwellUS["APB_MIN"] != 300 || snap.DwellUS["CPU_MAX"] != 500 {
		t.Fatalf("dwell times parsed wrong: %+v", snap.DwellUS)
	}
	if !snap.LightSleepReported {
		t.Fatalf("expected LightSleepReported = true")
	}
	if snap.LightSleepCounts != 2 || snap.LightSleepRejects != 1 {
		t.Fatalf("light sleep counters parsed wrong: %+v", snap)
	}
}

func TestParseStatsTextHandlesMissingLightSleepLine(t *testing.T) {
	text := "APB_MIN  300 us\n"
	snap := parseStatsText(text)
	if snap.LightSleepReported {
		t.Fatalf("expected LightSleepReported = false when no light-sleep line is present")
	}
}
