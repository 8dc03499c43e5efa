// stats.go - the snapshot shape rendered by the dashboard, and the
// line format DumpStats produces, shared between the in-process and
// serial-device sources.
package main

import (
	"bufio"
	"strconv"
	"strings"
)

// snapshot is one poll's worth of data, already parsed out of a
// Manager.DumpStats table - whether that table came from an in-process
// call or a line read off a serial port makes no difference past this
// point.
type snapshot struct {
	Mode               string
	DwellUS            map[string]int64
	LightSleepCounts   uint64
	LightSleepRejects  uint64
	LightSleepReported bool
}

// parseStatsText parses the text DumpStats writes: one
// "MODE_NAME   <dwell> us" line per mode, optionally followed by a
// "light_sleep_counts:N  light_sleep_reject_counts:M" line.
func parseStatsText(text string) snapshot {
	snap := snapshot{DwellUS: make(map[string]int64)}

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "light_sleep_counts:") {
			snap.LightSleepReported = true
			for _, field := range strings.Fields(line) {
				k, v, ok := strings.Cut(field, ":")
				if !ok {
					continue
				}
				n, err := strconv.ParseUint(v, 10, 64)
				if err != nil {
					continue
				}
				switch k {
				case "light_sleep_counts":
					snap.LightSleepCounts = n
				case "light_sleep_reject_counts":
					snap.LightSleepRejects = n
				}
			}
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		dwell, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			continue
		}
		snap.DwellUS[fields[0]] = dwell
	}
	return snap
}
