// plain.go - non-interactive fallback renderer for --no-color or no-TTY output
package main

import (
	"fmt"
	"io"
	"time"
)

// runPlain polls src on every tick and writes one line per poll to w,
// the same information the bubbletea dashboard shows, in a form safe
// to redirect to a file or pipe into another program.
func runPlain(src source, interval time.Duration, w io.Writer) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		snap, err := src.poll()
		if err != nil {
			fmt.Fprintf(w, "pmmonitor: poll error: %v\n", err)
			continue
		}

		fmt.Fprintf(w, "mode=%s", snap.Mode)
		for _, modeName := range []string{"LIGHT_SLEEP", "APB_MIN", "APB_MAX", "CPU_MAX"} {
			if dwell, ok := snap.DwellUS[modeName]; ok {
				fmt.Fprintf(w, " %s=%dus", modeName, dwell)
			}
		}
		if snap.LightSleepReported {
			fmt.Fprintf(w, " light_sleep_accepted=%d light_sleep_rejected=%d", snap.LightSleepCounts, snap.LightSleepRejects)
		}
		fmt.Fprintln(w)
	}
	return nil
}
