// Command pmmonitor is a live terminal dashboard for a powerdfs
// Manager: current mode, per-mode dwell time, and light-sleep
// accept/reject counters, refreshed on a ticker. With no --device it
// drives an in-process simulation; with --device it polls a real
// board over a serial line.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-colorable"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "pmmonitor:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadSettings()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	device := flag.String("device", cfg.Device, "serial device to poll (blank runs an in-process simulation)")
	baud := flag.Int("baud", cfg.Baud, "serial baud rate")
	noColor := flag.Bool("no-color", cfg.NoColor, "force a plain-text, non-interactive renderer")
	flag.Parse()

	var src source
	if *device != "" {
		src, err = newSerialSource(*device, *baud)
		if err != nil {
			return err
		}
	} else {
		src = newSimSource()
	}
	defer src.close()

	if *noColor || !term.IsTerminal(int(os.Stdout.Fd())) {
		return runPlain(src, cfg.PollInterval, colorable.NewColorable(os.Stdout))
	}

	m := newModel(src, cfg.PollInterval)
	_, err = tea.NewProgram(m).Run()
	return err
}
