// source.go - where a snapshot comes from: an in-process simulation
// or a real device polled over a serial line.
package main

import (
	"bufio"
	"fmt"
	"strings"

	"go.bug.st/serial"

	"github.com/intuitionamiga/powerdfs"
	"github.com/intuitionamiga/powerdfs/simhw"
)

// source is anything pmmonitor can poll for a snapshot.
type source interface {
	poll() (snapshot, error)
	close() error
}

// simSource drives a local Manager with WithProfiling and a canned
// workload, so pmmonitor has something to show without real hardware
// attached.
type simSource struct {
	mgr   *powerdfs.Manager
	tick  *simhw.Tick
	nowUS int64
	step  int
}

func newSimSource() *simSource {
	clock := simhw.NewClock(10, 80, []int{10, 40, 80, 160, 240}, 160)
	tick := simhw.NewTick(1, 100_000)
	tick.SeedCompare(0, 100_000)
	timer := simhw.NewTimer(80)
	seq := simhw.NewSleepSequencer()

	s := &simSource{tick: tick}
	s.mgr = powerdfs.NewManager(1, clock, tick, timer, seq,
		powerdfs.WithProfiling(),
		powerdfs.WithClockFunc(func() int64 { return s.nowUS }),
	)
	if err := s.mgr.Init(160); err != nil {
		panic(fmt.Sprintf("pmmonitor: init: %v", err))
	}
	if err := s.mgr.Configure(powerdfs.Config{MinFreqMHz: 10, MaxFreqMHz: 160, LightSleepEnabled: true}); err != nil {
		panic(fmt.Sprintf("pmmonitor: configure: %v", err))
	}
	return s
}

// poll advances the simulated workload by one step - an idle hook on
// even steps, an ISR hook on odd ones - and returns the resulting
// stats snapshot.
func (s *simSource) poll() (snapshot, error) {
	s.step++
	s.nowUS += 50_000
	s.tick.Advance(0, 50_000)

	if s.step%2 == 0 {
		s.mgr.IdleHook(0)
	} else {
		s.mgr.ISRHook(0)
	}

	var out strings.Builder
	if err := s.mgr.DumpStats(&out, s.nowUS); err != nil {
		return snapshot{}, err
	}
	snap := parseStatsText(out.String())
	snap.Mode = s.mgr.CurrentMode().String()
	return snap, nil
}

func (s *simSource) close() error { return nil }

// serialSource polls a real device: each poll writes an "S\n" stats
// request and reads back one DumpStats-formatted table terminated by
// a blank line.
type serialSource struct {
	port   serial.Port
	reader *bufio.Reader
}

func newSerialSource(device string, baud int) (*serialSource, error) {
	mode := &serial.Mode{BaudRate: baud, DataBits: 8, Parity: serial.NoParity, StopBits: serial.OneStopBit}
	port, err := serial.Open(device, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", device, err)
	}
	return &serialSource{port: port, reader: bufio.NewReader(port)}, nil
}

func (s *serialSource) poll() (snapshot, error) {
	if _, err := s.port.Write([]byte("S\n")); err != nil {
		return snapshot{}, fmt.Errorf("request stats: %w", err)
	}

	var sb strings.Builder
	for {
		line, err := s.reader.ReadString('\n')
		sb.WriteString(line)
		if err != nil {
			return snapshot{}, fmt.Errorf("read stats: %w", err)
		}
		if strings.TrimSpace(line) == "" {
			break
		}
	}

	snap := parseStatsText(sb.String())
	if snap.Mode == "" {
		// The device's first non-blank line is its current mode name,
		// ahead of the DumpStats table; pmmonitor's firmware-side
		// convention, not a powerdfs requirement.
		lines := strings.SplitN(sb.String(), "\n", 2)
		if len(lines) > 0 {
			snap.Mode = strings.TrimSpace(lines[0])
		}
	}
	return snap, nil
}

func (s *serialSource) close() error { return s.port.Close() }
