// errors.go - sentinel errors and the fatal-abort path

package powerdfs

import (
	"errors"
	"log"
	"os"
)

var (
	// ErrInvalidArg is returned by Configure when the requested
	// configuration is out of range or mutually inconsistent.
	ErrInvalidArg = errors.New("powerdfs: invalid configuration argument")

	// ErrNotSupported is returned by Configure when power management
	// was compiled out (every other entry point is then a no-op), and
	// by DumpStats when the Manager was built without WithProfiling.
	ErrNotSupported = errors.New("powerdfs: power management not supported in this build")

	// ErrDomain wraps a failure returned by the sleep sequencer
	// collaborator.
	ErrDomain = errors.New("powerdfs: sleep sequencer rejected configuration")
)

// abortFunc is overridden in tests so fatal() can be exercised without
// killing the test binary.
var abortFunc = func() { os.Exit(1) }

// fatal logs and aborts the process. There is no recovery path for
// the conditions that call it: an unlock of an already-zero lock
// count, an out-of-range mode passed to CPUFreqMHz, or a cross-core
// tick-compare rendezvous that exceeds its polling budget all indicate
// memory corruption or a CPU that has stopped servicing interrupts.
func fatal(format string, args ...any) {
	log.Printf("powerdfs: FATAL: "+format, args...)
	abortFunc()
}
