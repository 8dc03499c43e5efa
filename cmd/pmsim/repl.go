// repl.go - interactive one-line-per-command form of the Lua vocabulary
// (every command except configure)
package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/google/shlex"

	"github.com/intuitionamiga/powerdfs"
)

// runREPL reads whitespace-tokenized commands from r, one per line,
// and applies them directly to s without going through the Lua
// interpreter - a faster loop for interactive poking at a scenario.
func runREPL(r io.Reader, w io.Writer, s *scenario) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields, err := shlex.Split(scanner.Text())
		if err != nil {
			fmt.Fprintf(w, "parse error: %v\n", err)
			continue
		}
		if len(fields) == 0 {
			continue
		}
		if err := dispatch(fields, w, s); err != nil {
			fmt.Fprintf(w, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

func dispatch(fields []string, w io.Writer, s *scenario) error {
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "lock", "unlock":
		if len(args) != 1 {
			return fmt.Errorf("%s requires exactly one lock kind", cmd)
		}
		kind, err := lockKindFromString(args[0])
		if err != nil {
			return err
		}
		action := powerdfs.ActionLock
		if cmd == "unlock" {
			action = powerdfs.ActionUnlock
		}
		s.mgr.Notify(kind, action, 0, s.nowUS)
	case "idle":
		s.mgr.IdleHook(0)
	case "isr":
		s.mgr.ISRHook(0)
	case "advance":
		if len(args) != 1 {
			return fmt.Errorf("advance requires a microsecond count")
		}
		us, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("advance: %w", err)
		}
		s.nowUS += us
		s.tick.Advance(0, uint32(us))
	case "mode":
		fmt.Fprintln(w, s.mgr.CurrentMode())
	case "assert_mode":
		if len(args) != 1 {
			return fmt.Errorf("assert_mode requires one mode name")
		}
		if got := s.mgr.CurrentMode().String(); got != args[0] {
			return fmt.Errorf("mode is %s, want %s", got, args[0])
		}
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}
