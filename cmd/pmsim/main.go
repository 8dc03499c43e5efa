// Command pmsim runs power-management scenarios against an in-process
// simhw-backed Manager, either from a Lua script file or interactively
// from stdin.
//
// Usage:
//
//	pmsim script.lua
//	pmsim -repl
package main

import (
	"fmt"
	"os"

	lua "github.com/yuin/gopher-lua"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "pmsim:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	s := newScenario()

	if len(args) == 1 && args[0] == "-repl" {
		return runREPL(os.Stdin, os.Stdout, s)
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: pmsim <script.lua> | pmsim -repl")
	}

	L := lua.NewState()
	defer L.Close()
	s.register(L)

	return L.DoFile(args[0])
}
