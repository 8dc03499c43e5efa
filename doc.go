// doc.go - package overview

// Package powerdfs implements the core of a dynamic-frequency-scaling
// and light-sleep power manager for a dual-core microcontroller whose
// CPU and APB clocks are driven from a configurable PLL or crystal.
//
// The package computes the lowest acceptable CPU/APB frequency (and
// whether CPU light-sleep is permitted) from a set of concurrently
// held power locks, and performs online frequency transitions that
// keep the scheduler tick timer correct across the switch on both
// CPUs.
//
// Everything that touches real hardware - the clock tree, the tick
// timer registers, the hi-resolution timer, the light-sleep sequencer -
// is expressed as a small collaborator interface (ClockDriver,
// TickHardware, TimerSubsystem, SleepSequencer) that the embedding
// firmware supplies to NewManager. The lock handle table is described
// by the LockAPI interface; a Manager always uses its own built-in
// LockAPI implementation, which calls back into Notify, and does not
// accept an external one. This package owns only the arbitration and
// switching logic.
package powerdfs
