// repl_test.go - exercises the pmsim vocabulary end to end (spec.md §8 S2 and S5)
package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/intuitionamiga/powerdfs"
)

func TestREPLDrivesScenarioS2ToAPBMin(t *testing.T) {
	s := newScenario()
	require.NoError(t, s.mgr.Configure(powerdfs.Config{MinFreqMHz: 10, MaxFreqMHz: 160, LightSleepEnabled: false}))

	var out strings.Builder
	for _, line := range []string{"idle", "assert_mode APB_MIN"} {
		require.NoError(t, dispatch(strings.Fields(line), &out, s))
	}
}

func TestREPLSequentialLockReleaseMatchesS5(t *testing.T) {
	s := newScenario()
	require.NoError(t, s.mgr.Configure(powerdfs.Config{MinFreqMHz: 10, MaxFreqMHz: 160, LightSleepEnabled: false}))

	var out strings.Builder
	require.NoError(t, dispatch([]string{"idle"}, &out, s))
	require.NoError(t, dispatch([]string{"lock", "APB_FREQ_MAX"}, &out, s))
	require.NoError(t, dispatch([]string{"lock", "CPU_FREQ_MAX"}, &out, s))
	require.NoError(t, dispatch([]string{"assert_mode", "CPU_MAX"}, &out, s))

	require.NoError(t, dispatch([]string{"unlock", "CPU_FREQ_MAX"}, &out, s))
	require.NoError(t, dispatch([]string{"assert_mode", "APB_MAX"}, &out, s))

	require.NoError(t, dispatch([]string{"unlock", "APB_FREQ_MAX"}, &out, s))
	require.NoError(t, dispatch([]string{"assert_mode", "APB_MIN"}, &out, s))
}

func TestDispatchRejectsUnknownCommand(t *testing.T) {
	s := newScenario()
	var out strings.Builder
	require.Error(t, dispatch([]string{"frobnicate"}, &out, s))
}

func TestDispatchAdvanceMovesVirtualClock(t *testing.T) {
	s := newScenario()
	var out strings.Builder
	require.NoError(t, dispatch([]string{"advance", "500"}, &out, s))
	require.EqualValues(t, 500, s.nowUS)
}
