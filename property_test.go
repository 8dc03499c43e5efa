// property_test.go - property-based checks using testify (spec.md §8)

package powerdfs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Property 3 and 4 restated with testify, exercising the dependency
// the rest of the suite uses plain stdlib assertions for.
func TestPropertyConfigureIdempotentAndRoundTrips(t *testing.T) {
	rig := newTestRig(t, 1)
	cfg := Config{MinFreqMHz: 40, MaxFreqMHz: 240, LightSleepEnabled: true}

	require.NoError(t, rig.mgr.Configure(cfg))
	first := rig.mgr.GetConfiguration()
	require.Equal(t, cfg, first)

	require.NoError(t, rig.mgr.Configure(cfg))
	require.Equal(t, first, rig.mgr.GetConfiguration())
}

// Property 5: whichever of two independently-held lock kinds is still
// held, the arbiter's mode always equals lowest_allowed_mode for the
// currently-held set, regardless of the order locks were acquired and
// released in.
func TestPropertyLockOrderingMatchesLowestAllowedMode(t *testing.T) {
	interleavings := [][]struct {
		kind   LockKind
		action Action
	}{
		{
			{LockAPBFreqMax, ActionLock}, {LockCPUFreqMax, ActionLock},
			{LockAPBFreqMax, ActionUnlock}, {LockCPUFreqMax, ActionUnlock},
		},
		{
			{LockCPUFreqMax, ActionLock}, {LockAPBFreqMax, ActionLock},
			{LockCPUFreqMax, ActionUnlock}, {LockAPBFreqMax, ActionUnlock},
		},
		{
			{LockAPBFreqMax, ActionLock}, {LockCPUFreqMax, ActionLock},
			{LockCPUFreqMax, ActionUnlock}, {LockAPBFreqMax, ActionUnlock},
		},
	}

	for i, seq := range interleavings {
		rig := newTestRig(t, 1)
		m := rig.mgr
		require.NoError(t, m.Configure(Config{MinFreqMHz: 10, MaxFreqMHz: 160, LightSleepEnabled: false}))
		m.IdleHook(0)

		for step, call := range seq {
			m.Notify(call.kind, call.action, 0, int64(step))

			m.mu.Lock()
			want := m.lowestAllowedModeLocked()
			m.mu.Unlock()
			got := m.CurrentMode()
			require.Equalf(t, want, got, "interleaving %d step %d: mode = %v, want lowest_allowed_mode = %v", i, step, got, want)
		}

		require.Equal(t, ModeAPBMin, m.CurrentMode(), "interleaving %d: expected floor mode after full release", i)
	}
}
