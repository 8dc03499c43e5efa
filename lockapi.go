// lockapi.go - external lock-subsystem boundary

package powerdfs

import "sync"

// LockHandle is an opaque handle returned by LockAPI.Create. Its
// internal representation belongs entirely to the lock subsystem;
// the core only ever passes it back to Acquire/Release.
type LockHandle uint64

// LockAPI is the external lock API this package does not own: handle
// creation, lookup, and the acquire/release bookkeeping that, on a
// real system, lives in the RTOS and ultimately calls back into
// Manager.Notify for the kind associated with h. impl_init uses it to
// create the implicit per-CPU RTOS lock; IdleISRProtocol uses it from
// the idle and ISR hooks.
//
// cpu identifies which CPU is making the acquire/release call. Real
// hardware reads this from an intrinsic (esp_cpu_get_core_id()-style)
// at the call site; Go has no such implicit per-goroutine notion of
// "current CPU", so callers pass it explicitly.
type LockAPI interface {
	Create(kind LockKind, name string) (LockHandle, error)
	Acquire(h LockHandle, cpu int)
	Release(h LockHandle, cpu int)
}

// managerLockAPI is the reference LockAPI implementation this package
// ships so Manager is usable and testable without a real RTOS lock
// subsystem behind it: acquiring/releasing a handle calls straight
// back into the owning Manager's arbiter, which is exactly the
// contract a real lock subsystem is expected to uphold.
type managerLockAPI struct {
	m *Manager

	mu       sync.Mutex
	nextID   uint64
	kindByID map[LockHandle]LockKind
}

func newManagerLockAPI(m *Manager) *managerLockAPI {
	return &managerLockAPI{m: m, nextID: 1, kindByID: make(map[LockHandle]LockKind)}
}

func (l *managerLockAPI) Create(kind LockKind, name string) (LockHandle, error) {
	l.mu.Lock()
	h := LockHandle(l.nextID)
	l.nextID++
	l.kindByID[h] = kind
	l.mu.Unlock()
	return h, nil
}

func (l *managerLockAPI) kindOf(h LockHandle) LockKind {
	l.mu.Lock()
	defer l.mu.Unlock()
	kind, ok := l.kindByID[h]
	if !ok {
		fatal("managerLockAPI: operation on unknown handle %d", h)
	}
	return kind
}

func (l *managerLockAPI) Acquire(h LockHandle, cpu int) {
	l.m.Notify(l.kindOf(h), ActionLock, cpu, l.m.clock.now())
}

func (l *managerLockAPI) Release(h LockHandle, cpu int) {
	l.m.Notify(l.kindOf(h), ActionUnlock, cpu, l.m.clock.now())
}
