package storage

import "sync"

// lockTable hands out one mutex per file path. Entries are dropped once no
// writer holds or waits on them.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*pathLock
}

type pathLock struct {
	mu   sync.Mutex
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*pathLock)}
}

// lock acquires the lock for path and returns its release function.
func (t *lockTable) lock(path string) func() {
	t.mu.Lock()
	l, ok := t.locks[path]
	if !ok {
		l = &pathLock{}
		t.locks[path] = l
	}
	l.refs++
	t.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		t.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(t.locks, path)
		}
		t.mu.Unlock()
	}
}

// size returns the number of paths currently locked or awaited.
func (t *lockTable) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.locks)
}
