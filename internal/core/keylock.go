package core

import (
	"sort"
	"sync"
)

// keyLock hands out one mutex per key. Lock acquires a set of keys in sorted
// order so overlapping sets cannot deadlock.
type keyLock struct {
	mu    sync.Mutex
	locks map[string]*keyLockEntry
}

type keyLockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyLock() *keyLock {
	return &keyLock{locks: make(map[string]*keyLockEntry)}
}

// Lock blocks until every key is held and returns the function releasing them.
func (k *keyLock) Lock(keys ...string) (unlock func()) {
	keys = uniqueSorted(keys)
	entries := make([]*keyLockEntry, len(keys))

	k.mu.Lock()
	for i, key := range keys {
		e, ok := k.locks[key]
		if !ok {
			e = &keyLockEntry{}
			k.locks[key] = e
		}
		e.refs++
		entries[i] = e
	}
	k.mu.Unlock()

	for _, e := range entries {
		e.mu.Lock()
	}

	return func() {
		for i := len(entries) - 1; i >= 0; i-- {
			entries[i].mu.Unlock()
		}
		k.mu.Lock()
		for i, key := range keys {
			entries[i].refs--
			if entries[i].refs == 0 {
				delete(k.locks, key)
			}
		}
		k.mu.Unlock()
	}
}

// size reports how many keys are currently tracked.
func (k *keyLock) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

func uniqueSorted(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func imageLockKey(id string) string  { return "image:" + id }
func personLockKey(id string) string { return "person:" + id }
