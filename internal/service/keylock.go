package service

import (
	"sort"
	"sync"
)

// keyLock serializes operations per string key. The assignment engine locks
// the task and user identifiers involved in a mutation so two concurrent
// calls touching the same entity cannot interleave their read-modify-write
// sequences and corrupt the back-reference invariant.
//
// Entries are reference-counted and removed when the last holder releases,
// so the map does not grow with the number of distinct entities seen.
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

// lockAll acquires the locks for all given keys and returns a release
// function. Keys are deduplicated and acquired in sorted order so two calls
// locking overlapping key sets cannot deadlock.
func (k *keyLock) lockAll(keys ...string) func() {
	unique := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			unique = append(unique, key)
		}
	}
	sort.Strings(unique)

	for _, key := range unique {
		k.lock(key)
	}

	return func() {
		// Release in reverse acquisition order.
		for i := len(unique) - 1; i >= 0; i-- {
			k.unlock(unique[i])
		}
	}
}

func (k *keyLock) lock(key string) {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &keyLockEntry{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()
}

func (k *keyLock) unlock(key string) {
	k.mu.Lock()
	entry := k.locks[key]
	entry.refs--
	if entry.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()

	entry.mu.Unlock()
}
