package services

import (
	"fmt"
	"sync"
)

// keyedMutex provides a mutex per logical key. The reward engine uses it to
// serialize the read-check-write sequence of a claim for a given
// (user, course) pair, so concurrent claims resolve to at most one success.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key, creating it on first use. Locks are never
// reclaimed; the key space (user/course pairs touched by this process) is
// small.
func (k *keyedMutex) Lock(key string) {
	k.mu.Lock()
	lock, ok := k.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	k.mu.Unlock()
	lock.Lock()
}

func (k *keyedMutex) Unlock(key string) {
	k.mu.Lock()
	lock := k.locks[key]
	k.mu.Unlock()
	lock.Unlock()
}

func claimKey(userID, courseID uint) string {
	return fmt.Sprintf("claim:%d:%d", userID, courseID)
}
