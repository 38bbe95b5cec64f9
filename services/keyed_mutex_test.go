package services

import (
	"sync"
	"testing"
)

func TestKeyedMutexSerializesPerKey(t *testing.T) {
	km := newKeyedMutex()
	key := claimKey(1, 2)

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock(key)
			defer km.Unlock(key)
			counter++
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("counter = %d, want 50", counter)
	}
}

func TestClaimKeyIsPerUserAndCourse(t *testing.T) {
	if claimKey(1, 2) == claimKey(2, 1) {
		t.Error("claim keys collide across swapped ids")
	}
	if claimKey(1, 2) != claimKey(1, 2) {
		t.Error("claim key not stable")
	}
}
