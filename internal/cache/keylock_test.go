package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyLocksSerializeAndCleanUp(t *testing.T) {
	locks := newKeyLocks()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		holders int
		maxSeen int
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.lock("k")
			mu.Lock()
			holders++
			if holders > maxSeen {
				maxSeen = holders
			}
			mu.Unlock()

			mu.Lock()
			holders--
			mu.Unlock()
			unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
	locks.mu.Lock()
	defer locks.mu.Unlock()
	assert.Empty(t, locks.locks)
}

func TestKeyLocksAreIndependentPerKey(t *testing.T) {
	locks := newKeyLocks()
	unlockA := locks.lock("a")
	unlockB := locks.lock("b")
	unlockB()
	unlockA()
	assert.Empty(t, locks.locks)
}
