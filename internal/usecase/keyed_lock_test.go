package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedMutexFIFO(t *testing.T) {
	km := newKeyedMutex()
	ctx := context.Background()

	unlock, err := km.Lock(ctx, "a")
	require.NoError(t, err)

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	for i := 1; i <= 5; i++ {
		wg.Add(1)
		ready := make(chan struct{})
		go func(n int) {
			defer wg.Done()
			close(ready)
			release, err := km.Lock(ctx, "a")
			if err != nil {
				t.Errorf("lock %d: %v", n, err)
				return
			}
			mu.Lock()
			order = append(order, n)
			mu.Unlock()
			release()
		}(i)
		<-ready
		// let goroutine n enqueue before n+1
		require.Eventually(t, func() bool { return km.queued("a") >= i }, time.Second, time.Millisecond)
	}

	unlock()
	wg.Wait()

	assert.Equal(t, []int{1, 2, 3, 4, 5}, order)
	assert.Zero(t, km.len())
}

func TestKeyedMutexIndependentKeys(t *testing.T) {
	km := newKeyedMutex()
	ctx := context.Background()

	unlockA, err := km.Lock(ctx, "a")
	require.NoError(t, err)
	defer unlockA()

	acquired := make(chan struct{})
	go func() {
		unlockB, err := km.Lock(ctx, "b")
		if err == nil {
			unlockB()
		}
		close(acquired)
	}()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("lock on b blocked behind a")
	}
}

func TestKeyedMutexContextCancel(t *testing.T) {
	km := newKeyedMutex()

	unlock, err := km.Lock(context.Background(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = km.Lock(ctx, "a")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// a later waiter still gets the lock once the holder releases
	got := make(chan struct{})
	go func() {
		release, err := km.Lock(context.Background(), "a")
		if err == nil {
			release()
		}
		close(got)
	}()

	unlock()
	select {
	case <-got:
	case <-time.After(time.Second):
		t.Fatal("waiter behind a cancelled lock never acquired")
	}
	require.Eventually(t, func() bool { return km.len() == 0 }, time.Second, time.Millisecond)
}
