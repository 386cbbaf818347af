package usecase

import (
	"context"
	"sync"
)

// keyedMutex serializes work per key in arrival order. Each Lock queues
// behind the previous holder of the same key; different keys never block
// each other.
type keyedMutex struct {
	mu      sync.Mutex
	tails   map[string]chan struct{}
	waiting map[string]int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{
		tails:   make(map[string]chan struct{}),
		waiting: make(map[string]int),
	}
}

// Lock waits for every earlier Lock on key to be released. If ctx ends
// first the caller leaves the queue without ever holding the lock.
func (k *keyedMutex) Lock(ctx context.Context, key string) (func(), error) {
	done := make(chan struct{})

	k.mu.Lock()
	prev := k.tails[key]
	k.tails[key] = done
	if prev != nil {
		k.waiting[key]++
	}
	k.mu.Unlock()

	var once sync.Once
	release := func() {
		once.Do(func() {
			k.mu.Lock()
			if k.tails[key] == done {
				delete(k.tails, key)
			}
			k.mu.Unlock()
			close(done)
		})
	}

	if prev == nil {
		return release, nil
	}

	defer k.leaveQueue(key)
	select {
	case <-prev:
		return release, nil
	case <-ctx.Done():
		// successors are chained on done, so hand it over once prev ends
		go func() {
			<-prev
			release()
		}()
		return nil, ctx.Err()
	}
}

func (k *keyedMutex) leaveQueue(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.waiting[key]--; k.waiting[key] <= 0 {
		delete(k.waiting, key)
	}
}

// queued reports how many callers are blocked on key.
func (k *keyedMutex) queued(key string) int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.waiting[key]
}

func (k *keyedMutex) len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.tails)
}
