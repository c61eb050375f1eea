package viewmodel

import (
	"context"
	"sync"
)

// Value is an observable cell. Subscribers receive the current value and then
// every change; a slow subscriber only sees the latest.
type Value[T any] struct {
	mu   sync.Mutex
	v    T
	subs map[uint64]chan T
	next uint64
}

func (c *Value[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

func (c *Value[T]) Set(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.v = v
	for _, ch := range c.subs {
		deliver(ch, v)
	}
}

// Subscribe streams values until ctx is done.
func (c *Value[T]) Subscribe(ctx context.Context) <-chan T {
	ch := make(chan T, 1)
	c.mu.Lock()
	if c.subs == nil {
		c.subs = make(map[uint64]chan T)
	}
	id := c.next
	c.next++
	c.subs[id] = ch
	ch <- c.v
	c.mu.Unlock()

	go func() {
		<-ctx.Done()
		c.mu.Lock()
		delete(c.subs, id)
		close(ch)
		c.mu.Unlock()
	}()
	return ch
}

func deliver[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- v
}
