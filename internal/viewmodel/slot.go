package viewmodel

import (
	"context"
	"errors"
	"sync"

	"linkedout/internal/outcome"
)

// Slot holds the latest outcome of one use case; nil means never invoked or
// reset. Each trigger starts a new generation and cancels the previous one, so
// a superseded invocation can never overwrite a newer one.
type Slot[T any] struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	value  Value[*outcome.Outcome[T]]
}

func (s *Slot[T]) Get() *outcome.Outcome[T] {
	return s.value.Get()
}

func (s *Slot[T]) Subscribe(ctx context.Context) <-chan *outcome.Outcome[T] {
	return s.value.Subscribe(ctx)
}

// Reset abandons any in-flight invocation and clears the slot.
func (s *Slot[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.value.Set(nil)
}

// Await returns the first terminal outcome the slot holds from now on.
func (s *Slot[T]) Await(ctx context.Context) (outcome.Outcome[T], error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	for o := range s.Subscribe(ctx) {
		if o != nil && o.Terminal() {
			return *o, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return outcome.Outcome[T]{}, err
	}
	return outcome.Outcome[T]{}, errors.New("slot closed")
}

func (s *Slot[T]) begin(parent context.Context) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	s.gen++
	s.cancel = cancel
	return ctx, s.gen
}

// publish stores o if gen is still the current generation.
func (s *Slot[T]) publish(gen uint64, o outcome.Outcome[T]) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	s.value.Set(&o)
	return true
}

// end releases the context of gen once its sequence is drained.
func (s *Slot[T]) end(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen == s.gen && s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// launch starts call for slot in scope. The first element (Loading) is
// published before launch returns; then runs after a current Success.
func launch[T any](sc *Scope, slot *Slot[T], call func(ctx context.Context) <-chan outcome.Outcome[T], then func(T)) {
	if sc.Context().Err() != nil {
		return
	}
	ctx, gen := slot.begin(sc.Context())
	ch := call(ctx)
	consume := func(o outcome.Outcome[T]) {
		if sc.Context().Err() != nil {
			return
		}
		if slot.publish(gen, o) && o.IsSuccess() && then != nil {
			then(o.Data)
		}
	}
	first, ok := <-ch
	if !ok {
		slot.end(gen)
		return
	}
	consume(first)
	sc.Go(func(context.Context) {
		defer slot.end(gen)
		for o := range ch {
			consume(o)
		}
	})
}
