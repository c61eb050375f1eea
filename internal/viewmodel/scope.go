// Package viewmodel holds the per-feature state containers the CLI renders.
// Every use case has its own observable slot; triggers launch repository calls
// inside the view-model's scope and republish each outcome into the slot.
package viewmodel

import (
	"context"
	"sync"
)

// Scope bounds the lifetime of a view-model's tasks.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	bg     sync.WaitGroup
}

func NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel}
}

func (s *Scope) Context() context.Context { return s.ctx }

// Go runs fn as a task of the scope. Tasks started after Close do not run.
func (s *Scope) Go(fn func(ctx context.Context)) {
	if s.ctx.Err() != nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn(s.ctx)
	}()
}

// Observe runs fn until the scope closes. Wait does not wait for it.
func (s *Scope) Observe(fn func(ctx context.Context)) {
	if s.ctx.Err() != nil {
		return
	}
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		fn(s.ctx)
	}()
}

// Wait blocks until every task, including tasks started by other tasks, is done.
func (s *Scope) Wait() {
	s.wg.Wait()
}

// Close cancels in-flight tasks and waits for them.
func (s *Scope) Close() {
	s.cancel()
	s.wg.Wait()
	s.bg.Wait()
}
