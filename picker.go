package uploader

import (
	"context"
	"sync"
)

// PickRequest tells a Dialog what to offer.
type PickRequest struct {
	Accept   string
	Limit    int
	Multiple bool
}

// Dialog presents a file chooser and returns the user's selection.
// It must return promptly once ctx is canceled; an empty selection means
// the user dismissed the dialog.
type Dialog interface {
	Open(ctx context.Context, req PickRequest) ([]File, error)
}

// DialogFunc adapts a function to Dialog.
type DialogFunc func(ctx context.Context, req PickRequest) ([]File, error)

func (f DialogFunc) Open(ctx context.Context, req PickRequest) ([]File, error) {
	return f(ctx, req)
}

// pickSlot holds the one live dialog of an Uploader.
type pickSlot struct {
	mu      sync.Mutex
	current *pickHandle
}

type pickHandle struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
	slot   *pickSlot
	once   sync.Once
}

// acquire supersedes the live handle, if any, and installs a new one.
func (s *pickSlot) acquire(parent context.Context) *pickHandle {
	ctx, cancel := context.WithCancelCause(parent)
	h := &pickHandle{ctx: ctx, cancel: cancel, slot: s}

	s.mu.Lock()
	prev := s.current
	s.current = h
	s.mu.Unlock()

	if prev != nil {
		prev.cancel(ErrPickSuperseded)
	}
	return h
}

// superseded reports whether a newer acquire replaced h.
func (h *pickHandle) superseded() bool {
	return context.Cause(h.ctx) == ErrPickSuperseded
}

// release tears the handle down. Safe to call more than once.
func (h *pickHandle) release() {
	h.once.Do(func() {
		h.slot.mu.Lock()
		if h.slot.current == h {
			h.slot.current = nil
		}
		h.slot.mu.Unlock()
		h.cancel(context.Canceled)
	})
}
