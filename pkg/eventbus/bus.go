// Package eventbus provides a small, generic subscribe/emit registry keyed by event name.
//
// Handlers run synchronously on the emitting goroutine, in registration order.
// Registering the same function twice keeps both entries; each call to
// Subscribe returns its own Subscription token used for removal.
//
//	bus := eventbus.New[string, int]()
//	sub := bus.Subscribe("tick", func(n int) { fmt.Println(n) })
//	bus.Emit("tick", 1)
//	bus.Unsubscribe(sub)
package eventbus

import "sync"

// Handler receives an emitted value.
type Handler[T any] func(T)

// PanicHandler is called when a handler panics during Emit.
type PanicHandler[K comparable] func(key K, recovered any)

// Subscription identifies a single registration.
// The zero value identifies nothing and is safe to pass to Unsubscribe.
type Subscription[K comparable] struct {
	key K
	id  uint64
}

// Key returns the event key the subscription was registered for.
func (s Subscription[K]) Key() K {
	return s.key
}

// Valid reports whether the subscription was issued by Subscribe.
func (s Subscription[K]) Valid() bool {
	return s.id != 0
}

type entry[T any] struct {
	fn Handler[T]
	id uint64
}

// Bus is a registry of handlers keyed by event.
// It is safe for concurrent use.
type Bus[K comparable, T any] struct {
	handlers map[K][]entry[T]
	onPanic  PanicHandler[K]
	mu       sync.RWMutex
	next     uint64
}

// Option configures a Bus.
type Option[K comparable] func(*options[K])

type options[K comparable] struct {
	onPanic PanicHandler[K]
}

// WithPanicHandler installs a hook invoked when a handler panics.
// Without it, handler panics are recovered silently so one subscriber
// cannot break emission for the rest.
func WithPanicHandler[K comparable](fn PanicHandler[K]) Option[K] {
	return func(o *options[K]) {
		o.onPanic = fn
	}
}

// New creates an empty Bus.
func New[K comparable, T any](opts ...Option[K]) *Bus[K, T] {
	o := &options[K]{}
	for _, opt := range opts {
		opt(o)
	}
	return &Bus[K, T]{
		handlers: make(map[K][]entry[T]),
		onPanic:  o.onPanic,
	}
}

// Subscribe appends fn to the handler list for key.
// A nil fn is ignored and yields the zero Subscription.
func (b *Bus[K, T]) Subscribe(key K, fn Handler[T]) Subscription[K] {
	if fn == nil {
		return Subscription[K]{}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.next++
	b.handlers[key] = append(b.handlers[key], entry[T]{id: b.next, fn: fn})

	return Subscription[K]{key: key, id: b.next}
}

// Unsubscribe removes the registration identified by sub.
// Unknown or already removed subscriptions are ignored.
func (b *Bus[K, T]) Unsubscribe(sub Subscription[K]) {
	if !sub.Valid() {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	list := b.handlers[sub.key]
	kept := make([]entry[T], 0, len(list))
	for _, e := range list {
		if e.id != sub.id {
			kept = append(kept, e)
		}
	}

	if len(kept) == 0 {
		delete(b.handlers, sub.key)
		return
	}
	b.handlers[sub.key] = kept
}

// Emit invokes every handler currently registered for key with v.
// The handler list is captured before the first call, so handlers may
// subscribe or unsubscribe without deadlocking; such changes apply to the
// next Emit. Returns the number of handlers invoked.
func (b *Bus[K, T]) Emit(key K, v T) int {
	b.mu.RLock()
	list := b.handlers[key]
	fns := make([]Handler[T], len(list))
	for i, e := range list {
		fns[i] = e.fn
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		b.call(key, fn, v)
	}

	return len(fns)
}

// Len returns the number of handlers registered for key.
func (b *Bus[K, T]) Len(key K) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[key])
}

func (b *Bus[K, T]) call(key K, fn Handler[T], v T) {
	defer func() {
		if r := recover(); r != nil && b.onPanic != nil {
			b.onPanic(key, r)
		}
	}()
	fn(v)
}
