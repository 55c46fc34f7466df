// Package state holds observable values shared between repositories and view models.
package state

import "sync"

// Observable is a value that notifies subscribers on every change. A new
// subscriber immediately receives the current value. Slow subscribers only
// ever see the latest value: pending, unread values are replaced.
type Observable[T any] struct {
	mu     sync.RWMutex
	value  T
	subs   map[int]chan T
	nextID int
	closed bool
}

// NewObservable creates an observable holding initial
func NewObservable[T any](initial T) *Observable[T] {
	return &Observable[T]{value: initial, subs: make(map[int]chan T)}
}

// Get returns the current value
func (o *Observable[T]) Get() T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.value
}

// Set replaces the value and notifies subscribers
func (o *Observable[T]) Set(v T) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.value = v
	o.notify()
}

// Update applies fn to the current value atomically and returns the result
func (o *Observable[T]) Update(fn func(T) T) T {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.value = fn(o.value)
	o.notify()
	return o.value
}

// Subscribe returns a channel carrying the current value followed by every
// later one, and a cancel func that closes it.
func (o *Observable[T]) Subscribe() (<-chan T, func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	ch := make(chan T, 1)
	if o.closed {
		close(ch)
		return ch, func() {}
	}
	ch <- o.value

	id := o.nextID
	o.nextID++
	o.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			if sub, ok := o.subs[id]; ok {
				delete(o.subs, id)
				close(sub)
			}
		})
	}
}

// Subscribers returns how many subscriptions are open
func (o *Observable[T]) Subscribers() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.subs)
}

// Close ends every subscription. Later Sets still update the value.
func (o *Observable[T]) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for id, ch := range o.subs {
		close(ch)
		delete(o.subs, id)
	}
	o.closed = true
}

// notify must be called with mu held
func (o *Observable[T]) notify() {
	for _, ch := range o.subs {
		select {
		case <-ch:
		default:
		}
		ch <- o.value
	}
}
