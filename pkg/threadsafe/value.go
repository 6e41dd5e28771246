package threadsafe

import "sync"

// Value holds a single T guarded by a RWMutex. Writes replace the whole value,
// so concurrent writers never observe a torn state; the last Set wins.
type Value[T any] struct {
	inner T
	mux   sync.RWMutex
}

func NewValue[T any](v T) *Value[T] {
	return &Value[T]{
		inner: v,
	}
}

func (v *Value[T]) Get() T {
	v.mux.RLock()
	defer v.mux.RUnlock()
	return v.inner
}

func (v *Value[T]) Set(value T) {
	v.mux.Lock()
	defer v.mux.Unlock()
	v.inner = value
}
