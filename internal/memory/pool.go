package memory

import "sync"

// Pool is a typed wrapper around sync.Pool. It exists so that ByteBuffer and
// SliceBuffer can pool their backing storage without paying the
// interface-boxing cost of stashing []byte/[16]byte/etc. values directly in
// a sync.Pool.
type Pool[T any] struct {
	pool sync.Pool
}

// Get returns a value from the pool, calling newFn to construct one if the
// pool is empty and resetFn on whatever value is returned before handing it
// back to the caller.
func (p *Pool[T]) Get(newFn func() *T, resetFn func(*T)) *T {
	v, _ := p.pool.Get().(*T)
	if v == nil {
		v = newFn()
	} else {
		resetFn(v)
	}
	return v
}

// Put returns a value to the pool for later reuse.
func (p *Pool[T]) Put(v *T) {
	p.pool.Put(v)
}
