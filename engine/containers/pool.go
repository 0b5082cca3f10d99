package containers

import (
	"fmt"

	"github.com/spaghettifunk/anima-g3d/engine/core"
)

type poolEntry struct {
	generation uint32
	live       bool
}

// Pool recycles objects of type T across frames. Every object handed out by
// Obtain is remembered until it is returned through Free or Flush, and each
// return bumps the object's generation so that stale handles can be detected.
// A Pool is not safe for concurrent use.
type Pool[T any] struct {
	newFn    func() *T
	resetFn  func(*T)
	free     []*T
	obtained []*T
	entries  map[*T]*poolEntry
}

// NewPool creates a pool. newFn allocates a fresh object, resetFn (optional)
// clears an object when it is returned to the pool.
func NewPool[T any](newFn func() *T, resetFn func(*T)) *Pool[T] {
	return &Pool[T]{
		newFn:    newFn,
		resetFn:  resetFn,
		free:     make([]*T, 0, 16),
		obtained: make([]*T, 0, 16),
		entries:  make(map[*T]*poolEntry),
	}
}

// Obtain returns a free object, allocating a new one when none is available.
func (p *Pool[T]) Obtain() *T {
	var obj *T
	if n := len(p.free); n > 0 {
		obj = p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
	} else {
		obj = p.newFn()
		p.entries[obj] = &poolEntry{}
	}
	p.entries[obj].live = true
	p.obtained = append(p.obtained, obj)
	return obj
}

// Free returns a single object to the pool.
func (p *Pool[T]) Free(obj *T) error {
	e, ok := p.entries[obj]
	if !ok {
		return fmt.Errorf("object %p does not belong to this pool", obj)
	}
	if !e.live {
		return fmt.Errorf("pool free: %w", core.ErrPoolDoubleFree)
	}
	for i, o := range p.obtained {
		if o == obj {
			p.obtained = append(p.obtained[:i], p.obtained[i+1:]...)
			break
		}
	}
	p.release(obj, e)
	return nil
}

// Flush returns every object obtained since the previous flush to the pool.
func (p *Pool[T]) Flush() {
	for i, obj := range p.obtained {
		if e := p.entries[obj]; e.live {
			p.release(obj, e)
		}
		p.obtained[i] = nil
	}
	p.obtained = p.obtained[:0]
}

func (p *Pool[T]) release(obj *T, e *poolEntry) {
	e.live = false
	e.generation++
	if p.resetFn != nil {
		p.resetFn(obj)
	}
	p.free = append(p.free, obj)
}

// Owns reports whether obj was obtained from this pool and is still in use.
func (p *Pool[T]) Owns(obj *T) bool {
	e, ok := p.entries[obj]
	return ok && e.live
}

// InUse returns the number of objects currently handed out.
func (p *Pool[T]) InUse() int {
	return len(p.obtained)
}

// FreeCount returns the number of objects waiting to be reused.
func (p *Pool[T]) FreeCount() int {
	return len(p.free)
}

// Handle stamps obj with its current generation.
func (p *Pool[T]) Handle(obj *T) Handle[T] {
	h := Handle[T]{pool: p, obj: obj}
	if e, ok := p.entries[obj]; ok {
		h.generation = e.generation
	}
	return h
}

// Handle is a generation checked reference to a pooled object.
type Handle[T any] struct {
	pool       *Pool[T]
	obj        *T
	generation uint32
}

// Get returns the referenced object, or core.ErrStaleHandle when the object
// has been returned to its pool since the handle was taken.
func (h Handle[T]) Get() (*T, error) {
	if !h.Valid() {
		return nil, core.ErrStaleHandle
	}
	return h.obj, nil
}

// Valid reports whether the referenced object is still owned by the caller.
func (h Handle[T]) Valid() bool {
	if h.pool == nil || h.obj == nil {
		return false
	}
	e, ok := h.pool.entries[h.obj]
	return ok && e.live && e.generation == h.generation
}
