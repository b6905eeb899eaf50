package list

import (
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/benz9527/xslab/lib/id"
	"github.com/benz9527/xslab/lib/infra"
	"github.com/benz9527/xslab/lib/slab"
)

var (
	ErrDanglingPix      = errors.New("[slab-list] pix refers to vacated or recycled slot storage")
	ErrPixOwnerMismatch = errors.New("[slab-list] pix captured from a different list")
	ErrNilPix           = fmt.Errorf("[slab-list] nil pix: %w", ErrDanglingPix)
)

var _ SlabList[struct{}] = (*slabList[struct{}])(nil) // Type check assertion

// Every list gets a process-unique identity for pix ownership checks.
var listIDGen = lo.Must(id.MonotonicNonZeroID())

type slabList[V comparable] struct {
	pool *slab.Pool[Node[V]]
	last *slab.Slot[Node[V]] // nil iff empty; head = last.next
	id   uint64
	len  int64
}

// NewSlabList creates a list over a fresh, privately owned pool.
func NewSlabList[V comparable](opts ...slab.PoolOpt) SlabList[V] {
	return &slabList[V]{
		pool: slab.NewPool[Node[V]](opts...),
		id:   listIDGen.Number(),
	}
}

// NewSlabListWithPool attaches a list to an existing pool, so several
// lists amortize their node storage over one chunk ring. The pool's
// reference count is incremented; the caller keeps its own reference.
func NewSlabListWithPool[V comparable](pool *slab.Pool[Node[V]]) SlabList[V] {
	if pool == nil {
		panic("[slab-list] attach to a nil pool")
	}
	pool.Acquire()
	return &slabList[V]{
		pool: pool,
		id:   listIDGen.Number(),
	}
}

func (l *slabList[V]) Len() int64 {
	return l.len
}

func (l *slabList[V]) Empty() bool {
	return l.last == nil
}

func (l *slabList[V]) head() *slab.Slot[Node[V]] {
	if l.last == nil {
		return nil
	}
	return l.last.Value().next
}

func (l *slabList[V]) PushFront(v V) Pix[V] {
	s := l.pool.Allocate(l.id)
	n := s.Value()
	n.val = v
	if l.last == nil {
		n.next = s // the only node closes the ring on itself
		l.last = s
	} else {
		n.next = l.last.Value().next
		l.last.Value().next = s
	}
	l.len++
	return Pix[V]{slot: s, stamp: s.Stamp(), owner: l.id}
}

func (l *slabList[V]) RemoveFront() V {
	if l.last == nil {
		panic("[slab-list] remove front on an empty list")
	}
	head := l.last.Value().next
	if head == l.last {
		l.last = nil
	} else {
		l.last.Value().next = head.Value().next
	}
	v := head.Value().val
	l.pool.Deallocate(head) // payload teardown happens pool-side
	l.len--
	return v
}

func (l *slabList[V]) Clear() {
	if l.pool.Shared() {
		// Bulk-clearing a shared pool would also tear down live nodes
		// belonging to the other lists on it.
		for l.last != nil {
			l.RemoveFront()
		}
		return
	}
	l.pool.Clear()
	l.last = nil
	l.len = 0
}

func (l *slabList[V]) Find(v V) Pix[V] {
	if l.last == nil {
		return Pix[V]{}
	}
	for s := l.head(); ; s = s.Value().next {
		if s.Value().val == v {
			return Pix[V]{slot: s, stamp: s.Stamp(), owner: l.id}
		}
		if s == l.last {
			return Pix[V]{}
		}
	}
}

func (l *slabList[V]) Head() Pix[V] {
	if l.last == nil {
		return Pix[V]{}
	}
	head := l.head()
	return Pix[V]{slot: head, stamp: head.Stamp(), owner: l.id}
}

// validate replays the pix's captured stamp and identity against the
// slot's current metadata.
func (l *slabList[V]) validate(p Pix[V]) error {
	if p.slot == nil {
		return infra.WrapErrorStack(ErrNilPix)
	}
	if p.owner != l.id {
		return infra.WrapErrorStack(ErrPixOwnerMismatch)
	}
	if p.slot.Vacant() || p.slot.Stamp() != p.stamp || p.slot.Owner() != l.id {
		return infra.WrapErrorStack(ErrDanglingPix)
	}
	return nil
}

func (l *slabList[V]) Read(p Pix[V]) (V, error) {
	if err := l.validate(p); err != nil {
		var zero V
		return zero, err
	}
	return p.slot.Value().val, nil
}

func (l *slabList[V]) Advance(p Pix[V]) (Pix[V], error) {
	if err := l.validate(p); err != nil {
		return Pix[V]{}, err
	}
	if p.slot == l.last {
		return Pix[V]{}, nil // past the tail
	}
	next := p.slot.Value().next
	return Pix[V]{slot: next, stamp: next.Stamp(), owner: l.id}, nil
}

func (l *slabList[V]) ForEach(fn func(idx int64, v V) error) error {
	if fn == nil || l.last == nil {
		return infra.NewErrorStack("[slab-list] empty")
	}
	idx := int64(0)
	for s := l.head(); ; s = s.Value().next {
		if err := fn(idx, s.Value().val); err != nil {
			return err
		}
		if s == l.last {
			return nil
		}
		idx++
	}
}

func (l *slabList[V]) Pool() *slab.Pool[Node[V]] {
	return l.pool
}

func (l *slabList[V]) Release() {
	if l.pool == nil {
		return
	}
	if l.pool.Shared() {
		// Leaves no dangling nodes of this list behind in a pool that
		// outlives it.
		l.Clear()
	}
	l.pool.Release()
	l.pool = nil
	l.last = nil
	l.len = 0
}
