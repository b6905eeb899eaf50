package slab

import (
	"sync/atomic"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/benz9527/xslab/lib/id"
)

// References:
// https://github.com/couchbase/go-slab
// https://github.com/dgraph-io/badger/blob/master/skl/arena.go

const defaultSlotsPerChunk = 2

// Stamps may be drawn by several independent pools, the generator is
// the only cross-pool state.
var defaultStamper = lo.Must(id.MonotonicNonZeroID())

type poolConfig struct {
	slotsPerChunk int
	permanent     bool
	logger        *zap.Logger
	stamper       id.Generator
}

type PoolOpt func(*poolConfig)

// WithPoolSlotsPerChunk sets the requested slot count per growth step.
// The effective count is rounded by the size-class heuristic.
func WithPoolSlotsPerChunk(n int) PoolOpt {
	return func(cfg *poolConfig) {
		cfg.slotsPerChunk = n
	}
}

// WithPoolLogger enables debug events on growth, clear and release.
func WithPoolLogger(logger *zap.Logger) PoolOpt {
	return func(cfg *poolConfig) {
		cfg.logger = logger
	}
}

// WithPoolStampGen replaces the shared stamp source, mainly for tests.
func WithPoolStampGen(gen id.Generator) PoolOpt {
	return func(cfg *poolConfig) {
		cfg.stamper = gen
	}
}

// WithPoolPermanent pins the pool for the process lifetime, release
// never collects it.
func WithPoolPermanent() PoolOpt {
	return func(cfg *poolConfig) {
		cfg.permanent = true
	}
}

// PoolStats is a point-in-time snapshot of a pool's counters.
type PoolStats struct {
	Chunks    int64
	SlotCap   int64
	FreeSlots int64
	LiveSlots int64
	Allocs    int64
	Frees     int64
	Grows     int64
}

// Pool is the slab allocator: it owns a circular ring of chunks,
// threads one circular free list across all of them and serves O(1)
// allocate/deallocate plus O(chunks) bulk release. A pool belongs to a
// single owner goroutine; sharing is a multi-container concept managed
// by the embedded reference count, not a multi-thread one.
type Pool[T any] struct {
	rc            *refCount
	chunkTail     *chunk[T] // circular ring anchor
	freeTail      *Slot[T]  // circular free list anchor, nil iff no vacant slot
	stamper       id.Generator
	logger        *zap.Logger
	slotsPerChunk int

	// Counters are atomic only so an observability poller may read
	// them from outside the owner goroutine.
	chunks  atomic.Int64
	slotCap atomic.Int64
	live    atomic.Int64
	allocs  atomic.Int64
	frees   atomic.Int64
	grows   atomic.Int64
}

// NewPool creates a pool with reference count 1, held by the caller.
func NewPool[T any](opts ...PoolOpt) *Pool[T] {
	cfg := &poolConfig{
		slotsPerChunk: defaultSlotsPerChunk,
		stamper:       defaultStamper,
	}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.slotsPerChunk <= 0 {
		panic("[slab] pool with non-positive slots per chunk")
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	p := &Pool[T]{
		rc:            newRefCount(1),
		stamper:       cfg.stamper,
		logger:        cfg.logger,
		slotsPerChunk: roundSlotsPerChunk(cfg.slotsPerChunk, slotSizeOf[T]()),
	}
	if cfg.permanent {
		p.rc.makePermanent()
	}
	return p
}

// SlotsPerChunk is the effective per-growth slot count after rounding.
func (p *Pool[T]) SlotsPerChunk() int {
	return p.slotsPerChunk
}

// Allocate pops one vacant slot, growing the chunk ring by one chunk
// first when the free list is empty. The slot is stamped and bound to
// owner so positional references can detect its later reuse.
// Exhaustion of the underlying allocator aborts the process, there is
// no smaller unit to retry with.
func (p *Pool[T]) Allocate(owner uint64) *Slot[T] {
	if p.freeTail == nil {
		p.grow()
	}
	tail := p.freeTail
	s := tail.nextFree // the free list's head
	if s == tail {
		p.freeTail = nil
	} else {
		tail.nextFree = s.nextFree
	}
	s.nextFree = nil
	s.vacant = false
	s.stamp = p.stamper.Number()
	s.owner = owner

	p.live.Add(1)
	p.allocs.Add(1)
	return s
}

// Deallocate pushes the slot back onto the circular free list in O(1).
// The slot must come from this pool and must not already be free,
// violations are undefined behavior by the pool's trust model.
func (p *Pool[T]) Deallocate(s *Slot[T]) {
	var zero T
	s.val = zero // drop payload references for the GC
	s.vacant = true
	if p.freeTail == nil {
		s.nextFree = s
	} else {
		s.nextFree = p.freeTail.nextFree
		p.freeTail.nextFree = s
	}
	p.freeTail = s

	p.live.Add(-1)
	p.frees.Add(1)
}

func (p *Pool[T]) grow() {
	c := newChunk[T](p.slotsPerChunk)
	if p.chunkTail == nil {
		c.next = c
	} else {
		c.next = p.chunkTail.next
		p.chunkTail.next = c
	}
	p.chunkTail = c
	// The fresh chunk arrives with its slots already threaded into a
	// chunk-local circular list; grow only runs on an empty free list,
	// so that list becomes the pool's free list wholesale.
	p.freeTail = c.freeTail()

	p.chunks.Add(1)
	p.slotCap.Add(int64(c.capacity()))
	p.grows.Add(1)
	p.logger.Debug("slab pool grew",
		zap.Int("chunkCapacity", c.capacity()),
		zap.Int64("chunks", p.chunks.Load()),
	)
}

// Clear releases every chunk in the ring without per-slot teardown.
// Only safe for payload types whose teardown has no externally visible
// effect; that contract buys the O(1)-per-generation bulk release.
// Idempotent, a no-op on an empty pool.
func (p *Pool[T]) Clear() {
	if p.chunkTail == nil {
		p.freeTail = nil
		return
	}
	head := p.chunkTail.next
	p.chunkTail.next = nil // break the ring so the chunks are collectible
	for c := head; c != nil; {
		next := c.next
		c.next = nil
		c.slots = nil
		c = next
	}
	p.chunkTail = nil
	p.freeTail = nil

	p.chunks.Store(0)
	p.slotCap.Store(0)
	p.live.Store(0)
	p.logger.Debug("slab pool cleared")
}

// Acquire registers one more owner.
func (p *Pool[T]) Acquire() {
	p.rc.incr()
}

// Release drops one owner. At exactly zero the pool bulk-clears itself;
// a permanent pool never reaches zero.
func (p *Pool[T]) Release() {
	if p.rc.decr() == 0 {
		p.Clear()
		p.logger.Debug("slab pool released")
	}
}

// Shared reports whether more than one owner holds the pool.
func (p *Pool[T]) Shared() bool {
	return p.rc.shared()
}

// Permanent reports whether the pool is pinned for the process lifetime.
func (p *Pool[T]) Permanent() bool {
	return p.rc.permanent()
}

// Dead reports whether the last owner released the pool.
func (p *Pool[T]) Dead() bool {
	return p.rc.dead()
}

// Owns reports whether s was drawn from this pool, by walking the
// chunk ring and range-checking each chunk's slot array.
func (p *Pool[T]) Owns(s *Slot[T]) bool {
	if p.chunkTail == nil || s == nil {
		return false
	}
	c := p.chunkTail
	for {
		if c.owns(s) {
			return true
		}
		c = c.next
		if c == p.chunkTail {
			return false
		}
	}
}

// Stats snapshots the pool's counters.
func (p *Pool[T]) Stats() PoolStats {
	return PoolStats{
		Chunks:    p.chunks.Load(),
		SlotCap:   p.slotCap.Load(),
		FreeSlots: p.slotCap.Load() - p.live.Load(),
		LiveSlots: p.live.Load(),
		Allocs:    p.allocs.Load(),
		Frees:     p.frees.Load(),
		Grows:     p.grows.Load(),
	}
}
