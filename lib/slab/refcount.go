package slab

// refCount is a shared-ownership counter. Once it turns negative it is
// permanent: the count never changes again and the owner is never
// collected. It is dead only at exactly zero.
type refCount struct {
	count int64
}

func newRefCount(initial int64) *refCount {
	return &refCount{count: initial}
}

func (rc *refCount) incr() {
	if rc.count < 0 {
		return
	}
	rc.count++
}

func (rc *refCount) decr() int64 {
	if rc.count < 0 {
		return rc.count
	}
	rc.count--
	return rc.count
}

func (rc *refCount) dead() bool {
	return rc.count == 0
}

func (rc *refCount) permanent() bool {
	return rc.count < 0
}

func (rc *refCount) makePermanent() {
	rc.count = -1
}

// shared reports whether more than one owner holds a reference.
// A permanent counter always counts as shared, it outlives everyone.
func (rc *refCount) shared() bool {
	return rc.count > 1 || rc.count < 0
}
