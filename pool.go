package sapling

const poolChunkSize = 256

// TransformPool hands out world transform slots with stable addresses.
// Slots are carved from fixed-size chunks that are never reallocated, so a
// pointer returned by Get stays valid until it is passed to Put.
//
// Nodes, physics bodies and sprites all hold the same *Transform; the pool
// lets an entity layer allocate those slots without one heap object each.
type TransformPool struct {
	chunks [][]Transform
	next   int // next unused index in the last chunk
	free   []*Transform
	inUse  int
}

// Get returns a slot initialized to the identity transform.
func (p *TransformPool) Get() *Transform {
	p.inUse++
	if n := len(p.free); n > 0 {
		t := p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
		*t = IdentityTransform()
		return t
	}
	if len(p.chunks) == 0 || p.next == poolChunkSize {
		p.chunks = append(p.chunks, make([]Transform, poolChunkSize))
		p.next = 0
	}
	t := &p.chunks[len(p.chunks)-1][p.next]
	p.next++
	*t = IdentityTransform()
	return t
}

// Put returns a slot to the pool. The caller must not use it afterwards.
func (p *TransformPool) Put(t *Transform) {
	if t == nil {
		return
	}
	p.inUse--
	p.free = append(p.free, t)
}

// InUse returns the number of slots handed out and not yet returned.
func (p *TransformPool) InUse() int {
	return p.inUse
}
