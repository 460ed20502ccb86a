package ecs

// EntityID packs a 32-bit slot index (low bits) and a 32-bit generation
// (high bits). Index 0 with generation 0 is never handed out, so the zero
// value means "no entity".
type EntityID uint64

func NewEntityID(index uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }
func (id EntityID) IsZero() bool       { return id == 0 }

// IDAllocator hands out entity IDs, recycling destroyed indices with a bumped
// generation so stale IDs stop resolving.
type IDAllocator struct {
	generations []uint32
	free        []uint32
	live        int
}

func NewIDAllocator() *IDAllocator {
	// Index 0 is reserved so the zero EntityID stays invalid.
	return &IDAllocator{
		generations: make([]uint32, 1, 256),
		free:        make([]uint32, 0, 64),
	}
}

func (a *IDAllocator) Create() EntityID {
	a.live++
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		return NewEntityID(idx, a.generations[idx])
	}
	idx := uint32(len(a.generations))
	a.generations = append(a.generations, 0)
	return NewEntityID(idx, 0)
}

func (a *IDAllocator) Alive(id EntityID) bool {
	idx := id.Index()
	if idx == 0 || int(idx) >= len(a.generations) {
		return false
	}
	return a.generations[idx] == id.Generation()
}

// Destroy invalidates id. Stale or unknown IDs are ignored.
func (a *IDAllocator) Destroy(id EntityID) bool {
	if !a.Alive(id) {
		return false
	}
	idx := id.Index()
	a.generations[idx]++
	a.free = append(a.free, idx)
	a.live--
	return true
}

// Live returns the number of entities created and not yet destroyed.
func (a *IDAllocator) Live() int { return a.live }
