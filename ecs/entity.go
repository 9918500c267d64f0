package ecs

// EntityId is an opaque entity handle. The lower 32 bits hold the slot index and the
// upper 32 bits hold the slot generation, which changes every time the slot is freed.
// The zero EntityId never refers to a live entity.
type EntityId uint64

// NewEntityId creates an EntityId from a slot index and generation
func NewEntityId(index uint32, generation uint32) EntityId {
	return EntityId(uint64(generation)<<32 | uint64(index))
}

// Index extracts the slot index from the entity ID
func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// Generation extracts the slot generation from the entity ID
func (e EntityId) Generation() uint32 {
	return uint32(e >> 32)
}

// IsZero reports whether e is the zero (never live) id.
func (e EntityId) IsZero() bool { return e == 0 }

// entityPool allocates generational entity ids and recycles freed slots.
type entityPool struct {
	generations []uint32
	// components counts attached components per slot.
	components []uint32
	alive      []bool
	freeList   []uint32
	live       int
}

func newEntityPool() *entityPool {
	return &entityPool{
		generations: make([]uint32, 0, 1024),
		components:  make([]uint32, 0, 1024),
		alive:       make([]bool, 0, 1024),
		freeList:    make([]uint32, 0, 256),
	}
}

func (p *entityPool) create() EntityId {
	p.live++
	if len(p.freeList) > 0 {
		idx := p.freeList[len(p.freeList)-1]
		p.freeList = p.freeList[:len(p.freeList)-1]
		p.alive[idx] = true
		p.components[idx] = 0
		return NewEntityId(idx, p.generations[idx])
	}

	idx := uint32(len(p.generations))
	// Generations start at 1 so that index 0 never produces the zero id.
	p.generations = append(p.generations, 1)
	p.components = append(p.components, 0)
	p.alive = append(p.alive, true)
	return NewEntityId(idx, 1)
}

func (p *entityPool) isAlive(id EntityId) bool {
	idx := id.Index()
	if int(idx) >= len(p.generations) {
		return false
	}
	return p.alive[idx] && p.generations[idx] == id.Generation()
}

func (p *entityPool) destroy(id EntityId) bool {
	if !p.isAlive(id) {
		return false
	}
	idx := id.Index()
	p.alive[idx] = false
	p.components[idx] = 0
	p.generations[idx]++
	if p.generations[idx] == 0 {
		p.generations[idx] = 1
	}
	p.freeList = append(p.freeList, idx)
	p.live--
	return true
}

// each yields every live entity in slot order.
func (p *entityPool) each(yield func(EntityId) bool) {
	for idx, ok := range p.alive {
		if !ok {
			continue
		}
		if !yield(NewEntityId(uint32(idx), p.generations[idx])) {
			return
		}
	}
}
