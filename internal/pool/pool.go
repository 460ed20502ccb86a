// Package pool implements a fixed-capacity recycling pool. Every handle is
// produced once at construction; spawns relocate and reactivate the oldest
// slot in round-robin order instead of allocating.
//
// A Pool is not safe for concurrent use. It is meant to be driven from the
// single frame-loop goroutine; callers on other goroutines must serialize.
package pool

import (
	"fmt"
	"math/rand"
	"reflect"

	"github.com/l1jgo/recycler/internal/geom"
	"go.uber.org/zap"
)

// Entity is the capability a pooled handle must provide. The pool never owns
// the underlying resource, only its visibility and transform.
type Entity interface {
	SetTransform(pos geom.Vec3, rot geom.Quat)
	SetActive(active bool)
	Active() bool
}

// Releaser is implemented by handles that must be returned to their owner
// when the pool is torn down or construction is abandoned.
type Releaser interface {
	Release()
}

// Factory produces the handle for slot i.
type Factory[E Entity] func(i int) (E, error)

// Pool cycles a fixed set of handles.
type Pool[E Entity] struct {
	slots  []E
	cursor int // most recently activated slot, -1 = none since reset

	rotateRandom bool
	spawnOffset  float64
	rng          *rand.Rand
	log          *zap.Logger
}

// Option configures a Pool.
type Option func(*options)

type options struct {
	rotateRandom bool
	spawnOffset  float64
	rng          *rand.Rand
	log          *zap.Logger
}

// WithRotateRandom enables a random roll around the facing axis in CycleSpawn.
func WithRotateRandom(enabled bool) Option {
	return func(o *options) { o.rotateRandom = enabled }
}

// WithSpawnOffset stores the positional jitter radius. It is carried as
// configuration only; the cycle algorithm does not apply it.
func WithSpawnOffset(offset float64) Option {
	return func(o *options) { o.spawnOffset = offset }
}

// WithRand sets the random source used for rolls.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// WithLogger attaches a logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// New builds a pool of capacity handles using factory. A non-positive
// capacity or a nil factory yields an empty pool and no error.
//
// Construction is all-or-nothing: if the factory fails, handles produced so
// far are released and New returns a nil pool.
func New[E Entity](capacity int, factory Factory[E], opts ...Option) (*Pool[E], error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = zap.NewNop()
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(rand.Int63()))
	}

	p := &Pool[E]{
		cursor:       -1,
		rotateRandom: o.rotateRandom,
		spawnOffset:  o.spawnOffset,
		rng:          o.rng,
		log:          o.log,
	}

	if capacity <= 0 || factory == nil {
		p.log.Debug("pool created empty", zap.Int("capacity", capacity), zap.Bool("factory", factory != nil))
		return p, nil
	}

	slots := make([]E, 0, capacity)
	for i := 0; i < capacity; i++ {
		e, err := factory(i)
		if err == nil && isNil(e) {
			err = ErrNilHandle
		}
		if err != nil {
			releaseAll(slots)
			return nil, fmt.Errorf("create slot %d of %d: %w", i, capacity, err)
		}
		e.SetActive(false)
		slots = append(slots, e)
	}
	p.slots = slots

	p.log.Debug("pool created", zap.Int("capacity", capacity), zap.Bool("rotate_random", p.rotateRandom))
	return p, nil
}

// Cap returns the number of slots. Zero means the pool is empty.
func (p *Pool[E]) Cap() int { return len(p.slots) }

// Cursor returns the most recently activated slot index, or -1.
func (p *Pool[E]) Cursor() int { return p.cursor }

// Slot returns the handle stored at index i.
func (p *Pool[E]) Slot(i int) E { return p.slots[i] }

// RotateRandom reports whether CycleSpawn applies a random roll.
func (p *Pool[E]) RotateRandom() bool { return p.rotateRandom }

// SpawnOffset returns the configured jitter radius.
func (p *Pool[E]) SpawnOffset() float64 { return p.spawnOffset }

// CycleSpawnExact recycles the next slot to pos with rotation rot. No random
// roll is applied regardless of configuration.
func (p *Pool[E]) CycleSpawnExact(pos geom.Vec3, rot geom.Quat) (E, error) {
	return p.cycle(pos, rot)
}

// CycleSpawn recycles the next slot to pos, facing down normal. With
// RotateRandom the orientation also gets a uniform roll in [0, 360) degrees
// around normal.
func (p *Pool[E]) CycleSpawn(pos, normal geom.Vec3) (E, error) {
	rot := geom.LookRotation(normal)
	if p.rotateRandom && len(p.slots) > 0 {
		rot = geom.AngleAxis(p.rng.Float64()*360, normal).Mul(rot)
	}
	return p.cycle(pos, rot)
}

// cycle moves the slot after the cursor and marks it active. The previous
// occupant is not hidden first; it simply reappears at the new transform.
func (p *Pool[E]) cycle(pos geom.Vec3, rot geom.Quat) (E, error) {
	if len(p.slots) == 0 {
		var zero E
		return zero, ErrEmptyPool
	}
	next := LoopIndex(len(p.slots), p.cursor+1)
	p.cursor = next

	e := p.slots[next]
	e.SetTransform(pos, rot)
	e.SetActive(true)
	return e, nil
}

// DeactivateAll hides every slot and resets the spawn order so the next
// spawn uses slot 0. Safe on an empty pool.
func (p *Pool[E]) DeactivateAll() {
	for _, e := range p.slots {
		e.SetActive(false)
	}
	p.cursor = -1
}

// Active returns the handles currently flagged active, in slot order.
// ok is false when the pool has no slots at all; an initialized pool with
// nothing active returns an empty, non-nil slice.
func (p *Pool[E]) Active() (active []E, ok bool) {
	if len(p.slots) == 0 {
		return nil, false
	}
	active = make([]E, 0, len(p.slots))
	for _, e := range p.slots {
		if e.Active() {
			active = append(active, e)
		}
	}
	return active, true
}

// Close deactivates and releases every handle, leaving the pool empty.
func (p *Pool[E]) Close() {
	if len(p.slots) == 0 {
		return
	}
	p.DeactivateAll()
	releaseAll(p.slots)
	p.log.Debug("pool closed", zap.Int("capacity", len(p.slots)))
	p.slots = nil
}

func releaseAll[E Entity](slots []E) {
	for _, e := range slots {
		if r, ok := any(e).(Releaser); ok {
			r.Release()
		}
	}
}

func isNil[E Entity](e E) bool {
	v := any(e)
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
