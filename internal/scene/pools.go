package scene

import (
	"fmt"
	"math/rand"

	"github.com/l1jgo/recycler/internal/data"
	"github.com/l1jgo/recycler/internal/pool"
	"go.uber.org/zap"
)

// Pools is the set of named pools the host drives.
type Pools struct {
	byName map[string]*pool.Pool[*Node]
	names  []string
}

// PoolOptions are host-wide defaults applied to every pool definition.
type PoolOptions struct {
	RotateRandomDefault bool
	Rand                *rand.Rand
}

// BuildPools creates one pool per definition. If any pool fails, the pools
// already built are closed before returning the error.
func BuildPools(s *Scene, tbl *data.PoolTable, opts PoolOptions) (*Pools, error) {
	ps := &Pools{byName: make(map[string]*pool.Pool[*Node], tbl.Count())}
	for _, def := range tbl.All() {
		rotate := opts.RotateRandomDefault
		if def.RotateRandom != nil {
			rotate = *def.RotateRandom
		}
		poolOpts := []pool.Option{
			pool.WithRotateRandom(rotate),
			pool.WithSpawnOffset(def.RandomSpawnOffset),
			pool.WithLogger(s.log.With(zap.String("pool", def.Name))),
		}
		if opts.Rand != nil {
			poolOpts = append(poolOpts, pool.WithRand(opts.Rand))
		}

		p, err := pool.New(def.Capacity, s.Factory(def.Name, def.Prefab), poolOpts...)
		if err != nil {
			ps.Close()
			return nil, fmt.Errorf("build pool %s: %w", def.Name, err)
		}
		ps.byName[def.Name] = p
		ps.names = append(ps.names, def.Name)
	}
	return ps, nil
}

// Get returns the named pool.
func (ps *Pools) Get(name string) (*pool.Pool[*Node], bool) {
	p, ok := ps.byName[name]
	return p, ok
}

// Names returns pool names in definition order.
func (ps *Pools) Names() []string { return ps.names }

// Capacity returns the named pool's slot count, or -1 if it is unknown.
func (ps *Pools) Capacity(name string) int {
	p, ok := ps.byName[name]
	if !ok {
		return -1
	}
	return p.Cap()
}

// DeactivateAll resets every pool.
func (ps *Pools) DeactivateAll() {
	for _, name := range ps.names {
		ps.byName[name].DeactivateAll()
	}
}

// ActiveCounts reports active handles per pool. Pools without slots are
// omitted.
func (ps *Pools) ActiveCounts() map[string]int {
	out := make(map[string]int, len(ps.names))
	for _, name := range ps.names {
		if active, ok := ps.byName[name].Active(); ok {
			out[name] = len(active)
		}
	}
	return out
}

// Close tears down every pool, releasing their entities to the world.
func (ps *Pools) Close() {
	for _, name := range ps.names {
		ps.byName[name].Close()
	}
}
