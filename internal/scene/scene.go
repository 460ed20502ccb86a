// Package scene adapts the ECS world to the pool's entity capability. Pooled
// handles are plain entities carrying Transform, Visible and PoolSlot
// components.
package scene

import (
	"fmt"

	"github.com/l1jgo/recycler/internal/component"
	"github.com/l1jgo/recycler/internal/core/ecs"
	"github.com/l1jgo/recycler/internal/geom"
	"github.com/l1jgo/recycler/internal/pool"
	"go.uber.org/zap"
)

// Scene owns the world and the component stores pooled entities live in.
type Scene struct {
	world      *ecs.World
	transforms *ecs.Store[component.Transform]
	visible    *ecs.Store[component.Visible]
	slots      *ecs.Store[component.PoolSlot]
	log        *zap.Logger
}

func New(world *ecs.World, log *zap.Logger) *Scene {
	s := &Scene{
		world:      world,
		transforms: ecs.NewStore[component.Transform](256),
		visible:    ecs.NewStore[component.Visible](256),
		slots:      ecs.NewStore[component.PoolSlot](256),
		log:        log,
	}
	world.Registry().Register(s.transforms)
	world.Registry().Register(s.visible)
	world.Registry().Register(s.slots)
	return s
}

func (s *Scene) World() *ecs.World { return s.world }

// Node is a pooled entity handle. It implements pool.Entity.
type Node struct {
	scene *Scene
	id    ecs.EntityID
}

var (
	_ pool.Entity   = (*Node)(nil)
	_ pool.Releaser = (*Node)(nil)
)

func (n *Node) ID() ecs.EntityID { return n.id }

func (n *Node) SetTransform(pos geom.Vec3, rot geom.Quat) {
	if tr, ok := n.scene.transforms.Get(n.id); ok {
		tr.Pos = pos
		tr.Rot = rot
	}
}

// Transform returns the current placement. ok is false once released.
func (n *Node) Transform() (component.Transform, bool) {
	tr, ok := n.scene.transforms.Get(n.id)
	if !ok {
		return component.Transform{}, false
	}
	return *tr, true
}

func (n *Node) SetActive(active bool) {
	if v, ok := n.scene.visible.Get(n.id); ok {
		v.On = active
	}
}

func (n *Node) Active() bool {
	v, ok := n.scene.visible.Get(n.id)
	return ok && v.On
}

// Slot returns the pool slot this node was produced for.
func (n *Node) Slot() component.PoolSlot {
	if ps, ok := n.scene.slots.Get(n.id); ok {
		return *ps
	}
	return component.PoolSlot{}
}

// Release hands the entity back to the world; it is destroyed at the next
// cleanup flush.
func (n *Node) Release() {
	n.scene.world.MarkForDestruction(n.id)
}

// Factory returns a pool factory producing hidden nodes for the named pool.
func (s *Scene) Factory(poolName, prefab string) pool.Factory[*Node] {
	return func(i int) (*Node, error) {
		if prefab == "" {
			return nil, fmt.Errorf("pool %s slot %d: no prefab", poolName, i)
		}
		id := s.world.CreateEntity()
		s.transforms.Set(id, &component.Transform{Rot: geom.Identity})
		s.visible.Set(id, &component.Visible{})
		s.slots.Set(id, &component.PoolSlot{Pool: poolName, Prefab: prefab, Slot: i})
		return &Node{scene: s, id: id}, nil
	}
}

// VisibleCount returns the number of visible pooled entities per pool.
func (s *Scene) VisibleCount() map[string]int {
	counts := make(map[string]int)
	ecs.Each2(s.visible, s.slots, func(_ ecs.EntityID, v *component.Visible, ps *component.PoolSlot) {
		if v.On {
			counts[ps.Pool]++
		}
	})
	return counts
}
