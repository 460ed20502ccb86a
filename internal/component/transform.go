package component

import "github.com/l1jgo/recycler/internal/geom"

// Transform is the world-space placement of an entity.
// Pure data; systems and scene adapters mutate it.
type Transform struct {
	Pos geom.Vec3
	Rot geom.Quat
}

// Visible flags whether an entity participates in the scene.
type Visible struct {
	On bool
}

// PoolSlot records which pool and slot an entity was produced for.
type PoolSlot struct {
	Pool   string
	Prefab string
	Slot   int
}
