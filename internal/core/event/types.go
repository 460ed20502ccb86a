package event

import "github.com/l1jgo/recycler/internal/geom"

// SpawnRequested asks the named pool to recycle its next slot. With Exact set
// Rot is used as-is; otherwise the slot faces down Normal.
type SpawnRequested struct {
	Pool   string
	Pos    geom.Vec3
	Normal geom.Vec3
	Rot    geom.Quat
	Exact  bool
}

// PoolCleared asks the named pool to deactivate every slot. An empty Pool
// clears all pools.
type PoolCleared struct {
	Pool string
}
