package system

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/l1jgo/recycler/internal/core/ecs"
	"github.com/l1jgo/recycler/internal/core/event"
	coresys "github.com/l1jgo/recycler/internal/core/system"
	"github.com/l1jgo/recycler/internal/data"
	"github.com/l1jgo/recycler/internal/geom"
	"github.com/l1jgo/recycler/internal/scene"
	"github.com/l1jgo/recycler/internal/scripting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type scriptedSource map[uint64][]scripting.Command

func (s scriptedSource) SpawnPattern(ctx scripting.PatternContext) []scripting.Command {
	return s[ctx.Frame]
}

type harness struct {
	runner *coresys.Runner
	world  *ecs.World
	pools  *scene.Pools
	spawns *SpawnSystem
	logs   *observer.ObservedLogs
}

const poolDefs = `
pools:
  - name: holes
    capacity: 2
    rotate_random: false
  - name: flash
    capacity: 3
  - name: off
    capacity: 0
`

func newHarness(t *testing.T, src PatternSource, reportEvery int) *harness {
	t.Helper()
	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	tbl, err := data.ParsePoolTable([]byte(poolDefs))
	require.NoError(t, err)

	world := ecs.NewWorld()
	sc := scene.New(world, log)
	pools, err := scene.BuildPools(sc, tbl, scene.PoolOptions{})
	require.NoError(t, err)

	bus := event.NewBus()
	spawns := NewSpawnSystem(pools, bus, log)

	r := coresys.NewRunner()
	r.Register(NewCleanupSystem(world, log))
	r.Register(NewReportSystem(pools, spawns, reportEvery, log))
	r.Register(spawns)
	r.Register(NewEventDispatchSystem(bus))
	r.Register(NewScriptSystem(src, bus, log))

	return &harness{runner: r, world: world, pools: pools, spawns: spawns, logs: logs}
}

func (h *harness) tick(n int) {
	for i := 0; i < n; i++ {
		h.runner.Tick(16 * time.Millisecond)
	}
}

func spawnAt(pool string, x float64) scripting.Command {
	return scripting.Command{Op: scripting.OpSpawn, Pool: pool, Pos: geom.Vec3{X: x}, Normal: geom.Up}
}

func TestSpawnsRecycleOldestSlot(t *testing.T) {
	h := newHarness(t, scriptedSource{
		1: {spawnAt("holes", 1), spawnAt("holes", 2), spawnAt("holes", 3)},
	}, 0)

	h.tick(1)
	holes, _ := h.pools.Get("holes")
	active, ok := holes.Active()
	require.True(t, ok)
	require.Len(t, active, 2)

	tr0, _ := active[0].Transform()
	tr1, _ := active[1].Transform()
	assert.Equal(t, 0, active[0].Slot().Slot)
	assert.Equal(t, geom.Vec3{X: 3}, tr0.Pos)
	assert.Equal(t, geom.Vec3{X: 2}, tr1.Pos)
	assert.Equal(t, 0, holes.Cursor())
	assert.Equal(t, uint64(3), h.spawns.Stats().Spawned)
}

func TestClearOrderedWithSpawns(t *testing.T) {
	h := newHarness(t, scriptedSource{
		1: {
			spawnAt("flash", 1),
			spawnAt("flash", 2),
			{Op: scripting.OpClear, Pool: "flash"},
			{Op: scripting.OpSpawnExact, Pool: "flash", Pos: geom.Vec3{X: 9}, Rot: geom.AngleAxis(90, geom.Up)},
		},
	}, 0)
	h.tick(2)

	flash, _ := h.pools.Get("flash")
	active, ok := flash.Active()
	require.True(t, ok)
	require.Len(t, active, 1)
	assert.Equal(t, 0, active[0].Slot().Slot, "clear resets the cursor to slot 0")
	tr, _ := active[0].Transform()
	assert.Equal(t, geom.Vec3{X: 9}, tr.Pos)
	assert.Equal(t, geom.AngleAxis(90, geom.Up), tr.Rot)
	assert.Equal(t, uint64(1), h.spawns.Stats().Cleared)
}

func TestClearAllPools(t *testing.T) {
	h := newHarness(t, scriptedSource{
		1: {spawnAt("flash", 1), spawnAt("holes", 1)},
		2: {{Op: scripting.OpClear}},
	}, 0)
	h.tick(1)
	assert.Equal(t, map[string]int{"holes": 1, "flash": 1}, h.pools.ActiveCounts())
	h.tick(1)
	assert.Equal(t, map[string]int{"holes": 0, "flash": 0}, h.pools.ActiveCounts())
}

func TestRejectedSpawns(t *testing.T) {
	h := newHarness(t, scriptedSource{
		1: {
			spawnAt("missing", 1),
			spawnAt("off", 1),
			{Op: scripting.OpClear, Pool: "missing"},
		},
	}, 0)
	h.tick(2)

	assert.Equal(t, SpawnStats{Rejected: 3}, h.spawns.Stats())
	assert.Equal(t, 1, h.logs.FilterMessage("spawn for unknown pool").Len())
	assert.Equal(t, 1, h.logs.FilterMessage("spawn rejected").Len())
	assert.Equal(t, 1, h.logs.FilterMessage("clear for unknown pool").Len())
}

func TestReportInterval(t *testing.T) {
	h := newHarness(t, scriptedSource{1: {spawnAt("holes", 1)}}, 2)
	h.tick(5)

	reports := h.logs.FilterMessage("pool report").All()
	require.Len(t, reports, 2)
	fields := reports[1].ContextMap()
	assert.Equal(t, int64(1), fields["holes"])
	assert.Equal(t, int64(0), fields["flash"])
	assert.NotContains(t, fields, "off")
	assert.Equal(t, uint64(1), fields["spawned"])
}

func TestCleanupFlushesReleasedPools(t *testing.T) {
	h := newHarness(t, scriptedSource{}, 0)
	require.Equal(t, 5, h.world.Live())

	h.pools.Close()
	h.tick(1)
	assert.Equal(t, 0, h.world.Live())
	assert.Equal(t, 0, h.world.Pending())
}

func TestLuaPatternEndToEnd(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pattern.lua"), []byte(`
function spawn_pattern(ctx)
  if ctx.frame > pool_capacity("flash") + 1 then
    return {}
  end
  return { { pool = "flash", x = ctx.frame, nx = 0, ny = 0, nz = 1 } }
end
`), 0o644))
	eng, err := scripting.NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	defer eng.Close()

	h := newHarness(t, eng, 0)
	eng.ExposeCapacity(h.pools.Capacity)
	h.tick(6)

	// Four spawns into three slots: slot 0 was recycled for frame 4.
	flash, _ := h.pools.Get("flash")
	active, ok := flash.Active()
	require.True(t, ok)
	require.Len(t, active, 3)
	tr, _ := active[0].Transform()
	assert.Equal(t, geom.Vec3{X: 4}, tr.Pos)
	assert.Equal(t, uint64(4), h.spawns.Stats().Spawned)
}
