package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/l1jgo/recycler/internal/geom"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM that produces spawn patterns.
// Single-goroutine access only (frame loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua VM and loads every .lua file in scriptsDir in name
// order. A missing directory yields an engine with no patterns.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load spawn scripts: %w", err)
	}
	return e, nil
}

func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			e.log.Warn("spawn script dir missing", zap.String("dir", dir))
			return nil
		}
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// DoString runs a chunk in the VM. Used for inline patterns and tests.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

// ExposeCapacity registers pool_capacity(name) for scripts. Unknown pools
// report -1.
func (e *Engine) ExposeCapacity(lookup func(name string) int) {
	e.vm.SetGlobal("pool_capacity", e.vm.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		L.Push(lua.LNumber(lookup(name)))
		return 1
	}))
}

// HasPattern reports whether spawn_pattern is defined.
func (e *Engine) HasPattern() bool {
	return e.vm.GetGlobal("spawn_pattern").Type() == lua.LTFunction
}

// PatternContext is passed to spawn_pattern each frame.
type PatternContext struct {
	Frame uint64
	DtMs  int64
}

// CommandOp selects what a Command does.
type CommandOp string

const (
	OpSpawn      CommandOp = "spawn"       // face down Normal
	OpSpawnExact CommandOp = "spawn_exact" // use Rot verbatim
	OpClear      CommandOp = "clear"       // deactivate Pool (all pools if empty)
)

// Command is one instruction returned by spawn_pattern.
type Command struct {
	Op     CommandOp
	Pool   string
	Pos    geom.Vec3
	Normal geom.Vec3
	Rot    geom.Quat
}

// SpawnPattern calls Lua spawn_pattern(ctx) and returns its commands in array
// order. Script errors are logged and yield no commands.
func (e *Engine) SpawnPattern(ctx PatternContext) []Command {
	fn := e.vm.GetGlobal("spawn_pattern")
	if fn.Type() != lua.LTFunction {
		return nil
	}

	t := e.vm.NewTable()
	t.RawSetString("frame", lua.LNumber(ctx.Frame))
	t.RawSetString("dt_ms", lua.LNumber(ctx.DtMs))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua spawn_pattern error", zap.Error(err), zap.Uint64("frame", ctx.Frame))
		return nil
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		if result != lua.LNil {
			e.log.Error("lua spawn_pattern returned non-table", zap.String("type", result.Type().String()))
		}
		return nil
	}

	cmds := make([]Command, 0, rt.Len())
	for i := 1; i <= rt.Len(); i++ {
		row, ok := rt.RawGetInt(i).(*lua.LTable)
		if !ok {
			continue
		}
		cmd, err := parseCommand(row)
		if err != nil {
			e.log.Warn("skip spawn command", zap.Int("index", i), zap.Error(err))
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}

func parseCommand(row *lua.LTable) (Command, error) {
	cmd := Command{
		Op:   CommandOp(lStr(row, "op")),
		Pool: lStr(row, "pool"),
	}
	if cmd.Op == "" {
		cmd.Op = OpSpawn
	}
	switch cmd.Op {
	case OpClear:
		return cmd, nil
	case OpSpawn:
		cmd.Normal = geom.Vec3{X: lNum(row, "nx"), Y: lNum(row, "ny"), Z: lNum(row, "nz")}
		if cmd.Normal.MagSq() == 0 {
			cmd.Normal = geom.Up
		}
	case OpSpawnExact:
		cmd.Rot = geom.Identity
		if row.RawGetString("qw") != lua.LNil {
			cmd.Rot = geom.Quat{X: lNum(row, "qx"), Y: lNum(row, "qy"), Z: lNum(row, "qz"), W: lNum(row, "qw")}
		}
	default:
		return Command{}, fmt.Errorf("unknown op %q", cmd.Op)
	}
	if cmd.Pool == "" {
		return Command{}, fmt.Errorf("%s without pool", cmd.Op)
	}
	cmd.Pos = geom.Vec3{X: lNum(row, "x"), Y: lNum(row, "y"), Z: lNum(row, "z")}
	return cmd, nil
}

// --- Lua helpers ---

// lNum reads a number field from a Lua table; missing fields read as 0.
func lNum(t *lua.LTable, key string) float64 {
	return float64(lua.LVAsNumber(t.RawGetString(key)))
}

// lStr reads a string field from a Lua table.
func lStr(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
