package main

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/l1jgo/recycler/internal/config"
	"github.com/l1jgo/recycler/internal/core/ecs"
	"github.com/l1jgo/recycler/internal/core/event"
	coresys "github.com/l1jgo/recycler/internal/core/system"
	"github.com/l1jgo/recycler/internal/data"
	"github.com/l1jgo/recycler/internal/scene"
	"github.com/l1jgo/recycler/internal/scripting"
	"github.com/l1jgo/recycler/internal/system"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(name string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Printf("\033[36;1m  │\033[0m %-41s \033[36;1m│\033[0m\n", name+" · recycling pool host")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Host loop ──────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/recycler.toml"
	if p := os.Getenv("RECYCLER_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Host.Name)

	// 3. Load pool definitions
	printSection("Data")
	poolTable, err := data.LoadPoolTable(cfg.Pools.Definitions)
	if err != nil {
		return fmt.Errorf("load pool table: %w", err)
	}
	printStat("Pool definitions", poolTable.Count())
	printStat("Pooled slots", poolTable.TotalSlots())

	// 4. Build world and pools
	seed := cfg.Host.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	world := ecs.NewWorld()
	sc := scene.New(world, log)
	pools, err := scene.BuildPools(sc, poolTable, scene.PoolOptions{
		RotateRandomDefault: cfg.Pools.RotateRandomDefault,
		Rand:                rng,
	})
	if err != nil {
		return fmt.Errorf("build pools: %w", err)
	}
	defer func() {
		pools.Close()
		n := world.Flush()
		log.Info("pools released", zap.Int("entities", n))
	}()
	printStat("Entities", world.Live())

	// 5. Spawn scripts
	engine, err := scripting.NewEngine(cfg.Scripts.Dir, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer engine.Close()
	engine.ExposeCapacity(pools.Capacity)
	if !engine.HasPattern() {
		log.Warn("no spawn_pattern defined; pools will stay idle", zap.String("dir", cfg.Scripts.Dir))
	}
	fmt.Println()

	// 6. Systems
	bus := event.NewBus()
	spawns := system.NewSpawnSystem(pools, bus, log)

	runner := coresys.NewRunner()
	runner.Register(system.NewScriptSystem(engine, bus, log))
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(spawns)
	runner.Register(system.NewReportSystem(pools, spawns, cfg.Report.Interval, log))
	runner.Register(system.NewCleanupSystem(world, log))

	// 7. Frame loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	tickRate := cfg.Host.TickRate.Duration
	ticker := time.NewTicker(tickRate)
	defer ticker.Stop()

	printSection("Ready")
	printReady(fmt.Sprintf("frame loop (tick: %s, seed: %d)", tickRate, seed))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(tickRate)
			if cfg.Host.MaxTicks > 0 && runner.Frames() >= cfg.Host.MaxTicks {
				st := spawns.Stats()
				log.Info("frame limit reached",
					zap.Uint64("frames", runner.Frames()),
					zap.Uint64("spawned", st.Spawned),
					zap.Uint64("rejected", st.Rejected),
				)
				return nil
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()), zap.Uint64("frames", runner.Frames()))
			return nil
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
