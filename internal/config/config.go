package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Host    HostConfig    `toml:"host"`
	Pools   PoolsConfig   `toml:"pools"`
	Scripts ScriptsConfig `toml:"scripts"`
	Report  ReportConfig  `toml:"report"`
	Logging LoggingConfig `toml:"logging"`
}

type HostConfig struct {
	Name     string   `toml:"name"`
	TickRate Duration `toml:"tick_rate"`
	MaxTicks uint64   `toml:"max_ticks"` // 0 = run until signalled
	Seed     int64    `toml:"seed"`      // 0 = seed from clock
}

type PoolsConfig struct {
	Definitions         string `toml:"definitions"`
	RotateRandomDefault bool   `toml:"rotate_random_default"`
}

type ScriptsConfig struct {
	Dir string `toml:"dir"`
}

type ReportConfig struct {
	Interval int `toml:"interval"` // frames between reports, 0 = off
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// Duration decodes TOML strings such as "16ms" or "1s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Host.TickRate.Duration <= 0 {
		return nil, fmt.Errorf("config %s: host.tick_rate must be positive", path)
	}
	return cfg, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config { return defaults() }

func defaults() *Config {
	return &Config{
		Host: HostConfig{
			Name:     "recycler",
			TickRate: Duration{16 * time.Millisecond},
		},
		Pools: PoolsConfig{
			Definitions: "data/yaml/pool_list.yaml",
		},
		Scripts: ScriptsConfig{
			Dir: "scripts/spawn",
		},
		Report: ReportConfig{
			Interval: 60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
