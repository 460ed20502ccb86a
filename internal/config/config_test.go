package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recycler.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[host]
tick_rate = "50ms"
max_ticks = 120
seed = 42

[pools]
rotate_random_default = true

[logging]
level = "debug"
format = "json"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "recycler", cfg.Host.Name)
	assert.Equal(t, 50*time.Millisecond, cfg.Host.TickRate.Duration)
	assert.Equal(t, uint64(120), cfg.Host.MaxTicks)
	assert.Equal(t, int64(42), cfg.Host.Seed)
	assert.Equal(t, "data/yaml/pool_list.yaml", cfg.Pools.Definitions)
	assert.True(t, cfg.Pools.RotateRandomDefault)
	assert.Equal(t, "scripts/spawn", cfg.Scripts.Dir)
	assert.Equal(t, 60, cfg.Report.Interval)
	assert.Equal(t, LoggingConfig{Level: "debug", Format: "json"}, cfg.Logging)
}

func TestLoadRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"bad duration": "[host]\ntick_rate = \"soon\"\n",
		"zero tick":    "[host]\ntick_rate = \"0s\"\n",
		"broken toml":  "[host\n",
		"wrong type":   "[report]\ninterval = \"often\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 16*time.Millisecond, cfg.Host.TickRate.Duration)
	assert.Equal(t, uint64(0), cfg.Host.MaxTicks)
}
