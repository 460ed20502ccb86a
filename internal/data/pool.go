package data

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PoolDef describes one recycling pool: which prefab fills it, how many slots
// it holds, and how spawns vary.
type PoolDef struct {
	Name              string   `yaml:"name"`
	Prefab            string   `yaml:"prefab"`
	Capacity          int      `yaml:"capacity"`
	RotateRandom      *bool    `yaml:"rotate_random"` // nil = host default
	RandomSpawnOffset float64  `yaml:"random_spawn_offset"`
	Tags              []string `yaml:"tags"`
}

type poolListFile struct {
	Pools []PoolDef `yaml:"pools"`
}

// PoolTable holds pool definitions in file order, indexed by name.
type PoolTable struct {
	defs   []PoolDef
	byName map[string]int
}

// LoadPoolTable loads pool_list.yaml.
func LoadPoolTable(path string) (*PoolTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pool list: %w", err)
	}
	t, err := ParsePoolTable(raw)
	if err != nil {
		return nil, fmt.Errorf("pool list %s: %w", path, err)
	}
	return t, nil
}

// ParsePoolTable decodes and validates a pool list document.
func ParsePoolTable(raw []byte) (*PoolTable, error) {
	var f poolListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	t := &PoolTable{
		defs:   make([]PoolDef, 0, len(f.Pools)),
		byName: make(map[string]int, len(f.Pools)),
	}
	for i := range f.Pools {
		d := f.Pools[i]
		if d.Name == "" {
			return nil, fmt.Errorf("pool #%d: %w", i+1, errMissingName)
		}
		if _, dup := t.byName[d.Name]; dup {
			return nil, fmt.Errorf("pool %q: %w", d.Name, errDuplicateName)
		}
		if d.Prefab == "" {
			d.Prefab = d.Name
		}
		t.byName[d.Name] = len(t.defs)
		t.defs = append(t.defs, d)
	}
	return t, nil
}

var (
	errMissingName   = errors.New("missing name")
	errDuplicateName = errors.New("duplicate name")
)

// Get returns the definition named name, or nil.
func (t *PoolTable) Get(name string) *PoolDef {
	i, ok := t.byName[name]
	if !ok {
		return nil
	}
	return &t.defs[i]
}

// All returns definitions in file order.
func (t *PoolTable) All() []PoolDef { return t.defs }

// Count returns the number of pools defined.
func (t *PoolTable) Count() int { return len(t.defs) }

// TotalSlots sums capacity over pools with a positive capacity.
func (t *PoolTable) TotalSlots() int {
	n := 0
	for _, d := range t.defs {
		if d.Capacity > 0 {
			n += d.Capacity
		}
	}
	return n
}
