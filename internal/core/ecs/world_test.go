package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityIDParts(t *testing.T) {
	id := NewEntityID(7, 3)
	assert.Equal(t, uint32(7), id.Index())
	assert.Equal(t, uint32(3), id.Generation())
	assert.False(t, id.IsZero())
	assert.True(t, EntityID(0).IsZero())
}

func TestAllocatorNeverReturnsZero(t *testing.T) {
	a := NewIDAllocator()
	id := a.Create()
	assert.False(t, id.IsZero())
	assert.False(t, a.Alive(EntityID(0)))
}

func TestAllocatorRecyclesWithNewGeneration(t *testing.T) {
	a := NewIDAllocator()
	first := a.Create()
	require.True(t, a.Destroy(first))
	assert.False(t, a.Alive(first))

	second := a.Create()
	assert.Equal(t, first.Index(), second.Index())
	assert.Equal(t, first.Generation()+1, second.Generation())
	assert.True(t, a.Alive(second))
	assert.False(t, a.Destroy(first), "stale id must not destroy the new occupant")
	assert.Equal(t, 1, a.Live())
}

type tag struct{ name string }
type weight struct{ kg float64 }

func TestWorldFlushRemovesComponents(t *testing.T) {
	w := NewWorld()
	tags := NewStore[tag](4)
	weights := NewStore[weight](4)
	w.Registry().Register(tags)
	w.Registry().Register(weights)

	a := w.CreateEntity()
	b := w.CreateEntity()
	tags.Set(a, &tag{"a"})
	tags.Set(b, &tag{"b"})
	weights.Set(a, &weight{1})

	w.MarkForDestruction(a)
	w.MarkForDestruction(a)
	assert.Equal(t, 2, w.Pending())
	assert.True(t, w.Alive(a), "destruction is deferred until Flush")

	assert.Equal(t, 1, w.Flush())
	assert.Equal(t, 0, w.Pending())
	assert.False(t, w.Alive(a))
	assert.False(t, tags.Has(a))
	assert.False(t, weights.Has(a))
	assert.True(t, tags.Has(b))
	assert.Equal(t, 1, w.Live())
}

func TestEach2VisitsIntersection(t *testing.T) {
	tags := NewStore[tag](4)
	weights := NewStore[weight](4)

	ids := []EntityID{NewEntityID(1, 0), NewEntityID(2, 0), NewEntityID(3, 0)}
	tags.Set(ids[0], &tag{"x"})
	tags.Set(ids[1], &tag{"y"})
	tags.Set(ids[2], &tag{"z"})
	weights.Set(ids[1], &weight{2})

	seen := map[EntityID]string{}
	Each2(tags, weights, func(id EntityID, tg *tag, wt *weight) {
		seen[id] = tg.name
		assert.Equal(t, 2.0, wt.kg)
	})
	assert.Equal(t, map[EntityID]string{ids[1]: "y"}, seen)

	seen = map[EntityID]string{}
	Each2(weights, tags, func(id EntityID, _ *weight, tg *tag) {
		seen[id] = tg.name
	})
	assert.Equal(t, map[EntityID]string{ids[1]: "y"}, seen)
}
