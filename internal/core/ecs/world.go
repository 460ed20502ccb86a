package ecs

// World owns entity IDs, the component registry and the deferred destroy
// queue. Destruction requested mid-frame is applied by Flush at frame end so
// systems never observe half-removed entities.
type World struct {
	ids          *IDAllocator
	registry     *Registry
	destroyQueue []EntityID
}

func NewWorld() *World {
	return &World{
		ids:          NewIDAllocator(),
		registry:     NewRegistry(),
		destroyQueue: make([]EntityID, 0, 32),
	}
}

func (w *World) Registry() *Registry { return w.registry }

func (w *World) CreateEntity() EntityID { return w.ids.Create() }

func (w *World) Alive(id EntityID) bool { return w.ids.Alive(id) }

// Live returns the number of entities not yet destroyed.
func (w *World) Live() int { return w.ids.Live() }

// MarkForDestruction queues id for the next Flush.
func (w *World) MarkForDestruction(id EntityID) {
	w.destroyQueue = append(w.destroyQueue, id)
}

// Pending returns the number of queued destructions.
func (w *World) Pending() int { return len(w.destroyQueue) }

// Flush destroys queued entities and strips their components. It returns the
// number of entities actually destroyed; duplicates and stale IDs are skipped.
func (w *World) Flush() int {
	n := 0
	for _, id := range w.destroyQueue {
		if !w.ids.Alive(id) {
			continue
		}
		w.registry.RemoveAll(id)
		w.ids.Destroy(id)
		n++
	}
	w.destroyQueue = w.destroyQueue[:0]
	return n
}
