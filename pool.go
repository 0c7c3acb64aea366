package inaspects

import (
	"sync"
	"sync/atomic"
)

// snapshotPool recycles the subscriber-list snapshots taken on every value
// write, keeping the notification hot path allocation-free once warm. Each
// control owns its pool; a snapshot is returned after delivery completes,
// so re-entrant writes during delivery draw a fresh slice.
type snapshotPool[V any] struct {
	pool   sync.Pool
	hits   atomic.Uint64
	misses atomic.Uint64
}

func (p *snapshotPool[V]) acquire() []updateEntry[V] {
	if snap, ok := p.pool.Get().([]updateEntry[V]); ok {
		p.hits.Add(1)
		return snap[:0]
	}
	p.misses.Add(1)
	return make([]updateEntry[V], 0, 8)
}

func (p *snapshotPool[V]) release(snap []updateEntry[V]) {
	if snap == nil {
		return
	}
	//nolint:staticcheck
	p.pool.Put(snap[:0])
}

func (p *snapshotPool[V]) stats() (hits, misses uint64) {
	return p.hits.Load(), p.misses.Load()
}
