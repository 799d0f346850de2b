// Package journal keeps a rolling window of per-tick match records so replay
// and diagnostics tooling can rehydrate recent history. Each record carries an
// xxhash checksum of the encoded snapshot it was taken from, letting consumers
// detect divergence cheaply.
package journal

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// DamageRecord mirrors one damage event for the journal window.
type DamageRecord struct {
	Attacker string  `json:"attacker"`
	Target   string  `json:"target"`
	Amount   float64 `json:"amount"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Tick     uint64  `json:"tick"`
}

// Record captures one tick: its index, the checksum of the published snapshot,
// and the damage dealt during the tick.
type Record struct {
	Tick     uint64         `json:"tick"`
	Checksum uint64         `json:"checksum"`
	Damage   []DamageRecord `json:"damage,omitempty"`
}

// Checksum hashes an encoded snapshot.
func Checksum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Journal is a bounded ring of tick records. Appending past capacity evicts
// the oldest record and notes the loss with the resync policy.
type Journal struct {
	mu       sync.Mutex
	records  []Record
	capacity int
	policy   *Policy
}

// New constructs a journal holding at most capacity records.
func New(capacity int) *Journal {
	if capacity <= 0 {
		capacity = 1
	}
	return &Journal{
		records:  make([]Record, 0, capacity),
		capacity: capacity,
		policy:   NewPolicy(),
	}
}

// Append records one tick. Returns the evicted record's tick and true when an
// unconsumed record was dropped to make room.
func (j *Journal) Append(r Record) (uint64, bool) {
	if j == nil {
		return 0, false
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	j.policy.NoteRecord()
	evicted := uint64(0)
	dropped := false
	if len(j.records) >= j.capacity {
		evicted = j.records[0].Tick
		j.records = append(j.records[:0], j.records[1:]...)
		j.policy.NoteEvicted(evicted)
		dropped = true
	}
	j.records = append(j.records, r)
	return evicted, dropped
}

// ByTick returns the record for a tick still inside the window.
func (j *Journal) ByTick(tick uint64) (Record, bool) {
	if j == nil {
		return Record{}, false
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, r := range j.records {
		if r.Tick == tick {
			return r, true
		}
	}
	return Record{}, false
}

// Latest returns the newest record.
func (j *Journal) Latest() (Record, bool) {
	if j == nil {
		return Record{}, false
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.records) == 0 {
		return Record{}, false
	}
	return j.records[len(j.records)-1], true
}

// Window reports the record count and the oldest and newest tick retained.
func (j *Journal) Window() (count int, oldest, newest uint64) {
	if j == nil {
		return 0, 0, 0
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.records) == 0 {
		return 0, 0, 0
	}
	return len(j.records), j.records[0].Tick, j.records[len(j.records)-1].Tick
}

// Records copies the retained window, oldest first.
func (j *Journal) Records() []Record {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]Record, len(j.records))
	copy(out, j.records)
	return out
}

// ConsumeResync returns the pending resync signal, if the eviction rate has
// crossed the policy threshold since the last consume.
func (j *Journal) ConsumeResync() (ResyncSignal, bool) {
	if j == nil {
		return ResyncSignal{}, false
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.policy.Consume()
}
