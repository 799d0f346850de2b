package journal

import "fmt"

// ResyncSignal summarizes journal evictions since the last consume. Consumers
// that depend on an unbroken record window should take a fresh snapshot when
// one fires.
type ResyncSignal struct {
	Evicted      uint64
	TotalRecords uint64
	OldestLost   uint64
	NewestLost   uint64
}

func (s ResyncSignal) Summary() string {
	if s.Evicted == 0 && s.TotalRecords == 0 {
		return ""
	}
	return fmt.Sprintf("evicted=%d total=%d lost_ticks=[%d,%d]", s.Evicted, s.TotalRecords, s.OldestLost, s.NewestLost)
}

const evictedThresholdPerTenThousand = 100

// Policy tracks eviction pressure and raises a pending resync once evictions
// exceed 1% of appended records.
type Policy struct {
	totalRecords uint64
	evicted      uint64
	oldestLost   uint64
	newestLost   uint64
	pending      bool
}

func NewPolicy() *Policy {
	return &Policy{}
}

func (p *Policy) NoteRecord() {
	if p == nil {
		return
	}
	if p.totalRecords == ^uint64(0) {
		p.totalRecords /= 2
		p.evicted /= 2
	}
	p.totalRecords++
}

func (p *Policy) NoteEvicted(tick uint64) {
	if p == nil {
		return
	}
	if p.evicted == 0 || tick < p.oldestLost {
		p.oldestLost = tick
	}
	if tick > p.newestLost {
		p.newestLost = tick
	}
	p.evicted++
	p.evaluate()
}

func (p *Policy) evaluate() {
	if p == nil || p.pending || p.evicted == 0 {
		return
	}
	total := p.totalRecords
	if total == 0 {
		total = 1
	}
	if p.evicted*10000 >= total*evictedThresholdPerTenThousand {
		p.pending = true
	}
}

func (p *Policy) Consume() (ResyncSignal, bool) {
	if p == nil || !p.pending {
		return ResyncSignal{}, false
	}
	signal := ResyncSignal{
		Evicted:      p.evicted,
		TotalRecords: p.totalRecords,
		OldestLost:   p.oldestLost,
		NewestLost:   p.newestLost,
	}
	*p = Policy{}
	return signal, true
}
