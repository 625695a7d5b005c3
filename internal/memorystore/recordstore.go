package memorystore

import (
	"context"
	"sync"

	"bncollector/pkg/binance"
)

// DefaultCapacity is the number of records kept per symbol and stream kind.
const DefaultCapacity = 1000

// MemoryRecordStore keeps the most recent records per symbol in memory. It
// satisfies sink.Sink and backs storage.driver "memory".
type MemoryRecordStore struct {
	capacity int

	globalMu sync.RWMutex
	data     map[binance.Symbol]*symbolRecordStore
}

type symbolRecordStore struct {
	mu      sync.Mutex
	records map[binance.StreamKind][]binance.Record
	total   int
}

// NewRecordStore creates a store keeping up to capacity records per symbol
// and kind; capacity <= 0 means DefaultCapacity.
func NewRecordStore(capacity int) *MemoryRecordStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryRecordStore{
		capacity: capacity,
		data:     make(map[binance.Symbol]*symbolRecordStore),
	}
}

func (s *MemoryRecordStore) Store(_ context.Context, rec binance.Record) error {
	s.Add(rec)
	return nil
}

func (s *MemoryRecordStore) Add(rec binance.Record) {
	sym := rec.RecordSymbol()

	// Fast path: lock per-symbol store only
	s.globalMu.RLock()
	store, ok := s.data[sym]
	s.globalMu.RUnlock()

	if !ok {
		s.globalMu.Lock()
		if store, ok = s.data[sym]; !ok {
			store = &symbolRecordStore{records: make(map[binance.StreamKind][]binance.Record)}
			s.data[sym] = store
		}
		s.globalMu.Unlock()
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	recs := append(store.records[rec.Kind()], rec)
	if len(recs) > s.capacity {
		// drop the oldest; copy so the backing array does not grow forever
		recs = append([]binance.Record(nil), recs[len(recs)-s.capacity:]...)
	}
	store.records[rec.Kind()] = recs
	store.total++
}

// GetBySymbol returns a copy of the retained records of one kind, oldest first.
func (s *MemoryRecordStore) GetBySymbol(sym binance.Symbol, kind binance.StreamKind) []binance.Record {
	s.globalMu.RLock()
	store, ok := s.data[sym]
	s.globalMu.RUnlock()
	if !ok {
		return nil
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	cp := make([]binance.Record, len(store.records[kind]))
	copy(cp, store.records[kind])
	return cp
}

// Latest returns the newest retained record of one kind.
func (s *MemoryRecordStore) Latest(sym binance.Symbol, kind binance.StreamKind) (binance.Record, bool) {
	recs := s.GetBySymbol(sym, kind)
	if len(recs) == 0 {
		return nil, false
	}
	return recs[len(recs)-1], true
}

// Symbols lists every symbol that has stored at least one record.
func (s *MemoryRecordStore) Symbols() []binance.Symbol {
	s.globalMu.RLock()
	defer s.globalMu.RUnlock()

	out := make([]binance.Symbol, 0, len(s.data))
	for sym := range s.data {
		out = append(out, sym)
	}
	return out
}

// CountAll returns the number of records ever added, including evicted ones.
func (s *MemoryRecordStore) CountAll() int {
	s.globalMu.RLock()
	defer s.globalMu.RUnlock()

	total := 0
	for _, store := range s.data {
		store.mu.Lock()
		total += store.total
		store.mu.Unlock()
	}
	return total
}
