package memorystore_test

import (
	"context"
	"sync"
	"testing"

	"bncollector/internal/memorystore"
	"bncollector/pkg/binance"
)

// go test -v --run TestRecordStoreCapacity
func TestRecordStoreCapacity(t *testing.T) {
	store := memorystore.NewRecordStore(2)
	sym := binance.MustSymbol("BNBBTC")

	for i := int64(1); i <= 3; i++ {
		if err := store.Store(context.Background(), binance.TradeRecord{TradeID: i, Symbol: sym}); err != nil {
			t.Fatalf("store failed: %v", err)
		}
	}
	store.Add(binance.MiniTickerRecord{Symbol: sym})

	trades := store.GetBySymbol(sym, binance.StreamTrade)
	if len(trades) != 2 {
		t.Fatalf("expected 2 retained trades, got %d", len(trades))
	}
	if trades[0].(binance.TradeRecord).TradeID != 2 {
		t.Errorf("oldest trade should have been evicted, got %+v", trades[0])
	}

	latest, ok := store.Latest(sym, binance.StreamTrade)
	if !ok || latest.(binance.TradeRecord).TradeID != 3 {
		t.Errorf("unexpected latest trade: %+v", latest)
	}
	if store.CountAll() != 4 {
		t.Errorf("expected 4 records counted, got %d", store.CountAll())
	}
	if got := store.GetBySymbol(binance.MustSymbol("ETHBTC"), binance.StreamTrade); got != nil {
		t.Errorf("expected nil for unseen symbol, got %v", got)
	}
}

// go test -v --run TestRecordStoreConcurrent
func TestRecordStoreConcurrent(t *testing.T) {
	store := memorystore.NewRecordStore(0)
	symbols := []binance.Symbol{binance.MustSymbol("BNBBTC"), binance.MustSymbol("ETHBTC"), binance.MustSymbol("BTCUSDT")}

	var wg sync.WaitGroup
	for _, sym := range symbols {
		for w := 0; w < 4; w++ {
			wg.Add(1)
			go func(sym binance.Symbol) {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					store.Add(binance.AggregateTradeRecord{Symbol: sym, TradeID: int64(i)})
				}
			}(sym)
		}
	}
	wg.Wait()

	if got := store.CountAll(); got != 1200 {
		t.Errorf("expected 1200 records, got %d", got)
	}
	if got := len(store.Symbols()); got != 3 {
		t.Errorf("expected 3 symbols, got %d", got)
	}
}
