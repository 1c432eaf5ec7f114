package parallel

import (
	"sync"
	"testing"
)

func TestFor_CoversAllIndicesOnce(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 8, MinShardCost: 1}

	n := 1000
	var mu sync.Mutex
	seen := make([]int, n)

	For(n, 100, func(start, end int) {
		if start < 0 || end > n || start >= end {
			t.Errorf("bad range [%d, %d)", start, end)
		}
		mu.Lock()
		for i := start; i < end; i++ {
			seen[i]++
		}
		mu.Unlock()
	}, cfg)

	for i, count := range seen {
		if count != 1 {
			t.Errorf("index %d covered %d times, want 1", i, count)
		}
	}
}

func TestFor_Sequential(t *testing.T) {
	cfg := Sequential()

	calls := 0
	For(100, 1000, func(start, end int) {
		calls++
		if start != 0 || end != 100 {
			t.Errorf("expected single range [0, 100), got [%d, %d)", start, end)
		}
	}, cfg)

	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestFor_ZeroAndNegative(t *testing.T) {
	cfg := DefaultConfig()

	For(0, 1000, func(start, end int) {
		t.Error("callback invoked for n=0")
	}, cfg)
	For(-3, 1000, func(start, end int) {
		t.Error("callback invoked for n<0")
	}, cfg)
}

func TestNumShards_CostCap(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 16, MinShardCost: 10_000}

	// Tiny per-unit cost: total work fits in a single minimum shard.
	if got := cfg.numShards(8, 10); got != 1 {
		t.Errorf("numShards(8, 10) = %d, want 1", got)
	}

	// Large per-unit cost: capped by n, not workers.
	if got := cfg.numShards(4, 1_000_000); got != 4 {
		t.Errorf("numShards(4, 1e6) = %d, want 4", got)
	}

	// Plenty of work: capped by workers.
	if got := cfg.numShards(1000, 1_000_000); got != 16 {
		t.Errorf("numShards(1000, 1e6) = %d, want 16", got)
	}
}

func TestNumShards_Disabled(t *testing.T) {
	cfg := Config{Enabled: false, NumWorkers: 8, MinShardCost: 1}
	if got := cfg.numShards(100, 1_000_000); got != 1 {
		t.Errorf("numShards with parallelism disabled = %d, want 1", got)
	}
}
