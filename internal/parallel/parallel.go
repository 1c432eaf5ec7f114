// Package parallel provides the cost-aware batch scheduler shared by the
// forward and backward resampling passes.
package parallel

import (
	"runtime"
	"sync"

	"k8s.io/klog/v2"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool  // Whether parallel execution is enabled.
	NumWorkers   int   // Number of worker goroutines to use.
	MinShardCost int64 // Minimum estimated cost per shard to amortize dispatch overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
// Cost units are roughly nanoseconds; a shard below ~10us of estimated
// work is not worth a goroutine.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinShardCost: 10_000,
	}
}

// Sequential returns a config that forces single-threaded execution.
func Sequential() Config {
	return Config{Enabled: false, NumWorkers: 1, MinShardCost: 1}
}

// For partitions [0, n) into disjoint contiguous ranges and executes
// f(start, end) for each range, possibly on separate goroutines. Every
// index is covered exactly once and For returns only after all ranges
// have completed.
//
// costPerUnit is a rough estimate of the work per index, used only to
// decide how many shards are worth creating; any partition is correct.
func For(n int, costPerUnit int64, f func(start, end int), cfg Config) {
	if n <= 0 {
		return
	}

	shards := cfg.numShards(n, costPerUnit)
	if shards <= 1 {
		f(0, n)
		return
	}
	klog.V(2).Infof("parallel.For: n=%d costPerUnit=%d shards=%d", n, costPerUnit, shards)

	var wg sync.WaitGroup
	chunkSize := (n + shards - 1) / shards
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			f(s, e)
		}(start, end)
	}
	wg.Wait()
}

// numShards caps the shard count by the worker count, by n, and by the
// number of minimum-cost shards the total estimated work can fill.
func (cfg Config) numShards(n int, costPerUnit int64) int {
	if !cfg.Enabled || cfg.NumWorkers <= 1 || n <= 1 {
		return 1
	}
	shards := min(cfg.NumWorkers, n)
	if costPerUnit < 1 {
		costPerUnit = 1
	}
	if cfg.MinShardCost > 0 {
		byCost := costPerUnit * int64(n) / cfg.MinShardCost
		if byCost < int64(shards) {
			shards = int(byCost)
		}
	}
	return max(shards, 1)
}
