// Package parallel is the optional data-parallel backend of spec section
// 4.5: a small fork-join helper the Encoder, Recoder, and Decoder use to
// split their bulk AXPY/elimination loops across goroutines. Every caller
// guarantees that disjoint [start,end) ranges touch disjoint memory, so
// Range never needs to merge partial results — the parallel and serial
// paths compute byte-identical output by construction.
package parallel

import (
	"runtime"
	"sync"

	"github.com/klauspost/cpuid/v2"
)

// MinChunk is the smallest amount of per-goroutine work (in bytes or rows)
// judged worth the cost of forking a goroutine; below it Range runs serially.
const MinChunk = 4096

// ForceWorkers, when non-zero, overrides Workers' detected-core-count
// result. It exists so tests can pin the fork-join width (e.g. to 1 for a
// serial run, or above 1 to force a split) without depending on the test
// machine's actual core count.
var ForceWorkers int

// Workers reports how many goroutines a job of size n should be split
// across, bounded by the machine's detected logical core count the same
// way reedsolomon sizes its own codec backends from cpuid.CPU.
func Workers(n int) int {
	if n <= 0 {
		return 1
	}
	if ForceWorkers != 0 {
		return ForceWorkers
	}
	cores := cpuid.CPU.LogicalCores
	if cores < 1 {
		cores = runtime.GOMAXPROCS(0)
	}
	if cores < 1 {
		cores = 1
	}
	if w := n / MinChunk; w < cores {
		cores = w
	}
	if cores < 1 {
		cores = 1
	}
	return cores
}

// Range fans fn out over [0,n) across Workers(n) goroutines, each called
// once with a contiguous half-open sub-range, and blocks until every
// goroutine returns. With a single worker it calls fn inline.
func Range(n int, fn func(start, end int)) {
	workers := Workers(n)
	if workers <= 1 {
		fn(0, n)
		return
	}
	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
