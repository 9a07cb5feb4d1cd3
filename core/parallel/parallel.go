package parallel

import (
	"runtime"
	"sync"
)

// Parallelize divides the specified total number (items) according to the number of CPU cores,
// and executes the specified function (fn) in parallel for each range (start, end)
func Parallelize(items int, fn func(start, end int)) {
	if items == 0 {
		return
	}

	// Get the number of available CPU cores
	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items // No need for more workers than items
	}

	// Calculate the number of items each worker handles (ceiling division)
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup

	// Start workers equal to the number of CPU cores
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}

		// Skip if there's no range to handle
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	// Wait for all workers to finish processing
	wg.Wait()
}

// ParallelizeWithThreshold performs parallelization only when the number of items exceeds the threshold
// If below threshold, normal sequential processing is performed
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= threshold {
		// Sequential processing when below threshold
		fn(0, items)
		return
	}

	// Parallel processing when above threshold
	Parallelize(items, fn)
}

// ParallelizeStrided executes fn for indices {worker, worker+stride, worker+2*stride, ...}
// where stride equals the number of workers. Unlike Parallelize, which hands each worker
// a contiguous chunk, the round-robin assignment balances workloads whose per-item cost
// shrinks with the index, such as filling the upper triangle of a symmetric matrix where
// row i holds items-i cells.
func ParallelizeStrided(items int, fn func(index int)) {
	if items == 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(offset int) {
			defer wg.Done()
			for i := offset; i < items; i += numWorkers {
				fn(i)
			}
		}(w)
	}
	wg.Wait()
}

// ParallelizeStridedWithThreshold falls back to sequential execution when the
// number of items does not justify spawning workers
func ParallelizeStridedWithThreshold(items int, threshold int, fn func(index int)) {
	if items <= threshold {
		for i := 0; i < items; i++ {
			fn(i)
		}
		return
	}

	ParallelizeStrided(items, fn)
}
