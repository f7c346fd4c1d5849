// package parallel contains the parallel ForEach() concurrency primitive.
package parallel

import "sync"

// ForEach executes a for loop with a limited number of concurrent goroutines.
// The body processes each integer from 0 to length exactly once.
func ForEach(length, limit int, body func(i int)) {
	if length <= 0 {
		return // No iterations to perform
	}
	if limit <= 0 || limit > length {
		limit = length
	}
	if limit == 1 {
		for i := 0; i < length; i++ {
			body(i)
		}
		return
	}

	var next int
	var mut sync.Mutex
	var wg sync.WaitGroup
	wg.Add(limit)

	// Worker pool: each worker pulls the next free index.
	for w := 0; w < limit; w++ {
		go func() {
			defer wg.Done()
			for {
				mut.Lock()
				i := next
				next++
				mut.Unlock()
				if i >= length {
					return
				}
				body(i)
			}
		}()
	}

	wg.Wait() // Wait for all goroutines to finish
}
