package pipe

import (
	"sync"
)

// Indexed carries a value together with its position in the original input.
type Indexed[T any] struct {
	Index int
	Value T
}

// Streams a slice, tagging every value with its index
func Generate[T any](done <-chan struct{}, vs []T) <-chan Indexed[T] {
	out := make(chan Indexed[T])

	go func() {
		defer close(out)

		for i, v := range vs {
			select {
			case <-done:
				return
			case out <- Indexed[T]{Index: i, Value: v}:
			}
		}
	}()

	return out
}

// Ensures that the goroutine is finished on done being closed
func OrDone[T any](done <-chan struct{}, c <-chan T) <-chan T {
	stream := make(chan T)

	go func() {
		defer close(stream)

		for {
			select {
			case <-done:
				return
			case v, ok := <-c:
				if !ok {
					return
				}
				select {
				case stream <- v:
				case <-done:
				}
			}
		}
	}()

	return stream
}

// Maps from channel of type A to a channel of type B concurrently, output
// order is not preserved
func ConcurrentMap[A, B any](done <-chan struct{}, coroutines int, in <-chan A, mapper func(A) B) <-chan B {
	if coroutines <= 0 {
		coroutines = 1
	}

	out := make(chan B, coroutines)

	var wg sync.WaitGroup
	wg.Add(coroutines)
	for i := 0; i < coroutines; i++ {
		go func() {
			defer wg.Done()

			for val := range OrDone(done, in) {
				select {
				case <-done:
					return
				case out <- mapper(val):
				}
			}
		}()
	}

	go func() {
		defer close(out)
		wg.Wait()
	}()

	return out
}

// Collects n indexed values back into their original order. It reports false
// when done is closed or in runs dry before all n values arrived.
func CollectIndexed[T any](done <-chan struct{}, n int, in <-chan Indexed[T]) ([]T, bool) {
	out := make([]T, n)
	seen := 0

	for v := range OrDone(done, in) {
		if v.Index < 0 || v.Index >= n {
			continue
		}
		out[v.Index] = v.Value
		seen++
	}

	if seen != n {
		return nil, false
	}

	return out, true
}
