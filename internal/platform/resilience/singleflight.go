package resilience

import "sync"

// Flight collapses concurrent calls that share a key into one execution. Callers that
// joined an in-flight call receive its result with shared set.
type Flight[T any] struct {
	mu      sync.Mutex
	pending map[string]*flightCall[T]
}

type flightCall[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func (f *Flight[T]) Do(key string, fn func() (T, error)) (value T, shared bool, err error) {
	f.mu.Lock()
	if f.pending == nil {
		f.pending = make(map[string]*flightCall[T])
	}
	if c, ok := f.pending[key]; ok {
		f.mu.Unlock()
		<-c.done
		return c.value, true, c.err
	}

	c := &flightCall[T]{done: make(chan struct{})}
	f.pending[key] = c
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		delete(f.pending, key)
		f.mu.Unlock()
		close(c.done)
	}()

	c.value, c.err = fn()
	return c.value, false, c.err
}

// InFlight reports whether a call for key is running.
func (f *Flight[T]) InFlight(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.pending[key]
	return ok
}
