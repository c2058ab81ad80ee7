package rules

import "sync"

// Signal is a synchronous publish/subscribe channel. Listeners run in
// registration order inside Dispatch, before it returns.
type Signal[T any] struct {
	mu         sync.RWMutex
	listeners  map[int]func(T)
	order      []int
	nextHandle int
}

// Add registers a listener and returns its handle. A nil listener is ignored
// and yields -1.
func (s *Signal[T]) Add(listener func(T)) int {
	if listener == nil {
		return -1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listeners == nil {
		s.listeners = make(map[int]func(T))
	}
	handle := s.nextHandle
	s.nextHandle++
	s.listeners[handle] = listener
	s.order = append(s.order, handle)
	return handle
}

// Remove unregisters the listener identified by handle.
func (s *Signal[T]) Remove(handle int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.listeners[handle]; !ok {
		return
	}
	delete(s.listeners, handle)
	for i, h := range s.order {
		if h == handle {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of registered listeners.
func (s *Signal[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Dispatch delivers value to every listener. The listener set is copied
// first, so listeners may add or remove listeners while running.
func (s *Signal[T]) Dispatch(value T) {
	s.mu.RLock()
	listeners := make([]func(T), 0, len(s.order))
	for _, h := range s.order {
		listeners = append(listeners, s.listeners[h])
	}
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(value)
	}
}
