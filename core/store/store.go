package store

import (
	"reflect"
	"sync"
)

// Store is a container keyed by value type.
// It is implemented by Shared and Local only.
type Store interface {
	load(key reflect.Type) (any, bool)
	swap(key reflect.Type, value any) (any, bool)
	remove(key reflect.Type) (any, bool)
	size() int
}

// Set stores value under its type, replacing any previous value of the same type.
// It returns the previous value and whether one was replaced.
func Set[T any](s Store, value T) (T, bool) {
	prev, ok := s.swap(keyOf[T](), value)
	return cast[T](prev, ok)
}

// Get returns the value stored for type T.
func Get[T any](s Store) (T, bool) {
	if s == nil {
		var zero T
		return zero, false
	}
	v, ok := s.load(keyOf[T]())
	return cast[T](v, ok)
}

// MustGet returns the value stored for type T or panics if there is none.
func MustGet[T any](s Store) T {
	v, ok := Get[T](s)
	if !ok {
		panic(ErrNotFound.Error() + ": " + keyOf[T]().String())
	}
	return v
}

// Remove deletes the value stored for type T and returns it.
func Remove[T any](s Store) (T, bool) {
	if s == nil {
		var zero T
		return zero, false
	}
	v, ok := s.remove(keyOf[T]())
	return cast[T](v, ok)
}

// Len returns the number of stored values.
func Len(s Store) int {
	if s == nil {
		return 0
	}
	return s.size()
}

func keyOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

func cast[T any](v any, ok bool) (T, bool) {
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Shared is a concurrency-safe typed store for application-wide data.
type Shared struct {
	mu     sync.RWMutex
	values map[reflect.Type]any
}

// NewShared creates an empty shared store.
func NewShared() *Shared {
	return &Shared{values: make(map[reflect.Type]any)}
}

func (s *Shared) load(key reflect.Type) (any, bool) {
	if s == nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *Shared) swap(key reflect.Type, value any) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		s.values = make(map[reflect.Type]any)
	}
	prev, ok := s.values[key]
	s.values[key] = value
	return prev, ok
}

func (s *Shared) remove(key reflect.Type) (any, bool) {
	if s == nil {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.values[key]
	delete(s.values, key)
	return prev, ok
}

func (s *Shared) size() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Local is an unsynchronized typed store owned by a single request.
type Local struct {
	values map[reflect.Type]any
}

// NewLocal creates an empty request-scoped store.
func NewLocal() *Local {
	return &Local{}
}

func (l *Local) load(key reflect.Type) (any, bool) {
	if l == nil || l.values == nil {
		return nil, false
	}
	v, ok := l.values[key]
	return v, ok
}

func (l *Local) swap(key reflect.Type, value any) (any, bool) {
	// Lazily allocated: most requests never store anything.
	if l.values == nil {
		l.values = make(map[reflect.Type]any, 4)
	}
	prev, ok := l.values[key]
	l.values[key] = value
	return prev, ok
}

func (l *Local) remove(key reflect.Type) (any, bool) {
	if l == nil || l.values == nil {
		return nil, false
	}
	prev, ok := l.values[key]
	delete(l.values, key)
	return prev, ok
}

func (l *Local) size() int {
	if l == nil {
		return 0
	}
	return len(l.values)
}
