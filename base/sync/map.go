// Package sync provides synchronized containers.
package sync

import "sync"

// Map is a generic synchronized map. It is a wrapper around Go's standard
// sync.Map, with all the same caveats.
type Map[K comparable, V any] struct {
	m sync.Map
}

// Store a key,value pair.
func (sm *Map[K, V]) Store(k K, v V) {
	sm.m.Store(k, v)
}

// Load returns the value stored for a key and true if the key is present.
// A zero value can be stored: the boolean distinguishes it from a missing key.
func (sm *Map[K, V]) Load(k K) (v V, ok bool) {
	vAny, ok := sm.m.Load(k)
	if !ok {
		return
	}
	v, _ = vAny.(V)
	return v, true
}

// Clear deletes all the pairs of the map.
func (sm *Map[K, V]) Clear() {
	sm.m.Clear()
}

