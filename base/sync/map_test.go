package sync_test

import (
	"testing"

	"github.com/gx-org/symeval/base/sync"
)

type value interface{ String() string }

func TestNilValue(t *testing.T) {
	var m sync.Map[int, value]
	m.Store(1, nil)
	v, ok := m.Load(1)
	if !ok {
		t.Errorf("key 1 not found")
	}
	if v != nil {
		t.Errorf("got %v but want nil", v)
	}
	if _, ok := m.Load(2); ok {
		t.Errorf("key 2 found in the map")
	}
}

func TestClear(t *testing.T) {
	var m sync.Map[string, int]
	m.Store("a", 1)
	m.Store("b", 2)
	if got, ok := m.Load("b"); !ok || got != 2 {
		t.Errorf("got %d, %t but want 2, true", got, ok)
	}
	m.Clear()
	for _, key := range []string{"a", "b"} {
		if _, ok := m.Load(key); ok {
			t.Errorf("key %q found after Clear", key)
		}
	}
}
