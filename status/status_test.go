package status

import (
	"sync"
	"testing"
)

func TestCounterCachesPointer(t *testing.T) {
	r := NewRegistry()
	a := r.Counter("x")
	b := r.Counter("x")
	if a != b {
		t.Fatal("Expected the same pointer for repeated Counter")
	}
	if r.Label("x") == nil {
		t.Fatal("Expected a label")
	}
}

func TestCounterConcurrentAdd(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				r.Counter(Refreshes).Add(1)
			}
		}()
	}
	wg.Wait()
	if got := r.Value(Refreshes); got != 800 {
		t.Errorf("Expected 800, got %d", got)
	}
}

func TestValueDoesNotRegister(t *testing.T) {
	r := NewRegistry()
	if r.Value(RowsEmitted) != 0 || r.Text(Mode) != "" {
		t.Error("Expected zero values for absent metrics")
	}
	if len(r.Keys()) != 0 {
		t.Errorf("Expected no keys, got %v", r.Keys())
	}
}

func TestKeysSorted(t *testing.T) {
	r := NewRegistry()
	r.Counter("b")
	r.Label("c")
	r.Counter("a")
	r.Label("a")

	keys := r.Keys()
	if len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "c" {
		t.Errorf("Expected sorted unique keys, got %v", keys)
	}
}

func TestSnapshotAndLine(t *testing.T) {
	r := NewRegistry()
	r.Counter(RowsEmitted).Store(42)
	r.Label(LastLevel).Store("not_valid")

	snap := r.Snapshot()
	if snap[RowsEmitted] != "42" {
		t.Errorf("rows = %q", snap[RowsEmitted])
	}
	if snap[LastLevel] != "not_valid" {
		t.Errorf("level = %q", snap[LastLevel])
	}
	if got, want := r.Line(), "refresh.last_level=not_valid refresh.rows=42"; got != want {
		t.Errorf("Line() = %q, want %q", got, want)
	}
}

func TestAtomicStringTruncates(t *testing.T) {
	var s AtomicString
	if s.Load() != "" {
		t.Error("zero value should be empty")
	}
	s.Store("abcdefghijklmnopqrstuvwxyz")
	if len(s.Load()) != MaxStringLen {
		t.Errorf("Expected %d bytes, got %q", MaxStringLen, s.Load())
	}

	// 19 ASCII bytes then a 3-byte rune: the rune does not fit
	s.Store("abcdefghijklmnopqrs┼")
	if got := s.Load(); got != "abcdefghijklmnopqrs" {
		t.Errorf("Expected cut before the rune, got %q", got)
	}
}
