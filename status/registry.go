// Package status collects compositor counters and labels for logs and
// debug output.
package status

import (
	"maps"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// Metric keys written by the compositor
const (
	Refreshes      = "refresh.count"
	EmptyRefreshes = "refresh.empty"
	RowsEmitted    = "refresh.rows"
	RunsCoalesced  = "render.coalesced"
	JunctionsDrawn = "junction.drawn"
	ClicksHandled  = "click.handled"
	ClicksDisabled = "click.disabled"
	WriteErrors    = "grid.write_errors"
	GridCount      = "grid.count"
	LastLevel      = "refresh.last_level"
	Mode           = "grid.mode"
)

// named is a lazily grown set of values keyed by metric name
type named[T any] struct {
	mu    sync.RWMutex
	items map[string]*T
}

func (n *named[T]) get(key string) *T {
	n.mu.RLock()
	v, ok := n.items[key]
	n.mu.RUnlock()
	if ok {
		return v
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if v, ok := n.items[key]; ok {
		return v
	}
	if n.items == nil {
		n.items = make(map[string]*T)
	}
	v = new(T)
	n.items[key] = v
	return v
}

func (n *named[T]) lookup(key string) (*T, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	v, ok := n.items[key]
	return v, ok
}

func (n *named[T]) keys() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return slices.Sorted(maps.Keys(n.items))
}

// Registry holds integer counters and string labels
// The compositor writes from the UI goroutine; readers may snapshot from any goroutine.
// Callers may keep the pointers returned by Counter and Label
type Registry struct {
	counters named[atomic.Int64]
	labels   named[AtomicString]
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Counter returns the counter for key, creating it on first use
func (r *Registry) Counter(key string) *atomic.Int64 {
	return r.counters.get(key)
}

// Label returns the label for key, creating it on first use
func (r *Registry) Label(key string) *AtomicString {
	return r.labels.get(key)
}

// Value reads a counter without registering it; 0 when absent
func (r *Registry) Value(key string) int64 {
	if c, ok := r.counters.lookup(key); ok {
		return c.Load()
	}
	return 0
}

// Text reads a label without registering it; "" when absent
func (r *Registry) Text(key string) string {
	if l, ok := r.labels.lookup(key); ok {
		return l.Load()
	}
	return ""
}

// Keys lists every registered metric name in sorted order
func (r *Registry) Keys() []string {
	keys := append(r.counters.keys(), r.labels.keys()...)
	slices.Sort(keys)
	return slices.Compact(keys)
}

// Snapshot renders every metric as text, keyed by name
func (r *Registry) Snapshot() map[string]string {
	out := make(map[string]string)
	for _, k := range r.counters.keys() {
		out[k] = strconv.FormatInt(r.Value(k), 10)
	}
	for _, k := range r.labels.keys() {
		out[k] = r.Text(k)
	}
	return out
}

// Line renders the snapshot as "key=value" pairs in key order
func (r *Registry) Line() string {
	snap := r.Snapshot()
	var sb strings.Builder
	for i, k := range slices.Sorted(maps.Keys(snap)) {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(snap[k])
	}
	return sb.String()
}
