package redraw

// Scope identifies what a pending level applies to: a grid handle or the whole screen
type Scope int

// ScopeScreen is the whole-screen pseudo scope; it always exists
const ScopeScreen Scope = 0

// Tracker keeps the highest pending level per scope between flushes
// Not safe for concurrent use; owned by the UI goroutine
type Tracker struct {
	pending map[Scope]Level
}

// NewTracker creates a tracker with only the screen scope registered
func NewTracker() *Tracker {
	return &Tracker{
		pending: map[Scope]Level{ScopeScreen: Valid},
	}
}

// Register makes scope known; an already known scope keeps its pending level
func (t *Tracker) Register(scope Scope) {
	if _, ok := t.pending[scope]; !ok {
		t.pending[scope] = Valid
	}
}

// Unregister forgets scope and anything pending on it. The screen scope cannot be removed
func (t *Tracker) Unregister(scope Scope) {
	if scope == ScopeScreen {
		return
	}
	delete(t.pending, scope)
}

// Known reports whether scope is registered
func (t *Tracker) Known(scope Scope) bool {
	_, ok := t.pending[scope]
	return ok
}

// Request raises the pending level of scope to at least level
// Returns false for an unknown scope, which is ignored
func (t *Tracker) Request(scope Scope, level Level) bool {
	cur, ok := t.pending[scope]
	if !ok {
		return false
	}
	t.pending[scope] = cur.Max(level)
	return true
}

// Peek returns the pending level without resetting it
func (t *Tracker) Peek(scope Scope) Level {
	if l, ok := t.pending[scope]; ok {
		return l
	}
	return Valid
}

// TakePending returns the merged level of scope and resets it to Valid
func (t *Tracker) TakePending(scope Scope) Level {
	l, ok := t.pending[scope]
	if !ok {
		return Valid
	}
	t.pending[scope] = Valid
	return l
}

// Scopes returns the registered grid scopes, excluding the screen
func (t *Tracker) Scopes() []Scope {
	out := make([]Scope, 0, len(t.pending))
	for s := range t.pending {
		if s != ScopeScreen {
			out = append(out, s)
		}
	}
	return out
}
