package pool

// Handler consumes task results dispatched by a pool. Handlers are
// identified by interface equality: adding an already-registered handler
// value is a no-op. Implementations must be comparable; a pointer receiver
// is the usual way to get a distinct identity.
type Handler interface {
	HandleResult(r *Result)
}

// HandlerFunc adapts a plain function into a Handler. Every call allocates
// a fresh identity, so wrapping the same function twice yields two distinct
// handlers; keep the returned value if you intend to Remove it later.
func HandlerFunc(fn func(r *Result)) Handler {
	return &funcHandler{fn: fn}
}

type funcHandler struct {
	fn func(r *Result)
}

func (h *funcHandler) HandleResult(r *Result) {
	h.fn(r)
}

// EventManager is an insertion-ordered, deduplicated set of handlers. The
// zero value is ready to use. Like the pool that owns it, it is single-owner
// state: not safe for concurrent mutation.
type EventManager struct {
	handlers []Handler
	members  map[Handler]struct{}
}

// NewEventManager returns an empty event manager.
func NewEventManager() *EventManager {
	return &EventManager{members: make(map[Handler]struct{})}
}

// Add registers h at the end of the invocation order. Adding a handler that
// is already registered, or a nil handler, is a no-op.
func (m *EventManager) Add(h Handler) {
	if h == nil {
		return
	}
	if m.members == nil {
		m.members = make(map[Handler]struct{})
	}
	if _, ok := m.members[h]; ok {
		return
	}
	m.members[h] = struct{}{}
	m.handlers = append(m.handlers, h)
}

// Remove unregisters h; unknown handlers are a no-op. The insertion order
// of the remaining handlers is preserved.
func (m *EventManager) Remove(h Handler) {
	if _, ok := m.members[h]; !ok {
		return
	}
	delete(m.members, h)
	for i, existing := range m.handlers {
		if existing == h {
			m.handlers = append(m.handlers[:i], m.handlers[i+1:]...)
			break
		}
	}
}

// Count returns the number of registered handlers.
func (m *EventManager) Count() int {
	return len(m.handlers)
}

// Invoke calls every registered handler with r, synchronously and in
// insertion order. A handler panic is not recovered: it skips the remaining
// handlers and propagates to the caller. Handlers must not add or remove
// handlers on the manager currently dispatching them.
func (m *EventManager) Invoke(r *Result) {
	for _, h := range m.handlers {
		h.HandleResult(r)
	}
}
