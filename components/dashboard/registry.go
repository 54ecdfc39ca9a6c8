package dashboard

import (
	"fmt"
	"sort"
	"sync"
)

// WidgetHook lets packages register widgets during init().
type WidgetHook func(reg *WidgetRegistry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []WidgetHook
)

// RegisterWidgetHook registers a hook executed against new registries.
func RegisterWidgetHook(h WidgetHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// WidgetRegistry stores widgets by ID and serves drill path lookups.
type WidgetRegistry struct {
	mu      sync.RWMutex
	widgets map[int]Widget
	views   map[int]View
}

// NewWidgetRegistry builds an empty registry and applies global hooks.
func NewWidgetRegistry() (*WidgetRegistry, error) {
	reg := &WidgetRegistry{
		widgets: map[int]Widget{},
		views:   map[int]View{},
	}
	if err := reg.ApplyHooks(); err != nil {
		return nil, err
	}
	return reg, nil
}

// ApplyHooks executes registered widget hooks.
func (r *WidgetRegistry) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// Register stores a widget. Its config must parse.
func (r *WidgetRegistry) Register(w Widget) error {
	if w.ID <= 0 {
		return fmt.Errorf("dashboard: widget id must be positive, got %d", w.ID)
	}
	if _, err := ParseWidgetConfig(w.Config); err != nil {
		return fmt.Errorf("dashboard: register widget %d: %w", w.ID, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.widgets[w.ID] = w
	return nil
}

// RegisterView stores a view so items can resolve their model.
func (r *WidgetRegistry) RegisterView(v View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views[v.ID] = v
}

// Widget implements WidgetLookup.
func (r *WidgetRegistry) Widget(id int) (Widget, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.widgets[id]
	return w, ok
}

// View fetches a view by ID.
func (r *WidgetRegistry) View(id int) (View, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.views[id]
	return v, ok
}

// Widgets returns all registered widgets ordered by ID.
func (r *WidgetRegistry) Widgets() []Widget {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Widget, 0, len(r.widgets))
	for _, w := range r.widgets {
		out = append(out, w)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}
