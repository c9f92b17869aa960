package menu

import "github.com/google/uuid"

// registryGrowStep is the capacity added each time the registry fills.
const registryGrowStep = 8

// Registry is the ordered collection of live menus. It behaves as a
// navigation stack: the most recently registered running menu is the one
// shown when a nested loop ends, and element 0 is kept running as the
// final fallback.
type Registry struct {
	menus []*Menu
}

// Register appends m.
func (r *Registry) Register(m *Menu) {
	if len(r.menus) == cap(r.menus) {
		grown := make([]*Menu, len(r.menus), len(r.menus)+registryGrowStep)
		copy(grown, r.menus)
		r.menus = grown
	}
	r.menus = append(r.menus, m)
}

// Deregister removes m and compacts the registry. If menus remain, the
// first one is marked running. It returns false when m was not registered.
func (r *Registry) Deregister(m *Menu) bool {
	for i, cur := range r.menus {
		if cur != m {
			continue
		}
		copy(r.menus[i:], r.menus[i+1:])
		r.menus[len(r.menus)-1] = nil
		r.menus = r.menus[:len(r.menus)-1]
		if len(r.menus) > 0 {
			r.menus[0].running = true
		}
		return true
	}
	return false
}

// FindByID returns the registered menu with id, or nil.
func (r *Registry) FindByID(id uuid.UUID) *Menu {
	for _, m := range r.menus {
		if m.id == id {
			return m
		}
	}
	return nil
}

// Len returns the number of registered menus.
func (r *Registry) Len() int {
	return len(r.menus)
}

// Cap returns the allocated capacity.
func (r *Registry) Cap() int {
	return cap(r.menus)
}

// At returns the menu at index i.
func (r *Registry) At(i int) *Menu {
	if i < 0 || i >= len(r.menus) {
		return nil
	}
	return r.menus[i]
}

// LastRunning returns the most recently registered running menu, or nil.
func (r *Registry) LastRunning() *Menu {
	for i := len(r.menus) - 1; i >= 0; i-- {
		if r.menus[i].running {
			return r.menus[i]
		}
	}
	return nil
}
