package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gosimple/slug"
	"github.com/maruel/natural"
)

// maxGroupsPerPrefix limits the search for free group identifiers.
const maxGroupsPerPrefix = 200

// DefaultPrefix is used when requested prefix produces empty slug.
const DefaultPrefix = "splitflap"

// Registry associates group identifiers with groups. It is passed explicitly
// to every operation which needs group information.
// NOTE: not safe for concurrent use.
type Registry struct {
	groups map[string]*Group
}

func New() *Registry {
	return &Registry{groups: make(map[string]*Group)}
}

// Create allocates identifier "<prefix>-system<N>" with the first N not in
// use and registers a new group.
func (r *Registry) Create(prefix string, meta Metadata) (*Group, error) {
	p := slug.Make(prefix)
	if len(p) == 0 {
		p = DefaultPrefix
	}
	for n := range maxGroupsPerPrefix {
		id := fmt.Sprintf("%s-system%d", p, n)
		if _, exists := r.groups[id]; exists {
			continue
		}
		g, err := NewGroup(id, meta)
		if err != nil {
			return nil, err
		}
		g.Prefix = p
		r.groups[id] = g
		return g, nil
	}
	return nil, fmt.Errorf("%w: no free identifier for prefix %q", ErrDuplicateGroup, p)
}

// Register adds group created elsewhere, for example loaded from project
// store.
func (r *Registry) Register(g *Group) error {
	if g == nil {
		return fmt.Errorf("%w: nil group", ErrInvalidGroup)
	}
	if _, exists := r.groups[g.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateGroup, g.ID)
	}
	r.groups[g.ID] = g
	return nil
}

func (r *Registry) Get(id string) (*Group, error) {
	if g, ok := r.groups[id]; ok {
		return g, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, id)
}

func (r *Registry) Remove(id string) error {
	if _, ok := r.groups[id]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownGroup, id)
	}
	delete(r.groups, id)
	return nil
}

// List returns groups in natural order of identifiers, so system2 comes before
// system10.
func (r *Registry) List() []*Group {
	ids := make([]string, 0, len(r.groups))
	for id := range r.groups {
		ids = append(ids, id)
	}
	sort.Sort(natural.StringSlice(ids))

	out := make([]*Group, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.groups[id])
	}
	return out
}

// Lookup finds group by exact identifier or, failing that, by unique
// identifier prefix.
func (r *Registry) Lookup(name string) (*Group, error) {
	if g, ok := r.groups[name]; ok {
		return g, nil
	}
	var found *Group
	for id, g := range r.groups {
		if !strings.HasPrefix(id, name) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w: %q is ambiguous", ErrUnknownGroup, name)
		}
		found = g
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGroup, name)
	}
	return found, nil
}

func (r *Registry) Len() int {
	return len(r.groups)
}
