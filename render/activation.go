package render

import (
	"sort"

	"github.com/reoring/schemaform/fieldpath"
)

// Activation is the set of optional paths that were explicitly
// materialized. The command layer is its only writer.
type Activation struct {
	paths map[string]fieldpath.Path
}

// NewActivation returns an empty set.
func NewActivation() *Activation {
	return &Activation{paths: make(map[string]fieldpath.Path)}
}

// Has reports whether p was activated.
func (a *Activation) Has(p fieldpath.Path) bool {
	if a == nil {
		return false
	}
	_, ok := a.paths[p.Pointer()]
	return ok
}

// Add records p.
func (a *Activation) Add(p fieldpath.Path) {
	a.paths[p.Pointer()] = append(fieldpath.Path(nil), p...)
}

// Clear forgets every path.
func (a *Activation) Clear() {
	clear(a.paths)
}

// Len reports the number of recorded paths.
func (a *Activation) Len() int {
	if a == nil {
		return 0
	}
	return len(a.paths)
}

// Paths lists the recorded paths in dotted form, sorted.
func (a *Activation) Paths() []string {
	out := make([]string, 0, len(a.paths))
	for _, p := range a.paths {
		out = append(out, p.String())
	}
	sort.Strings(out)
	return out
}

// PruneUnder drops p and every path below it.
func (a *Activation) PruneUnder(p fieldpath.Path) {
	for k, q := range a.paths {
		if q.HasPrefix(p) {
			delete(a.paths, k)
		}
	}
}

// Reindex rewrites paths below elements of the array at arrayPath. move
// maps an old element index to its new one. Entries that should disappear
// must be pruned first.
func (a *Activation) Reindex(arrayPath fieldpath.Path, move func(old int) int) {
	depth := len(arrayPath)
	next := make(map[string]fieldpath.Path, len(a.paths))
	for k, q := range a.paths {
		if len(q) <= depth || !q.HasPrefix(arrayPath) || !q[depth].IsIndex {
			next[k] = q
			continue
		}
		moved := append(fieldpath.Path(nil), q...)
		moved[depth] = fieldpath.Index(move(q[depth].Index))
		next[moved.Pointer()] = moved
	}
	a.paths = next
}
