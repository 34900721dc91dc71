package schema

import (
	"strings"
	"unicode"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/reoring/schemaform/fieldpath"
)

const defaultCacheSize = 4096

// Resolver answers resolution questions about nodes of one schema document.
// Results are memoized by node identity, so callers must not mutate nodes
// after handing them to a Resolver.
type Resolver struct {
	root  *Node
	deref *lru.Cache[*Node, *Node]
	norm  *lru.Cache[*Node, *Node]
}

// NewResolver returns a Resolver for s.
func NewResolver(s *Schema) *Resolver {
	deref, _ := lru.New[*Node, *Node](defaultCacheSize)
	norm, _ := lru.New[*Node, *Node](defaultCacheSize)
	return &Resolver{root: s.Root, deref: deref, norm: norm}
}

// Root returns the document root.
func (r *Resolver) Root() *Node { return r.root }

// Deref resolves a local $ref against the document root and overlays the
// node's sibling keywords on the target. Chained refs are followed until a
// ref repeats. An unresolvable ref yields the node without its $ref.
func (r *Resolver) Deref(n *Node) *Node {
	if n == nil || n.Ref == "" {
		return n
	}
	if v, ok := r.deref.Get(n); ok {
		return v
	}
	out := r.derefChain(n, map[string]bool{})
	r.deref.Add(n, out)
	return out
}

func (r *Resolver) derefChain(n *Node, seen map[string]bool) *Node {
	if n.Ref == "" {
		return n
	}
	if seen[n.Ref] {
		return stripRef(n)
	}
	seen[n.Ref] = true
	target, ok := r.Lookup(n.Ref)
	if !ok {
		return stripRef(n)
	}
	return overlay(r.derefChain(target, seen), n)
}

func stripRef(n *Node) *Node {
	out := n.clone()
	out.Ref = ""
	return out
}

// Lookup resolves a local JSON Pointer ref such as "#/$defs/Address" or
// "#/properties/a/items" against the document root.
func (r *Resolver) Lookup(ref string) (*Node, bool) {
	if !strings.HasPrefix(ref, "#") || r.root == nil {
		return nil, false
	}
	ptr := ref[1:]
	if ptr == "" {
		return r.root, true
	}
	if ptr[0] != '/' {
		return nil, false
	}
	segs := strings.Split(ptr[1:], "/")
	for i := range segs {
		segs[i] = strings.ReplaceAll(strings.ReplaceAll(segs[i], "~1", "/"), "~0", "~")
	}
	cur := r.root
	for i := 0; i < len(segs); i++ {
		switch segs[i] {
		case "properties":
			if i+1 >= len(segs) {
				return nil, false
			}
			i++
			next, ok := cur.Property(segs[i])
			if !ok {
				return nil, false
			}
			cur = next
		case "items":
			if cur.Items == nil {
				return nil, false
			}
			cur = cur.Items
		case "$defs", "definitions":
			if i+1 >= len(segs) {
				return nil, false
			}
			next, ok := cur.Defs[segs[i]+"/"+segs[i+1]]
			if !ok {
				return nil, false
			}
			i++
			cur = next
		default:
			return nil, false
		}
	}
	return cur, true
}

// At returns the normalized node that describes the data at p: names step
// into properties, indices into items.
func (r *Resolver) At(p fieldpath.Path) (*Node, bool) {
	cur := r.Normalize(r.root)
	for _, t := range p {
		if cur == nil {
			return nil, false
		}
		var next *Node
		if t.IsIndex {
			next = cur.Items
		} else {
			next, _ = cur.Property(t.Name)
		}
		if next == nil {
			return nil, false
		}
		cur = r.Normalize(next)
	}
	return cur, cur != nil
}

// Resolvable reports whether n either has no $ref or its ref resolves.
func (r *Resolver) Resolvable(n *Node) bool {
	if n == nil || n.Ref == "" {
		return true
	}
	_, ok := r.Lookup(n.Ref)
	return ok
}

// Normalize dereferences n and reduces a type union to its primary type:
// the first entry that is not "null", or the first entry when all are.
func (r *Resolver) Normalize(n *Node) *Node {
	if n == nil {
		return nil
	}
	if v, ok := r.norm.Get(n); ok {
		return v
	}
	out := r.Deref(n)
	if len(out.Types) > 1 {
		primary := out.Types[0]
		for _, t := range out.Types {
			if t != "null" {
				primary = t
				break
			}
		}
		out = out.clone()
		out.Types = []string{primary}
	}
	r.norm.Add(n, out)
	return out
}

// Nullable reports whether the (dereferenced) type union admits null.
func (r *Resolver) Nullable(n *Node) bool {
	d := r.Deref(n)
	if d == nil || len(d.Types) < 2 {
		return false
	}
	for _, t := range d.Types {
		if t == "null" {
			return true
		}
	}
	return false
}

// Title returns the node's title or a humanized form of fallbackKey.
func (r *Resolver) Title(n *Node, fallbackKey string) string {
	if nn := r.Normalize(n); nn != nil {
		if t := strings.TrimSpace(nn.Title); t != "" {
			return t
		}
	}
	return Humanize(fallbackKey)
}

// Humanize turns a property key into a label: a space before each capital
// letter, underscores as spaces, first letter upper-cased.
//
//	firstName  -> First Name
//	first_name -> First name
func Humanize(key string) string {
	b := &strings.Builder{}
	for _, c := range key {
		switch {
		case c == '_':
			b.WriteByte(' ')
		case unicode.IsUpper(c):
			b.WriteByte(' ')
			b.WriteRune(c)
		default:
			b.WriteRune(c)
		}
	}
	s := strings.TrimSpace(b.String())
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + s[size:]
}
