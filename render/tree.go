// Package render builds the presentation tree of a form from a schema, the
// current data document and the set of activated optional paths, together
// with the indices that navigation and breadcrumb consumers synchronize on.
package render

import (
	"fmt"
	"strings"

	"github.com/reoring/schemaform/fieldpath"
	"github.com/reoring/schemaform/schema"
)

// Kind classifies presentation nodes.
type Kind int

const (
	KindBody        Kind = iota // top-level container of the form
	KindField                   // bound to one control
	KindGroup                   // object with fields of its own
	KindSection                 // object holding only nested containers
	KindArrayGroup              // list of object items
	KindArrayItem               // one element of an array group
	KindPlaceholder             // inactive optional subtree
)

var kindNames = [...]string{"body", "field", "group", "section", "array-group", "array-item", "placeholder"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Command names the structural command an affordance triggers.
type Command string

const (
	CommandActivate   Command = "activate"
	CommandAddItem    Command = "add-item"
	CommandRemoveItem Command = "remove-item"
)

// Action is an affordance attached to a node. Hosts turn it into a call on
// the engine; the tree itself is never edited in response.
type Action struct {
	Command Command
	Path    fieldpath.Path
	Index   int
	Label   string
}

// Node is one element of the presentation tree.
type Node struct {
	Kind        Kind
	ID          string
	Path        fieldpath.Path
	SchemaPath  string
	Title       string
	Description string
	Required    bool
	// Degraded marks fields built from a schema node that could not be
	// interpreted (unresolved $ref, missing type).
	Degraded bool
	Schema   *schema.Node
	Control  *Control
	Action   *Action
	Children []*Node
}

// GroupEntry is the registry record of a container node.
type GroupEntry struct {
	Node       *Node
	Breadcrumb []string
	Title      string
	IsSection  bool
}

// Indices are rebuilt from scratch on every build.
type Indices struct {
	// Groups maps container identifiers to their registry entry.
	Groups map[string]GroupEntry
	// GroupOrder lists group identifiers in document order.
	GroupOrder []string
	// The field maps below are keyed by the JSON Pointer of the path
	// (fieldpath.Path.Pointer), which stays unambiguous for property names
	// holding dots, brackets or digits only.

	// FieldSchema maps field pointers to their normalized schema.
	FieldSchema map[string]*schema.Node
	// FieldControl maps field pointers to their control.
	FieldControl map[string]*Control
	// FieldGroup maps field pointers to the identifier of the group that
	// owns them, and container pointers to their own identifier.
	// Top-level fields have no entry.
	FieldGroup map[string]string
	// FieldOrder lists field pointers in document order.
	FieldOrder []string
}

func newIndices() Indices {
	return Indices{
		Groups:       make(map[string]GroupEntry),
		FieldSchema:  make(map[string]*schema.Node),
		FieldControl: make(map[string]*Control),
		FieldGroup:   make(map[string]string),
	}
}

// Tree is a built presentation tree.
type Tree struct {
	Root *Node
	Indices

	arrays []*Node
}

// ArrayGroups returns the array-group nodes in document order.
func (t *Tree) ArrayGroups() []*Node { return t.arrays }

// Group returns the registry entry for id.
func (t *Tree) Group(id string) (GroupEntry, bool) {
	g, ok := t.Groups[id]
	return g, ok
}

// Find returns the first node with the given identifier.
func (t *Tree) Find(id string) (*Node, bool) {
	var found *Node
	t.Walk(func(n *Node, _ int) bool {
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found, found != nil
}

// Walk visits nodes depth-first in document order. Returning false from fn
// stops the walk.
func (t *Tree) Walk(fn func(n *Node, depth int) bool) {
	if t == nil || t.Root == nil {
		return
	}
	walk(t.Root, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) bool {
	if !fn(n, depth) {
		return false
	}
	for _, c := range n.Children {
		if !walk(c, depth+1, fn) {
			return false
		}
	}
	return true
}

// Outline renders one line per node: indentation, kind, identifier and
// title. Two trees with equal outlines have the same structure.
func (t *Tree) Outline() []string {
	var lines []string
	t.Walk(func(n *Node, depth int) bool {
		line := fmt.Sprintf("%s%s %s %q", strings.Repeat("  ", depth), n.Kind, n.ID, n.Title)
		if n.Required {
			line += " required"
		}
		lines = append(lines, line)
		return true
	})
	return lines
}
