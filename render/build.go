package render

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/reoring/schemaform/document"
	"github.com/reoring/schemaform/fieldpath"
	"github.com/reoring/schemaform/internal/jsonvalue"
	"github.com/reoring/schemaform/schema"
)

// ErrNoSchema is returned when a Builder is created without a schema.
var ErrNoSchema = errors.New("render: no schema")

// Options tune tree construction.
type Options struct {
	// RenderAllGroups renders optional objects without waiting for
	// activation. Objects that are direct children of an array item stay
	// gated.
	RenderAllGroups bool
	Logger          *slog.Logger
}

// Builder turns schema, data and activation state into a Tree.
type Builder struct {
	res    *schema.Resolver
	opts   Options
	logger *slog.Logger
}

// NewBuilder returns a Builder over the resolver's schema.
func NewBuilder(res *schema.Resolver, opts Options) (*Builder, error) {
	if res == nil || res.Root() == nil {
		return nil, ErrNoSchema
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Builder{res: res, opts: opts, logger: logger}, nil
}

// shape is the closed classification of a property, decided once from its
// normalized node.
type shape int

const (
	shapeField shape = iota
	shapeObject
	shapeObjectArray
)

// Build regenerates the whole tree. It never fails on schema-shape
// problems: uninterpretable properties become text fields.
func (b *Builder) Build(data any, act *Activation) *Tree {
	w := &walker{
		b:        b,
		data:     data,
		act:      act,
		tree:     &Tree{Indices: newIndices()},
		expanded: make(map[string]bool),
	}
	root := b.res.Normalize(b.res.Root())
	body := &Node{Kind: KindBody, ID: "body", SchemaPath: "", Title: b.res.Title(b.res.Root(), ""), Schema: root}
	w.tree.Root = body
	if root.Kind() != schema.KindObject && len(root.Properties) == 0 {
		b.logger.Warn("schema root is not an object; form is empty", slog.String("type", root.Kind().String()))
		return w.tree
	}
	w.object(body, root, nil, "", nil, "")
	if len(w.degraded) > 0 {
		b.logger.Warn("degraded schema properties rendered as text fields",
			slog.Int("count", len(w.degraded)), slog.String("paths", strings.Join(w.degraded, ",")))
	}
	b.logger.Debug("built presentation tree",
		slog.Int("groups", len(w.tree.Groups)), slog.Int("fields", len(w.tree.FieldOrder)))
	return w.tree
}

type walker struct {
	b        *Builder
	data     any
	act      *Activation
	tree     *Tree
	expanded map[string]bool // $refs being expanded on the current branch
	degraded []string
}

// active reports whether an optional subtree at p should be shown: it was
// activated, or data already holds a non-empty value there.
func (w *walker) active(p fieldpath.Path) bool {
	if w.act.Has(p) {
		return true
	}
	v, ok := document.Get(w.data, p)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case []any:
		return len(t) > 0
	case map[string]any:
		return t != nil
	case string:
		return t != ""
	}
	return v != nil
}

func (w *walker) classify(orig, node *schema.Node) (shape, bool) {
	if !w.b.res.Resolvable(orig) {
		return shapeField, true
	}
	switch node.Kind() {
	case schema.KindArray:
		if node.Items == nil {
			return shapeField, false
		}
		items := w.b.res.Normalize(node.Items)
		if items.Kind() == schema.KindObject || len(items.Properties) > 0 || node.Items.Ref != "" {
			return shapeObjectArray, false
		}
		return shapeField, false
	case schema.KindObject:
		if len(node.Properties) > 0 {
			return shapeObject, false
		}
		return shapeField, false
	case schema.KindUnknown:
		if len(node.Properties) > 0 {
			return shapeObject, false
		}
		return shapeField, len(node.Enum) == 0
	}
	return shapeField, false
}

// object emits the properties of obj under parent.
func (w *walker) object(parent *Node, obj *schema.Node, path fieldpath.Path, ptr string, crumbs []string, group string) {
	for _, prop := range obj.Properties {
		orig := prop.Node
		node := w.b.res.Normalize(orig)
		childPath := path.Field(prop.Name)
		childPtr := ptr + "/properties/" + escapePointer(prop.Name)
		required := obj.IsRequired(prop.Name)
		title := w.b.res.Title(orig, prop.Name)

		sh, degraded := w.classify(orig, node)
		switch sh {
		case shapeObjectArray:
			if !required && !w.active(childPath) {
				parent.Children = append(parent.Children, w.placeholder(childPath, childPtr, title))
				continue
			}
			parent.Children = append(parent.Children, w.arrayGroup(orig, node, childPath, childPtr, title, required, crumbs))
		case shapeObject:
			if w.gated(orig, childPath, required) {
				parent.Children = append(parent.Children, w.placeholder(childPath, childPtr, title))
				continue
			}
			parent.Children = append(parent.Children, w.container(orig, node, childPath, childPtr, title, required, crumbs))
		default:
			if degraded {
				w.degraded = append(w.degraded, childPath.String())
			}
			parent.Children = append(parent.Children, w.field(node, childPath, childPtr, title, required, degraded, group))
		}
	}
}

// gated decides whether an object property is replaced by a placeholder.
func (w *walker) gated(orig *schema.Node, p fieldpath.Path, required bool) bool {
	if w.active(p) {
		return false
	}
	// A $ref already being expanded on this branch only renders where data
	// exists, which keeps recursive schemas finite.
	if orig.Ref != "" && w.expanded[orig.Ref] {
		return true
	}
	if required {
		return false
	}
	return !w.b.opts.RenderAllGroups || directChildOfItem(p)
}

func directChildOfItem(p fieldpath.Path) bool {
	last, ok := p.Parent().Last()
	return ok && last.IsIndex
}

func (w *walker) enter(orig *schema.Node) func() {
	ref := orig.Ref
	if ref == "" || w.expanded[ref] {
		return func() {}
	}
	w.expanded[ref] = true
	return func() { delete(w.expanded, ref) }
}

func (w *walker) container(orig, node *schema.Node, p fieldpath.Path, ptr, title string, required bool, crumbs []string) *Node {
	section := !w.hasOwnFields(node)
	n := &Node{
		Kind:        KindGroup,
		ID:          fieldpath.GroupID(p),
		Path:        p,
		SchemaPath:  ptr,
		Title:       title,
		Description: node.Description,
		Required:    required,
		Schema:      node,
	}
	if section {
		n.Kind = KindSection
		n.ID = fieldpath.SectionID(p)
	}
	crumbs = appendCrumb(crumbs, title)
	w.register(n, crumbs, section)
	defer w.enter(orig)()
	w.object(n, node, p, ptr, crumbs, n.ID)
	return n
}

func (w *walker) hasOwnFields(node *schema.Node) bool {
	for _, prop := range node.Properties {
		if sh, _ := w.classify(prop.Node, w.b.res.Normalize(prop.Node)); sh == shapeField {
			return true
		}
	}
	return false
}

func (w *walker) arrayGroup(orig, node *schema.Node, p fieldpath.Path, ptr, title string, required bool, crumbs []string) *Node {
	n := &Node{
		Kind:        KindArrayGroup,
		ID:          fieldpath.GroupID(p),
		Path:        p,
		SchemaPath:  ptr,
		Title:       title,
		Description: node.Description,
		Required:    required,
		Schema:      node,
		Action:      &Action{Command: CommandAddItem, Path: p, Label: "Add " + title},
	}
	crumbs = appendCrumb(crumbs, title)
	w.register(n, crumbs, false)
	w.tree.arrays = append(w.tree.arrays, n)

	items := w.b.res.Normalize(node.Items)
	itemsPtr := ptr + "/items"
	elems, _ := document.Get(w.data, p)
	list, _ := elems.([]any)

	defer w.enter(orig)()
	defer w.enter(node.Items)()
	for i := range list {
		itemPath := p.Index(i)
		itemTitle := fmt.Sprintf("%s %d", title, i+1)
		item := &Node{
			Kind:       KindArrayItem,
			ID:         fieldpath.ItemID(p, i),
			Path:       itemPath,
			SchemaPath: itemsPtr,
			Title:      itemTitle,
			Schema:     items,
			Action:     &Action{Command: CommandRemoveItem, Path: p, Index: i, Label: "Remove " + itemTitle},
		}
		itemCrumbs := appendCrumb(crumbs, itemTitle)
		w.register(item, itemCrumbs, false)
		w.object(item, items, itemPath, itemsPtr, itemCrumbs, item.ID)
		n.Children = append(n.Children, item)
	}
	return n
}

func (w *walker) placeholder(p fieldpath.Path, ptr, title string) *Node {
	return &Node{
		Kind:       KindPlaceholder,
		ID:         fieldpath.PlaceholderID(p),
		Path:       p,
		SchemaPath: ptr,
		Title:      "Add " + title,
		Action:     &Action{Command: CommandActivate, Path: p, Label: "Add " + title},
	}
}

func (w *walker) field(node *schema.Node, p fieldpath.Path, ptr, title string, required, degraded bool, group string) *Node {
	key := p.Pointer()
	value, _ := document.Get(w.data, p)
	ctl := &Control{
		ID:      fieldpath.FieldID(p),
		Path:    p,
		Kind:    controlKind(node, degraded),
		Value:   jsonvalue.DeepCopy(value),
		Options: node.Enum,
	}
	n := &Node{
		Kind:        KindField,
		ID:          ctl.ID,
		Path:        p,
		SchemaPath:  ptr,
		Title:       title,
		Description: node.Description,
		Required:    required,
		Degraded:    degraded,
		Schema:      node,
		Control:     ctl,
	}
	w.tree.FieldSchema[key] = node
	w.tree.FieldControl[key] = ctl
	w.tree.FieldOrder = append(w.tree.FieldOrder, key)
	if group != "" {
		w.tree.FieldGroup[key] = group
	}
	return n
}

// register records a container. Its own path maps to its own identifier so
// navigation can go from an activated path straight to the group.
func (w *walker) register(n *Node, crumbs []string, section bool) {
	w.tree.Groups[n.ID] = GroupEntry{Node: n, Breadcrumb: crumbs, Title: n.Title, IsSection: section}
	w.tree.GroupOrder = append(w.tree.GroupOrder, n.ID)
	w.tree.FieldGroup[n.Path.Pointer()] = n.ID
}

func appendCrumb(crumbs []string, title string) []string {
	out := make([]string, len(crumbs), len(crumbs)+1)
	copy(out, crumbs)
	return append(out, title)
}

func escapePointer(name string) string {
	return strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
}
