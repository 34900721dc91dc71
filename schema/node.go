// Package schema loads JSON Schema documents into an ordered node tree and
// resolves them for form construction: local $ref dereferencing, type-union
// normalization, display titles and default (base) documents.
package schema

import "slices"

// Kind is the primary type of a normalized node.
type Kind int

const (
	KindUnknown Kind = iota // no usable "type"
	KindString
	KindNumber
	KindInteger
	KindBoolean
	KindNull
	KindObject
	KindArray
)

var kindNames = [...]string{"", "string", "number", "integer", "boolean", "null", "object", "array"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return ""
}

// Primitive reports whether k is a scalar type.
func (k Kind) Primitive() bool {
	switch k {
	case KindString, KindNumber, KindInteger, KindBoolean, KindNull:
		return true
	}
	return false
}

// KindOf maps a JSON Schema type name to a Kind.
func KindOf(name string) Kind {
	for i, n := range kindNames {
		if i > 0 && n == name {
			return Kind(i)
		}
	}
	return KindUnknown
}

// Property is a named object member, kept in declaration order.
type Property struct {
	Name string
	Node *Node
}

// Node is one schema object. Nodes are treated as immutable once parsed;
// resolution always returns fresh copies.
type Node struct {
	Ref         string
	Types       []string
	Title       string
	Description string
	Format      string
	Pattern     string
	Enum        []any
	Default     any
	HasDefault  bool
	Required    []string
	Properties  []Property
	Items       *Node
	Defs        map[string]*Node

	Minimum   *float64
	Maximum   *float64
	MinLength *int
	MaxLength *int
	MinItems  *int
	MaxItems  *int
}

// Kind returns the kind of the first type entry. Call it on normalized nodes.
func (n *Node) Kind() Kind {
	if n == nil || len(n.Types) == 0 {
		return KindUnknown
	}
	return KindOf(n.Types[0])
}

// Property looks up a declared property.
func (n *Node) Property(name string) (*Node, bool) {
	if n == nil {
		return nil, false
	}
	for _, p := range n.Properties {
		if p.Name == name {
			return p.Node, true
		}
	}
	return nil, false
}

// IsRequired reports whether name is listed under "required".
func (n *Node) IsRequired(name string) bool {
	return n != nil && slices.Contains(n.Required, name)
}

// clone returns a shallow copy whose slices may be replaced without
// touching n.
func (n *Node) clone() *Node {
	out := *n
	return &out
}

// overlay copies every keyword set on top over a copy of base. The result
// carries no $ref.
func overlay(base, top *Node) *Node {
	out := base.clone()
	out.Ref = ""
	if len(top.Types) > 0 {
		out.Types = top.Types
	}
	if top.Title != "" {
		out.Title = top.Title
	}
	if top.Description != "" {
		out.Description = top.Description
	}
	if top.Format != "" {
		out.Format = top.Format
	}
	if top.Pattern != "" {
		out.Pattern = top.Pattern
	}
	if top.Enum != nil {
		out.Enum = top.Enum
	}
	if top.HasDefault {
		out.Default, out.HasDefault = top.Default, true
	}
	if top.Required != nil {
		out.Required = top.Required
	}
	if top.Properties != nil {
		out.Properties = top.Properties
	}
	if top.Items != nil {
		out.Items = top.Items
	}
	if top.Defs != nil {
		out.Defs = top.Defs
	}
	if top.Minimum != nil {
		out.Minimum = top.Minimum
	}
	if top.Maximum != nil {
		out.Maximum = top.Maximum
	}
	if top.MinLength != nil {
		out.MinLength = top.MinLength
	}
	if top.MaxLength != nil {
		out.MaxLength = top.MaxLength
	}
	if top.MinItems != nil {
		out.MinItems = top.MinItems
	}
	if top.MaxItems != nil {
		out.MaxItems = top.MaxItems
	}
	return out
}
