package schema

import "github.com/reoring/schemaform/internal/jsonvalue"

// BaseDocument builds the default-valued document for an object node.
//
// Every scalar and array property is present: strings default to "",
// numbers to 0, booleans to false, arrays to [] (or an array default),
// enums to "". Object properties are materialized only when required;
// optional objects appear once activated. A property whose own node carries
// a $ref that is already being expanded higher up is skipped, which keeps
// self-referencing schemas finite.
func (r *Resolver) BaseDocument(n *Node) map[string]any {
	return r.baseObject(n, map[string]bool{})
}

// DefaultItem builds one new element for an array whose items schema is
// items: primitives and arrays get their defaults, nested objects are
// included only when required.
func (r *Resolver) DefaultItem(items *Node) any {
	node := r.Normalize(items)
	if node == nil {
		return nil
	}
	if node.Kind() == KindObject || (node.Kind() == KindUnknown && len(node.Properties) > 0) {
		return r.baseObject(node, map[string]bool{})
	}
	return r.scalarDefault(node)
}

// Seed returns the value written at a freshly activated path: a base
// document for objects, an empty (or default) list for arrays, the default
// for anything else.
func (r *Resolver) Seed(n *Node) any {
	node := r.Normalize(n)
	if node == nil {
		return nil
	}
	switch node.Kind() {
	case KindObject:
		return r.BaseDocument(node)
	case KindArray:
		return arrayDefault(node)
	}
	return r.scalarDefault(node)
}

func (r *Resolver) baseObject(n *Node, seen map[string]bool) map[string]any {
	obj := r.Normalize(n)
	out := make(map[string]any)
	if obj == nil {
		return out
	}
	for _, p := range obj.Properties {
		node := r.Normalize(p.Node)
		switch node.Kind() {
		case KindArray:
			out[p.Name] = arrayDefault(node)
		case KindObject:
			if !obj.IsRequired(p.Name) {
				continue
			}
			ref := p.Node.Ref
			if ref != "" {
				if seen[ref] {
					continue
				}
				seen[ref] = true
			}
			out[p.Name] = r.baseObject(node, seen)
			if ref != "" {
				delete(seen, ref)
			}
		default:
			out[p.Name] = r.scalarDefault(node)
		}
	}
	return out
}

func (r *Resolver) scalarDefault(node *Node) any {
	var zero any
	switch node.Kind() {
	case KindString:
		zero = ""
	case KindNumber, KindInteger:
		zero = float64(0)
	case KindBoolean:
		zero = false
	default:
		if len(node.Enum) > 0 {
			zero = ""
		}
	}
	if node.HasDefault && node.Default != nil {
		return jsonvalue.DeepCopy(node.Default)
	}
	return zero
}

func arrayDefault(node *Node) []any {
	if def, ok := node.Default.([]any); ok {
		return jsonvalue.DeepCopy(def).([]any)
	}
	return []any{}
}
