package schema

import (
	"math"
	"sort"
)

// Infer derives an object schema from the shape of a data document. Object
// keys are emitted in sorted order. It is the fallback used when a
// persisted document names a schema that cannot be found.
func Infer(data any) *Schema {
	root := inferNode(data)
	if root.Kind() != KindObject {
		root = &Node{Types: []string{"object"}}
	}
	return New(root)
}

func inferNode(v any) *Node {
	switch t := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		n := &Node{Types: []string{"object"}, Properties: make([]Property, 0, len(keys))}
		for _, k := range keys {
			n.Properties = append(n.Properties, Property{Name: k, Node: inferNode(t[k])})
		}
		return n
	case []any:
		items := &Node{Types: []string{"string"}}
		if len(t) > 0 {
			items = inferNode(t[0])
		}
		return &Node{Types: []string{"array"}, Items: items}
	case float64:
		if t == math.Trunc(t) && !math.IsInf(t, 0) {
			return &Node{Types: []string{"integer"}}
		}
		return &Node{Types: []string{"number"}}
	case bool:
		return &Node{Types: []string{"boolean"}}
	}
	return &Node{Types: []string{"string"}}
}
