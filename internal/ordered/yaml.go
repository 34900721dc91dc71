package ordered

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// MaxYAMLNodes bounds the number of nodes DecodeYAML produces once aliases
// are expanded.
const MaxYAMLNodes = 100_000

// ErrYAMLTooLarge is returned when alias expansion exceeds MaxYAMLNodes.
var ErrYAMLTooLarge = errors.New("ordered: YAML document expands to too many nodes")

// DecodeYAML decodes the first document of a YAML stream, keeping mapping
// key order. Integers are widened to float64 so YAML and JSON inputs decode
// to the same shapes.
func DecodeYAML(b []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		return nil, errors.New("ordered: empty YAML document")
	}
	d := &yamlDecoder{budget: MaxYAMLNodes}
	return d.fromNode(&doc)
}

type yamlDecoder struct {
	budget int
}

func (d *yamlDecoder) fromNode(n *yaml.Node) (any, error) {
	if d.budget--; d.budget < 0 {
		return nil, ErrYAMLTooLarge
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return d.fromNode(n.Content[0])
	case yaml.MappingNode:
		obj := NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("ordered: line %d: mapping key must be a scalar", k.Line)
			}
			v, err := d.fromNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj.Set(k.Value, v)
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := d.fromNode(c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, nil
		}
		return d.fromNode(n.Alias)
	case yaml.ScalarNode:
		if n.ShortTag() == "!!timestamp" {
			return n.Value, nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("ordered: line %d: %w", n.Line, err)
		}
		return widen(v), nil
	}
	return nil, fmt.Errorf("ordered: unsupported YAML node kind %d", n.Kind)
}

func widen(v any) any {
	switch t := v.(type) {
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	}
	return v
}
