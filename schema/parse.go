package schema

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/reoring/schemaform/internal/ordered"
)

// InlineID is the schema id recorded for schemas that were not loaded from
// a named source.
const InlineID = "inline"

// ErrNotObject is returned when the document root is not a JSON object.
var ErrNotObject = errors.New("schema: document root must be an object")

// Schema is a parsed schema document.
type Schema struct {
	// ID names the schema in persisted envelopes.
	ID string
	// Root is the top-level node; $ref pointers resolve against it.
	Root *Node
	// Raw is the decoded document without key order, kept for linting.
	Raw any

	diag *simpleDiag
}

// Diag returns the warnings collected while parsing.
func (s *Schema) Diag() Diag {
	if s.diag == nil {
		return &simpleDiag{}
	}
	return s.diag
}

// New wraps a programmatically built root node.
func New(root *Node) *Schema {
	return &Schema{ID: InlineID, Root: root, diag: &simpleDiag{}}
}

// Parse decodes a JSON or YAML schema document. JSON is assumed when the
// first non-blank byte opens an object.
func Parse(b []byte) (*Schema, error) {
	trimmed := bytes.TrimLeft(b, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return ParseJSON(b)
	}
	return ParseYAML(b)
}

// ParseJSON decodes a JSON schema document.
func ParseJSON(b []byte) (*Schema, error) {
	v, err := ordered.DecodeJSON(b)
	if err != nil {
		return nil, fmt.Errorf("schema: invalid JSON: %w", err)
	}
	return FromValue(v)
}

// ParseYAML decodes a YAML schema document.
func ParseYAML(b []byte) (*Schema, error) {
	v, err := ordered.DecodeYAML(b)
	if err != nil {
		return nil, fmt.Errorf("schema: invalid YAML: %w", err)
	}
	return FromValue(v)
}

// FromValue builds a Schema from a tree produced by the ordered decoders.
func FromValue(v any) (*Schema, error) {
	obj, ok := v.(*ordered.Object)
	if !ok {
		return nil, ErrNotObject
	}
	d := &simpleDiag{}
	root := nodeFrom(obj, "#", d)
	s := &Schema{ID: InlineID, Root: root, Raw: ordered.Plain(obj), diag: d}
	if id, ok := obj.Values["$id"].(string); ok && id != "" {
		s.ID = id
	}
	return s, nil
}

// unsupported lists keywords accepted without effect.
var unsupported = []string{"allOf", "anyOf", "oneOf", "not", "if", "patternProperties"}

func nodeFrom(obj *ordered.Object, at string, d *simpleDiag) *Node {
	n := &Node{}
	for _, k := range obj.Duplicates {
		d.warnf("%s: duplicate key %q, the last value wins", at, k)
	}
	if props, ok := obj.Values["properties"].(*ordered.Object); ok {
		for _, k := range props.Duplicates {
			d.warnf("%s/properties: duplicate property %q, the last value wins", at, k)
		}
	}
	for _, kw := range unsupported {
		if _, ok := obj.Get(kw); ok {
			d.warnf("%s: keyword %q is not supported and was ignored", at, kw)
		}
	}
	n.Ref, _ = obj.Values["$ref"].(string)
	n.Types = typesOf(obj.Values["type"], at, d)
	n.Title, _ = obj.Values["title"].(string)
	n.Description, _ = obj.Values["description"].(string)
	n.Format, _ = obj.Values["format"].(string)
	n.Pattern, _ = obj.Values["pattern"].(string)
	if e, ok := obj.Values["enum"].([]any); ok {
		n.Enum = ordered.Plain(e).([]any)
	}
	if def, ok := obj.Get("default"); ok {
		n.Default, n.HasDefault = ordered.Plain(def), true
	}
	n.Required = requiredNames(obj.Values["required"])

	if props, ok := obj.Values["properties"].(*ordered.Object); ok {
		n.Properties = make([]Property, 0, props.Len())
		for _, k := range props.Keys {
			n.Properties = append(n.Properties, Property{Name: k, Node: subNode(props.Values[k], at+"/properties/"+k, d)})
		}
	}
	switch it := obj.Values["items"].(type) {
	case *ordered.Object, bool:
		n.Items = subNode(it, at+"/items", d)
	case []any:
		d.warnf("%s/items: tuple form is not supported; using the first entry", at)
		if len(it) > 0 {
			n.Items = subNode(it[0], at+"/items/0", d)
		}
	}
	for _, key := range []string{"$defs", "definitions"} {
		defs, ok := obj.Values[key].(*ordered.Object)
		if !ok {
			continue
		}
		if n.Defs == nil {
			n.Defs = make(map[string]*Node, defs.Len())
		}
		for _, k := range defs.Keys {
			n.Defs[key+"/"+k] = subNode(defs.Values[k], at+"/"+key+"/"+k, d)
		}
	}

	n.Minimum = floatKeyword(obj.Values["minimum"])
	n.Maximum = floatKeyword(obj.Values["maximum"])
	n.MinLength = intKeyword(obj.Values["minLength"])
	n.MaxLength = intKeyword(obj.Values["maxLength"])
	n.MinItems = intKeyword(obj.Values["minItems"])
	n.MaxItems = intKeyword(obj.Values["maxItems"])
	return n
}

// subNode accepts boolean schemas as empty nodes.
func subNode(v any, at string, d *simpleDiag) *Node {
	switch t := v.(type) {
	case *ordered.Object:
		return nodeFrom(t, at, d)
	case bool:
		return &Node{}
	}
	d.warnf("%s: expected a schema object, got %T", at, v)
	return &Node{}
}

func typesOf(v any, at string, d *simpleDiag) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	d.warnf("%s: unsupported type value %v", at, v)
	return nil
}

func requiredNames(v any) []string {
	req, ok := v.([]any)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(req))
	for _, r := range req {
		if s, ok := r.(string); ok {
			names = append(names, s)
		}
	}
	return names
}

func floatKeyword(v any) *float64 {
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	return &f
}

func intKeyword(v any) *int {
	f, ok := v.(float64)
	if !ok || f < 0 || f != math.Trunc(f) {
		return nil
	}
	i := int(f)
	return &i
}
