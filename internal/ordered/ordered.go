// Package ordered decodes JSON and YAML documents into generic values while
// keeping the declaration order of object keys.
package ordered

// Object is a JSON object that remembers the order its keys appeared in.
type Object struct {
	Keys   []string
	Values map[string]any
	// Duplicates lists keys that appeared more than once, in order of
	// their repeated occurrence.
	Duplicates []string
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{Values: make(map[string]any)}
}

// Set stores v under key. A repeated key keeps its first position, takes
// the last value and is recorded in Duplicates.
func (o *Object) Set(key string, v any) {
	if _, ok := o.Values[key]; ok {
		o.Duplicates = append(o.Duplicates, key)
	} else {
		o.Keys = append(o.Keys, key)
	}
	o.Values[key] = v
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.Values[key]
	return v, ok
}

// Len reports the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.Keys)
}

// Plain converts a decoded tree into plain map[string]any / []any values,
// dropping key order.
func Plain(v any) any {
	switch t := v.(type) {
	case *Object:
		if t == nil {
			return nil
		}
		out := make(map[string]any, len(t.Keys))
		for _, k := range t.Keys {
			out[k] = Plain(t.Values[k])
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = Plain(t[i])
		}
		return out
	default:
		return v
	}
}
