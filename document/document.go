// Package document implements the data model behind a form: nested reads
// and writes by path, structure-preserving merges, array mutations and the
// persisted envelope.
//
// Documents are generic JSON trees (map[string]any, []any, string, float64,
// bool, nil). Functions that may need to replace the root return the new
// root; callers must use it instead of the old value.
package document

import (
	"errors"
	"fmt"

	"github.com/reoring/schemaform/fieldpath"
)

var (
	// ErrNotArray is returned when an array operation targets a non-array.
	ErrNotArray = errors.New("document: value is not an array")
	// ErrIndexOutOfRange is returned for indices outside the array.
	ErrIndexOutOfRange = errors.New("document: index out of range")
)

// Get returns the value at p. It reports false as soon as an intermediate
// is missing or cannot be indexed by the next token.
func Get(root any, p fieldpath.Path) (any, bool) {
	cur := root
	for _, t := range p {
		if t.IsIndex {
			arr, ok := cur.([]any)
			if !ok || t.Index < 0 || t.Index >= len(arr) {
				return nil, false
			}
			cur = arr[t.Index]
			continue
		}
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[t.Name]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Set writes v at p, creating intermediates on the way: an index token makes
// its container a list, a name token makes it an object. An intermediate of
// the wrong shape is replaced. Lists are padded with nulls up to the index.
// A negative index fails with ErrIndexOutOfRange and root is returned as is.
func Set(root any, p fieldpath.Path, v any) (any, error) {
	for _, t := range p {
		if t.IsIndex && t.Index < 0 {
			return root, fmt.Errorf("set %q: %w", p, ErrIndexOutOfRange)
		}
	}
	return setIn(root, p, v), nil
}

func setIn(container any, p fieldpath.Path, v any) any {
	if len(p) == 0 {
		return v
	}
	t := p[0]
	if t.IsIndex {
		arr, _ := container.([]any)
		for len(arr) <= t.Index {
			arr = append(arr, nil)
		}
		arr[t.Index] = setIn(arr[t.Index], p[1:], v)
		return arr
	}
	m, ok := container.(map[string]any)
	if !ok || m == nil {
		m = make(map[string]any)
	}
	m[t.Name] = setIn(m[t.Name], p[1:], v)
	return m
}

// CheckIndices reports whether every index token of p names an element that
// already exists. Missing objects along the way are fine since Set creates
// them; a missing or short list is not.
func CheckIndices(root any, p fieldpath.Path) error {
	cur, present := root, true
	for i, t := range p {
		if !t.IsIndex {
			m, ok := cur.(map[string]any)
			if !present || !ok {
				cur, present = nil, false
				continue
			}
			cur, present = m[t.Name]
			continue
		}
		arr, _ := cur.([]any)
		if !present || t.Index < 0 || t.Index >= len(arr) {
			return fmt.Errorf("%q: %w", p[:i+1], ErrIndexOutOfRange)
		}
		cur = arr[t.Index]
	}
	return nil
}

// Merge overlays incoming on base. Keys of base take the incoming value when
// present, recursing only when both sides are objects; keys that exist only
// in incoming are kept. Arrays are replaced wholesale. The returned tree
// has fresh maps wherever both sides were objects and otherwise shares
// values with its inputs.
func Merge(base, incoming any) any {
	bm, bok := base.(map[string]any)
	im, iok := incoming.(map[string]any)
	if !bok || !iok || bm == nil || im == nil {
		return incoming
	}
	out := make(map[string]any, len(bm)+len(im))
	for k, bv := range bm {
		iv, ok := im[k]
		if !ok {
			out[k] = bv
			continue
		}
		out[k] = Merge(bv, iv)
	}
	for k, iv := range im {
		if _, ok := bm[k]; !ok {
			out[k] = iv
		}
	}
	return out
}

// Push appends item to the list at p, creating a one-element list when
// nothing (or null) is there yet.
func Push(root any, p fieldpath.Path, item any) (any, error) {
	cur, ok := Get(root, p)
	if !ok || cur == nil {
		return Set(root, p, []any{item})
	}
	arr, ok := cur.([]any)
	if !ok {
		return root, fmt.Errorf("push %q: %w", p, ErrNotArray)
	}
	return Set(root, p, append(arr[:len(arr):len(arr)], item))
}

// Remove deletes the element at index of the list at p.
func Remove(root any, p fieldpath.Path, index int) (any, error) {
	arr, err := arrayAt(root, p)
	if err != nil {
		return root, fmt.Errorf("remove %q: %w", p, err)
	}
	if index < 0 || index >= len(arr) {
		return root, fmt.Errorf("remove %q[%d]: %w", p, index, ErrIndexOutOfRange)
	}
	out := make([]any, 0, len(arr)-1)
	out = append(out, arr[:index]...)
	out = append(out, arr[index+1:]...)
	return Set(root, p, out)
}

// Reorder moves the element at from to position to, keeping the relative
// order of all other elements.
func Reorder(root any, p fieldpath.Path, from, to int) (any, error) {
	arr, err := arrayAt(root, p)
	if err != nil {
		return root, fmt.Errorf("reorder %q: %w", p, err)
	}
	if from < 0 || from >= len(arr) || to < 0 || to >= len(arr) {
		return root, fmt.Errorf("reorder %q %d->%d: %w", p, from, to, ErrIndexOutOfRange)
	}
	if from == to {
		return root, nil
	}
	moved := arr[from]
	rest := make([]any, 0, len(arr))
	rest = append(rest, arr[:from]...)
	rest = append(rest, arr[from+1:]...)
	out := make([]any, 0, len(arr))
	out = append(out, rest[:to]...)
	out = append(out, moved)
	out = append(out, rest[to:]...)
	return Set(root, p, out)
}

func arrayAt(root any, p fieldpath.Path) ([]any, error) {
	cur, ok := Get(root, p)
	if !ok {
		return nil, ErrNotArray
	}
	arr, ok := cur.([]any)
	if !ok {
		return nil, ErrNotArray
	}
	return arr, nil
}
