package schemaform

import (
	"fmt"
	"log/slog"

	"github.com/reoring/schemaform/document"
	"github.com/reoring/schemaform/fieldpath"
	"github.com/reoring/schemaform/render"
	"github.com/reoring/schemaform/schema"
)

// Structural commands. Each one mutates the data document, then rebuilds
// the tree, then revalidates. A command that fails leaves data and
// activation state untouched.

// run executes mutate under the reentrancy guard and, when it succeeds,
// rebuilds and notifies listeners.
func (e *Engine) run(name string, p fieldpath.Path, mutate func() error) error {
	if e.busy {
		return ErrReentrant
	}
	err := e.guarded(func() error {
		if err := mutate(); err != nil {
			return err
		}
		e.rebuild()
		return nil
	})
	if err != nil {
		e.logger.Debug("command failed", slog.String("command", name), slog.String("path", p.String()), slog.Any("error", err))
		return err
	}
	e.logger.Debug("command", slog.String("command", name), slog.String("path", p.String()))
	e.notify()
	return nil
}

// ActivateOptional materializes the optional subtree at p: it records the
// activation, seeds a base value when nothing is there yet and, for a list
// of objects that is still empty, appends one default item.
func (e *Engine) ActivateOptional(p fieldpath.Path) error {
	return e.run("activate", p, func() error {
		node, ok := e.res.At(p)
		if !ok || p.IsRoot() {
			return fmt.Errorf("activate %q: %w", p, ErrUnknownPath)
		}
		if err := document.CheckIndices(e.data, p); err != nil {
			return fmt.Errorf("activate: %w: %w", ErrUnknownPath, err)
		}
		data := e.data
		if cur, ok := document.Get(data, p); !ok || cur == nil {
			var err error
			if data, err = document.Set(data, p, e.res.Seed(node)); err != nil {
				return fmt.Errorf("activate %q: %w", p, err)
			}
		}
		if isObjectList(e.res, node) {
			if cur, _ := document.Get(data, p); isEmptyList(cur) {
				var err error
				if data, err = document.Push(data, p, e.res.DefaultItem(node.Items)); err != nil {
					return fmt.Errorf("activate %q: %w", p, err)
				}
			}
		}
		e.data = data
		e.act.Add(p)
		return nil
	})
}

// AddArrayItem appends one default item to the list at p.
func (e *Engine) AddArrayItem(p fieldpath.Path) error {
	return e.run("add-item", p, func() error {
		node, ok := e.res.At(p)
		if !ok || node.Kind() != schema.KindArray {
			return fmt.Errorf("add item %q: %w", p, ErrUnknownPath)
		}
		if err := document.CheckIndices(e.data, p); err != nil {
			return fmt.Errorf("add item: %w: %w", ErrUnknownPath, err)
		}
		data, err := document.Push(e.data, p, e.res.DefaultItem(node.Items))
		if err != nil {
			return err
		}
		e.data = data
		return nil
	})
}

// RemoveArrayItem removes element index of the list at p. Activations under
// the removed element are dropped; those under later elements follow them.
func (e *Engine) RemoveArrayItem(p fieldpath.Path, index int) error {
	return e.run("remove-item", p, func() error {
		data, err := document.Remove(e.data, p, index)
		if err != nil {
			return err
		}
		e.data = data
		e.act.PruneUnder(p.Index(index))
		e.act.Reindex(p, func(old int) int {
			if old > index {
				return old - 1
			}
			return old
		})
		return nil
	})
}

// ReorderArrayItem moves element from of the list at p to position to. It
// is a no-op when from equals to. Activations under the moved element's old
// index are dropped; those under shifted neighbours follow them. After the
// rebuild the moved item is addressable as fieldpath.ItemID(p, to).
func (e *Engine) ReorderArrayItem(p fieldpath.Path, from, to int) error {
	if from == to {
		if e.busy {
			return ErrReentrant
		}
		return nil
	}
	return e.run("reorder-item", p, func() error {
		data, err := document.Reorder(e.data, p, from, to)
		if err != nil {
			return err
		}
		e.data = data
		e.act.PruneUnder(p.Index(from))
		e.act.Reindex(p, func(old int) int {
			switch {
			case from < to && old > from && old <= to:
				return old - 1
			case from > to && old >= to && old < from:
				return old + 1
			}
			return old
		})
		return nil
	})
}

// ResetAll replaces the data document with a fresh base document and
// forgets every activation.
func (e *Engine) ResetAll() error {
	return e.run("reset", nil, func() error {
		e.data = e.base()
		e.act.Clear()
		return nil
	})
}

// Apply dispatches an affordance taken from the tree.
func (e *Engine) Apply(a render.Action) error {
	switch a.Command {
	case render.CommandActivate:
		return e.ActivateOptional(a.Path)
	case render.CommandAddItem:
		return e.AddArrayItem(a.Path)
	case render.CommandRemoveItem:
		return e.RemoveArrayItem(a.Path, a.Index)
	}
	return fmt.Errorf("schemaform: unknown command %q", a.Command)
}

func isObjectList(res *schema.Resolver, n *schema.Node) bool {
	if n.Kind() != schema.KindArray || n.Items == nil {
		return false
	}
	items := res.Normalize(n.Items)
	return items.Kind() == schema.KindObject || len(items.Properties) > 0 || n.Items.Ref != ""
}

func isEmptyList(v any) bool {
	list, ok := v.([]any)
	return v == nil || (ok && len(list) == 0)
}
