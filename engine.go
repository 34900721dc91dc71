package schemaform

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/reoring/schemaform/document"
	"github.com/reoring/schemaform/fieldpath"
	"github.com/reoring/schemaform/i18n"
	"github.com/reoring/schemaform/internal/jsonvalue"
	"github.com/reoring/schemaform/render"
	"github.com/reoring/schemaform/schema"
	"github.com/reoring/schemaform/validate"
)

var (
	// ErrNoSchema is returned by New when no schema is given.
	ErrNoSchema = errors.New("schemaform: no schema")
	// ErrNoMount is returned by New when no mount target is given.
	ErrNoMount = errors.New("schemaform: no mount target")
	// ErrReentrant is returned when a command or edit is invoked while
	// another one is rebuilding or validating.
	ErrReentrant = errors.New("schemaform: command invoked during rebuild")
	// ErrUnknownPath is returned when a path does not address the schema.
	ErrUnknownPath = errors.New("schemaform: path not described by schema")
	// ErrUnknownField is returned by SetFieldValue for paths without a
	// live control.
	ErrUnknownField = errors.New("schemaform: no field at path")
)

// Mount is the host target a form is attached to. Rebuilt is called after
// every rebuild and revalidation so navigation and breadcrumb consumers can
// resynchronize by group identifier.
type Mount interface {
	Rebuilt(tree *render.Tree, result *validate.Result)
}

// MountFunc adapts a function to Mount.
type MountFunc func(tree *render.Tree, result *validate.Result)

func (f MountFunc) Rebuilt(tree *render.Tree, result *validate.Result) { f(tree, result) }

// NopMount is a Mount that ignores notifications.
type NopMount struct{}

func (NopMount) Rebuilt(*render.Tree, *validate.Result) {}

// Options configure an Engine.
type Options struct {
	// RenderAllGroups renders optional objects without activation, except
	// those directly under an array item.
	RenderAllGroups bool
	// SchemaID is written into exported envelopes. Defaults to the
	// schema's own id.
	SchemaID string
	// Logger receives debug and warning records. Nil discards them.
	Logger *slog.Logger
	// Language selects validation messages ("en", "ja").
	Language string
}

// Listener receives the full data document after each successful mutation.
// The value is a copy owned by the listener.
type Listener func(data any)

// Engine keeps a schema, its data document and the derived presentation
// tree consistent. It is single-threaded: hosts must serialize calls.
type Engine struct {
	id        uuid.UUID
	logger    *slog.Logger
	schema    *schema.Schema
	schemaID  string
	res       *schema.Resolver
	builder   *render.Builder
	validator *validate.Validator
	mount     Mount

	data   any
	act    *render.Activation
	tree   *render.Tree
	result *validate.Result

	listeners  map[int]Listener
	listenerID int
	busy       bool
}

// New builds an engine for s and loads data over the schema's base
// document. data may be nil.
func New(mount Mount, s *schema.Schema, data any, opts Options) (*Engine, error) {
	if s == nil || s.Root == nil {
		return nil, ErrNoSchema
	}
	if mount == nil {
		return nil, ErrNoMount
	}
	id := uuid.New()
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger = logger.With(slog.String("engine", id.String()))

	res := schema.NewResolver(s)
	builder, err := render.NewBuilder(res, render.Options{RenderAllGroups: opts.RenderAllGroups, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("schemaform: %w", err)
	}
	schemaID := opts.SchemaID
	if schemaID == "" {
		schemaID = s.ID
	}
	e := &Engine{
		id:        id,
		logger:    logger,
		schema:    s,
		schemaID:  schemaID,
		res:       res,
		builder:   builder,
		validator: validate.New(i18n.New(opts.Language)),
		mount:     mount,
		act:       render.NewActivation(),
		listeners: make(map[int]Listener),
	}
	for _, w := range s.Diag().Warnings() {
		logger.Warn("schema warning", slog.String("detail", w))
	}
	e.data = e.load(data)
	_ = e.guarded(func() error {
		e.rebuild()
		return nil
	})
	return e, nil
}

// ID identifies the engine in log records.
func (e *Engine) ID() string { return e.id.String() }

// Schema returns the schema the engine was built for.
func (e *Engine) Schema() *schema.Schema { return e.schema }

// Data returns a copy of the current data document.
func (e *Engine) Data() any { return jsonvalue.DeepCopy(e.data) }

// Tree returns the current presentation tree. It is replaced, never
// modified, by later rebuilds. Control values reflect the data as of the
// last rebuild; SetFieldValue does not touch them.
func (e *Engine) Tree() *render.Tree { return e.tree }

// Result returns the latest validation result.
func (e *Engine) Result() *validate.Result { return e.result }

// Activated lists the activated optional paths in dotted form.
func (e *Engine) Activated() []string { return e.act.Paths() }

// OnChange registers fn and returns a function that unregisters it.
func (e *Engine) OnChange(fn Listener) (cancel func()) {
	id := e.listenerID
	e.listenerID++
	e.listeners[id] = fn
	return func() { delete(e.listeners, id) }
}

// ValidateAll recomputes every field and group error.
func (e *Engine) ValidateAll() *validate.Result {
	e.result = e.validator.All(e.tree, e.data)
	return e.result
}

// Export returns the persisted envelope in canonical JSON.
func (e *Engine) Export() ([]byte, error) {
	return document.Envelope{Schema: e.schemaID, Data: e.data}.Marshal()
}

// load merges incoming data over the base document. Anything that is not
// an object is discarded.
func (e *Engine) load(data any) any {
	base := e.base()
	m, ok := data.(map[string]any)
	if !ok || m == nil {
		if data != nil {
			e.logger.Warn("ignoring data that is not an object", slog.String("type", fmt.Sprintf("%T", data)))
		}
		return base
	}
	return document.Merge(base, jsonvalue.DeepCopy(m))
}

// Rebuild regenerates the presentation tree and revalidates without
// changing data. Two rebuilds in a row produce identical trees.
func (e *Engine) Rebuild() error {
	return e.guarded(func() error {
		e.rebuild()
		return nil
	})
}

// guarded runs fn with the reentrancy guard held. The guard is released
// even when fn panics.
func (e *Engine) guarded(fn func() error) error {
	if e.busy {
		return ErrReentrant
	}
	e.busy = true
	defer func() { e.busy = false }()
	return fn()
}

func (e *Engine) base() map[string]any {
	return e.res.BaseDocument(e.res.Root())
}

// rebuild regenerates the tree from scratch, revalidates and notifies the
// mount target.
func (e *Engine) rebuild() {
	e.tree = e.builder.Build(e.data, e.act)
	e.ValidateAll()
	e.logger.Debug("rebuilt",
		slog.Int("groups", len(e.tree.Groups)),
		slog.Int("fields", len(e.tree.FieldOrder)),
		slog.Int("errors", e.result.Total()))
	e.mount.Rebuilt(e.tree, e.result)
}

func (e *Engine) notify() {
	if len(e.listeners) == 0 {
		return
	}
	ids := make([]int, 0, len(e.listeners))
	for id := range e.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := e.listeners[id]; ok {
			fn(e.Data())
		}
	}
}

// SetFieldValue coerces raw for the control bound at p, writes it, merges
// the document over a fresh base document and revalidates that field. The
// tree is not rebuilt, so the control keeps the value it was built with.
func (e *Engine) SetFieldValue(p fieldpath.Path, raw any) error {
	err := e.guarded(func() error {
		ctl, ok := e.tree.FieldControl[p.Pointer()]
		if !ok {
			return fmt.Errorf("set %q: %w", p, ErrUnknownField)
		}
		data, err := document.Set(e.data, p, document.Coerce(ctl.Kind.Coercion(), raw))
		if err != nil {
			return err
		}
		e.data = document.Merge(e.base(), data)
		e.validator.One(e.result, e.tree, e.data, p)
		return nil
	})
	if err != nil {
		return err
	}
	e.logger.Debug("field set", slog.String("path", p.String()))
	e.notify()
	return nil
}
