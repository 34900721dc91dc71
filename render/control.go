package render

import (
	"github.com/reoring/schemaform/document"
	"github.com/reoring/schemaform/fieldpath"
	"github.com/reoring/schemaform/schema"
)

// ControlKind names the widget class a field is bound to. Concrete widgets
// live in the host; the kind decides value coercion.
type ControlKind string

const (
	ControlText     ControlKind = "text"
	ControlTextarea ControlKind = "textarea"
	ControlNumber   ControlKind = "number"
	ControlCheckbox ControlKind = "checkbox"
	ControlSelect   ControlKind = "select"
	ControlEmail    ControlKind = "email"
	ControlURL      ControlKind = "url"
	ControlDate     ControlKind = "date"
	ControlDateTime ControlKind = "datetime"
	ControlList     ControlKind = "list"
)

const textareaThreshold = 256

// Control is the placeholder for a host widget bound to a field.
type Control struct {
	ID      string
	Path    fieldpath.Path
	Kind    ControlKind
	Value   any
	Options []any
}

// Coercion returns how raw values for this kind are stored.
func (k ControlKind) Coercion() document.Coercion {
	switch k {
	case ControlCheckbox:
		return document.CoerceBoolean
	case ControlNumber:
		return document.CoerceNumber
	case ControlList:
		return document.CoerceList
	}
	return document.CoerceText
}

func controlKind(n *schema.Node, degraded bool) ControlKind {
	if degraded || n == nil {
		return ControlText
	}
	switch n.Kind() {
	case schema.KindBoolean:
		return ControlCheckbox
	case schema.KindNumber, schema.KindInteger:
		return ControlNumber
	case schema.KindArray:
		return ControlList
	case schema.KindObject:
		return ControlTextarea
	}
	if len(n.Enum) > 0 {
		return ControlSelect
	}
	switch n.Format {
	case "email":
		return ControlEmail
	case "uri", "url":
		return ControlURL
	case "date":
		return ControlDate
	case "date-time":
		return ControlDateTime
	case "textarea":
		return ControlTextarea
	}
	if n.MaxLength != nil && *n.MaxLength >= textareaThreshold {
		return ControlTextarea
	}
	return ControlText
}
