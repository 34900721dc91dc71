package schemaform_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/schemaform"
	"github.com/reoring/schemaform/schema"
)

func lookupPerson(t *testing.T) schemaform.Lookup {
	t.Helper()
	s, err := schema.Parse([]byte(`{"$id":"person","type":"object","properties":{"name":{"type":"string"}}}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return func(id string) (*schema.Schema, bool) {
		if id == "person" {
			return s, true
		}
		return nil, false
	}
}

func TestOpen_KnownSchema(t *testing.T) {
	e, err := schemaform.Open([]byte(`{"schema":"person","data":{"name":"Ann"}}`), lookupPerson(t), schemaform.NopMount{}, schemaform.Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if e.Schema().ID != "person" {
		t.Fatalf("schema: %s", e.Schema().ID)
	}
	out, err := e.Export()
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if string(out) != `{"data":{"name":"Ann"},"schema":"person"}` {
		t.Fatalf("round trip: %s", out)
	}
}

func TestOpen_UnknownSchemaInfers(t *testing.T) {
	raw := []byte(`{"schema":"gone","data":{"title":"x","count":2,"tags":["a"]}}`)
	e, err := schemaform.Open(raw, lookupPerson(t), schemaform.NopMount{}, schemaform.Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if diff := cmp.Diff([]string{"/count", "/tags", "/title"}, e.Tree().FieldOrder); diff != "" {
		t.Fatalf("inferred fields (-want +got):\n%s", diff)
	}
	out, _ := e.Export()
	if string(out) != `{"data":{"count":2,"tags":["a"],"title":"x"},"schema":"gone"}` {
		t.Fatalf("export keeps the recorded id: %s", out)
	}
}

func TestOpen_BareData(t *testing.T) {
	e, err := schemaform.Open([]byte(`{"a":true}`), nil, schemaform.NopMount{}, schemaform.Options{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := e.Tree().FieldControl["/a"]; !ok {
		t.Fatalf("inferred field missing")
	}
}

func TestOpen_NotJSON(t *testing.T) {
	raw := []byte(`| name | Ann |`)
	_, err := schemaform.Open(raw, nil, schemaform.NopMount{}, schemaform.Options{})
	var rawErr *schemaform.RawDocumentError
	if !errors.As(err, &rawErr) {
		t.Fatalf("want RawDocumentError, got %v", err)
	}
	if string(rawErr.Raw) != string(raw) {
		t.Fatalf("raw bytes not kept")
	}
}
