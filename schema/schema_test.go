package schema_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/schemaform/fieldpath"
	"github.com/reoring/schemaform/schema"
)

func mustParse(t *testing.T, src string) *schema.Schema {
	t.Helper()
	s, err := schema.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return s
}

func TestParse_DeclarationOrder(t *testing.T) {
	s := mustParse(t, `{"type":"object","properties":{"zeta":{"type":"string"},"alpha":{"type":"number"},"mid":{"type":"boolean"}}}`)
	var names []string
	for _, p := range s.Root.Properties {
		names = append(names, p.Name)
	}
	if diff := cmp.Diff([]string{"zeta", "alpha", "mid"}, names); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_YAML(t *testing.T) {
	s := mustParse(t, "$id: person\ntype: object\nrequired: [name]\nproperties:\n  name:\n    type: string\n    minLength: 2\n")
	if s.ID != "person" {
		t.Fatalf("id: %q", s.ID)
	}
	name, ok := s.Root.Property("name")
	if !ok || name.MinLength == nil || *name.MinLength != 2 {
		t.Fatalf("minLength not parsed: %+v", name)
	}
	if !s.Root.IsRequired("name") {
		t.Fatalf("name should be required")
	}
}

func TestParse_RejectsNonObject(t *testing.T) {
	if _, err := schema.Parse([]byte(`[1,2]`)); err == nil {
		t.Fatalf("expected error")
	}
}

func TestParse_UnsupportedKeywordsWarn(t *testing.T) {
	s := mustParse(t, `{"type":"object","properties":{"a":{"oneOf":[{"type":"string"}]}}}`)
	if !s.Diag().HasWarnings() {
		t.Fatalf("expected a warning for oneOf")
	}
}

func TestDeref_SiblingsWin(t *testing.T) {
	s := mustParse(t, `{
		"type":"object",
		"$defs":{"Addr":{"type":"object","title":"Address","properties":{"city":{"type":"string"}}}},
		"properties":{"home":{"$ref":"#/$defs/Addr","title":"Home"}}
	}`)
	r := schema.NewResolver(s)
	home, _ := s.Root.Property("home")
	d := r.Deref(home)
	if d.Ref != "" || d.Title != "Home" || d.Kind() != schema.KindObject {
		t.Fatalf("unexpected deref result: %+v", d)
	}
	if _, ok := d.Property("city"); !ok {
		t.Fatalf("target properties lost")
	}
	if r.Deref(home) != d {
		t.Fatalf("deref should be memoized by node identity")
	}
	if home.Ref == "" {
		t.Fatalf("deref must not mutate its input")
	}
}

func TestDeref_Unresolvable(t *testing.T) {
	s := mustParse(t, `{"type":"object","properties":{"x":{"$ref":"#/$defs/Missing","title":"X"}}}`)
	r := schema.NewResolver(s)
	x, _ := s.Root.Property("x")
	d := r.Deref(x)
	if d.Ref != "" || d.Title != "X" {
		t.Fatalf("expected the node without its $ref, got %+v", d)
	}
	if r.Resolvable(x) {
		t.Fatalf("ref should be reported unresolvable")
	}
}

func TestDeref_PointerIntoProperties(t *testing.T) {
	s := mustParse(t, `{"type":"object","properties":{"a":{"type":"integer","minimum":1},"b":{"$ref":"#/properties/a"}}}`)
	r := schema.NewResolver(s)
	b, _ := s.Root.Property("b")
	d := r.Normalize(b)
	if d.Kind() != schema.KindInteger || d.Minimum == nil || *d.Minimum != 1 {
		t.Fatalf("unexpected: %+v", d)
	}
}

func TestDeref_ChainedCycleTerminates(t *testing.T) {
	s := mustParse(t, `{"type":"object","$defs":{"A":{"$ref":"#/$defs/B"},"B":{"$ref":"#/$defs/A"}},"properties":{"x":{"$ref":"#/$defs/A"}}}`)
	r := schema.NewResolver(s)
	x, _ := s.Root.Property("x")
	if d := r.Deref(x); d == nil || d.Ref != "" {
		t.Fatalf("cycle should resolve to a ref-free node, got %+v", d)
	}
}

func TestNormalize_TypeUnion(t *testing.T) {
	s := mustParse(t, `{"type":"object","properties":{"a":{"type":["null","string"]},"b":{"type":["null"]},"c":{"type":["integer","string"]}}}`)
	r := schema.NewResolver(s)
	want := map[string]schema.Kind{"a": schema.KindString, "b": schema.KindNull, "c": schema.KindInteger}
	for name, k := range want {
		n, _ := s.Root.Property(name)
		if got := r.Normalize(n).Kind(); got != k {
			t.Fatalf("%s: want %v got %v", name, k, got)
		}
	}
	a, _ := s.Root.Property("a")
	if !r.Nullable(a) {
		t.Fatalf("a should be nullable")
	}
}

func TestTitle(t *testing.T) {
	s := mustParse(t, `{"type":"object","properties":{"firstName":{"type":"string"},"x":{"type":"string","title":"  "},"y":{"type":"string","title":"Why"}}}`)
	r := schema.NewResolver(s)
	cases := map[string]string{"firstName": "First Name", "x": "X", "y": "Why"}
	for key, want := range cases {
		n, _ := s.Root.Property(key)
		if got := r.Title(n, key); got != want {
			t.Fatalf("%s: want %q got %q", key, want, got)
		}
	}
	if got := schema.Humanize("first_name"); got != "First name" {
		t.Fatalf("Humanize: %q", got)
	}
}

func TestBaseDocument_Scenario(t *testing.T) {
	s := mustParse(t, `{"type":"object","required":["name"],"properties":{"name":{"type":"string"},"tags":{"type":"array","items":{"type":"string"}}}}`)
	got := schema.NewResolver(s).BaseDocument(s.Root)
	want := map[string]any{"name": "", "tags": []any{}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("base document mismatch (-want +got):\n%s", diff)
	}
}

func TestBaseDocument_DefaultsAndObjects(t *testing.T) {
	s := mustParse(t, `{
		"type":"object",
		"required":["meta"],
		"properties":{
			"count":{"type":"integer","default":5},
			"ratio":{"type":"number"},
			"on":{"type":"boolean"},
			"color":{"enum":["red","blue"]},
			"list":{"type":"array","default":["a"]},
			"opt":{"type":"object","properties":{"x":{"type":"string"}}},
			"meta":{"type":"object","properties":{"tags":{"type":"array"},"note":{"type":["null","string"],"default":"n"}}},
			"any":{}
		}
	}`)
	got := schema.NewResolver(s).BaseDocument(s.Root)
	want := map[string]any{
		"count": float64(5),
		"ratio": float64(0),
		"on":    false,
		"color": "",
		"list":  []any{"a"},
		"meta":  map[string]any{"tags": []any{}, "note": "n"},
		"any":   nil,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("base document mismatch (-want +got):\n%s", diff)
	}
}

func TestBaseDocument_OptionalArraysAlwaysPresent(t *testing.T) {
	s := mustParse(t, `{"type":"object","properties":{"a":{"type":"array","items":{"type":"object","properties":{"x":{"type":"string"}}}},"b":{"type":["array","null"]}}}`)
	got := schema.NewResolver(s).BaseDocument(s.Root)
	for _, k := range []string{"a", "b"} {
		arr, ok := got[k].([]any)
		if !ok || len(arr) != 0 {
			t.Fatalf("%s: expected [], got %#v", k, got[k])
		}
	}
}

func TestBaseDocument_RequiredSelfReferenceTerminates(t *testing.T) {
	s := mustParse(t, `{
		"type":"object",
		"required":["node"],
		"$defs":{"Node":{"type":"object","required":["child"],"properties":{"label":{"type":"string"},"child":{"$ref":"#/$defs/Node"}}}},
		"properties":{"node":{"$ref":"#/$defs/Node"}}
	}`)
	got := schema.NewResolver(s).BaseDocument(s.Root)
	want := map[string]any{"node": map[string]any{"label": ""}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("base document mismatch (-want +got):\n%s", diff)
	}
}

func TestBaseDocument_DefaultsAreCopied(t *testing.T) {
	s := mustParse(t, `{"type":"object","properties":{"list":{"type":"array","default":["a"]}}}`)
	r := schema.NewResolver(s)
	first := r.BaseDocument(s.Root)
	first["list"] = append(first["list"].([]any), "b")
	first["list"].([]any)[0] = "z"
	second := r.BaseDocument(s.Root)
	if diff := cmp.Diff([]any{"a"}, second["list"]); diff != "" {
		t.Fatalf("schema default was mutated (-want +got):\n%s", diff)
	}
}

func TestDefaultItem_OmitsOptionalObjects(t *testing.T) {
	s := mustParse(t, `{"type":"object","properties":{"items":{"type":"array","items":{
		"type":"object","required":["dims"],
		"properties":{"id":{"type":"string"},"qty":{"type":"integer"},"tags":{"type":"array"},
			"dims":{"type":"object","properties":{"w":{"type":"number"}}},
			"extra":{"type":"object","properties":{"z":{"type":"string"}}}}}}}}`)
	r := schema.NewResolver(s)
	items, _ := s.Root.Property("items")
	got := r.DefaultItem(r.Normalize(items).Items)
	want := map[string]any{"id": "", "qty": float64(0), "tags": []any{}, "dims": map[string]any{"w": float64(0)}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("default item mismatch (-want +got):\n%s", diff)
	}
}

func TestSeed(t *testing.T) {
	s := mustParse(t, `{"type":"object","properties":{"address":{"type":"object","properties":{"city":{"type":"string"}}},"list":{"type":"array"},"n":{"type":"number","default":2}}}`)
	r := schema.NewResolver(s)
	cases := map[string]any{
		"address": map[string]any{"city": ""},
		"list":    []any{},
		"n":       float64(2),
	}
	for name, want := range cases {
		n, _ := s.Root.Property(name)
		if diff := cmp.Diff(want, r.Seed(n)); diff != "" {
			t.Fatalf("%s (-want +got):\n%s", name, diff)
		}
	}
}

func TestInfer(t *testing.T) {
	s := schema.Infer(map[string]any{"b": 1.5, "a": "x", "n": float64(3), "on": true, "list": []any{map[string]any{"k": "v"}}})
	var names []string
	for _, p := range s.Root.Properties {
		names = append(names, p.Name+":"+p.Node.Kind().String())
	}
	want := []string{"a:string", "b:number", "list:array", "n:integer", "on:boolean"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("inferred properties (-want +got):\n%s", diff)
	}
	list, _ := s.Root.Property("list")
	if list.Items.Kind() != schema.KindObject {
		t.Fatalf("list items should be objects")
	}
}

func TestLint(t *testing.T) {
	ok := mustParse(t, `{"type":"object","properties":{"a":{"type":"string"}}}`)
	if d := ok.Lint(); d.HasWarnings() {
		t.Fatalf("unexpected warnings: %v", d.Warnings())
	}
	bad := mustParse(t, `{"type":"object","properties":{"a":{"type":"strng"}}}`)
	if d := bad.Lint(); !d.HasWarnings() {
		t.Fatalf("expected a meta-schema warning")
	}
}

func TestResolver_At(t *testing.T) {
	s := mustParse(t, `{"type":"object","properties":{
		"jobs":{"type":"array","items":{"$ref":"#/$defs/Job"}}
	},"$defs":{"Job":{"type":"object","properties":{"title":{"type":["null","string"]}}}}}`)
	r := schema.NewResolver(s)
	n, ok := r.At(fieldpath.MustParse("jobs[3].title"))
	if !ok || n.Kind() != schema.KindString {
		t.Fatalf("At: %+v %v", n, ok)
	}
	if _, ok := r.At(fieldpath.MustParse("jobs[0].missing")); ok {
		t.Fatalf("unknown property should not resolve")
	}
	if root, ok := r.At(nil); !ok || root.Kind() != schema.KindObject {
		t.Fatalf("root: %+v", root)
	}
}

func TestParse_DuplicatePropertyWarns(t *testing.T) {
	s := mustParse(t, `{"type":"object","properties":{"a":{"type":"string"},"a":{"type":"number"}}}`)
	if !s.Diag().HasWarnings() {
		t.Fatalf("expected a duplicate warning")
	}
	a, _ := s.Root.Property("a")
	if a.Kind() != schema.KindNumber {
		t.Fatalf("last value should win: %v", a.Kind())
	}
	if len(s.Root.Properties) != 1 {
		t.Fatalf("properties: %d", len(s.Root.Properties))
	}
}
