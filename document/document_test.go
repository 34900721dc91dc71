package document_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/schemaform/document"
	"github.com/reoring/schemaform/fieldpath"
)

var p = fieldpath.MustParse

func TestGet(t *testing.T) {
	doc := map[string]any{"a": map[string]any{"b": []any{"x", map[string]any{"c": 1.0}}}}
	if v, ok := document.Get(doc, p("a.b[1].c")); !ok || v != 1.0 {
		t.Fatalf("got %v %v", v, ok)
	}
	for _, miss := range []string{"a.z", "a.b[5]", "a.b[0].c", "a.b.c", "q[0]"} {
		if _, ok := document.Get(doc, p(miss)); ok {
			t.Fatalf("%s should be missing", miss)
		}
	}
	if v, ok := document.Get(doc, nil); !ok || v == nil {
		t.Fatalf("root lookup failed")
	}
}

func mustSet(t *testing.T, root any, path string, v any) any {
	t.Helper()
	out, err := document.Set(root, p(path), v)
	if err != nil {
		t.Fatalf("set %s: %v", path, err)
	}
	return out
}

func TestSet_CreatesIntermediates(t *testing.T) {
	var root any = map[string]any{}
	root = mustSet(t, root, "a.b[2].c", "v")
	want := map[string]any{"a": map[string]any{"b": []any{nil, nil, map[string]any{"c": "v"}}}}
	if diff := cmp.Diff(want, root); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestSet_ReplacesWrongShape(t *testing.T) {
	var root any = map[string]any{"a": "scalar", "l": map[string]any{"x": 1.0}}
	root = mustSet(t, root, "a.b", true)
	root = mustSet(t, root, "l[0]", "first")
	want := map[string]any{"a": map[string]any{"b": true}, "l": []any{"first"}}
	if diff := cmp.Diff(want, root); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestSet_RejectsNegativeIndex(t *testing.T) {
	root := map[string]any{"jobs": []any{}}
	bad := fieldpath.Path{fieldpath.Name("jobs"), fieldpath.Index(-1), fieldpath.Name("meta")}
	got, err := document.Set(root, bad, "x")
	if !errors.Is(err, document.ErrIndexOutOfRange) {
		t.Fatalf("want ErrIndexOutOfRange, got %v", err)
	}
	if _, err := document.Push(root, bad, "x"); !errors.Is(err, document.ErrIndexOutOfRange) {
		t.Fatalf("push: want ErrIndexOutOfRange, got %v", err)
	}
	if diff := cmp.Diff(map[string]any{"jobs": []any{}}, got); diff != "" {
		t.Fatalf("document changed (-want +got):\n%s", diff)
	}
}

func TestCheckIndices(t *testing.T) {
	doc := map[string]any{"jobs": []any{map[string]any{"title": "a"}}, "s": "scalar"}
	for _, ok := range []string{"jobs[0].meta", "jobs[0].title", "missing.deep.x", "jobs"} {
		if err := document.CheckIndices(doc, p(ok)); err != nil {
			t.Fatalf("%s: unexpected error %v", ok, err)
		}
	}
	for _, bad := range []string{"jobs[1].meta", "jobs[3]", "missing[0]", "s[0]", "missing.list[0].x"} {
		if err := document.CheckIndices(doc, p(bad)); !errors.Is(err, document.ErrIndexOutOfRange) {
			t.Fatalf("%s: want ErrIndexOutOfRange, got %v", bad, err)
		}
	}
	neg := fieldpath.Path{fieldpath.Name("jobs"), fieldpath.Index(-1)}
	if err := document.CheckIndices(doc, neg); !errors.Is(err, document.ErrIndexOutOfRange) {
		t.Fatalf("negative index: %v", err)
	}
}

func TestMerge_PreservesIncomingOnlyKeys(t *testing.T) {
	base := map[string]any{"name": "", "tags": []any{}, "nested": map[string]any{"a": "", "b": 0.0}}
	incoming := map[string]any{
		"name":    "Ada",
		"tags":    []any{"x"},
		"nested":  map[string]any{"a": "set", "extra": true},
		"address": map[string]any{"city": "Paris"},
	}
	got := document.Merge(base, incoming)
	want := map[string]any{
		"name":    "Ada",
		"tags":    []any{"x"},
		"nested":  map[string]any{"a": "set", "b": 0.0, "extra": true},
		"address": map[string]any{"city": "Paris"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestMerge_ArraysReplaceWholesale(t *testing.T) {
	base := map[string]any{"l": []any{map[string]any{"a": 1.0, "b": 2.0}}}
	incoming := map[string]any{"l": []any{map[string]any{"a": 9.0}}}
	got := document.Merge(base, incoming)
	if diff := cmp.Diff(incoming, got); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestPushRemove_Scenario(t *testing.T) {
	var root any = map[string]any{"name": "", "tags": []any{}}
	root, err := document.Push(root, p("tags"), "x")
	if err != nil {
		t.Fatalf("push: %v", err)
	}
	if diff := cmp.Diff([]any{"x"}, root.(map[string]any)["tags"]); diff != "" {
		t.Fatalf("after push (-want +got):\n%s", diff)
	}
	root, err = document.Remove(root, p("tags"), 0)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if diff := cmp.Diff([]any{}, root.(map[string]any)["tags"]); diff != "" {
		t.Fatalf("after remove (-want +got):\n%s", diff)
	}
}

func TestPush_CreatesSingleton(t *testing.T) {
	var root any = map[string]any{}
	root, err := document.Push(root, p("a.list"), 1.0)
	if err != nil {
		t.Fatalf("push: %v", err)
	}
	v, _ := document.Get(root, p("a.list"))
	if diff := cmp.Diff([]any{1.0}, v); diff != "" {
		t.Fatalf("(-want +got):\n%s", diff)
	}
}

func TestArrayOps_ErrorsLeaveDocumentUntouched(t *testing.T) {
	root := map[string]any{"s": "str", "l": []any{"a"}}
	if _, err := document.Push(root, p("s"), 1.0); !errors.Is(err, document.ErrNotArray) {
		t.Fatalf("push: %v", err)
	}
	if _, err := document.Remove(root, p("l"), 3); !errors.Is(err, document.ErrIndexOutOfRange) {
		t.Fatalf("remove: %v", err)
	}
	if _, err := document.Reorder(root, p("missing"), 0, 1); !errors.Is(err, document.ErrNotArray) {
		t.Fatalf("reorder: %v", err)
	}
	want := map[string]any{"s": "str", "l": []any{"a"}}
	if diff := cmp.Diff(want, root); diff != "" {
		t.Fatalf("document changed (-want +got):\n%s", diff)
	}
}

func TestReorder(t *testing.T) {
	items := func(ids ...string) []any {
		out := make([]any, len(ids))
		for i, id := range ids {
			out[i] = map[string]any{"id": id}
		}
		return out
	}
	cases := []struct {
		from, to int
		want     []any
	}{
		{0, 2, items("b", "c", "a")},
		{2, 0, items("c", "a", "b")},
		{1, 1, items("a", "b", "c")},
		{1, 2, items("a", "c", "b")},
	}
	for _, tc := range cases {
		var root any = map[string]any{"items": items("a", "b", "c")}
		root, err := document.Reorder(root, p("items"), tc.from, tc.to)
		if err != nil {
			t.Fatalf("reorder: %v", err)
		}
		if diff := cmp.Diff(tc.want, root.(map[string]any)["items"]); diff != "" {
			t.Fatalf("%d->%d (-want +got):\n%s", tc.from, tc.to, diff)
		}
	}
}

func TestCoerce(t *testing.T) {
	cases := []struct {
		c    document.Coercion
		raw  any
		want any
	}{
		{document.CoerceBoolean, "on", true},
		{document.CoerceBoolean, "", false},
		{document.CoerceBoolean, true, true},
		{document.CoerceNumber, "3.5", 3.5},
		{document.CoerceNumber, "abc", 0.0},
		{document.CoerceNumber, 7, 7.0},
		{document.CoerceText, "  raw ", "  raw "},
		{document.CoerceList, "a, b,,c", []any{"a", "b", "c"}},
		{document.CoerceList, []string{"x"}, []any{"x"}},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, document.Coerce(tc.c, tc.raw)); diff != "" {
			t.Fatalf("Coerce(%v, %#v) (-want +got):\n%s", tc.c, tc.raw, diff)
		}
	}
}

func TestEnvelope_CanonicalRoundTrip(t *testing.T) {
	env := document.Envelope{Schema: "inline", Data: map[string]any{"b": 1.0, "a": []any{"x", true, nil}}}
	first, err := env.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(first) != `{"data":{"a":["x",true,null],"b":1},"schema":"inline"}` {
		t.Fatalf("unexpected bytes: %s", first)
	}
	back, err := document.DecodeEnvelope(first)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	second, err := back.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("round trip changed bytes:\n%s\n%s", first, second)
	}
}

func TestDecode_Malformed(t *testing.T) {
	if _, err := document.DecodeEnvelope([]byte(`{"schema":`)); !errors.Is(err, document.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if _, err := document.Decode([]byte(`nope`)); !errors.Is(err, document.ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestDecodeEnvelope_Shapes(t *testing.T) {
	cases := []struct {
		raw  string
		want document.Envelope
	}{
		{`{"schema":"s1","data":{"a":1}}`, document.Envelope{Schema: "s1", Data: map[string]any{"a": 1.0}}},
		{`{"a":1}`, document.Envelope{Data: map[string]any{"a": 1.0}}},
		{`{"schema":"s1","data":{},"extra":true}`, document.Envelope{Data: map[string]any{"schema": "s1", "data": map[string]any{}, "extra": true}}},
		{`{"schema":3,"data":{}}`, document.Envelope{Data: map[string]any{"schema": 3.0, "data": map[string]any{}}}},
	}
	for _, tc := range cases {
		got, err := document.DecodeEnvelope([]byte(tc.raw))
		if err != nil {
			t.Fatalf("%s: %v", tc.raw, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("%s (-want +got):\n%s", tc.raw, diff)
		}
	}
	if _, err := document.DecodeEnvelope([]byte(`[1,2]`)); !errors.Is(err, document.ErrNotObject) {
		t.Fatalf("want ErrNotObject, got %v", err)
	}
}
