// Package validate computes field and group errors for a built form from
// schema constraints and the current data document.
package validate

import (
	"math"
	"regexp"
	"strconv"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/reoring/schemaform/document"
	"github.com/reoring/schemaform/fieldpath"
	"github.com/reoring/schemaform/i18n"
	"github.com/reoring/schemaform/internal/jsonvalue"
	"github.com/reoring/schemaform/render"
	"github.com/reoring/schemaform/schema"
)

const patternCacheSize = 256

// Validator evaluates constraints. It keeps compiled patterns between
// calls; a Validator is not safe for concurrent use.
type Validator struct {
	tr       i18n.Translator
	patterns *lru.Cache[string, *regexp.Regexp]
}

// New returns a Validator that renders messages with tr, or in English
// when tr is nil.
func New(tr i18n.Translator) *Validator {
	if tr == nil {
		tr = i18n.New("en")
	}
	patterns, _ := lru.New[string, *regexp.Regexp](patternCacheSize)
	return &Validator{tr: tr, patterns: patterns}
}

// Result holds the outcome of a validation pass. A field or group that is
// absent from the maps is valid.
type Result struct {
	// Fields is keyed by the JSON Pointer of the field path.
	Fields map[string]Issue
	// Groups is keyed by array-group identifier.
	Groups map[string]Issue
}

// NewResult returns an empty Result.
func NewResult() *Result {
	return &Result{Fields: make(map[string]Issue), Groups: make(map[string]Issue)}
}

// Valid reports whether the result holds no issue.
func (r *Result) Valid() bool { return r.Total() == 0 }

// Total is the number of field and group issues.
func (r *Result) Total() int {
	if r == nil {
		return 0
	}
	return len(r.Fields) + len(r.Groups)
}

// GroupCounts maps group identifiers to the number of issues they own:
// field issues through fieldGroup, plus the group's own issue. Fields
// without a group are counted under "".
func (r *Result) GroupCounts(fieldGroup map[string]string) map[string]int {
	out := make(map[string]int)
	if r == nil {
		return out
	}
	for key := range r.Fields {
		out[fieldGroup[key]]++
	}
	for id := range r.Groups {
		out[id]++
	}
	return out
}

// Issues flattens the result, sorted by path then code.
func (r *Result) Issues() Issues {
	if r == nil {
		return nil
	}
	out := make(Issues, 0, r.Total())
	for _, is := range r.Fields {
		out = append(out, is)
	}
	for _, is := range r.Groups {
		out = append(out, is)
	}
	sortIssues(out)
	return out
}

// Err returns the issues as an error, or nil when the result is valid.
func (r *Result) Err() error {
	if r.Valid() {
		return nil
	}
	return r.Issues()
}

// All validates every field of tree and every required array group
// against data. The outcome depends only on tree and data.
func (v *Validator) All(tree *render.Tree, data any) *Result {
	res := NewResult()
	if tree == nil {
		return res
	}
	tree.Walk(func(n *render.Node, _ int) bool {
		if n.Kind != render.KindField {
			return true
		}
		value, _ := document.Get(data, n.Path)
		if is, bad := v.Field(n, value); bad {
			res.Fields[n.Path.Pointer()] = is
		}
		return true
	})
	for _, g := range tree.ArrayGroups() {
		if is, bad := v.Group(g, data); bad {
			res.Groups[g.ID] = is
		}
	}
	return res
}

// One revalidates the field at p and updates res in place. It reports
// whether p names a field of tree.
func (v *Validator) One(res *Result, tree *render.Tree, data any, p fieldpath.Path) bool {
	n, ok := tree.Find(fieldpath.FieldID(p))
	if !ok || n.Kind != render.KindField {
		return false
	}
	key := p.Pointer()
	value, _ := document.Get(data, p)
	if is, bad := v.Field(n, value); bad {
		res.Fields[key] = is
	} else {
		delete(res.Fields, key)
	}
	return true
}

// Group checks a required array group for emptiness.
func (v *Validator) Group(g *render.Node, data any) (Issue, bool) {
	if !g.Required {
		return Issue{}, false
	}
	value, _ := document.Get(data, g.Path)
	if list, _ := value.([]any); len(list) > 0 {
		return Issue{}, false
	}
	return v.issue(g.Path, g.ID, CodeEmptyList, nil), true
}

// Field evaluates the constraints of a field node against value and
// returns the first failing one.
func (v *Validator) Field(n *render.Node, value any) (Issue, bool) {
	code, params := v.check(n.Schema, n.Required, n.Degraded, value)
	if code == "" {
		return Issue{}, false
	}
	return v.issue(n.Path, n.Path.String(), code, params), true
}

func (v *Validator) check(s *schema.Node, required, degraded bool, value any) (string, map[string]any) {
	if jsonvalue.IsEmpty(value) {
		if required {
			return CodeRequired, nil
		}
		return "", nil
	}
	if degraded || s == nil {
		return "", nil
	}
	switch s.Kind() {
	case schema.KindNumber, schema.KindInteger:
		if code, params := checkNumber(s, value); code != "" {
			return code, params
		}
	case schema.KindArray:
		if code, params := checkItems(s, value); code != "" {
			return code, params
		}
	case schema.KindString:
		str, ok := value.(string)
		if !ok {
			return CodeInvalidType, map[string]any{"expected": "string"}
		}
		if code, params := v.checkString(s, str); code != "" {
			return code, params
		}
	}
	if len(s.Enum) > 0 && !inEnum(s.Enum, value) {
		return CodeInvalidEnum, map[string]any{"allowed": s.Enum}
	}
	return "", nil
}

func checkNumber(s *schema.Node, value any) (string, map[string]any) {
	if _, isString := value.(string); isString {
		return CodeInvalidType, map[string]any{"expected": s.Kind().String()}
	}
	f, ok := jsonvalue.Float(value)
	if !ok || math.IsNaN(f) {
		return CodeInvalidType, map[string]any{"expected": s.Kind().String()}
	}
	if s.Kind() == schema.KindInteger && f != math.Trunc(f) {
		return CodeInvalidType, map[string]any{"expected": "integer"}
	}
	if s.Minimum != nil && f < *s.Minimum {
		return CodeTooSmall, map[string]any{"min": *s.Minimum, "got": f}
	}
	if s.Maximum != nil && f > *s.Maximum {
		return CodeTooBig, map[string]any{"max": *s.Maximum, "got": f}
	}
	return "", nil
}

func checkItems(s *schema.Node, value any) (string, map[string]any) {
	list, ok := value.([]any)
	if !ok {
		return CodeInvalidType, map[string]any{"expected": "array"}
	}
	if s.MinItems != nil && len(list) < *s.MinItems {
		return CodeTooFewItems, map[string]any{"min": *s.MinItems, "got": len(list)}
	}
	if s.MaxItems != nil && len(list) > *s.MaxItems {
		return CodeTooManyItems, map[string]any{"max": *s.MaxItems, "got": len(list)}
	}
	return "", nil
}

func (v *Validator) checkString(s *schema.Node, str string) (string, map[string]any) {
	n := utf8.RuneCountInString(str)
	if s.MinLength != nil && n < *s.MinLength {
		return CodeTooShort, map[string]any{"min": *s.MinLength, "got": n}
	}
	if s.MaxLength != nil && n > *s.MaxLength {
		return CodeTooLong, map[string]any{"max": *s.MaxLength, "got": n}
	}
	if s.Pattern != "" {
		if re := v.pattern(s.Pattern); re != nil && !re.MatchString(str) {
			return CodePattern, map[string]any{"pattern": s.Pattern}
		}
	}
	if s.Format != "" && !validFormat(s.Format, str) {
		return CodeInvalidFormat, map[string]any{"format": s.Format}
	}
	return "", nil
}

// pattern compiles expr once. Patterns that do not compile are remembered
// as nil and never fail a value.
func (v *Validator) pattern(expr string) *regexp.Regexp {
	if re, ok := v.patterns.Get(expr); ok {
		return re
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		re = nil
	}
	v.patterns.Add(expr, re)
	return re
}

func inEnum(enum []any, value any) bool {
	for _, e := range enum {
		if jsonvalue.Equal(e, value) {
			return true
		}
	}
	return false
}

func (v *Validator) issue(p fieldpath.Path, field, code string, params map[string]any) Issue {
	return Issue{
		Path:    p.Pointer(),
		Field:   field,
		Code:    code,
		Message: v.tr.Message(code, messageData(params)),
		Params:  params,
	}
}

func messageData(params map[string]any) map[string]string {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]string, len(params))
	for k, p := range params {
		switch t := p.(type) {
		case string:
			out[k] = t
		case int:
			out[k] = strconv.Itoa(t)
		case float64:
			out[k] = strconv.FormatFloat(t, 'f', -1, 64)
		}
	}
	return out
}
