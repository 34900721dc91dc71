package schema

import (
	"bytes"

	j "github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

const lintResource = "schemaform-lint.json"

// Lint compiles the raw document against its meta-schema and reports the
// problems as warnings. A schema with lint warnings still loads; the form
// engine degrades anything it cannot interpret.
func (s *Schema) Lint() Diag {
	d := &simpleDiag{}
	if s == nil || s.Raw == nil {
		d.warnf("no raw document to lint")
		return d
	}
	// Round-trip through the compiler's own decoder so numbers arrive as
	// json.Number.
	b, err := j.Marshal(s.Raw)
	if err != nil {
		d.warnf("encode schema: %v", err)
		return d
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		d.warnf("decode schema: %v", err)
		return d
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(lintResource, doc); err != nil {
		d.warnf("%v", err)
		return d
	}
	if _, err := c.Compile(lintResource); err != nil {
		d.warnf("%v", err)
	}
	return d
}
