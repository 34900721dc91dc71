// Package schemaform keeps a JSON Schema, a mutable JSON data document and
// a derived presentation tree of form controls consistent over time.
//
// - The schema is static. It is parsed once (JSON or YAML) and resolved on demand.
// - The data document is owned by the Engine and changed only through
//   SetFieldValue and the structural commands.
// - The presentation tree is regenerated from schema, data and activation
//   state after every structural change.
//
// Every structural command follows the same order: mutate the data
// document, rebuild the tree, revalidate. Hosts get the rebuilt tree and
// validation result through Mount, and data changes through OnChange.
//
// Typical usage:
//
//	s, err := schema.Parse(schemaBytes)
//	e, err := schemaform.New(schemaform.NopMount{}, s, nil, schemaform.Options{})
//	err = e.ActivateOptional(fieldpath.MustParse("address"))
//	err = e.SetFieldValue(fieldpath.MustParse("address.city"), "Kyoto")
//	out, err := e.Export()
package schemaform
