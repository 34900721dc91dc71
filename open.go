package schemaform

import (
	"fmt"
	"log/slog"

	"github.com/reoring/schemaform/document"
	"github.com/reoring/schemaform/schema"
)

// RawDocumentError is returned by Open when the persisted bytes cannot be
// decoded at all. Raw holds the bytes for a read-only view.
type RawDocumentError struct {
	Raw []byte
	Err error
}

func (e *RawDocumentError) Error() string {
	return fmt.Sprintf("schemaform: document is not JSON, showing raw view: %v", e.Err)
}

func (e *RawDocumentError) Unwrap() error { return e.Err }

// Lookup finds a schema by the id recorded in a persisted envelope.
type Lookup func(id string) (*schema.Schema, bool)

// Open loads a persisted document. A {"schema": id, "data": ...} envelope
// uses the schema returned by lookup; when the id is unknown, or the bytes
// are JSON but not an envelope, the schema is inferred from the data's
// shape. Bytes that are not JSON yield a *RawDocumentError.
func Open(raw []byte, lookup Lookup, mount Mount, opts Options) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	data, id, err := ReadDocument(raw)
	if err != nil {
		return nil, &RawDocumentError{Raw: raw, Err: err}
	}
	var s *schema.Schema
	if lookup != nil && id != "" {
		s, _ = lookup(id)
	}
	if s == nil {
		logger.Warn("schema not found, inferring from data", slog.String("schema", id))
		s = schema.Infer(data)
		if opts.SchemaID == "" {
			opts.SchemaID = id
		}
	}
	return New(mount, s, data, opts)
}

// ReadDocument decodes persisted bytes. An object with exactly the keys
// "schema" and "data" is an envelope; any other object is bare data with
// no schema id.
func ReadDocument(raw []byte) (data any, schemaID string, err error) {
	env, err := document.DecodeEnvelope(raw)
	if err != nil {
		return nil, "", err
	}
	return env.Data, env.Schema, nil
}
