package importer

// ── Record ─────────────────────────────────────────────────
// Common intermediate format for product feeds. All sources emit
// Records, the catalog destination consumes them.

// Field describes a single column in a feed.
type Field struct {
	Name string `json:"name"`
	Type string `json:"type"` // "text" | "number" | "boolean" | "datetime"
}

// Schema describes the shape of records coming from a feed.
type Schema struct {
	Fields []Field `json:"fields"`
}

// FieldNames returns an ordered list of field names.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Record is a single feed row flowing through the pipeline.
type Record struct {
	Data map[string]any `json:"data"`
}
