package importer

import (
	"fmt"
	"strconv"
	"strings"
)

// ── Transformer ────────────────────────────────────────────
// Transformers modify records in-flight between source and catalog.
// They are composable: each takes a record, returns a (possibly
// modified) record and a boolean indicating whether to keep it.

// Transformer processes a single record.
// Returns (transformed record, keep). If keep is false, the record is dropped.
type Transformer interface {
	Transform(Record) (Record, bool)
}

// TransformerFunc adapts a plain function to the Transformer interface.
type TransformerFunc func(Record) (Record, bool)

func (f TransformerFunc) Transform(r Record) (Record, bool) { return f(r) }

// TransformConfig is a declarative transform definition (stored as JSON).
type TransformConfig struct {
	Type   string         `json:"type"` // "filter" | "rename" | "select" | "limit" | "normalize_price" | "default"
	Config map[string]any `json:"config"`
}

// ── Built-in Transforms ────────────────────────────────────

// FilterTransform drops records where the given field does not match the value.
type FilterTransform struct {
	Field string
	Op    string // "eq" | "neq" | "gt" | "lt" | "contains"
	Value any
}

func (t *FilterTransform) Transform(r Record) (Record, bool) {
	v, ok := r.Data[t.Field]
	if !ok {
		return r, false
	}
	switch t.Op {
	case "eq":
		return r, fmt.Sprint(v) == fmt.Sprint(t.Value)
	case "neq":
		return r, fmt.Sprint(v) != fmt.Sprint(t.Value)
	case "contains":
		return r, strings.Contains(fmt.Sprint(v), fmt.Sprint(t.Value))
	case "gt":
		return r, toFloat(v) > toFloat(t.Value)
	case "lt":
		return r, toFloat(v) < toFloat(t.Value)
	default:
		return r, true
	}
}

// RenameTransform renames feed fields, typically onto the catalog's
// canonical names (sku, name, description, category, price, image_url).
type RenameTransform struct {
	Mapping map[string]string // oldName → newName
}

func (t *RenameTransform) Transform(r Record) (Record, bool) {
	for old, new_ := range t.Mapping {
		if v, ok := r.Data[old]; ok {
			r.Data[new_] = v
			delete(r.Data, old)
		}
	}
	return r, true
}

// SelectTransform keeps only the specified fields.
type SelectTransform struct {
	Fields []string
}

func (t *SelectTransform) Transform(r Record) (Record, bool) {
	filtered := make(map[string]any, len(t.Fields))
	for _, f := range t.Fields {
		if v, ok := r.Data[f]; ok {
			filtered[f] = v
		}
	}
	r.Data = filtered
	return r, true
}

// DedupeTransform drops records with duplicate values for the given key —
// usually the SKU, so a partner feed repeating a product wins once.
type DedupeTransform struct {
	Key  string
	seen map[string]bool
}

func NewDedupeTransform(key string) *DedupeTransform {
	return &DedupeTransform{Key: key, seen: make(map[string]bool)}
}

func (t *DedupeTransform) Transform(r Record) (Record, bool) {
	v := fmt.Sprint(r.Data[t.Key])
	if t.seen[v] {
		return r, false
	}
	t.seen[v] = true
	return r, true
}

// LimitTransform caps the number of records.
type LimitTransform struct {
	Count int
	seen  int
}

func NewLimitTransform(count int) *LimitTransform {
	return &LimitTransform{Count: count}
}

func (t *LimitTransform) Transform(r Record) (Record, bool) {
	t.seen++
	return r, t.seen <= t.Count
}

// NormalizePriceTransform coerces a price field to a plain float.
// Partner feeds ship prices as "$19.99", "19,99 €", "1,299.00" — this
// strips currency symbols and thousands separators and parses the rest.
type NormalizePriceTransform struct {
	Field string
}

func (t *NormalizePriceTransform) Transform(r Record) (Record, bool) {
	v, ok := r.Data[t.Field]
	if !ok {
		return r, true
	}
	r.Data[t.Field] = NormalizePrice(v)
	return r, true
}

// NormalizePrice parses a messy price value into a float64.
func NormalizePrice(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}

	s := strings.TrimSpace(fmt.Sprint(v))
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	s = b.String()
	if s == "" {
		return 0
	}

	// Decide which separator is decimal: the rightmost of '.' and ','.
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	if lastComma > lastDot {
		// comma-decimal locale: drop dots, turn the comma into a dot
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

// DefaultTransform fills missing or empty fields with fixed values.
type DefaultTransform struct {
	Defaults map[string]any
}

func (t *DefaultTransform) Transform(r Record) (Record, bool) {
	for k, v := range t.Defaults {
		cur, ok := r.Data[k]
		if !ok || fmt.Sprint(cur) == "" {
			r.Data[k] = v
		}
	}
	return r, true
}

// ── Helpers ────────────────────────────────────────────────

// ApplyTransformers runs a chain of transformers on a record.
func ApplyTransformers(r Record, ts []Transformer) (Record, bool) {
	for _, t := range ts {
		var keep bool
		r, keep = t.Transform(r)
		if !keep {
			return r, false
		}
	}
	return r, true
}

// BuildTransformers instantiates a transformer chain from declarative
// configs, appending a SKU dedupe when dedupeKey is set.
func BuildTransformers(configs []TransformConfig, dedupeKey string) []Transformer {
	var ts []Transformer
	for _, c := range configs {
		switch c.Type {
		case "filter":
			ts = append(ts, &FilterTransform{
				Field: str(c.Config["field"]),
				Op:    str(c.Config["op"]),
				Value: c.Config["value"],
			})
		case "rename":
			mapping := map[string]string{}
			if m, ok := c.Config["mapping"].(map[string]any); ok {
				for k, v := range m {
					mapping[k] = str(v)
				}
			}
			ts = append(ts, &RenameTransform{Mapping: mapping})
		case "select":
			var fields []string
			if fs, ok := c.Config["fields"].([]any); ok {
				for _, f := range fs {
					fields = append(fields, str(f))
				}
			}
			ts = append(ts, &SelectTransform{Fields: fields})
		case "limit":
			ts = append(ts, NewLimitTransform(int(toFloat(c.Config["count"]))))
		case "normalize_price":
			field := str(c.Config["field"])
			if field == "" {
				field = "price"
			}
			ts = append(ts, &NormalizePriceTransform{Field: field})
		case "default":
			defaults := map[string]any{}
			if m, ok := c.Config["defaults"].(map[string]any); ok {
				defaults = m
			}
			ts = append(ts, &DefaultTransform{Defaults: defaults})
		}
	}
	if dedupeKey != "" {
		ts = append(ts, NewDedupeTransform(dedupeKey))
	}
	return ts
}

func str(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			// Currency-formatted feed values ("$89.50", "1.299,00 €")
			// still have to compare numerically.
			return NormalizePrice(n)
		}
		return f
	default:
		return 0
	}
}
