// Package coverage reads the tabular/feature datasets that drive batch
// project generation: one binding set per record. Sources are read-only.
package coverage

import "fmt"

// Record is one row of a coverage source: named field values in a stable
// field order.
type Record struct {
	fields []string
	values map[string]any
}

// NewRecord builds a record over the given field order and values.
func NewRecord(fields []string, values map[string]any) Record {
	return Record{fields: fields, values: values}
}

// Fields returns the record's field names in source order.
func (r Record) Fields() []string {
	out := make([]string, len(r.fields))
	copy(out, r.fields)
	return out
}

// Value returns the raw value of the named field, or nil.
func (r Record) Value(name string) any {
	return r.values[name]
}

// StringValue returns the named field formatted as a string.
func (r Record) StringValue(name string) string {
	v, ok := r.values[name]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Values returns the field values as a plain map.
func (r Record) Values() map[string]any {
	out := make(map[string]any, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Source is an enumerable coverage dataset with named fields.
type Source interface {
	// Name identifies the source in logs and evaluation traces.
	Name() string

	// Fields returns the source's field names.
	Fields() []string

	// Count returns the number of records.
	Count() (int, error)

	// Cursor opens a fresh iteration over all records.
	Cursor() (Cursor, error)

	// Close releases the source.
	Close() error
}

// Cursor iterates records in source order.
type Cursor interface {
	// Next returns the next record. ok is false when the cursor is
	// exhausted.
	Next() (rec Record, ok bool, err error)

	// Close releases the cursor.
	Close() error
}
