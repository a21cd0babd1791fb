// Package column defines the canonical column descriptor shared by every
// engine, and the archive format used to persist a table's column map.
package column

import "github.com/fsarwari/pgCompare/internal/datatype"

// Column describes one physical column as seen by the comparison pipeline.
// Descriptors are built fresh for each fetch and owned by the caller.
type Column struct {
	// Supported is false when DataType is in the unsupported table.
	Supported bool `json:"supported"`

	Name          string `json:"columnName"`
	DataType      string `json:"dataType"`
	DataLength    int    `json:"dataLength"`
	DataPrecision int    `json:"dataPrecision"`
	DataScale     int    `json:"dataScale"`
	Nullable      bool   `json:"nullable"`
	PrimaryKey    bool   `json:"primaryKey"`

	// DataClass is always set, even for unsupported types.
	DataClass datatype.Class `json:"dataClass"`

	// PreserveCase is true when Name must be quoted to keep its case on
	// the destination engine.
	PreserveCase bool `json:"preserveCase"`

	// ValueExpression is the destination-specific SQL fragment that reads
	// this column's value in normalized text form.
	ValueExpression string `json:"valueExpression"`
}

// PrimaryKeys returns the names of the key columns in cols, in order.
func PrimaryKeys(cols []Column) []string {
	var keys []string
	for _, c := range cols {
		if c.PrimaryKey {
			keys = append(keys, c.Name)
		}
	}
	return keys
}

// Unsupported returns the columns that cannot take part in a comparison.
func Unsupported(cols []Column) []Column {
	var out []Column
	for _, c := range cols {
		if !c.Supported {
			out = append(out, c)
		}
	}
	return out
}
