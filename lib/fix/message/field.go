package message

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Field is a single tag=value pair as it appears on the wire, in the order
// it was decoded. Group members are flattened into this slice in the order
// they occur; no separate record of where a repeating group begins is kept.
type Field struct {
	Tag   Tag
	Value string
}

// Fields is an ordered list of wire fields, preserving decode order the way
// spec.md's data model requires for re-encoding and checksum purposes.
type Fields []Field

// Get returns the first occurrence of tag, if present.
func (f Fields) Get(tag Tag) (string, bool) {
	for _, field := range f {
		if field.Tag == tag {
			return field.Value, true
		}
	}
	return "", false
}

// GetInt parses the first occurrence of tag as a base-10 integer.
func (f Fields) GetInt(tag Tag) (int, bool) {
	v, ok := f.Get(tag)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// GetDecimal parses the first occurrence of tag as a FIX FLOAT/QTY/PRICE
// value. Wire values of these types are fixed-point decimal strings
// (e.g. "123.45"), not IEEE floats, so a price or quantity is decoded
// into a decimal.Decimal rather than a float64 to avoid the binary
// rounding error a float64 would introduce into money-shaped fields.
func (f Fields) GetDecimal(tag Tag) (decimal.Decimal, bool) {
	v, ok := f.Get(tag)
	if !ok {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// SetDecimal is a convenience wrapper around Set for FLOAT/QTY/PRICE
// values, encoding d without exponential notation.
func (f *Fields) SetDecimal(tag Tag, d decimal.Decimal) {
	f.Set(tag, d.String())
}

// Set replaces the first occurrence of tag or appends it if absent.
func (f *Fields) Set(tag Tag, value string) {
	for i := range *f {
		if (*f)[i].Tag == tag {
			(*f)[i].Value = value
			return
		}
	}
	*f = append(*f, Field{Tag: tag, Value: value})
}

// SetInt is a convenience wrapper around Set for integer values.
func (f *Fields) SetInt(tag Tag, value int) {
	f.Set(tag, strconv.Itoa(value))
}

// Append adds a field unconditionally, even if tag is already present.
// Used by the decoder, so a tag that occurs more than once on the wire (as
// inside repeating groups) keeps every occurrence.
func (f *Fields) Append(tag Tag, value string) {
	*f = append(*f, Field{Tag: tag, Value: value})
}

// Has reports whether tag occurs at least once.
func (f Fields) Has(tag Tag) bool {
	_, ok := f.Get(tag)
	return ok
}

// Clone returns an independent copy of f.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	copy(out, f)
	return out
}

// Group is a single instance of a repeating group, itself an ordered set
// of fields (which may recursively contain nested groups flattened the
// same way the enclosing message is).
type Group Fields
