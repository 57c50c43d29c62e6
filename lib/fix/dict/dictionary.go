package dict

import (
	"fmt"

	"github.com/stoewer/go-strcase"
)

// Dictionary is a loaded protocol definition for one FIX BeginString: the
// field table, the message table, and the fixed header/trailer tag order.
// spec.md treats dictionary loading as an external integration concern;
// this type is the shape that integration is expected to produce.
type Dictionary struct {
	BeginString string
	Fields      map[int]FieldDef
	Messages    map[string]MessageDef
	Header      []int
	Trailer     []int

	byName map[string]int
}

// Field looks up a field definition by tag number.
func (d *Dictionary) Field(tag int) (FieldDef, bool) {
	f, ok := d.Fields[tag]
	return f, ok
}

// FieldByName looks up a field's tag number by name, tolerant of casing
// differences (SenderCompID, sender_comp_id, sender-comp-id all resolve to
// the same field) using the same snake_case normalization the dictionary
// loader applies when building this index.
func (d *Dictionary) FieldByName(name string) (FieldDef, bool) {
	tag, ok := d.byName[strcase.SnakeCase(name)]
	if !ok {
		return FieldDef{}, false
	}
	return d.Field(tag)
}

// Message looks up a message definition by its MsgType wire value.
func (d *Dictionary) Message(msgType string) (MessageDef, bool) {
	m, ok := d.Messages[msgType]
	return m, ok
}

// index builds the name alias index after Fields has been populated by a
// loader. Loaders must call this before returning the Dictionary.
func (d *Dictionary) index() {
	d.byName = make(map[string]int, len(d.Fields))
	for tag, f := range d.Fields {
		d.byName[strcase.SnakeCase(f.Name)] = tag
	}
}

// Validate checks internal consistency: every message's field list and
// group members must reference known fields, and the count tag of every
// group must itself be declared as a field of NUMINGROUP type.
func (d *Dictionary) Validate() error {
	for msgType, m := range d.Messages {
		for _, tag := range m.Fields {
			if _, ok := d.Fields[tag]; !ok {
				return fmt.Errorf("dict: message %s references unknown field %d", msgType, tag)
			}
		}
		for countTag, g := range m.Groups {
			f, ok := d.Fields[countTag]
			if !ok {
				return fmt.Errorf("dict: message %s group count tag %d is not a known field", msgType, countTag)
			}
			if f.Type != TypeNumInGroup {
				return fmt.Errorf("dict: message %s group count tag %d is not a NUMINGROUP field", msgType, countTag)
			}
			for _, member := range g.Members {
				if _, ok := d.Fields[member]; !ok {
					return fmt.Errorf("dict: message %s group member %d is not a known field", msgType, member)
				}
			}
		}
	}
	return nil
}
