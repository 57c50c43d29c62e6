package dict

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlDictionary mirrors the on-disk shape of a dictionary file. The wire
// shape is deliberately flat (maps and slices of plain scalars) so that
// the same YAML can be hand-written or generated from a QuickFIX-style XML
// data dictionary by an external tool.
type yamlDictionary struct {
	BeginString string `yaml:"begin_string"`
	Fields      []struct {
		Number int               `yaml:"number"`
		Name   string            `yaml:"name"`
		Type   string            `yaml:"type"`
		Values map[string]string `yaml:"values"`
	} `yaml:"fields"`
	Header  []int `yaml:"header"`
	Trailer []int `yaml:"trailer"`
	Messages []struct {
		MsgType  string `yaml:"msg_type"`
		Name     string `yaml:"name"`
		Fields   []int  `yaml:"fields"`
		Required []int  `yaml:"required"`
		Groups   []struct {
			CountTag int   `yaml:"count_tag"`
			Members  []int `yaml:"members"`
		} `yaml:"groups"`
	} `yaml:"messages"`
}

// LoadFile reads and parses a YAML dictionary file from path.
func LoadFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dict: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses a YAML dictionary document from r.
func Load(r io.Reader) (*Dictionary, error) {
	var doc yamlDictionary
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("dict: decode: %w", err)
	}
	return build(&doc)
}

func build(doc *yamlDictionary) (*Dictionary, error) {
	d := &Dictionary{
		BeginString: doc.BeginString,
		Fields:      make(map[int]FieldDef, len(doc.Fields)),
		Messages:    make(map[string]MessageDef, len(doc.Messages)),
		Header:      doc.Header,
		Trailer:     doc.Trailer,
	}

	for _, f := range doc.Fields {
		d.Fields[f.Number] = FieldDef{
			Number: f.Number,
			Name:   f.Name,
			Type:   FieldType(f.Type),
			Values: f.Values,
		}
	}

	for _, m := range doc.Messages {
		required := make(map[int]bool, len(m.Required))
		for _, tag := range m.Required {
			required[tag] = true
		}
		groups := make(map[int]GroupDef, len(m.Groups))
		for _, g := range m.Groups {
			groups[g.CountTag] = GroupDef{CountTag: g.CountTag, Members: g.Members}
		}
		d.Messages[m.MsgType] = MessageDef{
			MsgType:  m.MsgType,
			Name:     m.Name,
			Fields:   m.Fields,
			Required: required,
			Groups:   groups,
		}
	}

	d.index()
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}
