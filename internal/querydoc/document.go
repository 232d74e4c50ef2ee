// Package querydoc reads select statements described in YAML.
//
// A document declares the tables it reads with typed columns and a single
// query over them:
//
//	dialect: sqlite
//	tables:
//	  orders:
//	    id: {type: long, id: true}
//	    region: string
//	    amount: {type: integer, nullable: true}
//	query:
//	  select:
//	    - {expr: o.region}
//	    - {expr: {call: count, star: true}, as: n}
//	  from:
//	    - {table: orders, as: o}
//	  group_by: [o.region]
//
// Plain scalars are column references, quoted scalars are string literals
// and numbers or booleans are literals. Mapping nodes describe calls,
// operators, parameters, casts and the other expression forms handled by
// the builder.
package querydoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is a parsed query document.
type Document struct {
	// Path is the file the document was read from, empty for in-memory
	// documents.
	Path    string           `yaml:"-"`
	Name    string           `yaml:"name"`
	Dialect string           `yaml:"dialect"`
	Tables  map[string]Table `yaml:"tables"`
	Query   Query            `yaml:"query"`
}

// Table maps column names to their declarations.
type Table map[string]Column

// Column declares a table column. It decodes from a bare type name or a
// mapping.
type Column struct {
	Type     string `yaml:"type"`
	Nullable bool   `yaml:"nullable"`
	ID       bool   `yaml:"id"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Column) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		c.Type = n.Value
		return nil
	}
	type plain Column
	return n.Decode((*plain)(c))
}

// Query is one select block.
type Query struct {
	Distinct bool        `yaml:"distinct"`
	Select   []Item      `yaml:"select"`
	From     []From      `yaml:"from"`
	Where    yaml.Node   `yaml:"where"`
	GroupBy  []yaml.Node `yaml:"group_by"`
	Having   yaml.Node   `yaml:"having"`
	OrderBy  []Order     `yaml:"order_by"`
	Offset   yaml.Node   `yaml:"offset"`
	Fetch    yaml.Node   `yaml:"fetch"`
}

// Item is a select list entry.
type Item struct {
	Expr yaml.Node `yaml:"expr"`
	As   string    `yaml:"as"`
}

// Order is an order by entry. It decodes from a bare expression or a
// mapping.
type Order struct {
	Expr       yaml.Node `yaml:"expr"`
	Desc       bool      `yaml:"desc"`
	NullsFirst *bool     `yaml:"nulls_first"`
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (o *Order) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.MappingNode && hasKey(n, "expr") {
		type plain Order
		return n.Decode((*plain)(o))
	}
	o.Expr = *n
	return nil
}

// From is a table group of the FROM clause: a named table or a table
// function, with the groups joined to it.
type From struct {
	Table    string      `yaml:"table"`
	Function string      `yaml:"function"`
	Args     []yaml.Node `yaml:"args"`
	Columns  []string    `yaml:"columns"`
	// Ordinality adds a 1-based row number column to a table function.
	Ordinality bool   `yaml:"ordinality"`
	As         string `yaml:"as"`
	Joins      []Join `yaml:"joins"`

	line int
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *From) UnmarshalYAML(n *yaml.Node) error {
	type plain From
	if err := n.Decode((*plain)(f)); err != nil {
		return err
	}
	f.line = n.Line
	return nil
}

// Join joins a group to its parent. Type is one of inner, left, right,
// full and cross.
type Join struct {
	Type string
	On   yaml.Node
	From
}

// UnmarshalYAML implements yaml.Unmarshaler. The type and on keys belong
// to the join, the others to the joined group.
func (j *Join) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: join must be a mapping", n.Line)
	}
	group := *n
	group.Content = nil
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		switch key.Value {
		case "type":
			j.Type = value.Value
		case "on":
			j.On = *value
		default:
			group.Content = append(group.Content, key, value)
		}
	}
	return group.Decode(&j.From)
}

// Load reads a document from a file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by the user
	if err != nil {
		return nil, fmt.Errorf("failed to read query document: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Path = path
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return doc, nil
}

// Parse decodes a document. Unknown keys are rejected.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty query document")
		}
		return nil, fmt.Errorf("failed to parse query document: %w", err)
	}
	if len(doc.Query.Select) == 0 {
		return nil, errors.New("query has no select items")
	}
	return &doc, nil
}

func hasKey(n *yaml.Node, key string) bool {
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return true
		}
	}
	return false
}
