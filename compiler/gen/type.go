package gen

import (
	"strings"

	"github.com/syssam/ease/internal/casing"
	"github.com/syssam/ease/schema"
)

// Graph holds the records of one generated package and their operations.
type Graph struct {
	*Config
	// Nodes are the records in the order they were given.
	Nodes []*Type
}

// Type is a record with its synthesized operations.
type Type struct {
	*schema.Record
	// Ops holds the operations of the record in enumeration order.
	Ops []*Operation
}

// NewGraph normalizes the given records and synthesizes their operations.
// All schema errors surface here, before anything is generated.
func NewGraph(c *Config, records ...*schema.Record) (*Graph, error) {
	if c == nil {
		return nil, NewConfigError("Config", nil, "config cannot be nil")
	}
	if len(records) == 0 {
		return nil, NewConfigError("Records", nil, "no records to generate")
	}
	g := &Graph{Config: c, Nodes: make([]*Type, 0, len(records))}
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r == nil {
			return nil, schema.Empty("")
		}
		if err := r.Normalize(); err != nil {
			return nil, err
		}
		if _, ok := seen[strings.ToLower(r.Name)]; ok {
			return nil, schema.Unsupported(r.Name, "", "record declared more than once")
		}
		seen[strings.ToLower(r.Name)] = struct{}{}
		ops, err := Synthesize(r, c.Naming)
		if err != nil {
			return nil, err
		}
		g.Nodes = append(g.Nodes, &Type{Record: r, Ops: ops})
	}
	return g, nil
}

// Names returns the names of the records in the graph.
func (g *Graph) Names() []string {
	names := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		names[i] = n.Name
	}
	return names
}

// ClientName returns the name of the generated client type.
func (t *Type) ClientName() string {
	return t.Name + "Client"
}

// ConstructorName returns the name of the generated client constructor.
func (t *Type) ConstructorName() string {
	return "New" + t.ClientName()
}

// Receiver returns the receiver name of the client methods.
func (t *Type) Receiver() string {
	return casing.Receiver(t.ClientName())
}

// FileName returns the name of a generated file of the record with the
// given suffix, such as "post_ease.go".
func (t *Type) FileName(suffix string) string {
	return strings.ToLower(t.Name) + suffix
}

// Op returns the operation with the given snake_case or Go name.
func (t *Type) Op(name string) *Operation {
	for _, op := range t.Ops {
		if op.Name == name || op.GoName == name {
			return op
		}
	}
	return nil
}
