// Package surface maps scene mesh names to the coarse surface categories
// that decide which designs and material rules apply.
package surface

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the semantic category of a pickable surface.
type Type int

const (
	Unknown Type = iota
	Floor
	Wall
	Sofa
	Curtain
)

var typeNames = map[Type]string{
	Unknown: "unknown",
	Floor:   "floor",
	Wall:    "wall",
	Sofa:    "sofa",
	Curtain: "curtain",
}

// Types lists every known (non-Unknown) type in declaration order.
func Types() []Type {
	return []Type{Floor, Wall, Sofa, Curtain}
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Known reports whether t is a real category that may receive a design.
func (t Type) Known() bool {
	return t != Unknown && typeNames[t] != ""
}

// ParseType converts a type name such as "floor" to a Type.
func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range typeNames {
		if name == s && t != Unknown {
			return t, nil
		}
	}
	return Unknown, fmt.Errorf("unknown surface type %q", s)
}

// MarshalText implements encoding.TextMarshaler so types can be map keys in YAML.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Table is an immutable mesh-name to Type lookup.
type Table struct {
	byName map[string]Type
}

// NewTable copies names into a new Table. Entries mapping to Unknown are dropped.
func NewTable(names map[string]Type) Table {
	byName := make(map[string]Type, len(names))
	for name, t := range names {
		if t.Known() {
			byName[name] = t
		}
	}
	return Table{byName: byName}
}

// DefaultNames returns the mesh names used by the bundled room model.
func DefaultNames() map[string]Type {
	return map[string]Type{
		"Cube017":    Floor,
		"Cube022":    Wall,
		"Cube001":    Sofa,
		"Cube012":    Curtain,
		"G-__556050": Curtain,
	}
}

// DefaultTable returns a Table built from DefaultNames.
func DefaultTable() Table {
	return NewTable(DefaultNames())
}

// Resolve returns the type for a mesh name, or Unknown.
func (tb Table) Resolve(name string) Type {
	return tb.byName[name]
}

// Names returns the mesh names mapped to t, sorted.
func (tb Table) Names(t Type) []string {
	var names []string
	for name, nt := range tb.byName {
		if nt == t {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Len returns the number of mapped names.
func (tb Table) Len() int {
	return len(tb.byName)
}
