package catalog

import (
	"fmt"
	"sort"
	"strings"
)

// Kind describes how a parameter's payload bytes are interpreted.
type Kind int

const (
	// Unsigned is a plain 0..127 data byte.
	Unsigned Kind = iota
	// Signed is stored as a raw 0..127 byte with center 64. The codec
	// carries the raw byte; subtracting the center is presentation work.
	Signed
	// ByteArray is a fixed-width run of data bytes.
	ByteArray
	// Text is a fixed-width ASCII field, NUL/space padded.
	Text
)

func (k Kind) String() string {
	switch k {
	case Unsigned:
		return "unsigned"
	case Signed:
		return "signed"
	case ByteArray:
		return "bytes"
	case Text:
		return "text"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Definition describes one parameter slot within a group.
type Definition struct {
	Name     string
	Offset   byte
	Width    int
	Kind     Kind
	Min      int
	Max      int
	HasRange bool
}

// Group is a named region of parameters sharing one 3-byte address prefix.
// Slots > 1 marks an expansion bank: the group repeats for each slot with the
// slot index substituted into the second address byte.
type Group struct {
	Name       string
	Base       [3]byte
	Slots      int
	Parameters []Definition
}

func (g Group) definition(name string) (Definition, bool) {
	for _, d := range g.Parameters {
		if d.Name == name {
			return d, true
		}
	}
	return Definition{}, false
}

// Catalog is the immutable set of parameter groups for one device model.
// Build it once at startup; concurrent reads need no synchronization.
type Catalog struct {
	groups map[string]Group
	order  []string
}

func New(groups []Group) (*Catalog, error) {
	c := &Catalog{groups: make(map[string]Group, len(groups))}
	for i, g := range groups {
		if strings.TrimSpace(g.Name) == "" {
			return nil, fmt.Errorf("group[%d]: empty name", i)
		}
		if _, exists := c.groups[g.Name]; exists {
			return nil, fmt.Errorf("group %s: duplicate group name", g.Name)
		}
		if g.Slots < 0 {
			return nil, fmt.Errorf("group %s: negative slot count", g.Name)
		}
		if len(g.Parameters) == 0 {
			return nil, fmt.Errorf("group %s: no parameters", g.Name)
		}
		seen := make(map[string]struct{}, len(g.Parameters))
		for j, d := range g.Parameters {
			if strings.TrimSpace(d.Name) == "" {
				return nil, fmt.Errorf("group %s: parameter[%d] has empty name", g.Name, j)
			}
			if _, dup := seen[d.Name]; dup {
				return nil, fmt.Errorf("group %s: duplicate parameter %q", g.Name, d.Name)
			}
			seen[d.Name] = struct{}{}
			if d.Width <= 0 {
				return nil, fmt.Errorf("group %s: parameter %q has width %d", g.Name, d.Name, d.Width)
			}
			if d.HasRange && d.Min > d.Max {
				return nil, fmt.Errorf("group %s: parameter %q has min %d > max %d", g.Name, d.Name, d.Min, d.Max)
			}
		}
		c.groups[g.Name] = g
		c.order = append(c.order, g.Name)
	}
	return c, nil
}

// Group returns the named group.
func (c *Catalog) Group(name string) (Group, bool) {
	if c == nil {
		return Group{}, false
	}
	g, ok := c.groups[name]
	return g, ok
}

// Definition returns the parameter definition for group/name.
func (c *Catalog) Definition(group, parameter string) (Definition, bool) {
	g, ok := c.Group(group)
	if !ok {
		return Definition{}, false
	}
	return g.definition(parameter)
}

// GroupNames lists all groups in catalog order.
func (c *Catalog) GroupNames() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// ParameterNames lists the parameters of a group in layout order.
func (c *Catalog) ParameterNames(group string) []string {
	g, ok := c.Group(group)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(g.Parameters))
	for _, d := range g.Parameters {
		names = append(names, d.Name)
	}
	return names
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
