package catalog

import "fmt"

// Address is the full 4-byte parameter address carried in a data-set message:
// address-space byte, slot/mid byte, block-selector byte, offset byte.
type Address [4]byte

func (a Address) Space() byte    { return a[0] }
func (a Address) Slot() byte     { return a[1] }
func (a Address) Selector() byte { return a[2] }
func (a Address) Offset() byte   { return a[3] }

func (a Address) String() string {
	return fmt.Sprintf("%02X %02X %02X %02X", a[0], a[1], a[2], a[3])
}

// Entry is the resolution of one concrete address.
type Entry struct {
	Group      string
	Slot       int // -1 when the group is not slot-multiplied
	Definition Definition
}

// Index maps every concrete address a catalog can describe to its parameter.
// Built once from a Catalog and immutable afterwards.
type Index struct {
	entries map[Address]Entry
}

// BuildIndex expands every group of the catalog into concrete addresses.
// Slot-multiplied groups substitute the slot index into the slot byte and
// suffix the group name so each bank instance stays distinguishable.
func BuildIndex(c *Catalog) *Index {
	idx := &Index{entries: make(map[Address]Entry)}
	if c == nil {
		return idx
	}
	for _, name := range c.order {
		g := c.groups[name]
		if g.Slots > 1 {
			for slot := 0; slot < g.Slots; slot++ {
				base := g.Base
				base[1] = byte(slot)
				slotName := SlotGroupName(g.Name, slot)
				for _, d := range g.Parameters {
					addr := Address{base[0], base[1], base[2], d.Offset}
					idx.entries[addr] = Entry{Group: slotName, Slot: slot, Definition: d}
				}
			}
			continue
		}
		for _, d := range g.Parameters {
			addr := Address{g.Base[0], g.Base[1], g.Base[2], d.Offset}
			idx.entries[addr] = Entry{Group: g.Name, Slot: -1, Definition: d}
		}
	}
	return idx
}

// Resolve looks up a concrete address. A miss is not an error; it marks the
// address as unrecognized and the message as droppable.
func (i *Index) Resolve(addr Address) (Entry, bool) {
	if i == nil {
		return Entry{}, false
	}
	e, ok := i.entries[addr]
	return e, ok
}

// Len reports how many concrete addresses the index covers.
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.entries)
}

// SlotGroupName renders the per-slot instance name of a slot-multiplied group.
func SlotGroupName(group string, slot int) string {
	return fmt.Sprintf("%s_perf_%02d", group, slot)
}
