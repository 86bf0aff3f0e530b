package sysex

import (
	"fmt"

	"example.com/jvgate/internal/catalog"
)

// NotFoundError reports an encode request naming a group or parameter the
// catalog does not define.
type NotFoundError struct {
	Group     string
	Parameter string
}

func (e *NotFoundError) Error() string {
	if e.Parameter == "" {
		return fmt.Sprintf("unknown parameter group %q", e.Group)
	}
	return fmt.Sprintf("unknown parameter %q in group %q", e.Parameter, e.Group)
}

// RangeError reports an encode value outside the parameter's declared bounds.
type RangeError struct {
	Group     string
	Parameter string
	Value     int
	Min       int
	Max       int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("value %d for %s/%s outside range %d..%d", e.Value, e.Group, e.Parameter, e.Min, e.Max)
}

// Encoder builds single-parameter data-set messages from catalog definitions.
// Encode failures indicate a caller defect and never mutate the catalog.
type Encoder struct {
	catalog  *catalog.Catalog
	deviceID byte
}

func NewEncoder(cat *catalog.Catalog, deviceID byte) *Encoder {
	return &Encoder{catalog: cat, deviceID: deviceID}
}

// ParameterMessage encodes one parameter write at the group's literal base
// address.
func (e *Encoder) ParameterMessage(group, parameter string, value Value) ([]byte, error) {
	g, ok := e.catalog.Group(group)
	if !ok {
		return nil, &NotFoundError{Group: group}
	}
	return e.message(g, g.Base, parameter, value)
}

// SlotParameterMessage encodes one parameter write into a specific slot of a
// slot-multiplied bank.
func (e *Encoder) SlotParameterMessage(group, parameter string, slot int, value Value) ([]byte, error) {
	g, ok := e.catalog.Group(group)
	if !ok {
		return nil, &NotFoundError{Group: group}
	}
	if g.Slots <= 1 {
		return nil, fmt.Errorf("group %q is not a slot bank", group)
	}
	if slot < 0 || slot >= g.Slots {
		return nil, fmt.Errorf("slot %d outside bank %q (%d slots)", slot, group, g.Slots)
	}
	base := g.Base
	base[1] = byte(slot)
	return e.message(g, base, parameter, value)
}

func (e *Encoder) message(g catalog.Group, base [3]byte, parameter string, value Value) ([]byte, error) {
	var def catalog.Definition
	found := false
	for _, d := range g.Parameters {
		if d.Name == parameter {
			def = d
			found = true
			break
		}
	}
	if !found {
		return nil, &NotFoundError{Group: g.Name, Parameter: parameter}
	}
	data, err := e.encodeValue(g.Name, def, value)
	if err != nil {
		return nil, err
	}
	addr := catalog.Address{base[0], base[1], base[2], def.Offset}
	return e.assemble(addr, data), nil
}

func (e *Encoder) encodeValue(group string, def catalog.Definition, value Value) ([]byte, error) {
	switch {
	case def.Width == 1:
		if value.Kind() != ScalarValue {
			return nil, fmt.Errorf("parameter %s/%s takes a scalar value", group, def.Name)
		}
		v := value.Scalar()
		if v < 0 || v > 0x7F {
			return nil, &RangeError{Group: group, Parameter: def.Name, Value: v, Min: 0, Max: 0x7F}
		}
		if def.HasRange && (v < def.Min || v > def.Max) {
			return nil, &RangeError{Group: group, Parameter: def.Name, Value: v, Min: def.Min, Max: def.Max}
		}
		return []byte{byte(v)}, nil
	case def.Kind == catalog.Text:
		if value.Kind() != TextValue {
			return nil, fmt.Errorf("parameter %s/%s takes a text value", group, def.Name)
		}
		text := value.Text()
		if len(text) > def.Width {
			return nil, fmt.Errorf("text %q exceeds %d bytes for %s/%s", text, def.Width, group, def.Name)
		}
		data := make([]byte, def.Width)
		for i := range data {
			data[i] = ' '
		}
		for i := 0; i < len(text); i++ {
			c := text[i]
			if c < 0x20 || c > 0x7D {
				return nil, fmt.Errorf("text byte 0x%02X not transmittable for %s/%s", c, group, def.Name)
			}
			data[i] = c
		}
		return data, nil
	default:
		if value.Kind() != BytesValue {
			return nil, fmt.Errorf("parameter %s/%s takes a %d-byte value", group, def.Name, def.Width)
		}
		data := value.Bytes()
		if len(data) != def.Width {
			return nil, fmt.Errorf("parameter %s/%s needs %d bytes, got %d", group, def.Name, def.Width, len(data))
		}
		for _, b := range data {
			if b > 0x7F {
				return nil, &RangeError{Group: group, Parameter: def.Name, Value: int(b), Min: 0, Max: 0x7F}
			}
		}
		return data, nil
	}
}

func (e *Encoder) assemble(addr catalog.Address, data []byte) []byte {
	msg := make([]byte, 0, 5+4+len(data)+2)
	msg = append(msg, StatusStart, ManufacturerRoland, e.deviceID, ModelJV1080, CommandDT1)
	msg = append(msg, addr[:]...)
	msg = append(msg, data...)
	msg = append(msg, Checksum(msg[5:]))
	msg = append(msg, StatusEnd)
	return msg
}
