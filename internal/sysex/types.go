package sysex

import (
	"fmt"
	"strings"

	"example.com/jvgate/internal/catalog"
)

// Wire constants for Roland DT1 data-set messages.
const (
	StatusStart = 0xF0
	StatusEnd   = 0xF7

	ManufacturerRoland = 0x41
	ModelJV1080        = 0x6A
	CommandDT1         = 0x12

	DefaultDeviceID = 0x10

	// Smallest well-formed message: F0 41 dev 6A 12 a0 a1 a2 a3 d0 sum F7
	// is 12 bytes; a message missing the data byte still carries 11.
	minMessageLen = 11
)

// ValueKind discriminates the payload shapes a parameter can carry.
type ValueKind int

const (
	ScalarValue ValueKind = iota
	BytesValue
	TextValue
)

// Value is one decoded parameter payload. Scalars carry the raw wire byte;
// signed-centered parameters are not re-centered here.
type Value struct {
	kind   ValueKind
	scalar int
	bytes  []byte
	text   string
}

func Scalar(v int) Value { return Value{kind: ScalarValue, scalar: v} }

func Bytes(b []byte) Value {
	out := make([]byte, len(b))
	copy(out, b)
	return Value{kind: BytesValue, bytes: out}
}

func Text(s string) Value { return Value{kind: TextValue, text: s} }

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) Scalar() int { return v.scalar }

func (v Value) Bytes() []byte {
	out := make([]byte, len(v.bytes))
	copy(out, v.bytes)
	return out
}

func (v Value) Text() string { return v.text }

func (v Value) String() string {
	switch v.kind {
	case BytesValue:
		parts := make([]string, len(v.bytes))
		for i, b := range v.bytes {
			parts[i] = fmt.Sprintf("%d", b)
		}
		return "[" + strings.Join(parts, " ") + "]"
	case TextValue:
		return v.text
	default:
		return fmt.Sprintf("%d", v.scalar)
	}
}

// Parameter is one decoded parameter extracted from the wire. Group carries
// the block type and, for slot-multiplied banks, the slot instance; Slot is
// -1 when the parameter does not belong to a slot bank. Raw holds the full
// framed message the parameter came from; parameters of one bulk dump share
// the same copy. Treat it as read-only.
type Parameter struct {
	Group   string
	Name    string
	Value   Value
	Address catalog.Address
	Slot    int
	Raw     []byte
}
