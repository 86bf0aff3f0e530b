package sysex

import (
	"bufio"
	"bytes"
	"io"
	"time"

	"example.com/jvgate/internal/catalog"
	"example.com/jvgate/internal/common"
)

// Decoder frames a raw byte stream into data-set messages and resolves each
// one into parameters. Malformed input never aborts a decode run: the
// offending message is dropped, a diagnostic recorded, and scanning resumes
// at the next start byte.
type Decoder struct {
	index    *catalog.Index
	deviceID byte
	metrics  *common.Metrics
	source   string

	diags    []Diagnostic
	msgIndex int
}

func NewDecoder(index *catalog.Index) *Decoder {
	return &Decoder{index: index, deviceID: DefaultDeviceID}
}

// SetDeviceID narrows decoding to one device's traffic. Messages addressed
// to other devices are skipped without a diagnostic.
func (d *Decoder) SetDeviceID(id byte) { d.deviceID = id }

// SetMetrics attaches a metrics sink for throughput accounting.
func (d *Decoder) SetMetrics(m *common.Metrics) { d.metrics = m }

// SetSource labels diagnostics with the originating file or stream name.
func (d *Decoder) SetSource(name string) { d.source = name }

// Diagnostics returns everything recorded since the decoder was created.
func (d *Decoder) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(d.diags))
	copy(out, d.diags)
	return out
}

// DecodeBytes decodes an in-memory capture.
func (d *Decoder) DecodeBytes(data []byte) []Parameter {
	params, _ := d.Decode(bytes.NewReader(data))
	return params
}

// Decode scans the stream for framed messages and returns every parameter
// recovered. The returned error reports stream I/O failures only; malformed
// messages surface through Diagnostics.
func (d *Decoder) Decode(r io.Reader) ([]Parameter, error) {
	br := bufio.NewReader(r)
	var params []Parameter
	var msg []byte
	var scanned int64
	capturing := false
	flush := func() {
		if d.metrics != nil && scanned > 0 {
			d.metrics.AddBytes(scanned)
		}
		scanned = 0
	}
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			flush()
			if capturing && len(msg) > 0 {
				d.record(DiagFraming, "", "stream ended inside a message, partial dropped")
				d.drop()
			}
			return params, nil
		}
		if err != nil {
			flush()
			return params, err
		}
		scanned++
		switch {
		case b == StatusStart:
			if capturing {
				// A new start byte inside a message means the previous
				// terminator never arrived.
				common.Logf("start byte before terminator at message %d, partial dropped", d.msgIndex)
				d.record(DiagFraming, "", "start byte before terminator, partial dropped")
				d.drop()
			}
			msg = append(msg[:0], StatusStart)
			capturing = true
		case b == StatusEnd:
			if !capturing {
				continue
			}
			msg = append(msg, StatusEnd)
			flush()
			params = append(params, d.decodeMessage(msg)...)
			d.msgIndex++
			msg = msg[:0]
			capturing = false
		default:
			if capturing {
				msg = append(msg, b)
			}
		}
	}
}

func (d *Decoder) decodeMessage(msg []byte) []Parameter {
	if d.metrics != nil {
		d.metrics.IncMessage()
	}
	if len(msg) < minMessageLen {
		d.record(DiagFraming, "", "message below minimum length")
		d.drop()
		return nil
	}
	// Wrong manufacturer, model or command means another device family's
	// traffic on the same cable. Not an error, not ours.
	if msg[1] != ManufacturerRoland || msg[3] != ModelJV1080 || msg[4] != CommandDT1 {
		d.drop()
		return nil
	}
	if msg[2] != d.deviceID {
		d.drop()
		return nil
	}
	addr := catalog.Address{msg[5], msg[6], msg[7], msg[8]}
	payload := msg[9 : len(msg)-2]
	want := msg[len(msg)-2]
	if got := Checksum(msg[5 : len(msg)-2]); got != want {
		common.Logf("checksum mismatch at %s: computed %02X, message carries %02X", addr, got, want)
		d.record(DiagChecksumMismatch, addr.String(), "checksum mismatch, message dropped")
		d.drop()
		return nil
	}
	// The framing buffer is reused between messages; copy once so every
	// parameter keeps its source message alive.
	raw := append([]byte(nil), msg...)
	if addr.Space() == catalog.SpaceExpansion && len(payload) > 1 {
		params, diags := decodeBlock(addr, payload)
		for _, diag := range diags {
			d.record(diag.Kind, diag.Address, diag.Message)
			d.drop()
		}
		for i := range params {
			params[i].Raw = raw
		}
		d.add(len(params))
		return params
	}
	entry, ok := d.index.Resolve(addr)
	if !ok {
		d.record(DiagUnknownAddress, addr.String(), "no catalog entry for address")
		d.drop()
		return nil
	}
	param, ok := d.scalarParameter(addr, entry, payload)
	if !ok {
		return nil
	}
	param.Raw = raw
	d.add(1)
	return []Parameter{param}
}

func (d *Decoder) scalarParameter(addr catalog.Address, entry catalog.Entry, payload []byte) (Parameter, bool) {
	def := entry.Definition
	if len(payload) < def.Width {
		d.record(DiagTruncatedBlock, addr.String(), "payload shorter than parameter width")
		d.drop()
		return Parameter{}, false
	}
	var value Value
	switch {
	case def.Kind == catalog.Text && def.Width > 1:
		value = Text(trimName(payload[:def.Width]))
	case def.Width > 1:
		value = Bytes(payload[:def.Width])
	default:
		value = Scalar(int(payload[0]))
	}
	return Parameter{
		Group:   entry.Group,
		Name:    def.Name,
		Value:   value,
		Address: addr,
		Slot:    entry.Slot,
	}, true
}

func (d *Decoder) record(kind DiagKind, address, message string) {
	d.diags = append(d.diags, Diagnostic{
		Ts:           time.Now().UTC(),
		Source:       d.source,
		Kind:         kind,
		MessageIndex: d.msgIndex,
		Address:      address,
		Message:      message,
	})
}

func (d *Decoder) drop() {
	if d.metrics != nil {
		d.metrics.IncDrop()
	}
}

func (d *Decoder) add(n int) {
	if d.metrics != nil && n > 0 {
		d.metrics.AddParameters(int64(n))
	}
}
