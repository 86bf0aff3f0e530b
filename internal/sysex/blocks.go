package sysex

import (
	"fmt"
	"strings"
	"time"

	"example.com/jvgate/internal/catalog"
	"example.com/jvgate/internal/common"
)

// Bulk dump selectors within the expansion address space. The rhythm note
// range numerically overlaps the patch part selectors; the slot byte decides
// which interpretation applies.
const (
	selPerfCommon  = 0x00
	selPerfPart1   = 0x10
	selPerfPart4   = 0x16
	selPatchCommon = 0x20
	selPatchPart1  = 0x22
	selPatchPart4  = 0x28
	selRhythmNote1 = 0x23
	selRhythmNoteN = 0x62
	selRhythmCmn   = 0x60
)

const blockNameLen = 12

// blockLayout drives the bulk decoder: one static offset table per block
// type. nameField marks the leading fixed-width ASCII name region common
// blocks carry.
type blockLayout struct {
	group     string
	nameField string
	minLen    int
	fields    []catalog.Definition
}

var (
	perfCommonLayout = blockLayout{
		group:     "expansion_performance_common",
		nameField: "Performance name",
		minLen:    blockNameLen,
		fields:    catalog.PerformanceCommonParams(),
	}
	perfPartLayouts   = partLayouts("expansion_performance_part_%d", 4, 16, catalog.PerformancePartParams())
	patchCommonLayout = blockLayout{
		group:     "expansion_patch_common",
		nameField: "patch_name",
		minLen:    72,
		fields:    patchCommonFields(),
	}
	patchPartLayouts   = partLayouts("expansion_patch_part_%d", 4, 58, patchToneFields())
	rhythmCommonLayout = blockLayout{
		group:     "expansion_rhythm_common",
		nameField: "Rhythm name",
		minLen:    blockNameLen,
		fields: []catalog.Definition{
			field("Rhythm level", 0x0C),
		},
	}
	rhythmNoteFieldTable = rhythmNoteFields()
)

func partLayouts(nameFmt string, count, minLen int, fields []catalog.Definition) []blockLayout {
	layouts := make([]blockLayout, count)
	for i := range layouts {
		layouts[i] = blockLayout{
			group:  fmt.Sprintf(nameFmt, i+1),
			minLen: minLen,
			fields: fields,
		}
	}
	return layouts
}

// decodeBlock extracts every field of one bulk dump block. Block selection
// carries the slot-byte context: the rhythm bank reuses selector values the
// patch parts also use, so the selector alone never decides.
func decodeBlock(addr catalog.Address, payload []byte) ([]Parameter, []Diagnostic) {
	slot := int(addr.Slot())
	sel := addr.Selector()
	var layout blockLayout
	switch {
	case addr.Slot() == catalog.RhythmBank && sel == selRhythmCmn:
		layout = rhythmCommonLayout
	case addr.Slot() == catalog.RhythmBank && sel >= selRhythmNote1 && sel <= selRhythmNoteN:
		part := int(sel) - selRhythmNote1 + 1
		layout = blockLayout{
			group:  fmt.Sprintf("expansion_rhythm_part_%d", part),
			minLen: 32,
			fields: rhythmNoteFieldTable,
		}
	case sel == selPerfCommon:
		layout = perfCommonLayout
	case sel >= selPerfPart1 && sel <= selPerfPart4 && sel%2 == 0:
		layout = perfPartLayouts[(int(sel)-selPerfPart1)/2]
	case sel == selPatchCommon:
		layout = patchCommonLayout
	case sel >= selPatchPart1 && sel <= selPatchPart4 && sel%2 == 0:
		layout = patchPartLayouts[(int(sel)-selPatchPart1)/2]
	default:
		return nil, []Diagnostic{{
			Ts:      time.Now().UTC(),
			Kind:    DiagUnknownAddress,
			Address: addr.String(),
			Message: fmt.Sprintf("no block for selector %02X", sel),
		}}
	}
	if len(payload) < layout.minLen {
		common.Logf("block %s at %s too short: %d bytes, need %d", layout.group, addr, len(payload), layout.minLen)
		return nil, []Diagnostic{{
			Ts:      time.Now().UTC(),
			Kind:    DiagTruncatedBlock,
			Address: addr.String(),
			Message: fmt.Sprintf("block payload %d bytes below minimum %d, block rejected", len(payload), layout.minLen),
		}}
	}
	group := catalog.SlotGroupName(layout.group, slot)
	var params []Parameter
	if layout.nameField != "" {
		params = append(params, Parameter{
			Group:   group,
			Name:    layout.nameField,
			Value:   Text(trimName(payload[:blockNameLen])),
			Address: catalog.Address{addr[0], addr[1], addr[2], 0x00},
			Slot:    slot,
		})
	}
	for _, f := range layout.fields {
		off := int(f.Offset)
		if layout.nameField != "" && off < blockNameLen {
			continue
		}
		if off+f.Width > len(payload) {
			continue
		}
		var value Value
		switch {
		case f.Kind == catalog.ByteArray && f.Width > 1:
			value = Bytes(payload[off : off+f.Width])
		default:
			// Signed-centered fields stay raw; re-centering is for display.
			value = Scalar(int(payload[off]))
		}
		params = append(params, Parameter{
			Group:   group,
			Name:    f.Name,
			Value:   value,
			Address: catalog.Address{addr[0], addr[1], addr[2], f.Offset},
			Slot:    slot,
		})
	}
	return params, nil
}

// trimName decodes a fixed-width name region, dropping NUL and space padding.
func trimName(raw []byte) string {
	var b strings.Builder
	for _, c := range raw {
		if c == 0x00 {
			continue
		}
		if c < 0x20 || c > 0x7E {
			continue
		}
		b.WriteByte(c)
	}
	return strings.Trim(b.String(), " ")
}

func field(name string, offset byte) catalog.Definition {
	return catalog.Definition{Name: name, Offset: offset, Width: 1, Kind: catalog.Unsigned}
}

func signedField(name string, offset byte) catalog.Definition {
	return catalog.Definition{Name: name, Offset: offset, Width: 1, Kind: catalog.Signed}
}

func arrayField(name string, offset byte, width int) catalog.Definition {
	return catalog.Definition{Name: name, Offset: offset, Width: width, Kind: catalog.ByteArray}
}

// patchCommonFields is the 72-byte patch common dump layout. Offsets 16 and
// 70..71 are padding.
func patchCommonFields() []catalog.Definition {
	return []catalog.Definition{
		field("category", 12),
		field("bank", 13),
		field("patch_number", 14),
		field("pcm_bank", 15),
		field("chorus_send", 17),
		field("reverb_send", 18),
		field("output_level", 19),
		field("lfo1_rate", 20),
		field("lfo1_delay", 21),
		field("lfo1_pmd", 22),
		field("lfo1_amd", 23),
		field("lfo2_rate", 24),
		field("lfo2_delay", 25),
		field("lfo2_dest", 26),
		field("lfo2_pmd", 27),
		field("lfo2_amd", 28),
		field("portamento_switch", 29),
		field("portamento_time", 30),
		field("pb_range", 31),
		signedField("fine_tune", 32),
		signedField("transpose", 33),
		arrayField("pitch_eg_rate", 34, 4),
		arrayField("pitch_eg_level", 38, 4),
		arrayField("filter_eg_rate", 42, 4),
		arrayField("filter_eg_level", 46, 4),
		arrayField("amp_eg_rate", 50, 4),
		arrayField("amp_eg_level", 54, 4),
		field("filter_cutoff", 58),
		field("filter_resonance", 59),
		field("filter_eg_attack_vel", 60),
		field("filter_eg_release_vel", 61),
		field("velocity_to_amp_depth", 62),
		field("key_range_low", 63),
		field("key_range_high", 64),
		field("vel_range_low", 65),
		field("vel_range_high", 66),
		field("aftertouch_depth", 67),
		signedField("key_transpose", 68),
		field("portamento_curve", 69),
	}
}

// patchToneFields is the 58-byte tone dump layout.
func patchToneFields() []catalog.Definition {
	return []catalog.Definition{
		field("tone_switch", 0),
		field("waveform_bank", 1),
		field("waveform_number", 2),
		signedField("coarse_tune", 3),
		signedField("fine_tune", 4),
		field("key_group", 5),
		field("key_range_low", 6),
		field("key_range_high", 7),
		field("vel_range_low", 8),
		field("vel_range_high", 9),
		field("output_level", 10),
		signedField("pan", 11),
		field("porta_switch", 12),
		field("porta_time", 13),
		arrayField("pitch_eg_rate", 14, 4),
		arrayField("pitch_eg_level", 18, 4),
		arrayField("filter_eg_rate", 22, 4),
		arrayField("filter_eg_level", 26, 4),
		arrayField("amp_eg_rate", 30, 4),
		arrayField("amp_eg_level", 34, 4),
		field("filter_cutoff", 38),
		field("filter_resonance", 39),
		field("filter_eg_attack_vel", 40),
		field("filter_eg_release_vel", 41),
		field("lfo_pmd_depth", 42),
		field("lfo_amd_depth", 43),
		field("lfo_key_sync", 44),
		field("key_to_level_depth", 45),
		field("key_num_detune_depth", 46),
		field("key_follow", 47),
		field("ams_depth", 48),
		field("pms_depth", 49),
		field("pitch_bend_range", 50),
		field("aftertouch_depth", 51),
		field("poly_mono_switch", 52),
		field("unison_detune", 53),
		field("unison_pan_spread", 54),
		field("resonance_mod_depth", 55),
	}
}

// rhythmNoteFields is the per-note rhythm dump layout. Offset 0x04 is
// padding.
func rhythmNoteFields() []catalog.Definition {
	return []catalog.Definition{
		field("Tone Switch", 0x00),
		field("Wave Group Type", 0x01),
		field("Wave Group ID", 0x02),
		field("Wave Number", 0x03),
		field("Wave Gain", 0x05),
		field("Bend Range", 0x06),
		field("Mute Group", 0x07),
		field("Envelope Mode", 0x08),
		field("Volume Control Switch", 0x09),
		field("Hold-1 Control Switch", 0x0A),
		field("Pan Control Switch", 0x0B),
		field("Coarse Tune", 0x0C),
		field("Fine Tune", 0x0D),
		field("Random Pitch Depth", 0x0E),
		field("Pitch Envelope Depth", 0x0F),
		signedField("Pitch Envelope Velocity Sens", 0x10),
		signedField("Pitch Envelope Velocity Time", 0x11),
		field("Pitch Envelope Time 1", 0x12),
		field("Pitch Envelope Time 2", 0x13),
		field("Pitch Envelope Time 3", 0x14),
		field("Pitch Envelope Time 4", 0x15),
		field("Pitch Envelope Level 1", 0x16),
		field("Pitch Envelope Level 2", 0x17),
		field("Pitch Envelope Level 3", 0x18),
		field("Pitch Envelope Level 4", 0x19),
		field("Filter Type", 0x1A),
		field("Cutoff Frequency", 0x1B),
		field("Resonance", 0x1C),
		signedField("Resonance Velocity Sens", 0x1D),
		field("Filter Envelope Depth", 0x1E),
		signedField("Filter Envelope Velocity Sens", 0x1F),
	}
}
