package catalog

import "fmt"

// Address-space bytes used by the JV-1080 parameter map.
const (
	SpaceSystem    = 0x00
	SpaceTempPerf  = 0x01
	SpacePatchMode = 0x02
	SpaceTempPatch = 0x03
	SpaceExpansion = 0x11
)

// RhythmBank is the slot-byte value that marks the rhythm bank within the
// expansion address space. Block selectors are only interpreted as rhythm
// blocks under this bank.
const RhythmBank = 0x09

// ExpansionSlots is the number of performance slots an expansion card bank
// exposes.
const ExpansionSlots = 64

// Builtin returns the built-in JV-1080 catalog. Callers that ship their own
// parameter map load it with FromYAML instead.
func Builtin() *Catalog {
	groups := []Group{
		{
			Name: "system_common",
			Base: [3]byte{SpaceSystem, 0x00, 0x00},
			Parameters: []Definition{
				def("Panel mode", 0x00, 0, 2),
				def("Performance number", 0x01, 0, 127),
				sdef("Master tune", 0x02, 1, 127),
			},
		},
		{
			Name:       "temp_performance_common",
			Base:       [3]byte{SpaceTempPerf, 0x00, 0x00},
			Parameters: performanceCommonParams(),
		},
		{
			Name:       "temp_performance_part_1",
			Base:       [3]byte{SpaceTempPerf, 0x00, 0x10},
			Parameters: performancePartParams(),
		},
		{
			Name:       "temp_performance_part_2",
			Base:       [3]byte{SpaceTempPerf, 0x00, 0x12},
			Parameters: performancePartParams(),
		},
		{
			Name:       "temp_performance_part_3",
			Base:       [3]byte{SpaceTempPerf, 0x00, 0x14},
			Parameters: performancePartParams(),
		},
		{
			Name:       "temp_performance_part_4",
			Base:       [3]byte{SpaceTempPerf, 0x00, 0x16},
			Parameters: performancePartParams(),
		},
		{
			Name:       "temp_patch_common",
			Base:       [3]byte{SpaceTempPatch, 0x00, 0x00},
			Parameters: patchCommonParams(),
		},
		{
			Name:       "temp_patch_tone_1",
			Base:       [3]byte{SpaceTempPatch, 0x00, 0x10},
			Parameters: patchToneParams(),
		},
		{
			Name:       "temp_patch_tone_2",
			Base:       [3]byte{SpaceTempPatch, 0x00, 0x12},
			Parameters: patchToneParams(),
		},
		{
			Name:       "temp_patch_tone_3",
			Base:       [3]byte{SpaceTempPatch, 0x00, 0x14},
			Parameters: patchToneParams(),
		},
		{
			Name:       "temp_patch_tone_4",
			Base:       [3]byte{SpaceTempPatch, 0x00, 0x16},
			Parameters: patchToneParams(),
		},
		{
			Name:       "expansion_performance_common",
			Base:       [3]byte{SpaceExpansion, 0x00, 0x00},
			Slots:      ExpansionSlots,
			Parameters: performanceCommonParams(),
		},
		{
			Name:       "expansion_performance_part_1",
			Base:       [3]byte{SpaceExpansion, 0x00, 0x10},
			Slots:      ExpansionSlots,
			Parameters: performancePartParams(),
		},
		{
			Name:       "expansion_performance_part_2",
			Base:       [3]byte{SpaceExpansion, 0x00, 0x12},
			Slots:      ExpansionSlots,
			Parameters: performancePartParams(),
		},
		{
			Name:       "expansion_performance_part_3",
			Base:       [3]byte{SpaceExpansion, 0x00, 0x14},
			Slots:      ExpansionSlots,
			Parameters: performancePartParams(),
		},
		{
			Name:       "expansion_performance_part_4",
			Base:       [3]byte{SpaceExpansion, 0x00, 0x16},
			Slots:      ExpansionSlots,
			Parameters: performancePartParams(),
		},
	}
	cat, err := New(groups)
	if err != nil {
		// The built-in table is static; a failure here is a programming error.
		panic(err)
	}
	return cat
}

func def(name string, offset byte, min, max int) Definition {
	return Definition{Name: name, Offset: offset, Width: 1, Kind: Unsigned, Min: min, Max: max, HasRange: true}
}

func sdef(name string, offset byte, min, max int) Definition {
	return Definition{Name: name, Offset: offset, Width: 1, Kind: Signed, Min: min, Max: max, HasRange: true}
}

func nameChars(label string, count int) []Definition {
	defs := make([]Definition, 0, count)
	for i := 0; i < count; i++ {
		defs = append(defs, def(fmt.Sprintf("%s %d", label, i+1), byte(i), 32, 125))
	}
	return defs
}

// PerformanceCommonParams is the field table of a performance common block:
// the 12-byte name region followed by effect, chorus and reverb settings.
// Shared between the address index and the bulk block layouts.
func PerformanceCommonParams() []Definition { return performanceCommonParams() }

// PerformancePartParams is the field table of one performance part block.
func PerformancePartParams() []Definition { return performancePartParams() }

func performanceCommonParams() []Definition {
	defs := nameChars("Performance name", 12)
	defs = append(defs,
		def("EFX:Type", 0x0C, 0, 39),
	)
	for i := 0; i < 12; i++ {
		defs = append(defs, def(fmt.Sprintf("EFX:Parameter %d", i+1), byte(0x0D+i), 0, 127))
	}
	defs = append(defs,
		def("EFX:Output assign", 0x19, 0, 2),
		def("EFX:Output level", 0x1A, 0, 127),
		def("EFX:Chorus send level", 0x1B, 0, 127),
		def("EFX:Reverb send level", 0x1C, 0, 127),
		def("EFX:Control source 1", 0x1D, 0, 95),
		sdef("EFX:Control depth 1", 0x1E, 1, 127),
		def("EFX:Control source 2", 0x1F, 0, 95),
		sdef("EFX:Control depth 2", 0x20, 1, 127),
		def("Chorus level", 0x21, 0, 127),
		def("Chorus rate", 0x22, 0, 127),
		def("Chorus depth", 0x23, 0, 127),
		def("Chorus pre-delay", 0x24, 0, 127),
		def("Chorus feedback", 0x25, 0, 127),
		def("Chorus output", 0x26, 0, 1),
		def("Reverb type", 0x27, 0, 7),
		def("Reverb level", 0x28, 0, 127),
		def("Reverb time", 0x29, 0, 127),
		def("Reverb HF damp", 0x2A, 0, 17),
		def("Reverb feedback", 0x2B, 0, 127),
	)
	return defs
}

func performancePartParams() []Definition {
	return []Definition{
		def("MIDI channel", 0x00, 0, 15),
		def("Patch group", 0x01, 0, 2),
		def("Patch group ID", 0x02, 0, 127),
		def("Patch number", 0x03, 0, 127),
		def("Part level", 0x04, 0, 127),
		sdef("Part pan", 0x05, 0, 127),
		sdef("Part coarse tune", 0x06, 16, 112),
		sdef("Part fine tune", 0x07, 14, 114),
		def("Key range lower", 0x08, 0, 127),
		def("Key range upper", 0x09, 0, 127),
		def("Receive program change", 0x0A, 0, 1),
		def("Receive volume", 0x0B, 0, 1),
		def("Receive hold-1", 0x0C, 0, 1),
		def("Output assign", 0x0D, 0, 3),
		def("Chorus send level", 0x0E, 0, 127),
		def("Reverb send level", 0x0F, 0, 127),
	}
}

func patchCommonParams() []Definition {
	defs := nameChars("Patch name", 12)
	defs = append(defs,
		def("Patch level", 0x0C, 0, 127),
		sdef("Patch pan", 0x0D, 0, 127),
		def("Analog feel", 0x0E, 0, 127),
		def("Bend range up", 0x0F, 0, 12),
		def("Bend range down", 0x10, 0, 48),
		def("Key assign mode", 0x11, 0, 1),
		def("Solo legato", 0x12, 0, 1),
		def("Portamento switch", 0x13, 0, 1),
		def("Portamento mode", 0x14, 0, 1),
		def("Portamento type", 0x15, 0, 1),
		def("Portamento start", 0x16, 0, 1),
		def("Portamento time", 0x17, 0, 127),
	)
	return defs
}

func patchToneParams() []Definition {
	return []Definition{
		def("Tone switch", 0x00, 0, 1),
		def("Wave group type", 0x01, 0, 2),
		def("Wave group ID", 0x02, 0, 127),
		def("Wave number", 0x03, 0, 127),
		def("Wave gain", 0x05, 0, 3),
		def("FXM switch", 0x06, 0, 1),
		def("FXM color", 0x07, 0, 3),
		def("FXM depth", 0x08, 0, 15),
		def("Tone delay mode", 0x09, 0, 7),
		def("Tone delay time", 0x0A, 0, 127),
		def("Velocity cross fade", 0x0B, 0, 127),
		def("Velocity range lower", 0x0C, 0, 127),
		def("Velocity range upper", 0x0D, 0, 127),
		def("Keyboard range lower", 0x0E, 0, 127),
		def("Keyboard range upper", 0x0F, 0, 127),
	}
}
