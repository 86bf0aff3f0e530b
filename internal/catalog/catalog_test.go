package catalog

import "testing"

func TestNewRejectsBadGroups(t *testing.T) {
	cases := []struct {
		name   string
		groups []Group
	}{
		{"empty group name", []Group{{Name: " ", Parameters: []Definition{def("X", 0, 0, 127)}}}},
		{"duplicate group", []Group{
			{Name: "g", Parameters: []Definition{def("X", 0, 0, 127)}},
			{Name: "g", Parameters: []Definition{def("Y", 1, 0, 127)}},
		}},
		{"no parameters", []Group{{Name: "g"}}},
		{"duplicate parameter", []Group{{Name: "g", Parameters: []Definition{
			def("X", 0, 0, 127),
			def("X", 1, 0, 127),
		}}}},
		{"zero width", []Group{{Name: "g", Parameters: []Definition{
			{Name: "X", Offset: 0, Width: 0},
		}}}},
		{"inverted range", []Group{{Name: "g", Parameters: []Definition{
			def("X", 0, 10, 2),
		}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.groups); err == nil {
				t.Fatalf("New accepted invalid groups")
			}
		})
	}
}

func TestBuiltinLookup(t *testing.T) {
	cat := Builtin()
	d, ok := cat.Definition("temp_performance_common", "Performance name 1")
	if !ok {
		t.Fatalf("missing Performance name 1")
	}
	if d.Offset != 0x00 || d.Min != 32 || d.Max != 125 {
		t.Fatalf("unexpected definition: %+v", d)
	}
	d, ok = cat.Definition("temp_patch_tone_3", "Wave number")
	if !ok {
		t.Fatalf("missing Wave number in tone 3")
	}
	if d.Offset != 0x03 || d.Max != 127 {
		t.Fatalf("unexpected tone definition: %+v", d)
	}
	if _, ok := cat.Definition("temp_patch_common", "No such parameter"); ok {
		t.Fatalf("lookup of unknown parameter succeeded")
	}
	if _, ok := cat.Group("no_such_group"); ok {
		t.Fatalf("lookup of unknown group succeeded")
	}
}

func TestBuiltinRangesFitDataByte(t *testing.T) {
	// Single-byte parameters travel as one 7-bit data byte, so a declared
	// range above 127 could never be encoded.
	cat := Builtin()
	for _, group := range cat.GroupNames() {
		g, _ := cat.Group(group)
		for _, d := range g.Parameters {
			if d.Width != 1 || !d.HasRange {
				continue
			}
			if d.Min < 0 || d.Max > 127 {
				t.Errorf("%s/%s: range %d..%d exceeds one data byte", group, d.Name, d.Min, d.Max)
			}
		}
	}
}

func TestBuildIndexExpandsSlots(t *testing.T) {
	cat := Builtin()
	idx := BuildIndex(cat)

	// Slot 0 and slot 63 of the expansion bank resolve to distinct group
	// instances at the same selector/offset.
	first, ok := idx.Resolve(Address{SpaceExpansion, 0x00, 0x00, 0x00})
	if !ok {
		t.Fatalf("slot 0 common not indexed")
	}
	if first.Group != "expansion_performance_common_perf_00" || first.Slot != 0 {
		t.Fatalf("slot 0 resolved to %q slot %d", first.Group, first.Slot)
	}
	last, ok := idx.Resolve(Address{SpaceExpansion, 0x3F, 0x00, 0x00})
	if !ok {
		t.Fatalf("slot 63 common not indexed")
	}
	if last.Group != "expansion_performance_common_perf_63" || last.Slot != 63 {
		t.Fatalf("slot 63 resolved to %q slot %d", last.Group, last.Slot)
	}
	if first.Definition.Name != last.Definition.Name {
		t.Fatalf("slot instances diverged: %q vs %q", first.Definition.Name, last.Definition.Name)
	}

	// Non-multiplied groups keep their literal base and report no slot.
	entry, ok := idx.Resolve(Address{SpaceTempPatch, 0x00, 0x10, 0x00})
	if !ok {
		t.Fatalf("tone 1 switch not indexed")
	}
	if entry.Group != "temp_patch_tone_1" || entry.Slot != -1 {
		t.Fatalf("tone 1 resolved to %q slot %d", entry.Group, entry.Slot)
	}

	if _, ok := idx.Resolve(Address{0x7F, 0x7F, 0x7F, 0x7F}); ok {
		t.Fatalf("bogus address resolved")
	}
}

func TestFromYAML(t *testing.T) {
	data := []byte(`
roland_jv_1080:
  sysex_common_info:
    manufacturer_id_hex: "41"
    model_id_hex: "6A"
    command_id_dt1_hex: "12"
    default_device_id_hex: "10"
  sysex_parameter_groups:
    expansion_performance_common:
      address_bytes_1_3_hex: ["11", "00", "00"]
      parameters:
        - name: "Performance name 1"
          offset_hex: "00"
          min: 32
          max: 125
    temp_patch_common:
      address_bytes_1_3_hex: ["03", "00", "00"]
      parameters:
        - name: "Patch level"
          offset_hex: "0C"
          min: 0
          max: 127
        - name: "Patch pan"
          offset_hex: "0D"
          min: 0
          max: 127
          type: signed
`)
	cat, err := FromYAML(data)
	if err != nil {
		t.Fatalf("FromYAML: %v", err)
	}
	g, ok := cat.Group("expansion_performance_common")
	if !ok {
		t.Fatalf("expansion group missing")
	}
	if g.Slots != ExpansionSlots {
		t.Fatalf("expansion group slots = %d, want %d", g.Slots, ExpansionSlots)
	}
	if g.Base != [3]byte{0x11, 0x00, 0x00} {
		t.Fatalf("expansion base = %v", g.Base)
	}
	d, ok := cat.Definition("temp_patch_common", "Patch pan")
	if !ok {
		t.Fatalf("Patch pan missing")
	}
	if d.Kind != Signed || d.Offset != 0x0D {
		t.Fatalf("Patch pan definition: %+v", d)
	}
	pg, _ := cat.Group("temp_patch_common")
	if pg.Slots != 0 {
		t.Fatalf("temporary group must not be slot-multiplied, got %d", pg.Slots)
	}
}

func TestFromYAMLErrors(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"no groups", `roland_jv_1080: {sysex_common_info: {}}`},
		{"short address", `
roland_jv_1080:
  sysex_parameter_groups:
    g:
      address_bytes_1_3_hex: ["11", "00"]
      parameters:
        - {name: X, offset_hex: "00"}
`},
		{"bad hex", `
roland_jv_1080:
  sysex_parameter_groups:
    g:
      address_bytes_1_3_hex: ["11", "00", "zz"]
      parameters:
        - {name: X, offset_hex: "00"}
`},
		{"unknown type", `
roland_jv_1080:
  sysex_parameter_groups:
    g:
      address_bytes_1_3_hex: ["11", "00", "00"]
      parameters:
        - {name: X, offset_hex: "00", type: float}
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := FromYAML([]byte(tc.data)); err == nil {
				t.Fatalf("FromYAML accepted bad input")
			}
		})
	}
}

func TestSlotGroupName(t *testing.T) {
	if got := SlotGroupName("expansion_performance_common", 5); got != "expansion_performance_common_perf_05" {
		t.Fatalf("SlotGroupName = %q", got)
	}
}
