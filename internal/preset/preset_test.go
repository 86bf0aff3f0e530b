package preset

import (
	"testing"

	"example.com/jvgate/internal/catalog"
	"example.com/jvgate/internal/sysex"
)

func param(group, name string, slot int, value sysex.Value) sysex.Parameter {
	return sysex.Parameter{Group: group, Name: name, Slot: slot, Value: value}
}

func slotGroup(base string, slot int) string {
	return catalog.SlotGroupName(base, slot)
}

func TestAssembleBuildsPresetsInSlotOrder(t *testing.T) {
	params := []sysex.Parameter{
		param(slotGroup("expansion_performance_common", 7), "Performance name", 7, sysex.Text("Seventh")),
		param(slotGroup("expansion_performance_part_1", 7), "Part level", 7, sysex.Scalar(100)),
		param(slotGroup("expansion_performance_common", 2), "Performance name", 2, sysex.Text("Second")),
		param(slotGroup("expansion_performance_common", 2), "EFX:Type", 2, sysex.Scalar(5)),
	}

	presets, diags := Assemble(params)
	if len(diags) != 0 {
		t.Fatalf("diagnostics = %+v", diags)
	}
	if len(presets) != 2 {
		t.Fatalf("got %d presets, want 2", len(presets))
	}
	if presets[0].Slot != 2 || presets[1].Slot != 7 {
		t.Fatalf("slot order = %d, %d", presets[0].Slot, presets[1].Slot)
	}
	if presets[0].Name != "Second" || presets[1].Name != "Seventh" {
		t.Fatalf("names = %q, %q", presets[0].Name, presets[1].Name)
	}
	if presets[0].Type != TypePerformance {
		t.Fatalf("type = %q", presets[0].Type)
	}
}

func TestAssembleDropsOrphanedSlots(t *testing.T) {
	// Slot 5 has part data only; no common block means no anchor.
	params := []sysex.Parameter{
		param(slotGroup("expansion_performance_part_2", 5), "Part level", 5, sysex.Scalar(90)),
		param(slotGroup("expansion_performance_part_2", 5), "Part pan", 5, sysex.Scalar(64)),
		param(slotGroup("expansion_performance_common", 6), "Performance name", 6, sysex.Text("Kept")),
	}

	presets, diags := Assemble(params)
	if len(presets) != 1 || presets[0].Slot != 6 {
		t.Fatalf("presets = %+v, want slot 6 only", presets)
	}
	if len(diags) != 1 || diags[0].Kind != sysex.DiagOrphanedParams {
		t.Fatalf("diagnostics = %+v, want one orphaned-parameters diagnostic", diags)
	}
}

func TestAssembleIgnoresTemporaryArea(t *testing.T) {
	params := []sysex.Parameter{
		param("temp_patch_common", "Patch level", -1, sysex.Scalar(127)),
	}
	presets, diags := Assemble(params)
	if len(presets) != 0 || len(diags) != 0 {
		t.Fatalf("presets = %+v, diags = %+v", presets, diags)
	}
}

func TestAssembleSortsParameters(t *testing.T) {
	params := []sysex.Parameter{
		param(slotGroup("expansion_performance_part_1", 0), "Part level", 0, sysex.Scalar(1)),
		param(slotGroup("expansion_performance_common", 0), "Performance name", 0, sysex.Text("A")),
		param(slotGroup("expansion_performance_common", 0), "Chorus level", 0, sysex.Scalar(2)),
	}
	presets, _ := Assemble(params)
	if len(presets) != 1 {
		t.Fatalf("presets = %+v", presets)
	}
	got := presets[0].Parameters
	if got[0].Name != "Chorus level" || got[1].Name != "Performance name" || got[2].Name != "Part level" {
		t.Fatalf("order = %q, %q, %q", got[0].Name, got[1].Name, got[2].Name)
	}
}

func TestAssemblePatchBankSelect(t *testing.T) {
	slot := 3
	params := []sysex.Parameter{
		param(slotGroup("expansion_patch_common", slot), "patch_name", slot, sysex.Text("Warm Pad")),
		param(slotGroup("expansion_patch_common", slot), "category", slot, sysex.Scalar(35)),
		param(slotGroup("expansion_patch_common", slot), "bank", slot, sysex.Scalar(1)),
		param(slotGroup("expansion_patch_common", slot), "patch_number", slot, sysex.Scalar(77)),
	}
	presets, _ := Assemble(params)
	if len(presets) != 1 {
		t.Fatalf("presets = %+v", presets)
	}
	p := presets[0]
	if p.Type != TypePatch {
		t.Fatalf("type = %q", p.Type)
	}
	if p.Bank == nil {
		t.Fatalf("bank select missing")
	}
	// Category 35 sits in the expansion window and overrides the bank field.
	if p.Bank.MSB != 89 || p.Bank.LSB != 3 || p.Bank.PC != 77 {
		t.Fatalf("bank select = %+v", *p.Bank)
	}
}

func TestBankSelectFor(t *testing.T) {
	cases := []struct {
		name               string
		category, bank, pc int
		want               BankSelect
		ok                 bool
	}{
		{"preset A", 0, 0, 10, BankSelect{80, 0, 10}, true},
		{"preset D", 7, 3, 0, BankSelect{80, 3, 0}, true},
		{"user", 2, 4, 64, BankSelect{87, 0, 64}, true},
		{"card", 9, 5, 5, BankSelect{86, 0, 5}, true},
		{"expansion low", 32, 0, 1, BankSelect{89, 0, 1}, true},
		{"expansion high", 50, 2, 127, BankSelect{89, 18, 127}, true},
		{"unknown bank", 0, 9, 0, BankSelect{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := BankSelectFor(tc.category, tc.bank, tc.pc)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("BankSelectFor(%d, %d, %d) = %+v, %v", tc.category, tc.bank, tc.pc, got, ok)
			}
		})
	}
}

func TestAnalyze(t *testing.T) {
	params := []sysex.Parameter{
		param(slotGroup("expansion_patch_common", 0), "patch_name", 0, sysex.Text("One")),
		param(slotGroup("expansion_patch_common", 0), "category", 0, sysex.Scalar(35)),
		param(slotGroup("expansion_patch_common", 0), "patch_number", 0, sysex.Scalar(0)),
		param(slotGroup("expansion_patch_part_1", 0), "tone_switch", 0, sysex.Scalar(1)),
		param(slotGroup("expansion_patch_part_2", 0), "tone_switch", 0, sysex.Scalar(0)),
		param(slotGroup("expansion_patch_common", 1), "patch_name", 1, sysex.Text("Two")),
		param(slotGroup("expansion_patch_common", 1), "category", 1, sysex.Scalar(35)),
		param(slotGroup("expansion_patch_common", 1), "patch_number", 1, sysex.Scalar(1)),
		param(slotGroup("expansion_patch_part_1", 1), "tone_switch", 1, sysex.Scalar(1)),
	}
	presets, _ := Assemble(params)
	a := Analyze(presets)
	if a.Presets != 2 {
		t.Fatalf("presets = %d", a.Presets)
	}
	if a.TypeCounts[TypePatch] != 2 {
		t.Fatalf("type counts = %+v", a.TypeCounts)
	}
	if a.CategoryCounts[35] != 2 {
		t.Fatalf("category counts = %+v", a.CategoryCounts)
	}
	if a.ToneUsage["expansion_patch_part_1"] != 2 || a.ToneUsage["expansion_patch_part_2"] != 0 {
		t.Fatalf("tone usage = %+v", a.ToneUsage)
	}
	if a.Names[0] != "One" || a.Names[1] != "Two" {
		t.Fatalf("names = %+v", a.Names)
	}
}
