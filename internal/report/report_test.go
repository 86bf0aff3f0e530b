package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"example.com/jvgate/internal/export"
	"example.com/jvgate/internal/preset"
	"example.com/jvgate/internal/sysex"
)

func testPresets() []preset.Preset {
	return []preset.Preset{
		{
			Slot: 0,
			Name: "Warm Pad",
			Type: preset.TypePatch,
			Bank: &preset.BankSelect{MSB: 89, LSB: 3, PC: 77},
			Parameters: []sysex.Parameter{
				{Group: "expansion_patch_common_perf_00", Name: "patch_name", Value: sysex.Text("Warm Pad")},
			},
		},
		{Slot: 1, Name: "No Bank", Type: preset.TypePerformance},
	}
}

func TestBankSelectQR(t *testing.T) {
	png, err := BankSelectQR(preset.BankSelect{MSB: 89, LSB: 0, PC: 1}, 0)
	if err != nil {
		t.Fatalf("BankSelectQR: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Fatalf("not a PNG: % X", png[:8])
	}
}

func TestSaveBankPDF(t *testing.T) {
	presets := testPresets()
	out := filepath.Join(t.TempDir(), "bank.pdf")
	src := &export.Source{File: "card.syx", SHA256: "abc", Size: 10}
	if err := SaveBankPDF(presets, preset.Analyze(presets), src, out); err != nil {
		t.Fatalf("SaveBankPDF: %v", err)
	}
	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Fatalf("empty PDF")
	}
}

func TestBankReportRoundTrip(t *testing.T) {
	presets := testPresets()
	rep := BuildBankReport(presets, nil)
	if len(rep.Presets) != 2 || rep.Analysis.Presets != 2 {
		t.Fatalf("report: %+v", rep)
	}

	out := filepath.Join(t.TempDir(), "bank.json")
	if err := SaveBankJSON(rep, out); err != nil {
		t.Fatalf("SaveBankJSON: %v", err)
	}
	loaded, err := LoadBankJSON(out)
	if err != nil {
		t.Fatalf("LoadBankJSON: %v", err)
	}
	if len(loaded.Presets) != 2 || loaded.Presets[0].Name != "Warm Pad" {
		t.Fatalf("loaded: %+v", loaded)
	}
	if loaded.Presets[0].Bank == nil || loaded.Presets[0].Bank.MSB != 89 {
		t.Fatalf("bank: %+v", loaded.Presets[0].Bank)
	}
}
