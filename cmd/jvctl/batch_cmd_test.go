package main

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"example.com/jvgate/internal/export"
	"example.com/jvgate/internal/sysex"
)

func writeBulkCapture(t *testing.T, path string, slot byte, name string) {
	t.Helper()
	payload := make([]byte, 12)
	copy(payload, name)
	for i := len(name); i < 12; i++ {
		payload[i] = ' '
	}
	msg := []byte{0xF0, 0x41, 0x10, 0x6A, 0x12, 0x11, slot, 0x00, 0x00}
	msg = append(msg, payload...)
	msg = append(msg, sysex.Checksum(msg[5:]), 0xF7)
	if err := os.WriteFile(path, msg, 0o644); err != nil {
		t.Fatalf("WriteFile %s: %v", path, err)
	}
}

func TestBatchCmdExportsEachCapture(t *testing.T) {
	root := t.TempDir()
	inputDir := filepath.Join(root, "inputs")
	if err := os.MkdirAll(inputDir, 0o755); err != nil {
		t.Fatalf("MkdirAll inputs: %v", err)
	}
	outDir := filepath.Join(root, "out")

	writeBulkCapture(t, filepath.Join(inputDir, "alpha.syx"), 0x02, "Warm Pad")
	writeBulkCapture(t, filepath.Join(inputDir, "beta.syx"), 0x05, "Solo Lead")
	if err := os.WriteFile(filepath.Join(inputDir, "notes.txt"), []byte("not a capture"), 0o644); err != nil {
		t.Fatalf("WriteFile notes: %v", err)
	}

	batchCmd([]string{"--in", inputDir, "--out-dir", outDir})

	for _, name := range []string{"alpha", "beta"} {
		dir := filepath.Join(outDir, name)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("output dir missing for %s: %v", name, err)
		}
		if _, err := os.Stat(filepath.Join(dir, "diagnostics.jsonl")); err != nil {
			t.Fatalf("diagnostics missing for %s: %v", name, err)
		}
		data, err := os.ReadFile(filepath.Join(dir, "bank.yaml"))
		if err != nil {
			t.Fatalf("manifest missing for %s: %v", name, err)
		}
		var manifest export.Manifest
		if err := yaml.Unmarshal(data, &manifest); err != nil {
			t.Fatalf("manifest %s: %v", name, err)
		}
		if len(manifest.Presets) != 1 {
			t.Fatalf("manifest %s presets = %+v, want one", name, manifest.Presets)
		}
		if manifest.Source == nil || manifest.Source.File != name+".syx" {
			t.Fatalf("manifest %s source = %+v", name, manifest.Source)
		}
	}
	if _, err := os.Stat(filepath.Join(outDir, "alpha", "002_Warm_Pad.yaml")); err != nil {
		t.Fatalf("preset file missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "notes")); !os.IsNotExist(err) {
		t.Fatalf("non-capture file was exported")
	}
}
