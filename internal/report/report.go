package report

import (
	"encoding/json"
	"os"

	"example.com/jvgate/internal/export"
	"example.com/jvgate/internal/preset"
)

// BankReport is the machine-readable companion of the PDF sheet.
type BankReport struct {
	Source   *export.Source  `json:"source,omitempty"`
	Analysis preset.Analysis `json:"analysis"`
	Presets  []PresetRow     `json:"presets"`
}

type PresetRow struct {
	Slot int                `json:"slot"`
	Name string             `json:"name"`
	Type preset.Type        `json:"type"`
	Bank *preset.BankSelect `json:"bank,omitempty"`
}

// BuildBankReport summarizes an assembled bank without the full parameter
// payloads.
func BuildBankReport(presets []preset.Preset, src *export.Source) BankReport {
	rep := BankReport{Source: src, Analysis: preset.Analyze(presets)}
	for _, p := range presets {
		rep.Presets = append(rep.Presets, PresetRow{Slot: p.Slot, Name: p.Name, Type: p.Type, Bank: p.Bank})
	}
	return rep
}

func SaveBankJSON(rep BankReport, out string) error {
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(out, b, 0644)
}

func LoadBankJSON(path string) (BankReport, error) {
	var rep BankReport
	b, err := os.ReadFile(path)
	if err != nil {
		return rep, err
	}
	err = json.Unmarshal(b, &rep)
	return rep, err
}
