// Package export renders assembled presets to YAML or JSON bank folders.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"example.com/jvgate/internal/common"
	"example.com/jvgate/internal/preset"
	"example.com/jvgate/internal/sysex"
)

type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// BankRef is the MIDI recall address of a preset.
type BankRef struct {
	MSB int `yaml:"msb" json:"msb"`
	LSB int `yaml:"lsb" json:"lsb"`
	PC  int `yaml:"pc" json:"pc"`
}

// ParameterValue is one flattened parameter. Entries stay in (group,
// parameter) order so exports diff cleanly between runs.
type ParameterValue struct {
	Group     string      `yaml:"group" json:"group"`
	Parameter string      `yaml:"parameter" json:"parameter"`
	Value     interface{} `yaml:"value" json:"value"`
}

// Document is the serialized form of one preset.
type Document struct {
	Name       string           `yaml:"name" json:"name"`
	Slot       int              `yaml:"slot" json:"slot"`
	PresetType string           `yaml:"preset_type" json:"preset_type"`
	Bank       *BankRef         `yaml:"midi_address,omitempty" json:"midi_address,omitempty"`
	Card       string           `yaml:"card,omitempty" json:"card,omitempty"`
	Parameters []ParameterValue `yaml:"parameters" json:"parameters"`
}

// Source records where a bank came from, fingerprinted so an export can be
// traced back to the exact capture file.
type Source struct {
	File   string `yaml:"file" json:"file"`
	SHA256 string `yaml:"sha256" json:"sha256"`
	Size   int64  `yaml:"size" json:"size"`
}

// Manifest is the bank-level index written next to the per-preset files.
type Manifest struct {
	Source  *Source         `yaml:"source,omitempty" json:"source,omitempty"`
	Presets []ManifestEntry `yaml:"presets" json:"presets"`
}

type ManifestEntry struct {
	Slot int    `yaml:"slot" json:"slot"`
	Name string `yaml:"name" json:"name"`
	File string `yaml:"file" json:"file"`
}

// SourceOf fingerprints a capture file.
func SourceOf(path string) (*Source, error) {
	sum, size, err := common.Sha256OfFile(path)
	if err != nil {
		return nil, err
	}
	return &Source{File: filepath.Base(path), SHA256: sum, Size: size}, nil
}

// BuildDocument flattens one preset for serialization.
func BuildDocument(p preset.Preset) Document {
	doc := Document{
		Name:       p.Name,
		Slot:       p.Slot,
		PresetType: string(p.Type),
	}
	if p.Bank != nil {
		doc.Bank = &BankRef{MSB: p.Bank.MSB, LSB: p.Bank.LSB, PC: p.Bank.PC}
		if p.Bank.MSB == 89 {
			doc.Card = fmt.Sprintf("SR-JV80-%02d", p.Bank.LSB+1)
		}
	}
	for _, param := range p.Parameters {
		doc.Parameters = append(doc.Parameters, ParameterValue{
			Group:     param.Group,
			Parameter: param.Name,
			Value:     exportValue(param.Value),
		})
	}
	return doc
}

func exportValue(v sysex.Value) interface{} {
	switch v.Kind() {
	case sysex.TextValue:
		return v.Text()
	case sysex.BytesValue:
		raw := v.Bytes()
		out := make([]int, len(raw))
		for i, b := range raw {
			out[i] = int(b)
		}
		return out
	default:
		return v.Scalar()
	}
}

// WriteBank writes one file per preset into dir, named by slot and sanitized
// preset name, plus a manifest indexing the folder.
func WriteBank(dir string, presets []preset.Preset, format Format, src *Source) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	manifest := Manifest{Source: src}
	for _, p := range presets {
		name := fmt.Sprintf("%03d_%s.%s", p.Slot, SanitizeName(p.Name), format)
		if err := writeDocument(filepath.Join(dir, name), BuildDocument(p), format); err != nil {
			return fmt.Errorf("write preset %d: %w", p.Slot, err)
		}
		manifest.Presets = append(manifest.Presets, ManifestEntry{Slot: p.Slot, Name: p.Name, File: name})
	}
	manifestPath := filepath.Join(dir, "bank."+string(format))
	if err := writeDocument(manifestPath, manifest, format); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	common.Logf("exported %d presets to %s", len(presets), dir)
	return nil
}

func writeDocument(path string, doc interface{}, format Format) error {
	var data []byte
	var err error
	switch format {
	case FormatJSON:
		data, err = json.MarshalIndent(doc, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	case FormatYAML:
		data, err = yaml.Marshal(doc)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

var (
	reservedChars = regexp.MustCompile(`[\\/:*?"<>|]`)
	whitespace    = regexp.MustCompile(`\s+`)
	unsafeChars   = regexp.MustCompile(`[^\w\-.]`)
)

// SanitizeName makes a preset name safe as a filename on any platform.
func SanitizeName(name string) string {
	name = reservedChars.ReplaceAllString(name, "_")
	name = whitespace.ReplaceAllString(name, "_")
	name = unsafeChars.ReplaceAllString(name, "")
	name = strings.Trim(name, "._")
	if name == "" {
		name = "untitled"
	}
	return name
}
