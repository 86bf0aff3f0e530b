package catalog

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// yamlRoot mirrors the parameter-map YAML layout shipped with expansion
// card dumps: a single device key holding wire constants and the named
// parameter groups.
type yamlRoot struct {
	Device yamlDevice `yaml:"roland_jv_1080"`
}

type yamlDevice struct {
	Common yamlCommonInfo       `yaml:"sysex_common_info"`
	Groups map[string]yamlGroup `yaml:"sysex_parameter_groups"`
}

type yamlCommonInfo struct {
	ManufacturerID  string `yaml:"manufacturer_id_hex"`
	ModelID         string `yaml:"model_id_hex"`
	CommandIDDT1    string `yaml:"command_id_dt1_hex"`
	DefaultDeviceID string `yaml:"default_device_id_hex"`
}

type yamlGroup struct {
	AddressBytes []string    `yaml:"address_bytes_1_3_hex"`
	Parameters   []yamlParam `yaml:"parameters"`
}

type yamlParam struct {
	Name      string `yaml:"name"`
	OffsetHex string `yaml:"offset_hex"`
	Min       *int   `yaml:"min"`
	Max       *int   `yaml:"max"`
	Bytes     int    `yaml:"bytes"`
	Type      string `yaml:"type"`
}

// Load reads a parameter-map YAML file and builds a catalog from it.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

// FromYAML builds a catalog from parameter-map YAML. Groups in the
// expansion address space outside the rhythm bank are expanded across the
// full slot range.
func FromYAML(data []byte) (*Catalog, error) {
	var root yamlRoot
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse parameter map: %w", err)
	}
	if len(root.Device.Groups) == 0 {
		return nil, errors.New("parameter map has no sysex_parameter_groups")
	}
	groups := make([]Group, 0, len(root.Device.Groups))
	for _, name := range sortedKeys(root.Device.Groups) {
		spec := root.Device.Groups[name]
		group, err := groupFromYAML(name, spec)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return New(groups)
}

func groupFromYAML(name string, spec yamlGroup) (Group, error) {
	if len(spec.AddressBytes) != 3 {
		return Group{}, fmt.Errorf("group %s: address_bytes_1_3_hex needs 3 bytes, got %d", name, len(spec.AddressBytes))
	}
	var base [3]byte
	for i, hex := range spec.AddressBytes {
		b, err := parseHexByte(hex)
		if err != nil {
			return Group{}, fmt.Errorf("group %s: address byte %d: %w", name, i, err)
		}
		base[i] = b
	}
	params := make([]Definition, 0, len(spec.Parameters))
	for _, p := range spec.Parameters {
		definition, err := definitionFromYAML(name, p)
		if err != nil {
			return Group{}, err
		}
		params = append(params, definition)
	}
	group := Group{Name: name, Base: base, Parameters: params}
	if base[0] == SpaceExpansion && base[1] != RhythmBank {
		group.Slots = ExpansionSlots
	}
	return group, nil
}

func definitionFromYAML(group string, p yamlParam) (Definition, error) {
	if strings.TrimSpace(p.Name) == "" {
		return Definition{}, fmt.Errorf("group %s: parameter with empty name", group)
	}
	offset, err := parseHexByte(p.OffsetHex)
	if err != nil {
		return Definition{}, fmt.Errorf("group %s: parameter %s: offset: %w", group, p.Name, err)
	}
	width := p.Bytes
	if width == 0 {
		width = 1
	}
	kind, err := kindFromYAML(p.Type, width)
	if err != nil {
		return Definition{}, fmt.Errorf("group %s: parameter %s: %w", group, p.Name, err)
	}
	definition := Definition{Name: p.Name, Offset: offset, Width: width, Kind: kind}
	if p.Min != nil && p.Max != nil {
		definition.Min = *p.Min
		definition.Max = *p.Max
		definition.HasRange = true
	}
	return definition, nil
}

func kindFromYAML(typ string, width int) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(typ)) {
	case "", "unsigned", "uint":
		if width > 1 {
			return ByteArray, nil
		}
		return Unsigned, nil
	case "signed", "center":
		return Signed, nil
	case "bytes", "array":
		return ByteArray, nil
	case "text", "ascii", "char":
		return Text, nil
	default:
		return Unsigned, fmt.Errorf("unknown parameter type %q", typ)
	}
}

func parseHexByte(s string) (byte, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "0x"))
	if trimmed == "" {
		return 0, errors.New("empty hex byte")
	}
	v, err := strconv.ParseUint(trimmed, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("bad hex byte %q", s)
	}
	return byte(v), nil
}
