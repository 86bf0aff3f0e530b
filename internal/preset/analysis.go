package preset

import (
	"sort"
	"strings"

	"example.com/jvgate/internal/sysex"
)

// Analysis summarizes an assembled bank: how the slots split across preset
// families, which category values appear, and which tone blocks are active.
type Analysis struct {
	Presets        int            `json:"presets" yaml:"presets"`
	TypeCounts     map[Type]int   `json:"typeCounts" yaml:"type_counts"`
	CategoryCounts map[int]int    `json:"categoryCounts,omitempty" yaml:"category_counts,omitempty"`
	ToneUsage      map[string]int `json:"toneUsage,omitempty" yaml:"tone_usage,omitempty"`
	Names          []string       `json:"names" yaml:"names"`
}

// Analyze walks the presets of one bank.
func Analyze(presets []Preset) Analysis {
	a := Analysis{
		TypeCounts:     make(map[Type]int),
		CategoryCounts: make(map[int]int),
		ToneUsage:      make(map[string]int),
	}
	a.Presets = len(presets)
	for _, p := range presets {
		a.TypeCounts[p.Type]++
		a.Names = append(a.Names, p.Name)
		for _, param := range p.Parameters {
			if isCommonGroup(param.Group) && param.Name == "category" && param.Value.Kind() == sysex.ScalarValue {
				a.CategoryCounts[param.Value.Scalar()]++
			}
			if param.Name == "tone_switch" && param.Value.Scalar() == 1 {
				a.ToneUsage[toneKey(param.Group)]++
			}
		}
	}
	sort.Strings(a.Names)
	if len(a.CategoryCounts) == 0 {
		a.CategoryCounts = nil
	}
	if len(a.ToneUsage) == 0 {
		a.ToneUsage = nil
	}
	return a
}

// toneKey strips the slot suffix so usage aggregates per tone block across
// the whole bank.
func toneKey(group string) string {
	if i := strings.Index(group, "_perf_"); i >= 0 {
		return group[:i]
	}
	return group
}
