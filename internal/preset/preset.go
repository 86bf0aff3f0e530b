package preset

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"example.com/jvgate/internal/common"
	"example.com/jvgate/internal/sysex"
)

// Type classifies a preset by the block families that populated it.
type Type string

const (
	TypePerformance Type = "performance"
	TypePatch       Type = "patch"
	TypeRhythm      Type = "rhythm"
)

// Preset is one assembled slot: every parameter decoded for that slot,
// anchored by its common block.
type Preset struct {
	Slot       int
	Name       string
	Type       Type
	Bank       *BankSelect // nil when the dump carries no bank fields
	Parameters []sysex.Parameter
}

// Assemble buckets a flat parameter stream by slot and builds one preset per
// slot that has a common block. Part and tone parameters without a common
// anchor are dropped and reported, never silently kept. Presets come back in
// ascending slot order with parameters sorted by (group, name).
func Assemble(params []sysex.Parameter) ([]Preset, []sysex.Diagnostic) {
	buckets := make(map[int][]sysex.Parameter)
	for _, p := range params {
		if p.Slot < 0 {
			// Temporary-area parameters are not slot material.
			continue
		}
		buckets[p.Slot] = append(buckets[p.Slot], p)
	}

	slots := make([]int, 0, len(buckets))
	for slot := range buckets {
		slots = append(slots, slot)
	}
	sort.Ints(slots)

	var presets []Preset
	var diags []sysex.Diagnostic
	for _, slot := range slots {
		bucket := buckets[slot]
		if !hasCommonBlock(bucket) {
			common.Logf("slot %d has %d parameters but no common block, dropped as orphaned", slot, len(bucket))
			diags = append(diags, sysex.Diagnostic{
				Ts:      time.Now().UTC(),
				Kind:    sysex.DiagOrphanedParams,
				Message: fmt.Sprintf("slot %d: %d parameters without a common block", slot, len(bucket)),
			})
			continue
		}
		sort.SliceStable(bucket, func(i, j int) bool {
			if bucket[i].Group != bucket[j].Group {
				return bucket[i].Group < bucket[j].Group
			}
			return bucket[i].Name < bucket[j].Name
		})
		presets = append(presets, Preset{
			Slot:       slot,
			Name:       commonName(bucket),
			Type:       inferType(bucket),
			Bank:       bankFields(bucket),
			Parameters: bucket,
		})
	}
	return presets, diags
}

func isCommonGroup(group string) bool {
	return strings.Contains(group, "_common")
}

func hasCommonBlock(bucket []sysex.Parameter) bool {
	for _, p := range bucket {
		if isCommonGroup(p.Group) {
			return true
		}
	}
	return false
}

// commonName pulls the ASCII name field of the slot's common block.
func commonName(bucket []sysex.Parameter) string {
	for _, p := range bucket {
		if isCommonGroup(p.Group) && p.Value.Kind() == sysex.TextValue {
			return p.Value.Text()
		}
	}
	return ""
}

// inferType decides the preset family. Performance blocks dominate: a slot
// carrying performance data is a performance even when its dump also holds
// patch blocks.
func inferType(bucket []sysex.Parameter) Type {
	var hasPatch, hasRhythm bool
	for _, p := range bucket {
		switch {
		case strings.Contains(p.Group, "performance"):
			return TypePerformance
		case strings.Contains(p.Group, "patch"):
			hasPatch = true
		case strings.Contains(p.Group, "rhythm"):
			hasRhythm = true
		}
	}
	if hasPatch {
		return TypePatch
	}
	if hasRhythm {
		return TypeRhythm
	}
	return TypePatch
}

// bankFields extracts the bank-select triple from the slot's patch common
// block, when present.
func bankFields(bucket []sysex.Parameter) *BankSelect {
	category, bank, number := -1, -1, -1
	for _, p := range bucket {
		if !isCommonGroup(p.Group) || p.Value.Kind() != sysex.ScalarValue {
			continue
		}
		switch p.Name {
		case "category":
			category = p.Value.Scalar()
		case "bank":
			bank = p.Value.Scalar()
		case "patch_number":
			number = p.Value.Scalar()
		}
	}
	if number < 0 {
		return nil
	}
	bs, ok := BankSelectFor(category, bank, number)
	if !ok {
		return nil
	}
	return &bs
}
