package preset

// BankSelect is the MIDI bank-select triple that recalls a stored sound:
// CC0 (MSB), CC32 (LSB) and program change.
type BankSelect struct {
	MSB int `json:"msb" yaml:"msb"`
	LSB int `json:"lsb" yaml:"lsb"`
	PC  int `json:"pc" yaml:"pc"`
}

// Expansion category values occupy a window of the common block's category
// field; anything inside it overrides the bank field.
const (
	expansionCategoryMin = 32
	expansionCategoryMax = 50
	expansionMSB         = 89
)

// BankSelectFor maps the common-block category and bank fields to a
// bank-select triple. The patch number passes through as the program change.
func BankSelectFor(category, bank, patchNumber int) (BankSelect, bool) {
	if category >= expansionCategoryMin && category <= expansionCategoryMax {
		return BankSelect{MSB: expansionMSB, LSB: category - expansionCategoryMin, PC: patchNumber}, true
	}
	switch {
	case bank >= 0 && bank <= 3: // Preset A-D
		return BankSelect{MSB: 80, LSB: bank, PC: patchNumber}, true
	case bank == 4: // User
		return BankSelect{MSB: 87, LSB: 0, PC: patchNumber}, true
	case bank == 5: // Card
		return BankSelect{MSB: 86, LSB: 0, PC: patchNumber}, true
	default:
		return BankSelect{}, false
	}
}
