package report

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"example.com/jvgate/internal/preset"
)

// BankSelectQR creates a QR code PNG encoding the MIDI recall address of a
// preset, scannable from a printed bank sheet.
func BankSelectQR(bs preset.BankSelect, size int) ([]byte, error) {
	if size <= 0 {
		size = 128
	}
	return qrcode.Encode(bankSelectText(bs), qrcode.Medium, size)
}

func bankSelectText(bs preset.BankSelect) string {
	return fmt.Sprintf("JV1080 MSB=%d LSB=%d PC=%d", bs.MSB, bs.LSB, bs.PC)
}
