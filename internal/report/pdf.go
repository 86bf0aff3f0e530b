package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"example.com/jvgate/internal/export"
	"example.com/jvgate/internal/preset"
)

// SaveBankPDF renders a printable sheet for one decoded bank: summary,
// preset table, and scannable recall codes for presets that carry a
// bank-select triple.
func SaveBankPDF(presets []preset.Preset, analysis preset.Analysis, src *export.Source, out string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Bank Sheet", false)
	pdf.SetAuthor("jvctl", false)
	pdf.SetCreator("jvctl", false)
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	addPDFTitle(pdf, "Bank Sheet")
	addSummarySection(pdf, analysis, src)
	addPresetTableSection(pdf, presets)
	addRecallSection(pdf, presets)

	if pdf.Err() {
		return pdf.Error()
	}
	return pdf.OutputFileAndClose(out)
}

func addPDFTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)
}

func addSummarySection(pdf *gofpdf.Fpdf, analysis preset.Analysis, src *export.Source) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	items := []struct {
		label string
		value string
	}{
		{label: "Presets", value: strconv.Itoa(analysis.Presets)},
		{label: "Performances", value: strconv.Itoa(analysis.TypeCounts[preset.TypePerformance])},
		{label: "Patches", value: strconv.Itoa(analysis.TypeCounts[preset.TypePatch])},
		{label: "Rhythm sets", value: strconv.Itoa(analysis.TypeCounts[preset.TypeRhythm])},
	}
	if src != nil {
		items = append(items,
			struct{ label, value string }{label: "Source", value: src.File},
			struct{ label, value string }{label: "SHA-256", value: src.SHA256},
		)
	}
	for _, item := range items {
		pdf.CellFormat(50, 6, item.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, item.value, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func addPresetTableSection(pdf *gofpdf.Fpdf, presets []preset.Preset) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Presets")
	pdf.Ln(9)

	headers := []string{"Slot", "Name", "Type", "MSB", "LSB", "PC"}
	widths := []float64{16, 80, 36, 16, 16, 16}

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	lineHeight := 5.0
	for _, p := range presets {
		msb, lsb, pc := "-", "-", "-"
		if p.Bank != nil {
			msb = strconv.Itoa(p.Bank.MSB)
			lsb = strconv.Itoa(p.Bank.LSB)
			pc = strconv.Itoa(p.Bank.PC)
		}
		values := []string{
			strconv.Itoa(p.Slot),
			emptyFallback(p.Name, "-"),
			string(p.Type),
			msb,
			lsb,
			pc,
		}
		renderTableRow(pdf, widths, values, lineHeight)
	}
	pdf.Ln(4)
}

func addRecallSection(pdf *gofpdf.Fpdf, presets []preset.Preset) {
	withBank := make([]preset.Preset, 0, len(presets))
	for _, p := range presets {
		if p.Bank != nil {
			withBank = append(withBank, p)
		}
	}
	if len(withBank) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Recall Codes")
	pdf.Ln(9)

	const qrSize = 22.0
	for _, p := range withBank {
		png, err := BankSelectQR(*p.Bank, 256)
		if err != nil {
			continue
		}
		name := fmt.Sprintf("qr-%03d", p.Slot)
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))

		x, y := pdf.GetX(), pdf.GetY()
		pdf.ImageOptions(name, x, y, qrSize, qrSize, false, opts, 0, "")
		pdf.SetXY(x+qrSize+4, y+2)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.Cell(0, 5, fmt.Sprintf("%03d %s", p.Slot, emptyFallback(p.Name, "-")))
		pdf.SetXY(x+qrSize+4, y+8)
		pdf.SetFont("Helvetica", "", 9)
		pdf.Cell(0, 5, bankSelectText(*p.Bank))
		pdf.SetXY(x, y+qrSize+4)
	}
}

func renderTableRow(pdf *gofpdf.Fpdf, widths []float64, values []string, lineHeight float64) {
	xStart := pdf.GetX()
	yStart := pdf.GetY()
	maxLines := 1
	splitCols := make([][]string, len(values))
	for i, val := range values {
		text := strings.TrimSpace(val)
		if text == "" {
			text = "-"
		}
		lines := pdf.SplitText(text, widths[i]-2)
		if len(lines) == 0 {
			lines = []string{""}
		}
		splitCols[i] = lines
		if len(lines) > maxLines {
			maxLines = len(lines)
		}
	}
	rowHeight := float64(maxLines) * lineHeight
	x := xStart
	for i, lines := range splitCols {
		pdf.SetXY(x, yStart)
		cellText := strings.Join(lines, "\n")
		pdf.MultiCell(widths[i], lineHeight, cellText, "1", "L", false)
		x += widths[i]
	}
	pdf.SetXY(xStart, yStart+rowHeight)
}

func emptyFallback(val, fallback string) string {
	if strings.TrimSpace(val) == "" {
		return fallback
	}
	return val
}
