package reports

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
)

// ReportPDF renders a single cashier report as a printable A4 sheet.
func (h *Handler) ReportPDF(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid report id")
	}
	report, err := h.Store.GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "report not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "failed to load report")
	}
	if !h.canView(c, report) {
		return fiber.NewError(fiber.StatusForbidden, "access denied")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.AddPage()

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Cashier Day Report #"+strconv.FormatInt(report.ID, 10))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, "Date: "+report.ReportDate)
	pdf.Ln(5)
	pdf.Cell(0, 6, "Cashier: "+report.UserName)
	pdf.Ln(5)
	pdf.Cell(0, 6, "Status: "+strings.ToUpper(report.Status))
	pdf.Ln(10)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 11)

	sumW := []float64{46, 46, 46, 46}
	pdf.CellFormat(sumW[0], 10, "Opening", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[1], 10, "Income", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[2], 10, "Expenses", "1", 0, "C", true, 0, "")
	pdf.CellFormat(sumW[3], 10, "Closing", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(sumW[0], 10, formatAmount(report.OpeningBalance), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[1], 10, formatAmount(report.TotalIncome), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[2], 10, formatAmount(report.TotalExpenses), "1", 0, "C", false, 0, "")
	pdf.CellFormat(sumW[3], 10, formatAmount(report.ClosingBalance), "1", 1, "C", false, 0, "")
	pdf.Ln(6)

	h.pdfLineTable(pdf, "INCOME", report.Income)
	h.pdfLineTable(pdf, "EXPENSES", report.Expenses)

	if len(report.Payments) > 0 {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(245, 245, 245)
		colW := []float64{134, 50}
		pdf.CellFormat(colW[0], 8, "PAYMENT METHOD", "1", 0, "L", true, 0, "")
		pdf.CellFormat(colW[1], 8, "AMOUNT", "1", 1, "R", true, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		for _, p := range report.Payments {
			pdf.CellFormat(colW[0], 8, trimTo(p.PaymentMethodName, 80), "1", 0, "L", false, 0, "")
			pdf.CellFormat(colW[1], 8, formatAmount(p.Amount), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(6)
	}

	if report.Notes != nil && strings.TrimSpace(*report.Notes) != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(80, 80, 80)
		pdf.MultiCell(0, 6, "Notes: "+*report.Notes, "", "L", false)
	}

	pdf.SetY(-18)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 10, "Generated "+time.Now().Format(time.RFC3339), "", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "pdf build failed: "+err.Error())
	}

	filename := "cashier-report-" + report.ReportDate + ".pdf"
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}

func (h *Handler) pdfLineTable(pdf *gofpdf.Fpdf, title string, lines []Line) {
	if len(lines) == 0 {
		return
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(245, 245, 245)
	pdf.SetTextColor(20, 20, 20)

	colW := []float64{64, 70, 50}
	pdf.CellFormat(colW[0], 8, title, "1", 0, "L", true, 0, "")
	pdf.CellFormat(colW[1], 8, "NOTES", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colW[2], 8, "AMOUNT", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(30, 30, 30)
	for _, l := range lines {
		if pdf.GetY() > 270 {
			pdf.AddPage()
		}
		notes := ""
		if l.Notes != nil {
			notes = *l.Notes
		}
		pdf.CellFormat(colW[0], 8, trimTo(l.CategoryName, 40), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[1], 8, trimTo(notes, 50), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colW[2], 8, formatAmount(l.Amount), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)
}

// trimTo caps a cell value at max characters. Counting runes, not bytes,
// keeps Cyrillic names intact.
func trimTo(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// formatAmount renders a decimal with thousand separators, e.g. 1,250,000.00.
func formatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	l := len(intPart)
	for i := 0; i < l; i++ {
		b.WriteByte(intPart[i])
		rem := l - i - 1
		if rem > 0 && rem%3 == 0 {
			b.WriteByte(',')
		}
	}
	return sign + b.String() + "." + fracPart
}
