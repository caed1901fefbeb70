// Package report renders account statements as PDF documents.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/moneymanager/money-api/internal/core/domain"
)

const maxRows = 500

var columnWidths = []float64{22, 26, 42, 62, 30}

// Statement is the input of RenderStatement. Summary is expected to be the
// range view, which lists every transaction of the period.
type Statement struct {
	Username    string
	Start, End  domain.Date
	Summary     *domain.Summary
	GeneratedAt time.Time
}

// Filename is the suggested download name for s.
func (s Statement) Filename() string {
	return fmt.Sprintf("statement-%s-to-%s.pdf", s.Start, s.End)
}

// RenderStatement writes s as a single-column A4 PDF to w.
func RenderStatement(w io.Writer, s Statement) error {
	if s.Summary == nil {
		return fmt.Errorf("render statement: missing summary")
	}
	if s.GeneratedAt.IsZero() {
		s.GeneratedAt = time.Now().UTC()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(14, 14, 14)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 10, fmt.Sprintf("Generated %s  |  page %d", s.GeneratedAt.Format(time.RFC3339), pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(20, 20, 20)
	pdf.Cell(0, 10, "Money Manager Statement")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s to %s", s.Start, s.End))
	pdf.Ln(5)
	pdf.Cell(0, 6, tr("User: "+s.Username))
	pdf.Ln(10)

	writeTotals(pdf, s.Summary)
	writeCategories(pdf, tr, "Income by category", s.Summary.IncomeByCategory)
	writeCategories(pdf, tr, "Expense by category", s.Summary.ExpenseByCategory)
	writeTransactions(pdf, tr, s.Summary.RecentTransactions)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render statement: %w", err)
	}
	return nil
}

func writeTotals(pdf *gofpdf.Fpdf, sum *domain.Summary) {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 11)

	w := 182.0 / 3
	pdf.CellFormat(w, 10, "Income", "1", 0, "C", true, 0, "")
	pdf.CellFormat(w, 10, "Expense", "1", 0, "C", true, 0, "")
	pdf.CellFormat(w, 10, "Balance", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(w, 10, money(sum.TotalIncome), "1", 0, "C", false, 0, "")
	pdf.CellFormat(w, 10, money(sum.TotalExpense), "1", 0, "C", false, 0, "")
	pdf.CellFormat(w, 10, money(sum.Balance), "1", 1, "C", false, 0, "")
	pdf.Ln(6)
}

func writeCategories(pdf *gofpdf.Fpdf, tr func(string) string, title string, totals []domain.CategoryTotal) {
	if len(totals) == 0 {
		return
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	for _, ct := range totals {
		pdf.CellFormat(120, 7, tr(trimTo(ct.Category, 60)), "B", 0, "L", false, 0, "")
		pdf.CellFormat(62, 7, money(ct.Amount), "B", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}

func writeTransactions(pdf *gofpdf.Fpdf, tr func(string) string, rows []domain.TransactionView) {
	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(245, 245, 245)
		for i, h := range []string{"TYPE", "DATE", "CATEGORY", "DESCRIPTION", "AMOUNT"} {
			align := "L"
			if i == len(columnWidths)-1 {
				align = "R"
			}
			pdf.CellFormat(columnWidths[i], 8, h, "1", 0, align, true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 8, "Transactions")
	pdf.Ln(8)
	header()

	if len(rows) == 0 {
		pdf.CellFormat(0, 8, "No transactions in this period", "1", 1, "C", false, 0, "")
		return
	}

	for i, r := range rows {
		if i >= maxRows {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 8, fmt.Sprintf("%d more transactions not shown", len(rows)-maxRows), "1", 1, "C", false, 0, "")
			return
		}
		if pdf.GetY() > 265 {
			pdf.AddPage()
			header()
		}

		amount := money(r.Amount)
		if r.Type == domain.KindExpense {
			amount = "-" + amount
		}
		pdf.CellFormat(columnWidths[0], 8, r.Type.Label(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(columnWidths[1], 8, r.Date.String(), "1", 0, "L", false, 0, "")
		pdf.CellFormat(columnWidths[2], 8, tr(trimTo(r.Category, 22)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(columnWidths[3], 8, tr(trimTo(r.Description, 34)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(columnWidths[4], 8, amount, "1", 1, "R", false, 0, "")
	}
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func trimTo(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
