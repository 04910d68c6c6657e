package infra

// pdf.go — receipt and khata-statement generation using go-pdf/fpdf.
// Receipts are thermal-paper sized (74×105mm); statements are A5.
// Output files land under storagePath.

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-pdf/fpdf"

	"khatapos/internal/model"
)

// truncate shortens s to max runes with an ellipsis. Item names and khata
// descriptions may be Devanagari, so byte slicing would split a rune.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

// GenerateReceiptPDF renders a receipt for a completed sale.
// Returns the absolute path to the generated file.
func GenerateReceiptPDF(sale *model.Sale, shopName, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("receipt_%s.pdf", sale.ID))

	// 74mm × 105mm — close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, shopName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Sales Receipt", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, sale.Date.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if sale.CustomerName != "" {
		pdf.CellFormat(contentW, 4, "Customer: "+sale.CustomerName, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	col1 := contentW * 0.52
	col2 := contentW * 0.16
	col3 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Qty", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Amount", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range sale.Items {
		name := truncate(item.Name, 22)
		lineTotal := item.Price.Mul(item.Quantity)
		pdf.CellFormat(col1, 5, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, "x"+item.Quantity.String(), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "Rs "+lineTotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "PAID ("+string(sale.PaymentMethod)+"):", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "Rs "+sale.Amount.StringFixed(2), "", 1, "R", false, 0, "")

	if sale.Meta != nil {
		pdf.SetFont("Helvetica", "", 7)
		pdf.CellFormat(col1+col2, 4, "Remaining due:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, "Rs "+sale.Meta.RemainingDue.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Thank you, please visit again!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

// GenerateStatementPDF renders a customer's full khata statement: every
// debit/credit entry oldest-first with a running balance column.
func GenerateStatementPDF(customer *model.KhataCustomer, shopName, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("statement_%s.pdf", customer.ID))

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, shopName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Khata Statement — "+customer.Name, "", 1, "C", false, 0, "")
	if customer.Phone != "" {
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(contentW, 5, "Phone: "+customer.Phone, "", 1, "C", false, 0, "")
	}
	pdf.Ln(3)

	colDate := contentW * 0.22
	colDesc := contentW * 0.36
	colDebit := contentW * 0.14
	colCredit := contentW * 0.14
	colBal := contentW * 0.14

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(colDate, 6, "Date", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colDesc, 6, "Description", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colDebit, 6, "Debit", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colCredit, 6, "Credit", "B", 0, "R", false, 0, "")
	pdf.CellFormat(colBal, 6, "Balance", "B", 1, "R", false, 0, "")

	// Chronological math goes by entry date, never list position. The balance
	// column is the historical balance as of each row's date.
	entries := make([]model.KhataEntry, len(customer.Entries))
	copy(entries, customer.Entries)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})

	pdf.SetFont("Helvetica", "", 8)
	for i := range entries {
		e := entries[i]
		desc := truncate(e.Description, 26)
		debit, credit := "", ""
		if e.Type == model.EntryDebit {
			debit = e.Amount.StringFixed(2)
		} else {
			credit = e.Amount.StringFixed(2)
		}
		pdf.CellFormat(colDate, 5, e.Date.Format("02/01/2006"), "", 0, "L", false, 0, "")
		pdf.CellFormat(colDesc, 5, desc, "", 0, "L", false, 0, "")
		pdf.CellFormat(colDebit, 5, debit, "", 0, "R", false, 0, "")
		pdf.CellFormat(colCredit, 5, credit, "", 0, "R", false, 0, "")
		pdf.CellFormat(colBal, 5, customer.BalanceAt(e.Date).StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(colDate+colDesc+colDebit+colCredit, 7, "TOTAL DUE:", "", 0, "L", false, 0, "")
	pdf.CellFormat(colBal, 7, "Rs "+customer.Balance().StringFixed(2), "", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
