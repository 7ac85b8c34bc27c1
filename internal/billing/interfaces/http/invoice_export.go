package http

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	billing "aidat-mock/internal/billing/domain"
)

const pdfFont = "DejaVu"

var (
	//go:embed fonts/DejaVuSans.ttf
	dejaVuSans []byte
	//go:embed fonts/DejaVuSans-Bold.ttf
	dejaVuSansBold []byte
)

// BuildInvoicePDF renders a minimal PDF for an invoice. Text is written with
// an embedded UTF-8 font so Turkish letters survive.
func BuildInvoicePDF(invoice *billing.Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddUTF8FontFromBytes(pdfFont, "", dejaVuSans)
	pdf.AddUTF8FontFromBytes(pdfFont, "B", dejaVuSansBold)
	pdf.SetFont(pdfFont, "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Invoice")
	pdf.Ln(10)
	pdf.SetFont(pdfFont, "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Invoice: %s", invoice.ID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Period: %s", invoice.PeriodName))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Unit: %s", invoice.UnitID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Tenant: %s (%s)", invoice.TenantName, invoice.TenantID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Payment status: %s", invoice.PaymentStatus))
	pdf.Ln(8)

	pdf.SetFont(pdfFont, "B", 10)
	pdf.CellFormat(110, 6, "Description", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Amount", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont(pdfFont, "", 10)
	for _, item := range invoice.Items {
		pdf.CellFormat(110, 6, item.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", item.Amount), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.SetFont(pdfFont, "B", 10)
	pdf.CellFormat(110, 6, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 6, fmt.Sprintf("%.2f", invoice.Total), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildInvoiceXLSX renders a summary sheet and an items sheet for an invoice.
func BuildInvoiceXLSX(invoice *billing.Invoice) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	summarySheet := "summary"
	itemsSheet := "items"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return nil, err
	}

	summary := [][2]any{
		{"Invoice", invoice.ID},
		{"Period ID", invoice.PeriodID},
		{"Period", invoice.PeriodName},
		{"Unit", invoice.UnitID},
		{"Tenant ID", invoice.TenantID},
		{"Tenant", invoice.TenantName},
		{"Payment Status", invoice.PaymentStatus},
		{"Total", invoice.Total},
	}
	for i, row := range summary {
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", i+1), row[0])
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", i+1), row[1])
	}

	_ = f.SetCellValue(itemsSheet, "A1", "Description")
	_ = f.SetCellValue(itemsSheet, "B1", "Amount")
	for i, item := range invoice.Items {
		row := i + 2
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("A%d", row), item.Description)
		_ = f.SetCellValue(itemsSheet, fmt.Sprintf("B%d", row), item.Amount)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
