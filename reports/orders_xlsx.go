package reports

import (
	"fmt"
	"io"
	"time"

	"github.com/tealeg/xlsx"

	"github.com/nusadigital/agency-site/models"
)

// OrdersSummary totals an order export
type OrdersSummary struct {
	TotalOrders int
	PaidOrders  int
	Pending     int
	Failed      int
	PaidRevenue float64
}

// SummarizeOrders computes the figures printed under the export table
func SummarizeOrders(orders []models.Order) OrdersSummary {
	var s OrdersSummary
	s.TotalOrders = len(orders)
	for _, o := range orders {
		switch o.PaymentStatus {
		case models.PaymentStatusPaid:
			s.PaidOrders++
			s.PaidRevenue += o.Amount
		case models.PaymentStatusFailed:
			s.Failed++
		default:
			s.Pending++
		}
	}
	return s
}

func boldStyle() *xlsx.Style {
	style := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	style.Font = *font
	return style
}

// WriteOrdersXLSX renders orders as a spreadsheet
func WriteOrdersXLSX(w io.Writer, orders []models.Order, generatedAt time.Time) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return fmt.Errorf("failed to create sheet: %v", err)
	}

	titleRow := sheet.AddRow()
	titleRow.AddCell().SetString("Nusa Digital - Orders")
	sheet.AddRow().AddCell().SetString("Generated: " + generatedAt.Format("2006-01-02 15:04"))
	sheet.AddRow()

	headers := []string{"Order ID", "Customer", "Email", "Amount (RM)", "Promo", "Method", "Status", "Bill ID", "Paid At", "Created"}
	headerRow := sheet.AddRow()
	bold := boldStyle()
	for _, h := range headers {
		cell := headerRow.AddCell()
		cell.SetString(h)
		cell.SetStyle(bold)
	}

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetString(o.ID)
		row.AddCell().SetString(o.CustomerName)
		row.AddCell().SetString(o.CustomerEmail)
		row.AddCell().SetFloat(o.Amount)
		row.AddCell().SetString(o.PromoCode)
		row.AddCell().SetString(o.PaymentMethod)
		row.AddCell().SetString(o.PaymentStatus)
		row.AddCell().SetString(o.BillplzBillID)
		paidAt := ""
		if o.PaidAt != nil {
			paidAt = o.PaidAt.Format("2006-01-02 15:04")
		}
		row.AddCell().SetString(paidAt)
		row.AddCell().SetString(o.CreatedAt.Format("2006-01-02 15:04"))
	}

	sheet.AddRow()
	summaryRow := sheet.AddRow()
	summaryRow.AddCell().SetString("Summary")
	summaryRow.Cells[0].SetStyle(bold)

	s := SummarizeOrders(orders)
	for _, data := range [][]string{
		{"Total Orders", fmt.Sprintf("%d", s.TotalOrders)},
		{"Paid", fmt.Sprintf("%d", s.PaidOrders)},
		{"Pending", fmt.Sprintf("%d", s.Pending)},
		{"Failed", fmt.Sprintf("%d", s.Failed)},
		{"Paid Revenue (RM)", fmt.Sprintf("%.2f", s.PaidRevenue)},
	} {
		row := sheet.AddRow()
		row.AddCell().SetString(data[0])
		row.AddCell().SetString(data[1])
	}

	return file.Write(w)
}
