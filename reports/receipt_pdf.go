package reports

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/nusadigital/agency-site/billplz"
	"github.com/nusadigital/agency-site/models"
)

// WriteReceiptPDF renders a payment receipt for a paid order
func WriteReceiptPDF(w io.Writer, order *models.Order) error {
	if order.PaymentStatus != models.PaymentStatusPaid {
		return fmt.Errorf("order %s is not paid", order.ID)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, "Nusa Digital Sdn. Bhd.")
	pdf.SetFont("Arial", "", 12)
	pdf.Ln(8)
	pdf.Cell(100, 8, "Level 12, Menara Digital, Kuala Lumpur")
	pdf.Ln(8)
	pdf.Cell(100, 8, "Email: billing@nusadigital.my")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	paidAt := order.UpdatedAt
	if order.PaidAt != nil {
		paidAt = *order.PaidAt
	}
	rows := [][2]string{
		{"Order ID", order.ID},
		{"Paid At", paidAt.Format("2006-01-02 15:04")},
		{"Payment Method", order.PaymentMethod},
		{"Reference", reference(order)},
		{"Billed To", order.CustomerName},
		{"Email", order.CustomerEmail},
	}
	for _, r := range rows {
		pdf.CellFormat(50, 8, r[0]+":", "", 0, "L", false, 0, "")
		pdf.CellFormat(120, 8, r[1], "", 1, "L", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(120, 10, "Amount Paid:", "T", 0, "L", false, 0, "")
	pdf.CellFormat(50, 10, "RM "+billplz.FormatAmount(order.Amount), "T", 1, "R", false, 0, "")
	if order.PromoCode != "" {
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(120, 8, "Promo Code:", "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 8, order.PromoCode, "", 1, "R", false, 0, "")
	}

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 12)
	pdf.Cell(0, 10, "Thank you for working with Nusa Digital!")

	return pdf.Output(w)
}

func reference(order *models.Order) string {
	switch {
	case order.BillplzBillID != "":
		return order.BillplzBillID
	case order.StripeSessionID != "":
		return order.StripeSessionID
	default:
		return "-"
	}
}
