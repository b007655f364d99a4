package services

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"buildquote/models"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// The three artifact generators are pure transforms of one RFQPayload.
// Field values render verbatim; a missing field is a blank cell, never a
// placeholder and never a failure. The CSV is the lossless canonical
// export; only the PDF truncates, and only for column fit.

// CSVHeader is the fixed first row of the CSV export.
var CSVHeader = []string{"Product Name", "SKU", "Product ID", "Description/Specs", "Unit of Measure", "Quantity"}

// csvField quote-wraps one value with embedded quotes doubled. Every
// field is wrapped, not just the ones that need it, so the artifact bytes
// stay stable across inputs.
func csvField(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// GenerateRFQCSV renders the payload's items as CSV, one row per item in
// order. No row limit and no truncation.
func GenerateRFQCSV(payload models.RFQPayload) []byte {
	var b strings.Builder

	for i, h := range CSVHeader {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(csvField(h))
	}
	for _, item := range payload.Items {
		b.WriteByte('\n')
		fields := []string{item.Name, item.SKU, item.ProductID, item.Desc, item.UOM, item.Qty}
		for i, f := range fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(csvField(f))
		}
	}

	return []byte(b.String())
}

const emailTemplateHTML = `<!DOCTYPE html>
<html>
<body style="font-family:sans-serif;background:#f9fafb;margin:0;padding:24px;">
  <div style="max-width:600px;margin:0 auto;background:white;border-radius:12px;overflow:hidden;box-shadow:0 1px 3px rgba(0,0,0,0.1);">

    <div style="background:#1f2937;padding:24px 32px;">
      <h1 style="color:#f97316;margin:0;font-size:24px;font-weight:800;letter-spacing:-0.5px;">BuildQuote</h1>
      <p style="color:#9ca3af;margin:4px 0 0;font-size:14px;">Request for Quote</p>
    </div>

    <div style="padding:32px;">

      <table style="width:100%;margin-bottom:24px;">
        <tr>
          <td style="width:50%;vertical-align:top;">
            <p style="color:#f97316;font-size:11px;font-weight:700;text-transform:uppercase;letter-spacing:1px;margin:0 0 8px;">From</p>
            <p style="margin:0;font-weight:600;">{{.Payload.Builder.BuilderName}}</p>
            <p style="margin:0;color:#6b7280;">{{.Payload.Builder.Company}}</p>
            <p style="margin:0;color:#6b7280;">ABN: {{.Payload.Builder.ABN}}</p>
            <p style="margin:0;color:#6b7280;">{{.Payload.Builder.Phone}}</p>
            <p style="margin:0;color:#6b7280;">{{.Payload.Builder.Email}}</p>
          </td>
          <td style="width:50%;vertical-align:top;">
            <p style="color:#f97316;font-size:11px;font-weight:700;text-transform:uppercase;letter-spacing:1px;margin:0 0 8px;">To</p>
            <p style="margin:0;font-weight:600;">{{.Payload.Supplier.SupplierName}}</p>
            {{if .Payload.Supplier.AccountNumber}}<p style="margin:0;color:#6b7280;">Account: {{.Payload.Supplier.AccountNumber}}</p>{{end}}
          </td>
        </tr>
      </table>

      <div style="background:#f9fafb;border-radius:8px;padding:16px;margin-bottom:24px;">
        <p style="margin:0;color:#6b7280;font-size:14px;">
          <strong>Delivery:</strong> {{.DeliveryLabel}} &nbsp;|&nbsp;
          <strong>Date Required:</strong> {{.DateRequired}}
        </p>
      </div>

      <p style="color:#f97316;font-size:11px;font-weight:700;text-transform:uppercase;letter-spacing:1px;margin:0 0 8px;">Line Items</p>
      <table style="width:100%;border-collapse:collapse;margin-bottom:24px;">
        <thead>
          <tr style="background:#f9fafb;">
            <th style="padding:8px 12px;text-align:left;font-size:12px;color:#6b7280;">#</th>
            <th style="padding:8px 12px;text-align:left;font-size:12px;color:#6b7280;">Product</th>
            <th style="padding:8px 12px;text-align:left;font-size:12px;color:#6b7280;">SKU</th>
            <th style="padding:8px 12px;text-align:left;font-size:12px;color:#6b7280;">UOM</th>
            <th style="padding:8px 12px;text-align:left;font-size:12px;color:#6b7280;">Qty</th>
          </tr>
        </thead>
        <tbody>
          {{range $i, $item := .Payload.Items}}
          <tr style="border-bottom:1px solid #e5e7eb;">
            <td style="padding:8px 12px;color:#6b7280;">{{inc $i}}</td>
            <td style="padding:8px 12px;font-weight:500;">{{$item.Name}}</td>
            <td style="padding:8px 12px;color:#6b7280;">{{$item.SKU}}</td>
            <td style="padding:8px 12px;color:#6b7280;">{{$item.UOM}}</td>
            <td style="padding:8px 12px;color:#6b7280;">{{$item.Qty}}</td>
          </tr>
          {{end}}
        </tbody>
      </table>

      {{if .Payload.Message}}
      <div style="background:#f9fafb;border-radius:8px;padding:16px;margin-bottom:24px;">
        <p style="color:#f97316;font-size:11px;font-weight:700;text-transform:uppercase;letter-spacing:1px;margin:0 0 8px;">Message</p>
        <p style="margin:0;color:#374151;">{{.Payload.Message}}</p>
      </div>
      {{end}}

      <div style="border-top:1px solid #e5e7eb;padding-top:16px;">
        <p style="margin:0;color:#6b7280;font-size:13px;"><strong>RFQ Reference:</strong> {{.Payload.RFQID}}</p>
        <p style="margin:0;color:#6b7280;font-size:13px;"><strong>Sent:</strong> {{.SentDate}}</p>
      </div>

    </div>

    <div style="background:#f9fafb;padding:16px 32px;text-align:center;">
      <p style="margin:0;color:#9ca3af;font-size:12px;">Sent via <strong style="color:#f97316;">BuildQuote</strong> &mdash; Southwest WA Builder Tools</p>
    </div>

  </div>
</body>
</html>`

var emailTemplate = template.Must(template.New("rfq_email").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(emailTemplateHTML))

// deliveryLabel renders the delivery mode the way the email and PDF
// describe it to the supplier.
func deliveryLabel(mode string) string {
	if mode == models.DeliveryModePickup {
		return "Store pick-up"
	}
	return "Delivery required"
}

func dateRequiredLabel(dateRequired string) string {
	if dateRequired == "" {
		return "ASAP"
	}
	return dateRequired
}

// BuildRFQEmailHTML renders the payload into the self-contained email
// body. All items render; there is no row limit.
func BuildRFQEmailHTML(payload models.RFQPayload, sentAt time.Time) (string, error) {
	var buf bytes.Buffer
	err := emailTemplate.Execute(&buf, struct {
		Payload       models.RFQPayload
		DeliveryLabel string
		DateRequired  string
		SentDate      string
	}{
		Payload:       payload,
		DeliveryLabel: deliveryLabel(payload.Delivery),
		DateRequired:  dateRequiredLabel(payload.DateRequired),
		SentDate:      sentAt.Format("2 January 2006"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render email body: %v", err)
	}
	return buf.String(), nil
}

// PDF column truncation widths. Presentational only: the underlying item
// text is never truncated in storage, email, or CSV.
const (
	pdfNameChars = 38
	pdfSKUChars  = 14
	pdfUOMChars  = 8
	pdfQtyChars  = 8
)

// pdfMessageWrapChars is the greedy word-wrap threshold for the free-text
// message block.
const pdfMessageWrapChars = 80

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// wrapMessage splits a message into lines with a greedy word wrap at the
// fixed character threshold.
func wrapMessage(message string, width int) []string {
	var lines []string
	var line string
	for _, word := range strings.Fields(message) {
		if line != "" && len(line)+len(word) > width {
			lines = append(lines, strings.TrimSpace(line))
			line = ""
		}
		line += word + " "
	}
	if strings.TrimSpace(line) != "" {
		lines = append(lines, strings.TrimSpace(line))
	}
	return lines
}

// pdfBottomLimit is the row cursor position (mm) past which a new page is
// started. Rows are paginated rather than dropped; a truncated commercial
// document loses real orders.
const pdfBottomLimit = 265.0

// GenerateRFQPDF renders the payload onto A4 pages: header band, FROM/TO
// columns, delivery summary, a striped item table that paginates, the
// optional message block, and a reference/timestamp footer.
func GenerateRFQPDF(payload models.RFQPayload, sentAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	// Header band
	pdf.SetFillColor(31, 41, 55)
	pdf.Rect(0, 0, 210, 26, "F")
	pdf.SetXY(12, 6)
	pdf.SetFont("Arial", "B", 20)
	pdf.SetTextColor(249, 115, 22)
	pdf.Cell(100, 10, "BuildQuote")
	pdf.SetXY(12, 16)
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(150, 150, 150)
	pdf.Cell(100, 6, "Request for Quote")

	// FROM / TO
	pdf.SetXY(12, 34)
	pdf.SetFont("Arial", "B", 8)
	pdf.SetTextColor(249, 115, 22)
	pdf.Cell(95, 5, "FROM")
	pdf.Cell(95, 5, "TO")
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 11)
	pdf.SetTextColor(31, 41, 55)
	pdf.Cell(95, 6, payload.Builder.BuilderName)
	pdf.Cell(95, 6, payload.Supplier.SupplierName)
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(107, 114, 128)
	pdf.Cell(95, 5, payload.Builder.Company)
	if payload.Supplier.AccountNumber != "" {
		pdf.Cell(95, 5, "Account: "+payload.Supplier.AccountNumber)
	}
	pdf.Ln(5)
	pdf.Cell(95, 5, "ABN: "+payload.Builder.ABN)
	pdf.Ln(5)
	pdf.Cell(95, 5, payload.Builder.Phone)
	pdf.Ln(5)
	pdf.Cell(95, 5, payload.Builder.Email)
	pdf.Ln(9)

	// Delivery bar
	pdf.SetFillColor(247, 249, 250)
	pdf.Rect(12, pdf.GetY(), 186, 9, "F")
	pdf.SetX(15)
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(180, 9, fmt.Sprintf("Delivery: %s   |   Date Required: %s",
		deliveryLabel(payload.Delivery), dateRequiredLabel(payload.DateRequired)), "", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Item table
	pdf.SetFont("Arial", "B", 8)
	pdf.SetTextColor(249, 115, 22)
	pdf.Cell(95, 5, "LINE ITEMS")
	pdf.Ln(6)

	drawTableHeader(pdf)
	for i, item := range payload.Items {
		if pdf.GetY() > pdfBottomLimit {
			pdf.AddPage()
			pdf.SetY(16)
			drawTableHeader(pdf)
		}
		fill := i%2 == 1
		pdf.SetFillColor(247, 249, 250)
		pdf.SetFont("Arial", "", 8)
		pdf.SetTextColor(107, 114, 128)
		pdf.CellFormat(10, 7, fmt.Sprintf("%d", i+1), "", 0, "L", fill, 0, "")
		pdf.SetTextColor(31, 41, 55)
		pdf.CellFormat(91, 7, truncate(item.Name, pdfNameChars), "", 0, "L", fill, 0, "")
		pdf.SetTextColor(107, 114, 128)
		pdf.CellFormat(40, 7, truncate(item.SKU, pdfSKUChars), "", 0, "L", fill, 0, "")
		pdf.CellFormat(20, 7, truncate(item.UOM, pdfUOMChars), "", 0, "L", fill, 0, "")
		pdf.CellFormat(25, 7, truncate(item.Qty, pdfQtyChars), "", 1, "L", fill, 0, "")
	}
	pdf.Ln(6)

	// Message block
	if payload.Message != "" {
		if pdf.GetY() > pdfBottomLimit-20 {
			pdf.AddPage()
			pdf.SetY(16)
		}
		pdf.SetFont("Arial", "B", 8)
		pdf.SetTextColor(249, 115, 22)
		pdf.Cell(95, 5, "MESSAGE")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(107, 114, 128)
		for _, line := range wrapMessage(payload.Message, pdfMessageWrapChars) {
			if pdf.GetY() > pdfBottomLimit {
				pdf.AddPage()
				pdf.SetY(16)
				pdf.SetFont("Arial", "", 9)
				pdf.SetTextColor(107, 114, 128)
			}
			pdf.Cell(186, 5, line)
			pdf.Ln(5)
		}
	}

	// Footer band
	pdf.SetFillColor(247, 249, 250)
	pdf.Rect(0, 283, 210, 14, "F")
	pdf.SetXY(12, 286)
	pdf.SetFont("Arial", "", 8)
	pdf.SetTextColor(107, 114, 128)
	pdf.Cell(186, 6, fmt.Sprintf("RFQ Reference: %s   |   Sent: %s   |   Sent via BuildQuote",
		payload.RFQID, sentAt.Format("02/01/2006")))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %v", err)
	}
	return buf.Bytes(), nil
}

func drawTableHeader(pdf *gofpdf.Fpdf) {
	pdf.SetFillColor(31, 41, 55)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Arial", "B", 8)
	pdf.CellFormat(10, 7, "#", "", 0, "L", true, 0, "")
	pdf.CellFormat(91, 7, "Product Name", "", 0, "L", true, 0, "")
	pdf.CellFormat(40, 7, "SKU", "", 0, "L", true, 0, "")
	pdf.CellFormat(20, 7, "UOM", "", 0, "L", true, 0, "")
	pdf.CellFormat(25, 7, "Qty", "", 1, "L", true, 0, "")
}

// GenerateRFQXLSX renders the payload as a spreadsheet: a summary block,
// then the same columns as the CSV with no truncation.
func GenerateRFQXLSX(payload models.RFQPayload, sentAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "RFQ"
	f.SetSheetName("Sheet1", sheet)

	titleCaser := cases.Title(language.Und)
	summary := [][]interface{}{
		{"RFQ Reference", payload.RFQID},
		{"Builder", payload.Builder.BuilderName},
		{"Company", payload.Builder.Company},
		{"Supplier", payload.Supplier.SupplierName},
		{"Delivery", titleCaser.String(payload.Delivery)},
		{"Date Required", dateRequiredLabel(payload.DateRequired)},
		{"Sent", sentAt.Format("02/01/2006")},
	}
	row := 1
	for _, pair := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &pair); err != nil {
			return nil, fmt.Errorf("failed to write summary row: %v", err)
		}
		row++
	}
	row++

	header := make([]interface{}, len(CSVHeader))
	for i, h := range CSVHeader {
		header[i] = h
	}
	cell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetSheetRow(sheet, cell, &header); err != nil {
		return nil, fmt.Errorf("failed to write header row: %v", err)
	}
	row++

	for _, item := range payload.Items {
		values := []interface{}{item.Name, item.SKU, item.ProductID, item.Desc, item.UOM, item.Qty}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write item row: %v", err)
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to generate XLSX: %v", err)
	}
	return buf.Bytes(), nil
}
