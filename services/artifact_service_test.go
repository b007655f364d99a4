package services

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"buildquote/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func samplePayload() models.RFQPayload {
	return models.RFQPayload{
		RFQID: "RFQ-2026-4821",
		Builder: models.BuilderDetails{
			BuilderName: "Dave Thompson",
			Company:     "Thompson Homes",
			ABN:         "51 824 753 556",
			Phone:       "0419 555 120",
			Email:       "dave@thompsonhomes.com.au",
		},
		Supplier: models.SupplierDetails{
			SupplierName:  "Bunbury Timber & Hardware",
			SupplierEmail: "sales@bunburytimber.com.au",
			AccountNumber: "TH-0042",
		},
		Items: []models.LineItem{
			{ID: "a", Name: "H2 Framing Timber 190x35", SKU: "TIM19035", ProductID: "P-100", Desc: "H2 treated pine 190x35", UOM: "LM", Qty: "2 @ 3.6, 1 @ 4.8"},
			{ID: "b", Name: `Plasterboard 10mm "Aquachek"`, SKU: "", ProductID: "", Desc: "", UOM: "EA", Qty: "12"},
		},
		Delivery:     models.DeliveryModeDelivery,
		DateRequired: "2026-09-15",
		Message:      "Please quote delivery to the Dalyellup site.",
	}
}

func TestGenerateRFQCSVRoundTrip(t *testing.T) {
	raw := GenerateRFQCSV(samplePayload())

	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, CSVHeader, records[0])
	assert.Equal(t, []string{"H2 Framing Timber 190x35", "TIM19035", "P-100", "H2 treated pine 190x35", "LM", "2 @ 3.6, 1 @ 4.8"}, records[1])
	assert.Equal(t, []string{`Plasterboard 10mm "Aquachek"`, "", "", "", "EA", "12"}, records[2])
}

func TestGenerateRFQCSVQuotesEveryField(t *testing.T) {
	raw := string(GenerateRFQCSV(samplePayload()))

	lines := strings.Split(raw, "\n")
	assert.Equal(t, `"Product Name","SKU","Product ID","Description/Specs","Unit of Measure","Quantity"`, lines[0])
	// Blank fields still render as quoted empties.
	assert.Contains(t, lines[2], `"","","",`)
	// Embedded quotes double.
	assert.Contains(t, lines[2], `"Plasterboard 10mm ""Aquachek"""`)
}

func TestGenerateRFQCSVEmptyItems(t *testing.T) {
	payload := samplePayload()
	payload.Items = nil

	records, err := csv.NewReader(bytes.NewReader(GenerateRFQCSV(payload))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, CSVHeader, records[0])
}

func TestBuildRFQEmailHTML(t *testing.T) {
	sentAt := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	html, err := BuildRFQEmailHTML(samplePayload(), sentAt)
	require.NoError(t, err)

	assert.Contains(t, html, "Dave Thompson")
	assert.Contains(t, html, "Thompson Homes")
	assert.Contains(t, html, "Bunbury Timber &amp; Hardware")
	assert.Contains(t, html, "RFQ-2026-4821")
	assert.Contains(t, html, "Delivery required")
	assert.Contains(t, html, "2026-09-15")
	assert.Contains(t, html, "Please quote delivery to the Dalyellup site.")
	assert.Contains(t, html, "30 August 2026")
	// Qty renders as the literal the user typed, never computed.
	assert.Contains(t, html, "2 @ 3.6, 1 @ 4.8")
}

func TestBuildRFQEmailHTMLPickupAndDefaults(t *testing.T) {
	payload := samplePayload()
	payload.Delivery = models.DeliveryModePickup
	payload.DateRequired = ""
	payload.Message = ""

	html, err := BuildRFQEmailHTML(payload, time.Now())
	require.NoError(t, err)

	assert.Contains(t, html, "Store pick-up")
	assert.Contains(t, html, "ASAP")
	assert.NotContains(t, html, ">Message<")
}

func TestGenerateRFQPDF(t *testing.T) {
	raw, err := GenerateRFQPDF(samplePayload(), time.Now())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
	assert.Greater(t, len(raw), 1000)
}

func TestGenerateRFQPDFManyItemsPaginates(t *testing.T) {
	payload := samplePayload()
	payload.Items = nil
	for i := 0; i < 120; i++ {
		payload.Items = append(payload.Items, models.LineItem{
			ID: "x", Name: "Gyprock Plus 3000x1200x10mm RE", UOM: "EA", Qty: "4",
		})
	}

	raw, err := GenerateRFQPDF(payload, time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	// More page objects than the two-item document means rows spilled onto
	// later pages instead of being dropped.
	small, err := GenerateRFQPDF(samplePayload(), time.Now())
	require.NoError(t, err)
	assert.Greater(t,
		bytes.Count(raw, []byte("/Type /Page")),
		bytes.Count(small, []byte("/Type /Page")))
}

func TestGenerateRFQXLSX(t *testing.T) {
	raw, err := GenerateRFQXLSX(samplePayload(), time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	ref, err := f.GetCellValue("RFQ", "B1")
	require.NoError(t, err)
	assert.Equal(t, "RFQ-2026-4821", ref)

	qty, err := f.GetCellValue("RFQ", "F10")
	require.NoError(t, err)
	assert.Equal(t, "2 @ 3.6, 1 @ 4.8", qty)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 38))
	assert.Equal(t, strings.Repeat("x", 14), truncate(strings.Repeat("x", 30), 14))
}

func TestWrapMessage(t *testing.T) {
	lines := wrapMessage("one two three four", 9)
	assert.Equal(t, []string{"one two", "three", "four"}, lines)

	assert.Empty(t, wrapMessage("", 80))
	assert.Equal(t, []string{"single"}, wrapMessage("single", 80))
}
