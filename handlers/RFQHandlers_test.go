package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"buildquote/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rfqRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/rfq/pdf", DownloadRFQPDF())
	r.POST("/api/rfq/csv", DownloadRFQCSV())
	r.POST("/api/rfq/xlsx", DownloadRFQXLSX())
	r.GET("/api/rfq/label", RFQLabel())
	return r
}

func postPayload(t *testing.T, r *gin.Engine, path string, payload models.RFQPayload) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func downloadPayload() models.RFQPayload {
	return models.RFQPayload{
		RFQID:   "RFQ-2026-1234",
		Builder: models.BuilderDetails{BuilderName: "Dave Thompson", Company: "Thompson Homes"},
		Supplier: models.SupplierDetails{
			SupplierName: "Bunbury Timber & Hardware",
		},
		Items: []models.LineItem{
			{ID: "a", Name: "H2 Framing Timber 190x35", UOM: "LM", Qty: "2 @ 3.6, 1 @ 4.8"},
		},
		Delivery: models.DeliveryModeDelivery,
	}
}

func TestDownloadRFQCSV(t *testing.T) {
	w := postPayload(t, rfqRouter(), "/api/rfq/csv", downloadPayload())

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="RFQ-2026-1234.csv"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), `"2 @ 3.6, 1 @ 4.8"`)
}

func TestDownloadRFQPDF(t *testing.T) {
	w := postPayload(t, rfqRouter(), "/api/rfq/pdf", downloadPayload())

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="RFQ-2026-1234.pdf"`, w.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func TestDownloadRFQXLSX(t *testing.T) {
	w := postPayload(t, rfqRouter(), "/api/rfq/xlsx", downloadPayload())

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="RFQ-2026-1234.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.NotEmpty(t, w.Body.Bytes())
}

func TestDownloadAssignsReferenceWhenMissing(t *testing.T) {
	payload := downloadPayload()
	payload.RFQID = ""
	w := postPayload(t, rfqRouter(), "/api/rfq/csv", payload)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Regexp(t, `attachment; filename="RFQ-\d{4}-\d{4}\.csv"`, w.Header().Get("Content-Disposition"))
}

func TestRFQLabel(t *testing.T) {
	r := rfqRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/rfq/label?rfqId=RFQ-2026-1234&builder=Dave&supplier=Bunbury", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	// JPEG SOI marker
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte{0xFF, 0xD8}))
}

func TestRFQLabelRejectsBadReference(t *testing.T) {
	r := rfqRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/rfq/label?rfqId=nope", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
