package services

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAPI stands in for the messages endpoint. reply is the text block
// the model returns; status overrides the response code.
type fakeAPI struct {
	calls  int64
	reply  string
	status int
}

func (f *fakeAPI) server(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&f.calls, 1)
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		status := f.status
		if status == 0 {
			status = http.StatusOK
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]string{"message": "overloaded"},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"content": []map[string]string{{"type": "text", "text": f.reply}},
		})
	}))
}

func TestExtractLineItems(t *testing.T) {
	api := &fakeAPI{reply: `Here are the items:
[{"id":"1","name":"H2 Framing Timber 190x35","sku":"TIM19035","productId":"","desc":"H2 treated pine","uom":"LM","qty":"2 @ 3.6, 1 @ 4.8"},
 {"name":"Gyprock Plus 10mm","uom":"EA","qty":6}]
Let me know if you need anything else.`}
	srv := api.server(t)
	defer srv.Close()

	svc := NewExtractService("test-key", "", srv.URL)
	items, err := svc.ExtractLineItems(context.Background(), []byte("timber list"), "text/plain")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "H2 Framing Timber 190x35", items[0].Name)
	assert.Equal(t, "2 @ 3.6, 1 @ 4.8", items[0].Qty)
	// Numeric qty from the model still round-trips as a string.
	assert.Equal(t, "6", items[1].Qty)
	// Identifiers are always freshly assigned, never the model's.
	assert.NotEqual(t, "1", items[0].ID)
	assert.NotEmpty(t, items[0].ID)
	assert.NotEqual(t, items[0].ID, items[1].ID)
}

func TestExtractLineItemsOversizedNeverCallsAPI(t *testing.T) {
	api := &fakeAPI{reply: "[]"}
	srv := api.server(t)
	defer srv.Close()

	svc := NewExtractService("test-key", "", srv.URL)
	big := bytes.Repeat([]byte("x"), MaxUploadBytes+1)

	_, err := svc.ExtractLineItems(context.Background(), big, "application/pdf")
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
	assert.EqualValues(t, 0, atomic.LoadInt64(&api.calls))
}

func TestExtractLineItemsEmptyContent(t *testing.T) {
	svc := NewExtractService("test-key", "", "http://127.0.0.1:0")
	_, err := svc.ExtractLineItems(context.Background(), nil, "text/plain")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExtractLineItemsNoArrayMeansNoItems(t *testing.T) {
	api := &fakeAPI{reply: "I could not find any line items in this document."}
	srv := api.server(t)
	defer srv.Close()

	svc := NewExtractService("test-key", "", srv.URL)
	items, err := svc.ExtractLineItems(context.Background(), []byte("receipt"), "text/plain")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestExtractLineItemsUpstreamError(t *testing.T) {
	api := &fakeAPI{status: http.StatusServiceUnavailable}
	srv := api.server(t)
	defer srv.Close()

	svc := NewExtractService("test-key", "", srv.URL)
	_, err := svc.ExtractLineItems(context.Background(), []byte("list"), "text/plain")
	assert.ErrorIs(t, err, ErrUpstreamError)
	assert.Contains(t, err.Error(), "overloaded")
}

func TestExtractProductSystem(t *testing.T) {
	api := &fakeAPI{reply: "```json\n" + `{
		"name": "HardieFlex Sheet",
		"application": "External Cladding",
		"thickness": "4.5mm",
		"description": "General purpose fibre cement sheet.",
		"panels": [{"code":"400011","name":"HardieFlex 2400x1200x4.5mm","dimensions":"2400x1200x4.5mm","uom":"EA","confident":true}],
		"accessories": []
	}` + "\n```"}
	srv := api.server(t)
	defer srv.Close()

	svc := NewExtractService("test-key", "", srv.URL)
	system, err := svc.ExtractProductSystem(context.Background(), "https://www.jameshardie.com.au/products/hardieflex-sheet", "James Hardie")
	require.NoError(t, err)

	assert.Equal(t, "HardieFlex Sheet", system.Name)
	assert.Equal(t, "hardieflex-sheet", system.Slug)
	require.Len(t, system.Panels, 1)
	assert.True(t, system.Panels[0].Confident)
}

func TestExtractProductSystemInvalidURL(t *testing.T) {
	svc := NewExtractService("test-key", "", "http://127.0.0.1:0")

	_, err := svc.ExtractProductSystem(context.Background(), "", "James Hardie")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ExtractProductSystem(context.Background(), "not a url", "James Hardie")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExtractProductSystemModelReportsError(t *testing.T) {
	api := &fakeAPI{reply: `{"error": "Could not extract product data from this URL"}`}
	srv := api.server(t)
	defer srv.Close()

	svc := NewExtractService("test-key", "", srv.URL)
	_, err := svc.ExtractProductSystem(context.Background(), "https://example.com/page", "Acme")
	assert.ErrorIs(t, err, ErrUpstreamError)
	assert.Contains(t, err.Error(), "Could not extract product data")
}
