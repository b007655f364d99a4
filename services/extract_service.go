package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"buildquote/models"
	"buildquote/repository"
)

// Upload guardrails. The extraction service bills by payload size, and an
// oversized upload is usually the wrong file anyway.
const (
	MaxUploadBytes    = 5 * 1024 * 1024
	MaxFilesPerUpload = 5
)

// extractTimeout bounds each extraction call. A timeout is an extraction
// failure, never retried.
const extractTimeout = 30 * time.Second

// Error taxonomy for the extraction adapter. An empty item list is a
// valid outcome, not an error.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrPayloadTooLarge = errors.New("file too large, maximum size is 5MB")
	ErrUpstreamTimeout = errors.New("extraction service timed out")
	ErrUpstreamError   = errors.New("extraction service failed")
)

const lineItemPrompt = `Extract all line items from this materials list or bill of materials. Return a JSON array only, no other text. Each item should have: id, name, sku, productId, desc, uom, qty. If a field is unknown leave it as empty string. For qty, preserve the full quantity detail exactly as written - for example "2 @ 3.6" or "2 @ 3.6, 1 @ 4.8" - do not calculate or simplify. Example: [{"id":"1","name":"H2 Framing Timber 190x35","sku":"","productId":"","desc":"H2 treated pine 190x35","uom":"LM","qty":"2 @ 3.6"}]`

// ExtractService forwards uploaded documents to the hosted language-model
// API and normalizes its free-text responses into line items.
type ExtractService struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewExtractService creates an extraction adapter. baseURL is the API
// origin without a trailing slash; pass the production origin in main and
// a test server URL in tests.
func NewExtractService(apiKey, model, baseURL string) *ExtractService {
	if model == "" {
		model = "claude-sonnet-4-5"
	}
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	return &ExtractService{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: extractTimeout},
	}
}

// messages API request/response shapes, reduced to the fields used here.

type apiContentBlock struct {
	Type   string         `json:"type"`
	Text   string         `json:"text,omitempty"`
	Source *apiFileSource `json:"source,omitempty"`
}

type apiFileSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type apiMessage struct {
	Role    string            `json:"role"`
	Content []apiContentBlock `json:"content"`
}

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Messages  []apiMessage `json:"messages"`
}

type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ExtractLineItems converts one uploaded file into zero or more line item
// candidates. Images and PDFs are inlined base64; anything else is sent
// as decoded text. Every returned item carries a freshly generated
// identifier regardless of what the service produced.
func (s *ExtractService) ExtractLineItems(ctx context.Context, content []byte, mediaType string) ([]models.LineItem, error) {
	if len(content) == 0 {
		return nil, ErrInvalidInput
	}
	// Size guardrail runs before any outbound request is constructed.
	if len(content) > MaxUploadBytes {
		return nil, ErrPayloadTooLarge
	}

	var blocks []apiContentBlock
	isImage := strings.HasPrefix(mediaType, "image/")
	isPDF := mediaType == "application/pdf"

	switch {
	case isImage:
		blocks = []apiContentBlock{
			{Type: "image", Source: &apiFileSource{Type: "base64", MediaType: mediaType, Data: base64.StdEncoding.EncodeToString(content)}},
			{Type: "text", Text: lineItemPrompt},
		}
	case isPDF:
		blocks = []apiContentBlock{
			{Type: "document", Source: &apiFileSource{Type: "base64", MediaType: mediaType, Data: base64.StdEncoding.EncodeToString(content)}},
			{Type: "text", Text: lineItemPrompt},
		}
	default:
		blocks = []apiContentBlock{
			{Type: "text", Text: lineItemPrompt + "\n\n" + string(content)},
		}
	}

	responseText, err := s.complete(ctx, blocks)
	if err != nil {
		return nil, err
	}

	arrayText, ok := locateJSONArray(responseText)
	if !ok {
		// Extraction failure degrades to "nothing found", never a crash.
		return []models.LineItem{}, nil
	}

	var rawItems []map[string]interface{}
	if err := json.Unmarshal([]byte(arrayText), &rawItems); err != nil {
		return nil, fmt.Errorf("%w: unparseable item array: %v", ErrUpstreamError, err)
	}

	items := make([]models.LineItem, 0, len(rawItems))
	for _, raw := range rawItems {
		items = append(items, models.LineItem{
			ID:        repository.NewItemID(),
			Name:      stringField(raw, "name"),
			SKU:       stringField(raw, "sku"),
			ProductID: stringField(raw, "productId"),
			Desc:      stringField(raw, "desc"),
			UOM:       stringField(raw, "uom"),
			Qty:       stringField(raw, "qty"),
		})
	}

	return items, nil
}

// ExtractProductSystem asks the service to read a manufacturer product
// page and return one structured product system.
func (s *ExtractService) ExtractProductSystem(ctx context.Context, pageURL, manufacturerName string) (*models.ProductSystem, error) {
	if pageURL == "" {
		return nil, fmt.Errorf("%w: URL required", ErrInvalidInput)
	}
	if parsed, err := url.ParseRequestURI(pageURL); err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("%w: invalid URL", ErrInvalidInput)
	}
	if manufacturerName == "" {
		manufacturerName = "manufacturer"
	}

	prompt := fmt.Sprintf(`You are a building products data extractor. Extract structured product system data from this manufacturer product page: %s

Return ONLY a valid JSON object with this exact structure - no markdown, no explanation, no code fences:
{
  "name": "system name",
  "application": "External Cladding|Internal Lining|Flooring|Roofing|Insulation|Structural|Decking|Screening|Fasteners|Membranes|Other",
  "thickness": "e.g. 8.5mm or null",
  "warranty": "e.g. 15 years or null",
  "description": "1-2 sentence description of the system",
  "sourceNote": "e.g. Parsed from %s product page",
  "panels": [
    { "code": "product code or empty string", "name": "product name", "dimensions": "LxWxTmm or length mm or null", "uom": "EA", "confident": true }
  ],
  "accessories": [
    { "code": "product code or empty string", "name": "accessory name", "dimensions": "length mm or null", "uom": "EA", "confident": true }
  ]
}

Rules:
- Set confident: false for any field you are uncertain about
- If you cannot extract meaningful product data, return: { "error": "Could not extract product data from this URL" }
- Do NOT invent product codes - leave as empty string if not found
- Do NOT include any pricing information
- panels = sheet/board/panel products, accessories = trims, fixings, tapes, connectors`, pageURL, manufacturerName)

	responseText, err := s.complete(ctx, []apiContentBlock{{Type: "text", Text: prompt}})
	if err != nil {
		return nil, err
	}

	cleaned := strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(responseText, "```json", ""), "```", ""))
	objectText, ok := locateJSONObject(cleaned)
	if !ok {
		return nil, fmt.Errorf("%w: no product data in response", ErrUpstreamError)
	}

	var probe struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(objectText), &probe); err != nil {
		return nil, fmt.Errorf("%w: unparseable product data: %v", ErrUpstreamError, err)
	}
	if probe.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrUpstreamError, probe.Error)
	}

	var system models.ProductSystem
	if err := json.Unmarshal([]byte(objectText), &system); err != nil {
		return nil, fmt.Errorf("%w: unparseable product data: %v", ErrUpstreamError, err)
	}
	system.Slug = repository.Slugify(system.Name)

	return &system, nil
}

// complete performs one messages API call and returns the concatenated
// text blocks of the response.
func (s *ExtractService) complete(ctx context.Context, blocks []apiContentBlock) (string, error) {
	body, err := json.Marshal(apiRequest{
		Model:     s.model,
		MaxTokens: 1024,
		Messages:  []apiMessage{{Role: "user", Content: blocks}},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamError, err)
	}

	ctx, cancel := context.WithTimeout(ctx, extractTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamError, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", ErrUpstreamTimeout
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return "", ErrUpstreamTimeout
		}
		return "", fmt.Errorf("%w: %v", ErrUpstreamError, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamError, err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstreamError, err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := resp.Status
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return "", fmt.Errorf("%w: %s", ErrUpstreamError, msg)
	}

	var text strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return text.String(), nil
}

// locateJSONArray returns the substring between the first '[' and the
// last ']' of the response, which is where the service puts its array
// even when it adds prose around it.
func locateJSONArray(s string) (string, bool) {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

func locateJSONObject(s string) (string, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return s[start : end+1], true
}

// stringField reads one key of a parsed item, defaulting absent or
// non-string values to the empty string. Numeric values are formatted
// rather than dropped so a service that returns qty as a number still
// round-trips.
func stringField(raw map[string]interface{}, key string) string {
	v, ok := raw[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case bool:
		return fmt.Sprintf("%t", t)
	default:
		return ""
	}
}
