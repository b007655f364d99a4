package models

// Swagger / API docs: common request and response models referenced by handler annotations

// ErrorResponse is used in @Failure for error responses
type ErrorResponse struct {
	Error   string `json:"error" example:"Invalid input"`
	Details string `json:"details,omitempty" example:""`
}

// MessageResponse is generic response for APIs that return only {"message": "..."}
type MessageResponse struct {
	Message string `json:"message" example:"Success"`
}

// ParseFileResult is the per-file outcome of an extraction request.
// One file's failure never aborts the batch; errors are per-file.
type ParseFileResult struct {
	Filename string     `json:"filename"`
	Items    []LineItem `json:"items"`
	Error    string     `json:"error,omitempty"`
}

// ParseResponse is used in @Success for the parse endpoint.
type ParseResponse struct {
	Items   []LineItem        `json:"items"`
	Results []ParseFileResult `json:"results,omitempty"`
}

// SendRFQResponse is used in @Success for the send endpoint.
type SendRFQResponse struct {
	Success bool   `json:"success" example:"true"`
	RFQID   string `json:"rfqId" example:"RFQ-2026-4821"`
}

// VerifyAccessRequest is the body for the access-code gate.
type VerifyAccessRequest struct {
	Code string `json:"code" example:"build2025"`
}

// VerifyAccessResponse is used in @Success for the access-code gate.
type VerifyAccessResponse struct {
	Granted bool `json:"granted" example:"true"`
}

// PaginatedResponse wraps list endpoints that page their results.
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

type Pagination struct {
	CurrentPage  int  `json:"current_page"`
	PageSize     int  `json:"page_size"`
	TotalRecords int  `json:"total_records"`
	TotalPages   int  `json:"total_pages"`
	HasNext      bool `json:"has_next"`
	HasPrev      bool `json:"has_prev"`
}

// ItemFieldUpdateRequest mutates exactly one field of one line item.
type ItemFieldUpdateRequest struct {
	Field string `json:"field" example:"qty"`
	Value string `json:"value" example:"2 @ 3.6, 1 @ 4.8"`
}

// DetailsUpdateRequest carries the Send-stage editable fields.
type DetailsUpdateRequest struct {
	Builder        *BuilderDetails  `json:"builder,omitempty"`
	Supplier       *SupplierDetails `json:"supplier,omitempty"`
	Delivery       *string          `json:"delivery,omitempty"`
	DateRequired   *string          `json:"dateRequired,omitempty"`
	Message        *string          `json:"message,omitempty"`
	SendCopyToSelf *bool            `json:"sendCopyToSelf,omitempty"`
}

// ParseManufacturerRequest is the body for manufacturer-page extraction.
type ParseManufacturerRequest struct {
	URL              string `json:"url" example:"https://www.jameshardie.com.au/products/hardieflex-sheet"`
	ManufacturerName string `json:"manufacturerName" example:"James Hardie"`
}
