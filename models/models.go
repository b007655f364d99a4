package models

import (
	"time"
)

// LineItem is one row of the bill of materials. Every field is free text.
// Qty is an opaque display string ("2 @ 3.6, 1 @ 4.8") and must never be
// parsed or summed; source documents express split lengths that have to
// reach the supplier exactly as written.
type LineItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`
	ProductID string `json:"productId"`
	Desc      string `json:"desc"`
	UOM       string `json:"uom"`
	Qty       string `json:"qty"`
}

// BuilderDetails is the sender's identity block.
type BuilderDetails struct {
	BuilderName string `json:"builderName"`
	Company     string `json:"company"`
	ABN         string `json:"abn"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
}

// SupplierDetails is the recipient's identity block.
type SupplierDetails struct {
	SupplierName  string `json:"supplierName"`
	SupplierEmail string `json:"supplierEmail"`
	AccountNumber string `json:"accountNumber"`
}

// Delivery modes accepted in RFQPayload.Delivery.
const (
	DeliveryModeDelivery = "delivery"
	DeliveryModePickup   = "pickup"
)

// RFQPayload is the aggregate every artifact generator renders. Once an
// RFQ reference is assigned the payload is treated as immutable; a retry
// always gets a new reference.
type RFQPayload struct {
	RFQID          string          `json:"rfqId"`
	Builder        BuilderDetails  `json:"builder"`
	Supplier       SupplierDetails `json:"supplier"`
	Items          []LineItem      `json:"items"`
	Delivery       string          `json:"delivery"`
	DateRequired   string          `json:"dateRequired"`
	Message        string          `json:"message"`
	SendCopyToSelf bool            `json:"sendCopyToSelf"`
}

// WizardStep is one of the four stages of the RFQ wizard.
type WizardStep string

const (
	StepUpload WizardStep = "upload"
	StepReview WizardStep = "review"
	StepSend   WizardStep = "send"
	StepDone   WizardStep = "done"
)

// RFQDraft is the in-progress RFQ owned by one wizard session. It lives
// only in memory; nothing is persisted after a successful send.
type RFQDraft struct {
	DraftID        string          `json:"draftId"`
	Step           WizardStep      `json:"step"`
	Items          []LineItem      `json:"items"`
	Builder        BuilderDetails  `json:"builder"`
	Supplier       SupplierDetails `json:"supplier"`
	Delivery       string          `json:"delivery"`
	DateRequired   string          `json:"dateRequired"`
	Message        string          `json:"message"`
	SendCopyToSelf bool            `json:"sendCopyToSelf"`
	RFQID          string          `json:"rfqId,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// Payload assembles the draft into the aggregate the generators consume.
func (d *RFQDraft) Payload() RFQPayload {
	items := make([]LineItem, len(d.Items))
	copy(items, d.Items)
	return RFQPayload{
		RFQID:          d.RFQID,
		Builder:        d.Builder,
		Supplier:       d.Supplier,
		Items:          items,
		Delivery:       d.Delivery,
		DateRequired:   d.DateRequired,
		Message:        d.Message,
		SendCopyToSelf: d.SendCopyToSelf,
	}
}

// Supplier is one directory entry, seeded from data/suppliers.json.
type Supplier struct {
	ID          int                 `json:"id"`
	Name        string              `json:"name"`
	Phone       string              `json:"phone"`
	Website     string              `json:"website"`
	Address     string              `json:"address"`
	Email       string              `json:"email"`
	Photo       string              `json:"photo"`
	Description string              `json:"description"`
	Operational string              `json:"operational"`
	Hours       map[string][]string `json:"hours"`
	Region      string              `json:"region"`
	Area        string              `json:"area"`
	TradeType   string              `json:"trade_type"`
	Category    string              `json:"category"`
}

// OutboundEmail is the message handed to the email boundary.
type OutboundEmail struct {
	From        string
	To          string
	CC          []string
	ReplyTo     string
	Subject     string
	HTML        string
	Attachments []EmailAttachment
}

// EmailAttachment is one binary attachment on an outbound email.
type EmailAttachment struct {
	Filename    string
	ContentType string
	Content     []byte
}
