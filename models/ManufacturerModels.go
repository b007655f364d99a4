package models

// SystemProduct is one panel or accessory line inside a product system.
// Confident mirrors the extraction service's own certainty flag.
type SystemProduct struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Dimensions string `json:"dimensions"`
	UOM        string `json:"uom"`
	Confident  bool   `json:"confident"`
}

// ProductSystem is one manufacturer system (a cladding line, a flooring
// range) with its panels and accessories.
type ProductSystem struct {
	Name            string          `json:"name"`
	Slug            string          `json:"slug"`
	Application     string          `json:"application"`
	Thickness       string          `json:"thickness,omitempty"`
	Warranty        string          `json:"warranty,omitempty"`
	Description     string          `json:"description"`
	SourceNote      string          `json:"sourceNote,omitempty"`
	ManufacturerSlug string         `json:"manufacturerSlug,omitempty"`
	CommunityAdded  bool            `json:"communityAdded,omitempty"`
	AddedAt         string          `json:"addedAt,omitempty"`
	Panels          []SystemProduct `json:"panels"`
	Accessories     []SystemProduct `json:"accessories"`
}

// Manufacturer is one catalogue entry from data/manufacturers.json.
type Manufacturer struct {
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Website     string          `json:"website"`
	Description string          `json:"description"`
	Systems     []ProductSystem `json:"systems"`
}

// UserSystemsBlob holds every community-submitted system as one JSON
// array, read-modify-append on each submission. Submissions are
// append-only; nothing is deduplicated or overwritten.
type UserSystemsBlob struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Data      string `gorm:"type:jsonb;not null;default:'[]'" json:"data"`
	UpdatedAt int64  `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName keeps the blob in a clearly named single-row table.
func (UserSystemsBlob) TableName() string {
	return "user_systems_blob"
}

// SaveSystemRequest is the body for community system submission.
type SaveSystemRequest struct {
	ManufacturerSlug string        `json:"manufacturerSlug"`
	System           ProductSystem `json:"system"`
}
