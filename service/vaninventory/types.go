package vaninventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// Input is the create-or-update payload for a van inventory document.
// Presence of ID makes it an update.
type Input struct {
	ID           uint       `json:"id"`
	UserID       uint       `json:"user_id" validate:"required"`
	VehicleID    *uint      `json:"vehicle_id"`
	LoadingType  string     `json:"loading_type"`
	DocumentDate *time.Time `json:"document_date"`
	LocationID   *uint      `json:"location_id"`
	LocationType string     `json:"location_type"`
	Items        []LineItem `json:"van_inventory_items" validate:"required,min=1,dive"`
}

// LineItem is one product line. Batches or Serials must be present when the
// product's tracking regime requires them.
type LineItem struct {
	ProductID uint               `json:"product_id" validate:"required"`
	Quantity  int                `json:"quantity" validate:"required,gt=0"`
	UnitPrice *decimal.Decimal   `json:"unit_price"`
	Notes     string             `json:"notes"`
	Batches   []BatchAllocation  `json:"product_batches" validate:"omitempty,dive"`
	Serials   []SerialAllocation `json:"product_serials" validate:"omitempty,dive"`
}

// BatchAllocation allocates part of a line to one batch lot. On load a new
// lot is created from it; on unload it resolves an existing lot by number
// or id.
type BatchAllocation struct {
	BatchLotID        *uint      `json:"batch_lot_id"`
	BatchNumber       string     `json:"batch_number"`
	LotNumber         string     `json:"lot_number"`
	Quantity          int        `json:"quantity" validate:"required,gt=0"`
	ManufacturingDate *time.Time `json:"manufacturing_date"`
	ExpiryDate        *time.Time `json:"expiry_date"`
	SupplierName      string     `json:"supplier_name"`
}

// SerialAllocation names one serialized unit. Quantity must be 1 and the
// entry count must match the line quantity.
type SerialAllocation struct {
	SerialNo       string     `json:"serial_number"`
	Quantity       int        `json:"quantity" validate:"required"`
	WarrantyExpiry *time.Time `json:"warranty_expiry"`
	CustomerID     *uint      `json:"customer_id"`
}
