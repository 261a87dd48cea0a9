package serial

import "time"

// Per-unit lifecycle states. A serial is never deleted; it moves between
// states as it is loaded, unloaded and sold.
const (
	StatusInVan     = "in_van"
	StatusAvailable = "available"
	StatusSold      = "sold"
)

// SerialNumber is one physical serialized unit.
type SerialNumber struct {
	SerialNumberID uint       `gorm:"column:serial_number_id;primaryKey;autoIncrement" json:"id"`
	SerialNo       string     `gorm:"column:serial_no;type:varchar(64);uniqueIndex;not null" json:"serial_number"`
	ProductID      uint       `gorm:"column:product_id;index;not null" json:"product_id"`
	BatchLotID     *uint      `gorm:"column:batch_lot_id" json:"batch_lot_id"`
	Status         string     `gorm:"column:status;type:varchar(16);not null;default:'available'" json:"status"`
	LocationID     *uint      `gorm:"column:location_id" json:"location_id"`
	WarrantyExpiry *time.Time `gorm:"column:warranty_expiry" json:"warranty_expiry"`
	CustomerID     *uint      `gorm:"column:customer_id" json:"customer_id"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (SerialNumber) TableName() string {
	return "serial_numbers"
}
