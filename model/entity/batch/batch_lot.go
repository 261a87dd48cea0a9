package batch

import "time"

// BatchLot is one manufactured batch, shared reference data across the whole
// system (not scoped to any van). Never deleted, only deactivated.
type BatchLot struct {
	BatchLotID uint `gorm:"column:batch_lot_id;primaryKey;autoIncrement" json:"id"`
	// Uniqueness is active-scoped, enforced at load time: a deactivated lot
	// keeps its number and a later delivery may reuse it.
	BatchNumber       string     `gorm:"column:batch_number;type:varchar(64);index;not null" json:"batch_number"`
	LotNumber         string     `gorm:"column:lot_number;type:varchar(64)" json:"lot_number"`
	ManufacturingDate *time.Time `gorm:"column:manufacturing_date" json:"manufacturing_date"`
	ExpiryDate        time.Time  `gorm:"column:expiry_date;index;not null" json:"expiry_date"`
	Quantity          int        `gorm:"column:quantity;not null" json:"quantity"`
	RemainingQuantity int        `gorm:"column:remaining_quantity;not null" json:"remaining_quantity"`
	SupplierName      string     `gorm:"column:supplier_name;type:varchar(128)" json:"supplier_name"`
	QualityGrade      string     `gorm:"column:quality_grade;type:varchar(16)" json:"quality_grade"`
	StorageLocation   string     `gorm:"column:storage_location;type:varchar(64)" json:"storage_location"`
	IsActive          int16      `gorm:"column:is_active;not null;default:1" json:"is_active"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (BatchLot) TableName() string {
	return "batch_lots"
}

// IsExpired reports whether the lot may no longer accept loads.
// Expiry exactly at now counts as expired.
func (b *BatchLot) IsExpired(now time.Time) bool {
	return !b.ExpiryDate.After(now)
}
