package inventory

import "time"

// MovementType classifies the physical cause of a stock movement.
type MovementType string

const (
	MovementVanLoad   MovementType = "VAN_LOAD"
	MovementVanUnload MovementType = "VAN_UNLOAD"
)

// ReferenceTypeVanInventory tags movements produced by van inventory documents.
const ReferenceTypeVanInventory = "van_inventory"

// StockMovement is one row of the append-only audit ledger: one record per
// physical quantity change. Rows are never updated or deleted.
type StockMovement struct {
	ID             string       `gorm:"column:id;size:36;primaryKey" json:"id"` // uuid
	ProductID      uint         `gorm:"column:product_id;index;not null" json:"product_id"`
	BatchLotID     *uint        `gorm:"column:batch_lot_id;index" json:"batch_lot_id"`
	SerialNumberID *uint        `gorm:"column:serial_number_id;index" json:"serial_number_id"`
	MovementType   MovementType `gorm:"column:movement_type;type:varchar(20);not null" json:"movement_type"`
	ReferenceType  string       `gorm:"column:reference_type;type:varchar(32);index:idx_movement_ref,priority:1" json:"reference_type"`
	ReferenceID    uint         `gorm:"column:reference_id;index:idx_movement_ref,priority:2" json:"reference_id"`
	FromLocationID *uint        `gorm:"column:from_location_id" json:"from_location_id"`
	ToLocationID   *uint        `gorm:"column:to_location_id" json:"to_location_id"`
	Quantity       int          `gorm:"column:quantity;not null" json:"quantity"`
	MovementDate   time.Time    `gorm:"column:movement_date;not null" json:"movement_date"`
	Remark         string       `gorm:"column:remark;type:text" json:"remark"`
	CreatedBy      uint         `gorm:"column:created_by" json:"created_by"`
	CreatedAt      time.Time    `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (StockMovement) TableName() string {
	return "stock_movements"
}
