package inventory

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryStock is the aggregate stock position keyed by product and
// location. Created lazily on first load into a location; incremented on
// load. Van unloads do not decrement it — depletion is reconstructed from
// the stock movement ledger.
type InventoryStock struct {
	StockID        uint            `gorm:"column:stock_id;primaryKey;autoIncrement" json:"id"`
	ProductID      uint            `gorm:"column:product_id;uniqueIndex:idx_stock_product_location,priority:1;not null" json:"product_id"`
	LocationID     uint            `gorm:"column:location_id;uniqueIndex:idx_stock_product_location,priority:2;not null;default:0" json:"location_id"`
	BatchLotID     *uint           `gorm:"column:batch_lot_id" json:"batch_lot_id"`
	SerialNumberID *uint           `gorm:"column:serial_number_id" json:"serial_number_id"`
	CurrentStock   decimal.Decimal `gorm:"column:current_stock;type:decimal(20,4);not null;default:0" json:"current_stock"`
	AvailableStock decimal.Decimal `gorm:"column:available_stock;type:decimal(20,4);not null;default:0" json:"available_stock"`
	ReservedStock  decimal.Decimal `gorm:"column:reserved_stock;type:decimal(20,4);not null;default:0" json:"reserved_stock"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (InventoryStock) TableName() string {
	return "inventory_stocks"
}
