package vaninventory

import (
	"time"

	"github.com/shopspring/decimal"

	batchEntity "vansales.GO/model/entity/batch"
	serialEntity "vansales.GO/model/entity/serial"
)

// Item is one product line within a van inventory document. Quantity is
// always > 0 while the row exists; the row is deleted, not zeroed, when an
// unload empties it.
type Item struct {
	ItemID         uint            `gorm:"column:item_id;primaryKey;autoIncrement" json:"id"`
	HeaderID       uint            `gorm:"column:header_id;index;not null" json:"header_id"`
	ProductID      uint            `gorm:"column:product_id;index;not null" json:"product_id"`
	ProductName    string          `gorm:"column:product_name;type:varchar(255)" json:"product_name"` // snapshot at document time
	Unit           string          `gorm:"column:unit;type:varchar(16)" json:"unit"`
	Quantity       int             `gorm:"column:quantity;not null" json:"quantity"`
	UnitPrice      decimal.Decimal `gorm:"column:unit_price;type:decimal(20,4);not null;default:0" json:"unit_price"`
	DiscountAmount decimal.Decimal `gorm:"column:discount_amount;type:decimal(20,4);not null;default:0" json:"discount_amount"`
	TaxAmount      decimal.Decimal `gorm:"column:tax_amount;type:decimal(20,4);not null;default:0" json:"tax_amount"`
	TotalAmount    decimal.Decimal `gorm:"column:total_amount;type:decimal(20,4);not null;default:0" json:"total_amount"`
	BatchLotID     *uint           `gorm:"column:batch_lot_id;index" json:"batch_lot_id"`
	SerialNumberID *uint           `gorm:"column:serial_number_id;index" json:"serial_number_id"`
	Notes          string          `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	BatchLot *batchEntity.BatchLot      `gorm:"foreignKey:BatchLotID" json:"batch_lot,omitempty"`
	Serial   *serialEntity.SerialNumber `gorm:"foreignKey:SerialNumberID" json:"serial,omitempty"`
}

func (Item) TableName() string {
	return "van_inventory_items"
}
