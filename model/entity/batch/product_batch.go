package batch

import "time"

// ProductBatch links a product to a BatchLot with the quantity specific to
// that pairing. Mutated in lockstep with BatchLot.RemainingQuantity.
type ProductBatch struct {
	ProductBatchID uint      `gorm:"column:product_batch_id;primaryKey;autoIncrement" json:"id"`
	ProductID      uint      `gorm:"column:product_id;uniqueIndex:idx_product_batch_unq,priority:1;not null" json:"product_id"`
	BatchLotID     uint      `gorm:"column:batch_lot_id;uniqueIndex:idx_product_batch_unq,priority:2;not null" json:"batch_lot_id"`
	Quantity       int       `gorm:"column:quantity;not null" json:"quantity"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	BatchLot *BatchLot `gorm:"foreignKey:BatchLotID" json:"batch_lot,omitempty"`
}

func (ProductBatch) TableName() string {
	return "product_batches"
}
