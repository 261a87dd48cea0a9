package inventory

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	inventoryEntity "vansales.GO/model/entity/inventory"
)

// InventoryRepository owns the aggregate stock table and the append-only
// stock movement ledger.
type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// IncrementStock adds qty to the (product, location) stock aggregate,
// creating the row lazily on first load into a location.
//
// Unloads do not call this: the aggregate tracks what was ever received at a
// location, and van depletion is reconstructed from the movement ledger.
// Decrementing here as well would double-count against VAN_UNLOAD movements.
func (r *InventoryRepository) IncrementStock(productID, locationID uint, qty int) error {
	delta := decimal.NewFromInt(int64(qty))

	var stock inventoryEntity.InventoryStock
	err := r.db.Where("product_id = ? AND location_id = ?", productID, locationID).First(&stock).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		stock = inventoryEntity.InventoryStock{
			ProductID:      productID,
			LocationID:     locationID,
			CurrentStock:   delta,
			AvailableStock: delta,
			ReservedStock:  decimal.Zero,
		}
		return r.db.Create(&stock).Error
	}
	if err != nil {
		return err
	}
	return r.db.Model(&inventoryEntity.InventoryStock{}).
		Where("stock_id = ?", stock.StockID).
		Updates(map[string]interface{}{
			"current_stock":   stock.CurrentStock.Add(delta),
			"available_stock": stock.AvailableStock.Add(delta),
		}).Error
}

// StockFor returns the stock aggregate for (product, location), or (nil, nil).
func (r *InventoryRepository) StockFor(productID, locationID uint) (*inventoryEntity.InventoryStock, error) {
	var stock inventoryEntity.InventoryStock
	err := r.db.Where("product_id = ? AND location_id = ?", productID, locationID).First(&stock).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

// RecordMovement appends one row to the movement ledger. There are no update
// or delete operations on this table anywhere in the codebase.
func (r *InventoryRepository) RecordMovement(m *inventoryEntity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.MovementDate.IsZero() {
		m.MovementDate = time.Now()
	}
	return r.db.Create(m).Error
}

// MovementsByReference returns all ledger rows produced by one document.
func (r *InventoryRepository) MovementsByReference(referenceType string, referenceID uint) ([]inventoryEntity.StockMovement, error) {
	var rows []inventoryEntity.StockMovement
	err := r.db.Where("reference_type = ? AND reference_id = ?", referenceType, referenceID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}
