package vaninventory

import (
	"errors"

	"gorm.io/gorm"

	vanEntity "vansales.GO/model/entity/vaninventory"
)

// VanInventoryRepository owns header/item persistence for van inventory
// documents.
type VanInventoryRepository struct {
	db *gorm.DB
}

func NewVanInventoryRepository(db *gorm.DB) *VanInventoryRepository {
	return &VanInventoryRepository{db: db}
}

// FindHeader returns a header by id, or (nil, nil) when absent.
func (r *VanInventoryRepository) FindHeader(id uint) (*vanEntity.Header, error) {
	var h vanEntity.Header
	err := r.db.First(&h, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *VanInventoryRepository) CreateHeader(h *vanEntity.Header) error {
	return r.db.Create(h).Error
}

// UpdateHeader applies the changed fields and bumps log_inst inside the
// UPDATE statement itself, so the counter increments atomically without a
// read-modify-write in Go.
func (r *VanInventoryRepository) UpdateHeader(headerID uint, changes map[string]interface{}) error {
	changes["log_inst"] = gorm.Expr("log_inst + ?", 1)
	return r.db.Model(&vanEntity.Header{}).
		Where("header_id = ?", headerID).
		Updates(changes).Error
}

// HydrateHeader re-fetches a header with items, batch and serial detail,
// owning user and vehicle.
func (r *VanInventoryRepository) HydrateHeader(id uint) (*vanEntity.Header, error) {
	var h vanEntity.Header
	err := r.db.
		Preload("User").
		Preload("Vehicle").
		Preload("Items").
		Preload("Items.BatchLot").
		Preload("Items.Serial").
		First(&h, id).Error
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *VanInventoryRepository) CreateItem(item *vanEntity.Item) error {
	return r.db.Create(item).Error
}

// FindItemForBatch returns the item row binding (header, product, batch lot),
// or (nil, nil).
func (r *VanInventoryRepository) FindItemForBatch(headerID, productID, batchLotID uint) (*vanEntity.Item, error) {
	var item vanEntity.Item
	err := r.db.Where("header_id = ? AND product_id = ? AND batch_lot_id = ?", headerID, productID, batchLotID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindItemForSerial returns the item row binding (header, product, serial),
// or (nil, nil).
func (r *VanInventoryRepository) FindItemForSerial(headerID, productID, serialNumberID uint) (*vanEntity.Item, error) {
	var item vanEntity.Item
	err := r.db.Where("header_id = ? AND product_id = ? AND serial_number_id = ?", headerID, productID, serialNumberID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// FindPlainItem returns the untracked item row for (header, product) — the
// one bound to neither a batch nor a serial — or (nil, nil).
func (r *VanInventoryRepository) FindPlainItem(headerID, productID uint) (*vanEntity.Item, error) {
	var item vanEntity.Item
	err := r.db.Where("header_id = ? AND product_id = ? AND batch_lot_id IS NULL AND serial_number_id IS NULL", headerID, productID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItemQuantity sets an item's quantity. Callers delete the row instead
// when the new quantity would be zero.
func (r *VanInventoryRepository) UpdateItemQuantity(itemID uint, quantity int) error {
	return r.db.Model(&vanEntity.Item{}).
		Where("item_id = ?", itemID).
		UpdateColumn("quantity", quantity).Error
}

func (r *VanInventoryRepository) DeleteItem(itemID uint) error {
	return r.db.Delete(&vanEntity.Item{}, itemID).Error
}

// VanContents returns every item currently on the salesperson's van across
// active headers, with batch and serial detail hydrated.
func (r *VanInventoryRepository) VanContents(userID uint) ([]vanEntity.Item, error) {
	var items []vanEntity.Item
	err := r.db.
		Joins("JOIN van_inventory_headers h ON h.header_id = van_inventory_items.header_id").
		Where("h.user_id = ? AND h.is_active = 1", userID).
		Preload("BatchLot").
		Preload("Serial").
		Find(&items).Error
	return items, err
}

// DeleteHeader removes a header and its items. Items are deleted explicitly
// so the cascade does not depend on the store's FK enforcement.
func (r *VanInventoryRepository) DeleteHeader(id uint) error {
	if err := r.db.Where("header_id = ?", id).Delete(&vanEntity.Item{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&vanEntity.Header{}, id).Error
}
