package batch

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"vansales.GO/core/apperr"
	batchEntity "vansales.GO/model/entity/batch"
	vanEntity "vansales.GO/model/entity/vaninventory"
)

// BatchRepository owns batch-lot lifecycle and the remaining-quantity ledger
// primitives. Construct it over the transaction handle when mutating.
type BatchRepository struct {
	db *gorm.DB
}

func NewBatchRepository(db *gorm.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

// FindByID returns a lot by primary key, or (nil, nil) when absent.
func (r *BatchRepository) FindByID(id uint) (*batchEntity.BatchLot, error) {
	var lot batchEntity.BatchLot
	err := r.db.First(&lot, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lot, nil
}

// FindActiveByNumber returns the active lot with the given batch number,
// or (nil, nil) when absent.
func (r *BatchRepository) FindActiveByNumber(batchNumber string) (*batchEntity.BatchLot, error) {
	var lot batchEntity.BatchLot
	err := r.db.Where("batch_number = ? AND is_active = 1", batchNumber).First(&lot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lot, nil
}

func (r *BatchRepository) CreateLot(lot *batchEntity.BatchLot) error {
	return r.db.Create(lot).Error
}

func (r *BatchRepository) CreateProductBatch(pb *batchEntity.ProductBatch) error {
	return r.db.Create(pb).Error
}

// FindProductBatch returns the join row for (product, lot), or (nil, nil).
func (r *BatchRepository) FindProductBatch(productID, batchLotID uint) (*batchEntity.ProductBatch, error) {
	var pb batchEntity.ProductBatch
	err := r.db.Where("product_id = ? AND batch_lot_id = ?", productID, batchLotID).First(&pb).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pb, nil
}

// AdjustRemaining applies a quantity delta to a lot's remaining quantity:
// load adds, unload subtracts. Validity is checked before any mutation and
// the 0 <= remaining <= quantity invariant is enforced. Not retry-safe:
// a second invocation applies the delta again.
func (r *BatchRepository) AdjustRemaining(batchLotID uint, qty int, loading vanEntity.LoadingType) error {
	if qty <= 0 {
		return apperr.Validationf("quantity must be greater than zero")
	}
	lot, err := r.FindByID(batchLotID)
	if err != nil {
		return err
	}
	if lot == nil {
		return apperr.NotFoundf("batch lot %d not found", batchLotID)
	}
	if lot.IsActive == 0 {
		return apperr.BatchInactivef("batch %s is not active", lot.BatchNumber)
	}
	if lot.IsExpired(time.Now()) {
		return apperr.BatchExpiredf("batch %s is expired", lot.BatchNumber)
	}

	next := lot.RemainingQuantity + qty
	if !loading.IsLoad() {
		next = lot.RemainingQuantity - qty
	}
	if next < 0 {
		return apperr.InsufficientQuantityf("Insufficient quantity in batch %s: remaining %d, requested %d",
			lot.BatchNumber, lot.RemainingQuantity, qty)
	}
	if next > lot.Quantity {
		return apperr.Validationf("adjustment exceeds batch %s total quantity %d", lot.BatchNumber, lot.Quantity)
	}
	return r.db.Model(&batchEntity.BatchLot{}).
		Where("batch_lot_id = ?", batchLotID).
		UpdateColumn("remaining_quantity", next).Error
}

// AdjustProductBatchQuantity mirrors AdjustRemaining for the product-batch
// join row, which is kept in lockstep with the lot's remaining quantity.
func (r *BatchRepository) AdjustProductBatchQuantity(productID, batchLotID uint, qty int, loading vanEntity.LoadingType) error {
	if qty <= 0 {
		return apperr.Validationf("quantity must be greater than zero")
	}
	pb, err := r.FindProductBatch(productID, batchLotID)
	if err != nil {
		return err
	}
	if pb == nil {
		return apperr.NotFoundf("product batch not found for product %d and batch lot %d", productID, batchLotID)
	}
	next := pb.Quantity + qty
	if !loading.IsLoad() {
		next = pb.Quantity - qty
	}
	if next < 0 {
		return apperr.InsufficientQuantityf("Insufficient quantity in product batch: have %d, requested %d", pb.Quantity, qty)
	}
	return r.db.Model(&batchEntity.ProductBatch{}).
		Where("product_batch_id = ?", pb.ProductBatchID).
		UpdateColumn("quantity", next).Error
}

// DeactivateExpired flips is_active off for every lot whose expiry has
// passed. Returns the number of lots touched.
func (r *BatchRepository) DeactivateExpired(now time.Time) (int64, error) {
	res := r.db.Model(&batchEntity.BatchLot{}).
		Where("is_active = 1 AND expiry_date <= ?", now).
		UpdateColumn("is_active", 0)
	return res.RowsAffected, res.Error
}

// AvailableBatch is one row of the availability projection.
type AvailableBatch struct {
	ID                uint      `json:"id"`
	BatchNumber       string    `json:"batch_number"`
	LotNumber         string    `json:"lot_number"`
	ExpiryDate        time.Time `json:"expiry_date"`
	Quantity          int       `json:"quantity"`
	RemainingQuantity int       `json:"remaining_quantity"`
	IsActive          bool      `json:"is_active"`
}

// AvailableBatches returns active, non-expired lots linked to the product,
// soonest expiry first (FEFO picking order). For loads, depleted lots are
// filtered out as well.
func (r *BatchRepository) AvailableBatches(productID uint, loading vanEntity.LoadingType) ([]AvailableBatch, error) {
	q := r.db.Table("product_batches pb").
		Select("bl.batch_lot_id AS id, bl.batch_number, bl.lot_number, bl.expiry_date, pb.quantity, bl.remaining_quantity, bl.is_active").
		Joins("JOIN batch_lots bl ON bl.batch_lot_id = pb.batch_lot_id").
		Where("pb.product_id = ? AND bl.is_active = 1 AND bl.expiry_date > ?", productID, time.Now())
	if loading.IsLoad() {
		q = q.Where("bl.remaining_quantity > 0")
	}
	var rows []AvailableBatch
	err := q.Order("bl.expiry_date ASC").Scan(&rows).Error
	return rows, err
}

// Valid sort keys for ProductBatches, mapped to qualified columns.
var productBatchSortKeys = map[string]string{
	"batch_number":       "bl.batch_number ASC",
	"manufacturing_date": "bl.manufacturing_date ASC",
	"created_date":       "bl.created_at ASC",
	"remaining_quantity": "bl.remaining_quantity DESC",
}

// ProductBatchListOptions filters and orders the ProductBatches projection.
type ProductBatchListOptions struct {
	IncludeExpired bool
	SortBy         string
}

// ProductBatchRow is AvailableBatch plus lot detail for the stats listing.
type ProductBatchRow struct {
	AvailableBatch
	ManufacturingDate *time.Time `json:"manufacturing_date"`
	SupplierName      string     `json:"supplier_name"`
	CreatedAt         time.Time  `json:"created_date"`
}

// ProductBatchStats aggregates the listing totals.
type ProductBatchStats struct {
	TotalBatches              int `json:"total_batches"`
	TotalProductBatchQuantity int `json:"total_product_batch_quantity"`
	TotalRemainingQuantity    int `json:"total_remaining_quantity"`
}

// ProductBatches is the availability query with richer stats and a
// configurable sort key.
func (r *BatchRepository) ProductBatches(productID uint, opts ProductBatchListOptions) ([]ProductBatchRow, *ProductBatchStats, error) {
	order, ok := productBatchSortKeys[opts.SortBy]
	if !ok {
		order = productBatchSortKeys["batch_number"]
	}

	q := r.db.Table("product_batches pb").
		Select("bl.batch_lot_id AS id, bl.batch_number, bl.lot_number, bl.expiry_date, pb.quantity, bl.remaining_quantity, bl.is_active, bl.manufacturing_date, bl.supplier_name, bl.created_at").
		Joins("JOIN batch_lots bl ON bl.batch_lot_id = pb.batch_lot_id").
		Where("pb.product_id = ?", productID)
	if !opts.IncludeExpired {
		q = q.Where("bl.expiry_date > ?", time.Now())
	}
	var rows []ProductBatchRow
	if err := q.Order(order).Scan(&rows).Error; err != nil {
		return nil, nil, err
	}

	stats := &ProductBatchStats{TotalBatches: len(rows)}
	for _, row := range rows {
		stats.TotalProductBatchQuantity += row.Quantity
		stats.TotalRemainingQuantity += row.RemainingQuantity
	}
	return rows, stats, nil
}

// BatchGetAvailable fetches available batches for many products in one query.
func (r *BatchRepository) BatchGetAvailable(productIDs []uint, loading vanEntity.LoadingType) (map[uint][]AvailableBatch, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	type row struct {
		ProductID uint
		AvailableBatch
	}
	q := r.db.Table("product_batches pb").
		Select("pb.product_id, bl.batch_lot_id AS id, bl.batch_number, bl.lot_number, bl.expiry_date, pb.quantity, bl.remaining_quantity, bl.is_active").
		Joins("JOIN batch_lots bl ON bl.batch_lot_id = pb.batch_lot_id").
		Where("pb.product_id IN ? AND bl.is_active = 1 AND bl.expiry_date > ?", productIDs, time.Now())
	if loading.IsLoad() {
		q = q.Where("bl.remaining_quantity > 0")
	}
	var rows []row
	if err := q.Order("bl.expiry_date ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	result := make(map[uint][]AvailableBatch, len(productIDs))
	for _, rw := range rows {
		result[rw.ProductID] = append(result[rw.ProductID], rw.AvailableBatch)
	}
	return result, nil
}
