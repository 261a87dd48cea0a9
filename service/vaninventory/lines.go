package vaninventory

import (
	"fmt"
	"time"

	"vansales.GO/core/apperr"
	inventoryEntity "vansales.GO/model/entity/inventory"
	productEntity "vansales.GO/model/entity/product"
	serialEntity "vansales.GO/model/entity/serial"
	vanEntity "vansales.GO/model/entity/vaninventory"

	batchEntity "vansales.GO/model/entity/batch"
)

// recordMovement appends the ledger row for one physical quantity change on
// this document.
func recordMovement(repos *txRepos, header *vanEntity.Header, productID uint, batchLotID, serialNumberID *uint,
	loading vanEntity.LoadingType, quantity int, remark string, actorID uint) error {

	m := &inventoryEntity.StockMovement{
		ProductID:      productID,
		BatchLotID:     batchLotID,
		SerialNumberID: serialNumberID,
		ReferenceType:  inventoryEntity.ReferenceTypeVanInventory,
		ReferenceID:    header.HeaderID,
		Quantity:       quantity,
		Remark:         remark,
		CreatedBy:      actorID,
	}
	if loading.IsLoad() {
		m.MovementType = inventoryEntity.MovementVanLoad
		m.ToLocationID = header.LocationID
	} else {
		m.MovementType = inventoryEntity.MovementVanUnload
		m.FromLocationID = header.LocationID
	}
	return repos.inventory.RecordMovement(m)
}

// applyBatchLine handles a batch-tracked line in either direction. Each
// allocation is processed independently; their quantities need not sum to
// the line's nominal quantity.
func (s *Service) applyBatchLine(repos *txRepos, header *vanEntity.Header, prod *productEntity.Product,
	line LineItem, loading vanEntity.LoadingType, actorID uint) error {

	if len(line.Batches) == 0 {
		return apperr.Validationf("product_batches is required for batch-tracked product %s", prod.Name)
	}
	for _, alloc := range line.Batches {
		if alloc.Quantity <= 0 {
			return apperr.Validationf("batch allocation quantity must be greater than zero")
		}
		var err error
		if loading.IsLoad() {
			err = s.loadBatchAllocation(repos, header, prod, line, alloc, actorID)
		} else {
			err = s.unloadBatchAllocation(repos, header, prod, alloc, loading, actorID)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) loadBatchAllocation(repos *txRepos, header *vanEntity.Header, prod *productEntity.Product,
	line LineItem, alloc BatchAllocation, actorID uint) error {

	if alloc.BatchNumber == "" {
		return apperr.Validationf("batch_number is required for product %s", prod.Name)
	}
	existing, err := repos.batches.FindActiveByNumber(alloc.BatchNumber)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperr.Duplicatef("batch number %s already exists", alloc.BatchNumber)
	}

	now := time.Now()
	expiry := defaultExpiry(alloc, now)
	if !expiry.After(now) {
		return apperr.BatchExpiredf("batch %s is expired", alloc.BatchNumber)
	}

	lot := &batchEntity.BatchLot{
		BatchNumber:       alloc.BatchNumber,
		LotNumber:         alloc.LotNumber,
		ManufacturingDate: alloc.ManufacturingDate,
		ExpiryDate:        expiry,
		Quantity:          alloc.Quantity,
		RemainingQuantity: alloc.Quantity,
		SupplierName:      alloc.SupplierName,
		IsActive:          1,
	}
	if err := repos.batches.CreateLot(lot); err != nil {
		return err
	}
	if err := repos.batches.CreateProductBatch(&batchEntity.ProductBatch{
		ProductID:  prod.ProductID,
		BatchLotID: lot.BatchLotID,
		Quantity:   alloc.Quantity,
	}); err != nil {
		return err
	}

	item := newItem(header, prod, line, alloc.Quantity)
	item.BatchLotID = &lot.BatchLotID
	if err := repos.headers.CreateItem(item); err != nil {
		return err
	}
	if err := repos.inventory.IncrementStock(prod.ProductID, headerLocation(header), alloc.Quantity); err != nil {
		return err
	}
	remark := fmt.Sprintf("van load batch %s", alloc.BatchNumber)
	return recordMovement(repos, header, prod.ProductID, &lot.BatchLotID, nil, vanEntity.LoadingTypeLoad, alloc.Quantity, remark, actorID)
}

func (s *Service) unloadBatchAllocation(repos *txRepos, header *vanEntity.Header, prod *productEntity.Product,
	alloc BatchAllocation, loading vanEntity.LoadingType, actorID uint) error {

	lot, err := s.resolveLot(repos, alloc)
	if err != nil {
		return err
	}
	if lot.IsActive == 0 {
		return apperr.BatchInactivef("batch %s is not active", lot.BatchNumber)
	}
	if lot.IsExpired(time.Now()) {
		return apperr.BatchExpiredf("batch %s is expired", lot.BatchNumber)
	}

	item, err := repos.headers.FindItemForBatch(header.HeaderID, prod.ProductID, lot.BatchLotID)
	if err != nil {
		return err
	}
	if item == nil {
		return apperr.NotFoundf("van inventory item not found for batch %s", lot.BatchNumber)
	}
	if item.Quantity < alloc.Quantity {
		return apperr.InsufficientQuantityf("Insufficient quantity for batch %s: have %d, requested %d",
			lot.BatchNumber, item.Quantity, alloc.Quantity)
	}

	if item.Quantity == alloc.Quantity {
		err = repos.headers.DeleteItem(item.ItemID)
	} else {
		err = repos.headers.UpdateItemQuantity(item.ItemID, item.Quantity-alloc.Quantity)
	}
	if err != nil {
		return err
	}

	// The stock aggregate and the lot's remaining quantity stay untouched:
	// unloads move goods back to the depot, they do not consume the batch.
	remark := fmt.Sprintf("van unload batch %s", lot.BatchNumber)
	return recordMovement(repos, header, prod.ProductID, &lot.BatchLotID, nil, loading, alloc.Quantity, remark, actorID)
}

// resolveLot finds the lot an unload allocation refers to, by explicit id
// or by batch number.
func (s *Service) resolveLot(repos *txRepos, alloc BatchAllocation) (*batchEntity.BatchLot, error) {
	if alloc.BatchLotID != nil {
		lot, err := repos.batches.FindByID(*alloc.BatchLotID)
		if err != nil {
			return nil, err
		}
		if lot == nil {
			return nil, apperr.NotFoundf("batch lot %d not found", *alloc.BatchLotID)
		}
		return lot, nil
	}
	if alloc.BatchNumber == "" {
		return nil, apperr.Validationf("batch_number or batch_lot_id is required")
	}
	lot, err := repos.batches.FindActiveByNumber(alloc.BatchNumber)
	if err != nil {
		return nil, err
	}
	if lot == nil {
		return nil, apperr.NotFoundf("batch %s not found", alloc.BatchNumber)
	}
	return lot, nil
}

// defaultExpiry applies the two-year default when the allocation does not
// carry an expiry date.
func defaultExpiry(alloc BatchAllocation, now time.Time) time.Time {
	if alloc.ExpiryDate != nil {
		return *alloc.ExpiryDate
	}
	base := now
	if alloc.ManufacturingDate != nil {
		base = *alloc.ManufacturingDate
	}
	return base.AddDate(2, 0, 0)
}

// applySerialLine handles a serial-tracked line in either direction. Entry
// quantities must each be 1 and sum to the line's nominal quantity.
func (s *Service) applySerialLine(repos *txRepos, header *vanEntity.Header, prod *productEntity.Product,
	line LineItem, loading vanEntity.LoadingType, actorID uint) error {

	if len(line.Serials) == 0 {
		return apperr.Validationf("product_serials is required for serial-tracked product %s", prod.Name)
	}
	total := 0
	for _, entry := range line.Serials {
		if entry.Quantity != 1 {
			return apperr.InvalidStatef("serial %s quantity must be 1", entry.SerialNo)
		}
		if entry.SerialNo == "" {
			return apperr.Validationf("serial_number is required")
		}
		total += entry.Quantity
	}
	if total != line.Quantity {
		return apperr.InvalidStatef("serial quantity total %d does not match item quantity %d", total, line.Quantity)
	}

	for _, entry := range line.Serials {
		var err error
		if loading.IsLoad() {
			err = s.loadSerialEntry(repos, header, prod, line, entry, actorID)
		} else {
			err = s.unloadSerialEntry(repos, header, prod, entry, loading, actorID)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) loadSerialEntry(repos *txRepos, header *vanEntity.Header, prod *productEntity.Product,
	line LineItem, entry SerialAllocation, actorID uint) error {

	existing, err := repos.serials.FindBySerial(entry.SerialNo)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperr.Duplicatef("serial number %s already exists", entry.SerialNo)
	}

	sn := &serialEntity.SerialNumber{
		SerialNo:       entry.SerialNo,
		ProductID:      prod.ProductID,
		Status:         serialEntity.StatusInVan,
		LocationID:     header.LocationID,
		WarrantyExpiry: entry.WarrantyExpiry,
		CustomerID:     entry.CustomerID,
	}
	if err := repos.serials.Create(sn); err != nil {
		return err
	}

	item := newItem(header, prod, line, 1)
	item.SerialNumberID = &sn.SerialNumberID
	if err := repos.headers.CreateItem(item); err != nil {
		return err
	}
	remark := fmt.Sprintf("van load serial %s", entry.SerialNo)
	return recordMovement(repos, header, prod.ProductID, nil, &sn.SerialNumberID, vanEntity.LoadingTypeLoad, 1, remark, actorID)
}

func (s *Service) unloadSerialEntry(repos *txRepos, header *vanEntity.Header, prod *productEntity.Product,
	entry SerialAllocation, loading vanEntity.LoadingType, actorID uint) error {

	sn, err := repos.serials.FindBySerial(entry.SerialNo)
	if err != nil {
		return err
	}
	if sn == nil {
		return apperr.NotFoundf("serial number %s not found", entry.SerialNo)
	}
	if sn.ProductID != prod.ProductID {
		return apperr.InvalidStatef("serial %s does not belong to product %s", entry.SerialNo, prod.Name)
	}

	item, err := repos.headers.FindItemForSerial(header.HeaderID, prod.ProductID, sn.SerialNumberID)
	if err != nil {
		return err
	}
	if item == nil {
		return apperr.NotFoundf("van inventory item not found for serial %s", entry.SerialNo)
	}

	if err := repos.headers.DeleteItem(item.ItemID); err != nil {
		return err
	}
	if err := repos.serials.MarkAvailable(sn.SerialNumberID, header.LocationID); err != nil {
		return err
	}
	remark := fmt.Sprintf("van unload serial %s", entry.SerialNo)
	return recordMovement(repos, header, prod.ProductID, nil, &sn.SerialNumberID, loading, 1, remark, actorID)
}

// applyQuantityLine handles an untracked (bulk) line in either direction.
func (s *Service) applyQuantityLine(repos *txRepos, header *vanEntity.Header, prod *productEntity.Product,
	line LineItem, loading vanEntity.LoadingType, actorID uint) error {

	if loading.IsLoad() {
		item := newItem(header, prod, line, line.Quantity)
		if err := repos.headers.CreateItem(item); err != nil {
			return err
		}
		if err := repos.inventory.IncrementStock(prod.ProductID, headerLocation(header), line.Quantity); err != nil {
			return err
		}
		remark := fmt.Sprintf("van load %s", prod.Name)
		return recordMovement(repos, header, prod.ProductID, nil, nil, loading, line.Quantity, remark, actorID)
	}

	item, err := repos.headers.FindPlainItem(header.HeaderID, prod.ProductID)
	if err != nil {
		return err
	}
	if item == nil {
		return apperr.NotFoundf("van inventory item not found for product %s", prod.Name)
	}
	if item.Quantity < line.Quantity {
		return apperr.InsufficientQuantityf("Insufficient quantity for product %s: have %d, requested %d",
			prod.Name, item.Quantity, line.Quantity)
	}

	if item.Quantity == line.Quantity {
		err = repos.headers.DeleteItem(item.ItemID)
	} else {
		err = repos.headers.UpdateItemQuantity(item.ItemID, item.Quantity-line.Quantity)
	}
	if err != nil {
		return err
	}
	remark := fmt.Sprintf("van unload %s", prod.Name)
	return recordMovement(repos, header, prod.ProductID, nil, nil, loading, line.Quantity, remark, actorID)
}
