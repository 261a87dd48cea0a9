package vaninventory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vansales.GO/core/apperr"
	entity "vansales.GO/model/entity"
	batchEntity "vansales.GO/model/entity/batch"
	inventoryEntity "vansales.GO/model/entity/inventory"
	productEntity "vansales.GO/model/entity/product"
	serialEntity "vansales.GO/model/entity/serial"
	vanEntity "vansales.GO/model/entity/vaninventory"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Vehicle{},
		&productEntity.Product{},
		&batchEntity.BatchLot{},
		&batchEntity.ProductBatch{},
		&serialEntity.SerialNumber{},
		&inventoryEntity.InventoryStock{},
		&inventoryEntity.StockMovement{},
		&vanEntity.Header{},
		&vanEntity.Item{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fixtures struct {
	user       entity.User
	vehicle    entity.Vehicle
	bulk       productEntity.Product
	batched    productEntity.Product
	serialized productEntity.Product
}

func seed(t *testing.T, db *gorm.DB) fixtures {
	t.Helper()
	f := fixtures{
		user:       entity.User{Name: "Rep One", IsActive: 1},
		vehicle:    entity.Vehicle{Code: "VAN-T1", IsActive: 1},
		bulk:       productEntity.Product{Code: "BULK-1", Name: "Water", Unit: "pcs", UnitPrice: decimal.NewFromInt(2), TrackingType: "NONE", IsActive: 1},
		batched:    productEntity.Product{Code: "BATCH-1", Name: "Milk", Unit: "pcs", UnitPrice: decimal.NewFromInt(3), TrackingType: "BATCH", IsActive: 1},
		serialized: productEntity.Product{Code: "SER-1", Name: "Cooler", Unit: "pcs", UnitPrice: decimal.NewFromInt(100), TrackingType: "SERIAL", IsActive: 1},
	}
	for _, m := range []interface{}{&f.user, &f.vehicle, &f.bulk, &f.batched, &f.serialized} {
		if err := db.Create(m).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return f
}

func loadInput(f fixtures, items ...LineItem) *Input {
	return &Input{
		UserID:      f.user.UserID,
		VehicleID:   &f.vehicle.VehicleID,
		LoadingType: "L",
		Items:       items,
	}
}

func unloadInput(f fixtures, items ...LineItem) *Input {
	in := loadInput(f, items...)
	in.LoadingType = "U"
	return in
}

func movementCount(t *testing.T, db *gorm.DB, movementType string) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&inventoryEntity.StockMovement{}).Where("movement_type = ?", movementType).Count(&n).Error; err != nil {
		t.Fatalf("count movements: %v", err)
	}
	return n
}

func TestCreateOrUpdate_BulkLoad(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	svc := NewService(db)

	header, created, err := svc.CreateOrUpdate(context.Background(), loadInput(f, LineItem{ProductID: f.bulk.ProductID, Quantity: 10}), f.user.UserID)
	if err != nil {
		t.Fatalf("CreateOrUpdate: %v", err)
	}
	if !created {
		t.Error("created = false, want true")
	}
	if header.Status != "O" {
		t.Errorf("Status = %q, want O", header.Status)
	}
	if header.LogInst != 1 {
		t.Errorf("LogInst = %d, want 1", header.LogInst)
	}
	if len(header.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(header.Items))
	}
	item := header.Items[0]
	if item.Quantity != 10 {
		t.Errorf("Quantity = %d, want 10", item.Quantity)
	}
	if item.ProductName != "Water" {
		t.Errorf("ProductName = %q, want Water (snapshot)", item.ProductName)
	}
	if !item.TotalAmount.Equal(decimal.NewFromInt(20)) {
		t.Errorf("TotalAmount = %s, want 20", item.TotalAmount)
	}

	var stock inventoryEntity.InventoryStock
	if err := db.Where("product_id = ?", f.bulk.ProductID).First(&stock).Error; err != nil {
		t.Fatalf("stock row: %v", err)
	}
	if !stock.CurrentStock.Equal(decimal.NewFromInt(10)) {
		t.Errorf("CurrentStock = %s, want 10", stock.CurrentStock)
	}
	if n := movementCount(t, db, "VAN_LOAD"); n != 1 {
		t.Errorf("VAN_LOAD movements = %d, want 1", n)
	}
}

func TestCreateOrUpdate_BulkUnload(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	svc := NewService(db)

	header, _, err := svc.CreateOrUpdate(context.Background(), loadInput(f, LineItem{ProductID: f.bulk.ProductID, Quantity: 10}), f.user.UserID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	// Partial unload decrements the item.
	in := unloadInput(f, LineItem{ProductID: f.bulk.ProductID, Quantity: 4})
	in.ID = header.HeaderID
	updated, created, err := svc.CreateOrUpdate(context.Background(), in, f.user.UserID)
	if err != nil {
		t.Fatalf("unload: %v", err)
	}
	if created {
		t.Error("created = true, want false on update")
	}
	if updated.Items[0].Quantity != 6 {
		t.Errorf("Quantity = %d, want 6", updated.Items[0].Quantity)
	}
	if updated.LogInst != 2 {
		t.Errorf("LogInst = %d, want 2 after one update", updated.LogInst)
	}

	// Unloading the rest deletes the item row.
	in2 := unloadInput(f, LineItem{ProductID: f.bulk.ProductID, Quantity: 6})
	in2.ID = header.HeaderID
	final, _, err := svc.CreateOrUpdate(context.Background(), in2, f.user.UserID)
	if err != nil {
		t.Fatalf("final unload: %v", err)
	}
	if len(final.Items) != 0 {
		t.Errorf("items = %d, want 0 after full unload", len(final.Items))
	}

	// The stock aggregate keeps what was received; depletion lives in the ledger.
	var stock inventoryEntity.InventoryStock
	if err := db.Where("product_id = ?", f.bulk.ProductID).First(&stock).Error; err != nil {
		t.Fatalf("stock row: %v", err)
	}
	if !stock.CurrentStock.Equal(decimal.NewFromInt(10)) {
		t.Errorf("CurrentStock = %s, want 10 (unload must not decrement)", stock.CurrentStock)
	}
	if n := movementCount(t, db, "VAN_UNLOAD"); n != 2 {
		t.Errorf("VAN_UNLOAD movements = %d, want 2", n)
	}
}

func TestCreateOrUpdate_BulkUnload_Insufficient(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	svc := NewService(db)

	header, _, err := svc.CreateOrUpdate(context.Background(), loadInput(f, LineItem{ProductID: f.bulk.ProductID, Quantity: 5}), f.user.UserID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	in := unloadInput(f, LineItem{ProductID: f.bulk.ProductID, Quantity: 8})
	in.ID = header.HeaderID
	_, _, err = svc.CreateOrUpdate(context.Background(), in, f.user.UserID)
	if apperr.KindOf(err) != apperr.KindInsufficientQuantity {
		t.Fatalf("kind = %v, want InsufficientQuantity (err=%v)", apperr.KindOf(err), err)
	}

	// Rolled back: quantity untouched.
	var item vanEntity.Item
	if err := db.Where("header_id = ?", header.HeaderID).First(&item).Error; err != nil {
		t.Fatalf("item: %v", err)
	}
	if item.Quantity != 5 {
		t.Errorf("Quantity = %d, want 5 after rollback", item.Quantity)
	}
}

func TestCreateOrUpdate_BatchLoad(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	svc := NewService(db)

	expiry := time.Now().AddDate(0, 6, 0)
	header, _, err := svc.CreateOrUpdate(context.Background(), loadInput(f, LineItem{
		ProductID: f.batched.ProductID,
		Quantity:  12,
		Batches: []BatchAllocation{
			{BatchNumber: "B-100", LotNumber: "L-1", Quantity: 12, ExpiryDate: &expiry, SupplierName: "Dairy Co"},
		},
	}), f.user.UserID)
	if err != nil {
		t.Fatalf("CreateOrUpdate: %v", err)
	}

	var lot batchEntity.BatchLot
	if err := db.Where("batch_number = ?", "B-100").First(&lot).Error; err != nil {
		t.Fatalf("lot: %v", err)
	}
	if lot.Quantity != 12 || lot.RemainingQuantity != 12 {
		t.Errorf("lot quantities = %d/%d, want 12/12", lot.Quantity, lot.RemainingQuantity)
	}
	if lot.IsActive != 1 {
		t.Error("lot should be active")
	}

	var pb batchEntity.ProductBatch
	if err := db.Where("product_id = ? AND batch_lot_id = ?", f.batched.ProductID, lot.BatchLotID).First(&pb).Error; err != nil {
		t.Fatalf("product batch: %v", err)
	}
	if pb.Quantity != 12 {
		t.Errorf("product batch quantity = %d, want 12", pb.Quantity)
	}

	if len(header.Items) != 1 || header.Items[0].BatchLotID == nil || *header.Items[0].BatchLotID != lot.BatchLotID {
		t.Error("item not linked to the created lot")
	}
}

func TestCreateOrUpdate_BatchLoad_DuplicateNumber(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	svc := NewService(db)

	line := LineItem{ProductID: f.batched.ProductID, Quantity: 5, Batches: []BatchAllocation{{BatchNumber: "B-DUP", Quantity: 5}}}
	if _, _, err := svc.CreateOrUpdate(context.Background(), loadInput(f, line), f.user.UserID); err != nil {
		t.Fatalf("first load: %v", err)
	}
	_, _, err := svc.CreateOrUpdate(context.Background(), loadInput(f, line), f.user.UserID)
	if apperr.KindOf(err) != apperr.KindDuplicate {
		t.Fatalf("kind = %v, want Duplicate (err=%v)", apperr.KindOf(err), err)
	}
}

func TestCreateOrUpdate_BatchLoad_ExpiredRejected(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	svc := NewService(db)

	past := time.Now().Add(-time.Hour)
	_, _, err := svc.CreateOrUpdate(context.Background(), loadInput(f, LineItem{
		ProductID: f.batched.ProductID,
		Quantity:  5,
		Batches:   []BatchAllocation{{BatchNumber: "B-OLD", Quantity: 5, ExpiryDate: &past}},
	}), f.user.UserID)
	if apperr.KindOf(err) != apperr.KindBatchExpired {
		t.Fatalf("kind = %v, want BatchExpired (err=%v)", apperr.KindOf(err), err)
	}
}

func TestCreateOrUpdate_BatchLoad_DefaultExpiry(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	svc := NewService(db)

	mfg := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	_, _, err := svc.CreateOrUpdate(context.Background(), loadInput(f, LineItem{
		ProductID: f.batched.ProductID,
		Quantity:  3,
		Batches:   []BatchAllocation{{BatchNumber: "B-DEF", Quantity: 3, ManufacturingDate: &mfg}},
	}), f.user.UserID)
	if err != nil {
		t.Fatalf("CreateOrUpdate: %v", err)
	}

	var lot batchEntity.BatchLot
	if err := db.Where("batch_number = ?", "B-DEF").First(&lot).Error; err != nil {
		t.Fatalf("lot: %v", err)
	}
	want := mfg.AddDate(2, 0, 0)
	if !lot.ExpiryDate.Equal(want) {
		t.Errorf("ExpiryDate = %s, want %s (manufacturing + 2y)", lot.ExpiryDate, want)
	}
}

func TestCreateOrUpdate_BatchUnload_LeavesLedgersAlone(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	svc := NewService(db)

	header, _, err := svc.CreateOrUpdate(context.Background(), loadInput(f, LineItem{
		ProductID: f.batched.ProductID,
		Quantity:  10,
		Batches:   []BatchAllocation{{BatchNumber: "B-200", Quantity: 10}},
	}), f.user.UserID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	in := unloadInput(f, LineItem{
		ProductID: f.batched.ProductID,
		Quantity:  4,
		Batches:   []BatchAllocation{{BatchNumber: "B-200", Quantity: 4}},
	})
	in.ID = header.HeaderID
	updated, _, err := svc.CreateOrUpdate(context.Background(), in, f.user.UserID)
	if err != nil {
		t.Fatalf("unload: %v", err)
	}
	if updated.Items[0].Quantity != 6 {
		t.Errorf("item quantity = %d, want 6", updated.Items[0].Quantity)
	}

	// Unload must not touch the lot's remaining quantity or the stock aggregate.
	var lot batchEntity.BatchLot
	if err := db.Where("batch_number = ?", "B-200").First(&lot).Error; err != nil {
		t.Fatalf("lot: %v", err)
	}
	if lot.RemainingQuantity != 10 {
		t.Errorf("RemainingQuantity = %d, want 10", lot.RemainingQuantity)
	}
	var stock inventoryEntity.InventoryStock
	if err := db.Where("product_id = ?", f.batched.ProductID).First(&stock).Error; err != nil {
		t.Fatalf("stock: %v", err)
	}
	if !stock.CurrentStock.Equal(decimal.NewFromInt(10)) {
		t.Errorf("CurrentStock = %s, want 10", stock.CurrentStock)
	}
	if n := movementCount(t, db, "VAN_UNLOAD"); n != 1 {
		t.Errorf("VAN_UNLOAD movements = %d, want 1", n)
	}
}

func TestCreateOrUpdate_BatchUnload_UnknownBatch(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	svc := NewService(db)

	_, _, err := svc.CreateOrUpdate(context.Background(), unloadInput(f, LineItem{
		ProductID: f.batched.ProductID,
		Quantity:  1,
		Batches:   []BatchAllocation{{BatchNumber: "NOPE", Quantity: 1}},
	}), f.user.UserID)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("kind = %v, want NotFound (err=%v)", apperr.KindOf(err), err)
	}
}

func TestCreateOrUpdate_SerialLifecycle(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	svc := NewService(db)

	header, _, err := svc.CreateOrUpdate(context.Background(), loadInput(f, LineItem{
		ProductID: f.serialized.ProductID,
		Quantity:  2,
		Serials: []SerialAllocation{
			{SerialNo: "SN-001", Quantity: 1},
			{SerialNo: "SN-002", Quantity: 1},
		},
	}), f.user.UserID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(header.Items) != 2 {
		t.Fatalf("items = %d, want 2 (one per serial)", len(header.Items))
	}

	var sn serialEntity.SerialNumber
	if err := db.Where("serial_no = ?", "SN-001").First(&sn).Error; err != nil {
		t.Fatalf("serial: %v", err)
	}
	if sn.Status != serialEntity.StatusInVan {
		t.Errorf("Status = %q, want in_van", sn.Status)
	}

	// Serial load keeps the stock aggregate untouched.
	var stockCount int64
	db.Model(&inventoryEntity.InventoryStock{}).Where("product_id = ?", f.serialized.ProductID).Count(&stockCount)
	if stockCount != 0 {
		t.Errorf("stock rows = %d, want 0 for serial products", stockCount)
	}

	in := unloadInput(f, LineItem{
		ProductID: f.serialized.ProductID,
		Quantity:  1,
		Serials:   []SerialAllocation{{SerialNo: "SN-001", Quantity: 1}},
	})
	in.ID = header.HeaderID
	updated, _, err := svc.CreateOrUpdate(context.Background(), in, f.user.UserID)
	if err != nil {
		t.Fatalf("unload: %v", err)
	}
	if len(updated.Items) != 1 {
		t.Errorf("items = %d, want 1 after unloading one serial", len(updated.Items))
	}

	if err := db.Where("serial_no = ?", "SN-001").First(&sn).Error; err != nil {
		t.Fatalf("serial after unload: %v", err)
	}
	if sn.Status != serialEntity.StatusAvailable {
		t.Errorf("Status = %q, want available after unload", sn.Status)
	}
}

func TestCreateOrUpdate_SerialLoad_DuplicateSerial(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	svc := NewService(db)

	line := LineItem{ProductID: f.serialized.ProductID, Quantity: 1, Serials: []SerialAllocation{{SerialNo: "SN-DUP", Quantity: 1}}}
	if _, _, err := svc.CreateOrUpdate(context.Background(), loadInput(f, line), f.user.UserID); err != nil {
		t.Fatalf("first load: %v", err)
	}
	_, _, err := svc.CreateOrUpdate(context.Background(), loadInput(f, line), f.user.UserID)
	if apperr.KindOf(err) != apperr.KindDuplicate {
		t.Fatalf("kind = %v, want Duplicate (err=%v)", apperr.KindOf(err), err)
	}
}

func TestCreateOrUpdate_SerialQuantityRules(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	svc := NewService(db)

	// Entry quantity other than 1.
	_, _, err := svc.CreateOrUpdate(context.Background(), loadInput(f, LineItem{
		ProductID: f.serialized.ProductID,
		Quantity:  2,
		Serials:   []SerialAllocation{{SerialNo: "SN-A", Quantity: 2}},
	}), f.user.UserID)
	if apperr.KindOf(err) != apperr.KindInvalidState {
		t.Fatalf("kind = %v, want InvalidState for qty != 1", apperr.KindOf(err))
	}

	// Entry count not matching line quantity.
	_, _, err = svc.CreateOrUpdate(context.Background(), loadInput(f, LineItem{
		ProductID: f.serialized.ProductID,
		Quantity:  3,
		Serials:   []SerialAllocation{{SerialNo: "SN-B", Quantity: 1}, {SerialNo: "SN-C", Quantity: 1}},
	}), f.user.UserID)
	if apperr.KindOf(err) != apperr.KindInvalidState {
		t.Fatalf("kind = %v, want InvalidState for count mismatch", apperr.KindOf(err))
	}
}

func TestCreateOrUpdate_SerialUnload_WrongProduct(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	svc := NewService(db)

	if _, _, err := svc.CreateOrUpdate(context.Background(), loadInput(f, LineItem{
		ProductID: f.serialized.ProductID,
		Quantity:  1,
		Serials:   []SerialAllocation{{SerialNo: "SN-X", Quantity: 1}},
	}), f.user.UserID); err != nil {
		t.Fatalf("load: %v", err)
	}

	// Unload the serial against a different serial-tracked product.
	other := productEntity.Product{Code: "SER-2", Name: "Fridge", Unit: "pcs", UnitPrice: decimal.NewFromInt(80), TrackingType: "SERIAL", IsActive: 1}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("seed other product: %v", err)
	}
	_, _, err := svc.CreateOrUpdate(context.Background(), unloadInput(f, LineItem{
		ProductID: other.ProductID,
		Quantity:  1,
		Serials:   []SerialAllocation{{SerialNo: "SN-X", Quantity: 1}},
	}), f.user.UserID)
	if apperr.KindOf(err) != apperr.KindInvalidState {
		t.Fatalf("kind = %v, want InvalidState (err=%v)", apperr.KindOf(err), err)
	}
}

func TestCreateOrUpdate_TxSlotWaitBounded(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	svc := NewService(db)
	svc.gate = make(chan struct{}, 1)
	svc.txMaxWait = 20 * time.Millisecond
	svc.gate <- struct{}{} // hold the only slot

	start := time.Now()
	_, _, err := svc.CreateOrUpdate(context.Background(), loadInput(f, LineItem{ProductID: f.bulk.ProductID, Quantity: 1}), f.user.UserID)
	if err == nil {
		t.Fatal("want error while the slot is held")
	}
	if apperr.KindOf(err) != apperr.KindUnknown {
		t.Errorf("kind = %v, want Unknown (server-side, not a business reject)", apperr.KindOf(err))
	}
	if waited := time.Since(start); waited > 5*time.Second {
		t.Errorf("waited %s, want the configured 20ms budget, not the execution deadline", waited)
	}

	<-svc.gate
	if _, _, err := svc.CreateOrUpdate(context.Background(), loadInput(f, LineItem{ProductID: f.bulk.ProductID, Quantity: 1}), f.user.UserID); err != nil {
		t.Fatalf("after slot freed: %v", err)
	}
}

func TestCreateOrUpdate_BatchLoad_ReusesNumberAfterDeactivation(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	svc := NewService(db)

	line := LineItem{ProductID: f.batched.ProductID, Quantity: 5, Batches: []BatchAllocation{{BatchNumber: "B-RE", Quantity: 5}}}
	if _, _, err := svc.CreateOrUpdate(context.Background(), loadInput(f, line), f.user.UserID); err != nil {
		t.Fatalf("first load: %v", err)
	}

	// The nightly sweep deactivates the lot; the number becomes reusable.
	if err := db.Model(&batchEntity.BatchLot{}).Where("batch_number = ?", "B-RE").UpdateColumn("is_active", 0).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, _, err := svc.CreateOrUpdate(context.Background(), loadInput(f, line), f.user.UserID); err != nil {
		t.Fatalf("reload after deactivation: %v", err)
	}

	var total, active int64
	db.Model(&batchEntity.BatchLot{}).Where("batch_number = ?", "B-RE").Count(&total)
	db.Model(&batchEntity.BatchLot{}).Where("batch_number = ? AND is_active = 1", "B-RE").Count(&active)
	if total != 2 || active != 1 {
		t.Errorf("lots = %d total / %d active, want 2/1", total, active)
	}
}

func TestAvailableBatchesBulk(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	svc := NewService(db)

	other := productEntity.Product{Code: "BATCH-2", Name: "Yogurt", Unit: "pcs", UnitPrice: decimal.NewFromInt(2), TrackingType: "BATCH", IsActive: 1}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}
	for _, load := range []struct {
		productID uint
		number    string
	}{
		{f.batched.ProductID, "B-BULK1"},
		{other.ProductID, "B-BULK2"},
	} {
		if _, _, err := svc.CreateOrUpdate(context.Background(), loadInput(f, LineItem{
			ProductID: load.productID,
			Quantity:  5,
			Batches:   []BatchAllocation{{BatchNumber: load.number, Quantity: 5}},
		}), f.user.UserID); err != nil {
			t.Fatalf("load %s: %v", load.number, err)
		}
	}

	byProduct, err := svc.AvailableBatchesBulk([]uint{f.batched.ProductID, other.ProductID, 9999}, "L")
	if err != nil {
		t.Fatalf("AvailableBatchesBulk: %v", err)
	}
	if len(byProduct) != 2 {
		t.Fatalf("products = %d, want 2 (unknown id yields no entry)", len(byProduct))
	}
	if rows := byProduct[f.batched.ProductID]; len(rows) != 1 || rows[0].BatchNumber != "B-BULK1" {
		t.Errorf("batched rows = %+v, want one B-BULK1", rows)
	}
	if rows := byProduct[other.ProductID]; len(rows) != 1 || rows[0].BatchNumber != "B-BULK2" {
		t.Errorf("other rows = %+v, want one B-BULK2", rows)
	}
}

func TestCreateOrUpdate_MultiLineAtomicity(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	svc := NewService(db)

	_, _, err := svc.CreateOrUpdate(context.Background(), loadInput(f,
		LineItem{ProductID: f.bulk.ProductID, Quantity: 5},
		LineItem{ProductID: 9999, Quantity: 1},
	), f.user.UserID)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("kind = %v, want NotFound (err=%v)", apperr.KindOf(err), err)
	}

	// Nothing from the first line survives.
	var headers, items, movements int64
	db.Model(&vanEntity.Header{}).Count(&headers)
	db.Model(&vanEntity.Item{}).Count(&items)
	db.Model(&inventoryEntity.StockMovement{}).Count(&movements)
	if headers != 0 || items != 0 || movements != 0 {
		t.Errorf("rows after rollback = %d headers, %d items, %d movements, want all 0", headers, items, movements)
	}
}

func TestCreateOrUpdate_InvalidLoadingType(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	svc := NewService(db)

	in := loadInput(f, LineItem{ProductID: f.bulk.ProductID, Quantity: 1})
	in.LoadingType = "X"
	_, _, err := svc.CreateOrUpdate(context.Background(), in, f.user.UserID)
	if apperr.KindOf(err) != apperr.KindInvalidState {
		t.Fatalf("kind = %v, want InvalidState (err=%v)", apperr.KindOf(err), err)
	}
}

func TestCreateOrUpdate_UnknownUser(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	svc := NewService(db)

	in := loadInput(f, LineItem{ProductID: f.bulk.ProductID, Quantity: 1})
	in.UserID = 4242
	_, _, err := svc.CreateOrUpdate(context.Background(), in, 1)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("kind = %v, want NotFound (err=%v)", apperr.KindOf(err), err)
	}
}

func TestDelete(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	svc := NewService(db)

	header, _, err := svc.CreateOrUpdate(context.Background(), loadInput(f, LineItem{ProductID: f.bulk.ProductID, Quantity: 3}), f.user.UserID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := svc.Delete(context.Background(), header.HeaderID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	var headers, items int64
	db.Model(&vanEntity.Header{}).Count(&headers)
	db.Model(&vanEntity.Item{}).Count(&items)
	if headers != 0 || items != 0 {
		t.Errorf("rows after delete = %d headers, %d items, want 0", headers, items)
	}

	if err := svc.Delete(context.Background(), header.HeaderID); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("second delete kind = %v, want NotFound", apperr.KindOf(err))
	}
}

func TestVanContents(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	svc := NewService(db)

	if _, _, err := svc.CreateOrUpdate(context.Background(), loadInput(f,
		LineItem{ProductID: f.bulk.ProductID, Quantity: 7},
	), f.user.UserID); err != nil {
		t.Fatalf("load: %v", err)
	}

	items, err := svc.VanContents(f.user.UserID)
	if err != nil {
		t.Fatalf("VanContents: %v", err)
	}
	if len(items) != 1 || items[0].Quantity != 7 {
		t.Fatalf("contents = %+v, want one item of 7", items)
	}

	other, err := svc.VanContents(f.user.UserID + 100)
	if err != nil {
		t.Fatalf("VanContents other: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("other user's contents = %d items, want 0", len(other))
	}
}

func TestAvailableBatches_CacheInvalidation(t *testing.T) {
	db := testDB(t)
	f := seed(t, db)
	svc := NewService(db)

	if _, _, err := svc.CreateOrUpdate(context.Background(), loadInput(f, LineItem{
		ProductID: f.batched.ProductID,
		Quantity:  5,
		Batches:   []BatchAllocation{{BatchNumber: "B-C1", Quantity: 5}},
	}), f.user.UserID); err != nil {
		t.Fatalf("load: %v", err)
	}

	rows, err := svc.AvailableBatches(f.batched.ProductID, "L")
	if err != nil {
		t.Fatalf("AvailableBatches: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}

	// Second load invalidates the cached projection.
	if _, _, err := svc.CreateOrUpdate(context.Background(), loadInput(f, LineItem{
		ProductID: f.batched.ProductID,
		Quantity:  5,
		Batches:   []BatchAllocation{{BatchNumber: "B-C2", Quantity: 5}},
	}), f.user.UserID); err != nil {
		t.Fatalf("second load: %v", err)
	}
	rows, err = svc.AvailableBatches(f.batched.ProductID, "L")
	if err != nil {
		t.Fatalf("AvailableBatches after second load: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2 after invalidation", len(rows))
	}
}
