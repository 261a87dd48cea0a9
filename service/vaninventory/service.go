package vaninventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"vansales.GO/config"
	"vansales.GO/core/apperr"
	entity "vansales.GO/model/entity"
	productEntity "vansales.GO/model/entity/product"
	vanEntity "vansales.GO/model/entity/vaninventory"
	batchRepo "vansales.GO/model/repository/batch"
	inventoryRepo "vansales.GO/model/repository/inventory"
	serialRepo "vansales.GO/model/repository/serial"
	vanRepo "vansales.GO/model/repository/vaninventory"
)

// Service is the van inventory aggregate root. Every mutation runs inside
// one database transaction; any violated invariant rolls the whole document
// back. Mutations first claim a slot from gate, waiting at most txMaxWait,
// then execute under a txTimeout deadline.
type Service struct {
	db        *gorm.DB
	log       *logrus.Logger
	gate      chan struct{}
	txMaxWait time.Duration
	txTimeout time.Duration
}

func NewService(db *gorm.DB) *Service {
	cfg := config.Get()
	return &Service{
		db:        db,
		log:       config.GetLogger(),
		gate:      make(chan struct{}, config.MaxOpenConns()),
		txMaxWait: cfg.TxMaxWait,
		txTimeout: cfg.TxTimeout,
	}
}

// acquireSlot claims a transaction slot, waiting at most txMaxWait. The gate
// is sized to the connection pool so waiters queue here instead of blocking
// inside the driver for the full execution deadline.
func (s *Service) acquireSlot(ctx context.Context) (func(), error) {
	wait, cancel := context.WithTimeout(ctx, s.txMaxWait)
	defer cancel()
	select {
	case s.gate <- struct{}{}:
		return func() { <-s.gate }, nil
	case <-wait.Done():
		return nil, fmt.Errorf("no transaction slot available within %s", s.txMaxWait)
	}
}

// txRepos bundles the repositories bound to one transaction handle.
type txRepos struct {
	headers   *vanRepo.VanInventoryRepository
	batches   *batchRepo.BatchRepository
	serials   *serialRepo.SerialRepository
	inventory *inventoryRepo.InventoryRepository
}

func newTxRepos(tx *gorm.DB) *txRepos {
	return &txRepos{
		headers:   vanRepo.NewVanInventoryRepository(tx),
		batches:   batchRepo.NewBatchRepository(tx),
		serials:   serialRepo.NewSerialRepository(tx),
		inventory: inventoryRepo.NewInventoryRepository(tx),
	}
}

// CreateOrUpdate applies a load/unload document. Returns the hydrated header
// and whether a new header was created.
func (s *Service) CreateOrUpdate(ctx context.Context, in *Input, actorID uint) (*vanEntity.Header, bool, error) {
	release, err := s.acquireSlot(ctx)
	if err != nil {
		return nil, false, err
	}
	defer release()
	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	loading, perr := vanEntity.ParseLoadingType(in.LoadingType)
	if perr != nil {
		return nil, false, apperr.InvalidStatef("%s", perr.Error())
	}
	if in.UserID == 0 {
		return nil, false, apperr.Validationf("user_id is required")
	}
	if len(in.Items) == 0 {
		return nil, false, apperr.Validationf("van_inventory_items is required")
	}

	var (
		headerID uint
		created  bool
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := newTxRepos(tx)

		var user entity.User
		if err := tx.First(&user, in.UserID).Error; err != nil {
			return apperr.NotFoundf("user %d not found", in.UserID)
		}
		if in.VehicleID != nil {
			var vehicle entity.Vehicle
			if err := tx.First(&vehicle, *in.VehicleID).Error; err != nil {
				return apperr.NotFoundf("vehicle %d not found", *in.VehicleID)
			}
		}

		header, isNew, err := s.resolveHeader(repos, in, loading, actorID)
		if err != nil {
			return err
		}
		headerID = header.HeaderID
		created = isNew

		for _, line := range in.Items {
			if line.Quantity <= 0 {
				return apperr.Validationf("quantity must be greater than zero for product %d", line.ProductID)
			}
			var prod productEntity.Product
			if err := tx.First(&prod, line.ProductID).Error; err != nil {
				return apperr.NotFoundf("product %d not found", line.ProductID)
			}

			switch prod.Tracking() {
			case productEntity.TrackingBatch:
				err = s.applyBatchLine(repos, header, &prod, line, loading, actorID)
			case productEntity.TrackingSerial:
				err = s.applySerialLine(repos, header, &prod, line, loading, actorID)
			case productEntity.TrackingNone:
				err = s.applyQuantityLine(repos, header, &prod, line, loading, actorID)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	s.invalidateAvailability(in.Items)
	s.log.WithFields(logrus.Fields{
		"header_id":    headerID,
		"loading_type": string(loading),
		"lines":        len(in.Items),
		"created":      created,
	}).Info("van inventory document applied")

	hydrated, err := vanRepo.NewVanInventoryRepository(s.db).HydrateHeader(headerID)
	if err != nil {
		return nil, false, err
	}
	return hydrated, created, nil
}

// resolveHeader updates the existing header when in.ID points at one,
// otherwise creates a fresh document.
func (s *Service) resolveHeader(repos *txRepos, in *Input, loading vanEntity.LoadingType, actorID uint) (*vanEntity.Header, bool, error) {
	if in.ID != 0 {
		existing, err := repos.headers.FindHeader(in.ID)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			changes := map[string]interface{}{
				"user_id":      in.UserID,
				"loading_type": string(loading),
				"updated_by":   actorID,
			}
			if in.VehicleID != nil {
				changes["vehicle_id"] = *in.VehicleID
			}
			if in.DocumentDate != nil {
				changes["document_date"] = *in.DocumentDate
			}
			if in.LocationID != nil {
				changes["location_id"] = *in.LocationID
			}
			if in.LocationType != "" {
				changes["location_type"] = in.LocationType
			}
			if err := repos.headers.UpdateHeader(existing.HeaderID, changes); err != nil {
				return nil, false, err
			}
			refreshed, err := repos.headers.FindHeader(existing.HeaderID)
			if err != nil {
				return nil, false, err
			}
			return refreshed, false, nil
		}
	}

	documentDate := time.Now()
	if in.DocumentDate != nil {
		documentDate = *in.DocumentDate
	}
	header := &vanEntity.Header{
		UserID:       in.UserID,
		VehicleID:    in.VehicleID,
		Status:       "O",
		LoadingType:  string(loading),
		DocumentDate: documentDate,
		LocationID:   in.LocationID,
		LocationType: in.LocationType,
		IsActive:     1,
		CreatedBy:    actorID,
		LogInst:      1,
	}
	if err := repos.headers.CreateHeader(header); err != nil {
		return nil, false, err
	}
	return header, true, nil
}

// Delete is the explicit admin delete: removes the header and its items.
// Referenced batch lots and serials are left untouched.
func (s *Service) Delete(ctx context.Context, headerID uint) error {
	release, err := s.acquireSlot(ctx)
	if err != nil {
		return err
	}
	defer release()
	ctx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := vanRepo.NewVanInventoryRepository(tx)
		header, err := repo.FindHeader(headerID)
		if err != nil {
			return err
		}
		if header == nil {
			return apperr.NotFoundf("van inventory %d not found", headerID)
		}
		return repo.DeleteHeader(headerID)
	})
}

// lineUnitPrice picks the caller's price when given, the product master
// price otherwise.
func lineUnitPrice(line LineItem, prod *productEntity.Product) decimal.Decimal {
	if line.UnitPrice != nil {
		return *line.UnitPrice
	}
	return prod.UnitPrice
}

// newItem builds an item row with the product snapshot fields filled in.
func newItem(header *vanEntity.Header, prod *productEntity.Product, line LineItem, quantity int) *vanEntity.Item {
	price := lineUnitPrice(line, prod)
	return &vanEntity.Item{
		HeaderID:    header.HeaderID,
		ProductID:   prod.ProductID,
		ProductName: prod.Name,
		Unit:        prod.Unit,
		Quantity:    quantity,
		UnitPrice:   price,
		TotalAmount: price.Mul(decimal.NewFromInt(int64(quantity))),
		Notes:       line.Notes,
	}
}

// headerLocation returns the document's location id, 0 when unset.
func headerLocation(header *vanEntity.Header) uint {
	if header.LocationID == nil {
		return 0
	}
	return *header.LocationID
}
