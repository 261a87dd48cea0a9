package vaninventory

import (
	"encoding/json"
	"fmt"
	"time"

	"vansales.GO/config"
	"vansales.GO/core/cache"
	vanEntity "vansales.GO/model/entity/vaninventory"
	batchRepo "vansales.GO/model/repository/batch"
	vanRepo "vansales.GO/model/repository/vaninventory"
)

const availabilityTTL = 60 // seconds

func availabilityKey(productID uint, loading vanEntity.LoadingType) string {
	return fmt.Sprintf("vaninv:avail:%d:%s", productID, loading)
}

func productTag(productID uint) string {
	return fmt.Sprintf("product:%d", productID)
}

// AvailableBatches returns the pickable lots for a product, soonest expiry
// first. Results are cached per (product, direction) for a short TTL; any
// write touching the product invalidates them.
func (s *Service) AvailableBatches(productID uint, loadingType string) ([]batchRepo.AvailableBatch, error) {
	loading, err := vanEntity.ParseLoadingType(loadingType)
	if err != nil {
		loading = vanEntity.LoadingTypeLoad
	}
	key := availabilityKey(productID, loading)

	if config.RedisClient != nil {
		raw, err := config.RedisClient.Get(config.RedisCtx(), key).Result()
		if err == nil {
			var rows []batchRepo.AvailableBatch
			if jerr := json.Unmarshal([]byte(raw), &rows); jerr == nil {
				return rows, nil
			}
		}
	} else if v, ok := cache.GetInstance().Get(key); ok {
		if rows, ok := v.([]batchRepo.AvailableBatch); ok {
			return rows, nil
		}
	}

	rows, err := batchRepo.NewBatchRepository(s.db).AvailableBatches(productID, loading)
	if err != nil {
		return nil, err
	}

	if config.RedisClient != nil {
		if raw, jerr := json.Marshal(rows); jerr == nil {
			config.RedisClient.Set(config.RedisCtx(), key, raw, availabilityTTL*time.Second)
		}
	} else {
		cache.GetInstance().Set(key, rows, availabilityTTL, []string{productTag(productID)})
	}
	return rows, nil
}

// AvailableBatchesBulk returns the availability projection for many products
// in one query, keyed by product id. It bypasses the per-product cache:
// callers are sync endpoints hydrating whole order forms, not hot lookups.
func (s *Service) AvailableBatchesBulk(productIDs []uint, loadingType string) (map[uint][]batchRepo.AvailableBatch, error) {
	loading, err := vanEntity.ParseLoadingType(loadingType)
	if err != nil {
		loading = vanEntity.LoadingTypeLoad
	}
	return batchRepo.NewBatchRepository(s.db).BatchGetAvailable(productIDs, loading)
}

// ProductBatches is the richer batch listing with totals.
func (s *Service) ProductBatches(productID uint, opts batchRepo.ProductBatchListOptions) ([]batchRepo.ProductBatchRow, *batchRepo.ProductBatchStats, error) {
	return batchRepo.NewBatchRepository(s.db).ProductBatches(productID, opts)
}

// VanContents lists everything currently on a salesperson's van.
func (s *Service) VanContents(userID uint) ([]vanEntity.Item, error) {
	return vanRepo.NewVanInventoryRepository(s.db).VanContents(userID)
}

// invalidateAvailability drops the cached availability rows for every product
// the document touched, in both directions.
func (s *Service) invalidateAvailability(items []LineItem) {
	for _, line := range items {
		if config.RedisClient != nil {
			config.RedisClient.Del(config.RedisCtx(),
				availabilityKey(line.ProductID, vanEntity.LoadingTypeLoad),
				availabilityKey(line.ProductID, vanEntity.LoadingTypeUnload))
		} else {
			cache.GetInstance().DeleteByTag(productTag(line.ProductID))
		}
	}
}
