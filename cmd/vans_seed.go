package cmd

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"vansales.GO/config"
	entity "vansales.GO/model/entity"
	batchEntity "vansales.GO/model/entity/batch"
	inventoryEntity "vansales.GO/model/entity/inventory"
	productEntity "vansales.GO/model/entity/product"
	serialEntity "vansales.GO/model/entity/serial"
	vanEntity "vansales.GO/model/entity/vaninventory"
)

var seedWithFixtures bool

var vansSeedCmd = &cobra.Command{
	Use:   "vans:seed",
	Short: "Create the van inventory schema, optionally with demo fixtures",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			return
		}

		start := time.Now()
		if err := migrateAll(db); err != nil {
			fmt.Printf("Migration failed: %v\n", err)
			return
		}
		fmt.Printf("Schema migrated in %s\n", time.Since(start).Round(time.Millisecond))

		if !seedWithFixtures {
			return
		}
		if err := seedFixtures(db); err != nil {
			fmt.Printf("Fixture seed failed: %v\n", err)
			return
		}
		fmt.Println("Demo fixtures created: 1 user, 1 vehicle, 3 products (NONE/BATCH/SERIAL)")
	},
}

// migrateAll creates every table the engine touches.
func migrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Vehicle{},
		&entity.ApiToken{},
		&entity.Role{},
		&entity.RolePermission{},
		&productEntity.Product{},
		&batchEntity.BatchLot{},
		&batchEntity.ProductBatch{},
		&serialEntity.SerialNumber{},
		&inventoryEntity.InventoryStock{},
		&inventoryEntity.StockMovement{},
		&vanEntity.Header{},
		&vanEntity.Item{},
	)
}

func seedFixtures(db *gorm.DB) error {
	username := "demo.rep"
	user := entity.User{Name: "Demo Rep", Username: &username, IsActive: 1}
	if err := db.Create(&user).Error; err != nil {
		return err
	}
	vehicle := entity.Vehicle{Code: "VAN-01", PlateNumber: "DEMO-001", IsActive: 1}
	if err := db.Create(&vehicle).Error; err != nil {
		return err
	}
	products := []productEntity.Product{
		{Code: "BULK-001", Name: "Drinking Water 1L", Unit: "pcs", UnitPrice: decimal.NewFromFloat(0.5), TrackingType: "NONE", IsActive: 1},
		{Code: "BATCH-001", Name: "Pasteurized Milk 1L", Unit: "pcs", UnitPrice: decimal.NewFromFloat(1.2), TrackingType: "BATCH", IsActive: 1},
		{Code: "SER-001", Name: "Cooler Unit X200", Unit: "pcs", UnitPrice: decimal.NewFromFloat(250), TrackingType: "SERIAL", IsActive: 1},
	}
	return db.Create(&products).Error
}

func init() {
	vansSeedCmd.Flags().BoolVar(&seedWithFixtures, "fixtures", false, "Insert demo rows after migrating")
	rootCmd.AddCommand(vansSeedCmd)
}
