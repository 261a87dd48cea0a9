package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"vansales.GO/config"
	batchRepo "vansales.GO/model/repository/batch"
)

var batchesExpireCmd = &cobra.Command{
	Use:   "batches:expire",
	Short: "Deactivate batch lots whose expiry date has passed",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := config.NewDB()
		if err != nil {
			fmt.Printf("Database connection failed: %v\n", err)
			return
		}
		start := time.Now()
		n, err := batchRepo.NewBatchRepository(db).DeactivateExpired(time.Now())
		if err != nil {
			fmt.Printf("Expiry sweep failed: %v\n", err)
			return
		}
		fmt.Printf("Deactivated %d expired batch lot(s) in %s\n", n, time.Since(start).Round(time.Millisecond))
	},
}

func init() {
	rootCmd.AddCommand(batchesExpireCmd)
}
