package jobs

import (
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	batchRepo "vansales.GO/model/repository/batch"
)

// OpenDB is injected at startup (see cmd). The jobs package cannot import
// config directly because config's cron table references these jobs.
var OpenDB func() (*gorm.DB, error)

// ExpireBatchesJob deactivates every batch lot whose expiry date has passed.
// Scheduled nightly; also runnable on demand via `cron:start -j batchexpire`
// or the batches:expire command.
func ExpireBatchesJob(args ...string) {
	if OpenDB == nil {
		logrus.Error("batchexpire: no database opener configured")
		return
	}
	db, err := OpenDB()
	if err != nil {
		logrus.WithError(err).Error("batchexpire: database connection failed")
		return
	}

	n, err := batchRepo.NewBatchRepository(db).DeactivateExpired(time.Now())
	if err != nil {
		logrus.WithError(err).Error("batchexpire: deactivation failed")
		return
	}
	logrus.WithField("deactivated", n).Info("batchexpire: run complete")
}
