package config

import (
	"vansales.GO/cron/jobs"
)

// Map of job names to job functions
type CronJob struct {
	Schedule string
	Job      func(...string)
}

var CronJobs = map[string]CronJob{
	"batchexpire": {Schedule: "0 2 * * *", Job: jobs.ExpireBatchesJob},
	// Add more jobs here
}
