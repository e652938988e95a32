package metrics

import (
	"expvar"
	"time"
)

var (
	// Uptime stores the timestamp of the service boot
	Uptime = expvar.NewInt("uptime")

	// BatchRuns counts started batch refreshes
	BatchRuns = expvar.NewInt("refresh_batch_runs")

	Attempted = expvar.NewInt("refresh_attempted")
	Refreshed = expvar.NewInt("refresh_refreshed")
	Failed    = expvar.NewInt("refresh_failed")

	Submissions = expvar.NewInt("submissions")
)

// Init starts metrics collection
func Init() {
	Uptime.Set(time.Now().Unix())
}
