// services/scheduler.go
package services

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartCohortScheduler wires the periodic maintenance jobs: a full cohort
// recompute every 24h and a cohort-stats snapshot export every 24h. The
// lazy-populate path in ComparisonService covers brand-new cohorts between
// runs; the schedule keeps long-lived cohorts from drifting as members
// update their levels.
func StartCohortScheduler(job *BulkRecomputeJob, snapshots *SnapshotService) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(func() {
			if _, err := job.RunAll(); err != nil {
				log.Printf("[Scheduler] Bulk recompute failed: %v", err)
			}
		}),
	)

	_, _ = sched.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if _, err := snapshots.ExportCohortStats(ctx); err != nil {
				log.Printf("[Scheduler] Snapshot export failed: %v", err)
			}
		}),
	)
}
