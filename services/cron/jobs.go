package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/ton-education/backend/model"
)

// jobLogRetention is how long cron job log rows are kept.
const jobLogRetention = 30 * 24 * time.Hour

// RefreshLeaderboard recomputes the leaderboard and rewrites the cached
// snapshot so request paths mostly hit warm cache.
func (m *CronManager) RefreshLeaderboard() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	jobName := "refresh_leaderboard"

	ranked, err := m.leaderboard.Refresh(ctx, "all")
	if err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to refresh leaderboard: %w", err))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Ranked %d users", ranked))
}

// CleanupJobLogs removes cron job log rows older than the retention window.
func (m *CronManager) CleanupJobLogs() {
	jobName := "cleanup_job_logs"

	cutoff := time.Now().Add(-jobLogRetention)
	result := m.db.Where("started_at < ?", cutoff).Delete(&model.CronJobLog{})
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to delete old job logs: %w", result.Error))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Deleted %d old job logs", result.RowsAffected))
}
