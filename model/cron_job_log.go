package model

import (
	"time"
)

// CronJobLog tracks scheduled job executions for observability.
type CronJobLog struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	JobName    string     `gorm:"type:varchar(100);not null;index" json:"job_name"`
	Status     string     `gorm:"type:varchar(20);not null" json:"status"` // running, success, failed
	Message    string     `gorm:"type:text" json:"message"`
	StartedAt  time.Time  `gorm:"not null" json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
}
