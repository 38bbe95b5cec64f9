package model

import (
	"time"
)

// UserCourse tracks a user's enrollment and progress in a course. A given
// (UserID, CourseID) pair has at most one record. CompletedAt is set exactly
// once, when Progress first reaches 100.
type UserCourse struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"not null;index;uniqueIndex:idx_user_course" json:"user_id"`
	CourseID      uint       `gorm:"not null;index;uniqueIndex:idx_user_course" json:"course_id"`
	Progress      int        `gorm:"default:0;not null" json:"progress"` // 0-100
	StartedAt     time.Time  `gorm:"autoCreateTime" json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at"`
	RewardClaimed bool       `gorm:"default:false;not null" json:"reward_claimed"`
	RewardAmount  *float64   `json:"reward_amount"`

	// Relationships
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Course Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"course,omitempty"`
}

// UserLesson records lesson completion. At most one record per
// (UserID, LessonID); CourseID is denormalized from the lesson for cheap
// per-course lookups.
type UserLesson struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index;uniqueIndex:idx_user_lesson" json:"user_id"`
	LessonID    uint       `gorm:"not null;uniqueIndex:idx_user_lesson" json:"lesson_id"`
	CourseID    uint       `gorm:"not null;index" json:"course_id"`
	Completed   bool       `gorm:"default:false;not null" json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`

	// Relationships
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Lesson Lesson `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE" json:"-"`
}
