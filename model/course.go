package model

import (
	"time"
)

// Course represents an educational course with a configured TON reward range.
type Course struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Level       string    `gorm:"type:varchar(50)" json:"level"` // beginner, intermediate, advanced
	Duration    string    `gorm:"type:varchar(50)" json:"duration"`
	Thumbnail   string    `json:"thumbnail"`
	MinReward   float64   `gorm:"not null" json:"min_reward"`
	MaxReward   float64   `gorm:"not null" json:"max_reward"`
	Active      bool      `gorm:"default:true;not null" json:"active"`

	// Relationships
	Lessons []Lesson     `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
	Users   []UserCourse `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}

// Lesson is a single unit of course content, ordered by OrderNumber within its
// course.
type Lesson struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	CourseID    uint      `gorm:"not null;index" json:"course_id"`
	Title       string    `gorm:"not null" json:"title"`
	Content     string    `gorm:"type:text" json:"content"`
	Duration    string    `gorm:"type:varchar(50)" json:"duration"`
	OrderNumber int       `gorm:"not null" json:"order_number"`

	// Relationships
	Course Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}
