package model

import (
	"time"
)

// Reward reasons. The rewards table is an append-only payout ledger.
const (
	RewardReasonCourseCompletion = "Course Completion"
	RewardReasonReferralBonus    = "Referral Bonus"
)

// Reward records a single TON payout to a user. CourseID is nil for referral
// bonuses.
type Reward struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Amount    float64   `gorm:"not null" json:"amount"`
	Reason    string    `gorm:"not null" json:"reason"`
	CourseID  *uint     `json:"course_id"`
	TxHash    string    `json:"tx_hash"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
