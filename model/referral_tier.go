package model

import (
	"time"
)

// ReferralTier defines a named referral level unlocked by cumulative referral
// count. Tiers form a strictly increasing staircase on RequiredReferrals; the
// multiplier scales the base referral bonus.
type ReferralTier struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	Tier              int       `gorm:"uniqueIndex;not null" json:"tier"`
	Name              string    `gorm:"type:varchar(50);not null" json:"name"` // Base, Bronze, Silver, Gold
	RequiredReferrals int       `gorm:"not null" json:"required_referrals"`
	RewardMultiplier  float64   `gorm:"default:1;not null" json:"reward_multiplier"`
}
