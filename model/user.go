package model

import (
	"time"
)

// User represents a Telegram Mini-App user. Users are created idempotently on
// first Telegram auth, keyed by TelegramID.
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	Username      string    `gorm:"uniqueIndex;not null" json:"username"`
	TelegramID    string    `gorm:"uniqueIndex;not null" json:"telegram_id"`
	DisplayName   string    `gorm:"not null" json:"display_name"`
	WalletAddress *string   `json:"wallet_address"`
	Balance       float64   `gorm:"default:0;not null" json:"balance"`
	ReferralCode  string    `gorm:"uniqueIndex;not null" json:"referral_code"`
	ReferredBy    *uint     `json:"referred_by"`
	ReferralCount int       `gorm:"default:0;not null" json:"referral_count"`
	ReferralTier  int       `gorm:"default:0;not null" json:"referral_tier"`
	IsAdmin       bool      `gorm:"default:false;not null" json:"is_admin"`

	// Relationships
	Courses      []UserCourse  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Lessons      []UserLesson  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Certificates []Certificate `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Rewards      []Reward      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// HasWallet reports whether the user has a payout destination configured.
func (u *User) HasWallet() bool {
	return u.WalletAddress != nil && *u.WalletAddress != ""
}
