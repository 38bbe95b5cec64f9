package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Certificate is a write-once record of an SBT certificate minted for a
// completed course. At most one certificate per (UserID, CourseID); issuance
// requires the corresponding UserCourse to be completed.
type Certificate struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	UserID          uint           `gorm:"not null;index;uniqueIndex:idx_user_cert" json:"user_id"`
	CourseID        uint           `gorm:"not null;uniqueIndex:idx_user_cert" json:"course_id"`
	Name            string         `gorm:"not null" json:"name"`
	CourseTitle     string         `gorm:"not null" json:"course_title"`
	IssuedDate      string         `gorm:"type:date;not null" json:"issued_date"` // YYYY-MM-DD
	TokenID         string         `json:"token_id"`
	TxHash          string         `json:"tx_hash"`
	TemplateID      string         `gorm:"type:varchar(50)" json:"template_id"`
	Description     string         `gorm:"type:text" json:"description"`
	Skills          pq.StringArray `gorm:"type:text[]" json:"skills"`
	Issuer          string         `gorm:"type:varchar(100)" json:"issuer"`
	CertificateType string         `gorm:"type:varchar(50)" json:"certificate_type"`
	ValidUntil      string         `gorm:"type:date" json:"valid_until"`
	Metadata        datatypes.JSON `json:"metadata"`

	// Relationships
	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Course Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}
