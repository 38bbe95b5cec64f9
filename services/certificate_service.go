package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/ton-education/backend/database"
	"github.com/ton-education/backend/model"
	"github.com/ton-education/backend/services/ton"
)

const certificateIssuer = "TON EDUCATION"

// defaultSkills are attached to every certificate alongside the course level.
var defaultSkills = []string{"Web3", "Blockchain", "TON"}

// CertificateService mints SBT certificates for completed courses. Minting
// happens before any store mutation; a failed mint leaves no certificate row.
type CertificateService struct {
	store  database.EntityStore
	ledger ton.Ledger
}

// NewCertificateService creates a new certificate service
func NewCertificateService(store database.EntityStore, ledger ton.Ledger) *CertificateService {
	return &CertificateService{store: store, ledger: ledger}
}

// IssueCertificate mints and records a certificate for (userID, courseID).
// Requires the course to be completed, the user to have a wallet, and no
// prior certificate for the pair.
func (s *CertificateService) IssueCertificate(ctx context.Context, userID, courseID uint) (*model.Certificate, error) {
	user, err := s.store.GetUser(userID)
	if err != nil {
		return nil, fmt.Errorf("issue certificate: %w", err)
	}
	course, err := s.store.GetCourse(courseID)
	if err != nil {
		return nil, fmt.Errorf("issue certificate: %w", err)
	}

	uc, err := s.store.GetUserCourse(userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("issue certificate: %w", err)
	}
	if uc.CompletedAt == nil {
		return nil, ErrCourseNotCompleted
	}

	existing, err := s.store.ListUserCertificates(userID)
	if err != nil {
		return nil, err
	}
	for _, cert := range existing {
		if cert.CourseID == courseID {
			return nil, ErrCertificateAlreadyIssued
		}
	}

	if !user.HasWallet() {
		return nil, ErrNoWalletAddress
	}

	skills := courseSkills(course)
	templateID := templateForLevel(course.Level)
	description := fmt.Sprintf(
		"This certifies that %s has successfully completed the %q course, demonstrating proficiency in %s.",
		user.DisplayName, course.Title, strings.Join(skills, ", "),
	)

	now := time.Now()
	validUntil := now.AddDate(1, 0, 0)

	mint, err := s.ledger.MintCertificate(ctx, *user.WalletAddress, ton.CertificateMeta{
		Name:            user.DisplayName,
		CourseTitle:     course.Title,
		IssuedDate:      now.Format(time.RFC3339),
		TemplateID:      templateID,
		Description:     description,
		Skills:          skills,
		Issuer:          certificateIssuer,
		CertificateType: "completion",
		ValidUntil:      validUntil.Format(time.RFC3339),
		Additional: map[string]any{
			"courseDuration":   course.Duration,
			"achievementLevel": course.Level,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLedgerFailure, err)
	}
	if !mint.Success {
		return nil, fmt.Errorf("%w: %s", ErrLedgerFailure, mint.Error)
	}

	metadataJSON, err := json.Marshal(mint.Metadata)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}

	cert := &model.Certificate{
		UserID:          userID,
		CourseID:        courseID,
		Name:            user.DisplayName,
		CourseTitle:     course.Title,
		IssuedDate:      now.Format("2006-01-02"),
		TokenID:         mint.TokenID,
		TxHash:          mint.TxHash,
		TemplateID:      templateID,
		Description:     description,
		Skills:          pq.StringArray(skills),
		Issuer:          certificateIssuer,
		CertificateType: "completion",
		ValidUntil:      validUntil.Format("2006-01-02"),
		Metadata:        metadataJSON,
	}
	if err := s.store.CreateCertificate(cert); err != nil {
		return nil, fmt.Errorf("record certificate: %w", err)
	}

	return cert, nil
}

// GetCertificate fetches one certificate by id.
func (s *CertificateService) GetCertificate(id uint) (*model.Certificate, error) {
	return s.store.GetCertificate(id)
}

// ListUserCertificates returns the user's certificates.
func (s *CertificateService) ListUserCertificates(userID uint) ([]model.Certificate, error) {
	if _, err := s.store.GetUser(userID); err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	return s.store.ListUserCertificates(userID)
}

func courseSkills(course *model.Course) []string {
	if course.Level == "" {
		return defaultSkills
	}
	return append([]string{course.Level}, defaultSkills...)
}

func templateForLevel(level string) string {
	switch strings.ToLower(level) {
	case "advanced":
		return "premium"
	case "intermediate":
		return "silver"
	default:
		return "default"
	}
}
