package database

import (
	"fmt"
	"log"

	"github.com/ton-education/backend/model"
)

// Seeder populates an EntityStore with the baseline data the app expects:
// referral tiers, the admin account, and the starter TON courses. Seeding is
// idempotent: existing records are left untouched.
type Seeder struct {
	store EntityStore
}

// NewSeeder creates a new seeder instance
func NewSeeder(store EntityStore) *Seeder {
	return &Seeder{store: store}
}

// RunSeeds runs all seed functions against the given store.
func RunSeeds(store EntityStore) error {
	return NewSeeder(store).SeedAll()
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("Starting database seeding...")

	if err := s.SeedReferralTiers(); err != nil {
		return fmt.Errorf("failed to seed referral tiers: %w", err)
	}

	if err := s.SeedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := s.SeedCourses(); err != nil {
		return fmt.Errorf("failed to seed courses: %w", err)
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

// SeedReferralTiers creates the Base/Bronze/Silver/Gold staircase.
func (s *Seeder) SeedReferralTiers() error {
	tiers := []model.ReferralTier{
		{Tier: 0, Name: "Base", RequiredReferrals: 0, RewardMultiplier: 1.0},
		{Tier: 1, Name: "Bronze", RequiredReferrals: 3, RewardMultiplier: 1.25},
		{Tier: 2, Name: "Silver", RequiredReferrals: 10, RewardMultiplier: 1.5},
		{Tier: 3, Name: "Gold", RequiredReferrals: 25, RewardMultiplier: 2.0},
	}

	for i := range tiers {
		if _, err := s.store.GetReferralTier(tiers[i].Tier); err == nil {
			continue
		}
		if err := s.store.CreateReferralTier(&tiers[i]); err != nil {
			return err
		}
		log.Printf("Seeded referral tier %d (%s)", tiers[i].Tier, tiers[i].Name)
	}
	return nil
}

// SeedAdminUser creates the default admin user
func (s *Seeder) SeedAdminUser() error {
	if _, err := s.store.GetUserByTelegramID("1"); err == nil {
		return nil
	}

	wallet := "UQAdminDistributionWallet00000000000000000000000000"
	admin := model.User{
		Username:     "admin",
		TelegramID:   "1",
		DisplayName:  "TON Education Admin",
		ReferralCode: "REFADMIN01",
		IsAdmin:      true,
		WalletAddress: &wallet,
	}
	if err := s.store.CreateUser(&admin); err != nil {
		return err
	}
	log.Println("Seeded admin user")
	return nil
}

// SeedCourses creates the starter courses with their lessons.
func (s *Seeder) SeedCourses() error {
	existing, err := s.store.ListCourses(false)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	basics := model.Course{
		Title:       "TON Blockchain Basics",
		Description: "Learn the fundamentals of TON blockchain technology, including its architecture, consensus mechanism, and unique features.",
		Level:       "beginner",
		Duration:    "2 hours",
		Thumbnail:   "/thumbnails/ton-basics.jpg",
		MinReward:   0.05,
		MaxReward:   0.15,
		Active:      true,
	}
	if err := s.store.CreateCourse(&basics); err != nil {
		return err
	}

	basicsLessons := []model.Lesson{
		{CourseID: basics.ID, Title: "Introduction to TON", Content: "The Open Network (TON) is a fast, secure, and scalable blockchain designed to handle millions of transactions per second.", Duration: "10 min", OrderNumber: 1},
		{CourseID: basics.ID, Title: "TON Architecture", Content: "Understanding the multi-blockchain architecture and sharding approach of TON.", Duration: "15 min", OrderNumber: 2},
		{CourseID: basics.ID, Title: "TON Coins & Wallets", Content: "Learn about TON coins, how to store them, and different wallet options.", Duration: "20 min", OrderNumber: 3},
	}
	for i := range basicsLessons {
		if err := s.store.CreateLesson(&basicsLessons[i]); err != nil {
			return err
		}
	}

	contracts := model.Course{
		Title:       "Smart Contracts on TON",
		Description: "Develop and deploy smart contracts on TON.",
		Level:       "intermediate",
		Duration:    "4 hours",
		Thumbnail:   "/thumbnails/ton-contracts.jpg",
		MinReward:   0.1,
		MaxReward:   0.2,
		Active:      true,
	}
	if err := s.store.CreateCourse(&contracts); err != nil {
		return err
	}

	web3 := model.Course{
		Title:       "Intro to Web3",
		Description: "Understand the basics of Web3 technology.",
		Level:       "beginner",
		Duration:    "1.5 hours",
		Thumbnail:   "/thumbnails/web3-intro.jpg",
		MinReward:   0.02,
		MaxReward:   0.05,
		Active:      true,
	}
	if err := s.store.CreateCourse(&web3); err != nil {
		return err
	}

	log.Println("Seeded starter courses")
	return nil
}
