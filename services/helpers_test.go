package services

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/ton-education/backend/database"
	"github.com/ton-education/backend/model"
	"github.com/ton-education/backend/services/ton"
)

const testWallet = "EQD4FPq-PRDieyQKkizFTRtSDyucUIqrj0v_zXJmqaDp6_0t"

// newTestLedger returns a simulated ledger with a configured distribution
// wallet, no latency, and a fixed seed.
func newTestLedger(seed int64) *ton.SimulatedLedger {
	return ton.NewSimulatedLedgerWithSource(ton.Config{
		WalletAddress: testWallet,
		WalletKey:     "test-key",
		Network:       "testnet",
	}, rand.New(rand.NewSource(seed)))
}

// newBrokenLedger returns a simulated ledger with no distribution wallet, so
// every transfer and mint reports failure.
func newBrokenLedger() *ton.SimulatedLedger {
	return ton.NewSimulatedLedgerWithSource(ton.Config{Network: "testnet"},
		rand.New(rand.NewSource(1)))
}

func seedUser(t *testing.T, store database.EntityStore, username string, withWallet bool) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		TelegramID:   fmt.Sprintf("tg-%s", username),
		DisplayName:  fmt.Sprintf("User %s", username),
		ReferralCode: fmt.Sprintf("REF%s", strings.ToUpper(username)),
	}
	if withWallet {
		wallet := testWallet
		user.WalletAddress = &wallet
	}
	if err := store.CreateUser(user); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

func seedCourse(t *testing.T, store database.EntityStore, title string, minReward, maxReward float64, lessonCount int) *model.Course {
	t.Helper()
	course := &model.Course{
		Title:     title,
		Level:     "beginner",
		Duration:  "2 hours",
		MinReward: minReward,
		MaxReward: maxReward,
		Active:    true,
	}
	if err := store.CreateCourse(course); err != nil {
		t.Fatalf("seed course %s: %v", title, err)
	}
	for i := 1; i <= lessonCount; i++ {
		lesson := &model.Lesson{
			CourseID:    course.ID,
			Title:       fmt.Sprintf("%s - Lesson %d", title, i),
			OrderNumber: i,
		}
		if err := store.CreateLesson(lesson); err != nil {
			t.Fatalf("seed lesson %d: %v", i, err)
		}
	}
	return course
}

func seedTiers(t *testing.T, store database.EntityStore) {
	t.Helper()
	tiers := []model.ReferralTier{
		{Tier: 0, Name: "Base", RequiredReferrals: 0, RewardMultiplier: 1.0},
		{Tier: 1, Name: "Bronze", RequiredReferrals: 3, RewardMultiplier: 1.25},
		{Tier: 2, Name: "Silver", RequiredReferrals: 10, RewardMultiplier: 1.5},
		{Tier: 3, Name: "Gold", RequiredReferrals: 25, RewardMultiplier: 2.0},
	}
	for i := range tiers {
		if err := store.CreateReferralTier(&tiers[i]); err != nil {
			t.Fatalf("seed tier %d: %v", tiers[i].Tier, err)
		}
	}
}

// completeCourse walks a user through every lesson of a course.
func completeCourse(t *testing.T, progress *ProgressService, store database.EntityStore, userID, courseID uint) {
	t.Helper()
	lessons, err := store.ListLessonsByCourse(courseID)
	if err != nil {
		t.Fatalf("list lessons: %v", err)
	}
	for _, lesson := range lessons {
		if _, err := progress.CompleteLesson(userID, lesson.ID); err != nil {
			t.Fatalf("complete lesson %d: %v", lesson.ID, err)
		}
	}
}
