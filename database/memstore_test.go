package database

import (
	"errors"
	"testing"
	"time"

	"github.com/ton-education/backend/model"
)

func newUser(username string) *model.User {
	return &model.User{
		Username:     username,
		TelegramID:   "tg-" + username,
		DisplayName:  username,
		ReferralCode: "REF" + username,
	}
}

func TestMemStoreUserLookups(t *testing.T) {
	store := NewMemStore()

	user := newUser("alice")
	if err := store.CreateUser(user); err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.ID == 0 {
		t.Fatal("expected assigned id")
	}

	byID, err := store.GetUser(user.ID)
	if err != nil {
		t.Fatalf("by id: %v", err)
	}
	if byID.Username != "alice" {
		t.Errorf("username = %q", byID.Username)
	}

	if _, err := store.GetUserByUsername("alice"); err != nil {
		t.Errorf("by username: %v", err)
	}
	if _, err := store.GetUserByTelegramID("tg-alice"); err != nil {
		t.Errorf("by telegram id: %v", err)
	}
	if _, err := store.GetUserByReferralCode("REFalice"); err != nil {
		t.Errorf("by referral code: %v", err)
	}

	if _, err := store.GetUser(999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.GetUserByReferralCode("REFnope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemStoreReturnsCopies(t *testing.T) {
	store := NewMemStore()
	user := newUser("alice")
	if err := store.CreateUser(user); err != nil {
		t.Fatal(err)
	}

	loaded, _ := store.GetUser(user.ID)
	loaded.Balance = 99

	reloaded, _ := store.GetUser(user.ID)
	if reloaded.Balance != 0 {
		t.Error("mutation of a loaded entity leaked into the store")
	}
}

func TestMemStoreUpdateUnknownUser(t *testing.T) {
	store := NewMemStore()
	ghost := newUser("ghost")
	ghost.ID = 42
	if err := store.UpdateUser(ghost); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemStoreLessonOrdering(t *testing.T) {
	store := NewMemStore()
	course := &model.Course{Title: "TON Basics", Level: "beginner", Active: true}
	if err := store.CreateCourse(course); err != nil {
		t.Fatal(err)
	}

	// Insert out of order; listing is by OrderNumber.
	for _, n := range []int{3, 1, 2} {
		if err := store.CreateLesson(&model.Lesson{CourseID: course.ID, Title: "L", OrderNumber: n}); err != nil {
			t.Fatal(err)
		}
	}

	lessons, err := store.ListLessonsByCourse(course.ID)
	if err != nil {
		t.Fatal(err)
	}
	for i, lesson := range lessons {
		if lesson.OrderNumber != i+1 {
			t.Errorf("position %d has order %d", i, lesson.OrderNumber)
		}
	}
}

func TestMemStoreListCoursesActiveFilter(t *testing.T) {
	store := NewMemStore()
	if err := store.CreateCourse(&model.Course{Title: "Live", Active: true}); err != nil {
		t.Fatal(err)
	}
	if err := store.CreateCourse(&model.Course{Title: "Retired", Active: false}); err != nil {
		t.Fatal(err)
	}

	active, err := store.ListCourses(true)
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 || active[0].Title != "Live" {
		t.Errorf("active courses = %+v", active)
	}

	all, err := store.ListCourses(false)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("all courses = %d, want 2", len(all))
	}
}

func TestMemStoreDeleteCourse(t *testing.T) {
	store := NewMemStore()
	course := &model.Course{Title: "Doomed", Active: true}
	if err := store.CreateCourse(course); err != nil {
		t.Fatal(err)
	}

	if err := store.DeleteCourse(course.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetCourse(course.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.DeleteCourse(course.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestMemStoreUserCourseKeying(t *testing.T) {
	store := NewMemStore()
	user := newUser("alice")
	if err := store.CreateUser(user); err != nil {
		t.Fatal(err)
	}
	course := &model.Course{Title: "TON Basics", Active: true}
	if err := store.CreateCourse(course); err != nil {
		t.Fatal(err)
	}

	uc := &model.UserCourse{UserID: user.ID, CourseID: course.ID, StartedAt: time.Now()}
	if err := store.CreateUserCourse(uc); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.GetUserCourse(user.ID, course.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	loaded.Progress = 50
	if err := store.UpdateUserCourse(loaded); err != nil {
		t.Fatalf("update: %v", err)
	}

	reloaded, _ := store.GetUserCourse(user.ID, course.ID)
	if reloaded.Progress != 50 {
		t.Errorf("progress = %d, want 50", reloaded.Progress)
	}

	if _, err := store.GetUserCourse(user.ID, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemStoreRewardsAreAppendOnly(t *testing.T) {
	store := NewMemStore()
	user := newUser("alice")
	if err := store.CreateUser(user); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		reward := &model.Reward{UserID: user.ID, Amount: 0.1, Reason: model.RewardReasonCourseCompletion}
		if err := store.CreateReward(reward); err != nil {
			t.Fatal(err)
		}
	}

	mine, err := store.ListUserRewards(user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 3 {
		t.Errorf("user rewards = %d, want 3", len(mine))
	}

	all, err := store.ListAllRewards()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("all rewards = %d, want 3", len(all))
	}
}

func TestMemStoreReferralTiers(t *testing.T) {
	store := NewMemStore()

	for _, tier := range []model.ReferralTier{
		{Tier: 2, Name: "Silver", RequiredReferrals: 10, RewardMultiplier: 1.5},
		{Tier: 0, Name: "Base", RequiredReferrals: 0, RewardMultiplier: 1},
		{Tier: 1, Name: "Bronze", RequiredReferrals: 3, RewardMultiplier: 1.25},
	} {
		tier := tier
		if err := store.CreateReferralTier(&tier); err != nil {
			t.Fatal(err)
		}
	}

	tiers, err := store.ListReferralTiers()
	if err != nil {
		t.Fatal(err)
	}
	for i, tier := range tiers {
		if tier.Tier != i {
			t.Errorf("position %d has tier %d, want ascending order", i, tier.Tier)
		}
	}

	silver, err := store.GetReferralTier(2)
	if err != nil {
		t.Fatal(err)
	}
	if silver.Name != "Silver" {
		t.Errorf("name = %q", silver.Name)
	}
}
