package database

import (
	"testing"
)

func TestRunSeedsIsIdempotent(t *testing.T) {
	store := NewMemStore()

	if err := RunSeeds(store); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := RunSeeds(store); err != nil {
		t.Fatalf("second run: %v", err)
	}

	tiers, err := store.ListReferralTiers()
	if err != nil {
		t.Fatal(err)
	}
	if len(tiers) != 4 {
		t.Errorf("tiers = %d, want 4", len(tiers))
	}

	admin, err := store.GetUserByTelegramID("1")
	if err != nil {
		t.Fatalf("admin user: %v", err)
	}
	if !admin.IsAdmin {
		t.Error("seeded admin user lacks admin flag")
	}

	courses, err := store.ListCourses(false)
	if err != nil {
		t.Fatal(err)
	}
	if len(courses) != 3 {
		t.Errorf("courses = %d, want 3", len(courses))
	}

	// Reward ranges are sane
	for _, course := range courses {
		if course.MaxReward < course.MinReward {
			t.Errorf("course %q has inverted reward range", course.Title)
		}
	}
}
