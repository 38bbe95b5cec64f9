package services

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/ton-education/backend/database"
	"github.com/ton-education/backend/model"
)

func TestClaimRequiresCompletedCourse(t *testing.T) {
	store := database.NewMemStore()
	user := seedUser(t, store, "alice", true)
	course := seedCourse(t, store, "TON Basics", 0.05, 0.15, 2)
	progress := NewProgressService(store)
	rewards := NewRewardServiceWithSource(store, newTestLedger(1), rand.New(rand.NewSource(1)))

	if _, err := progress.StartCourse(user.ID, course.ID); err != nil {
		t.Fatalf("start: %v", err)
	}

	_, err := rewards.ClaimCourseReward(context.Background(), user.ID, course.ID)
	if !errors.Is(err, ErrCourseNotCompleted) {
		t.Fatalf("expected ErrCourseNotCompleted, got %v", err)
	}
}

func TestClaimRequiresWallet(t *testing.T) {
	store := database.NewMemStore()
	user := seedUser(t, store, "alice", false)
	course := seedCourse(t, store, "TON Basics", 0.05, 0.15, 2)
	progress := NewProgressService(store)
	rewards := NewRewardServiceWithSource(store, newTestLedger(1), rand.New(rand.NewSource(1)))

	completeCourse(t, progress, store, user.ID, course.ID)

	_, err := rewards.ClaimCourseReward(context.Background(), user.ID, course.ID)
	if !errors.Is(err, ErrNoWalletAddress) {
		t.Fatalf("expected ErrNoWalletAddress, got %v", err)
	}
}

func TestClaimPaysOutOnce(t *testing.T) {
	store := database.NewMemStore()
	user := seedUser(t, store, "alice", true)
	course := seedCourse(t, store, "TON Basics", 0.05, 0.15, 2)
	progress := NewProgressService(store)
	rewards := NewRewardServiceWithSource(store, newTestLedger(1), rand.New(rand.NewSource(1)))

	completeCourse(t, progress, store, user.ID, course.ID)

	result, err := rewards.ClaimCourseReward(context.Background(), user.ID, course.ID)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if result.Reward.Amount < 0.05 || result.Reward.Amount > 0.15 {
		t.Errorf("amount %v outside [0.05, 0.15]", result.Reward.Amount)
	}
	if result.Reward.Reason != model.RewardReasonCourseCompletion {
		t.Errorf("reason = %q, want %q", result.Reward.Reason, model.RewardReasonCourseCompletion)
	}
	if !strings.HasPrefix(result.Reward.TxHash, "0x") || len(result.Reward.TxHash) != 66 {
		t.Errorf("unexpected tx hash %q", result.Reward.TxHash)
	}
	if result.NewBalance != result.Reward.Amount {
		t.Errorf("balance = %v, want %v", result.NewBalance, result.Reward.Amount)
	}

	// Second claim for the same course is rejected.
	if _, err := rewards.ClaimCourseReward(context.Background(), user.ID, course.ID); !errors.Is(err, ErrRewardAlreadyClaimed) {
		t.Fatalf("expected ErrRewardAlreadyClaimed, got %v", err)
	}

	list, err := rewards.ListUserRewards(user.ID)
	if err != nil {
		t.Fatalf("list rewards: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 reward record, got %d", len(list))
	}
}

func TestClaimAmountIsSeedDeterministic(t *testing.T) {
	claim := func() float64 {
		store := database.NewMemStore()
		user := seedUser(t, store, "alice", true)
		course := seedCourse(t, store, "TON Basics", 0.05, 0.15, 1)
		progress := NewProgressService(store)
		rewards := NewRewardServiceWithSource(store, newTestLedger(7), rand.New(rand.NewSource(42)))

		completeCourse(t, progress, store, user.ID, course.ID)

		result, err := rewards.ClaimCourseReward(context.Background(), user.ID, course.ID)
		if err != nil {
			t.Fatalf("claim: %v", err)
		}
		return result.Reward.Amount
	}

	if a, b := claim(), claim(); a != b {
		t.Errorf("same seed produced different amounts: %v vs %v", a, b)
	}
}

func TestClaimFixedRewardRange(t *testing.T) {
	store := database.NewMemStore()
	user := seedUser(t, store, "alice", true)
	// min == max pins the amount exactly
	course := seedCourse(t, store, "Flat Reward", 0.1, 0.1, 1)
	progress := NewProgressService(store)
	rewards := NewRewardServiceWithSource(store, newTestLedger(1), rand.New(rand.NewSource(1)))

	completeCourse(t, progress, store, user.ID, course.ID)

	result, err := rewards.ClaimCourseReward(context.Background(), user.ID, course.ID)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if result.Reward.Amount != 0.1 {
		t.Errorf("amount = %v, want 0.1", result.Reward.Amount)
	}
}

func TestClaimLedgerFailureLeavesNoState(t *testing.T) {
	store := database.NewMemStore()
	user := seedUser(t, store, "alice", true)
	course := seedCourse(t, store, "TON Basics", 0.05, 0.15, 1)
	progress := NewProgressService(store)
	rewards := NewRewardServiceWithSource(store, newBrokenLedger(), rand.New(rand.NewSource(1)))

	completeCourse(t, progress, store, user.ID, course.ID)

	_, err := rewards.ClaimCourseReward(context.Background(), user.ID, course.ID)
	if !errors.Is(err, ErrLedgerFailure) {
		t.Fatalf("expected ErrLedgerFailure, got %v", err)
	}

	// Nothing persisted: claim flag untouched, no reward rows, balance zero.
	uc, err := store.GetUserCourse(user.ID, course.ID)
	if err != nil {
		t.Fatalf("get enrollment: %v", err)
	}
	if uc.RewardClaimed {
		t.Error("RewardClaimed set despite ledger failure")
	}
	list, _ := store.ListUserRewards(user.ID)
	if len(list) != 0 {
		t.Errorf("expected no reward records, got %d", len(list))
	}
	reloaded, _ := store.GetUser(user.ID)
	if reloaded.Balance != 0 {
		t.Errorf("balance = %v, want 0", reloaded.Balance)
	}

	// The claim stays available for a retry with a working ledger.
	working := NewRewardServiceWithSource(store, newTestLedger(1), rand.New(rand.NewSource(1)))
	if _, err := working.ClaimCourseReward(context.Background(), user.ID, course.ID); err != nil {
		t.Fatalf("retry claim: %v", err)
	}
}

func TestConcurrentClaimsPayExactlyOnce(t *testing.T) {
	store := database.NewMemStore()
	user := seedUser(t, store, "alice", true)
	course := seedCourse(t, store, "TON Basics", 0.05, 0.15, 1)
	progress := NewProgressService(store)
	rewards := NewRewardServiceWithSource(store, newTestLedger(1), rand.New(rand.NewSource(1)))

	completeCourse(t, progress, store, user.ID, course.ID)

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = rewards.ClaimCourseReward(context.Background(), user.ID, course.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrRewardAlreadyClaimed):
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("%d claims succeeded, want exactly 1", succeeded)
	}

	list, _ := store.ListUserRewards(user.ID)
	if len(list) != 1 {
		t.Errorf("expected 1 reward record, got %d", len(list))
	}
}
