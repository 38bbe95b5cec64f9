package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/ton-education/backend/database"
	"github.com/ton-education/backend/model"
)

func TestSubmitReferralLinksAndPays(t *testing.T) {
	store := database.NewMemStore()
	seedTiers(t, store)
	referrer := seedUser(t, store, "alice", true)
	referee := seedUser(t, store, "bob", false)
	svc := NewReferralService(store, newTestLedger(1), 0.05)

	result, err := svc.SubmitReferral(context.Background(), referee.ID, referrer.ReferralCode)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !result.BonusPaid {
		t.Error("expected bonus to be paid, referrer has a wallet")
	}
	if result.BonusAmount != 0.05 {
		t.Errorf("bonus = %v, want 0.05 at base tier", result.BonusAmount)
	}

	reloadedReferee, _ := store.GetUser(referee.ID)
	if reloadedReferee.ReferredBy == nil || *reloadedReferee.ReferredBy != referrer.ID {
		t.Error("referee not linked to referrer")
	}
	reloadedReferrer, _ := store.GetUser(referrer.ID)
	if reloadedReferrer.ReferralCount != 1 {
		t.Errorf("referral count = %d, want 1", reloadedReferrer.ReferralCount)
	}
	if reloadedReferrer.Balance != 0.05 {
		t.Errorf("referrer balance = %v, want 0.05", reloadedReferrer.Balance)
	}

	rewards, _ := store.ListUserRewards(referrer.ID)
	if len(rewards) != 1 {
		t.Fatalf("expected 1 reward record, got %d", len(rewards))
	}
	if rewards[0].Reason != model.RewardReasonReferralBonus {
		t.Errorf("reason = %q, want %q", rewards[0].Reason, model.RewardReasonReferralBonus)
	}
	if rewards[0].CourseID != nil {
		t.Error("referral bonus should not reference a course")
	}
}

func TestSubmitReferralWithoutWalletIsBestEffort(t *testing.T) {
	store := database.NewMemStore()
	seedTiers(t, store)
	referrer := seedUser(t, store, "alice", false)
	referee := seedUser(t, store, "bob", false)
	svc := NewReferralService(store, newTestLedger(1), 0.05)

	result, err := svc.SubmitReferral(context.Background(), referee.ID, referrer.ReferralCode)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.BonusPaid {
		t.Error("bonus reported paid without a wallet")
	}

	// Linkage and the reward record persist even though the payout failed.
	reloadedReferrer, _ := store.GetUser(referrer.ID)
	if reloadedReferrer.ReferralCount != 1 {
		t.Errorf("referral count = %d, want 1", reloadedReferrer.ReferralCount)
	}
	rewards, _ := store.ListUserRewards(referrer.ID)
	if len(rewards) != 1 {
		t.Fatalf("expected 1 reward record, got %d", len(rewards))
	}
	if rewards[0].TxHash != "0x0" {
		t.Errorf("tx hash = %q, want 0x0 for an unpaid bonus", rewards[0].TxHash)
	}
}

func TestSubmitReferralRejectsSelf(t *testing.T) {
	store := database.NewMemStore()
	seedTiers(t, store)
	user := seedUser(t, store, "alice", false)
	svc := NewReferralService(store, newTestLedger(1), 0.05)

	if _, err := svc.SubmitReferral(context.Background(), user.ID, user.ReferralCode); !errors.Is(err, ErrSelfReferral) {
		t.Fatalf("expected ErrSelfReferral, got %v", err)
	}
}

func TestSubmitReferralRejectsSecondCode(t *testing.T) {
	store := database.NewMemStore()
	seedTiers(t, store)
	alice := seedUser(t, store, "alice", false)
	carol := seedUser(t, store, "carol", false)
	bob := seedUser(t, store, "bob", false)
	svc := NewReferralService(store, newTestLedger(1), 0.05)

	if _, err := svc.SubmitReferral(context.Background(), bob.ID, alice.ReferralCode); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := svc.SubmitReferral(context.Background(), bob.ID, carol.ReferralCode); !errors.Is(err, ErrAlreadyReferred) {
		t.Fatalf("expected ErrAlreadyReferred, got %v", err)
	}
}

func TestSubmitReferralUnknownCode(t *testing.T) {
	store := database.NewMemStore()
	seedTiers(t, store)
	bob := seedUser(t, store, "bob", false)
	svc := NewReferralService(store, newTestLedger(1), 0.05)

	if _, err := svc.SubmitReferral(context.Background(), bob.ID, "REFNOPE"); !errors.Is(err, database.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTierStaircase(t *testing.T) {
	store := database.NewMemStore()
	seedTiers(t, store)
	user := seedUser(t, store, "alice", false)
	svc := NewReferralService(store, newTestLedger(1), 0.05)

	cases := []struct {
		count    int
		wantTier int
	}{
		{0, 0},
		{2, 0},
		{3, 1},
		{9, 1},
		{10, 2},
		{24, 2},
		{25, 3},
		{100, 3},
	}
	for _, tc := range cases {
		user.ReferralCount = tc.count
		if err := store.UpdateUser(user); err != nil {
			t.Fatalf("set count %d: %v", tc.count, err)
		}
		if err := svc.UpdateUserReferralTier(user.ID); err != nil {
			t.Fatalf("recompute at %d: %v", tc.count, err)
		}
		user, _ = store.GetUser(user.ID)
		if user.ReferralTier != tc.wantTier {
			t.Errorf("count %d: tier = %d, want %d", tc.count, user.ReferralTier, tc.wantTier)
		}
	}
}

func TestTierDowngradeWhenThresholdsChange(t *testing.T) {
	store := database.NewMemStore()
	seedTiers(t, store)
	user := seedUser(t, store, "alice", false)
	user.ReferralCount = 12
	if err := store.UpdateUser(user); err != nil {
		t.Fatal(err)
	}
	svc := NewReferralService(store, newTestLedger(1), 0.05)

	if err := svc.UpdateUserReferralTier(user.ID); err != nil {
		t.Fatal(err)
	}
	user, _ = store.GetUser(user.ID)
	if user.ReferralTier != 2 {
		t.Fatalf("tier = %d, want 2", user.ReferralTier)
	}

	// Raise the Silver threshold above the user's count; the next
	// recompute moves them back down.
	silver, err := store.GetReferralTier(2)
	if err != nil {
		t.Fatal(err)
	}
	silver.RequiredReferrals = 20
	if err := store.UpdateReferralTier(silver); err != nil {
		t.Fatal(err)
	}

	if err := svc.UpdateUserReferralTier(user.ID); err != nil {
		t.Fatal(err)
	}
	user, _ = store.GetUser(user.ID)
	if user.ReferralTier != 1 {
		t.Errorf("tier = %d, want 1 after threshold change", user.ReferralTier)
	}
}

func TestReferralRewardAmountScalesWithTier(t *testing.T) {
	store := database.NewMemStore()
	seedTiers(t, store)
	user := seedUser(t, store, "alice", false)
	svc := NewReferralService(store, newTestLedger(1), 0.05)

	cases := []struct {
		tier int
		want float64
	}{
		{0, 0.05},
		{1, math.Round(0.05*1.25*100) / 100},
		{2, math.Round(0.05*1.5*100) / 100},
		{3, 0.1},
	}
	for _, tc := range cases {
		user.ReferralTier = tc.tier
		if err := store.UpdateUser(user); err != nil {
			t.Fatal(err)
		}
		amount, err := svc.ReferralRewardAmount(user.ID)
		if err != nil {
			t.Fatalf("tier %d: %v", tc.tier, err)
		}
		if amount != tc.want {
			t.Errorf("tier %d: amount = %v, want %v", tc.tier, amount, tc.want)
		}
	}
}

func TestReferralTierStatus(t *testing.T) {
	store := database.NewMemStore()
	seedTiers(t, store)
	user := seedUser(t, store, "alice", false)
	user.ReferralCount = 5
	user.ReferralTier = 1
	if err := store.UpdateUser(user); err != nil {
		t.Fatal(err)
	}
	svc := NewReferralService(store, newTestLedger(1), 0.05)

	status, err := svc.ReferralTierStatus(user.ID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Tier != 1 {
		t.Errorf("tier = %d, want 1", status.Tier)
	}
	if status.TierDetails == nil || status.TierDetails.Name != "Bronze" {
		t.Errorf("tier details = %+v, want Bronze", status.TierDetails)
	}
	if status.NextTier == nil || status.NextTier.Name != "Silver" {
		t.Errorf("next tier = %+v, want Silver", status.NextTier)
	}

	// At the top of the staircase there is no next tier.
	user.ReferralCount = 30
	user.ReferralTier = 3
	if err := store.UpdateUser(user); err != nil {
		t.Fatal(err)
	}
	status, err = svc.ReferralTierStatus(user.ID)
	if err != nil {
		t.Fatal(err)
	}
	if status.NextTier != nil {
		t.Errorf("next tier = %+v, want nil at Gold", status.NextTier)
	}
}

func TestReferralChainCountsPerReferrer(t *testing.T) {
	store := database.NewMemStore()
	seedTiers(t, store)
	alice := seedUser(t, store, "alice", true)
	svc := NewReferralService(store, newTestLedger(1), 0.05)

	for i := 0; i < 3; i++ {
		referee := seedUser(t, store, fmt.Sprintf("friend%d", i), false)
		if _, err := svc.SubmitReferral(context.Background(), referee.ID, alice.ReferralCode); err != nil {
			t.Fatalf("referral %d: %v", i, err)
		}
	}

	reloaded, _ := store.GetUser(alice.ID)
	if reloaded.ReferralCount != 3 {
		t.Errorf("count = %d, want 3", reloaded.ReferralCount)
	}
	if reloaded.ReferralTier != 1 {
		t.Errorf("tier = %d, want 1 after 3 referrals", reloaded.ReferralTier)
	}

	// The third bonus was paid at the freshly unlocked Bronze multiplier.
	rewards, _ := store.ListUserRewards(alice.ID)
	if len(rewards) != 3 {
		t.Fatalf("expected 3 reward records, got %d", len(rewards))
	}
	last := rewards[len(rewards)-1]
	want := math.Round(0.05*1.25*100) / 100
	if last.Amount != want {
		t.Errorf("third bonus = %v, want %v", last.Amount, want)
	}
}
