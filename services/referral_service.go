package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/ton-education/backend/database"
	"github.com/ton-education/backend/model"
	"github.com/ton-education/backend/services/ton"
)

// DefaultBaseReferralReward is the unscaled referral bonus in TON.
const DefaultBaseReferralReward = 0.05

// ReferralService links referees to referrers, maintains referral tiers, and
// pays out tier-scaled referral bonuses. The bonus payout is best-effort: the
// social-graph update (linkage, count, tier) persists even when the transfer
// fails, so a referrer without a wallet still accrues referrals.
type ReferralService struct {
	store      database.EntityStore
	ledger     ton.Ledger
	baseReward float64
}

// NewReferralService creates a new referral service
func NewReferralService(store database.EntityStore, ledger ton.Ledger, baseReward float64) *ReferralService {
	if baseReward <= 0 {
		baseReward = DefaultBaseReferralReward
	}
	return &ReferralService{store: store, ledger: ledger, baseReward: baseReward}
}

// SubmitResult is the outcome of a referral submission.
type SubmitResult struct {
	Referrer     string  `json:"referrer"`
	ReferrerTier int     `json:"referrer_tier"`
	BonusAmount  float64 `json:"bonus_amount"`
	BonusPaid    bool    `json:"bonus_paid"`
}

// SubmitReferral links the user to the owner of the referral code and credits
// the referrer. Self-referral and double referral are rejected before any
// mutation.
func (s *ReferralService) SubmitReferral(ctx context.Context, userID uint, referralCode string) (*SubmitResult, error) {
	user, err := s.store.GetUser(userID)
	if err != nil {
		return nil, fmt.Errorf("submit referral: %w", err)
	}

	referrer, err := s.store.GetUserByReferralCode(referralCode)
	if err != nil {
		return nil, fmt.Errorf("referrer lookup: %w", err)
	}
	if referrer.ID == userID {
		return nil, ErrSelfReferral
	}
	if user.ReferredBy != nil {
		return nil, ErrAlreadyReferred
	}

	user.ReferredBy = &referrer.ID
	if err := s.store.UpdateUser(user); err != nil {
		return nil, fmt.Errorf("link referrer: %w", err)
	}

	referrer.ReferralCount++
	if err := s.store.UpdateUser(referrer); err != nil {
		return nil, fmt.Errorf("increment referral count: %w", err)
	}

	if err := s.UpdateUserReferralTier(referrer.ID); err != nil {
		return nil, fmt.Errorf("recompute tier: %w", err)
	}

	// Reload: the tier update may have changed the referrer row.
	referrer, err = s.store.GetUser(referrer.ID)
	if err != nil {
		return nil, err
	}

	amount, err := s.ReferralRewardAmount(referrer.ID)
	if err != nil {
		return nil, err
	}

	// The bonus transfer is best-effort; a failure is logged, not propagated.
	txHash := "0x0"
	paid := false
	if referrer.HasWallet() {
		result, err := s.ledger.Transfer(ctx, *referrer.WalletAddress, amount, "TON Education - Referral Bonus")
		if err == nil && result.Success {
			txHash = result.TxHash
			paid = true
		} else if err != nil {
			log.Printf("referral bonus transfer failed for user %d: %v", referrer.ID, err)
		} else {
			log.Printf("referral bonus transfer failed for user %d: %s", referrer.ID, result.Error)
		}
	}

	reward := &model.Reward{
		UserID: referrer.ID,
		Amount: amount,
		Reason: model.RewardReasonReferralBonus,
		TxHash: txHash,
	}
	if err := s.store.CreateReward(reward); err != nil {
		return nil, fmt.Errorf("record referral bonus: %w", err)
	}

	referrer.Balance += amount
	if err := s.store.UpdateUser(referrer); err != nil {
		return nil, fmt.Errorf("update referrer balance: %w", err)
	}

	return &SubmitResult{
		Referrer:     referrer.DisplayName,
		ReferrerTier: referrer.ReferralTier,
		BonusAmount:  amount,
		BonusPaid:    paid,
	}, nil
}

// UpdateUserReferralTier recomputes the user's tier: the highest tier whose
// RequiredReferrals <= ReferralCount, defaulting to 0. Recomputed on every
// referral event since tier definitions can change administratively.
func (s *ReferralService) UpdateUserReferralTier(userID uint) error {
	user, err := s.store.GetUser(userID)
	if err != nil {
		return fmt.Errorf("update tier: %w", err)
	}

	tiers, err := s.store.ListReferralTiers()
	if err != nil {
		return err
	}
	sort.SliceStable(tiers, func(i, j int) bool {
		return tiers[i].RequiredReferrals > tiers[j].RequiredReferrals
	})

	tier := 0
	for _, t := range tiers {
		if t.RequiredReferrals <= user.ReferralCount {
			tier = t.Tier
			break
		}
	}

	if tier == user.ReferralTier {
		return nil
	}
	user.ReferralTier = tier
	return s.store.UpdateUser(user)
}

// ReferralRewardAmount computes the tier-scaled bonus for the user's current
// tier, falling back to the unscaled base when the tier row is missing.
func (s *ReferralService) ReferralRewardAmount(userID uint) (float64, error) {
	user, err := s.store.GetUser(userID)
	if err != nil {
		return 0, fmt.Errorf("reward amount: %w", err)
	}

	tier, err := s.store.GetReferralTier(user.ReferralTier)
	if errors.Is(err, database.ErrNotFound) {
		return round2(s.baseReward), nil
	}
	if err != nil {
		return 0, err
	}
	return round2(s.baseReward * tier.RewardMultiplier), nil
}

// TierStatus describes a user's position on the referral staircase.
type TierStatus struct {
	Tier          int                 `json:"tier"`
	TierDetails   *model.ReferralTier `json:"tier_details"`
	ReferralCount int                 `json:"referral_count"`
	NextTier      *model.ReferralTier `json:"next_tier"`
}

// ReferralTierStatus returns the user's current tier row plus the next tier
// to unlock (nil at the top of the staircase).
func (s *ReferralService) ReferralTierStatus(userID uint) (*TierStatus, error) {
	user, err := s.store.GetUser(userID)
	if err != nil {
		return nil, fmt.Errorf("tier status: %w", err)
	}

	status := &TierStatus{Tier: user.ReferralTier, ReferralCount: user.ReferralCount}

	if tier, err := s.store.GetReferralTier(user.ReferralTier); err == nil {
		status.TierDetails = tier
	}

	tiers, err := s.store.ListReferralTiers()
	if err != nil {
		return nil, err
	}
	for i := range tiers {
		if tiers[i].RequiredReferrals > user.ReferralCount {
			status.NextTier = &tiers[i]
			break
		}
	}

	return status, nil
}

// ListReferralTiers returns the tier table ordered ascending.
func (s *ReferralService) ListReferralTiers() ([]model.ReferralTier, error) {
	return s.store.ListReferralTiers()
}
