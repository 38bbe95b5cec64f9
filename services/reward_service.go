package services

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/ton-education/backend/database"
	"github.com/ton-education/backend/model"
	"github.com/ton-education/backend/services/ton"
)

// RewardService computes course-completion payouts and records them. The
// ledger transfer happens before any store mutation, so a failed transfer
// leaves no trace; the claim sequence for a (user, course) pair is serialized
// so concurrent claims resolve to exactly one success.
type RewardService struct {
	store  database.EntityStore
	ledger ton.Ledger
	claims *keyedMutex

	mu  sync.Mutex
	rng *rand.Rand
}

// NewRewardService creates a new reward service
func NewRewardService(store database.EntityStore, ledger ton.Ledger) *RewardService {
	return NewRewardServiceWithSource(store, ledger, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewRewardServiceWithSource injects the randomness source used to sample
// reward amounts, so tests can fix the seed.
func NewRewardServiceWithSource(store database.EntityStore, ledger ton.Ledger, rng *rand.Rand) *RewardService {
	return &RewardService{
		store:  store,
		ledger: ledger,
		claims: newKeyedMutex(),
		rng:    rng,
	}
}

// ClaimResult is the outcome of a successful course-reward claim.
type ClaimResult struct {
	Reward     *model.Reward `json:"reward"`
	NewBalance float64       `json:"new_balance"`
}

// ClaimCourseReward pays out the completion reward for a finished course. The
// amount is sampled uniformly from the course's [MinReward, MaxReward] range
// and rounded to 2 decimals.
func (s *RewardService) ClaimCourseReward(ctx context.Context, userID, courseID uint) (*ClaimResult, error) {
	key := claimKey(userID, courseID)
	s.claims.Lock(key)
	defer s.claims.Unlock(key)

	user, err := s.store.GetUser(userID)
	if err != nil {
		return nil, fmt.Errorf("claim reward: %w", err)
	}
	course, err := s.store.GetCourse(courseID)
	if err != nil {
		return nil, fmt.Errorf("claim reward: %w", err)
	}

	uc, err := s.store.GetUserCourse(userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("claim reward: %w", err)
	}
	if uc.CompletedAt == nil {
		return nil, ErrCourseNotCompleted
	}
	if uc.RewardClaimed {
		return nil, ErrRewardAlreadyClaimed
	}
	if !user.HasWallet() {
		return nil, ErrNoWalletAddress
	}

	amount := s.sampleAmount(course.MinReward, course.MaxReward)

	memo := fmt.Sprintf("TON Education - %s Completion Reward", course.Title)
	result, err := s.ledger.Transfer(ctx, *user.WalletAddress, amount, memo)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLedgerFailure, err)
	}
	if !result.Success {
		return nil, fmt.Errorf("%w: %s", ErrLedgerFailure, result.Error)
	}

	// Ledger transfer confirmed; persist the claim as a unit.
	reward := &model.Reward{
		UserID:   userID,
		Amount:   amount,
		Reason:   model.RewardReasonCourseCompletion,
		CourseID: &courseID,
		TxHash:   result.TxHash,
	}
	if err := s.store.CreateReward(reward); err != nil {
		return nil, fmt.Errorf("record reward: %w", err)
	}

	user.Balance += amount
	if err := s.store.UpdateUser(user); err != nil {
		return nil, fmt.Errorf("update balance: %w", err)
	}

	uc.RewardClaimed = true
	uc.RewardAmount = &amount
	if err := s.store.UpdateUserCourse(uc); err != nil {
		return nil, fmt.Errorf("mark claimed: %w", err)
	}

	return &ClaimResult{Reward: reward, NewBalance: user.Balance}, nil
}

// ListUserRewards returns the user's payout history.
func (s *RewardService) ListUserRewards(userID uint) ([]model.Reward, error) {
	if _, err := s.store.GetUser(userID); err != nil {
		return nil, fmt.Errorf("list rewards: %w", err)
	}
	return s.store.ListUserRewards(userID)
}

// sampleAmount draws a uniform value from [min, max] rounded to 2 decimals.
func (s *RewardService) sampleAmount(min, max float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return round2(min + s.rng.Float64()*(max-min))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
