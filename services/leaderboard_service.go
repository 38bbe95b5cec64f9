package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ton-education/backend/database"
	"github.com/ton-education/backend/model"
)

// Points weights for the leaderboard score.
const (
	pointsPerTON              = 1000
	pointsPerCompletedCourse  = 200
	pointsPerCertificate      = 500
	leaderboardCacheTTL       = 5 * time.Minute
	leaderboardCacheKeyPrefix = "leaderboard"
)

// LeaderboardEntry is one row of the computed leaderboard.
type LeaderboardEntry struct {
	Rank             int     `json:"rank"`
	UserID           uint    `json:"user_id"`
	Username         string  `json:"username"`
	DisplayName      string  `json:"display_name"`
	WalletAddress    *string `json:"wallet_address"`
	Points           int     `json:"points"`
	RewardTotal      float64 `json:"reward_total"`
	CompletedCourses int     `json:"completed_courses"`
	Certificates     int     `json:"certificates"`
}

// LeaderboardCache is the snapshot cache the leaderboard reads through. A nil
// cache disables caching entirely.
type LeaderboardCache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// LeaderboardService ranks users by accumulated activity points. Scores are
// recomputed from scratch on every refresh; the Redis snapshot only avoids
// recomputing on every request.
type LeaderboardService struct {
	store database.EntityStore
	cache LeaderboardCache
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(store database.EntityStore, cache LeaderboardCache) *LeaderboardService {
	return &LeaderboardService{store: store, cache: cache}
}

// GetLeaderboard returns the ranked leaderboard, serving a cached snapshot
// when one is fresh. The period parameter only namespaces the cache key;
// scores are all-time.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, period string, limit int) ([]LeaderboardEntry, error) {
	if period == "" {
		period = "all"
	}
	key := fmt.Sprintf("%s:%s", leaderboardCacheKeyPrefix, period)

	if s.cache != nil {
		var cached []LeaderboardEntry
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err == nil && hit {
			return truncateEntries(cached, limit), nil
		}
	}

	entries, err := s.Compute()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		// Cache failures only cost the next request a recompute.
		_ = s.cache.SetJSON(ctx, key, entries, leaderboardCacheTTL)
	}

	return truncateEntries(entries, limit), nil
}

// Refresh recomputes the leaderboard and overwrites the cached snapshot.
// Called by the cron job so request paths mostly hit warm cache.
func (s *LeaderboardService) Refresh(ctx context.Context, period string) (int, error) {
	if period == "" {
		period = "all"
	}
	entries, err := s.Compute()
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		key := fmt.Sprintf("%s:%s", leaderboardCacheKeyPrefix, period)
		if err := s.cache.SetJSON(ctx, key, entries, leaderboardCacheTTL); err != nil {
			return len(entries), fmt.Errorf("cache leaderboard: %w", err)
		}
	}
	return len(entries), nil
}

// Compute builds the full leaderboard from the store. Ties are broken by
// user id so the ordering is stable.
func (s *LeaderboardService) Compute() ([]LeaderboardEntry, error) {
	users, err := s.store.ListUsers()
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for i := range users {
		entry, err := s.scoreUser(&users[i])
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].UserID < entries[j].UserID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func (s *LeaderboardService) scoreUser(user *model.User) (*LeaderboardEntry, error) {
	rewards, err := s.store.ListUserRewards(user.ID)
	if err != nil {
		return nil, fmt.Errorf("leaderboard rewards for user %d: %w", user.ID, err)
	}
	var rewardTotal float64
	for _, r := range rewards {
		rewardTotal += r.Amount
	}

	courses, err := s.store.ListUserCourses(user.ID)
	if err != nil {
		return nil, fmt.Errorf("leaderboard courses for user %d: %w", user.ID, err)
	}
	completed := 0
	for _, uc := range courses {
		if uc.CompletedAt != nil {
			completed++
		}
	}

	certs, err := s.store.ListUserCertificates(user.ID)
	if err != nil {
		return nil, fmt.Errorf("leaderboard certificates for user %d: %w", user.ID, err)
	}

	points := int(math.Round(rewardTotal*pointsPerTON)) +
		completed*pointsPerCompletedCourse +
		len(certs)*pointsPerCertificate

	return &LeaderboardEntry{
		UserID:           user.ID,
		Username:         user.Username,
		DisplayName:      user.DisplayName,
		WalletAddress:    user.WalletAddress,
		Points:           points,
		RewardTotal:      rewardTotal,
		CompletedCourses: completed,
		Certificates:     len(certs),
	}, nil
}

func truncateEntries(entries []LeaderboardEntry, limit int) []LeaderboardEntry {
	if limit > 0 && len(entries) > limit {
		return entries[:limit]
	}
	return entries
}
