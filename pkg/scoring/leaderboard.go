package scoring

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/fairgroundhq/trellis/pkg/metrics"
	"github.com/fairgroundhq/trellis/pkg/models"
	rediscache "github.com/fairgroundhq/trellis/pkg/redis"
	"github.com/fairgroundhq/trellis/pkg/tracing"
)

const (
	cacheKeyAllTime   = "leaderboard:alltime"
	cacheKeyWeekly    = "leaderboard:weekly"
	cacheKeyCompanies = "leaderboard:companies"

	weeklyWindow = 7 * 24 * time.Hour
)

// ProfileLister provides the known user profiles.
type ProfileLister interface {
	List(ctx context.Context) ([]models.UserProfile, error)
}

// AssignmentLister provides user/company assignments.
type AssignmentLister interface {
	ListAll(ctx context.Context) ([]models.Assignment, error)
	ListCreatedSince(ctx context.Context, since time.Time) ([]models.Assignment, error)
}

// CompanyLister provides the company snapshot scores are computed against.
type CompanyLister interface {
	List(ctx context.Context) ([]models.Company, error)
}

// Cache stores computed leaderboards for a short TTL.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) error
	SetJSON(ctx context.Context, key string, value any, expiration time.Duration) error
}

// LeaderboardService assembles the all-time and weekly leaderboards and the
// company ranking from profiles, assignments, and company statuses.
type LeaderboardService struct {
	log         ectologger.Logger
	profiles    ProfileLister
	assignments AssignmentLister
	companies   CompanyLister
	cache       Cache
	cacheTTL    time.Duration
	now         func() time.Time
}

// NewLeaderboardService creates a new leaderboard service. cache may be nil
// to disable caching.
func NewLeaderboardService(
	log ectologger.Logger,
	profiles ProfileLister,
	assignments AssignmentLister,
	companies CompanyLister,
	cache Cache,
	cacheTTL time.Duration,
) *LeaderboardService {
	return &LeaderboardService{
		log:         log,
		profiles:    profiles,
		assignments: assignments,
		companies:   companies,
		cache:       cache,
		cacheTTL:    cacheTTL,
		now:         time.Now,
	}
}

// AllTime returns the leaderboard over every assignment, sorted by total
// score descending.
func (s *LeaderboardService) AllTime(ctx context.Context) ([]models.UserScore, error) {
	ctx, span := tracing.StartSpan(ctx, "scoring.LeaderboardService.AllTime")
	defer span.End()

	var cached []models.UserScore
	if s.cacheGet(ctx, cacheKeyAllTime, &cached) {
		return cached, nil
	}

	assignments, err := s.assignments.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := s.assemble(ctx, assignments, false)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, cacheKeyAllTime, entries)
	return entries, nil
}

// Weekly returns the leaderboard over assignments created in the trailing
// 7 days. Users with no assignment in the window are omitted.
func (s *LeaderboardService) Weekly(ctx context.Context) ([]models.UserScore, error) {
	ctx, span := tracing.StartSpan(ctx, "scoring.LeaderboardService.Weekly")
	defer span.End()

	var cached []models.UserScore
	if s.cacheGet(ctx, cacheKeyWeekly, &cached) {
		return cached, nil
	}

	assignments, err := s.assignments.ListCreatedSince(ctx, s.now().Add(-weeklyWindow))
	if err != nil {
		return nil, err
	}

	entries, err := s.assemble(ctx, assignments, true)
	if err != nil {
		return nil, err
	}

	s.cacheSet(ctx, cacheKeyWeekly, entries)
	return entries, nil
}

// CompanyRanking returns companies ordered by raw assignment count
// descending, independent of status or score.
func (s *LeaderboardService) CompanyRanking(ctx context.Context) ([]models.CompanyRank, error) {
	ctx, span := tracing.StartSpan(ctx, "scoring.LeaderboardService.CompanyRanking")
	defer span.End()

	var cached []models.CompanyRank
	if s.cacheGet(ctx, cacheKeyCompanies, &cached) {
		return cached, nil
	}

	companies, err := s.companies.List(ctx)
	if err != nil {
		return nil, err
	}
	assignments, err := s.assignments.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(companies))
	for _, a := range assignments {
		counts[a.CompanyID]++
	}

	ranks := make([]models.CompanyRank, 0, len(companies))
	for _, c := range companies {
		ranks = append(ranks, models.CompanyRank{
			CompanyID:       c.ID,
			CompanyName:     c.Name,
			Status:          c.Status,
			AssignmentCount: counts[c.ID],
		})
	}

	sort.SliceStable(ranks, func(a, b int) bool {
		return ranks[a].AssignmentCount > ranks[b].AssignmentCount
	})

	s.cacheSet(ctx, cacheKeyCompanies, ranks)
	return ranks, nil
}

// assemble computes one UserScore per profile from the given assignments.
// With omitEmpty set, users without any assignment are left off the board.
func (s *LeaderboardService) assemble(ctx context.Context, assignments []models.Assignment, omitEmpty bool) ([]models.UserScore, error) {
	profiles, err := s.profiles.List(ctx)
	if err != nil {
		return nil, err
	}
	companies, err := s.companies.List(ctx)
	if err != nil {
		return nil, err
	}

	companyByID := make(map[string]models.Company, len(companies))
	for _, c := range companies {
		companyByID[c.ID] = c
	}

	assignedByUser := make(map[string][]models.Company, len(profiles))
	for _, a := range assignments {
		company, ok := companyByID[a.CompanyID]
		if !ok {
			// Assignment pointing at a deleted company; skip it.
			continue
		}
		assignedByUser[a.UserID] = append(assignedByUser[a.UserID], company)
	}

	entries := make([]models.UserScore, 0, len(profiles))
	for _, profile := range profiles {
		assigned := assignedByUser[profile.ID]
		if omitEmpty && len(assigned) == 0 {
			continue
		}
		entries = append(entries, ComputeUserScore(profile.ID, profile.Name, assigned))
	}

	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].TotalScore > entries[b].TotalScore
	})

	return entries, nil
}

func (s *LeaderboardService) cacheGet(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}
	err := s.cache.GetJSON(ctx, key, dest)
	if err == nil {
		metrics.RecordLeaderboardCache("hit")
		return true
	}
	metrics.RecordLeaderboardCache("miss")
	if !errors.Is(err, rediscache.ErrCacheMiss) {
		s.log.WithContext(ctx).WithError(err).Warn("Leaderboard cache read failed")
	}
	return false
}

func (s *LeaderboardService) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, value, s.cacheTTL); err != nil {
		s.log.WithContext(ctx).WithError(err).Warn("Leaderboard cache write failed")
	}
}
