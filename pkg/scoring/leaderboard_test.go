package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairgroundhq/trellis/pkg/models"
)

type fakeProfiles struct {
	profiles []models.UserProfile
}

func (f *fakeProfiles) List(ctx context.Context) ([]models.UserProfile, error) {
	return f.profiles, nil
}

type fakeAssignments struct {
	all []models.Assignment
}

func (f *fakeAssignments) ListAll(ctx context.Context) ([]models.Assignment, error) {
	return f.all, nil
}

func (f *fakeAssignments) ListCreatedSince(ctx context.Context, since time.Time) ([]models.Assignment, error) {
	var out []models.Assignment
	for _, a := range f.all {
		if !a.CreatedAt.Before(since) {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeCompanies struct {
	companies []models.Company
}

func (f *fakeCompanies) List(ctx context.Context) ([]models.Company, error) {
	return f.companies, nil
}

func newTestService(profiles []models.UserProfile, assignments []models.Assignment, companies []models.Company) *LeaderboardService {
	log := ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {})
	return NewLeaderboardService(
		log,
		&fakeProfiles{profiles: profiles},
		&fakeAssignments{all: assignments},
		&fakeCompanies{companies: companies},
		nil,
		time.Minute,
	)
}

func TestAllTimeLeaderboard(t *testing.T) {
	now := time.Now()
	profiles := []models.UserProfile{
		{ID: "u1", Name: "Jane"},
		{ID: "u2", Name: "Sam"},
		{ID: "u3", Name: "Alex"},
	}
	companies := []models.Company{
		{ID: "c1", Name: "Acme", Status: models.StatusComing},
		{ID: "c2", Name: "Globex", Status: models.StatusContacted},
	}
	assignments := []models.Assignment{
		{ID: "a1", CompanyID: "c1", UserID: "u2", CreatedAt: now},
		{ID: "a2", CompanyID: "c2", UserID: "u1", CreatedAt: now},
	}

	svc := newTestService(profiles, assignments, companies)
	entries, err := svc.AllTime(context.Background())
	require.NoError(t, err)

	// Sam (500) ahead of Jane (50); Alex has no assignments but still appears.
	require.Len(t, entries, 3)
	assert.Equal(t, "u2", entries[0].UserID)
	assert.Equal(t, 500, entries[0].TotalScore)
	assert.Equal(t, "u1", entries[1].UserID)
	assert.Equal(t, 50, entries[1].TotalScore)
	assert.Equal(t, "u3", entries[2].UserID)
	assert.Equal(t, 0, entries[2].TotalScore)
}

func TestWeeklyLeaderboardOmitsInactiveUsers(t *testing.T) {
	now := time.Now()
	profiles := []models.UserProfile{
		{ID: "u1", Name: "Jane"},
		{ID: "u2", Name: "Sam"},
	}
	companies := []models.Company{
		{ID: "c1", Name: "Acme", Status: models.StatusComing},
		{ID: "c2", Name: "Globex", Status: models.StatusContacted},
	}
	assignments := []models.Assignment{
		{ID: "a1", CompanyID: "c1", UserID: "u1", CreatedAt: now.Add(-2 * 24 * time.Hour)},
		{ID: "a2", CompanyID: "c2", UserID: "u2", CreatedAt: now.Add(-30 * 24 * time.Hour)},
	}

	svc := newTestService(profiles, assignments, companies)
	entries, err := svc.Weekly(context.Background())
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, "u1", entries[0].UserID)
	assert.Equal(t, 500, entries[0].TotalScore)
}

func TestLeaderboardSkipsAssignmentsToMissingCompanies(t *testing.T) {
	now := time.Now()
	profiles := []models.UserProfile{{ID: "u1", Name: "Jane"}}
	companies := []models.Company{{ID: "c1", Name: "Acme", Status: models.StatusComing}}
	assignments := []models.Assignment{
		{ID: "a1", CompanyID: "c1", UserID: "u1", CreatedAt: now},
		{ID: "a2", CompanyID: "gone", UserID: "u1", CreatedAt: now},
	}

	svc := newTestService(profiles, assignments, companies)
	entries, err := svc.AllTime(context.Background())
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].CompanyCount)
	assert.Equal(t, 500, entries[0].TotalScore)
}

func TestCompanyRanking(t *testing.T) {
	now := time.Now()
	companies := []models.Company{
		{ID: "c1", Name: "Acme", Status: models.StatusToContact},
		{ID: "c2", Name: "Globex", Status: models.StatusComing},
		{ID: "c3", Name: "Initech", Status: models.StatusContacted},
	}
	assignments := []models.Assignment{
		{ID: "a1", CompanyID: "c2", UserID: "u1", CreatedAt: now},
		{ID: "a2", CompanyID: "c2", UserID: "u2", CreatedAt: now},
		{ID: "a3", CompanyID: "c1", UserID: "u1", CreatedAt: now},
	}

	svc := newTestService(nil, assignments, companies)
	ranks, err := svc.CompanyRanking(context.Background())
	require.NoError(t, err)

	// Ranking is by assignment count only; Globex leads despite its status.
	require.Len(t, ranks, 3)
	assert.Equal(t, "c2", ranks[0].CompanyID)
	assert.Equal(t, 2, ranks[0].AssignmentCount)
	assert.Equal(t, "c1", ranks[1].CompanyID)
	assert.Equal(t, "c3", ranks[2].CompanyID)
	assert.Equal(t, 0, ranks[2].AssignmentCount)
}
