package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fairgroundhq/trellis/pkg/models"
)

func TestForStatus(t *testing.T) {
	tests := []struct {
		status   models.CompanyStatus
		expected int
	}{
		{models.StatusNotToContact, 10},
		{models.StatusToContact, 0},
		{models.StatusContacted, 50},
		{models.StatusFirstFollowup, 60},
		{models.StatusSecondFollowup, 70},
		{models.StatusThirdFollowup, 80},
		{models.StatusInDiscussion, 100},
		{models.StatusComing, 500},
		{models.StatusNotComing, 100},
		{models.StatusNextYear, 150},
		{models.CompanyStatus("SOMETHING_ELSE"), 0},
		{models.CompanyStatus(""), 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expected, ForStatus(tt.status))
		})
	}
}

func TestComputeUserScore(t *testing.T) {
	assigned := []models.Company{
		{ID: "1", Name: "Acme", Status: models.StatusComing},
		{ID: "2", Name: "Globex", Status: models.StatusContacted},
		{ID: "3", Name: "Initech", Status: models.StatusToContact},
	}

	score := ComputeUserScore("u1", "Jane", assigned)

	assert.Equal(t, "u1", score.UserID)
	assert.Equal(t, "Jane", score.UserName)
	assert.Equal(t, 550, score.TotalScore)
	assert.Equal(t, 3, score.CompanyCount)
	// 550/3 = 183.33 rounds to 183
	assert.Equal(t, 183, score.AverageScore)

	total := 0
	for _, c := range score.Companies {
		total += c.Score
	}
	assert.Equal(t, score.TotalScore, total)
}

func TestComputeUserScoreEmpty(t *testing.T) {
	score := ComputeUserScore("u1", "Jane", nil)

	assert.Equal(t, 0, score.TotalScore)
	assert.Equal(t, 0, score.CompanyCount)
	assert.Equal(t, 0, score.AverageScore)
	assert.Empty(t, score.Companies)
}

func TestComputeUserScoreIdempotent(t *testing.T) {
	assigned := []models.Company{
		{ID: "1", Name: "Acme", Status: models.StatusInDiscussion},
		{ID: "2", Name: "Globex", Status: models.StatusNextYear},
	}

	first := ComputeUserScore("u1", "Jane", assigned)
	second := ComputeUserScore("u1", "Jane", assigned)

	assert.Equal(t, first, second)
}

func TestComputeUserScoreAverageRounding(t *testing.T) {
	// 10 + 0 = 10, 10/2 = 5 exactly
	even := ComputeUserScore("u1", "Jane", []models.Company{
		{ID: "1", Status: models.StatusNotToContact},
		{ID: "2", Status: models.StatusToContact},
	})
	assert.Equal(t, 5, even.AverageScore)

	// 50 + 60 + 60 = 170, 170/3 = 56.67 rounds to 57
	uneven := ComputeUserScore("u1", "Jane", []models.Company{
		{ID: "1", Status: models.StatusContacted},
		{ID: "2", Status: models.StatusFirstFollowup},
		{ID: "3", Status: models.StatusFirstFollowup},
	})
	assert.Equal(t, 57, uneven.AverageScore)
}
