// Package scoring maps pipeline statuses to numeric scores and aggregates
// them into per-user leaderboard entries. All functions here are pure;
// fetch and caching live in the leaderboard service.
package scoring

import (
	"math"

	"github.com/fairgroundhq/trellis/pkg/models"
)

// statusScores is the fixed score table. An unrecognized status scores 0.
var statusScores = map[models.CompanyStatus]int{
	models.StatusNotToContact:   10,
	models.StatusToContact:      0,
	models.StatusContacted:      50,
	models.StatusFirstFollowup:  60,
	models.StatusSecondFollowup: 70,
	models.StatusThirdFollowup:  80,
	models.StatusInDiscussion:   100,
	models.StatusComing:         500,
	models.StatusNotComing:      100,
	models.StatusNextYear:       150,
}

// ForStatus returns the score for a pipeline status
func ForStatus(status models.CompanyStatus) int {
	return statusScores[status]
}

// ComputeUserScore aggregates the scores of a user's assigned companies.
// Average is rounded to the nearest integer and is 0 for an empty list.
func ComputeUserScore(userID, userName string, assigned []models.Company) models.UserScore {
	companies := make([]models.ScoredCompany, 0, len(assigned))
	total := 0

	for _, c := range assigned {
		score := ForStatus(c.Status)
		total += score
		companies = append(companies, models.ScoredCompany{
			ID:     c.ID,
			Name:   c.Name,
			Status: c.Status,
			Score:  score,
		})
	}

	average := 0
	if len(assigned) > 0 {
		average = int(math.Round(float64(total) / float64(len(assigned))))
	}

	return models.UserScore{
		UserID:       userID,
		UserName:     userName,
		Companies:    companies,
		TotalScore:   total,
		CompanyCount: len(assigned),
		AverageScore: average,
	}
}
