package models

// ScoredCompany is one company entry within a user's score breakdown
type ScoredCompany struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Status CompanyStatus `json:"status"`
	Score  int           `json:"score"`
}

// UserScore aggregates the pipeline scores of all companies assigned to a user
type UserScore struct {
	UserID       string          `json:"user_id"`
	UserName     string          `json:"user_name"`
	Companies    []ScoredCompany `json:"companies"`
	TotalScore   int             `json:"total_score"`
	CompanyCount int             `json:"company_count"`
	AverageScore int             `json:"average_score"`
}

// CompanyRank orders companies by how many users are assigned to them
type CompanyRank struct {
	CompanyID       string        `json:"company_id"`
	CompanyName     string        `json:"company_name"`
	Status          CompanyStatus `json:"status"`
	AssignmentCount int           `json:"assignment_count"`
}

// LeaderboardResponse is the response for the leaderboard endpoints
type LeaderboardResponse struct {
	Entries []UserScore `json:"entries"`
}

// CompanyRankingResponse is the response for the company ranking endpoint
type CompanyRankingResponse struct {
	Entries []CompanyRank `json:"entries"`
}
