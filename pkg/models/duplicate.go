package models

// DuplicateGroup is a cluster of companies believed to be the same real-world entity.
// Potential[0] is the provisional head of the group; the caller chooses the merge master.
type DuplicateGroup struct {
	Potential  []Company `json:"potential"`
	Similarity float64   `json:"similarity"`
	Reason     string    `json:"reason"`
}

// AnalyzeResponse is the response for a duplicate analysis run
type AnalyzeResponse struct {
	Groups     []DuplicateGroup `json:"groups"`
	GroupCount int              `json:"group_count"`
	Scanned    int              `json:"scanned"`
}
