// Package types contains common types used across the application
package types

// LeaderboardRow is one line of the final points table: a roster student
// joined with their combined point total.
type LeaderboardRow struct {
	StudentNumber string `json:"student_number"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Points        int    `json:"xparky_points"`
}
