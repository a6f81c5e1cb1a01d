package domain

import "time"

const (
	MinScore = 1
	MaxScore = 5
)

// Rating is one account's score for one store. At most one exists per
// (UserID, StoreID); resubmission overwrites Score and UpdatedAt in place.
type Rating struct {
	ID        string
	UserID    string
	StoreID   string
	Score     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RatingDetail is a rating joined with the rater's name and email.
type RatingDetail struct {
	Rating
	UserName  string
	UserEmail string
}

// RatingOutcome reports which branch of the upsert ran.
type RatingOutcome struct {
	Rating  Rating
	Created bool
}

// ValidScore reports whether score is within [MinScore, MaxScore].
func ValidScore(score int) bool {
	return score >= MinScore && score <= MaxScore
}

// RatingEvent is an append-only audit record of a rating submission.
type RatingEvent struct {
	UserID  string
	StoreID string
	Score   int
	Created bool
	At      time.Time
}
