package models

import "time"

// PostStatus is the publication state of a post
type PostStatus string

const (
	StatusPending PostStatus = "pending"
	StatusLive    PostStatus = "live"
	StatusRated   PostStatus = "rated"
)

// Valid reports whether s is one of the known statuses
func (s PostStatus) Valid() bool {
	switch s {
	case StatusPending, StatusLive, StatusRated:
		return true
	}
	return false
}

const (
	MinScore = 1
	MaxScore = 5
)

// ScoreLabels are the human readable names of each score.
var ScoreLabels = map[int]string{
	1: "Bad Deal",
	2: "Below Avg",
	3: "Fair",
	4: "Good Deal",
	5: "Bargain!",
}

// RatingBreakdown counts ratings per score. Index 0 is unused.
type RatingBreakdown [MaxScore + 1]int

// Total returns the number of ratings in the breakdown
func (b RatingBreakdown) Total() int {
	total := 0
	for score := MinScore; score <= MaxScore; score++ {
		total += b[score]
	}
	return total
}

// Sum returns the sum of all scores in the breakdown
func (b RatingBreakdown) Sum() int {
	sum := 0
	for score := MinScore; score <= MaxScore; score++ {
		sum += score * b[score]
	}
	return sum
}

// Map returns the breakdown keyed by score, the shape clients expect
func (b RatingBreakdown) Map() map[int]int {
	m := make(map[int]int, MaxScore)
	for score := MinScore; score <= MaxScore; score++ {
		m[score] = b[score]
	}
	return m
}

// User holds the quota-relevant state of a marketplace participant
type User struct {
	UserID                 string    `json:"user_id"`
	PendingPostID          string    `json:"pending_post_id,omitempty"`
	RatingsNeededToPublish int       `json:"ratings_needed_to_publish"`
	TotalRatingsGiven      int       `json:"total_ratings_given"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// HasPendingPost reports whether the user is waiting on the reciprocity gate
func (u User) HasPendingPost() bool {
	return u.PendingPostID != ""
}

// Post represents a listing submitted for rating
type Post struct {
	PostID          string          `json:"post_id"`
	UserID          string          `json:"user_id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Price           int64           `json:"price"`
	CurrencyCode    string          `json:"currency_code"`
	ListingURL      string          `json:"listing_url,omitempty"`
	ImageURL        string          `json:"image_url,omitempty"`
	Category        string          `json:"category"`
	Status          PostStatus      `json:"status"`
	AverageRating   float64         `json:"average_rating"`
	RatingCount     int             `json:"rating_count"`
	RatingBreakdown RatingBreakdown `json:"-"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Rating represents a user's score for a post. A user rates a post at most once.
type Rating struct {
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	Score     int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// Page is one page of posts plus the index of the next page, nil when there is none
type Page struct {
	Posts    []Post `json:"posts"`
	NextPage *int   `json:"next_page"`
}
