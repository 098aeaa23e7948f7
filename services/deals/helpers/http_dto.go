package helpers

import (
	"time"

	model "deal-rater/internal/models"
	profile "deal-rater/internal/profileService"
)

// Request/Response DTOs
type CreatePostRequest struct {
	Title        string `json:"title" binding:"required"`
	Description  string `json:"description" binding:"required"`
	Price        int64  `json:"price" binding:"required,gt=0"`
	CurrencyCode string `json:"currency_code"`
	ListingURL   string `json:"listing_url"`
	ImageURL     string `json:"image_url"`
	Category     string `json:"category"`
}

type SubmitRatingRequest struct {
	PostID string `json:"post_id" binding:"required"`
	// Rating is a pointer so a missing field is told apart from an out of range score
	Rating *int `json:"rating" binding:"required"`
}

type PostResponse struct {
	PostID          string         `json:"post_id"`
	UserID          string         `json:"user_id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Price           int64          `json:"price"`
	CurrencyCode    string         `json:"currency_code"`
	ListingURL      string         `json:"listing_url,omitempty"`
	ImageURL        string         `json:"image_url,omitempty"`
	Category        string         `json:"category"`
	Status          string         `json:"status"`
	AverageRating   float64        `json:"average_rating"`
	RatingCount     int            `json:"rating_count"`
	RatingBreakdown map[int]int    `json:"rating_breakdown"`
	RatingLabels    map[int]string `json:"rating_labels"`
	CreatedAt       string         `json:"created_at"`
	UpdatedAt       string         `json:"updated_at"`
}

type PageResponse struct {
	Posts    []PostResponse `json:"posts"`
	NextPage *int           `json:"next_page"`
}

type RatingResponse struct {
	PostID    string `json:"post_id"`
	UserID    string `json:"user_id"`
	Rating    int    `json:"rating"`
	Label     string `json:"label"`
	CreatedAt string `json:"created_at"`
}

type ProfileResponse struct {
	UserID                 string  `json:"user_id"`
	PendingPostID          string  `json:"pending_post_id,omitempty"`
	RatingsNeededToPublish int     `json:"ratings_needed_to_publish"`
	TotalRatingsGiven      int     `json:"total_ratings_given"`
	TotalPosts             int     `json:"total_posts"`
	AverageRating          float64 `json:"average_rating"`
}

// NewPostResponse converts a post for the wire
func NewPostResponse(p model.Post) PostResponse {
	return PostResponse{
		PostID:          p.PostID,
		UserID:          p.UserID,
		Title:           p.Title,
		Description:     p.Description,
		Price:           p.Price,
		CurrencyCode:    p.CurrencyCode,
		ListingURL:      p.ListingURL,
		ImageURL:        p.ImageURL,
		Category:        p.Category,
		Status:          string(p.Status),
		AverageRating:   p.AverageRating,
		RatingCount:     p.RatingCount,
		RatingBreakdown: p.RatingBreakdown.Map(),
		RatingLabels:    model.ScoreLabels,
		CreatedAt:       p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func NewPageResponse(page model.Page) PageResponse {
	posts := make([]PostResponse, 0, len(page.Posts))
	for _, p := range page.Posts {
		posts = append(posts, NewPostResponse(p))
	}
	return PageResponse{Posts: posts, NextPage: page.NextPage}
}

func NewRatingResponse(r model.Rating) RatingResponse {
	return RatingResponse{
		PostID:    r.PostID,
		UserID:    r.UserID,
		Rating:    r.Score,
		Label:     model.ScoreLabels[r.Score],
		CreatedAt: r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func NewProfileResponse(p profile.Profile) ProfileResponse {
	return ProfileResponse{
		UserID:                 p.UserID,
		PendingPostID:          p.PendingPostID,
		RatingsNeededToPublish: p.RatingsNeededToPublish,
		TotalRatingsGiven:      p.TotalRatingsGiven,
		TotalPosts:             p.TotalPosts,
		AverageRating:          p.AverageRating,
	}
}
