package profile

import (
	"context"
	"errors"
	"fmt"

	"deal-rater/internal/dealerrors"
	model "deal-rater/internal/models"
	rating "deal-rater/internal/ratingService"
	"deal-rater/internal/repository"
)

// Profile is a user's quota state plus stats derived from their posts
type Profile struct {
	model.User
	TotalPosts int `json:"total_posts"`
	// AverageRating is the mean of the user's rated posts' averages, zero when none is rated
	AverageRating float64 `json:"average_rating"`
}

// ProfileService builds profiles for the caller
type ProfileService struct {
	repo repository.DealDB
}

// NewProfileService creates a new ProfileService instance
func NewProfileService(repo repository.DealDB) *ProfileService {
	return &ProfileService{repo: repo}
}

// GetProfile returns userID's profile. A user the store has not seen gets an empty profile.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (Profile, error) {
	if userID == "" {
		return Profile{}, fmt.Errorf("service: %w - empty user ID", dealerrors.ErrInvalidArgument)
	}

	user, err := s.repo.GetUser(ctx, userID)
	switch {
	case errors.Is(err, dealerrors.ErrUserNotFound):
		user = model.User{UserID: userID}
	case err != nil:
		return Profile{}, fmt.Errorf("service: failed to get user %s: %w", userID, err)
	}

	stats, err := s.repo.PostStats(ctx, userID)
	if err != nil {
		return Profile{}, fmt.Errorf("service: failed to aggregate posts of user %s: %w", userID, err)
	}

	return Profile{
		User:          user,
		TotalPosts:    stats.TotalPosts,
		AverageRating: rating.MeanOfAverages(stats.AverageRatingSum, stats.RatedPosts),
	}, nil
}
