package repository

import (
	"context"
	"fmt"

	"deal-rater/internal/dealerrors"
	model "deal-rater/internal/models"

	"golang.org/x/text/cases"
)

//go:generate mockgen -source=repository.go -destination=mock_repository.go -package=repository

// DealTx is the set of operations available inside one unit of work.
// Writes made through a DealTx become visible only if the surrounding WithinTx call commits.
type DealTx interface {
	// GetPost loads a post and holds it for update until the unit of work ends
	GetPost(postID string) (model.Post, error)
	UpsertPost(post model.Post) error
	// InsertRatingIfAbsent fails with dealerrors.ErrRatingExists when (post, user) was already rated
	InsertRatingIfAbsent(rating model.Rating) error
	// GetUser returns dealerrors.ErrUserNotFound for users the store has not seen yet
	GetUser(userID string) (model.User, error)
	UpdateUserQuota(user model.User) error
}

// DealDB defines the storage interface for posts, ratings and users
type DealDB interface {
	// WithinTx runs fn as a single atomic unit. Any error returned by fn rolls every write back.
	WithinTx(ctx context.Context, fn func(tx DealTx) error) error

	GetPost(ctx context.Context, postID string) (model.Post, error)
	GetUser(ctx context.Context, userID string) (model.User, error)
	// ListPostsByOwner returns up to limit posts of ownerID, newest first, filtered by a
	// case-insensitive substring of title or description when search is non-empty
	ListPostsByOwner(ctx context.Context, ownerID, search string, offset, limit int) ([]model.Post, error)
	// ListRatablePosts returns live posts not owned and not yet rated by userID, oldest first
	ListRatablePosts(ctx context.Context, userID string, offset, limit int) ([]model.Post, error)
	ListRatingsByPost(ctx context.Context, postID string) ([]model.Rating, error)
	// PostStats aggregates over every post owned by ownerID
	PostStats(ctx context.Context, ownerID string) (PostStats, error)
}

// PostStats is the per-owner aggregate used for profiles
type PostStats struct {
	TotalPosts int
	// RatedPosts counts posts with at least one rating
	RatedPosts int
	// AverageRatingSum is the sum of AverageRating over RatedPosts
	AverageRatingSum float64
}

// checkOffset rejects offsets no store can page from
func checkOffset(offset int) error {
	if offset < 0 {
		return fmt.Errorf("%w - negative offset %d", dealerrors.ErrInvalidArgument, offset)
	}
	return nil
}

// foldCase applies Unicode case folding so search is case-insensitive beyond ASCII.
// A Caser keeps state, so each call gets its own.
func foldCase(s string) string {
	return cases.Fold().String(s)
}
