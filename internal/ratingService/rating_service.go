package rating

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"deal-rater/internal/dealerrors"
	lifecycle "deal-rater/internal/lifecycleService"
	"deal-rater/internal/metrics"
	model "deal-rater/internal/models"
	"deal-rater/internal/repository"
	"deal-rater/utils"
)

// LifecycleManager is the part of the lifecycle service the aggregator drives inside its transaction
type LifecycleManager interface {
	Transition(tx repository.DealTx, post model.Post, to model.PostStatus) (model.Post, error)
	OnRaterQuotaProgress(tx repository.DealTx, raterID string) (lifecycle.QuotaProgress, error)
	Policy() lifecycle.QuotaPolicy
}

// Options tunes the aggregator
type Options struct {
	// AcceptLateRatings lets ratings land on posts that already became rated. The post stays rated.
	AcceptLateRatings bool
	PageSize          int
}

// RatingService records ratings and keeps post aggregates current
type RatingService struct {
	repo      repository.DealDB
	lifecycle LifecycleManager
	opts      Options
	now       func() time.Time
}

// NewRatingService creates a new RatingService instance
func NewRatingService(repo repository.DealDB, lc LifecycleManager, opts Options) *RatingService {
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	return &RatingService{
		repo:      repo,
		lifecycle: lc,
		opts:      opts,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SubmitRating validates and records raterID's score for postID, updates the post aggregate and
// advances the rater's quota. All of it commits together or not at all.
func (s *RatingService) SubmitRating(ctx context.Context, raterID, postID string, score int) (model.Rating, error) {
	if raterID == "" || postID == "" {
		return model.Rating{}, fmt.Errorf("service: %w - missing rater or post ID", dealerrors.ErrInvalidArgument)
	}
	if score < model.MinScore || score > model.MaxScore {
		metrics.RatingsSubmitted.WithLabelValues("invalid_score").Inc()
		return model.Rating{}, fmt.Errorf("service: %w - got %d", dealerrors.ErrInvalidScore, score)
	}

	var (
		rating   model.Rating
		progress lifecycle.QuotaProgress
	)
	start := time.Now()
	err := s.repo.WithinTx(ctx, func(tx repository.DealTx) error {
		post, err := tx.GetPost(postID)
		if err != nil {
			return fmt.Errorf("service: failed to load post %s: %w", postID, err)
		}
		if post.UserID == raterID {
			return fmt.Errorf("service: %w - post %s", dealerrors.ErrSelfRating, postID)
		}

		now := s.now()
		rating = model.Rating{
			PostID:    postID,
			UserID:    raterID,
			Score:     score,
			CreatedAt: now,
		}
		if err := tx.InsertRatingIfAbsent(rating); err != nil {
			if errors.Is(err, dealerrors.ErrRatingExists) {
				return fmt.Errorf("service: %w - post %s by user %s", dealerrors.ErrAlreadyRated, postID, raterID)
			}
			return fmt.Errorf("service: failed to record rating for post %s: %w", postID, err)
		}

		if err := s.checkRatable(post); err != nil {
			return err
		}

		post = applyScore(post, score)
		post.UpdatedAt = now
		if err := tx.UpsertPost(post); err != nil {
			return fmt.Errorf("service: failed to update aggregate of post %s: %w", postID, err)
		}

		if post.Status == model.StatusLive && post.RatingCount >= s.lifecycle.Policy().RatedThreshold() {
			if _, err := s.lifecycle.Transition(tx, post, model.StatusRated); err != nil {
				return err
			}
		}

		progress, err = s.lifecycle.OnRaterQuotaProgress(tx, raterID)
		return err
	})
	metrics.UnitOfWorkDuration.WithLabelValues("submit_rating").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RatingsSubmitted.WithLabelValues(rejectionReason(err)).Inc()
		return model.Rating{}, err
	}

	metrics.RatingsSubmitted.WithLabelValues(strconv.Itoa(score)).Inc()
	if progress.PublishedPostID != "" {
		utils.Info("post published after quota completed", map[string]any{
			"post_id": progress.PublishedPostID,
			"user_id": raterID,
		})
	}
	return rating, nil
}

// checkRatable enforces that only live posts take ratings, plus rated ones when late ratings are accepted
func (s *RatingService) checkRatable(post model.Post) error {
	switch post.Status {
	case model.StatusLive:
		return nil
	case model.StatusRated:
		if s.opts.AcceptLateRatings {
			return nil
		}
		return fmt.Errorf("service: %w - post %s already reached its rating threshold", dealerrors.ErrPostNotRatable, post.PostID)
	default:
		return fmt.Errorf("service: %w - post %s is %s", dealerrors.ErrPostNotRatable, post.PostID, post.Status)
	}
}

// ListRatablePosts returns a page of live posts by other users that userID has not rated yet
func (s *RatingService) ListRatablePosts(ctx context.Context, userID string, page int) (model.Page, error) {
	if userID == "" {
		return model.Page{}, fmt.Errorf("service: %w - empty user ID", dealerrors.ErrInvalidArgument)
	}
	offset, err := s.pageOffset(page)
	if err != nil {
		return model.Page{}, err
	}

	posts, err := s.repo.ListRatablePosts(ctx, userID, offset, s.opts.PageSize+1)
	if err != nil {
		return model.Page{}, fmt.Errorf("service: failed to list ratable posts for user %s: %w", userID, err)
	}
	return s.toPage(posts, page), nil
}

// ListPosts returns a page of ownerID's own posts, optionally filtered by a search term
func (s *RatingService) ListPosts(ctx context.Context, ownerID, search string, page int) (model.Page, error) {
	if ownerID == "" {
		return model.Page{}, fmt.Errorf("service: %w - empty owner ID", dealerrors.ErrInvalidArgument)
	}
	offset, err := s.pageOffset(page)
	if err != nil {
		return model.Page{}, err
	}

	posts, err := s.repo.ListPostsByOwner(ctx, ownerID, search, offset, s.opts.PageSize+1)
	if err != nil {
		return model.Page{}, fmt.Errorf("service: failed to list posts for user %s: %w", ownerID, err)
	}
	return s.toPage(posts, page), nil
}

// ListRatings returns the individual ratings of a post to its owner
func (s *RatingService) ListRatings(ctx context.Context, viewerID, postID string) ([]model.Rating, error) {
	post, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get post %s: %w", postID, err)
	}
	if post.UserID != viewerID {
		return nil, fmt.Errorf("service: %w - only the owner can list ratings of post %s", dealerrors.ErrForbidden, postID)
	}

	ratings, err := s.repo.ListRatingsByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list ratings for post %s: %w", postID, err)
	}
	return ratings, nil
}

// pageOffset turns a page index into a store offset. Pages whose last look-ahead row would not fit in an int are rejected.
func (s *RatingService) pageOffset(page int) (int, error) {
	if page < 0 {
		return 0, fmt.Errorf("service: %w - negative page %d", dealerrors.ErrInvalidArgument, page)
	}
	if page > (math.MaxInt-1)/s.opts.PageSize-1 {
		return 0, fmt.Errorf("service: %w - page %d out of range", dealerrors.ErrInvalidArgument, page)
	}
	return page * s.opts.PageSize, nil
}

// toPage trims the look-ahead row and turns it into the next page index
func (s *RatingService) toPage(posts []model.Post, page int) model.Page {
	if posts == nil {
		posts = []model.Post{}
	}
	if len(posts) <= s.opts.PageSize {
		return model.Page{Posts: posts}
	}
	next := page + 1
	return model.Page{Posts: posts[:s.opts.PageSize], NextPage: &next}
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, dealerrors.ErrSelfRating):
		return "self_rating"
	case errors.Is(err, dealerrors.ErrAlreadyRated):
		return "duplicate"
	case errors.Is(err, dealerrors.ErrPostNotRatable):
		return "not_ratable"
	case errors.Is(err, dealerrors.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
