package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"deal-rater/internal/dealerrors"
	"deal-rater/internal/metrics"
	model "deal-rater/internal/models"
	"deal-rater/internal/repository"
	"deal-rater/utils"
)

// LifecycleService owns post status transitions and the rate-to-publish quota
type LifecycleService struct {
	repo   repository.DealDB
	policy QuotaPolicy
	now    func() time.Time
}

// QuotaProgress describes what one recorded rating did to its rater's quota
type QuotaProgress struct {
	Rater model.User
	// PublishedPostID is set when this rating completed the quota and published the rater's post
	PublishedPostID string
}

// NewLifecycleService creates a new LifecycleService instance
func NewLifecycleService(repo repository.DealDB, policy QuotaPolicy) *LifecycleService {
	return &LifecycleService{
		repo:   repo,
		policy: policy,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Policy returns the quota policy in force
func (s *LifecycleService) Policy() QuotaPolicy {
	return s.policy
}

// CreatePost validates and stores a new pending post and starts its author's quota
func (s *LifecycleService) CreatePost(ctx context.Context, authorID string, req NewPost) (model.Post, error) {
	if authorID == "" {
		return model.Post{}, fmt.Errorf("service: %w - empty author ID", dealerrors.ErrInvalidArgument)
	}
	req = req.normalize()
	if err := validateNewPost(req); err != nil {
		return model.Post{}, err
	}

	var created model.Post
	start := time.Now()
	err := s.repo.WithinTx(ctx, func(tx repository.DealTx) error {
		now := s.now()
		author, err := loadUser(tx, authorID, now)
		if err != nil {
			return err
		}
		if author.HasPendingPost() {
			return fmt.Errorf("service: %w - author already has a pending post; must rate others first", dealerrors.ErrPendingPostExists)
		}

		post := model.Post{
			PostID:       utils.GenerateID(),
			UserID:       authorID,
			Title:        req.Title,
			Description:  req.Description,
			Price:        req.Price,
			CurrencyCode: req.CurrencyCode,
			ListingURL:   req.ListingURL,
			ImageURL:     req.ImageURL,
			Category:     req.Category,
			Status:       model.StatusPending,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.UpsertPost(post); err != nil {
			return fmt.Errorf("service: failed to store post for user %s: %w", authorID, err)
		}

		author.PendingPostID = post.PostID
		author.RatingsNeededToPublish = s.policy.RatingsToPublish(author)
		author.UpdatedAt = now
		if err := tx.UpdateUserQuota(author); err != nil {
			return fmt.Errorf("service: failed to set quota for user %s: %w", authorID, err)
		}

		created = post
		return nil
	})
	metrics.UnitOfWorkDuration.WithLabelValues("create_post").Observe(time.Since(start).Seconds())
	if err != nil {
		return model.Post{}, err
	}

	metrics.PostsCreated.Inc()
	return created, nil
}

// GetPost returns a post by ID regardless of its status
func (s *LifecycleService) GetPost(ctx context.Context, postID string) (model.Post, error) {
	if postID == "" {
		return model.Post{}, fmt.Errorf("service: %w - empty post ID", dealerrors.ErrInvalidArgument)
	}

	post, err := s.repo.GetPost(ctx, postID)
	if err != nil {
		return model.Post{}, fmt.Errorf("service: failed to get post %s: %w", postID, err)
	}
	return post, nil
}

// GetVisiblePost returns a post as seen by viewerID. Pending posts exist only for their owner.
func (s *LifecycleService) GetVisiblePost(ctx context.Context, viewerID, postID string) (model.Post, error) {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return model.Post{}, err
	}
	if post.Status == model.StatusPending && post.UserID != viewerID {
		return model.Post{}, fmt.Errorf("service: post %s is not published: %w", postID, dealerrors.ErrPostNotFound)
	}
	return post, nil
}

// UpdatePostStatus moves a post to newStatus if the transition table and its guards allow it.
// It is not reachable over HTTP; ratings drive every transition in normal operation.
func (s *LifecycleService) UpdatePostStatus(ctx context.Context, postID string, newStatus model.PostStatus) (model.Post, error) {
	if !newStatus.Valid() {
		return model.Post{}, fmt.Errorf("service: %w - unknown status %q", dealerrors.ErrInvalidArgument, newStatus)
	}

	var updated model.Post
	err := s.repo.WithinTx(ctx, func(tx repository.DealTx) error {
		post, err := tx.GetPost(postID)
		if err != nil {
			return fmt.Errorf("service: failed to get post %s: %w", postID, err)
		}
		updated, err = s.Transition(tx, post, newStatus)
		return err
	})
	if err != nil {
		return model.Post{}, err
	}
	return updated, nil
}

// Transition applies a status change inside tx and returns the stored post.
//
//	pending -> live   only once the owner no longer waits on the quota for this post
//	live    -> rated  only once ratingCount reached the policy threshold
func (s *LifecycleService) Transition(tx repository.DealTx, post model.Post, to model.PostStatus) (model.Post, error) {
	from := post.Status
	switch {
	case from == model.StatusPending && to == model.StatusLive:
		owner, err := loadUser(tx, post.UserID, s.now())
		if err != nil {
			return model.Post{}, err
		}
		if owner.PendingPostID == post.PostID {
			return model.Post{}, fmt.Errorf("service: %w - post %s still needs %d ratings from its author",
				dealerrors.ErrInvalidTransition, post.PostID, owner.RatingsNeededToPublish)
		}
	case from == model.StatusLive && to == model.StatusRated:
		if post.RatingCount < s.policy.RatedThreshold() {
			return model.Post{}, fmt.Errorf("service: %w - post %s has %d of %d ratings",
				dealerrors.ErrInvalidTransition, post.PostID, post.RatingCount, s.policy.RatedThreshold())
		}
	default:
		return model.Post{}, fmt.Errorf("service: %w - %s to %s for post %s",
			dealerrors.ErrInvalidTransition, from, to, post.PostID)
	}

	post.Status = to
	post.UpdatedAt = s.now()
	if err := tx.UpsertPost(post); err != nil {
		return model.Post{}, fmt.Errorf("service: failed to store status of post %s: %w", post.PostID, err)
	}

	metrics.StatusTransitions.WithLabelValues(string(from), string(to)).Inc()
	utils.Debug("post status changed", map[string]any{
		"post_id": post.PostID,
		"from":    string(from),
		"to":      string(to),
	})
	return post, nil
}

// OnRaterQuotaProgress records one rating given by raterID inside tx. While the rater has a
// pending post it counts toward the quota; the rating that brings the quota to zero publishes it.
func (s *LifecycleService) OnRaterQuotaProgress(tx repository.DealTx, raterID string) (QuotaProgress, error) {
	now := s.now()
	rater, err := loadUser(tx, raterID, now)
	if err != nil {
		return QuotaProgress{}, err
	}

	rater.TotalRatingsGiven++
	rater.UpdatedAt = now

	var publish string
	if rater.HasPendingPost() && rater.RatingsNeededToPublish > 0 {
		rater.RatingsNeededToPublish--
		if rater.RatingsNeededToPublish == 0 {
			publish = rater.PendingPostID
			rater.PendingPostID = ""
		}
	}

	// the owner record must be cleared before Transition checks the gate
	if err := tx.UpdateUserQuota(rater); err != nil {
		return QuotaProgress{}, fmt.Errorf("service: failed to update quota for user %s: %w", raterID, err)
	}

	progress := QuotaProgress{Rater: rater}
	if publish == "" {
		return progress, nil
	}

	pending, err := tx.GetPost(publish)
	if err != nil {
		return QuotaProgress{}, fmt.Errorf("service: failed to load pending post %s: %w", publish, err)
	}
	if _, err := s.Transition(tx, pending, model.StatusLive); err != nil {
		return QuotaProgress{}, err
	}
	progress.PublishedPostID = publish
	return progress, nil
}

// loadUser returns the stored user or a fresh record for a caller the store has not seen
func loadUser(tx repository.DealTx, userID string, now time.Time) (model.User, error) {
	user, err := tx.GetUser(userID)
	if err == nil {
		return user, nil
	}
	if errors.Is(err, dealerrors.ErrUserNotFound) {
		return model.User{UserID: userID, CreatedAt: now, UpdatedAt: now}, nil
	}
	return model.User{}, fmt.Errorf("service: failed to load user %s: %w", userID, err)
}
