package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"deal-rater/internal/dealerrors"
	model "deal-rater/internal/models"
)

// MemoryRepo is a concurrency-safe in-memory implementation of DealDB.
// A unit of work holds the write lock for its whole duration and stages its writes,
// so a failed unit leaves no trace.
type MemoryRepo struct {
	mu      sync.RWMutex
	posts   map[string]model.Post              // key: postID -> value: post
	ratings map[string]map[string]model.Rating // key: postID -> userID -> rating
	users   map[string]model.User              // key: userID -> value: user
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		posts:   make(map[string]model.Post),
		ratings: make(map[string]map[string]model.Rating),
		users:   make(map[string]model.User),
	}
}

// WithinTx runs fn under the write lock and applies its staged writes only when fn succeeds
func (r *MemoryRepo) WithinTx(ctx context.Context, fn func(tx DealTx) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin unit of work: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tx := &memoryTx{
		repo:    r,
		posts:   make(map[string]model.Post),
		ratings: make(map[string]map[string]model.Rating),
		users:   make(map[string]model.User),
	}
	if err := fn(tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

// GetPost returns a post by ID
func (r *MemoryRepo) GetPost(_ context.Context, postID string) (model.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[postID]
	if !ok {
		return model.Post{}, fmt.Errorf("get post %s: %w", postID, dealerrors.ErrPostNotFound)
	}
	return post, nil
}

// GetUser returns a user by ID
func (r *MemoryRepo) GetUser(_ context.Context, userID string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[userID]
	if !ok {
		return model.User{}, fmt.Errorf("get user %s: %w", userID, dealerrors.ErrUserNotFound)
	}
	return user, nil
}

// ListPostsByOwner returns a page of an owner's posts, newest first
func (r *MemoryRepo) ListPostsByOwner(_ context.Context, ownerID, search string, offset, limit int) ([]model.Post, error) {
	if err := checkOffset(offset); err != nil {
		return nil, fmt.Errorf("list posts for owner %s: %w", ownerID, err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := foldCase(search)
	var posts []model.Post
	for _, p := range r.posts {
		if p.UserID != ownerID {
			continue
		}
		if needle != "" &&
			!strings.Contains(foldCase(p.Title), needle) &&
			!strings.Contains(foldCase(p.Description), needle) {
			continue
		}
		posts = append(posts, p)
	}

	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].PostID > posts[j].PostID
	})
	return paginate(posts, offset, limit), nil
}

// ListRatablePosts returns a page of live posts userID may still rate, oldest first
func (r *MemoryRepo) ListRatablePosts(_ context.Context, userID string, offset, limit int) ([]model.Post, error) {
	if err := checkOffset(offset); err != nil {
		return nil, fmt.Errorf("list ratable posts for user %s: %w", userID, err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var posts []model.Post
	for _, p := range r.posts {
		if p.Status != model.StatusLive || p.UserID == userID {
			continue
		}
		if _, rated := r.ratings[p.PostID][userID]; rated {
			continue
		}
		posts = append(posts, p)
	}

	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.Before(posts[j].CreatedAt)
		}
		return posts[i].PostID < posts[j].PostID
	})
	return paginate(posts, offset, limit), nil
}

// ListRatingsByPost returns every rating of a post, oldest first
func (r *MemoryRepo) ListRatingsByPost(_ context.Context, postID string) ([]model.Rating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ratings := make([]model.Rating, 0, len(r.ratings[postID]))
	for _, rt := range r.ratings[postID] {
		ratings = append(ratings, rt)
	}
	sort.Slice(ratings, func(i, j int) bool {
		if !ratings[i].CreatedAt.Equal(ratings[j].CreatedAt) {
			return ratings[i].CreatedAt.Before(ratings[j].CreatedAt)
		}
		return ratings[i].UserID < ratings[j].UserID
	})
	return ratings, nil
}

// PostStats aggregates the owner's posts
func (r *MemoryRepo) PostStats(_ context.Context, ownerID string) (PostStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stats PostStats
	for _, p := range r.posts {
		if p.UserID != ownerID {
			continue
		}
		stats.TotalPosts++
		if p.RatingCount > 0 {
			stats.RatedPosts++
			stats.AverageRatingSum += p.AverageRating
		}
	}
	return stats, nil
}

// AddPost stores a post as-is. This method is intended for tests and seeding only.
func (r *MemoryRepo) AddPost(post model.Post) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[post.PostID] = post
}

// AddUser stores a user as-is. This method is intended for tests and seeding only.
func (r *MemoryRepo) AddUser(user model.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.UserID] = user
}

func paginate(posts []model.Post, offset, limit int) []model.Post {
	if offset < 0 || offset >= len(posts) {
		return []model.Post{}
	}
	end := len(posts)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return append([]model.Post(nil), posts[offset:end]...)
}

// memoryTx stages writes on top of the committed maps. The repo's write lock is held by WithinTx.
type memoryTx struct {
	repo    *MemoryRepo
	posts   map[string]model.Post
	ratings map[string]map[string]model.Rating
	users   map[string]model.User
}

func (tx *memoryTx) GetPost(postID string) (model.Post, error) {
	if post, ok := tx.posts[postID]; ok {
		return post, nil
	}
	post, ok := tx.repo.posts[postID]
	if !ok {
		return model.Post{}, fmt.Errorf("get post %s: %w", postID, dealerrors.ErrPostNotFound)
	}
	return post, nil
}

func (tx *memoryTx) UpsertPost(post model.Post) error {
	if post.PostID == "" {
		return fmt.Errorf("upsert post: %w - empty post ID", dealerrors.ErrInvalidArgument)
	}
	tx.posts[post.PostID] = post
	return nil
}

func (tx *memoryTx) InsertRatingIfAbsent(rating model.Rating) error {
	if rating.PostID == "" || rating.UserID == "" {
		return fmt.Errorf("insert rating: %w - missing post or user ID", dealerrors.ErrInvalidArgument)
	}
	if _, ok := tx.repo.ratings[rating.PostID][rating.UserID]; ok {
		return fmt.Errorf("insert rating for post %s by user %s: %w", rating.PostID, rating.UserID, dealerrors.ErrRatingExists)
	}
	if _, ok := tx.ratings[rating.PostID][rating.UserID]; ok {
		return fmt.Errorf("insert rating for post %s by user %s: %w", rating.PostID, rating.UserID, dealerrors.ErrRatingExists)
	}
	if tx.ratings[rating.PostID] == nil {
		tx.ratings[rating.PostID] = make(map[string]model.Rating)
	}
	tx.ratings[rating.PostID][rating.UserID] = rating
	return nil
}

func (tx *memoryTx) GetUser(userID string) (model.User, error) {
	if user, ok := tx.users[userID]; ok {
		return user, nil
	}
	user, ok := tx.repo.users[userID]
	if !ok {
		return model.User{}, fmt.Errorf("get user %s: %w", userID, dealerrors.ErrUserNotFound)
	}
	return user, nil
}

func (tx *memoryTx) UpdateUserQuota(user model.User) error {
	if user.UserID == "" {
		return fmt.Errorf("update user quota: %w - empty user ID", dealerrors.ErrInvalidArgument)
	}
	tx.users[user.UserID] = user
	return nil
}

func (tx *memoryTx) commit() {
	for id, post := range tx.posts {
		tx.repo.posts[id] = post
	}
	for postID, byUser := range tx.ratings {
		if tx.repo.ratings[postID] == nil {
			tx.repo.ratings[postID] = make(map[string]model.Rating)
		}
		for userID, rating := range byUser {
			tx.repo.ratings[postID][userID] = rating
		}
	}
	for id, user := range tx.users {
		tx.repo.users[id] = user
	}
}
