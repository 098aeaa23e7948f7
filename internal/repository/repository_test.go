package repository

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"deal-rater/internal/dealerrors"
	model "deal-rater/internal/models"

	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

// Helper to create a new Post
func newPost(postID, owner string, status model.PostStatus, createdAt time.Time) model.Post {
	return model.Post{
		PostID:       postID,
		UserID:       owner,
		Title:        fmt.Sprintf("%s title", postID),
		Description:  fmt.Sprintf("%s description of the deal", postID),
		Price:        1000,
		CurrencyCode: "USD",
		Category:     "used_cars",
		Status:       status,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

// Helper to create a new Rating
func newRating(postID, userID string, score int) model.Rating {
	return model.Rating{PostID: postID, UserID: userID, Score: score, CreatedAt: base}
}

// storeFactories lets every contract test run against both stores
func storeFactories(t *testing.T) map[string]func(t *testing.T) DealDB {
	return map[string]func(t *testing.T) DealDB{
		"memory": func(t *testing.T) DealDB { return NewMemoryRepo() },
		"sqlite": func(t *testing.T) DealDB { return openSQLite(t) },
	}
}

func openSQLite(t *testing.T) *GormRepo {
	t.Helper()
	repo, err := OpenGorm(GormConfig{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "deals.db")})
	require.NoError(t, err)
	require.NoError(t, repo.Migrate())
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

// seed writes posts and ratings through a unit of work so both stores are seeded the same way
func seed(t *testing.T, repo DealDB, posts []model.Post, ratings []model.Rating) {
	t.Helper()
	err := repo.WithinTx(context.Background(), func(tx DealTx) error {
		for _, p := range posts {
			if err := tx.UpsertPost(p); err != nil {
				return err
			}
		}
		for _, r := range ratings {
			if err := tx.InsertRatingIfAbsent(r); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func postIDs(posts []model.Post) []string {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.PostID)
	}
	return ids
}

func TestStore_UnitOfWorkCommitAndRollback(t *testing.T) {
	t.Parallel()

	for name, open := range storeFactories(t) {
		open := open
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			repo := open(t)
			ctx := context.Background()

			seed(t, repo, []model.Post{newPost("p1", "alice", model.StatusLive, base)}, nil)

			got, err := repo.GetPost(ctx, "p1")
			require.NoError(t, err)
			require.Equal(t, "alice", got.UserID)
			require.Equal(t, model.StatusLive, got.Status)
			require.True(t, base.Equal(got.CreatedAt))

			boom := errors.New("boom")
			err = repo.WithinTx(ctx, func(tx DealTx) error {
				post, err := tx.GetPost("p1")
				require.NoError(t, err)
				post.RatingCount = 1
				post.RatingBreakdown[5] = 1
				require.NoError(t, tx.UpsertPost(post))
				require.NoError(t, tx.InsertRatingIfAbsent(newRating("p1", "bob", 5)))
				require.NoError(t, tx.UpdateUserQuota(model.User{UserID: "bob", TotalRatingsGiven: 1}))

				// reads inside the unit see its own writes
				staged, err := tx.GetPost("p1")
				require.NoError(t, err)
				require.Equal(t, 1, staged.RatingCount)
				return boom
			})
			require.ErrorIs(t, err, boom)

			got, err = repo.GetPost(ctx, "p1")
			require.NoError(t, err)
			require.Equal(t, 0, got.RatingCount)
			require.Equal(t, model.RatingBreakdown{}, got.RatingBreakdown)

			ratings, err := repo.ListRatingsByPost(ctx, "p1")
			require.NoError(t, err)
			require.Empty(t, ratings)

			_, err = repo.GetUser(ctx, "bob")
			require.ErrorIs(t, err, dealerrors.ErrUserNotFound)
		})
	}
}

func TestStore_InsertRatingIfAbsent(t *testing.T) {
	t.Parallel()

	for name, open := range storeFactories(t) {
		open := open
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			repo := open(t)
			seed(t, repo, []model.Post{newPost("p1", "alice", model.StatusLive, base)}, []model.Rating{newRating("p1", "bob", 4)})

			tests := []struct {
				name    string
				rating  model.Rating
				wantErr error
			}{
				{name: "duplicate", rating: newRating("p1", "bob", 2), wantErr: dealerrors.ErrRatingExists},
				{name: "other_user", rating: newRating("p1", "carol", 2)},
				{name: "missing_post_id", rating: newRating("", "dave", 2), wantErr: dealerrors.ErrInvalidArgument},
				{name: "missing_user_id", rating: newRating("p1", "", 2), wantErr: dealerrors.ErrInvalidArgument},
			}

			for _, tc := range tests {
				err := repo.WithinTx(context.Background(), func(tx DealTx) error {
					return tx.InsertRatingIfAbsent(tc.rating)
				})
				if tc.wantErr != nil {
					require.ErrorIs(t, err, tc.wantErr, tc.name)
					continue
				}
				require.NoError(t, err, tc.name)
			}

			ratings, err := repo.ListRatingsByPost(context.Background(), "p1")
			require.NoError(t, err)
			require.Len(t, ratings, 2)
			require.Equal(t, 4, ratings[0].Score)
		})
	}
}

func TestStore_ListRatablePosts(t *testing.T) {
	t.Parallel()

	for name, open := range storeFactories(t) {
		open := open
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			repo := open(t)
			seed(t, repo, []model.Post{
				newPost("own", "viewer", model.StatusLive, base),
				newPost("pending", "alice", model.StatusPending, base),
				newPost("rated", "alice", model.StatusRated, base),
				newPost("already", "alice", model.StatusLive, base),
				newPost("b", "bob", model.StatusLive, base.Add(2*time.Minute)),
				newPost("a", "alice", model.StatusLive, base.Add(time.Minute)),
				newPost("c", "carol", model.StatusLive, base.Add(time.Minute)),
			}, []model.Rating{newRating("already", "viewer", 3)})

			ctx := context.Background()
			all, err := repo.ListRatablePosts(ctx, "viewer", 0, 10)
			require.NoError(t, err)
			require.Equal(t, []string{"a", "c", "b"}, postIDs(all))

			page, err := repo.ListRatablePosts(ctx, "viewer", 1, 1)
			require.NoError(t, err)
			require.Equal(t, []string{"c"}, postIDs(page))

			past, err := repo.ListRatablePosts(ctx, "viewer", 10, 5)
			require.NoError(t, err)
			require.Empty(t, past)
		})
	}
}

func TestStore_ListPostsByOwner(t *testing.T) {
	t.Parallel()

	for name, open := range storeFactories(t) {
		open := open
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			repo := open(t)

			civic := newPost("civic", "alice", model.StatusLive, base)
			civic.Title = "2015 Honda Civic"
			sofa := newPost("sofa", "alice", model.StatusPending, base.Add(time.Hour))
			sofa.Description = "Leather sofa, 100% genuine, barely used"
			other := newPost("other", "bob", model.StatusLive, base)
			other.Title = "Honda Accord"
			seed(t, repo, []model.Post{civic, sofa, other}, nil)

			tests := []struct {
				name   string
				search string
				want   []string
			}{
				{name: "all_newest_first", search: "", want: []string{"sofa", "civic"}},
				{name: "case_insensitive_title", search: "HONDA", want: []string{"civic"}},
				{name: "description_match", search: "leather", want: []string{"sofa"}},
				{name: "percent_is_literal", search: "100%", want: []string{"sofa"}},
				{name: "underscore_is_literal", search: "_", want: []string{}},
				{name: "no_match", search: "boat", want: []string{}},
			}

			for _, tc := range tests {
				posts, err := repo.ListPostsByOwner(context.Background(), "alice", tc.search, 0, 10)
				require.NoError(t, err, tc.name)
				require.Equal(t, tc.want, postIDs(posts), tc.name)
			}
		})
	}
}

func TestStore_ListRejectsNegativeOffset(t *testing.T) {
	t.Parallel()

	for name, open := range storeFactories(t) {
		open := open
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			repo := open(t)
			seed(t, repo, []model.Post{newPost("a", "alice", model.StatusLive, base)}, nil)
			ctx := context.Background()

			var ratable, owned []model.Post
			var ratableErr, ownedErr error
			require.NotPanics(t, func() {
				ratable, ratableErr = repo.ListRatablePosts(ctx, "bob", -10, 5)
				owned, ownedErr = repo.ListPostsByOwner(ctx, "alice", "", -10, 5)
			})
			require.ErrorIs(t, ratableErr, dealerrors.ErrInvalidArgument)
			require.ErrorIs(t, ownedErr, dealerrors.ErrInvalidArgument)
			require.Nil(t, ratable)
			require.Nil(t, owned)
		})
	}
}

func TestStore_ListPostsByOwner_UnicodeFolding(t *testing.T) {
	t.Parallel()

	for name, open := range storeFactories(t) {
		open := open
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			repo := open(t)

			torch := newPost("torch", "alice", model.StatusLive, base)
			torch.Title = "CRÈME BRÛLÉE torch set"
			sofa := newPost("sofa", "alice", model.StatusLive, base.Add(time.Hour))
			sofa.Description = "Ёлочный диван, почти новый"
			seed(t, repo, []model.Post{torch, sofa}, nil)

			tests := []struct {
				search string
				want   []string
			}{
				{search: "crème brûlée", want: []string{"torch"}},
				{search: "Crème Brûlée", want: []string{"torch"}},
				{search: "ёлочный", want: []string{"sofa"}},
				{search: "ДИВАН", want: []string{"sofa"}},
			}

			for _, tc := range tests {
				posts, err := repo.ListPostsByOwner(context.Background(), "alice", tc.search, 0, 10)
				require.NoError(t, err, tc.search)
				require.Equal(t, tc.want, postIDs(posts), tc.search)
			}
		})
	}
}

func TestStore_PostStats(t *testing.T) {
	t.Parallel()

	for name, open := range storeFactories(t) {
		open := open
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			repo := open(t)

			rated := newPost("r1", "alice", model.StatusRated, base)
			rated.RatingCount, rated.AverageRating = 5, 4.6
			live := newPost("r2", "alice", model.StatusLive, base)
			live.RatingCount, live.AverageRating = 2, 3.5
			seed(t, repo, []model.Post{rated, live, newPost("r3", "alice", model.StatusPending, base)}, nil)

			stats, err := repo.PostStats(context.Background(), "alice")
			require.NoError(t, err)
			require.Equal(t, 3, stats.TotalPosts)
			require.Equal(t, 2, stats.RatedPosts)
			require.InDelta(t, 8.1, stats.AverageRatingSum, 1e-9)

			empty, err := repo.PostStats(context.Background(), "nobody")
			require.NoError(t, err)
			require.Equal(t, PostStats{}, empty)
		})
	}
}

func TestStore_UserQuotaRoundTrip(t *testing.T) {
	t.Parallel()

	for name, open := range storeFactories(t) {
		open := open
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			repo := open(t)
			ctx := context.Background()

			user := model.User{UserID: "alice", PendingPostID: "p1", RatingsNeededToPublish: 2, CreatedAt: base, UpdatedAt: base}
			require.NoError(t, repo.WithinTx(ctx, func(tx DealTx) error { return tx.UpdateUserQuota(user) }))

			got, err := repo.GetUser(ctx, "alice")
			require.NoError(t, err)
			require.Equal(t, "p1", got.PendingPostID)
			require.Equal(t, 2, got.RatingsNeededToPublish)

			user.PendingPostID = ""
			user.RatingsNeededToPublish = 0
			user.TotalRatingsGiven = 2
			require.NoError(t, repo.WithinTx(ctx, func(tx DealTx) error { return tx.UpdateUserQuota(user) }))

			got, err = repo.GetUser(ctx, "alice")
			require.NoError(t, err)
			require.False(t, got.HasPendingPost())
			require.Equal(t, 2, got.TotalRatingsGiven)
		})
	}
}

// Concurrent duplicate inserts: exactly one unit of work wins
func TestMemoryRepo_ConcurrentDuplicateRating(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepo()
	repo.AddPost(newPost("p1", "alice", model.StatusLive, base))

	const workers = 50
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.WithinTx(context.Background(), func(tx DealTx) error {
				return tx.InsertRatingIfAbsent(newRating("p1", "bob", 5))
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, dealerrors.ErrRatingExists):
				conflicts++
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 1, successes)
	require.Equal(t, workers-1, conflicts)
}

func TestMemoryRepo_CanceledContext(t *testing.T) {
	t.Parallel()

	repo := NewMemoryRepo()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := repo.WithinTx(ctx, func(tx DealTx) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	require.False(t, called)
}

func TestOpenGorm_UnknownDriver(t *testing.T) {
	t.Parallel()

	_, err := OpenGorm(GormConfig{Driver: "oracle", DSN: "x"})
	require.ErrorIs(t, err, dealerrors.ErrUnknownDriver)
}

func TestEscapeLike(t *testing.T) {
	t.Parallel()

	require.Equal(t, "100!%", escapeLike("100%"))
	require.Equal(t, "a!_b", escapeLike("a_b"))
	require.Equal(t, "wow!!", escapeLike("wow!"))
}
