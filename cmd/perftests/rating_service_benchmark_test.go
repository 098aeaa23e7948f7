package perftests

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"

	lifecycle "deal-rater/internal/lifecycleService"
	model "deal-rater/internal/models"
	rating "deal-rater/internal/ratingService"
	repository "deal-rater/internal/repository"
)

func benchPost(id, owner string) model.Post {
	return model.Post{
		PostID:       id,
		UserID:       owner,
		Title:        id + " listing",
		Description:  "Benchmark listing description",
		Price:        1000,
		CurrencyCode: "USD",
		Category:     "used_cars",
		Status:       model.StatusLive,
		CreatedAt:    time.Now().UTC(),
	}
}

// setupServices creates repository, lifecycle and rating services. The threshold is high so posts stay live.
func setupServices() (*repository.MemoryRepo, *lifecycle.LifecycleService, *rating.RatingService) {
	repo := repository.NewMemoryRepo()
	lc := lifecycle.NewLifecycleService(repo, lifecycle.FixedPolicy{Quota: 2, Threshold: 1 << 30})
	return repo, lc, rating.NewRatingService(repo, lc, rating.Options{PageSize: 20})
}

// Benchmark 1: SubmitRating - Isolated Posts (Low Contention - Micro Benchmark)
func Benchmark_SubmitRating_Isolated(b *testing.B) {
	repo, _, svc := setupServices()
	for i := 0; i < b.N; i++ {
		repo.AddPost(benchPost(fmt.Sprintf("post_%d", i), fmt.Sprintf("owner_%d", i)))
	}

	b.ReportAllocs()
	b.ResetTimer()

	ctx := context.Background()
	for i := 0; i < b.N; i++ {
		userID := fmt.Sprintf("user_%d", i)
		postID := fmt.Sprintf("post_%d", i)
		if _, err := svc.SubmitRating(ctx, userID, postID, rand.Intn(5)+1); err != nil {
			b.Fatalf("failed to submit rating: %v", err)
		}
	}
}

// Benchmark 2: SubmitRating - Shared Post (High Contention - Concurrency Benchmark)
func Benchmark_SubmitRating_ConcurrentSharedPost(b *testing.B) {
	repo, _, svc := setupServices()
	repo.AddPost(benchPost("shared_post_1", "owner"))

	b.ReportAllocs()
	b.ResetTimer()

	var next int64
	b.RunParallel(func(pb *testing.PB) {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		for pb.Next() {
			userID := fmt.Sprintf("user_parallel_%d", atomic.AddInt64(&next, 1))
			_, _ = svc.SubmitRating(context.Background(), userID, "shared_post_1", rnd.Intn(5)+1)
		}
	})
}

// Benchmark 3: ListRatablePosts - Single - Threaded (Read Path)
func Benchmark_ListRatablePosts_SingleThreaded(b *testing.B) {
	repo, _, svc := setupServices()
	for i := 0; i < 1000; i++ {
		repo.AddPost(benchPost(fmt.Sprintf("post_%d", i), fmt.Sprintf("owner_%d", i%50)))
	}

	b.ReportAllocs()
	b.ResetTimer()

	ctx := context.Background()
	for i := 0; i < b.N; i++ {
		if _, err := svc.ListRatablePosts(ctx, "reader", i%50); err != nil {
			b.Fatalf("failed to list posts: %v", err)
		}
	}
}

// Benchmark 4: CreatePost then publish through the quota (full reciprocity loop)
func Benchmark_ReciprocityLoop(b *testing.B) {
	repo, lc, svc := setupServices()
	repo.AddPost(benchPost("seed_a", "seeder_a"))
	repo.AddPost(benchPost("seed_b", "seeder_b"))

	req := lifecycle.NewPost{
		Title:       "Benchmark listing title",
		Description: "Benchmark listing description text",
		Price:       1000,
	}

	b.ReportAllocs()
	b.ResetTimer()

	ctx := context.Background()
	for i := 0; i < b.N; i++ {
		author := fmt.Sprintf("author_%d", i)
		if _, err := lc.CreatePost(ctx, author, req); err != nil {
			b.Fatalf("failed to create post: %v", err)
		}
		if _, err := svc.SubmitRating(ctx, author, "seed_a", 4); err != nil {
			b.Fatalf("failed to rate: %v", err)
		}
		if _, err := svc.SubmitRating(ctx, author, "seed_b", 5); err != nil {
			b.Fatalf("failed to rate: %v", err)
		}
	}
}
