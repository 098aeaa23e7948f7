package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"deal-rater/internal/dealerrors"
	model "deal-rater/internal/models"
	"deal-rater/internal/repository"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func TestGetProfile(t *testing.T) {
	t.Parallel()

	repo := repository.NewMemoryRepo()
	now := time.Now().UTC()
	repo.AddUser(model.User{UserID: "alice", PendingPostID: "p3", RatingsNeededToPublish: 1, TotalRatingsGiven: 7})
	repo.AddPost(model.Post{PostID: "p1", UserID: "alice", Status: model.StatusRated, RatingCount: 5, AverageRating: 4.6, CreatedAt: now})
	repo.AddPost(model.Post{PostID: "p2", UserID: "alice", Status: model.StatusLive, RatingCount: 2, AverageRating: 3.5, CreatedAt: now})
	repo.AddPost(model.Post{PostID: "p3", UserID: "alice", Status: model.StatusPending, CreatedAt: now})
	svc := NewProfileService(repo)

	tests := []struct {
		name string
		user string
		want Profile
	}{
		{
			name: "with_posts",
			user: "alice",
			want: Profile{
				User:          model.User{UserID: "alice", PendingPostID: "p3", RatingsNeededToPublish: 1, TotalRatingsGiven: 7},
				TotalPosts:    3,
				AverageRating: 4.1,
			},
		},
		{
			name: "unknown_user_has_empty_stats",
			user: "newcomer",
			want: Profile{User: model.User{UserID: "newcomer"}},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := svc.GetProfile(context.Background(), tc.user)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestGetProfile_Errors(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	repo := repository.NewMockDealDB(ctrl)
	svc := NewProfileService(repo)

	_, err := svc.GetProfile(context.Background(), "")
	require.ErrorIs(t, err, dealerrors.ErrInvalidArgument)

	dbErr := errors.New("timeout")
	repo.EXPECT().GetUser(gomock.Any(), "bob").Return(model.User{}, dbErr)
	_, err = svc.GetProfile(context.Background(), "bob")
	require.ErrorIs(t, err, dbErr)

	repo.EXPECT().GetUser(gomock.Any(), "carol").Return(model.User{UserID: "carol"}, nil)
	repo.EXPECT().PostStats(gomock.Any(), "carol").Return(repository.PostStats{}, dbErr)
	_, err = svc.GetProfile(context.Background(), "carol")
	require.ErrorIs(t, err, dbErr)
}
