package repository

import (
	"time"

	model "deal-rater/internal/models"
)

// postRow is the posts table. The live-feed index mirrors ListRatablePosts' filter and order.
type postRow struct {
	ID          string `gorm:"primaryKey;size:36"`
	UserID      string `gorm:"size:64;not null;index"`
	Title       string `gorm:"size:100;not null"`
	Description string `gorm:"size:1000;not null"`
	// TitleKey and DescriptionKey hold the case-folded text owner search matches against
	TitleKey       string    `gorm:"size:400"`
	DescriptionKey string    `gorm:"type:text"`
	Price          int64     `gorm:"not null"`
	CurrencyCode   string    `gorm:"size:3;not null"`
	ListingURL     string    `gorm:"size:2048"`
	ImageURL       string    `gorm:"size:2048"`
	Category       string    `gorm:"size:64;not null"`
	Status         string    `gorm:"size:16;not null;index:idx_posts_status_created,priority:1"`
	AverageRating  float64   `gorm:"not null"`
	RatingCount    int       `gorm:"not null"`
	Ones           int       `gorm:"not null"`
	Twos           int       `gorm:"not null"`
	Threes         int       `gorm:"not null"`
	Fours          int       `gorm:"not null"`
	Fives          int       `gorm:"not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime:false;index:idx_posts_status_created,priority:2"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime:false"`
}

func (postRow) TableName() string { return "posts" }

func newPostRow(p model.Post) postRow {
	return postRow{
		ID:             p.PostID,
		UserID:         p.UserID,
		Title:          p.Title,
		Description:    p.Description,
		TitleKey:       foldCase(p.Title),
		DescriptionKey: foldCase(p.Description),
		Price:          p.Price,
		CurrencyCode:   p.CurrencyCode,
		ListingURL:     p.ListingURL,
		ImageURL:       p.ImageURL,
		Category:       p.Category,
		Status:         string(p.Status),
		AverageRating:  p.AverageRating,
		RatingCount:    p.RatingCount,
		Ones:           p.RatingBreakdown[1],
		Twos:           p.RatingBreakdown[2],
		Threes:         p.RatingBreakdown[3],
		Fours:          p.RatingBreakdown[4],
		Fives:          p.RatingBreakdown[5],
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func (r postRow) toModel() model.Post {
	return model.Post{
		PostID:          r.ID,
		UserID:          r.UserID,
		Title:           r.Title,
		Description:     r.Description,
		Price:           r.Price,
		CurrencyCode:    r.CurrencyCode,
		ListingURL:      r.ListingURL,
		ImageURL:        r.ImageURL,
		Category:        r.Category,
		Status:          model.PostStatus(r.Status),
		AverageRating:   r.AverageRating,
		RatingCount:     r.RatingCount,
		RatingBreakdown: model.RatingBreakdown{0, r.Ones, r.Twos, r.Threes, r.Fours, r.Fives},
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func toPosts(rows []postRow) []model.Post {
	posts := make([]model.Post, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, row.toModel())
	}
	return posts
}

// ratingRow is the ratings table; the composite primary key enforces one rating per user and post
type ratingRow struct {
	PostID    string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"primaryKey;size:64;index"`
	Score     int       `gorm:"not null;check:chk_ratings_score,score >= 1 AND score <= 5"`
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
}

func (ratingRow) TableName() string { return "ratings" }

func newRatingRow(r model.Rating) ratingRow {
	return ratingRow{
		PostID:    r.PostID,
		UserID:    r.UserID,
		Score:     r.Score,
		CreatedAt: r.CreatedAt,
	}
}

func (r ratingRow) toModel() model.Rating {
	return model.Rating{
		PostID:    r.PostID,
		UserID:    r.UserID,
		Score:     r.Score,
		CreatedAt: r.CreatedAt,
	}
}

// userRow holds only the quota state; identity lives upstream
type userRow struct {
	ID                     string    `gorm:"primaryKey;size:64"`
	PendingPostID          *string   `gorm:"size:36"`
	RatingsNeededToPublish int       `gorm:"not null"`
	TotalRatingsGiven      int       `gorm:"not null"`
	CreatedAt              time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt              time.Time `gorm:"autoUpdateTime:false"`
}

func (userRow) TableName() string { return "users" }

func newUserRow(u model.User) userRow {
	row := userRow{
		ID:                     u.UserID,
		RatingsNeededToPublish: u.RatingsNeededToPublish,
		TotalRatingsGiven:      u.TotalRatingsGiven,
		CreatedAt:              u.CreatedAt,
		UpdatedAt:              u.UpdatedAt,
	}
	if u.PendingPostID != "" {
		pending := u.PendingPostID
		row.PendingPostID = &pending
	}
	return row
}

func (r userRow) toModel() model.User {
	u := model.User{
		UserID:                 r.ID,
		RatingsNeededToPublish: r.RatingsNeededToPublish,
		TotalRatingsGiven:      r.TotalRatingsGiven,
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
	}
	if r.PendingPostID != nil {
		u.PendingPostID = *r.PendingPostID
	}
	return u
}
