package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"deal-rater/internal/dealerrors"
	model "deal-rater/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// GormConfig selects and tunes the SQL backend
type GormConfig struct {
	Driver       string // postgres, mysql or sqlite
	DSN          string
	MaxOpenConns int
	LogLevel     gormlogger.LogLevel
}

// GormRepo is a DealDB backed by a SQL database through gorm
type GormRepo struct {
	db *gorm.DB
}

// OpenGorm connects to the configured database
func OpenGorm(cfg GormConfig) (*GormRepo, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("open database %q: %w", cfg.Driver, dealerrors.ErrUnknownDriver)
	}

	logLevel := cfg.LogLevel
	if logLevel == 0 {
		logLevel = gormlogger.Warn
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  gormlogger.Default.LogMode(logLevel),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	// sqlite has no row locks; one connection serializes units of work
	if cfg.Driver == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	return &GormRepo{db: db}, nil
}

// Migrate creates or updates the posts, ratings and users tables
func (r *GormRepo) Migrate() error {
	if err := r.db.AutoMigrate(&postRow{}, &ratingRow{}, &userRow{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// Ping checks that the database answers
func (r *GormRepo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool
func (r *GormRepo) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WithinTx runs fn inside a database transaction
func (r *GormRepo) WithinTx(ctx context.Context, fn func(tx DealTx) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx})
	})
}

// GetPost returns a post by ID
func (r *GormRepo) GetPost(ctx context.Context, postID string) (model.Post, error) {
	var row postRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Post{}, fmt.Errorf("get post %s: %w", postID, dealerrors.ErrPostNotFound)
		}
		return model.Post{}, fmt.Errorf("get post %s: %w", postID, err)
	}
	return row.toModel(), nil
}

// GetUser returns a user by ID
func (r *GormRepo) GetUser(ctx context.Context, userID string) (model.User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.User{}, fmt.Errorf("get user %s: %w", userID, dealerrors.ErrUserNotFound)
		}
		return model.User{}, fmt.Errorf("get user %s: %w", userID, err)
	}
	return row.toModel(), nil
}

// ListPostsByOwner returns a page of an owner's posts, newest first
func (r *GormRepo) ListPostsByOwner(ctx context.Context, ownerID, search string, offset, limit int) ([]model.Post, error) {
	if err := checkOffset(offset); err != nil {
		return nil, fmt.Errorf("list posts for owner %s: %w", ownerID, err)
	}

	q := r.db.WithContext(ctx).Where("user_id = ?", ownerID)
	if search != "" {
		// match against the folded copies so every dialect compares the same text as the memory store
		pattern := "%" + escapeLike(foldCase(search)) + "%"
		q = q.Where("(title_key LIKE ? ESCAPE '!' OR description_key LIKE ? ESCAPE '!')", pattern, pattern)
	}

	var rows []postRow
	err := q.Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list posts for owner %s: %w", ownerID, err)
	}
	return toPosts(rows), nil
}

// ListRatablePosts returns a page of live posts userID may still rate, oldest first
func (r *GormRepo) ListRatablePosts(ctx context.Context, userID string, offset, limit int) ([]model.Post, error) {
	if err := checkOffset(offset); err != nil {
		return nil, fmt.Errorf("list ratable posts for user %s: %w", userID, err)
	}

	var rows []postRow
	err := r.db.WithContext(ctx).
		Where("status = ? AND user_id <> ?", string(model.StatusLive), userID).
		Where("NOT EXISTS (SELECT 1 FROM ratings WHERE ratings.post_id = posts.id AND ratings.user_id = ?)", userID).
		Order("created_at ASC").Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list ratable posts for user %s: %w", userID, err)
	}
	return toPosts(rows), nil
}

// ListRatingsByPost returns every rating of a post, oldest first
func (r *GormRepo) ListRatingsByPost(ctx context.Context, postID string) ([]model.Rating, error) {
	var rows []ratingRow
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").Order("user_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list ratings for post %s: %w", postID, err)
	}

	ratings := make([]model.Rating, 0, len(rows))
	for _, row := range rows {
		ratings = append(ratings, row.toModel())
	}
	return ratings, nil
}

// PostStats aggregates the owner's posts in one query
func (r *GormRepo) PostStats(ctx context.Context, ownerID string) (PostStats, error) {
	var out struct {
		TotalPosts       int
		RatedPosts       int
		AverageRatingSum float64
	}
	err := r.db.WithContext(ctx).Model(&postRow{}).
		Select(`COUNT(*) AS total_posts,
			COALESCE(SUM(CASE WHEN rating_count > 0 THEN 1 ELSE 0 END), 0) AS rated_posts,
			COALESCE(SUM(CASE WHEN rating_count > 0 THEN average_rating ELSE 0 END), 0) AS average_rating_sum`).
		Where("user_id = ?", ownerID).
		Scan(&out).Error
	if err != nil {
		return PostStats{}, fmt.Errorf("post stats for owner %s: %w", ownerID, err)
	}
	return PostStats{
		TotalPosts:       out.TotalPosts,
		RatedPosts:       out.RatedPosts,
		AverageRatingSum: out.AverageRatingSum,
	}, nil
}

type gormTx struct {
	db *gorm.DB
}

// forUpdate adds a row lock on dialects that have one
func (tx *gormTx) forUpdate() *gorm.DB {
	if tx.db.Dialector.Name() == "sqlite" {
		return tx.db
	}
	return tx.db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (tx *gormTx) GetPost(postID string) (model.Post, error) {
	var row postRow
	if err := tx.forUpdate().First(&row, "id = ?", postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Post{}, fmt.Errorf("get post %s: %w", postID, dealerrors.ErrPostNotFound)
		}
		return model.Post{}, fmt.Errorf("get post %s: %w", postID, err)
	}
	return row.toModel(), nil
}

func (tx *gormTx) UpsertPost(post model.Post) error {
	if post.PostID == "" {
		return fmt.Errorf("upsert post: %w - empty post ID", dealerrors.ErrInvalidArgument)
	}
	row := newPostRow(post)
	if err := tx.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
		return fmt.Errorf("upsert post %s: %w", post.PostID, err)
	}
	return nil
}

func (tx *gormTx) InsertRatingIfAbsent(rating model.Rating) error {
	if rating.PostID == "" || rating.UserID == "" {
		return fmt.Errorf("insert rating: %w - missing post or user ID", dealerrors.ErrInvalidArgument)
	}
	row := newRatingRow(rating)
	res := tx.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return fmt.Errorf("insert rating for post %s by user %s: %w", rating.PostID, rating.UserID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("insert rating for post %s by user %s: %w", rating.PostID, rating.UserID, dealerrors.ErrRatingExists)
	}
	return nil
}

// GetUser makes sure the user row exists before locking it, so two units of work
// for a brand new user still serialize on the same row.
func (tx *gormTx) GetUser(userID string) (model.User, error) {
	now := time.Now().UTC()
	seed := userRow{ID: userID, CreatedAt: now, UpdatedAt: now}
	if err := tx.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return model.User{}, fmt.Errorf("ensure user %s: %w", userID, err)
	}

	var row userRow
	if err := tx.forUpdate().First(&row, "id = ?", userID).Error; err != nil {
		return model.User{}, fmt.Errorf("get user %s: %w", userID, err)
	}
	return row.toModel(), nil
}

func (tx *gormTx) UpdateUserQuota(user model.User) error {
	if user.UserID == "" {
		return fmt.Errorf("update user quota: %w - empty user ID", dealerrors.ErrInvalidArgument)
	}
	row := newUserRow(user)
	err := tx.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"pending_post_id", "ratings_needed_to_publish", "total_ratings_given", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("update quota for user %s: %w", user.UserID, err)
	}
	return nil
}

// escapeLike escapes LIKE wildcards using '!' as the escape character
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
