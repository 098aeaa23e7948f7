package handler

import (
	"context"
	"net/http"

	lifecycle "deal-rater/internal/lifecycleService"
	model "deal-rater/internal/models"
	profile "deal-rater/internal/profileService"
	"deal-rater/services/deals/helpers"
	"deal-rater/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -source=deals_handler.go -destination=mock_deals_handler.go -package=handler

type LifecycleServiceInterface interface {
	CreatePost(ctx context.Context, authorID string, req lifecycle.NewPost) (model.Post, error)
	GetVisiblePost(ctx context.Context, viewerID, postID string) (model.Post, error)
}

type RatingServiceInterface interface {
	SubmitRating(ctx context.Context, raterID, postID string, score int) (model.Rating, error)
	ListRatablePosts(ctx context.Context, userID string, page int) (model.Page, error)
	ListPosts(ctx context.Context, ownerID, search string, page int) (model.Page, error)
	ListRatings(ctx context.Context, viewerID, postID string) ([]model.Rating, error)
}

type ProfileServiceInterface interface {
	GetProfile(ctx context.Context, userID string) (profile.Profile, error)
}

type DealsHandler struct {
	lifecycle LifecycleServiceInterface
	ratings   RatingServiceInterface
	profiles  ProfileServiceInterface
}

func NewDealsHandler(lc LifecycleServiceInterface, ratings RatingServiceInterface, profiles ProfileServiceInterface) *DealsHandler {
	return &DealsHandler{lifecycle: lc, ratings: ratings, profiles: profiles}
}

// CreatePostHandler handles POST /posts
func (h *DealsHandler) CreatePostHandler(c *gin.Context) {
	userID, err := helpers.CallerID(c)
	if err != nil {
		helpers.RespondError(c, "CreatePostHandler", err, nil)
		return
	}

	var req helpers.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreatePostHandler", err)
		return
	}

	post, err := h.lifecycle.CreatePost(c.Request.Context(), userID, lifecycle.NewPost{
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		CurrencyCode: req.CurrencyCode,
		ListingURL:   req.ListingURL,
		ImageURL:     req.ImageURL,
		Category:     req.Category,
	})
	if err != nil {
		helpers.RespondError(c, "CreatePostHandler", err, map[string]any{"user_id": userID})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewPostResponse(post), "post created successfully")
	helpers.LogSuccess("CreatePostHandler", "post created successfully", map[string]any{
		"post_id": post.PostID,
		"user_id": userID,
		"status":  post.Status,
	})
}

// ListPostsHandler handles GET /posts
func (h *DealsHandler) ListPostsHandler(c *gin.Context) {
	userID, err := helpers.CallerID(c)
	if err != nil {
		helpers.RespondError(c, "ListPostsHandler", err, nil)
		return
	}
	page, err := helpers.PageParam(c)
	if err != nil {
		helpers.RespondError(c, "ListPostsHandler", err, map[string]any{"user_id": userID})
		return
	}

	search := c.Query("search")
	result, err := h.ratings.ListPosts(c.Request.Context(), userID, search, page)
	if err != nil {
		helpers.RespondError(c, "ListPostsHandler", err, map[string]any{"user_id": userID, "page": page})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewPageResponse(result), "posts retrieved successfully")
	helpers.LogSuccess("ListPostsHandler", "posts retrieved successfully", map[string]any{
		"user_id": userID,
		"page":    page,
		"count":   len(result.Posts),
	})
}

// GetPostHandler handles GET /posts/:post_id
func (h *DealsHandler) GetPostHandler(c *gin.Context) {
	userID, err := helpers.CallerID(c)
	if err != nil {
		helpers.RespondError(c, "GetPostHandler", err, nil)
		return
	}

	postID := c.Param("post_id")
	post, err := h.lifecycle.GetVisiblePost(c.Request.Context(), userID, postID)
	if err != nil {
		helpers.RespondError(c, "GetPostHandler", err, map[string]any{"post_id": postID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewPostResponse(post), "post retrieved successfully")
}

// ListPostRatingsHandler handles GET /posts/:post_id/ratings
func (h *DealsHandler) ListPostRatingsHandler(c *gin.Context) {
	userID, err := helpers.CallerID(c)
	if err != nil {
		helpers.RespondError(c, "ListPostRatingsHandler", err, nil)
		return
	}

	postID := c.Param("post_id")
	ratings, err := h.ratings.ListRatings(c.Request.Context(), userID, postID)
	if err != nil {
		helpers.RespondError(c, "ListPostRatingsHandler", err, map[string]any{"post_id": postID, "user_id": userID})
		return
	}

	resp := make([]helpers.RatingResponse, 0, len(ratings))
	for _, r := range ratings {
		resp = append(resp, helpers.NewRatingResponse(r))
	}
	utils.JSONResponse(c, http.StatusOK, resp, "ratings retrieved successfully")
}

// ListPostsToRateHandler handles GET /posts-to-rate
func (h *DealsHandler) ListPostsToRateHandler(c *gin.Context) {
	userID, err := helpers.CallerID(c)
	if err != nil {
		helpers.RespondError(c, "ListPostsToRateHandler", err, nil)
		return
	}
	page, err := helpers.PageParam(c)
	if err != nil {
		helpers.RespondError(c, "ListPostsToRateHandler", err, map[string]any{"user_id": userID})
		return
	}

	result, err := h.ratings.ListRatablePosts(c.Request.Context(), userID, page)
	if err != nil {
		helpers.RespondError(c, "ListPostsToRateHandler", err, map[string]any{"user_id": userID, "page": page})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewPageResponse(result), "posts to rate retrieved successfully")
}

// SubmitRatingHandler handles POST /ratings
func (h *DealsHandler) SubmitRatingHandler(c *gin.Context) {
	userID, err := helpers.CallerID(c)
	if err != nil {
		helpers.RespondError(c, "SubmitRatingHandler", err, nil)
		return
	}

	var req helpers.SubmitRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SubmitRatingHandler", err)
		return
	}

	rating, err := h.ratings.SubmitRating(c.Request.Context(), userID, req.PostID, *req.Rating)
	if err != nil {
		helpers.RespondError(c, "SubmitRatingHandler", err, map[string]any{
			"post_id": req.PostID,
			"user_id": userID,
			"rating":  *req.Rating,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewRatingResponse(rating), "rating recorded successfully")
	helpers.LogSuccess("SubmitRatingHandler", "rating recorded successfully", map[string]any{
		"post_id": rating.PostID,
		"user_id": userID,
		"rating":  rating.Score,
	})
}

// GetProfileHandler handles GET /user
func (h *DealsHandler) GetProfileHandler(c *gin.Context) {
	userID, err := helpers.CallerID(c)
	if err != nil {
		helpers.RespondError(c, "GetProfileHandler", err, nil)
		return
	}

	p, err := h.profiles.GetProfile(c.Request.Context(), userID)
	if err != nil {
		helpers.RespondError(c, "GetProfileHandler", err, map[string]any{"user_id": userID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewProfileResponse(p), "profile retrieved successfully")
}
