package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"deal-rater/internal/auth"
	lifecycle "deal-rater/internal/lifecycleService"
	model "deal-rater/internal/models"
	profile "deal-rater/internal/profileService"
	rating "deal-rater/internal/ratingService"
	"deal-rater/internal/repository"
	"deal-rater/internal/server"

	"github.com/gin-gonic/gin"
)

const testSecret = "integration-secret"

// TestEnv is a full router on the in-memory store plus a token issuer for callers
type TestEnv struct {
	Router *gin.Engine
	Repo   *repository.MemoryRepo
	issuer *auth.Issuer
}

// SetupTestRouter initializes the router with in-memory repository for integration testing.
func SetupTestRouter(t *testing.T, policy lifecycle.FixedPolicy, opts rating.Options) *TestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	issuer, err := auth.NewIssuer(testSecret, "deal-rater", time.Hour)
	if err != nil {
		t.Fatalf("failed to create issuer: %v", err)
	}

	repo := repository.NewMemoryRepo()
	lc := lifecycle.NewLifecycleService(repo, policy)
	router := server.SetupRouter(server.Services{
		Lifecycle: lc,
		Ratings:   rating.NewRatingService(repo, lc, opts),
		Profiles:  profile.NewProfileService(repo),
	}, issuer, server.Options{})

	return &TestEnv{Router: router, Repo: repo, issuer: issuer}
}

// SetupTestRouterWithPosts initializes the router and seeds the repo with posts.
func SetupTestRouterWithPosts(t *testing.T, posts ...model.Post) *TestEnv {
	t.Helper()
	env := SetupTestRouter(t, lifecycle.DefaultPolicy, rating.Options{})
	for _, p := range posts {
		env.Repo.AddPost(p)
	}
	return env
}

// Token returns a bearer token for userID
func (e *TestEnv) Token(t *testing.T, userID string) string {
	t.Helper()
	token, err := e.issuer.IssueToken(userID)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}

// ExecuteRequestAndParse executes an HTTP request as userID and parses the response.
// An empty userID sends no Authorization header.
func (e *TestEnv) ExecuteRequestAndParse(t *testing.T, userID, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+e.Token(t, userID))
	}
	e.Router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		if err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}

		if w.Code == 201 {
			resp = resp["data"].(map[string]any)
		}
	}

	return resp, w
}

func livePost(id, owner string, createdAt time.Time) model.Post {
	return model.Post{
		PostID:       id,
		UserID:       owner,
		Title:        id + " listing",
		Description:  id + " description for the integration test",
		Price:        10_000,
		CurrencyCode: "USD",
		Category:     "used_cars",
		Status:       model.StatusLive,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}
