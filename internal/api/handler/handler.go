package handler

import (
	"context"
	"log/slog"

	"github.com/Arpan-gl/Rural-Job-recommender/internal/api/auth"
	"github.com/Arpan-gl/Rural-Job-recommender/internal/api/model"
	"github.com/Arpan-gl/Rural-Job-recommender/internal/api/storage"
	"github.com/Arpan-gl/Rural-Job-recommender/shared/aiservice"
	"github.com/gin-gonic/gin"
)

// ContextUserKey is where the auth middleware stores the resolved user.
const ContextUserKey = "auth_user"

// UserStore is the user persistence surface the handlers need.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	UpdateUserProfile(ctx context.Context, userID string, skills, preferredRoles []string) error
}

// MatchStore is the job/match persistence surface the recommender needs.
type MatchStore interface {
	UpsertJob(ctx context.Context, job *model.Job) (*model.Job, error)
	UpsertMatch(ctx context.Context, match *model.Match) error
	ListMatchesForUser(ctx context.Context, userID string, limit int) ([]model.MatchedJob, error)
}

// Analyzer is the external AI recommendation service.
type Analyzer interface {
	Recommend(ctx context.Context, query string) (*aiservice.Recommendation, error)
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger       *slog.Logger
	Storage      *storage.Storage
	AI           *aiservice.Client
	Tokens       *auth.TokenManager
	SecureCookie bool
}

// UserHandler handles sign-up/sign-in and profile reads
type UserHandler struct {
	logger       *slog.Logger
	users        UserStore
	tokens       *auth.TokenManager
	secureCookie bool
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(deps *Dependencies) *UserHandler {
	return &UserHandler{
		logger:       deps.Logger,
		users:        deps.Storage,
		tokens:       deps.Tokens,
		secureCookie: deps.SecureCookie,
	}
}

// RecommenderHandler handles query analysis and match retrieval
type RecommenderHandler struct {
	logger  *slog.Logger
	users   UserStore
	matches MatchStore
	ai      Analyzer
}

// NewRecommenderHandler creates a new RecommenderHandler instance
func NewRecommenderHandler(deps *Dependencies) *RecommenderHandler {
	return &RecommenderHandler{
		logger:  deps.Logger,
		users:   deps.Storage,
		matches: deps.Storage,
		ai:      deps.AI,
	}
}

// CurrentUser returns the user the auth middleware resolved for this request.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}

	user, ok := v.(*model.User)
	return user, ok
}
