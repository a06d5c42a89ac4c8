package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/Arpan-gl/Rural-Job-recommender/internal/api/auth"
	"github.com/Arpan-gl/Rural-Job-recommender/internal/api/domain"
	"github.com/Arpan-gl/Rural-Job-recommender/internal/api/dto"
	"github.com/Arpan-gl/Rural-Job-recommender/internal/api/model"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const tokenCookieName = "token"

// cookieMaxAge matches the token TTL issued at sign-in
const cookieMaxAge = 24 * 60 * 60

// SignUp handles POST /api/user/signup
func (h *UserHandler) SignUp(c *gin.Context) {
	var req dto.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Email, password and name are required",
		})
		return
	}

	ctx := c.Request.Context()

	_, err := h.users.GetUserByEmail(ctx, req.Email)
	if err == nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"message": "User already exists",
		})
		return
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		h.logger.Error("Failed to look up user by email", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Internal server error",
		})
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("Failed to hash password", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Internal server error",
		})
		return
	}

	now := time.Now()
	user := model.User{
		ID:             uuid.New().String(),
		Email:          req.Email,
		Password:       hashed,
		Name:           req.Name,
		Skills:         pq.StringArray{},
		PreferredRoles: pq.StringArray{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := h.users.CreateUser(ctx, &user); err != nil {
		// Someone may have taken the email between the lookup and the insert
		if errors.Is(err, domain.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"message": "User already exists",
			})
			return
		}

		h.logger.Error("Failed to create user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Internal server error",
		})
		return
	}

	h.logger.Info("User signed up", slog.String("user_id", user.ID))

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User created successfully",
		"user":    dto.NewUserDTO(&user),
	})
}

// SignIn handles POST /api/user/signin.
// Unknown email and wrong password produce the identical response so the
// caller cannot tell which one occurred.
func (h *UserHandler) SignIn(c *gin.Context) {
	var req dto.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Email and password are required",
		})
		return
	}

	ctx := c.Request.Context()

	user, err := h.users.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, domain.ErrUserNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Invalid email or password",
		})
		return
	}
	if err != nil {
		h.logger.Error("Failed to look up user by email", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Internal server error",
		})
		return
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Invalid email or password",
		})
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Email)
	if err != nil {
		h.logger.Error("Failed to issue token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Internal server error",
		})
		return
	}

	c.SetCookie(tokenCookieName, token, cookieMaxAge, "/", "", h.secureCookie, true)

	h.logger.Info("User signed in", slog.String("user_id", user.ID))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Sign-in successful",
		"user":    dto.NewUserDTO(user),
		"token":   token,
	})
}

// SignOut handles GET /api/user/signout
func (h *UserHandler) SignOut(c *gin.Context) {
	c.SetCookie(tokenCookieName, "", -1, "/", "", h.secureCookie, true)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Logged out successfully",
	})
}

// GetUser handles GET /api/user/user_detail
func (h *UserHandler) GetUser(c *gin.Context) {
	current, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Unauthorized",
		})
		return
	}

	// The middleware resolved the user already; re-reading guards against
	// the row vanishing mid-request.
	user, err := h.users.GetUserByID(c.Request.Context(), current.ID)
	if errors.Is(err, domain.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "User not found",
		})
		return
	}
	if err != nil {
		h.logger.Error("Failed to get user", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dto.NewUserDTO(user),
	})
}

// GetSkills handles GET /api/user/skills
func (h *UserHandler) GetSkills(c *gin.Context) {
	current, ok := CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Unauthorized",
		})
		return
	}

	user, err := h.users.GetUserByID(c.Request.Context(), current.ID)
	if errors.Is(err, domain.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "User not found",
		})
		return
	}
	if err != nil {
		h.logger.Error("Failed to get user skills", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    dto.NewUserSkillsDTO(user),
	})
}
