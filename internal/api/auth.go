package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/neighborly-app/backend/internal/auth"
	"github.com/neighborly-app/backend/internal/models"
	"github.com/neighborly-app/backend/internal/repository"
	"github.com/neighborly-app/backend/internal/validation"
)

const tokenTTL = 24 * time.Hour

// AuthHandler is the identity facade; the only public endpoints. It issues
// the opaque userId and the token the rest of the surface trusts; everything
// downstream takes the verified identity as-is.
type AuthHandler struct {
	users     repository.UserRepository
	jwtSecret string
	logger    *zap.Logger
}

func NewAuthHandler(users repository.UserRepository, jwtSecret string, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users:     users,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Username string `json:"username"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register handles POST /v1/auth/register. The profile record is created
// here, on first successful verification; the userId it mints is the
// identity every other operation keys on.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "VALIDATION_ERROR"})
		return
	}

	email := validation.NormalizeEmail(req.Email)
	if !validation.ValidateEmail(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email address", "code": "VALIDATION_ERROR"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.logger.Error("failed to hash password", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed", "code": "STORE_UNAVAILABLE"})
		return
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
	}
	if username := validation.NormalizeUsername(req.Username); username != "" {
		if !validation.ValidateUsername(username) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid username", "code": "VALIDATION_ERROR"})
			return
		}
		user.Username = &username
	}

	if err := h.users.Create(c.Request.Context(), user); err != nil {
		respondError(c, h.logger, err)
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Email, h.jwtSecret, tokenTTL)
	if err != nil {
		h.logger.Error("failed to generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed", "code": "STORE_UNAVAILABLE"})
		return
	}

	c.JSON(http.StatusCreated, authResponse{Token: token, User: user})
}

// Login handles POST /v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "VALIDATION_ERROR"})
		return
	}

	user, err := h.users.GetByEmail(c.Request.Context(), validation.NormalizeEmail(req.Email))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	// One message for both unknown email and bad password; login must not
	// reveal which emails are registered.
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password", "code": "UNAUTHORIZED"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password", "code": "UNAUTHORIZED"})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Email, h.jwtSecret, tokenTTL)
	if err != nil {
		h.logger.Error("failed to generate token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed", "code": "STORE_UNAVAILABLE"})
		return
	}

	c.JSON(http.StatusOK, authResponse{Token: token, User: user})
}
