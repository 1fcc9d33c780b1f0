package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/certtrack/exam-center/internal/config"
	"github.com/certtrack/exam-center/internal/httperr"
	"github.com/certtrack/exam-center/internal/middleware"
	"github.com/certtrack/exam-center/internal/models"
	"github.com/certtrack/exam-center/internal/session"
)

const tokenTTL = time.Hour

type AuthHandler struct {
	db      *gorm.DB
	config  *config.Config
	revoked *session.RevocationStore
	log     *zap.Logger
}

func NewAuthHandler(
	db *gorm.DB,
	cfg *config.Config,
	revoked *session.RevocationStore,
	log *zap.Logger,
) *AuthHandler {
	return &AuthHandler{db: db, config: cfg, revoked: revoked, log: log}
}

// --------- Requests ---------

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Username and password are required.")
		return
	}

	var user models.User
	if err := h.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			httperr.NotFound(c, "user_not_found", "User not found")
			return
		}
		h.log.Error("login lookup failed", zap.Error(err))
		httperr.Internal(c, "internal_error", "An unexpected error occurred.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid credentials")
		return
	}

	token, err := generateToken(h.config, &user)
	if err != nil {
		h.log.Error("token generation failed", zap.Error(err))
		httperr.Internal(c, "internal_error", "An unexpected error occurred.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"name":     user.Name,
			"role":     user.Role,
		},
		"token": token,
	})
}

// Logout denylists the presented token's jti until the token's own
// expiry; the bearer credential is otherwise stateless.
func (h *AuthHandler) Logout(c *gin.Context) {
	jti := c.GetString(middleware.ContextTokenID)
	exp, _ := c.Get(middleware.ContextTokenExp)

	ttl := tokenTTL
	if expUnix, ok := exp.(int64); ok {
		ttl = time.Until(time.Unix(expUnix, 0))
	}

	if err := h.revoked.Revoke(c.Request.Context(), jti, ttl); err != nil {
		h.log.Error("token revocation failed", zap.Error(err))
		httperr.Internal(c, "logout_failed", "Error logging out")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// --------- JWT ---------

func generateToken(cfg *config.Config, user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"jti":  uuid.NewString(),
		"exp":  time.Now().Add(tokenTTL).Unix(),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}
