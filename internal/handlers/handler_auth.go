package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quickpay/quickpay_backend/internal/dto"
	"github.com/quickpay/quickpay_backend/internal/middleware"
	"github.com/quickpay/quickpay_backend/internal/platform/config"
	"github.com/quickpay/quickpay_backend/internal/utils"
)

// AuthHandler issues bearer tokens to configured API clients.
type AuthHandler struct {
	cfg *config.Config
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// registerAuthRoutes registers public authentication routes.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, limitMiddleware gin.HandlerFunc) {
	h := NewAuthHandler(cfg)

	auth := r.Group("/api/v1/auth")
	{
		auth.POST("/token", limitMiddleware, h.Token)
	}
}

// Token godoc
// @Summary Exchange client credentials for a bearer token
// @Description Authenticates an API client and returns a JWT token.
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body dto.TokenRequest true "Client Credentials"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/token [post]
func (h *AuthHandler) Token(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	idMatch := subtle.ConstantTimeCompare([]byte(req.ClientID), []byte(h.cfg.APIClientID))
	secretMatch := subtle.ConstantTimeCompare([]byte(req.ClientSecret), []byte(h.cfg.APIClientSecret))
	if idMatch != 1 || secretMatch != 1 {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid client credentials"})
		return
	}

	token, err := utils.GenerateJWT(req.ClientID, h.cfg.JWTSecret, h.cfg.JWTExpiryDuration, "quickpay-backend")
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to sign JWT token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(h.cfg.JWTExpiryDuration.Seconds()),
	})
}
