package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"modelhub/internal/domain"
	"modelhub/internal/service"
)

const currentUserKey = "modelhub.currentUser"

type credentialsRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

func (h *Handler) signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	_, err := h.users.Signup(c.Request.Context(), req.Username, req.Password)
	switch {
	case err == nil:
		h.logger.WithField("username", strings.TrimSpace(req.Username)).Info("user signed up")
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	case errors.Is(err, service.ErrUsernameTaken):
		if h.strictSignup {
			c.JSON(http.StatusConflict, gin.H{"detail": "Username already registered"})
			return
		}
	default:
		h.internalError(c, "signup", err)
		return
	}

	c.JSON(http.StatusOK, nil)
}

func (h *Handler) token(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	if req.Username == "" || req.Password == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "username and password are required"})
		return
	}

	tok, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			unauthorized(c, "Incorrect username or password")
			return
		}
		h.internalError(c, "login", err)
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		AccessToken: tok.Value,
		TokenType:   tok.Type,
	})
}

// requireActiveUser resolves the bearer token to an active user and stores
// it in the request context.
func (h *Handler) requireActiveUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthorized(c, "Not authenticated")
			return
		}

		user, err := h.users.Authorize(c.Request.Context(), token)
		switch {
		case err == nil:
		case errors.Is(err, service.ErrInactiveUser):
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "Inactive user"})
			return
		case errors.Is(err, service.ErrInvalidToken):
			unauthorized(c, "Could not validate credentials")
			return
		default:
			h.internalError(c, "authorize", err)
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

func currentUser(c *gin.Context) *domain.User {
	user, _ := c.MustGet(currentUserKey).(*domain.User)
	return user
}

func unauthorized(c *gin.Context, detail string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail})
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
