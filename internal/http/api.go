package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"modelhub/internal/domain"
	"modelhub/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users        service.UserService
	catalog      service.CatalogService
	logger       *logrus.Logger
	strictSignup bool
}

// Options tunes Handler behaviour.
type Options struct {
	// StrictSignup answers a duplicate signup with 409 instead of the
	// legacy silent 200.
	StrictSignup bool
	Logger       *logrus.Logger
}

func NewHandler(users service.UserService, catalog service.CatalogService, opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		users:        users,
		catalog:      catalog,
		logger:       logger,
		strictSignup: opts.StrictSignup,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestLogger(h.logger), corsMiddleware())

	router.POST("/signup", h.signup)
	router.POST("/token", h.token)

	users := router.Group("/users", h.requireActiveUser())
	{
		users.GET("/models/", h.listItems(domain.ItemKindModels))
		users.POST("/models/", h.uploadItem(domain.ItemKindModels))
		users.GET("/datasets/", h.listItems(domain.ItemKindDatasets))
		users.POST("/datasets/", h.uploadItem(domain.ItemKindDatasets))
	}

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "WWW-Authenticate, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) listItems(kind domain.ItemKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		items, err := h.catalog.List(c.Request.Context(), user.Username, kind)
		if err != nil {
			h.internalError(c, "list "+string(kind), err)
			return
		}

		resp := make([]ItemResponse, len(items))
		for i := range items {
			resp[i] = itemToResponse(items[i])
		}
		c.JSON(http.StatusOK, resp)
	}
}

func (h *Handler) uploadItem(kind domain.ItemKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		header, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "multipart field \"file\" is required"})
			return
		}
		file, err := header.Open()
		if err != nil {
			h.internalError(c, "open upload", err)
			return
		}
		defer file.Close()

		item, err := h.catalog.Add(c.Request.Context(), user.Username, kind, header.Filename, file, header.Size)
		if err != nil {
			if errors.Is(err, service.ErrInvalidItemName) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
				return
			}
			h.internalError(c, "store "+string(kind), err)
			return
		}

		c.JSON(http.StatusCreated, itemToResponse(*item))
	}
}

func (h *Handler) internalError(c *gin.Context, op string, err error) {
	h.logger.WithError(err).WithField("request_id", c.GetString(requestIDKey)).Errorf("%s failed", op)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type ItemResponse struct {
	ItemID    string  `json:"item_id"`
	Owner     string  `json:"owner"`
	Size      int64   `json:"size"`
	UpdatedAt *string `json:"updated_at,omitempty"`
}

func itemToResponse(item domain.Item) ItemResponse {
	resp := ItemResponse{
		ItemID: item.ID,
		Owner:  item.Owner,
		Size:   item.Size,
	}
	if item.UpdatedAt != nil && !item.UpdatedAt.IsZero() {
		v := item.UpdatedAt.Format(time.RFC3339)
		resp.UpdatedAt = &v
	}
	return resp
}
