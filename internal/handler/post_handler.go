package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"feedpulse/backend/internal/service"
)

type PostHandler struct {
	posts    service.PostService
	readLogs service.ReadLogService
}

type readLogRequest struct {
	PostURL string `json:"postUrl"`
}

type readLogResponse struct {
	ID      string `json:"id"`
	PostURL string `json:"postUrl"`
	ReadAt  string `json:"readAt"`
}

func NewPostHandler(posts service.PostService, readLogs service.ReadLogService) *PostHandler {
	return &PostHandler{posts: posts, readLogs: readLogs}
}

func (h *PostHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/posts", h.List)
	g.GET("/posts/since", h.Since)
	g.POST("/read-logs", h.LogRead)
}

// List returns one page of the owner's posts. Pages start at 1.
// @Summary List posts
// @Description Get the owner's posts, newest published first, 20 per page
// @Tags posts
// @Produce json
// @Param X-Owner-ID header int true "Owner ID"
// @Param page query int false "Page number (1-based)"
// @Success 200 {object} service.PostPage
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Router /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	owner, ok := ownerID(c)
	if !ok {
		return missingOwner(c)
	}
	page := 1
	if raw := strings.TrimSpace(c.QueryParam("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid page"})
		}
		page = n
	}
	result, err := h.posts.ListPage(c.Request().Context(), owner, page)
	if err != nil {
		return writeServiceError(c, err)
	}
	if result.Posts == nil {
		result.Posts = []service.PostItem{}
	}
	return c.JSON(http.StatusOK, result)
}

// Since returns the owner's posts stored after ts (RFC 3339).
// @Summary List posts since
// @Description Get the owner's posts stored after a cutoff
// @Tags posts
// @Produce json
// @Param X-Owner-ID header int true "Owner ID"
// @Param ts query string true "Cutoff (RFC 3339)"
// @Success 200 {array} service.PostItem
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Router /posts/since [get]
func (h *PostHandler) Since(c echo.Context) error {
	owner, ok := ownerID(c)
	if !ok {
		return missingOwner(c)
	}
	ts, err := time.Parse(time.RFC3339, strings.TrimSpace(c.QueryParam("ts")))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid ts"})
	}
	items, err := h.posts.Since(c.Request().Context(), owner, ts)
	if err != nil {
		return writeServiceError(c, err)
	}
	if items == nil {
		items = []service.PostItem{}
	}
	return c.JSON(http.StatusOK, items)
}

// LogRead records that the owner opened a post.
// @Summary Log a read
// @Description Record that the owner opened a post
// @Tags read-logs
// @Accept json
// @Produce json
// @Param X-Owner-ID header int true "Owner ID"
// @Param readLog body readLogRequest true "Read log request"
// @Success 201 {object} readLogResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Router /read-logs [post]
func (h *PostHandler) LogRead(c echo.Context) error {
	owner, ok := ownerID(c)
	if !ok {
		return missingOwner(c)
	}
	var req readLogRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	entry, err := h.readLogs.Log(c.Request().Context(), owner, req.PostURL)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, readLogResponse{
		ID:      strconv.FormatInt(entry.ID, 10),
		PostURL: entry.PostURL,
		ReadAt:  entry.ReadAt.UTC().Format(time.RFC3339),
	})
}
