package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"feedpulse/backend/internal/model"
	"feedpulse/backend/internal/service"
)

type SubscriptionHandler struct {
	service service.SubscriptionService
}

type subscriptionRequest struct {
	URL string `json:"url"`
}

type subscriptionResponse struct {
	ID          string  `json:"id"`
	URL         string  `json:"url"`
	FeedBaseURL *string `json:"feedBaseUrl,omitempty"`
	FaviconURL  *string `json:"faviconUrl,omitempty"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

type deleteSubscriptionResponse struct {
	PostsRemoved int64 `json:"postsRemoved"`
}

func NewSubscriptionHandler(service service.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{service: service}
}

func (h *SubscriptionHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/subscriptions", h.Create)
	g.GET("/subscriptions", h.List)
	g.DELETE("/subscriptions/:id", h.Delete)
}

// Create subscribes the owner to a site or feed URL.
// @Summary Create a subscription
// @Description Validate the URL, reject duplicates and discover the site favicon
// @Tags subscriptions
// @Accept json
// @Produce json
// @Param X-Owner-ID header int true "Owner ID"
// @Param subscription body subscriptionRequest true "Subscription creation request"
// @Success 201 {object} subscriptionResponse
// @Failure 400 {object} errorResponse
// @Failure 401 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Router /subscriptions [post]
func (h *SubscriptionHandler) Create(c echo.Context) error {
	owner, ok := ownerID(c)
	if !ok {
		return missingOwner(c)
	}
	var req subscriptionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	sub, err := h.service.Add(c.Request().Context(), owner, req.URL)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, toSubscriptionResponse(sub))
}

// List returns the owner's subscriptions.
// @Summary List subscriptions
// @Description Get the owner's subscriptions, oldest first
// @Tags subscriptions
// @Produce json
// @Param X-Owner-ID header int true "Owner ID"
// @Success 200 {array} subscriptionResponse
// @Failure 401 {object} errorResponse
// @Router /subscriptions [get]
func (h *SubscriptionHandler) List(c echo.Context) error {
	owner, ok := ownerID(c)
	if !ok {
		return missingOwner(c)
	}
	subs, err := h.service.List(c.Request().Context(), owner)
	if err != nil {
		return writeServiceError(c, err)
	}
	response := make([]subscriptionResponse, 0, len(subs))
	for _, sub := range subs {
		response = append(response, toSubscriptionResponse(sub))
	}
	return c.JSON(http.StatusOK, response)
}

// Delete removes one of the owner's subscriptions.
// @Summary Delete a subscription
// @Description Delete a subscription and the posts no other subscription shares
// @Tags subscriptions
// @Produce json
// @Param X-Owner-ID header int true "Owner ID"
// @Param id path int true "Subscription ID"
// @Success 200 {object} deleteSubscriptionResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Router /subscriptions/{id} [delete]
func (h *SubscriptionHandler) Delete(c echo.Context) error {
	owner, ok := ownerID(c)
	if !ok {
		return missingOwner(c)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	}
	removed, err := h.service.Delete(c.Request().Context(), owner, id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, deleteSubscriptionResponse{PostsRemoved: removed})
}

func toSubscriptionResponse(sub model.Subscription) subscriptionResponse {
	return subscriptionResponse{
		ID:          strconv.FormatInt(sub.ID, 10),
		URL:         sub.URL,
		FeedBaseURL: sub.FeedBaseURL,
		FaviconURL:  sub.FaviconURL,
		CreatedAt:   sub.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   sub.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
