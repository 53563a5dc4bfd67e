package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"feedpulse/backend/internal/service"
)

// IngestTrigger starts synchronous ingestion and repair passes, one at a time.
// *scheduler.Scheduler satisfies it.
type IngestTrigger interface {
	TriggerNow(ctx context.Context, ownerID *int64) (service.RunReport, error)
	TriggerRepair(ctx context.Context) (service.RepairReport, error)
}

type IngestHandler struct {
	trigger IngestTrigger
}

type feedResultResponse struct {
	SubscriptionID string   `json:"subscriptionId"`
	SeedURL        string   `json:"seedUrl"`
	FeedBaseURL    string   `json:"feedBaseUrl,omitempty"`
	FeedURL        string   `json:"feedUrl,omitempty"`
	Status         string   `json:"status"`
	NewPosts       int      `json:"newPosts"`
	SkippedEntries int      `json:"skippedEntries"`
	PreviewTitles  []string `json:"previewTitles,omitempty"`
	Error          string   `json:"error,omitempty"`
}

type ingestResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message"`
	RunID   string               `json:"runId,omitempty"`
	Feeds   []feedResultResponse `json:"feeds"`
}

type repairResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Report  *service.RepairReport `json:"report,omitempty"`
}

func NewIngestHandler(trigger IngestTrigger) *IngestHandler {
	return &IngestHandler{trigger: trigger}
}

func (h *IngestHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/ingest", h.Ingest)
	g.POST("/admin/repair-base-urls", h.RepairBaseURLs)
}

// Ingest runs ingestion now.
// @Summary Run ingestion
// @Description Run one synchronous ingestion pass. With an owner header only that owner's subscriptions are processed.
// @Tags ingest
// @Produce json
// @Param X-Owner-ID header int false "Owner ID"
// @Success 200 {object} ingestResponse
// @Failure 409 {object} ingestResponse
// @Failure 500 {object} ingestResponse
// @Router /ingest [post]
func (h *IngestHandler) Ingest(c echo.Context) error {
	var owner *int64
	if id, ok := ownerID(c); ok {
		owner = &id
	}

	report, err := h.trigger.TriggerNow(c.Request().Context(), owner)
	if errors.Is(err, service.ErrAlreadyRunning) {
		return c.JSON(http.StatusConflict, ingestResponse{
			Success: false,
			Message: "an ingestion run is already in progress",
			Feeds:   []feedResultResponse{},
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ingestResponse{
			Success: false,
			Message: fmt.Sprintf("ingestion failed: %v", err),
			Feeds:   []feedResultResponse{},
		})
	}

	feeds := make([]feedResultResponse, 0, len(report.Feeds))
	for _, f := range report.Feeds {
		feeds = append(feeds, toFeedResultResponse(f))
	}
	message := fmt.Sprintf("processed %d feeds, %d new posts, %d skipped", len(report.Feeds), report.NewPosts, report.Skipped)
	if !report.Success() {
		message = "run incomplete: " + message
	}
	return c.JSON(http.StatusOK, ingestResponse{
		Success: report.Success(),
		Message: message,
		RunID:   report.RunID,
		Feeds:   feeds,
	})
}

// RepairBaseURLs re-resolves stored feed identities.
// @Summary Repair feed base URLs
// @Description Re-discover every subscription and move posts stored under identities no subscription resolves to anymore
// @Tags admin
// @Produce json
// @Success 200 {object} repairResponse
// @Failure 409 {object} repairResponse
// @Failure 500 {object} repairResponse
// @Router /admin/repair-base-urls [post]
func (h *IngestHandler) RepairBaseURLs(c echo.Context) error {
	report, err := h.trigger.TriggerRepair(c.Request().Context())
	if errors.Is(err, service.ErrAlreadyRunning) {
		return c.JSON(http.StatusConflict, repairResponse{
			Success: false,
			Message: "an ingestion run is already in progress",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, repairResponse{
			Success: false,
			Message: fmt.Sprintf("repair failed: %v", err),
		})
	}
	return c.JSON(http.StatusOK, repairResponse{
		Success: true,
		Message: fmt.Sprintf("updated %d of %d subscriptions, merged %d identities", report.Updated, report.Subscriptions, report.IdentitiesMerged),
		Report:  &report,
	})
}

func toFeedResultResponse(f service.FeedResult) feedResultResponse {
	resp := feedResultResponse{
		SubscriptionID: strconv.FormatInt(f.SubscriptionID, 10),
		SeedURL:        f.SeedURL,
		FeedBaseURL:    f.FeedBaseURL,
		FeedURL:        f.FeedURL,
		Status:         string(f.Status),
		NewPosts:       f.NewPosts,
		SkippedEntries: f.SkippedEntries,
		PreviewTitles:  f.PreviewTitles,
	}
	if f.Err != nil {
		resp.Error = f.Err.Error()
	}
	return resp
}
