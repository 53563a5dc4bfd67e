package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"feedpulse/backend/internal/feed"
	"feedpulse/backend/internal/model"
	"feedpulse/backend/internal/service"
)

type stubSubscriptions struct {
	added    []string
	addErr   error
	subs     []model.Subscription
	deleteID int64
	delErr   error
}

func (s *stubSubscriptions) Add(_ context.Context, ownerID int64, rawURL string) (model.Subscription, error) {
	if s.addErr != nil {
		return model.Subscription{}, s.addErr
	}
	s.added = append(s.added, rawURL)
	return model.Subscription{ID: 42, OwnerID: ownerID, URL: rawURL}, nil
}

func (s *stubSubscriptions) List(_ context.Context, _ int64) ([]model.Subscription, error) {
	return s.subs, nil
}

func (s *stubSubscriptions) Delete(_ context.Context, _ int64, id int64) (int64, error) {
	s.deleteID = id
	return 3, s.delErr
}

type stubPosts struct {
	page      int
	since     time.Time
	pageValue service.PostPage
}

func (s *stubPosts) ListPage(_ context.Context, _ int64, page int) (service.PostPage, error) {
	s.page = page
	return s.pageValue, nil
}

func (s *stubPosts) Since(_ context.Context, _ int64, since time.Time) ([]service.PostItem, error) {
	s.since = since
	return nil, nil
}

type stubReadLogs struct{}

func (stubReadLogs) Log(_ context.Context, ownerID int64, postURL string) (model.ReadLog, error) {
	if postURL == "" {
		return model.ReadLog{}, service.ErrInvalid
	}
	return model.ReadLog{ID: 7, OwnerID: ownerID, PostURL: postURL, ReadAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}, nil
}

type stubTrigger struct {
	owner        *int64
	report       service.RunReport
	err          error
	repairReport service.RepairReport
	repairErr    error
}

func (s *stubTrigger) TriggerNow(_ context.Context, ownerID *int64) (service.RunReport, error) {
	s.owner = ownerID
	return s.report, s.err
}

func (s *stubTrigger) TriggerRepair(context.Context) (service.RepairReport, error) {
	return s.repairReport, s.repairErr
}

func newTestServer(register func(g *echo.Group)) *echo.Echo {
	e := echo.New()
	register(e.Group("/api"))
	return e
}

func doRequest(e *echo.Echo, method, path, body string, owner string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if owner != "" {
		req.Header.Set(OwnerHeader, owner)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSubscriptionHandler_Create(t *testing.T) {
	subs := &stubSubscriptions{}
	e := newTestServer(NewSubscriptionHandler(subs).RegisterRoutes)

	rec := doRequest(e, http.MethodPost, "/api/subscriptions", `{"url":"https://blog.example.com"}`, "1")
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, []string{"https://blog.example.com"}, subs.added)

	var resp subscriptionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "42", resp.ID)
}

func TestSubscriptionHandler_RequiresOwner(t *testing.T) {
	e := newTestServer(NewSubscriptionHandler(&stubSubscriptions{}).RegisterRoutes)

	for _, owner := range []string{"", "abc", "-1"} {
		rec := doRequest(e, http.MethodGet, "/api/subscriptions", "", owner)
		require.Equal(t, http.StatusUnauthorized, rec.Code, "owner %q", owner)
	}
}

func TestSubscriptionHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "unsafe url", err: service.ErrInvalid, want: http.StatusBadRequest},
		{name: "duplicate", err: &service.SubscriptionConflictError{}, want: http.StatusConflict},
		{name: "internal", err: errors.New("boom"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestServer(NewSubscriptionHandler(&stubSubscriptions{addErr: tt.err}).RegisterRoutes)
			rec := doRequest(e, http.MethodPost, "/api/subscriptions", `{"url":"http://10.0.0.1/"}`, "1")
			require.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestSubscriptionHandler_Delete(t *testing.T) {
	subs := &stubSubscriptions{}
	e := newTestServer(NewSubscriptionHandler(subs).RegisterRoutes)

	rec := doRequest(e, http.MethodDelete, "/api/subscriptions/9", "", "1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(9), subs.deleteID)
	require.JSONEq(t, `{"postsRemoved":3}`, rec.Body.String())

	subs.delErr = service.ErrNotFound
	rec = doRequest(e, http.MethodDelete, "/api/subscriptions/9", "", "1")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(e, http.MethodDelete, "/api/subscriptions/nine", "", "1")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostHandler_List(t *testing.T) {
	posts := &stubPosts{}
	e := newTestServer(NewPostHandler(posts, stubReadLogs{}).RegisterRoutes)

	rec := doRequest(e, http.MethodGet, "/api/posts?page=3", "", "1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 3, posts.page)
	require.JSONEq(t, `{"posts":[],"hasMore":false}`, rec.Body.String())

	rec = doRequest(e, http.MethodGet, "/api/posts?page=0", "", "1")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostHandler_Since(t *testing.T) {
	posts := &stubPosts{}
	e := newTestServer(NewPostHandler(posts, stubReadLogs{}).RegisterRoutes)

	rec := doRequest(e, http.MethodGet, "/api/posts/since?ts=2024-03-01T10:00:00Z", "", "1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), posts.since.UTC())
	require.JSONEq(t, `[]`, rec.Body.String())

	rec = doRequest(e, http.MethodGet, "/api/posts/since?ts=yesterday", "", "1")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostHandler_LogRead(t *testing.T) {
	e := newTestServer(NewPostHandler(&stubPosts{}, stubReadLogs{}).RegisterRoutes)

	rec := doRequest(e, http.MethodPost, "/api/read-logs", `{"postUrl":"https://blog.example.com/a"}`, "5")
	require.Equal(t, http.StatusCreated, rec.Code)
	require.JSONEq(t, `{"id":"7","postUrl":"https://blog.example.com/a","readAt":"2024-01-01T00:00:00Z"}`, rec.Body.String())

	rec = doRequest(e, http.MethodPost, "/api/read-logs", `{"postUrl":""}`, "5")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestIngestHandler_Ingest(t *testing.T) {
	trigger := &stubTrigger{report: service.RunReport{
		RunID:    "run-1",
		NewPosts: 2,
		Skipped:  1,
		Feeds: []service.FeedResult{
			{SubscriptionID: 1, SeedURL: "https://a.example.com", Status: service.StatusOK, NewPosts: 2},
			{SubscriptionID: 2, SeedURL: "https://b.example.com", Status: service.StatusNoFeed, Err: feed.ErrNoFeedFound},
		},
	}}
	e := newTestServer(NewIngestHandler(trigger).RegisterRoutes)

	rec := doRequest(e, http.MethodPost, "/api/ingest", "", "4")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, trigger.owner)
	require.Equal(t, int64(4), *trigger.owner)

	var resp ingestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "run-1", resp.RunID)
	require.Len(t, resp.Feeds, 2)
	require.Equal(t, "no_feed", resp.Feeds[1].Status)
	require.NotEmpty(t, resp.Feeds[1].Error)
}

func TestIngestHandler_IngestAllOwners(t *testing.T) {
	trigger := &stubTrigger{}
	e := newTestServer(NewIngestHandler(trigger).RegisterRoutes)

	rec := doRequest(e, http.MethodPost, "/api/ingest", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, trigger.owner)
}

func TestIngestHandler_PersistFailureReported(t *testing.T) {
	trigger := &stubTrigger{report: service.RunReport{Feeds: []service.FeedResult{
		{SubscriptionID: 1, Status: service.StatusPersistFailed, Err: errors.New("disk full")},
	}}}
	e := newTestServer(NewIngestHandler(trigger).RegisterRoutes)

	rec := doRequest(e, http.MethodPost, "/api/ingest", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ingestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Success)
}

func TestIngestHandler_AlreadyRunning(t *testing.T) {
	e := newTestServer(NewIngestHandler(&stubTrigger{err: service.ErrAlreadyRunning}).RegisterRoutes)

	rec := doRequest(e, http.MethodPost, "/api/ingest", "", "")
	require.Equal(t, http.StatusConflict, rec.Code)

	var resp ingestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.NotEmpty(t, resp.Message)
}

func TestIngestHandler_RepairBaseURLs(t *testing.T) {
	trigger := &stubTrigger{repairReport: service.RepairReport{Subscriptions: 3, Updated: 1}}
	e := newTestServer(NewIngestHandler(trigger).RegisterRoutes)

	rec := doRequest(e, http.MethodPost, "/api/admin/repair-base-urls", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp repairResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, 1, resp.Report.Updated)

	e = newTestServer(NewIngestHandler(&stubTrigger{repairErr: errors.New("db gone")}).RegisterRoutes)
	rec = doRequest(e, http.MethodPost, "/api/admin/repair-base-urls", "", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestIngestHandler_RepairRejectedWhileRunning(t *testing.T) {
	e := newTestServer(NewIngestHandler(&stubTrigger{repairErr: service.ErrAlreadyRunning}).RegisterRoutes)

	rec := doRequest(e, http.MethodPost, "/api/admin/repair-base-urls", "", "")
	require.Equal(t, http.StatusConflict, rec.Code)

	var resp repairResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.Nil(t, resp.Report)
}
