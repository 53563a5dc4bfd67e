package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"feedpulse/backend/internal/model"
	"feedpulse/backend/internal/network"
	"feedpulse/backend/internal/repository/mock"
	"feedpulse/backend/internal/service"
)

type stubFavicons struct {
	url *string
}

func (s stubFavicons) Discover(context.Context, string) *string {
	return s.url
}

func TestSubscriptionService_Add_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSubs := mock.NewMockSubscriptionRepository(ctrl)
	svc := service.NewSubscriptionService(mockSubs, hostGuard{}, stubFavicons{url: stringPtr("https://example.com/icon.png")})
	ctx := context.Background()

	mockSubs.EXPECT().FindByOwnerAndURL(ctx, int64(7), "https://example.com/blog").Return(nil, nil)
	mockSubs.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, sub model.Subscription) (model.Subscription, error) {
			require.Equal(t, int64(7), sub.OwnerID)
			require.Equal(t, "https://example.com/blog", sub.URL)
			require.NotNil(t, sub.FaviconURL)
			require.Equal(t, "https://example.com/icon.png", *sub.FaviconURL)
			sub.ID = 42
			return sub, nil
		})

	created, err := svc.Add(ctx, 7, "  https://example.com/blog  ")
	require.NoError(t, err)
	require.Equal(t, int64(42), created.ID)
}

func TestSubscriptionService_Add_Duplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSubs := mock.NewMockSubscriptionRepository(ctrl)
	svc := service.NewSubscriptionService(mockSubs, hostGuard{}, nil)
	ctx := context.Background()

	existing := model.Subscription{ID: 3, OwnerID: 7, URL: "https://example.com/"}
	mockSubs.EXPECT().FindByOwnerAndURL(ctx, int64(7), "https://example.com/").Return(&existing, nil)

	_, err := svc.Add(ctx, 7, "https://example.com/")
	require.ErrorIs(t, err, service.ErrConflict)

	var conflict *service.SubscriptionConflictError
	require.ErrorAs(t, err, &conflict)
	require.Equal(t, int64(3), conflict.Existing.ID)
}

func TestSubscriptionService_Add_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSubs := mock.NewMockSubscriptionRepository(ctrl)
	svc := service.NewSubscriptionService(mockSubs, hostGuard{blocked: []string{"10.0.0.1"}}, nil)

	_, err := svc.Add(context.Background(), 7, "")
	require.ErrorIs(t, err, service.ErrInvalid)

	_, err = svc.Add(context.Background(), 7, "http://10.0.0.1/admin")
	require.ErrorIs(t, err, service.ErrInvalid)
	require.ErrorIs(t, err, network.ErrUnsafeURL)
}

func TestSubscriptionService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSubs := mock.NewMockSubscriptionRepository(ctrl)
	svc := service.NewSubscriptionService(mockSubs, hostGuard{}, nil)
	ctx := context.Background()

	mockSubs.EXPECT().GetByID(ctx, int64(1)).Return(model.Subscription{ID: 1, OwnerID: 7}, nil)
	mockSubs.EXPECT().Delete(ctx, int64(1)).Return(int64(5), nil)

	removed, err := svc.Delete(ctx, 7, 1)
	require.NoError(t, err)
	require.Equal(t, int64(5), removed)
}

func TestSubscriptionService_Delete_NotOwner(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSubs := mock.NewMockSubscriptionRepository(ctrl)
	svc := service.NewSubscriptionService(mockSubs, hostGuard{}, nil)
	ctx := context.Background()

	mockSubs.EXPECT().GetByID(ctx, int64(1)).Return(model.Subscription{ID: 1, OwnerID: 8}, nil)

	_, err := svc.Delete(ctx, 7, 1)
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestSubscriptionService_Delete_Missing(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSubs := mock.NewMockSubscriptionRepository(ctrl)
	svc := service.NewSubscriptionService(mockSubs, hostGuard{}, nil)
	ctx := context.Background()

	mockSubs.EXPECT().GetByID(ctx, int64(9)).Return(model.Subscription{}, sql.ErrNoRows)

	_, err := svc.Delete(ctx, 7, 9)
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestSubscriptionService_Delete_RepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSubs := mock.NewMockSubscriptionRepository(ctrl)
	svc := service.NewSubscriptionService(mockSubs, hostGuard{}, nil)
	ctx := context.Background()

	mockSubs.EXPECT().GetByID(ctx, int64(1)).Return(model.Subscription{ID: 1, OwnerID: 7}, nil)
	mockSubs.EXPECT().Delete(ctx, int64(1)).Return(int64(0), errors.New("locked"))

	_, err := svc.Delete(ctx, 7, 1)
	require.Error(t, err)
	require.False(t, errors.Is(err, service.ErrNotFound))
}

func TestFaviconService_Discover(t *testing.T) {
	web := newFakeWeb()
	web.page("https://declared.example.com", `<html><head><link rel="shortcut icon" href="/static/fav.png"></head></html>`)
	web.page("https://plain.example.com", `<html><head></head></html>`)
	web.page("https://plain.example.com/favicon.ico", "")
	web.page("https://bare.example.com", `<html></html>`)

	svc := service.NewFaviconService(web.fetcher(hostGuard{}), 0)
	ctx := context.Background()

	got := svc.Discover(ctx, "https://declared.example.com/blog/post")
	require.NotNil(t, got)
	require.Equal(t, "https://declared.example.com/static/fav.png", *got)

	got = svc.Discover(ctx, "https://plain.example.com/")
	require.NotNil(t, got)
	require.Equal(t, "https://plain.example.com/favicon.ico", *got)

	require.Nil(t, svc.Discover(ctx, "https://bare.example.com/"))
	require.Nil(t, svc.Discover(ctx, "not a url"))
}
