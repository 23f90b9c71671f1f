package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"rihla/config"
	"rihla/infras/otel/mocks"
	eventMocks "rihla/internal/domains/event/mocks"
	"rihla/internal/domains/event/model"
	"rihla/internal/domains/event/model/dto"
	"rihla/internal/domains/event/service"
	cacheMocks "rihla/shared/cache/mocks"
	gDto "rihla/shared/dto"
	"rihla/shared/failure"
)

func newEventService(t *testing.T) (service.Event, *eventMocks.MockEvent, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := eventMocks.NewMockEvent(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	// Cache writes and invalidation run on detached goroutines.
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	svc := service.New(repo, cfg, mockCache, mocks.NewOtel())

	return svc, repo, mockCache
}

func validEventRequest() dto.CreateEventRequest {
	return dto.CreateEventRequest{
		Title:     "Chefchaouen Day Trip",
		Location:  "Chefchaouen",
		Price:     "100",
		EventDate: "2026-10-03",
	}
}

func TestEventService_Create(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(req *dto.CreateEventRequest)
		setupMock func(repo *eventMocks.MockEvent)
		wantErr   bool
	}{
		{
			name:   "valid event inserted",
			mutate: func(req *dto.CreateEventRequest) {},
			setupMock: func(repo *eventMocks.MockEvent) {
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, event model.Event) error {
						assert.True(t, event.Price.Equal(decimal.NewFromInt(100)))
						assert.NotEmpty(t, event.ID)

						return nil
					})
			},
		},
		{
			name: "unparseable price rejected",
			mutate: func(req *dto.CreateEventRequest) {
				req.Price = "hundred"
			},
			setupMock: func(repo *eventMocks.MockEvent) {},
			wantErr:   true,
		},
		{
			name: "negative price rejected",
			mutate: func(req *dto.CreateEventRequest) {
				req.Price = "-10"
			},
			setupMock: func(repo *eventMocks.MockEvent) {},
			wantErr:   true,
		},
		{
			name: "bad date format rejected",
			mutate: func(req *dto.CreateEventRequest) {
				req.EventDate = "03/10/2026"
			},
			setupMock: func(repo *eventMocks.MockEvent) {},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newEventService(t)
			tt.setupMock(repo)

			req := validEventRequest()
			tt.mutate(&req)

			err := svc.Create(context.Background(), req)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, failure.IsBadRequest(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestEventService_Get(t *testing.T) {
	t.Run("cache hit skips repository", func(t *testing.T) {
		svc, _, mockCache := newEventService(t)

		mockCache.EXPECT().
			Get(gomock.Any(), "event:get:evt-1", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, value any) error {
				res, ok := value.(*dto.EventResponse)
				require.True(t, ok)
				res.ID = "evt-1"
				res.Title = "Atlas Hike"

				return nil
			})

		res, err := svc.Get(context.Background(), "evt-1")
		require.NoError(t, err)
		assert.Equal(t, "Atlas Hike", res.Title)
	})

	t.Run("cache miss falls back to repository", func(t *testing.T) {
		svc, repo, mockCache := newEventService(t)

		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Event{
				ID:        "evt-1",
				Title:     "Atlas Hike",
				Price:     decimal.NewFromInt(100),
				EventDate: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
			}, nil)

		res, err := svc.Get(context.Background(), "evt-1")
		require.NoError(t, err)
		assert.Equal(t, "100", res.Price)
		assert.Equal(t, "2026-09-12", res.EventDate)
	})

	t.Run("unknown event is not found", func(t *testing.T) {
		svc, repo, mockCache := newEventService(t)

		mockCache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Event{}, nil)

		_, err := svc.Get(context.Background(), "missing")
		require.Error(t, err)
		assert.True(t, failure.IsNotFound(err))
	})
}

func TestEventService_GetAll(t *testing.T) {
	svc, repo, mockCache := newEventService(t)

	mockCache.EXPECT().
		Get(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("cache miss")).
		Times(2)

	repo.EXPECT().
		Count(gomock.Any(), gomock.Any()).
		Return(3, nil)

	repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Event{
			{ID: "evt-1", Title: "Atlas Hike", Price: decimal.NewFromInt(100)},
			{ID: "evt-2", Title: "Medina Tour", Price: decimal.NewFromInt(50)},
		}, nil)

	res, err := svc.GetAll(context.Background(), gDto.QueryParams{Page: 1, Limit: 2}, gDto.FilterGroup{})
	require.NoError(t, err)

	assert.Len(t, res.Events, 2)
	assert.Equal(t, 3, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
}

func TestEventService_UpdatePrice(t *testing.T) {
	tests := []struct {
		name      string
		price     string
		setupMock func(repo *eventMocks.MockEvent)
		wantErr   func(t *testing.T, err error)
	}{
		{
			name:      "unparseable price rejected",
			price:     "abc",
			setupMock: func(repo *eventMocks.MockEvent) {},
			wantErr: func(t *testing.T, err error) {
				require.Error(t, err)
				assert.True(t, failure.IsBadRequest(err))
			},
		},
		{
			name:      "negative price rejected",
			price:     "-5",
			setupMock: func(repo *eventMocks.MockEvent) {},
			wantErr: func(t *testing.T, err error) {
				require.Error(t, err)
				assert.True(t, failure.IsBadRequest(err))
			},
		},
		{
			name:  "unknown event is not found",
			price: "120",
			setupMock: func(repo *eventMocks.MockEvent) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr: func(t *testing.T, err error) {
				require.Error(t, err)
				assert.True(t, failure.IsNotFound(err))
			},
		},
		{
			name:  "price updated",
			price: "120",
			setupMock: func(repo *eventMocks.MockEvent) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)

				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						price, ok := fields[model.FieldPrice].(decimal.Decimal)
						require.True(t, ok)
						assert.True(t, price.Equal(decimal.NewFromInt(120)))

						return nil
					})
			},
			wantErr: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newEventService(t)
			tt.setupMock(repo)

			err := svc.UpdatePrice(context.Background(), dto.UpdateEventPriceRequest{Price: tt.price}, "evt-1")
			tt.wantErr(t, err)
		})
	}
}
