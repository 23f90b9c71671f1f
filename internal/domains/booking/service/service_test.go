package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"rihla/config"
	"rihla/infras/otel/mocks"
	bookingMocks "rihla/internal/domains/booking/mocks"
	"rihla/internal/domains/booking/model"
	"rihla/internal/domains/booking/model/dto"
	"rihla/internal/domains/booking/reference"
	"rihla/internal/domains/booking/service"
	eventMocks "rihla/internal/domains/event/mocks"
	eventModel "rihla/internal/domains/event/model"
	ticketMocks "rihla/internal/domains/ticket/mocks"
	notifierMocks "rihla/internal/notifier/mocks"
	cacheMocks "rihla/shared/cache/mocks"
	"rihla/shared/constant"
	"rihla/shared/failure"
	gModel "rihla/shared/model"
	"rihla/shared/timezone"
)

type serviceMocks struct {
	repo      *bookingMocks.MockBooking
	eventRepo *eventMocks.MockEvent
	ticket    *ticketMocks.MockTicket
	notifier  *notifierMocks.MockNotifier
	cache     *cacheMocks.MockRedisCache
}

func newService(t *testing.T) (service.Booking, serviceMocks) {
	t.Helper()

	ctrl := gomock.NewController(t)

	m := serviceMocks{
		repo:      bookingMocks.NewMockBooking(ctrl),
		eventRepo: eventMocks.NewMockEvent(ctrl),
		ticket:    ticketMocks.NewMockTicket(ctrl),
		notifier:  notifierMocks.NewMockNotifier(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
	}

	// Cache invalidation and notifications run on detached goroutines.
	m.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	m.notifier.EXPECT().BookingCreated(gomock.Any(), gomock.Any()).AnyTimes()
	m.notifier.EXPECT().BookingApproved(gomock.Any(), gomock.Any()).AnyTimes()
	m.notifier.EXPECT().BookingRejected(gomock.Any(), gomock.Any()).AnyTimes()
	m.notifier.EXPECT().BookingCancelled(gomock.Any(), gomock.Any()).AnyTimes()

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Booking.ReferencePrefix = "RHL"
	cfg.Booking.ReferenceMaxAttempts = 3

	svc := service.New(
		m.repo,
		m.eventRepo,
		reference.New(cfg.Booking.ReferencePrefix),
		m.ticket,
		m.notifier,
		cfg,
		m.cache,
		mocks.NewOtel(),
	)

	return svc, m
}

func clubEvent() eventModel.Event {
	return eventModel.Event{
		ID:        "evt-1",
		Title:     "Chefchaouen Day Trip",
		Price:     decimal.NewFromInt(100),
		EventDate: time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC),
	}
}

func associationEvent() eventModel.Event {
	event := clubEvent()
	event.ID = "evt-2"
	event.IsAssociationEvent = true

	return event
}

func clubRequest(method string, participants int) dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		EventID:       "evt-1",
		CustomerName:  "Amina El Fassi",
		CustomerEmail: "amina@example.com",
		Club: &dto.ClubIdentity{
			CIN: "AB123456",
			CNE: "G12345678",
		},
		CustomerPhone:        "+212600112233",
		NumberOfParticipants: participants,
		PaymentMethod:        method,
	}
}

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

func pendingBooking() model.Booking {
	return model.Booking{
		ID:                   "bkg-1",
		BookingReference:     "RHL-LX3K9T2M-A1B2C3D4",
		EventID:              "evt-1",
		EventTitle:           "Chefchaouen Day Trip",
		EventDate:            time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC),
		CustomerName:         "Amina El Fassi",
		CustomerEmail:        "amina@example.com",
		NumberOfParticipants: 2,
		TotalPrice:           decimal.NewFromInt(200),
		Status:               model.StatusPending,
		PaymentStatus:        model.PaymentStatusPending,
		PaymentMethod:        model.PaymentMethodCash,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
		},
	}
}

func TestBookingService_Create(t *testing.T) {
	t.Run("cash booking starts pending with frozen total", func(t *testing.T) {
		svc, m := newService(t)

		m.eventRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(clubEvent(), nil)

		var inserted model.Booking
		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, b model.Booking) error {
				inserted = b

				return nil
			})

		res, err := svc.Create(context.Background(), clubRequest("cash", 2))
		require.NoError(t, err)

		assert.Equal(t, string(model.StatusPending), res.Status)
		assert.Equal(t, string(model.PaymentStatusPending), res.PaymentStatus)
		assert.Equal(t, "200", res.TotalPrice)
		assert.NotEmpty(t, res.BookingReference)
		assert.True(t, inserted.TotalPrice.Equal(decimal.NewFromInt(200)))
	})

	t.Run("card booking confirms immediately and issues ticket", func(t *testing.T) {
		svc, m := newService(t)

		m.eventRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(clubEvent(), nil)

		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(nil)

		m.ticket.EXPECT().
			Issue(gomock.Any(), gomock.Any()).
			Return("https://cdn.example.com/tickets/ref.html", nil)

		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		res, err := svc.Create(context.Background(), clubRequest("card", 2))
		require.NoError(t, err)

		assert.Equal(t, string(model.StatusAccepted), res.Status)
		assert.Equal(t, string(model.PaymentStatusCompleted), res.PaymentStatus)
		assert.Equal(t, "https://cdn.example.com/tickets/ref.html", res.TicketURL)
	})

	t.Run("association booking stores card whatever was requested", func(t *testing.T) {
		svc, m := newService(t)

		m.eventRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(associationEvent(), nil)

		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(nil)

		m.ticket.EXPECT().
			Issue(gomock.Any(), gomock.Any()).
			Return("https://cdn.example.com/tickets/ref.html", nil)

		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		req := clubRequest("cash", 2)
		req.EventID = "evt-2"
		req.Club = nil
		req.Association = &dto.AssociationIdentity{
			DateOfBirth: "2001-04-15",
			Address:     "12 Rue des Orangers, Rabat",
		}

		res, err := svc.Create(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, string(model.PaymentMethodCard), res.PaymentMethod)
		assert.Equal(t, string(model.StatusAccepted), res.Status)
	})

	t.Run("padded fields are validated on their trimmed values", func(t *testing.T) {
		tests := []struct {
			name    string
			mutate  func(req *dto.CreateBookingRequest)
			wantMsg string
		}{
			{
				name: "padded single character name",
				mutate: func(req *dto.CreateBookingRequest) {
					req.CustomerName = " A "
				},
				wantMsg: "CustomerName must be greater than or equal to 2",
			},
			{
				name: "padded short cin",
				mutate: func(req *dto.CreateBookingRequest) {
					req.Club.CIN = "  AB1  "
				},
				wantMsg: "CIN must be greater than or equal to 5",
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc, _ := newService(t)

				req := clubRequest("cash", 2)
				tt.mutate(&req)

				_, err := svc.Create(context.Background(), req)
				require.Error(t, err)
				assert.True(t, failure.IsBadRequest(err))
				assert.Contains(t, err.Error(), tt.wantMsg)
			})
		}
	})

	t.Run("unknown event is a validation error", func(t *testing.T) {
		svc, m := newService(t)

		m.eventRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(eventModel.Event{}, nil)

		_, err := svc.Create(context.Background(), clubRequest("cash", 2))
		require.Error(t, err)
		assert.True(t, failure.IsBadRequest(err))
	})

	t.Run("wrong identity branch is a validation error", func(t *testing.T) {
		svc, m := newService(t)

		m.eventRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(associationEvent(), nil)

		_, err := svc.Create(context.Background(), clubRequest("cash", 2))
		require.Error(t, err)
		assert.True(t, failure.IsBadRequest(err))
	})

	t.Run("reference collision retries with a fresh reference", func(t *testing.T) {
		svc, m := newService(t)

		m.eventRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(clubEvent(), nil)

		references := make([]string, 0, 2)

		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, b model.Booking) error {
				references = append(references, b.BookingReference)

				return &pq.Error{Code: "23505"}
			})

		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, b model.Booking) error {
				references = append(references, b.BookingReference)

				return nil
			})

		_, err := svc.Create(context.Background(), clubRequest("cash", 2))
		require.NoError(t, err)

		require.Len(t, references, 2)
		assert.NotEqual(t, references[0], references[1])
	})

	t.Run("collision cap exhausted fails internal", func(t *testing.T) {
		svc, m := newService(t)

		m.eventRepo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(clubEvent(), nil)

		m.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			Return(&pq.Error{Code: "23505"}).
			Times(3)

		_, err := svc.Create(context.Background(), clubRequest("cash", 2))
		require.Error(t, err)
		assert.False(t, failure.IsBadRequest(err))
		assert.False(t, failure.IsConflict(err))
	})
}

func TestBookingService_Edit(t *testing.T) {
	t.Run("empty patch rejected", func(t *testing.T) {
		svc, _ := newService(t)

		_, err := svc.Edit(context.Background(), dto.EditBookingRequest{}, "RHL-X", "amina@example.com")
		require.Error(t, err)
		assert.True(t, failure.IsBadRequest(err))
	})

	t.Run("unknown reference is not found", func(t *testing.T) {
		svc, m := newService(t)

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{}, nil)

		_, err := svc.Edit(context.Background(), dto.EditBookingRequest{NumberOfParticipants: intPtr(3)}, "RHL-X", "amina@example.com")
		require.Error(t, err)
		assert.True(t, failure.IsNotFound(err))
	})

	t.Run("edit keeps total price frozen", func(t *testing.T) {
		svc, m := newService(t)

		booking := pendingBooking()

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		var stamped time.Time

		m.repo.EXPECT().
			UpdateIfPending(gomock.Any(), booking.BookingReference, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, fields map[string]any) (bool, error) {
				assert.Contains(t, fields, "number_of_participants")
				assert.NotContains(t, fields, "total_price")

				modifiedAt, ok := fields[constant.FieldModifiedAt].(time.Time)
				require.True(t, ok)
				stamped = modifiedAt

				return true, nil
			})

		res, err := svc.Edit(context.Background(), dto.EditBookingRequest{NumberOfParticipants: intPtr(5)}, booking.BookingReference, booking.CustomerEmail)
		require.NoError(t, err)

		assert.Equal(t, 5, res.NumberOfParticipants)
		assert.Equal(t, "200", res.TotalPrice)
		assert.Equal(t, timezone.Format(stamped, constant.DateFormat), res.ModifiedAt)
	})

	t.Run("explicit empty string clears special requests", func(t *testing.T) {
		svc, m := newService(t)

		booking := pendingBooking()
		booking.SpecialRequests = "window seat"

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		m.repo.EXPECT().
			UpdateIfPending(gomock.Any(), booking.BookingReference, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, fields map[string]any) (bool, error) {
				cleared, ok := fields["special_requests"].(*string)
				require.True(t, ok)
				assert.Equal(t, "", *cleared)

				return true, nil
			})

		res, err := svc.Edit(context.Background(), dto.EditBookingRequest{SpecialRequests: stringPtr("")}, booking.BookingReference, booking.CustomerEmail)
		require.NoError(t, err)

		assert.Empty(t, res.SpecialRequests)
	})

	t.Run("edit of a resolved booking conflicts", func(t *testing.T) {
		svc, m := newService(t)

		booking := pendingBooking()
		booking.Status = model.StatusCancelled

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		m.repo.EXPECT().
			UpdateIfPending(gomock.Any(), booking.BookingReference, gomock.Any()).
			Return(false, nil)

		_, err := svc.Edit(context.Background(), dto.EditBookingRequest{NumberOfParticipants: intPtr(3)}, booking.BookingReference, booking.CustomerEmail)
		require.Error(t, err)
		assert.True(t, failure.IsConflict(err))
	})
}

func TestBookingService_Cancel(t *testing.T) {
	t.Run("cancel pending booking records reason", func(t *testing.T) {
		svc, m := newService(t)

		booking := pendingBooking()

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		m.repo.EXPECT().
			UpdateIfPending(gomock.Any(), booking.BookingReference, gomock.Any()).
			Return(true, nil)

		res, err := svc.Cancel(context.Background(), dto.CancelBookingRequest{Reason: "schedule clash"}, booking.BookingReference, booking.CustomerEmail)
		require.NoError(t, err)

		assert.Equal(t, string(model.StatusCancelled), res.Status)
		assert.Equal(t, "schedule clash", res.CancelReason)
	})

	t.Run("cancel after approve conflicts", func(t *testing.T) {
		svc, m := newService(t)

		booking := pendingBooking()
		booking.Status = model.StatusAccepted
		booking.PaymentStatus = model.PaymentStatusCompleted

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		m.repo.EXPECT().
			UpdateIfPending(gomock.Any(), booking.BookingReference, gomock.Any()).
			Return(false, nil)

		_, err := svc.Cancel(context.Background(), dto.CancelBookingRequest{}, booking.BookingReference, booking.CustomerEmail)
		require.Error(t, err)
		assert.True(t, failure.IsConflict(err))
	})
}

func TestBookingService_Approve(t *testing.T) {
	t.Run("approve resolves pending cash booking and issues ticket", func(t *testing.T) {
		svc, m := newService(t)

		booking := pendingBooking()

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		m.repo.EXPECT().
			UpdateIfPending(gomock.Any(), booking.BookingReference, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, fields map[string]any) (bool, error) {
				assert.Equal(t, string(model.StatusAccepted), fields["status"])
				assert.Equal(t, string(model.PaymentStatusCompleted), fields["payment_status"])

				return true, nil
			})

		m.ticket.EXPECT().
			Issue(gomock.Any(), gomock.Any()).
			Return("https://cdn.example.com/tickets/ref.html", nil)

		m.repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil)

		res, err := svc.Approve(context.Background(), booking.BookingReference)
		require.NoError(t, err)

		assert.Equal(t, string(model.StatusAccepted), res.Status)
		assert.Equal(t, string(model.PaymentStatusCompleted), res.PaymentStatus)
	})

	t.Run("approve of resolved booking conflicts", func(t *testing.T) {
		svc, m := newService(t)

		booking := pendingBooking()
		booking.Status = model.StatusCancelled

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		m.repo.EXPECT().
			UpdateIfPending(gomock.Any(), booking.BookingReference, gomock.Any()).
			Return(false, nil)

		_, err := svc.Approve(context.Background(), booking.BookingReference)
		require.Error(t, err)
		assert.True(t, failure.IsConflict(err))
	})
}

func TestBookingService_Reject(t *testing.T) {
	svc, m := newService(t)

	booking := pendingBooking()

	m.repo.EXPECT().
		Get(gomock.Any(), gomock.Any()).
		Return(booking, nil)

	m.repo.EXPECT().
		UpdateIfPending(gomock.Any(), booking.BookingReference, gomock.Any()).
		Return(true, nil)

	res, err := svc.Reject(context.Background(), dto.CancelBookingRequest{Reason: "no seats left"}, booking.BookingReference)
	require.NoError(t, err)

	assert.Equal(t, string(model.StatusCancelled), res.Status)
	assert.Equal(t, "no seats left", res.CancelReason)
}

func TestBookingService_Get(t *testing.T) {
	t.Run("cache miss falls back to repository", func(t *testing.T) {
		svc, m := newService(t)

		booking := pendingBooking()

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		res, err := svc.Get(context.Background(), booking.BookingReference, booking.CustomerEmail)
		require.NoError(t, err)

		assert.Equal(t, booking.BookingReference, res.BookingReference)
	})

	t.Run("wrong owner reads as not found", func(t *testing.T) {
		svc, m := newService(t)

		m.cache.EXPECT().
			Get(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(errors.New("cache miss"))

		m.repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{}, nil)

		_, err := svc.Get(context.Background(), "RHL-X", "other@example.com")
		require.Error(t, err)
		assert.True(t, failure.IsNotFound(err))
	})
}
