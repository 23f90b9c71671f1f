package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"rihla/config"
	"rihla/infras/otel/mocks"
	s3Mocks "rihla/infras/s3/mocks"
	bookingMocks "rihla/internal/domains/booking/mocks"
	"rihla/internal/domains/booking/model"
	"rihla/internal/domains/ticket/service"
	gDto "rihla/shared/dto"
	"rihla/shared/failure"
)

func newTicketService(t *testing.T) (service.Ticket, *bookingMocks.MockBooking, *s3Mocks.MockS3) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := bookingMocks.NewMockBooking(ctrl)
	s3Client := s3Mocks.NewMockS3(ctrl)

	cfg := &config.Config{}
	cfg.External.S3.BucketName = "rihla-artifacts"
	cfg.External.S3.TicketDirectory = "tickets"

	svc := service.New(repo, cfg, s3Client, mocks.NewOtel())

	return svc, repo, s3Client
}

func confirmedBooking() model.Booking {
	return model.Booking{
		ID:                   "bkg-1",
		BookingReference:     "RHL-LX3K9T2M-A1B2C3D4",
		EventTitle:           "Atlas Hike",
		EventDate:            time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		CustomerName:         "Amina El Fassi",
		CustomerEmail:        "amina@example.com",
		NumberOfParticipants: 2,
		TotalPrice:           decimal.NewFromInt(200),
		Status:               model.StatusAccepted,
		PaymentStatus:        model.PaymentStatusCompleted,
		PaymentMethod:        model.PaymentMethodCard,
	}
}

func TestTicketService_Issue(t *testing.T) {
	t.Run("renders and uploads ticket for confirmed booking", func(t *testing.T) {
		svc, _, s3Client := newTicketService(t)

		booking := confirmedBooking()

		s3Client.EXPECT().
			UploadFileBytes(
				gomock.Any(),
				"rihla-artifacts",
				"tickets",
				booking.BookingReference+".html",
				"text/html; charset=utf-8",
				gomock.Any(),
			).
			DoAndReturn(func(_ context.Context, _, _, _, _ string, fileData []byte) (string, error) {
				assert.Contains(t, string(fileData), booking.BookingReference)
				assert.Contains(t, string(fileData), "Atlas Hike")
				assert.Contains(t, string(fileData), "200")

				return "https://cdn.example.com/tickets/" + booking.BookingReference + ".html", nil
			})

		url, err := svc.Issue(context.Background(), booking)
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/tickets/"+booking.BookingReference+".html", url)
	})

	t.Run("pending booking has no ticket", func(t *testing.T) {
		svc, _, _ := newTicketService(t)

		booking := confirmedBooking()
		booking.Status = model.StatusPending
		booking.PaymentStatus = model.PaymentStatusPending

		_, err := svc.Issue(context.Background(), booking)
		require.Error(t, err)
		assert.True(t, failure.IsConflict(err))
	})

	t.Run("cancelled booking has no ticket", func(t *testing.T) {
		svc, _, _ := newTicketService(t)

		booking := confirmedBooking()
		booking.Status = model.StatusCancelled

		_, err := svc.Issue(context.Background(), booking)
		require.Error(t, err)
		assert.True(t, failure.IsConflict(err))
	})

	t.Run("upload failure surfaces", func(t *testing.T) {
		svc, _, s3Client := newTicketService(t)

		s3Client.EXPECT().
			UploadFileBytes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("", assert.AnError)

		_, err := svc.Issue(context.Background(), confirmedBooking())
		assert.Error(t, err)
	})
}

func TestTicketService_Reissue(t *testing.T) {
	t.Run("unknown booking is not found", func(t *testing.T) {
		svc, repo, _ := newTicketService(t)

		repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(model.Booking{}, nil)

		_, err := svc.Reissue(context.Background(), "RHL-X", "amina@example.com")
		require.Error(t, err)
		assert.True(t, failure.IsNotFound(err))
	})

	t.Run("reissue records a changed ticket url", func(t *testing.T) {
		svc, repo, s3Client := newTicketService(t)

		booking := confirmedBooking()

		repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		s3Client.EXPECT().
			UploadFileBytes(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return("https://cdn.example.com/tickets/ref.html", nil)

		repo.EXPECT().
			Update(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "https://cdn.example.com/tickets/ref.html", fields[model.FieldTicketURL])

				return nil
			})

		url, err := svc.Reissue(context.Background(), booking.BookingReference, booking.CustomerEmail)
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/tickets/ref.html", url)
	})

	t.Run("reissue of a pending booking conflicts", func(t *testing.T) {
		svc, repo, _ := newTicketService(t)

		booking := confirmedBooking()
		booking.Status = model.StatusPending
		booking.PaymentStatus = model.PaymentStatusPending

		repo.EXPECT().
			Get(gomock.Any(), gomock.Any()).
			Return(booking, nil)

		_, err := svc.Reissue(context.Background(), booking.BookingReference, booking.CustomerEmail)
		require.Error(t, err)
		assert.True(t, failure.IsConflict(err))
	})
}
