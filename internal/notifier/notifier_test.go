package notifier_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"rihla/config"
	"rihla/infras/kafka"
	kafkaMocks "rihla/infras/kafka/mocks"
	"rihla/infras/otel/mocks"
	"rihla/internal/domains/booking/model"
	"rihla/internal/notifier"
)

func newNotifier(t *testing.T) (notifier.Notifier, *kafkaMocks.MockClient) {
	t.Helper()

	ctrl := gomock.NewController(t)
	client := kafkaMocks.NewMockClient(ctrl)

	cfg := &config.Config{}
	cfg.Kafka.BookingTopic = "booking-events"

	return notifier.New(cfg, client, mocks.NewOtel()), client
}

func sampleBooking() model.Booking {
	return model.Booking{
		BookingReference: "RHL-LX3K9T2M-A1B2C3D4",
		EventTitle:       "Atlas Hike",
		CustomerEmail:    "amina@example.com",
		Status:           model.StatusPending,
		PaymentStatus:    model.PaymentStatusPending,
	}
}

func TestNotifierPublishesLifecycleEvents(t *testing.T) {
	tests := []struct {
		name     string
		notify   func(n notifier.Notifier, booking model.Booking)
		wantType string
	}{
		{
			name: "created",
			notify: func(n notifier.Notifier, booking model.Booking) {
				n.BookingCreated(context.Background(), booking)
			},
			wantType: "booking.created",
		},
		{
			name: "approved",
			notify: func(n notifier.Notifier, booking model.Booking) {
				n.BookingApproved(context.Background(), booking)
			},
			wantType: "booking.approved",
		},
		{
			name: "rejected",
			notify: func(n notifier.Notifier, booking model.Booking) {
				n.BookingRejected(context.Background(), booking)
			},
			wantType: "booking.rejected",
		},
		{
			name: "cancelled",
			notify: func(n notifier.Notifier, booking model.Booking) {
				n.BookingCancelled(context.Background(), booking)
			},
			wantType: "booking.cancelled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, client := newNotifier(t)

			booking := sampleBooking()

			client.EXPECT().
				SendMessages(gomock.Any(), "booking-events", gomock.Any()).
				DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
					require.Len(t, messages, 1)
					assert.Equal(t, booking.BookingReference, messages[0].Key)

					payload, err := json.Marshal(messages[0].Value)
					require.NoError(t, err)
					assert.Contains(t, string(payload), tt.wantType)
					assert.Contains(t, string(payload), booking.CustomerEmail)

					return nil
				})

			tt.notify(n, booking)
		})
	}
}

func TestNotifierSwallowsPublishErrors(t *testing.T) {
	n, client := newNotifier(t)

	client.EXPECT().
		SendMessages(gomock.Any(), "booking-events", gomock.Any()).
		Return(assert.AnError)

	assert.NotPanics(t, func() {
		n.BookingCreated(context.Background(), sampleBooking())
	})
}
