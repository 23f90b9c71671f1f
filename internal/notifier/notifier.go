package notifier

//go:generate go run go.uber.org/mock/mockgen -source=./notifier.go -destination=./mocks/notifier_mock.go -package=mocks

import (
	"context"

	"rihla/config"
	"rihla/infras/kafka"
	"rihla/infras/otel"
	"rihla/internal/domains/booking/model"
	"rihla/shared/constant"
	"rihla/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	eventBookingCreated   = "booking.created"
	eventBookingApproved  = "booking.approved"
	eventBookingRejected  = "booking.rejected"
	eventBookingCancelled = "booking.cancelled"
)

type lifecycleEvent struct {
	Type             string `json:"type"`
	BookingReference string `json:"booking_reference"`
	EventTitle       string `json:"event_title"`
	CustomerEmail    string `json:"customer_email"`
	Status           string `json:"status"`
	PaymentStatus    string `json:"payment_status"`
	OccurredAt       string `json:"occurred_at"`
}

// Notifier publishes booking lifecycle events to Kafka. Publishing is
// best effort: failures are logged and never surface to the caller.
type Notifier interface {
	BookingCreated(ctx context.Context, booking model.Booking)
	BookingApproved(ctx context.Context, booking model.Booking)
	BookingRejected(ctx context.Context, booking model.Booking)
	BookingCancelled(ctx context.Context, booking model.Booking)
}

type notifierImpl struct {
	cfg   *config.Config
	kafka kafka.Client
	otel  otel.Otel
}

func New(cfg *config.Config, kafkaClient kafka.Client, otel otel.Otel) Notifier {
	return &notifierImpl{
		cfg:   cfg,
		kafka: kafkaClient,
		otel:  otel,
	}
}

func (n *notifierImpl) BookingCreated(ctx context.Context, booking model.Booking) {
	n.publish(ctx, eventBookingCreated, booking)
}

func (n *notifierImpl) BookingApproved(ctx context.Context, booking model.Booking) {
	n.publish(ctx, eventBookingApproved, booking)
}

func (n *notifierImpl) BookingRejected(ctx context.Context, booking model.Booking) {
	n.publish(ctx, eventBookingRejected, booking)
}

func (n *notifierImpl) BookingCancelled(ctx context.Context, booking model.Booking) {
	n.publish(ctx, eventBookingCancelled, booking)
}

func (n *notifierImpl) publish(ctx context.Context, eventType string, booking model.Booking) {
	ctx, scope := n.otel.NewScope(ctx, constant.OtelNotifierScopeName, constant.OtelNotifierScopeName+".publish")
	defer scope.End()

	payload := lifecycleEvent{
		Type:             eventType,
		BookingReference: booking.BookingReference,
		EventTitle:       booking.EventTitle,
		CustomerEmail:    booking.CustomerEmail,
		Status:           string(booking.Status),
		PaymentStatus:    string(booking.PaymentStatus),
		OccurredAt:       timezone.Now().Format(constant.DateFormat),
	}

	message := kafka.Message{
		Key:   booking.BookingReference,
		Value: payload,
	}

	err := n.kafka.SendMessages(ctx, n.cfg.Kafka.BookingTopic, message)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).
			Str("type", eventType).
			Str("reference", booking.BookingReference).
			Msg("failed to publish booking event")
	}
}
