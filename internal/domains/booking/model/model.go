package model

import (
	"time"

	"rihla/shared/failure"
	"rihla/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID                   = "id"
	FieldBookingReference     = "booking_reference"
	FieldEventID              = "event_id"
	FieldCustomerEmail        = "customer_email"
	FieldNumberOfParticipants = "number_of_participants"
	FieldSpecialRequests      = "special_requests"
	FieldStatus               = "status"
	FieldPaymentStatus        = "payment_status"
	FieldCancelReason         = "cancel_reason"
	FieldTicketURL            = "ticket_url"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusCancelled Status = "cancelled"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
)

type PaymentMethod string

const (
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodCash PaymentMethod = "cash"
)

type Booking struct {
	ID                   string          `db:"id"`
	BookingReference     string          `db:"booking_reference"`
	EventID              string          `db:"event_id"`
	EventTitle           string          `db:"event_title"`
	EventDate            time.Time       `db:"event_date"`
	CustomerName         string          `db:"customer_name"`
	CustomerEmail        string          `db:"customer_email"`
	CustomerPhone        string          `db:"customer_phone"`
	NumberOfParticipants int             `db:"number_of_participants"`
	CIN                  string          `db:"cin"`
	CNE                  string          `db:"cne"`
	DateOfBirth          *time.Time      `db:"date_of_birth"`
	Address              string          `db:"address"`
	SpecialRequests      string          `db:"special_requests"`
	TotalPrice           decimal.Decimal `db:"total_price"`
	Status               Status          `db:"status"`
	PaymentStatus        PaymentStatus   `db:"payment_status"`
	PaymentMethod        PaymentMethod   `db:"payment_method"`
	CancelReason         string          `db:"cancel_reason"`
	TicketURL            string          `db:"ticket_url"`
	model.Metadata
}

// IsTerminal reports whether the booking can no longer change state.
func (b *Booking) IsTerminal() bool {
	return b.Status == StatusAccepted || b.Status == StatusCancelled
}

func (b *Booking) IsPending() bool {
	return b.Status == StatusPending
}

// InitialState resolves the lifecycle state a new booking starts in.
// Association events take card payment only, whatever method was asked
// for, and are confirmed on the spot. Club events paid by card confirm
// immediately as well; cash bookings wait for an on-site payment and a
// manual approval.
func InitialState(isAssociationEvent bool, method PaymentMethod) (Status, PaymentStatus, PaymentMethod, error) {
	if isAssociationEvent {
		return StatusAccepted, PaymentStatusCompleted, PaymentMethodCard, nil
	}

	switch method {
	case PaymentMethodCard:
		return StatusAccepted, PaymentStatusCompleted, PaymentMethodCard, nil
	case PaymentMethodCash:
		return StatusPending, PaymentStatusPending, PaymentMethodCash, nil
	default:
		return "", "", "", failure.BadRequestFromString("payment method must be card or cash") // nolint:wrapcheck
	}
}

// CalculateTotalPrice freezes the charge for a booking: unit price at
// the time of creation times the number of participants.
func CalculateTotalPrice(unitPrice decimal.Decimal, participants int) (decimal.Decimal, error) {
	if participants < 1 {
		return decimal.Zero, failure.BadRequestFromString("number of participants must be at least 1") // nolint:wrapcheck
	}

	if unitPrice.IsNegative() {
		return decimal.Zero, failure.BadRequestFromString("price cannot be negative") // nolint:wrapcheck
	}

	return unitPrice.Mul(decimal.NewFromInt(int64(participants))), nil
}
