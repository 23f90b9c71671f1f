package model_test

import (
	"testing"

	"rihla/internal/domains/booking/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialState(t *testing.T) {
	tests := []struct {
		name              string
		isAssociation     bool
		method            model.PaymentMethod
		wantStatus        model.Status
		wantPaymentStatus model.PaymentStatus
		wantMethod        model.PaymentMethod
		wantErr           bool
	}{
		{
			name:              "club event paid by cash starts pending",
			isAssociation:     false,
			method:            model.PaymentMethodCash,
			wantStatus:        model.StatusPending,
			wantPaymentStatus: model.PaymentStatusPending,
			wantMethod:        model.PaymentMethodCash,
		},
		{
			name:              "club event paid by card confirms immediately",
			isAssociation:     false,
			method:            model.PaymentMethodCard,
			wantStatus:        model.StatusAccepted,
			wantPaymentStatus: model.PaymentStatusCompleted,
			wantMethod:        model.PaymentMethodCard,
		},
		{
			name:              "association event forces card and confirms",
			isAssociation:     true,
			method:            model.PaymentMethodCard,
			wantStatus:        model.StatusAccepted,
			wantPaymentStatus: model.PaymentStatusCompleted,
			wantMethod:        model.PaymentMethodCard,
		},
		{
			name:              "association event with cash requested still stores card",
			isAssociation:     true,
			method:            model.PaymentMethodCash,
			wantStatus:        model.StatusAccepted,
			wantPaymentStatus: model.PaymentStatusCompleted,
			wantMethod:        model.PaymentMethodCard,
		},
		{
			name:          "unknown payment method rejected for club events",
			isAssociation: false,
			method:        model.PaymentMethod("cheque"),
			wantErr:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, paymentStatus, method, err := model.InitialState(tt.isAssociation, tt.method)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantPaymentStatus, paymentStatus)
			assert.Equal(t, tt.wantMethod, method)
		})
	}
}

func TestCalculateTotalPrice(t *testing.T) {
	tests := []struct {
		name         string
		unitPrice    string
		participants int
		want         string
		wantErr      bool
	}{
		{
			name:         "two participants at 100",
			unitPrice:    "100",
			participants: 2,
			want:         "200",
		},
		{
			name:         "decimal unit price stays exact",
			unitPrice:    "19.99",
			participants: 3,
			want:         "59.97",
		},
		{
			name:         "free event",
			unitPrice:    "0",
			participants: 5,
			want:         "0",
		},
		{
			name:         "zero participants rejected",
			unitPrice:    "100",
			participants: 0,
			wantErr:      true,
		},
		{
			name:         "negative participants rejected",
			unitPrice:    "100",
			participants: -1,
			wantErr:      true,
		},
		{
			name:         "negative unit price rejected",
			unitPrice:    "-10",
			participants: 1,
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unitPrice, err := decimal.NewFromString(tt.unitPrice)
			require.NoError(t, err)

			total, err := model.CalculateTotalPrice(unitPrice, tt.participants)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.True(t, total.Equal(decimal.RequireFromString(tt.want)), "got %s, want %s", total, tt.want)
		})
	}
}

func TestBookingTerminalStates(t *testing.T) {
	pending := model.Booking{Status: model.StatusPending}
	accepted := model.Booking{Status: model.StatusAccepted}
	cancelled := model.Booking{Status: model.StatusCancelled}

	assert.True(t, pending.IsPending())
	assert.False(t, pending.IsTerminal())
	assert.True(t, accepted.IsTerminal())
	assert.True(t, cancelled.IsTerminal())
	assert.False(t, accepted.IsPending())
}
