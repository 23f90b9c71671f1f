package dto_test

import (
	"testing"
	"time"

	"rihla/internal/domains/booking/model/dto"
	eventModel "rihla/internal/domains/event/model"
	"rihla/shared/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCreateRequest() dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		EventID:       "f9c0a6f0-7b4f-4a3e-9a1c-1d1f7c2b5e11",
		CustomerName:  "Amina El Fassi",
		CustomerEmail: "amina@example.com",
		Club: &dto.ClubIdentity{
			CIN: "AB123456",
			CNE: "G12345678",
		},
		CustomerPhone:        "+212 600-112233",
		NumberOfParticipants: 2,
		PaymentMethod:        "cash",
	}
}

func TestCreateBookingRequestValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *dto.CreateBookingRequest)
		wantMsg string
	}{
		{
			name:   "valid request",
			mutate: func(req *dto.CreateBookingRequest) {},
		},
		{
			name: "single character name cites minimum length",
			mutate: func(req *dto.CreateBookingRequest) {
				req.CustomerName = "A"
			},
			wantMsg: "CustomerName must be greater than or equal to 2",
		},
		{
			name: "missing event id",
			mutate: func(req *dto.CreateBookingRequest) {
				req.EventID = ""
			},
			wantMsg: "EventID is required",
		},
		{
			name: "invalid email",
			mutate: func(req *dto.CreateBookingRequest) {
				req.CustomerEmail = "not-an-email"
			},
			wantMsg: "CustomerEmail must be a valid email address",
		},
		{
			name: "phone with letters",
			mutate: func(req *dto.CreateBookingRequest) {
				req.CustomerPhone = "06AB123"
			},
			wantMsg: "CustomerPhone may only contain digits, spaces and + - ( )",
		},
		{
			name: "short cin",
			mutate: func(req *dto.CreateBookingRequest) {
				req.Club.CIN = "AB1"
			},
			wantMsg: "CIN must be greater than or equal to 5",
		},
		{
			name: "short association address",
			mutate: func(req *dto.CreateBookingRequest) {
				req.Club = nil
				req.Association = &dto.AssociationIdentity{
					DateOfBirth: "2001-04-15",
					Address:     "Fes",
				}
			},
			wantMsg: "Address must be greater than or equal to 5",
		},
		{
			name: "zero participants",
			mutate: func(req *dto.CreateBookingRequest) {
				req.NumberOfParticipants = 0
			},
			wantMsg: "NumberOfParticipants is required",
		},
		{
			name: "unknown payment method",
			mutate: func(req *dto.CreateBookingRequest) {
				req.PaymentMethod = "cheque"
			},
			wantMsg: "PaymentMethod must be one of card cash",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(&req)

			err := validator.ValidateStruct(&req)

			if tt.wantMsg == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestCreateBookingRequestNormalize(t *testing.T) {
	req := validCreateRequest()
	req.CustomerName = "  Amina El Fassi  "
	req.CustomerEmail = "  Amina@Example.COM "
	req.Club.CIN = " AB123456 "

	req.Normalize()

	assert.Equal(t, "Amina El Fassi", req.CustomerName)
	assert.Equal(t, "amina@example.com", req.CustomerEmail)
	assert.Equal(t, "AB123456", req.Club.CIN)
}

func TestValidateForEvent(t *testing.T) {
	clubEvent := eventModel.Event{ID: "evt-1", IsAssociationEvent: false}
	associationEvent := eventModel.Event{ID: "evt-2", IsAssociationEvent: true}

	tests := []struct {
		name    string
		event   eventModel.Event
		mutate  func(req *dto.CreateBookingRequest)
		wantMsg string
	}{
		{
			name:   "club booking with club identity",
			event:  clubEvent,
			mutate: func(req *dto.CreateBookingRequest) {},
		},
		{
			name:  "club booking without club identity",
			event: clubEvent,
			mutate: func(req *dto.CreateBookingRequest) {
				req.Club = nil
			},
			wantMsg: "club identity is required",
		},
		{
			name:  "club booking without phone",
			event: clubEvent,
			mutate: func(req *dto.CreateBookingRequest) {
				req.CustomerPhone = ""
			},
			wantMsg: "customer_phone is required",
		},
		{
			name:  "association booking without association identity",
			event: associationEvent,
			mutate: func(req *dto.CreateBookingRequest) {
			},
			wantMsg: "association identity is required",
		},
		{
			name:  "association booking with association identity",
			event: associationEvent,
			mutate: func(req *dto.CreateBookingRequest) {
				req.Club = nil
				req.Association = &dto.AssociationIdentity{
					DateOfBirth: "2001-04-15",
					Address:     "12 Rue des Orangers, Rabat",
				}
			},
		},
		{
			name:  "association booking carrying club identity",
			event: associationEvent,
			mutate: func(req *dto.CreateBookingRequest) {
				req.Association = &dto.AssociationIdentity{
					DateOfBirth: "2001-04-15",
					Address:     "12 Rue des Orangers, Rabat",
				}
			},
			wantMsg: "club identity is not allowed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateRequest()
			tt.mutate(&req)

			err := req.ValidateForEvent(tt.event)

			if tt.wantMsg == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestCreateBookingRequestToModel(t *testing.T) {
	eventDate := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	event := eventModel.Event{
		ID:                 "evt-1",
		Title:              "Atlas Hike",
		EventDate:          eventDate,
		IsAssociationEvent: true,
	}

	req := validCreateRequest()
	req.Club = nil
	req.Association = &dto.AssociationIdentity{
		DateOfBirth: "2001-04-15",
		Address:     "12 Rue des Orangers, Rabat",
	}

	booking, err := req.ToModel(event)
	require.NoError(t, err)

	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, "evt-1", booking.EventID)
	assert.Equal(t, "Atlas Hike", booking.EventTitle)
	assert.Equal(t, eventDate, booking.EventDate)
	require.NotNil(t, booking.DateOfBirth)
	assert.Equal(t, 2001, booking.DateOfBirth.Year())
	assert.Equal(t, "12 Rue des Orangers, Rabat", booking.Address)

	req.Association.DateOfBirth = "15/04/2001"
	_, err = req.ToModel(event)
	assert.Error(t, err)
}
