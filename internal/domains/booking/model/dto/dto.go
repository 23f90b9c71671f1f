package dto

import (
	"strings"
	"time"

	"rihla/internal/domains/booking/model"
	eventModel "rihla/internal/domains/event/model"
	"rihla/shared"
	"rihla/shared/constant"
	gDto "rihla/shared/dto"
	"rihla/shared/failure"
	gModel "rihla/shared/model"
	"rihla/shared/timezone"

	"github.com/google/uuid"
)

// ClubIdentity identifies a student booking a club event.
type ClubIdentity struct {
	CIN string `json:"cin" validate:"required,min=5,max=20"`
	CNE string `json:"cne" validate:"required,min=5,max=20"`
}

// AssociationIdentity identifies a member booking an association event.
type AssociationIdentity struct {
	DateOfBirth string `json:"date_of_birth" validate:"required"`
	Address     string `json:"address"       validate:"required,min=5,max=255"`
}

// CreateBookingRequest carries one of Club or Association depending on
// the event category. Field order matters: struct tags are evaluated
// top to bottom, so identity problems are reported before phone or
// participant problems.
type CreateBookingRequest struct {
	EventID              string               `json:"event_id"               validate:"required"`
	CustomerName         string               `json:"customer_name"          validate:"required,min=2,max=100"`
	CustomerEmail        string               `json:"customer_email"         validate:"required,email,max=255"`
	Club                 *ClubIdentity        `json:"club"                   validate:"omitempty"`
	Association          *AssociationIdentity `json:"association"            validate:"omitempty"`
	CustomerPhone        string               `json:"customer_phone"         validate:"omitempty,phone,max=20"`
	NumberOfParticipants int                  `json:"number_of_participants" validate:"required,gte=1"`
	PaymentMethod        string               `json:"payment_method"         validate:"required,oneof=card cash"`
	SpecialRequests      string               `json:"special_requests"       validate:"omitempty,max=1000"`
}

// Normalize trims whitespace off customer-supplied fields and folds the
// email to lower case before validation runs.
func (c *CreateBookingRequest) Normalize() {
	c.CustomerName = strings.TrimSpace(c.CustomerName)
	c.CustomerEmail = strings.ToLower(strings.TrimSpace(c.CustomerEmail))
	c.CustomerPhone = strings.TrimSpace(c.CustomerPhone)
	c.SpecialRequests = strings.TrimSpace(c.SpecialRequests)

	if c.Club != nil {
		c.Club.CIN = strings.TrimSpace(c.Club.CIN)
		c.Club.CNE = strings.TrimSpace(c.Club.CNE)
	}

	if c.Association != nil {
		c.Association.DateOfBirth = strings.TrimSpace(c.Association.DateOfBirth)
		c.Association.Address = strings.TrimSpace(c.Association.Address)
	}
}

// ValidateForEvent checks the identity branch against the event
// category. Club events need cin/cne plus a phone number, association
// events need date of birth and address.
func (c *CreateBookingRequest) ValidateForEvent(event eventModel.Event) error {
	if event.IsAssociationEvent {
		if c.Association == nil {
			return failure.BadRequestFromString("association identity is required for association events") // nolint:wrapcheck
		}

		if c.Club != nil {
			return failure.BadRequestFromString("club identity is not allowed for association events") // nolint:wrapcheck
		}

		return nil
	}

	if c.Club == nil {
		return failure.BadRequestFromString("club identity is required for club events") // nolint:wrapcheck
	}

	if c.Association != nil {
		return failure.BadRequestFromString("association identity is not allowed for club events") // nolint:wrapcheck
	}

	if c.CustomerPhone == constant.Empty {
		return failure.BadRequestFromString("customer_phone is required for club events") // nolint:wrapcheck
	}

	return nil
}

func (c *CreateBookingRequest) ToModel(event eventModel.Event) (model.Booking, error) {
	booking := model.Booking{
		ID:                   uuid.NewString(),
		EventID:              event.ID,
		EventTitle:           event.Title,
		EventDate:            event.EventDate,
		CustomerName:         c.CustomerName,
		CustomerEmail:        c.CustomerEmail,
		CustomerPhone:        c.CustomerPhone,
		NumberOfParticipants: c.NumberOfParticipants,
		SpecialRequests:      c.SpecialRequests,
		PaymentMethod:        model.PaymentMethod(c.PaymentMethod),
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
		},
	}

	if c.Club != nil {
		booking.CIN = c.Club.CIN
		booking.CNE = c.Club.CNE
	}

	if c.Association != nil {
		dob, err := time.Parse(constant.EventDateFormat, c.Association.DateOfBirth)
		if err != nil {
			return model.Booking{}, failure.BadRequestFromString("date_of_birth must use the format YYYY-MM-DD") // nolint:wrapcheck
		}

		booking.DateOfBirth = &dob
		booking.Address = c.Association.Address
	}

	return booking, nil
}

// EditBookingRequest uses pointers so an explicit empty value is
// distinguishable from an absent field: sending "" clears
// special_requests, omitting it leaves the stored value alone.
type EditBookingRequest struct {
	NumberOfParticipants *int    `db:"number_of_participants" json:"number_of_participants" validate:"omitempty,gte=1"`
	SpecialRequests      *string `db:"special_requests"       json:"special_requests"       validate:"omitempty,max=1000"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

type BookingResponse struct {
	ID                   string `json:"id"`
	BookingReference     string `json:"booking_reference"`
	EventID              string `json:"event_id"`
	EventTitle           string `json:"event_title"`
	EventDate            string `json:"event_date"`
	CustomerName         string `json:"customer_name"`
	CustomerEmail        string `json:"customer_email"`
	CustomerPhone        string `json:"customer_phone,omitempty"`
	NumberOfParticipants int    `json:"number_of_participants"`
	CIN                  string `json:"cin,omitempty"`
	CNE                  string `json:"cne,omitempty"`
	DateOfBirth          string `json:"date_of_birth,omitempty"`
	Address              string `json:"address,omitempty"`
	SpecialRequests      string `json:"special_requests,omitempty"`
	TotalPrice           string `json:"total_price"`
	Status               string `json:"status"`
	PaymentStatus        string `json:"payment_status"`
	PaymentMethod        string `json:"payment_method"`
	CancelReason         string `json:"cancel_reason,omitempty"`
	TicketURL            string `json:"ticket_url,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.BookingReference = model.BookingReference
	r.EventID = model.EventID
	r.EventTitle = model.EventTitle
	r.EventDate = model.EventDate.Format(constant.EventDateFormat)
	r.CustomerName = model.CustomerName
	r.CustomerEmail = model.CustomerEmail
	r.CustomerPhone = model.CustomerPhone
	r.NumberOfParticipants = model.NumberOfParticipants
	r.CIN = model.CIN
	r.CNE = model.CNE
	r.Address = model.Address
	r.SpecialRequests = model.SpecialRequests
	r.TotalPrice = model.TotalPrice.String()
	r.Status = string(model.Status)
	r.PaymentStatus = string(model.PaymentStatus)
	r.PaymentMethod = string(model.PaymentMethod)
	r.CancelReason = model.CancelReason
	r.TicketURL = model.TicketURL

	if model.DateOfBirth != nil {
		r.DateOfBirth = model.DateOfBirth.Format(constant.EventDateFormat)
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
