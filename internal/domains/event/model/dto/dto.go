package dto

import (
	"rihla/internal/domains/event/model"
	"rihla/shared"
	"rihla/shared/constant"
	gDto "rihla/shared/dto"
	gModel "rihla/shared/model"
	"rihla/shared/timezone"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateEventRequest struct {
	Title              string `json:"title"                validate:"required,min=2,max=150"`
	Description        string `json:"description"          validate:"omitempty,max=2000"`
	Location           string `json:"location"             validate:"required,max=150"`
	DurationLabel      string `json:"duration_label"       validate:"omitempty,max=50"`
	Price              string `json:"price"                validate:"required"`
	EventDate          string `json:"event_date"           validate:"required"`
	IsAssociationEvent bool   `json:"is_association_event"`
}

func (c *CreateEventRequest) ToModel() (model.Event, error) {
	price, err := decimal.NewFromString(c.Price)
	if err != nil {
		return model.Event{}, err
	}

	eventDate, err := timezone.Parse(constant.EventDateFormat, c.EventDate)
	if err != nil {
		return model.Event{}, err
	}

	return model.Event{
		ID:                 uuid.NewString(),
		Title:              c.Title,
		Description:        c.Description,
		Location:           c.Location,
		DurationLabel:      c.DurationLabel,
		Price:              price,
		EventDate:          eventDate,
		IsAssociationEvent: c.IsAssociationEvent,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
		},
	}, nil
}

type UpdateEventPriceRequest struct {
	Price string `json:"price" validate:"required"`
}

type EventResponse struct {
	ID                 string `json:"id"`
	Title              string `json:"title"`
	Description        string `json:"description"`
	Location           string `json:"location"`
	DurationLabel      string `json:"duration_label"`
	Price              string `json:"price"`
	EventDate          string `json:"event_date"`
	IsAssociationEvent bool   `json:"is_association_event"`
	gDto.Metadata
}

func (r *EventResponse) FromModel(model model.Event) {
	r.ID = model.ID
	r.Title = model.Title
	r.Description = model.Description
	r.Location = model.Location
	r.DurationLabel = model.DurationLabel
	r.Price = model.Price.String()
	r.EventDate = model.EventDate.Format(constant.EventDateFormat)
	r.IsAssociationEvent = model.IsAssociationEvent
	r.Metadata.FromModel(model.Metadata)
}

type GetEventsResponse struct {
	Events    []EventResponse `json:"events"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetEventsResponse) FromModels(models []model.Event, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Events = make([]EventResponse, len(models))
	for i, mod := range models {
		r.Events[i].FromModel(mod)
	}
}
