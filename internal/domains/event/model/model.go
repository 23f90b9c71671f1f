package model

import (
	"time"

	"rihla/shared/model"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "events"
	EntityName = "event"

	FieldID                 = "id"
	FieldTitle              = "title"
	FieldPrice              = "price"
	FieldLocation           = "location"
	FieldEventDate          = "event_date"
	FieldIsAssociationEvent = "is_association_event"
)

type Event struct {
	ID                 string          `db:"id"`
	Title              string          `db:"title"`
	Description        string          `db:"description"`
	Location           string          `db:"location"`
	DurationLabel      string          `db:"duration_label"`
	Price              decimal.Decimal `db:"price"`
	EventDate          time.Time       `db:"event_date"`
	IsAssociationEvent bool            `db:"is_association_event"`
	model.Metadata
}
