package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"rihla/infras/otel"
	"rihla/infras/postgres"
	"rihla/internal/domains/booking/model"
	gDto "rihla/shared/dto"
	gRepo "rihla/shared/repository"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.Booking, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateIfPending(ctx context.Context, reference string, fields map[string]any) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// UpdateIfPending applies fields only while the stored status is still
// pending. The status guard lives in the same UPDATE statement, so a
// concurrent approve or cancel that lands first makes this return false
// instead of silently overwriting it.
func (repo *repositoryImpl) UpdateIfPending(ctx context.Context, reference string, fields map[string]any) (bool, error) {
	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldBookingReference,
				Value:    reference,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Value:    string(model.StatusPending),
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
		},
	}

	affected, err := repo.UpdateWhere(ctx, fields, filter)
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}
