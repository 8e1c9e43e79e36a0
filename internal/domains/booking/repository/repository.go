package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"shareit/infras/otel"
	"shareit/infras/postgres"
	"shareit/internal/domains/booking/model"
	"shareit/shared/constant"
	gDto "shareit/shared/dto"
	"shareit/shared/logger"
	gRepo "shareit/shared/repository"
)

type Booking interface {
	Insert(ctx context.Context, model model.Booking) (int64, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	UpdateStatus(ctx context.Context, id int64, from, to string) (bool, error)
	Last(ctx context.Context, itemID int64, now time.Time) (model.Booking, error)
	Next(ctx context.Context, itemID int64, now time.Time) (model.Booking, error)
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

// UpdateStatus flips a booking from one status to another in a single
// conditional statement. Returns false when no row matched, meaning
// the booking was concurrently processed or never in the expected
// status.
func (repo *repositoryImpl) UpdateStatus(ctx context.Context, id int64, from, to string) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.UpdateStatus")
	defer scope.End()

	query := fmt.Sprintf("UPDATE %s SET %s = :to WHERE %s = :id AND %s = :from",
		model.TableName, model.FieldStatus, model.FieldID, model.FieldStatus)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := repo.db.Write.NamedExecContext(ctx, query, map[string]any{
		"id":   id,
		"from": from,
		"to":   to,
	})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to update booking status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected > 0, nil
}

// Last returns the most recent approved booking that already ended,
// or the zero model when the item has none.
func (repo *repositoryImpl) Last(ctx context.Context, itemID int64, now time.Time) (model.Booking, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Last")
	defer scope.End()

	bookings, err := repo.GetAll(ctx,
		gDto.QueryParams{Page: 1, Limit: 1, SortBy: model.TableName + "." + model.FieldEndDate, SortDir: gDto.SortDirDesc},
		approvedWindowFilter(itemID, model.FieldEndDate, gDto.FilterOperatorLess, now),
	)
	if err != nil {
		return model.Booking{}, fmt.Errorf("failed to get last booking: %w", err)
	}

	if len(bookings) == 0 {
		return model.Booking{}, nil
	}

	return bookings[0], nil
}

// Next returns the nearest approved booking that has not ended yet,
// or the zero model when the item has none.
func (repo *repositoryImpl) Next(ctx context.Context, itemID int64, now time.Time) (model.Booking, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Next")
	defer scope.End()

	bookings, err := repo.GetAll(ctx,
		gDto.QueryParams{Page: 1, Limit: 1, SortBy: model.TableName + "." + model.FieldStartDate, SortDir: gDto.SortDirAsc},
		approvedWindowFilter(itemID, model.FieldEndDate, gDto.FilterOperatorGreater, now),
	)
	if err != nil {
		return model.Booking{}, fmt.Errorf("failed to get next booking: %w", err)
	}

	if len(bookings) == 0 {
		return model.Booking{}, nil
	}

	return bookings[0], nil
}

func approvedWindowFilter(itemID int64, field, operator string, now time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldItemID,
				Value:    itemID,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldStatus,
				Value:    model.StatusApproved,
				Operator: gDto.FilterOperatorEq,
				Table:    model.TableName,
			},
			gDto.Filter{
				ArgName:  "now",
				Field:    field,
				Value:    now,
				Operator: operator,
				Table:    model.TableName,
			},
		},
	}
}
