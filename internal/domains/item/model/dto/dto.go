package dto

import (
	"database/sql"

	bookingDto "shareit/internal/domains/booking/model/dto"
	"shareit/internal/domains/item/model"
)

type CreateItemRequest struct {
	Name        string `json:"name"        validate:"required,max=255"`
	Description string `json:"description" validate:"required,max=2000"`
	Available   *bool  `json:"available"   validate:"required"`
	RequestID   *int64 `json:"requestId"   validate:"omitempty,gt=0"`
}

func (c *CreateItemRequest) ToModel(ownerID int64) model.Item {
	item := model.Item{
		Name:        c.Name,
		Description: c.Description,
		Available:   *c.Available,
		OwnerID:     ownerID,
	}

	if c.RequestID != nil {
		item.RequestID = sql.NullInt64{Int64: *c.RequestID, Valid: true}
	}

	return item
}

// UpdateItemRequest is a partial update: nil fields keep the stored
// value, provided-but-blank text fields are rejected.
type UpdateItemRequest struct {
	Name        *string `json:"name"        validate:"omitempty,max=255"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Available   *bool   `json:"available"`
}

type ItemResponse struct {
	ID          int64                    `json:"id"`
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Available   bool                     `json:"available"`
	RequestID   *int64                   `json:"requestId,omitempty"`
	LastBooking *bookingDto.BookingShort `json:"lastBooking"`
	NextBooking *bookingDto.BookingShort `json:"nextBooking"`
}

func (r *ItemResponse) FromModel(item model.Item) {
	r.ID = item.ID
	r.Name = item.Name
	r.Description = item.Description
	r.Available = item.Available

	if item.RequestID.Valid {
		requestID := item.RequestID.Int64
		r.RequestID = &requestID
	}
}

type GetItemsResponse []ItemResponse

func (r *GetItemsResponse) FromModels(items []model.Item) {
	*r = make([]ItemResponse, len(items))
	for i, item := range items {
		(*r)[i].FromModel(item)
	}
}
