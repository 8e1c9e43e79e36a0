package dto

import (
	"shareit/internal/domains/booking/model"
	"shareit/shared/constant"
	"shareit/shared/timezone"
)

type CreateBookingRequest struct {
	ItemID int64  `json:"itemId" validate:"required"`
	Start  string `json:"start"  validate:"required"`
	End    string `json:"end"    validate:"required"`
}

// ToModel parses the booking window and stamps the initial status.
func (c *CreateBookingRequest) ToModel(bookerID int64) (model.Booking, error) {
	start, err := timezone.Parse(constant.DateTimeFormat, c.Start)
	if err != nil {
		return model.Booking{}, err //nolint:wrapcheck
	}

	end, err := timezone.Parse(constant.DateTimeFormat, c.End)
	if err != nil {
		return model.Booking{}, err //nolint:wrapcheck
	}

	return model.Booking{
		StartDate: start,
		EndDate:   end,
		ItemID:    c.ItemID,
		BookerID:  bookerID,
		Status:    model.StatusWaiting,
	}, nil
}

type UserShort struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ItemShort struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type BookingResponse struct {
	ID     int64     `json:"id"`
	Start  string    `json:"start"`
	End    string    `json:"end"`
	Status string    `json:"status"`
	Booker UserShort `json:"booker"`
	Item   ItemShort `json:"item"`
}

func (r *BookingResponse) FromModel(booking model.Booking) {
	r.ID = booking.ID
	r.Start = timezone.Format(booking.StartDate, constant.DateTimeFormat)
	r.End = timezone.Format(booking.EndDate, constant.DateTimeFormat)
	r.Status = booking.Status
	r.Booker = UserShort{ID: booking.BookerID, Name: booking.BookerName}
	r.Item = ItemShort{ID: booking.ItemID, Name: booking.ItemName}
}

type GetBookingsResponse []BookingResponse

func (r *GetBookingsResponse) FromModels(bookings []model.Booking) {
	*r = make([]BookingResponse, len(bookings))
	for i, booking := range bookings {
		(*r)[i].FromModel(booking)
	}
}

// BookingShort is the reduced ref embedded in owner item views.
type BookingShort struct {
	ID       int64 `json:"id"`
	BookerID int64 `json:"bookerId"`
}

func (r *BookingShort) FromModel(booking model.Booking) {
	r.ID = booking.ID
	r.BookerID = booking.BookerID
}
