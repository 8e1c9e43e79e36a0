package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"shareit/internal/domains/booking/model"
	"shareit/internal/domains/booking/model/dto"
	"shareit/shared/timezone"
)

func TestCreateBookingRequest_ToModel(t *testing.T) {
	req := dto.CreateBookingRequest{
		ItemID: 10,
		Start:  "2026-09-01T12:00:00",
		End:    "2026-09-02T12:00:00",
	}

	booking, err := req.ToModel(1)

	assert.NoError(t, err)
	assert.EqualValues(t, 10, booking.ItemID)
	assert.EqualValues(t, 1, booking.BookerID)
	assert.Equal(t, model.StatusWaiting, booking.Status)
	assert.Equal(t, time.September, booking.StartDate.Month())
	assert.True(t, booking.EndDate.After(booking.StartDate))
}

func TestCreateBookingRequest_ToModel_InvalidDate(t *testing.T) {
	tests := []struct {
		name string
		req  dto.CreateBookingRequest
	}{
		{
			name: "invalid start",
			req:  dto.CreateBookingRequest{ItemID: 10, Start: "not-a-date", End: "2026-09-02T12:00:00"},
		},
		{
			name: "invalid end",
			req:  dto.CreateBookingRequest{ItemID: 10, Start: "2026-09-01T12:00:00", End: "02.09.2026"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.req.ToModel(1)

			assert.Error(t, err)
		})
	}
}

func TestBookingResponse_FromModel(t *testing.T) {
	start := time.Date(2026, 9, 1, 12, 0, 0, 0, timezone.GetLocation())
	end := start.Add(24 * time.Hour)

	booking := model.Booking{
		ID:          7,
		StartDate:   start,
		EndDate:     end,
		ItemID:      10,
		BookerID:    1,
		Status:      model.StatusApproved,
		ItemName:    "Drill",
		ItemOwnerID: 2,
		BookerName:  "Alice",
	}

	var res dto.BookingResponse
	res.FromModel(booking)

	assert.EqualValues(t, 7, res.ID)
	assert.Equal(t, "2026-09-01T12:00:00", res.Start)
	assert.Equal(t, "2026-09-02T12:00:00", res.End)
	assert.Equal(t, model.StatusApproved, res.Status)
	assert.Equal(t, dto.UserShort{ID: 1, Name: "Alice"}, res.Booker)
	assert.Equal(t, dto.ItemShort{ID: 10, Name: "Drill"}, res.Item)
}

func TestGetBookingsResponse_FromModels(t *testing.T) {
	bookings := []model.Booking{
		{ID: 1, Status: model.StatusWaiting},
		{ID: 2, Status: model.StatusRejected},
	}

	var res dto.GetBookingsResponse
	res.FromModels(bookings)

	assert.Len(t, res, 2)
	assert.EqualValues(t, 1, res[0].ID)
	assert.Equal(t, model.StatusRejected, res[1].Status)
}

func TestBookingShort_FromModel(t *testing.T) {
	var short dto.BookingShort
	short.FromModel(model.Booking{ID: 3, BookerID: 7})

	assert.Equal(t, dto.BookingShort{ID: 3, BookerID: 7}, short)
}
