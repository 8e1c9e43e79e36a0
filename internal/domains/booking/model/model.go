package model

import (
	"strings"
	"time"

	itemModel "shareit/internal/domains/item/model"
	userModel "shareit/internal/domains/user/model"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID        = "id"
	FieldStartDate = "start_date"
	FieldEndDate   = "end_date"
	FieldItemID    = "item_id"
	FieldBookerID  = "booker_id"
	FieldStatus    = "status"
)

const (
	StatusWaiting  = "WAITING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// State filters for booking listings. Anything outside the known
// tokens collapses to StateAll, which applies no filter.
const (
	StateAll      = "ALL"
	StateCurrent  = "CURRENT"
	StatePast     = "PAST"
	StateFuture   = "FUTURE"
	StateWaiting  = "WAITING"
	StateRejected = "REJECTED"
)

func ParseState(state string) string {
	switch strings.ToUpper(state) {
	case StateCurrent:
		return StateCurrent
	case StatePast:
		return StatePast
	case StateFuture:
		return StateFuture
	case StateWaiting:
		return StateWaiting
	case StateRejected:
		return StateRejected
	default:
		return StateAll
	}
}

// Booking is the joined view of a booking row: item name, item owner
// and booker name are pulled from the joined tables and never written.
type Booking struct {
	ID        int64     `db:"id"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	ItemID    int64     `db:"item_id"`
	BookerID  int64     `db:"booker_id"`
	Status    string    `db:"status"`

	ItemName    string `db:"item_name"     table:"items" column:"name"`
	ItemOwnerID int64  `db:"item_owner_id" table:"items" column:"owner_id"`
	BookerName  string `db:"booker_name"   table:"users" column:"name"`
}

func (Booking) GetJoinQuery() string {
	return "JOIN " + itemModel.TableName + " ON " + itemModel.TableName + ".id = " + TableName + "." + FieldItemID +
		" JOIN " + userModel.TableName + " ON " + userModel.TableName + ".id = " + TableName + "." + FieldBookerID
}
