package model

import "time"

const (
	TableName  = "requests"
	EntityName = "request"

	FieldID          = "id"
	FieldDescription = "description"
	FieldRequestorID = "requestor_id"
	FieldCreated     = "created"
)

// Request is a want-ad: a description of an item someone is looking
// for. Items created in answer to it carry its id.
type Request struct {
	ID          int64     `db:"id"`
	Description string    `db:"description"`
	RequestorID int64     `db:"requestor_id"`
	Created     time.Time `db:"created"`
}
