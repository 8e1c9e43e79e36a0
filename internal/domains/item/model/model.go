package model

import "database/sql"

const (
	TableName  = "items"
	EntityName = "item"

	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldAvailable   = "available"
	FieldOwnerID     = "owner_id"
	FieldRequestID   = "request_id"
)

type Item struct {
	ID          int64         `db:"id"`
	Name        string        `db:"name"`
	Description string        `db:"description"`
	Available   bool          `db:"available"`
	OwnerID     int64         `db:"owner_id"`
	RequestID   sql.NullInt64 `db:"request_id"`
}
