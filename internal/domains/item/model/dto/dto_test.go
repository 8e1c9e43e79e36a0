package dto_test

import (
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"shareit/internal/domains/item/model"
	"shareit/internal/domains/item/model/dto"
)

func boolPtr(b bool) *bool {
	return &b
}

func int64Ptr(i int64) *int64 {
	return &i
}

func TestCreateItemRequest_ToModel(t *testing.T) {
	t.Run("without request reference", func(t *testing.T) {
		req := dto.CreateItemRequest{
			Name:        "Drill",
			Description: "Cordless drill",
			Available:   boolPtr(true),
		}

		item := req.ToModel(1)

		assert.Equal(t, "Drill", item.Name)
		assert.True(t, item.Available)
		assert.EqualValues(t, 1, item.OwnerID)
		assert.False(t, item.RequestID.Valid)
	})

	t.Run("with request reference", func(t *testing.T) {
		req := dto.CreateItemRequest{
			Name:        "Drill",
			Description: "Cordless drill",
			Available:   boolPtr(false),
			RequestID:   int64Ptr(5),
		}

		item := req.ToModel(1)

		assert.False(t, item.Available)
		assert.Equal(t, sql.NullInt64{Int64: 5, Valid: true}, item.RequestID)
	})
}

func TestItemResponse_FromModel(t *testing.T) {
	t.Run("null request reference is omitted", func(t *testing.T) {
		var res dto.ItemResponse
		res.FromModel(model.Item{ID: 10, Name: "Drill", Description: "Cordless drill", Available: true, OwnerID: 1})

		assert.EqualValues(t, 10, res.ID)
		assert.Nil(t, res.RequestID)

		body, err := json.Marshal(res)
		assert.NoError(t, err)
		assert.NotContains(t, string(body), "requestId")
	})

	t.Run("request reference carried over", func(t *testing.T) {
		var res dto.ItemResponse
		res.FromModel(model.Item{ID: 10, Name: "Drill", RequestID: sql.NullInt64{Int64: 5, Valid: true}})

		assert.NotNil(t, res.RequestID)
		assert.EqualValues(t, 5, *res.RequestID)
	})
}

func TestItemResponse_BookingRefsSerialization(t *testing.T) {
	var res dto.ItemResponse
	res.FromModel(model.Item{ID: 10, Name: "Drill", Available: true})

	body, err := json.Marshal(res)

	assert.NoError(t, err)
	assert.Contains(t, string(body), `"lastBooking":null`)
	assert.Contains(t, string(body), `"nextBooking":null`)
}

func TestGetItemsResponse_FromModels(t *testing.T) {
	items := []model.Item{
		{ID: 10, Name: "Drill", Available: true, OwnerID: 1},
		{ID: 11, Name: "Ladder", Available: false, OwnerID: 1},
	}

	var res dto.GetItemsResponse
	res.FromModels(items)

	assert.Len(t, res, 2)
	assert.Equal(t, "Drill", res[0].Name)
	assert.False(t, res[1].Available)
}
