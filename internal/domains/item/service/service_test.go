package service_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"shareit/config"
	"shareit/infras/otel/mocks"
	bookingMocks "shareit/internal/domains/booking/mocks"
	bookingModel "shareit/internal/domains/booking/model"
	bookingDto "shareit/internal/domains/booking/model/dto"
	itemMocks "shareit/internal/domains/item/mocks"
	"shareit/internal/domains/item/model"
	"shareit/internal/domains/item/model/dto"
	"shareit/internal/domains/item/service"
	requestMocks "shareit/internal/domains/request/mocks"
	userMocks "shareit/internal/domains/user/mocks"
	"shareit/shared/cache"
	cacheMocks "shareit/shared/cache/mocks"
	"shareit/shared/failure"

	gDto "shareit/shared/dto"
)

type itemFixture struct {
	repo        *itemMocks.MockItem
	bookingRepo *bookingMocks.MockBooking
	requestRepo *requestMocks.MockRequest
	userRepo    *userMocks.MockUser
	svc         service.Item
}

func newItemFixture(t *testing.T) itemFixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	repo := itemMocks.NewMockItem(ctrl)
	bookingRepo := bookingMocks.NewMockBooking(ctrl)
	requestRepo := requestMocks.NewMockRequest(ctrl)
	userRepo := userMocks.NewMockUser(ctrl)
	redis := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	redis.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).AnyTimes()
	redis.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	redis.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	redis.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return itemFixture{
		repo:        repo,
		bookingRepo: bookingRepo,
		requestRepo: requestRepo,
		userRepo:    userRepo,
		svc:         service.New(repo, bookingRepo, requestRepo, userRepo, cfg, redis, mocks.NewOtel()),
	}
}

func boolPtr(b bool) *bool       { return &b }
func strPtr(s string) *string    { return &s }
func int64Ptr(i int64) *int64    { return &i }
func noBooking() bookingModel.Booking { return bookingModel.Booking{} }

func TestItemService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateItemRequest
		setupMock func(f itemFixture)
		wantErr   string
		wantCode  int
	}{
		{
			name: "successful creation",
			req:  dto.CreateItemRequest{Name: "Drill", Description: "Cordless drill", Available: boolPtr(true)},
			setupMock: func(f itemFixture) {
				f.userRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(int64(10), nil)
			},
		},
		{
			name: "creation against a request",
			req:  dto.CreateItemRequest{Name: "Drill", Description: "Cordless drill", Available: boolPtr(true), RequestID: int64Ptr(5)},
			setupMock: func(f itemFixture) {
				f.userRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.requestRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(int64(10), nil)
			},
		},
		{
			name: "unknown user",
			req:  dto.CreateItemRequest{Name: "Drill", Description: "Cordless drill", Available: boolPtr(true)},
			setupMock: func(f itemFixture) {
				f.userRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr:  "User not found",
			wantCode: http.StatusNotFound,
		},
		{
			name: "unknown request",
			req:  dto.CreateItemRequest{Name: "Drill", Description: "Cordless drill", Available: boolPtr(true), RequestID: int64Ptr(5)},
			setupMock: func(f itemFixture) {
				f.userRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.requestRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr:  "Item request not found",
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newItemFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(context.Background(), 1, tt.req)

			if tt.wantErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.EqualValues(t, 10, res.ID)
			assert.Equal(t, "Drill", res.Name)
		})
	}
}

func TestItemService_Update(t *testing.T) {
	existing := model.Item{ID: 10, Name: "Drill", Description: "Cordless drill", Available: true, OwnerID: 1}

	tests := []struct {
		name      string
		userID    int64
		req       dto.UpdateItemRequest
		setupMock func(f itemFixture)
		want      func(t *testing.T, res dto.ItemResponse)
		wantErr   string
		wantCode  int
	}{
		{
			name:   "partial update",
			userID: 1,
			req:    dto.UpdateItemRequest{Available: boolPtr(false)},
			setupMock: func(f itemFixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
				f.repo.EXPECT().
					Update(gomock.Any(), map[string]any{model.FieldAvailable: false}, gomock.Any()).
					Return(nil)
			},
			want: func(t *testing.T, res dto.ItemResponse) {
				assert.False(t, res.Available)
				assert.Equal(t, "Drill", res.Name)
			},
		},
		{
			name:   "empty patch writes nothing",
			userID: 1,
			req:    dto.UpdateItemRequest{},
			setupMock: func(f itemFixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
			},
			want: func(t *testing.T, res dto.ItemResponse) {
				assert.Equal(t, "Drill", res.Name)
			},
		},
		{
			name:   "non-owner gets not found",
			userID: 2,
			req:    dto.UpdateItemRequest{Available: boolPtr(false)},
			setupMock: func(f itemFixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
			},
			wantErr:  "Item not found",
			wantCode: http.StatusNotFound,
		},
		{
			name:   "unknown item",
			userID: 1,
			req:    dto.UpdateItemRequest{Available: boolPtr(false)},
			setupMock: func(f itemFixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Item{}, nil)
			},
			wantErr:  "Item not found",
			wantCode: http.StatusNotFound,
		},
		{
			name:   "blank name",
			userID: 1,
			req:    dto.UpdateItemRequest{Name: strPtr("   ")},
			setupMock: func(f itemFixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
			},
			wantErr:  "Name cannot be blank",
			wantCode: http.StatusBadRequest,
		},
		{
			name:   "blank description",
			userID: 1,
			req:    dto.UpdateItemRequest{Description: strPtr("")},
			setupMock: func(f itemFixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
			},
			wantErr:  "Description cannot be blank",
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newItemFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Update(context.Background(), tt.userID, 10, tt.req)

			if tt.wantErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			tt.want(t, res)
		})
	}
}

func TestItemService_Get(t *testing.T) {
	item := model.Item{ID: 10, Name: "Drill", Description: "Cordless drill", Available: true, OwnerID: 1}

	tests := []struct {
		name      string
		userID    int64
		setupMock func(f itemFixture)
		want      func(t *testing.T, res dto.ItemResponse)
		wantErr   bool
	}{
		{
			name:   "owner view carries booking refs",
			userID: 1,
			setupMock: func(f itemFixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(item, nil)
				f.bookingRepo.EXPECT().Last(gomock.Any(), int64(10), gomock.Any()).
					Return(bookingModel.Booking{ID: 3, BookerID: 7}, nil)
				f.bookingRepo.EXPECT().Next(gomock.Any(), int64(10), gomock.Any()).
					Return(bookingModel.Booking{ID: 4, BookerID: 8}, nil)
			},
			want: func(t *testing.T, res dto.ItemResponse) {
				assert.Equal(t, &bookingDto.BookingShort{ID: 3, BookerID: 7}, res.LastBooking)
				assert.Equal(t, &bookingDto.BookingShort{ID: 4, BookerID: 8}, res.NextBooking)
			},
		},
		{
			name:   "owner view with no bookings",
			userID: 1,
			setupMock: func(f itemFixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(item, nil)
				f.bookingRepo.EXPECT().Last(gomock.Any(), int64(10), gomock.Any()).Return(noBooking(), nil)
				f.bookingRepo.EXPECT().Next(gomock.Any(), int64(10), gomock.Any()).Return(noBooking(), nil)
			},
			want: func(t *testing.T, res dto.ItemResponse) {
				assert.Nil(t, res.LastBooking)
				assert.Nil(t, res.NextBooking)
			},
		},
		{
			name:   "stranger view hides booking refs",
			userID: 2,
			setupMock: func(f itemFixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(item, nil)
			},
			want: func(t *testing.T, res dto.ItemResponse) {
				assert.Nil(t, res.LastBooking)
				assert.Nil(t, res.NextBooking)
			},
		},
		{
			name:   "unknown item",
			userID: 1,
			setupMock: func(f itemFixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Item{}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newItemFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Get(context.Background(), tt.userID, 10)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, http.StatusNotFound, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.EqualValues(t, 10, res.ID)
			tt.want(t, res)
		})
	}
}

func TestItemService_GetByOwner(t *testing.T) {
	f := newItemFixture(t)

	f.userRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	f.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Item{
			{ID: 10, Name: "Drill", Available: true, OwnerID: 1},
			{ID: 11, Name: "Ladder", Available: true, OwnerID: 1},
		}, nil)
	f.bookingRepo.EXPECT().Last(gomock.Any(), gomock.Any(), gomock.Any()).Return(noBooking(), nil).Times(2)
	f.bookingRepo.EXPECT().Next(gomock.Any(), gomock.Any(), gomock.Any()).Return(noBooking(), nil).Times(2)

	res, err := f.svc.GetByOwner(context.Background(), 1, gDto.OffsetParams{From: 0, Size: 10})

	assert.NoError(t, err)
	assert.Len(t, res, 2)
}

func TestItemService_Search(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		setupMock func(f itemFixture)
		wantLen   int
	}{
		{
			name: "matching text",
			text: "drill",
			setupMock: func(f itemFixture) {
				f.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]model.Item{{ID: 10, Name: "Drill", Available: true, OwnerID: 1}}, nil)
			},
			wantLen: 1,
		},
		{
			name:      "blank text short-circuits",
			text:      "   ",
			setupMock: func(f itemFixture) {},
			wantLen:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newItemFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Search(context.Background(), tt.text, gDto.OffsetParams{From: 0, Size: 10})

			assert.NoError(t, err)
			assert.NotNil(t, res)
			assert.Len(t, res, tt.wantLen)
		})
	}
}
