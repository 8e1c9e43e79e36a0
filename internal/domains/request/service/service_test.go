package service_test

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"shareit/config"
	"shareit/infras/otel/mocks"
	itemMocks "shareit/internal/domains/item/mocks"
	itemModel "shareit/internal/domains/item/model"
	requestMocks "shareit/internal/domains/request/mocks"
	"shareit/internal/domains/request/model"
	"shareit/internal/domains/request/model/dto"
	"shareit/internal/domains/request/service"
	userMocks "shareit/internal/domains/user/mocks"
	"shareit/shared/cache"
	cacheMocks "shareit/shared/cache/mocks"
	gDto "shareit/shared/dto"
	"shareit/shared/failure"
	"shareit/shared/timezone"
)

type requestFixture struct {
	repo     *requestMocks.MockRequest
	itemRepo *itemMocks.MockItem
	userRepo *userMocks.MockUser
	svc      service.Request
}

func newRequestFixture(t *testing.T) requestFixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	repo := requestMocks.NewMockRequest(ctrl)
	itemRepo := itemMocks.NewMockItem(ctrl)
	userRepo := userMocks.NewMockUser(ctrl)
	redis := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	redis.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).AnyTimes()
	redis.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	redis.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return requestFixture{
		repo:     repo,
		itemRepo: itemRepo,
		userRepo: userRepo,
		svc:      service.New(repo, itemRepo, userRepo, cfg, redis, mocks.NewOtel()),
	}
}

func TestRequestService_Create(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f requestFixture)
		wantErr   bool
	}{
		{
			name: "successful creation",
			setupMock: func(f requestFixture) {
				f.userRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, request model.Request) (int64, error) {
						assert.Equal(t, "Need a drill", request.Description)
						assert.EqualValues(t, 1, request.RequestorID)
						assert.False(t, request.Created.IsZero())

						return 5, nil
					})
			},
		},
		{
			name: "unknown user",
			setupMock: func(f requestFixture) {
				f.userRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRequestFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(context.Background(), 1, dto.CreateRequestRequest{Description: "Need a drill"})

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, http.StatusNotFound, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.EqualValues(t, 5, res.ID)
			assert.NotNil(t, res.Items)
			assert.Empty(t, res.Items)
		})
	}
}

func TestRequestService_GetOwn(t *testing.T) {
	f := newRequestFixture(t)

	f.userRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
	f.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.Request{
			{ID: 5, Description: "Need a drill", RequestorID: 1, Created: timezone.Now()},
			{ID: 6, Description: "Need a ladder", RequestorID: 1, Created: timezone.Now()},
		}, nil)
	f.itemRepo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]itemModel.Item, error) {
			offer, ok := filter.Filters[0].(gDto.Filter)
			assert.True(t, ok)
			assert.Equal(t, gDto.FilterOperatorIn, offer.Operator)
			assert.Equal(t, []int64{5, 6}, offer.Value)

			return []itemModel.Item{
				{ID: 10, Name: "Drill", Available: true, OwnerID: 2, RequestID: sql.NullInt64{Int64: 5, Valid: true}},
			}, nil
		})

	res, err := f.svc.GetOwn(context.Background(), 1)

	assert.NoError(t, err)
	assert.Len(t, res, 2)
	assert.Len(t, res[0].Items, 1)
	assert.EqualValues(t, 10, res[0].Items[0].ID)
	assert.Empty(t, res[1].Items)
}

func TestRequestService_GetAll(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f requestFixture)
		wantErr   bool
		wantLen   int
	}{
		{
			name: "excludes own requests",
			setupMock: func(f requestFixture) {
				f.userRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Request, error) {
						scope, ok := filter.Filters[0].(gDto.Filter)
						assert.True(t, ok)
						assert.Equal(t, gDto.FilterOperatorNotEq, scope.Operator)

						return []model.Request{
							{ID: 7, Description: "Need a saw", RequestorID: 2, Created: timezone.Now()},
						}, nil
					})
				f.itemRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
			},
			wantLen: 1,
		},
		{
			name: "unknown user",
			setupMock: func(f requestFixture) {
				f.userRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRequestFixture(t)
			tt.setupMock(f)

			res, err := f.svc.GetAll(context.Background(), 1, gDto.OffsetParams{From: 0, Size: 10})

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, http.StatusNotFound, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Len(t, res, tt.wantLen)
		})
	}
}

func TestRequestService_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f requestFixture)
		wantErr   string
	}{
		{
			name: "found with offered items",
			setupMock: func(f requestFixture) {
				f.userRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
					Return(model.Request{ID: 5, Description: "Need a drill", RequestorID: 1, Created: timezone.Now()}, nil)
				f.itemRepo.EXPECT().
					GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
					Return([]itemModel.Item{
						{ID: 10, Name: "Drill", Available: true, OwnerID: 2, RequestID: sql.NullInt64{Int64: 5, Valid: true}},
					}, nil)
			},
		},
		{
			name: "unknown request",
			setupMock: func(f requestFixture) {
				f.userRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Request{}, nil)
			},
			wantErr: "Item request not found",
		},
		{
			name: "unknown user",
			setupMock: func(f requestFixture) {
				f.userRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr: "User not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRequestFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Get(context.Background(), 1, 5)

			if tt.wantErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Equal(t, http.StatusNotFound, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.EqualValues(t, 5, res.ID)
			assert.Len(t, res.Items, 1)
		})
	}
}
