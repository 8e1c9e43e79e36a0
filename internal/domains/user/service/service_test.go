package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"shareit/config"
	"shareit/infras/otel/mocks"
	userMocks "shareit/internal/domains/user/mocks"
	"shareit/internal/domains/user/model"
	"shareit/internal/domains/user/model/dto"
	"shareit/internal/domains/user/service"
	"shareit/shared/cache"
	cacheMocks "shareit/shared/cache/mocks"
	"shareit/shared/failure"
)

type userFixture struct {
	repo  *userMocks.MockUser
	cache *cacheMocks.MockRedisCache
	svc   service.User
}

func newUserFixture(t *testing.T) userFixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	repo := userMocks.NewMockUser(ctrl)
	redis := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	redis.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil).AnyTimes()
	redis.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	redis.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	redis.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return userFixture{
		repo:  repo,
		cache: redis,
		svc:   service.New(repo, cfg, redis, mocks.NewOtel()),
	}
}

func TestUserService_Create(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f userFixture)
		wantErr   string
		wantCode  int
	}{
		{
			name: "successful creation",
			setupMock: func(f userFixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), model.User{Name: "Alice", Email: "alice@example.com"}).Return(int64(1), nil)
			},
		},
		{
			name: "duplicate email",
			setupMock: func(f userFixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr:  "Email already exists",
			wantCode: http.StatusConflict,
		},
		{
			name: "repository error",
			setupMock: func(f userFixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(int64(0), errors.New("database error"))
			},
			wantErr:  "database error",
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newUserFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Create(context.Background(), dto.CreateUserRequest{
				Name:  "Alice",
				Email: "alice@example.com",
			})

			if tt.wantErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, dto.UserResponse{ID: 1, Name: "Alice", Email: "alice@example.com"}, res)
		})
	}
}

func TestUserService_Update(t *testing.T) {
	existing := model.User{ID: 1, Name: "Alice", Email: "alice@example.com"}

	tests := []struct {
		name      string
		req       dto.UpdateUserRequest
		setupMock func(f userFixture)
		want      dto.UserResponse
		wantErr   string
		wantCode  int
	}{
		{
			name: "rename only",
			req:  dto.UpdateUserRequest{Name: "Alicia"},
			setupMock: func(f userFixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
				f.repo.EXPECT().
					Update(gomock.Any(), map[string]any{model.FieldName: "Alicia"}, gomock.Any()).
					Return(nil)
			},
			want: dto.UserResponse{ID: 1, Name: "Alicia", Email: "alice@example.com"},
		},
		{
			name: "email change checks uniqueness",
			req:  dto.UpdateUserRequest{Email: "new@example.com"},
			setupMock: func(f userFixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().
					Update(gomock.Any(), map[string]any{model.FieldEmail: "new@example.com"}, gomock.Any()).
					Return(nil)
			},
			want: dto.UserResponse{ID: 1, Name: "Alice", Email: "new@example.com"},
		},
		{
			name: "same email skips uniqueness check and write",
			req:  dto.UpdateUserRequest{Email: "alice@example.com"},
			setupMock: func(f userFixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
			},
			want: dto.UserResponse{ID: 1, Name: "Alice", Email: "alice@example.com"},
		},
		{
			name: "email taken by someone else",
			req:  dto.UpdateUserRequest{Email: "taken@example.com"},
			setupMock: func(f userFixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(existing, nil)
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr:  "Email already exists",
			wantCode: http.StatusConflict,
		},
		{
			name: "unknown user",
			req:  dto.UpdateUserRequest{Name: "Alicia"},
			setupMock: func(f userFixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)
			},
			wantErr:  "User not found",
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newUserFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Update(context.Background(), 1, tt.req)

			if tt.wantErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, res)
		})
	}
}

func TestUserService_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f userFixture)
		wantErr   bool
	}{
		{
			name: "found",
			setupMock: func(f userFixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).
					Return(model.User{ID: 1, Name: "Alice", Email: "alice@example.com"}, nil)
			},
		},
		{
			name: "not found",
			setupMock: func(f userFixture) {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newUserFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Get(context.Background(), 1)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, http.StatusNotFound, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "Alice", res.Name)
		})
	}
}

func TestUserService_GetAll(t *testing.T) {
	f := newUserFixture(t)

	f.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]model.User{
			{ID: 1, Name: "Alice", Email: "alice@example.com"},
			{ID: 2, Name: "Bob", Email: "bob@example.com"},
		}, nil)

	res, err := f.svc.GetAll(context.Background())

	assert.NoError(t, err)
	assert.Len(t, res, 2)
	assert.EqualValues(t, 1, res[0].ID)
	assert.EqualValues(t, 2, res[1].ID)
}

func TestUserService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f userFixture)
		wantErr   bool
	}{
		{
			name: "successful deletion",
			setupMock: func(f userFixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "unknown user",
			setupMock: func(f userFixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newUserFixture(t)
			tt.setupMock(f)

			err := f.svc.Delete(context.Background(), 1)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, http.StatusNotFound, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}
