package dto

import (
	"shareit/internal/domains/user/model"
)

type CreateUserRequest struct {
	Name  string `json:"name"  validate:"required,max=255"`
	Email string `json:"email" validate:"required,email,max=512"`
}

func (c *CreateUserRequest) ToModel() model.User {
	return model.User{
		Name:  c.Name,
		Email: c.Email,
	}
}

// UpdateUserRequest is a partial update: empty fields keep the stored
// value.
type UpdateUserRequest struct {
	Name  string `json:"name"  validate:"omitempty,max=255"`
	Email string `json:"email" validate:"omitempty,email,max=512"`
}

type UserResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (r *UserResponse) FromModel(user model.User) {
	r.ID = user.ID
	r.Name = user.Name
	r.Email = user.Email
}

type GetUsersResponse []UserResponse

func (r *GetUsersResponse) FromModels(users []model.User) {
	*r = make([]UserResponse, len(users))
	for i, user := range users {
		(*r)[i].FromModel(user)
	}
}
