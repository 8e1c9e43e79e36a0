package dto

import (
	itemDto "shareit/internal/domains/item/model/dto"
	"shareit/internal/domains/request/model"
	"shareit/shared/constant"
	"shareit/shared/timezone"
)

type CreateRequestRequest struct {
	Description string `json:"description" validate:"required,max=2000"`
}

func (c *CreateRequestRequest) ToModel(requestorID int64) model.Request {
	return model.Request{
		Description: c.Description,
		RequestorID: requestorID,
		Created:     timezone.Now(),
	}
}

type RequestResponse struct {
	ID          int64                  `json:"id"`
	Description string                 `json:"description"`
	Created     string                 `json:"created"`
	Items       []itemDto.ItemResponse `json:"items"`
}

func (r *RequestResponse) FromModel(request model.Request) {
	r.ID = request.ID
	r.Description = request.Description
	r.Created = timezone.Format(request.Created, constant.DateTimeFormat)
	r.Items = []itemDto.ItemResponse{}
}

type GetRequestsResponse []RequestResponse

func (r *GetRequestsResponse) FromModels(requests []model.Request) {
	*r = make([]RequestResponse, len(requests))
	for i, request := range requests {
		(*r)[i].FromModel(request)
	}
}
