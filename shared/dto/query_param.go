package dto

import (
	"net/http"
	"strconv"

	"shareit/shared/constant"
	"shareit/shared/failure"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

// QueryParams is the page-based shape the repository layer consumes.
type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// OffsetParams is the offset/limit pagination pair the HTTP surface
// speaks: ?from=&size=.
type OffsetParams struct {
	From int
	Size int
}

// FromRequest populates OffsetParams from the request query, applying
// the defaults from=0, size=10.
func (p *OffsetParams) FromRequest(r *http.Request) error {
	p.From = constant.DefaultValueFrom
	p.Size = constant.DefaultValueSize

	queryParams := r.URL.Query()

	if from := queryParams.Get(constant.RequestParamFrom); from != "" {
		fromInt, err := strconv.Atoi(from)
		if err != nil || fromInt < 0 {
			return failure.InvalidFromParam
		}

		p.From = fromInt
	}

	if size := queryParams.Get(constant.RequestParamSize); size != "" {
		sizeInt, err := strconv.Atoi(size)
		if err != nil || sizeInt <= 0 {
			return failure.InvalidSizeParam
		}

		p.Size = sizeInt
	}

	return nil
}

// Pageable converts the offset pair into the page-based shape:
// page index = floor(from / size), pages are 1-based internally.
// A non-positive size falls back to the default so callers that build
// OffsetParams directly cannot divide by zero.
func (p OffsetParams) Pageable(sortBy, sortDir string) QueryParams {
	size := p.Size
	if size <= 0 {
		size = constant.DefaultValueSize
	}

	return QueryParams{
		Page:    p.From/size + 1,
		Limit:   size,
		SortBy:  sortBy,
		SortDir: sortDir,
	}
}
