package api

import (
	"net/url"
	"strconv"

	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/page"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/timeutil"
)

type ContextKey string

const (
	CtxKeyRequestID ContextKey = "request_id"
)

const (
	HeaderRequestID = "X-Request-ID"
)

type Response[T any] struct {
	Data  T      `json:"data"`
	Links *Links `json:"links,omitempty"`
	Meta  *Meta  `json:"meta"`
}

func NewResponse[T any](data T, self string) Response[T] {
	return Response[T]{
		Data:  data,
		Links: NewLinks(self),
		Meta:  NewMeta(),
	}
}

type Links struct {
	First string `json:"first,omitempty"`
	Last  string `json:"last,omitempty"`
	Next  string `json:"next,omitempty"`
	Prev  string `json:"prev,omitempty"`
	Self  string `json:"self"`
}

func NewLinks(self string) *Links {
	return &Links{
		Self: self,
	}
}

// NewPaginatedLinks generates pagination links (self, first, prev, next, last) based on
// the current page information and the requested URL.
func NewPaginatedLinks[T any](requestedURL string, p page.Page[T]) *Links {
	buildURL := func(pageNumber int) string {
		u, _ := url.Parse(requestedURL)
		query := u.Query()
		query.Set("page", strconv.Itoa(pageNumber))
		query.Set("page-size", strconv.Itoa(p.Size))
		u.RawQuery = query.Encode()
		return u.String()
	}

	links := &Links{
		Self: requestedURL,
	}

	if p.Number > 1 {
		links.First = buildURL(1)
		links.Prev = buildURL(p.Number - 1)
	}

	if p.Number < p.TotalPages {
		links.Next = buildURL(p.Number + 1)
		links.Last = buildURL(p.TotalPages)
	}

	return links
}

type Meta struct {
	RequestDateTime timeutil.DateTime `json:"requestDateTime"`
	TotalRecords    *int              `json:"totalRecords,omitempty"`
	TotalPages      *int              `json:"totalPages,omitempty"`
}

func NewMeta() *Meta {
	return &Meta{
		RequestDateTime: timeutil.DateTimeNow(),
	}
}

func NewPaginatedMeta[T any](p page.Page[T]) *Meta {
	return &Meta{
		RequestDateTime: timeutil.DateTimeNow(),
		TotalRecords:    &p.TotalRecords,
		TotalPages:      &p.TotalPages,
	}
}

// NewPagination reads the "page" and "page-size" query parameters.
func NewPagination(u *url.URL) page.Pagination {
	number, _ := strconv.Atoi(u.Query().Get("page"))
	size, _ := strconv.Atoi(u.Query().Get("page-size"))
	return page.NewPagination(number, size)
}
