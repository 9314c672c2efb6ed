package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/errorutil"
)

const (
	ErrCodeInternal       = "INTERNAL_ERROR"
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeNotFound       = "NOT_FOUND"
)

type Error struct {
	code        string
	statusCode  int
	description string
}

func (err Error) Error() string {
	return fmt.Sprintf("%s %s", err.code, err.description)
}

func (err Error) Code() string {
	return err.code
}

func (err Error) StatusCode() int {
	return err.statusCode
}

func NewError(code string, status int, description string) Error {
	return Error{
		code:        code,
		statusCode:  status,
		description: description,
	}
}

// WriteError writes err as an error response. Errors that are neither an
// Error nor exposable through errorutil are logged and hidden behind a
// generic internal error.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr Error
	if !errors.As(err, &apiErr) {
		if errors.As(err, &errorutil.Error{}) {
			apiErr = NewError(ErrCodeInvalidRequest, http.StatusUnprocessableEntity, err.Error())
		} else {
			slog.ErrorContext(r.Context(), "unexpected error", "error", err)
			apiErr = NewError(ErrCodeInternal, http.StatusInternalServerError, "internal error")
		}
	}

	errResp := errorResponse{
		Errors: []errorDetail{
			{
				Code:   apiErr.code,
				Title:  apiErr.code,
				Detail: apiErr.description,
			},
		},
		Meta: NewMeta(),
	}

	WriteJSON(w, errResp, apiErr.statusCode)
}

type errorResponse struct {
	Errors []errorDetail `json:"errors"`
	Meta   *Meta         `json:"meta"`
}

type errorDetail struct {
	Code   string `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}
