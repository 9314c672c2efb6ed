package merchant

import (
	"errors"
	"net/http"

	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/api"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/paynow"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/timeutil"
)

type Server struct {
	host    string
	service Service
}

func NewServer(host string, service Service) Server {
	return Server{host: host, service: service}
}

func (s Server) Register(mux *http.ServeMux) {
	mux.Handle("GET /api/settings", s.settingsHandler())
	mux.Handle("PUT /api/settings", s.saveSettingsHandler())
}

func (s Server) settingsHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		settings, err := s.service.Settings(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}

		api.WriteJSON(w, api.NewResponse(toResponse(settings), s.host+"/api/settings"), http.StatusOK)
	})
}

func (s Server) saveSettingsHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req settingsRequest
		if err := api.DecodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}

		settings := &Settings{
			Name:           req.Name,
			Mobile:         req.Mobile,
			UEN:            req.UEN,
			EditableAmount: req.EditableAmount,
		}
		if err := s.service.Save(r.Context(), settings); err != nil {
			writeError(w, r, err)
			return
		}

		api.WriteJSON(w, api.NewResponse(toResponse(settings), s.host+"/api/settings"), http.StatusOK)
	})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *paynow.ValidationError
	if errors.As(err, &validationErr) {
		api.WriteError(w, r, api.NewError(string(validationErr.Kind), http.StatusUnprocessableEntity, validationErr.Error()))
		return
	}

	if errors.Is(err, ErrNotConfigured) {
		api.WriteError(w, r, api.NewError(api.ErrCodeNotFound, http.StatusNotFound, err.Error()))
		return
	}

	api.WriteError(w, r, err)
}

type settingsRequest struct {
	Name           string `json:"name"`
	Mobile         string `json:"mobile"`
	UEN            string `json:"uen"`
	EditableAmount bool   `json:"editableAmount"`
}

type settingsResponse struct {
	Name           string            `json:"name"`
	Mobile         string            `json:"mobile,omitempty"`
	UEN            string            `json:"uen,omitempty"`
	EditableAmount bool              `json:"editableAmount"`
	UpdatedAt      timeutil.DateTime `json:"updatedAt"`
}

func toResponse(s *Settings) settingsResponse {
	return settingsResponse{
		Name:           s.Name,
		Mobile:         s.Mobile,
		UEN:            s.UEN,
		EditableAmount: s.EditableAmount,
		UpdatedAt:      timeutil.NewDateTime(s.UpdatedAt),
	}
}
