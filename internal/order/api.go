package order

import (
	"errors"
	"net/http"
	"strings"

	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/api"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/idempotency"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/merchant"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/paynow"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/qrimage"
	"github.com/digimarketingagencysingapore-byte/paynowgo.com-sub001/internal/timeutil"
	"github.com/google/uuid"
)

type Server struct {
	host               string
	service            Service
	idempotencyService idempotency.Service
	qrOptions          qrimage.Options
}

func NewServer(
	host string,
	service Service,
	idempotencyService idempotency.Service,
	qrOptions qrimage.Options,
) Server {
	return Server{
		host:               host,
		service:            service,
		idempotencyService: idempotencyService,
		qrOptions:          qrOptions,
	}
}

func (s Server) Register(mux *http.ServeMux) {
	handler := s.createOrderHandler()
	handler = idempotency.Middleware(s.idempotencyService)(handler)
	mux.Handle("POST /api/orders", handler)

	mux.Handle("GET /api/orders", s.ordersHandler())
	mux.Handle("GET /api/orders/{id}", s.orderHandler())
	mux.Handle("POST /api/orders/{id}/cancel", s.cancelOrderHandler())
	mux.Handle("POST /api/orders/{id}/pay", s.markPaidHandler())
	mux.Handle("GET /api/orders/{id}/qr.svg", s.qrHandler("image/svg+xml", qrimage.SVG))
	mux.Handle("GET /api/orders/{id}/qr.png", s.qrHandler("image/png", qrimage.PNG))
}

func (s Server) createOrderHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req createOrderRequest
		if err := api.DecodeJSON(r, &req); err != nil {
			writeError(w, r, err)
			return
		}

		amount, err := paynow.ParseAmount(req.Amount)
		if err != nil {
			writeError(w, r, err)
			return
		}

		o := &Order{
			Reference: strings.TrimSpace(req.Reference),
			Amount:    amount,
		}
		if err := s.service.Create(r.Context(), o, req.EditableAmount); err != nil {
			writeError(w, r, err)
			return
		}

		api.WriteJSON(w, api.NewResponse(toResponse(o), s.orderURL(o.ID)), http.StatusCreated)
	})
}

func (s Server) ordersHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pag := api.NewPagination(r.URL)
		filter := Filter{Status: Status(r.URL.Query().Get("status"))}

		orders, err := s.service.Orders(r.Context(), filter, pag)
		if err != nil {
			writeError(w, r, err)
			return
		}

		resp := api.Response[[]orderResponse]{
			Data:  make([]orderResponse, 0, len(orders.Records)),
			Links: api.NewPaginatedLinks(s.host+r.URL.RequestURI(), orders),
			Meta:  api.NewPaginatedMeta(orders),
		}
		for _, o := range orders.Records {
			resp.Data = append(resp.Data, toResponse(o))
		}
		api.WriteJSON(w, resp, http.StatusOK)
	})
}

func (s Server) orderHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := orderID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		o, err := s.service.Order(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}

		api.WriteJSON(w, api.NewResponse(toResponse(o), s.orderURL(o.ID)), http.StatusOK)
	})
}

func (s Server) cancelOrderHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := orderID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		o, err := s.service.Cancel(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}

		api.WriteJSON(w, api.NewResponse(toResponse(o), s.orderURL(o.ID)), http.StatusOK)
	})
}

func (s Server) markPaidHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := orderID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		o, err := s.service.MarkPaid(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}

		api.WriteJSON(w, api.NewResponse(toResponse(o), s.orderURL(o.ID)), http.StatusOK)
	})
}

func (s Server) qrHandler(contentType string, render func(string, qrimage.Options) ([]byte, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := orderID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		o, err := s.service.Order(r.Context(), id)
		if err != nil {
			writeError(w, r, err)
			return
		}

		img, err := render(o.QRPayload, s.qrOptions)
		if err != nil {
			writeError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Cache-Control", "private, max-age=300")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(img)
	})
}

func (s Server) orderURL(id uuid.UUID) string {
	return s.host + "/api/orders/" + id.String()
}

func orderID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.UUID{}, api.NewError(api.ErrCodeInvalidRequest, http.StatusBadRequest, "invalid order id")
	}
	return id, nil
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *paynow.ValidationError
	if errors.As(err, &validationErr) {
		api.WriteError(w, r, api.NewError(string(validationErr.Kind), http.StatusUnprocessableEntity, validationErr.Error()))
		return
	}

	if errors.Is(err, ErrNotFound) {
		api.WriteError(w, r, api.NewError(api.ErrCodeNotFound, http.StatusNotFound, err.Error()))
		return
	}

	if errors.Is(err, ErrInvalidStatus) {
		api.WriteError(w, r, api.NewError("INVALID_STATUS", http.StatusConflict, err.Error()))
		return
	}

	if errors.Is(err, merchant.ErrNotConfigured) {
		api.WriteError(w, r, api.NewError("SETTINGS_NOT_CONFIGURED", http.StatusUnprocessableEntity, err.Error()))
		return
	}

	api.WriteError(w, r, err)
}

type createOrderRequest struct {
	Amount         string `json:"amount"`
	Reference      string `json:"reference"`
	EditableAmount *bool  `json:"editableAmount"`
}

type orderResponse struct {
	ID             string             `json:"id"`
	Reference      string             `json:"reference"`
	Amount         string             `json:"amount"`
	EditableAmount bool               `json:"editableAmount"`
	Status         Status             `json:"status"`
	QRPayload      string             `json:"qrPayload"`
	CreatedAt      timeutil.DateTime  `json:"createdAt"`
	PaidAt         *timeutil.DateTime `json:"paidAt,omitempty"`
	CancelledAt    *timeutil.DateTime `json:"cancelledAt,omitempty"`
}

func toResponse(o *Order) orderResponse {
	resp := orderResponse{
		ID:             o.ID.String(),
		Reference:      o.Reference,
		Amount:         o.Amount.StringFixed(2),
		EditableAmount: o.EditableAmount,
		Status:         o.Status,
		QRPayload:      o.QRPayload,
		CreatedAt:      timeutil.NewDateTime(o.CreatedAt),
	}
	if o.PaidAt != nil {
		paidAt := timeutil.NewDateTime(*o.PaidAt)
		resp.PaidAt = &paidAt
	}
	if o.CancelledAt != nil {
		cancelledAt := timeutil.NewDateTime(*o.CancelledAt)
		resp.CancelledAt = &cancelledAt
	}
	return resp
}
