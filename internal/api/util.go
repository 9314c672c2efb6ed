package api

import (
	"encoding/json"
	"net/http"
)

func WriteJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	encoder := json.NewEncoder(w)
	// Payload strings and links must not have &, < and > escaped.
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(data)
}

// DecodeJSON decodes the request body into v, rejecting unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return NewError(ErrCodeInvalidRequest, http.StatusBadRequest, "invalid request body: "+err.Error())
	}
	return nil
}
