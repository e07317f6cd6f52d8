package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/erazemk/nepremicnine/internal/service"
)

// maxBodyBytes limits JSON request bodies.
const maxBodyBytes = 1 << 20

// Envelope wraps every API response. Total is set for lists, Page and
// PageSize for searches. All three are zero otherwise.
type Envelope struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Data     any    `json:"data"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// jsonSuccess writes a successful envelope around data.
func jsonSuccess(w http.ResponseWriter, status int, message string, data any) {
	jsonResponse(w, status, Envelope{Success: true, Message: message, Data: data})
}

// jsonError writes a failed envelope.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, Envelope{Success: false, Message: message})
}

// writeError maps a service error to its HTTP status. Internal causes are
// logged, never sent to the client.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(service.KindOf(err))
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	jsonError(w, status, service.MessageOf(err))
}

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
