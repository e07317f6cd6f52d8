package api

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/erazemk/nepremicnine/internal/model"
	"github.com/erazemk/nepremicnine/internal/service"
)

// PropertiesHandler handles property endpoints.
type PropertiesHandler struct {
	Properties *service.PropertyService
}

// List handles GET /api/properties.
func (h *PropertiesHandler) List(w http.ResponseWriter, r *http.Request) {
	properties, err := h.Properties.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, Envelope{
		Success: true,
		Message: "properties retrieved",
		Data:    properties,
		Total:   len(properties),
	})
}

// Search handles GET /api/properties/search.
func (h *PropertiesHandler) Search(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseFilter(r.URL.Query())
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	properties, total, err := h.Properties.Search(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, Envelope{
		Success:  true,
		Message:  "properties retrieved",
		Data:     properties,
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	})
}

// ParseFilter reads a property filter from query parameters, applying the
// paging defaults. Malformed numbers and out-of-range paging are errors.
func ParseFilter(q url.Values) (model.PropertyFilter, error) {
	f := model.PropertyFilter{
		Name:     q.Get("name"),
		Address:  q.Get("address"),
		Page:     model.DefaultPage,
		PageSize: model.DefaultPageSize,
	}

	var err error
	if f.MinPrice, err = parsePrice(q, "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = parsePrice(q, "maxPrice"); err != nil {
		return f, err
	}
	if f.Page, err = parseInt(q, "page", f.Page); err != nil {
		return f, err
	}
	if f.PageSize, err = parseInt(q, "pageSize", f.PageSize); err != nil {
		return f, err
	}

	return f, f.Validate()
}

func parsePrice(q url.Values, key string) (*decimal.Decimal, error) {
	s := q.Get(key)
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, &paramError{key: key, reason: "must be a number"}
	}
	return &d, nil
}

func parseInt(q url.Values, key string, def int) (int, error) {
	s := q.Get(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &paramError{key: key, reason: "must be an integer"}
	}
	return n, nil
}

type paramError struct {
	key    string
	reason string
}

func (e *paramError) Error() string { return e.key + " " + e.reason }

// Get handles GET /api/properties/{id}.
func (h *PropertiesHandler) Get(w http.ResponseWriter, r *http.Request) {
	property, err := h.Properties.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonSuccess(w, http.StatusOK, "property retrieved", property)
}

// Create handles POST /api/properties.
func (h *PropertiesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.PropertyCreate
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	property, err := h.Properties.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("property created", "property", property.ID, "code", property.CodeInternal, "owner", property.OwnerID)
	jsonSuccess(w, http.StatusCreated, "property created", property)
}

// Update handles PUT /api/properties/{id}.
func (h *PropertiesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.PropertyUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	property, err := h.Properties.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("property updated", "property", property.ID)
	jsonSuccess(w, http.StatusOK, "property updated", property)
}

// Delete handles DELETE /api/properties/{id}.
func (h *PropertiesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.Properties.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("property deleted", "property", id)
	jsonSuccess(w, http.StatusOK, "property deleted", nil)
}
