package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/nepremicnine/internal/model"
	"github.com/erazemk/nepremicnine/internal/service"
)

// OwnersHandler handles owner endpoints.
type OwnersHandler struct {
	Owners     *service.OwnerService
	Properties *service.PropertyService
}

// List handles GET /api/owners.
func (h *OwnersHandler) List(w http.ResponseWriter, r *http.Request) {
	owners, err := h.Owners.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, Envelope{
		Success: true,
		Message: "owners retrieved",
		Data:    owners,
		Total:   len(owners),
	})
}

// Create handles POST /api/owners.
func (h *OwnersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.OwnerCreate
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	owner, err := h.Owners.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("owner created", "owner", owner.ID, "name", owner.Name)
	jsonSuccess(w, http.StatusCreated, "owner created", owner)
}

// Get handles GET /api/owners/{id}.
func (h *OwnersHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, err := h.Owners.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonSuccess(w, http.StatusOK, "owner retrieved", owner)
}

// Update handles PUT /api/owners/{id}.
func (h *OwnersHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.OwnerUpdate
	if err := decodeJSON(w, r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	owner, err := h.Owners.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("owner updated", "owner", owner.ID, "name", owner.Name)
	jsonSuccess(w, http.StatusOK, "owner updated", owner)
}

// Delete handles DELETE /api/owners/{id}.
func (h *OwnersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.Owners.Delete(r.Context(), id); err != nil {
		if service.KindOf(err) == service.KindConflict {
			slog.Warn("refused to delete owner", "owner", id, "error", err)
		}
		writeError(w, r, err)
		return
	}

	slog.Info("owner deleted", "owner", id)
	jsonSuccess(w, http.StatusOK, "owner deleted", nil)
}

// ListProperties handles GET /api/owners/{id}/properties.
func (h *OwnersHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	properties, err := h.Properties.ListByOwner(r.Context(), r.PathValue("id"))
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
