package api

import (
	"net/http"

	"github.com/erazemk/nepremicnine/internal/service"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(properties *service.PropertyService, owners *service.OwnerService) http.Handler {
	mux := http.NewServeMux()

	propertiesHandler := &PropertiesHandler{Properties: properties}
	ownersHandler := &OwnersHandler{Owners: owners, Properties: properties}
	imagesHandler := &ImagesHandler{Properties: properties}

	// Properties.
	mux.HandleFunc("GET /api/properties", propertiesHandler.List)
	mux.HandleFunc("GET /api/properties/search", propertiesHandler.Search)
	mux.HandleFunc("POST /api/properties", propertiesHandler.Create)
	mux.HandleFunc("GET /api/properties/{id}", propertiesHandler.Get)
	mux.HandleFunc("PUT /api/properties/{id}", propertiesHandler.Update)
	mux.HandleFunc("DELETE /api/properties/{id}", propertiesHandler.Delete)
	mux.HandleFunc("PUT /api/properties/{id}/image", imagesHandler.Upload)

	// Uploaded images.
	mux.HandleFunc("GET /api/images/{key...}", imagesHandler.Get)

	// Owners.
	mux.HandleFunc("GET /api/owners", ownersHandler.List)
	mux.HandleFunc("POST /api/owners", ownersHandler.Create)
	mux.HandleFunc("GET /api/owners/{id}", ownersHandler.Get)
	mux.HandleFunc("PUT /api/owners/{id}", ownersHandler.Update)
	mux.HandleFunc("DELETE /api/owners/{id}", ownersHandler.Delete)
	mux.HandleFunc("GET /api/owners/{id}/properties", ownersHandler.ListProperties)

	// Anything else under /api is a JSON 404 rather than the web UI.
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusNotFound, "endpoint not found")
	})

	return mux
}
