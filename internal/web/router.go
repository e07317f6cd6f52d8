package web

import (
	"net/http"

	"github.com/erazemk/nepremicnine/internal/service"
	webembed "github.com/erazemk/nepremicnine/web"
)

// NewRouter creates the web page router with all page routes registered.
func NewRouter(properties *service.PropertyService, owners *service.OwnerService) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Properties: properties,
		Owners:     owners,
		Templates:  templates,
	}

	mux := http.NewServeMux()

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/properties", http.StatusSeeOther)
	})

	mux.HandleFunc("GET /properties", s.PropertiesPage)
	mux.HandleFunc("POST /properties", s.PropertyCreateSubmit)
	mux.HandleFunc("GET /properties/new", s.PropertyNewPage)
	mux.HandleFunc("GET /properties/{id}", s.PropertyDetailPage)
	mux.HandleFunc("POST /properties/{id}", s.PropertyUpdateSubmit)
	mux.HandleFunc("POST /properties/{id}/image", s.PropertyImageSubmit)
	mux.HandleFunc("POST /properties/{id}/delete", s.PropertyDeleteSubmit)

	mux.HandleFunc("GET /owners", s.OwnersPage)
	mux.HandleFunc("POST /owners", s.OwnerCreateSubmit)
	mux.HandleFunc("GET /owners/{id}", s.OwnerDetailPage)
	mux.HandleFunc("POST /owners/{id}", s.OwnerUpdateSubmit)
	mux.HandleFunc("POST /owners/{id}/delete", s.OwnerDeleteSubmit)

	return mux, nil
}
