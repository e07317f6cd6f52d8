package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/erazemk/nepremicnine/internal/api"
	"github.com/erazemk/nepremicnine/internal/imaging"
	"github.com/erazemk/nepremicnine/internal/model"
	"github.com/erazemk/nepremicnine/internal/service"
)

// pager holds the links around one page of search results.
type pager struct {
	Page    int
	Pages   int
	Total   int
	PrevURL string
	NextURL string
}

func newPager(q url.Values, f model.PropertyFilter, total int) pager {
	p := pager{Page: f.Page, Total: total, Pages: (total + f.PageSize - 1) / f.PageSize}
	link := func(page int) string {
		v := url.Values{}
		for k, vals := range q {
			v[k] = vals
		}
		v.Set("page", strconv.Itoa(page))
		return "/properties?" + v.Encode()
	}
	if f.Page > 1 {
		p.PrevURL = link(f.Page - 1)
	}
	if f.Page < p.Pages {
		p.NextURL = link(f.Page + 1)
	}
	return p
}

// PropertiesPage handles GET /properties.
func (s *Server) PropertiesPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := &struct {
		PageData
		Query      url.Values
		Properties []model.PropertyView
		Pager      pager
	}{
		PageData: PageData{Title: "Nepremičnine"},
		Query:    q,
	}

	f, err := api.ParseFilter(q)
	if err != nil {
		data.Error = err.Error()
		s.Templates.RenderStatus(w, http.StatusBadRequest, "properties.html", data)
		return
	}

	properties, total, err := s.Properties.Search(r.Context(), f)
	if err != nil {
		httpError(w, err)
		return
	}
	data.Properties = properties
	data.Pager = newPager(q, f, total)

	s.Templates.Render(w, "properties.html", data)
}

// PropertyDetailPage handles GET /properties/{id}.
func (s *Server) PropertyDetailPage(w http.ResponseWriter, r *http.Request) {
	property, err := s.Properties.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		httpError(w, err)
		return
	}

	s.Templates.Render(w, "property_detail.html", &struct {
		PageData
		Property *model.PropertyView
	}{
		PageData: PageData{Title: property.Name, Success: r.URL.Query().Get("ok")},
		Property: property,
	})
}

type propertyNewData struct {
	PageData
	Owners []model.Owner
	Form   url.Values
}

func (s *Server) renderPropertyNew(w http.ResponseWriter, r *http.Request, status int, form url.Values, msg string) {
	owners, err := s.Owners.List(r.Context())
	if err != nil {
		slog.Error("failed to list owners", "error", err)
	}
	s.Templates.RenderStatus(w, status, "property_new.html", &propertyNewData{
		PageData: PageData{Title: "Nova nepremičnina", Error: msg},
		Owners:   owners,
		Form:     form,
	})
}

// PropertyNewPage handles GET /properties/new.
func (s *Server) PropertyNewPage(w http.ResponseWriter, r *http.Request) {
	form := url.Values{}
	form.Set("idOwner", r.URL.Query().Get("owner"))
	s.renderPropertyNew(w, r, http.StatusOK, form, "")
}

// PropertyCreateSubmit handles POST /properties.
func (s *Server) PropertyCreateSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	in := model.PropertyCreate{
		Name:    strings.TrimSpace(r.FormValue("name")),
		Address: strings.TrimSpace(r.FormValue("address")),
		OwnerID: r.FormValue("idOwner"),
		Image:   strings.TrimSpace(r.FormValue("image")),
	}
	var err error
	if in.Price, err = formPrice(r.FormValue("price")); err != nil {
		s.renderPropertyNew(w, r, http.StatusBadRequest, r.PostForm, err.Error())
		return
	}
	if in.Year, err = formInt(r.FormValue("year"), "year"); err != nil {
		s.renderPropertyNew(w, r, http.StatusBadRequest, r.PostForm, err.Error())
		return
	}

	property, err := s.Properties.Create(r.Context(), in)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			httpError(w, err)
			return
		}
		s.renderPropertyNew(w, r, status, r.PostForm, service.MessageOf(err))
		return
	}

	slog.Info("property created", "property", property.ID, "name", property.Name, "code", property.CodeInternal)
	http.Redirect(w, r, "/properties/"+property.ID, http.StatusSeeOther)
}

// PropertyUpdateSubmit handles POST /properties/{id}. Blank fields are left
// unchanged.
func (s *Server) PropertyUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	in := model.PropertyUpdate{
		Name:    strings.TrimSpace(r.FormValue("name")),
		Address: strings.TrimSpace(r.FormValue("address")),
		Image:   strings.TrimSpace(r.FormValue("image")),
	}
	if v := r.FormValue("price"); v != "" {
		price, err := formPrice(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		in.Price = &price
	}
	if v := r.FormValue("year"); v != "" {
		year, err := formInt(v, "year")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		in.Year = &year
	}

	property, err := s.Properties.Update(r.Context(), id, in)
	if err != nil {
		httpError(w, err)
		return
	}

	slog.Info("property updated", "property", property.ID, "name", property.Name)
	http.Redirect(w, r, fmt.Sprintf("/properties/%s?ok=%s", id, url.QueryEscape("Shranjeno.")), http.StatusSeeOther)
}

// PropertyImageSubmit handles POST /properties/{id}/image.
func (s *Server) PropertyImageSubmit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	r.Body = http.MaxBytesReader(w, r.Body, imaging.DefaultMaxBytes+64<<10)
	if err := r.ParseMultipartForm(imaging.DefaultMaxBytes); err != nil {
		http.Error(w, "file too large", http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "image required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	property, err := s.Properties.SetImage(r.Context(), id, file)
	if err != nil {
		httpError(w, err)
		return
	}

	slog.Info("property image uploaded", "property", property.ID, "image", property.Image)
	http.Redirect(w, r, "/properties/"+id, http.StatusSeeOther)
}

// PropertyDeleteSubmit handles POST /properties/{id}/delete.
func (s *Server) PropertyDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.Properties.Delete(r.Context(), id); err != nil {
		httpError(w, err)
		return
	}

	slog.Info("property deleted", "property", id)
	http.Redirect(w, r, "/properties", http.StatusSeeOther)
}

func formPrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("price required")
	}
	// Accept a decimal comma.
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return decimal.Zero, fmt.Errorf("price must be a number")
	}
	return d, nil
}

func formInt(s, field string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", field)
	}
	return n, nil
}
