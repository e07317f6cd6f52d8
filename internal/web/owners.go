package web

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/erazemk/nepremicnine/internal/model"
	"github.com/erazemk/nepremicnine/internal/service"
)

type ownersData struct {
	PageData
	Owners []model.Owner
	Form   url.Values
}

func (s *Server) renderOwners(w http.ResponseWriter, r *http.Request, status int, form url.Values, msg string) {
	owners, err := s.Owners.List(r.Context())
	if err != nil {
		slog.Error("failed to list owners", "error", err)
	}
	s.Templates.RenderStatus(w, status, "owners.html", &ownersData{
		PageData: PageData{Title: "Lastniki", Error: msg},
		Owners:   owners,
		Form:     form,
	})
}

// OwnersPage handles GET /owners.
func (s *Server) OwnersPage(w http.ResponseWriter, r *http.Request) {
	s.renderOwners(w, r, http.StatusOK, url.Values{}, "")
}

// OwnerCreateSubmit handles POST /owners.
func (s *Server) OwnerCreateSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	in := model.OwnerCreate{
		Name:    strings.TrimSpace(r.FormValue("name")),
		Address: strings.TrimSpace(r.FormValue("address")),
		Phone:   strings.TrimSpace(r.FormValue("phone")),
	}
	if v := r.FormValue("birthday"); v != "" {
		birthday, err := model.ParseDate(v)
		if err != nil {
			s.renderOwners(w, r, http.StatusBadRequest, r.PostForm, err.Error())
			return
		}
		in.Birthday = birthday
	}

	owner, err := s.Owners.Create(r.Context(), in)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			httpError(w, err)
			return
		}
		s.renderOwners(w, r, status, r.PostForm, service.MessageOf(err))
		return
	}

	slog.Info("owner created", "owner", owner.ID, "name", owner.Name)
	http.Redirect(w, r, "/owners", http.StatusSeeOther)
}

type ownerDetailData struct {
	PageData
	Owner      *model.Owner
	Properties []model.PropertyView
}

func (s *Server) renderOwnerDetail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	id := r.PathValue("id")
	owner, err := s.Owners.Get(r.Context(), id)
	if err != nil {
		httpError(w, err)
		return
	}

	properties, err := s.Properties.ListByOwner(r.Context(), id)
	if err != nil {
		slog.Error("failed to list owner properties", "owner", id, "error", err)
	}

	s.Templates.RenderStatus(w, status, "owner_detail.html", &ownerDetailData{
		PageData:   PageData{Title: owner.Name, Error: msg},
		Owner:      owner,
		Properties: properties,
	})
}

// OwnerDetailPage handles GET /owners/{id}.
func (s *Server) OwnerDetailPage(w http.ResponseWriter, r *http.Request) {
	s.renderOwnerDetail(w, r, http.StatusOK, "")
}

// OwnerUpdateSubmit handles POST /owners/{id}. Blank fields are left unchanged.
func (s *Server) OwnerUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	in := model.OwnerUpdate{
		Name:    strings.TrimSpace(r.FormValue("name")),
		Address: strings.TrimSpace(r.FormValue("address")),
		Phone:   strings.TrimSpace(r.FormValue("phone")),
	}
	if v := r.FormValue("birthday"); v != "" {
		birthday, err := model.ParseDate(v)
		if err != nil {
			s.renderOwnerDetail(w, r, http.StatusBadRequest, err.Error())
			return
		}
		in.Birthday = &birthday
	}

	owner, err := s.Owners.Update(r.Context(), id, in)
	if err != nil {
		if service.KindOf(err) == service.KindValidation {
			s.renderOwnerDetail(w, r, http.StatusBadRequest, service.MessageOf(err))
			return
		}
		httpError(w, err)
		return
	}

	slog.Info("owner updated", "owner", owner.ID, "name", owner.Name)
	http.Redirect(w, r, "/owners/"+id, http.StatusSeeOther)
}

// OwnerDeleteSubmit handles POST /owners/{id}/delete.
func (s *Server) OwnerDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.Owners.Delete(r.Context(), id); err != nil {
		if service.KindOf(err) == service.KindConflict {
			slog.Warn("refused to delete owner", "owner", id, "error", err)
			s.renderOwnerDetail(w, r, http.StatusConflict, service.MessageOf(err))
			return
		}
		httpError(w, err)
		return
	}

	slog.Info("owner deleted", "owner", id)
	http.Redirect(w, r, "/owners", http.StatusSeeOther)
}
