package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/vbonduro/appcatalog/internal/domain"
	"github.com/vbonduro/appcatalog/internal/service"
)

// appForm is the view model for the admin app create/edit page.
type appForm struct {
	App          *service.AdminAppView // nil on the create page
	Name         string
	Type         domain.AppType
	Description  string
	Errors       map[string]string
	Types        []domain.AppType
	Review       reviewValues
	ReviewErrors map[string]string
	ActiveNav    string
}

type reviewValues struct {
	UserID  int64
	Rating  string
	Comment string
}

func (s *Server) handleAdminListApps(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := service.AppQuery{
		Search: strings.TrimSpace(q.Get("q")),
		Added:  service.ParseDateWindow(q.Get("added")),
	}
	if t := domain.AppType(q.Get("type")); t.Valid() {
		query.Type = t
	}

	apps, err := s.admin.ListApps(r.Context(), query)
	if err != nil {
		s.internalError(w, "failed to list apps", err)
		return
	}

	if err := s.renderPage(w, http.StatusOK,
		map[string]any{
			"Apps":      apps,
			"Query":     query,
			"Types":     domain.AppTypes,
			"Windows":   service.DateWindows,
			"ActiveNav": "admin",
		},
		"base.html", "admin/apps.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleAdminNewApp(w http.ResponseWriter, r *http.Request) {
	s.renderAppForm(w, http.StatusOK, &appForm{Type: domain.AppTypeCommercial})
}

func (s *Server) handleAdminCreateApp(w http.ResponseWriter, r *http.Request) {
	in, fieldErrs, err := readAppInput(r)
	if err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	form := &appForm{Name: in.Name, Type: in.Type, Description: in.Description, Errors: fieldErrs}
	if len(fieldErrs) > 0 {
		s.renderAppForm(w, http.StatusBadRequest, form)
		return
	}

	app, err := s.admin.CreateApp(r.Context(), in)
	if err != nil {
		if errs, ok := mergeFieldErrors(form.Errors, err); ok {
			form.Errors = errs
			s.renderAppForm(w, http.StatusBadRequest, form)
			return
		}
		s.internalError(w, "failed to create app", err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/admin/apps/%d", app.ID), http.StatusSeeOther)
}

func (s *Server) handleAdminEditApp(w http.ResponseWriter, r *http.Request) {
	view, ok := s.loadAdminApp(w, r)
	if !ok {
		return
	}
	s.renderAppForm(w, http.StatusOK, &appForm{
		App:         view,
		Name:        view.Name,
		Type:        view.Type,
		Description: view.Description,
	})
}

func (s *Server) handleAdminUpdateApp(w http.ResponseWriter, r *http.Request) {
	view, ok := s.loadAdminApp(w, r)
	if !ok {
		return
	}

	in, fieldErrs, err := readAppInput(r)
	if err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	form := &appForm{App: view, Name: in.Name, Type: in.Type, Description: in.Description, Errors: fieldErrs}
	if len(fieldErrs) > 0 {
		s.renderAppForm(w, http.StatusBadRequest, form)
		return
	}

	if _, err := s.admin.UpdateApp(r.Context(), view.ID, in); err != nil {
		if errs, ok := mergeFieldErrors(form.Errors, err); ok {
			form.Errors = errs
			s.renderAppForm(w, http.StatusBadRequest, form)
			return
		}
		s.respondError(w, r, "failed to update app", err, "app_id", view.ID)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/admin/apps/%d", view.ID), http.StatusSeeOther)
}

func (s *Server) handleAdminDeleteApp(w http.ResponseWriter, r *http.Request) {
	appID, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := s.admin.DeleteApp(r.Context(), appID); err != nil {
		s.respondError(w, r, "failed to delete app", err, "app_id", appID)
		return
	}

	hxRedirect(w, "/admin/apps")
}

func (s *Server) handleAdminAddReview(w http.ResponseWriter, r *http.Request) {
	view, ok := s.loadAdminApp(w, r)
	if !ok {
		return
	}

	values := reviewValues{
		Rating:  strings.TrimSpace(r.FormValue("rating")),
		Comment: r.FormValue("comment"),
	}
	fieldErrs := map[string]string{}

	userID, err := parseOptionalID(r.FormValue("user"))
	if err != nil {
		fieldErrs["user"] = "Select a valid choice."
	}
	values.UserID = userID

	rating, err := strconv.Atoi(values.Rating)
	switch {
	case values.Rating == "":
		fieldErrs["rating"] = "This field is required."
	case err != nil:
		fieldErrs["rating"] = "Enter a whole number."
	}

	form := &appForm{
		App:          view,
		Name:         view.Name,
		Type:         view.Type,
		Description:  view.Description,
		Review:       values,
		ReviewErrors: fieldErrs,
	}
	if len(fieldErrs) > 0 {
		s.renderAppForm(w, http.StatusBadRequest, form)
		return
	}

	_, err = s.admin.AddReview(r.Context(), view.ID, service.ReviewInput{
		UserID:  userID,
		Rating:  rating,
		Comment: values.Comment,
	})
	if err != nil {
		if errs, ok := mergeFieldErrors(form.ReviewErrors, err); ok {
			form.ReviewErrors = errs
			s.renderAppForm(w, http.StatusBadRequest, form)
			return
		}
		s.respondError(w, r, "failed to add review", err, "app_id", view.ID)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/admin/apps/%d", view.ID), http.StatusSeeOther)
}

func (s *Server) handleAdminDeleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := s.admin.DeleteReview(r.Context(), reviewID); err != nil {
		s.respondError(w, r, "failed to delete review", err, "review_id", reviewID)
		return
	}

	hxRedirect(w, localRedirect(r.URL.Query().Get("next"), "/admin/apps"))
}

// loadAdminApp resolves {id} to the admin app view, answering 404 itself when
// the id is invalid or unknown.
func (s *Server) loadAdminApp(w http.ResponseWriter, r *http.Request) (*service.AdminAppView, bool) {
	appID, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}

	view, err := s.admin.GetApp(r.Context(), appID)
	if err != nil {
		s.internalError(w, "failed to get app", err, "app_id", appID)
		return nil, false
	}
	if view == nil {
		http.NotFound(w, r)
		return nil, false
	}
	return view, true
}

// readAppInput parses the app form, which may be multipart when an image is
// attached. Image problems are reported as field errors, not as err.
func readAppInput(r *http.Request) (service.AppInput, map[string]string, error) {
	if err := r.ParseMultipartForm(maxImageSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return service.AppInput{}, nil, err
	}

	in := service.AppInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
	}
	fieldErrs := map[string]string{}

	appType, ok := domain.ParseAppType(r.FormValue("type"))
	if !ok {
		fieldErrs["type"] = "Select a valid choice."
	}
	in.Type = appType

	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		return in, nil, err
	default:
		defer func() { _ = file.Close() }()
		if header.Size > maxImageSize {
			fieldErrs["image"] = "Image is too large."
			break
		}
		data, err := io.ReadAll(file)
		if err != nil {
			return in, nil, err
		}
		if len(data) == 0 {
			break
		}
		mimeType, ok := allowedImageMIME(data)
		if !ok {
			fieldErrs["image"] = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
			break
		}
		in.Image = &service.ImageUpload{Data: data, MimeType: mimeType}
	}

	return in, fieldErrs, nil
}

func (s *Server) renderAppForm(w http.ResponseWriter, status int, form *appForm) {
	form.Types = domain.AppTypes
	form.ActiveNav = "admin"
	if err := s.renderPage(w, status, form, "base.html", "admin/app_form.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}
