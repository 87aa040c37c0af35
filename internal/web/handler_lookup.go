package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/vbonduro/appcatalog/internal/domain"
	"github.com/vbonduro/appcatalog/internal/service"
)

// lookupForm is the view model for the store lookup page. Result stays nil
// until a valid selection has been looked up.
type lookupForm struct {
	Apps      []*domain.App
	Selected  int64
	Error     string
	Result    *lookupResult
	ActiveNav string
}

type lookupResult struct {
	App    *domain.App
	Stores []*domain.Store
}

func (s *Server) handleLookupForm(w http.ResponseWriter, r *http.Request) {
	apps, err := s.catalog.ListApps(r.Context())
	if err != nil {
		s.internalError(w, "failed to list apps", err)
		return
	}

	s.renderLookup(w, http.StatusOK, &lookupForm{Apps: apps})
}

func (s *Server) handleLookupSubmit(w http.ResponseWriter, r *http.Request) {
	apps, err := s.catalog.ListApps(r.Context())
	if err != nil {
		s.internalError(w, "failed to list apps", err)
		return
	}
	form := &lookupForm{Apps: apps}

	app, msg := selectApp(apps, r.FormValue("app"))
	if app == nil {
		form.Error = msg
		s.renderLookup(w, http.StatusBadRequest, form)
		return
	}
	form.Selected = app.ID

	stores, err := s.catalog.LookupStores(r.Context(), app.ID)
	if errors.Is(err, service.ErrAppNotFound) {
		// deleted between listing and lookup
		form.Error = invalidChoice
		s.renderLookup(w, http.StatusBadRequest, form)
		return
	}
	if err != nil {
		s.internalError(w, "failed to look up stores", err, "app_id", app.ID)
		return
	}
	form.Result = &lookupResult{App: app, Stores: stores}
	s.renderLookup(w, http.StatusOK, form)
}

const invalidChoice = "Select a valid choice. That choice is not one of the available choices."

// selectApp resolves the submitted value against the listed apps. It returns
// nil and a field message when the value is missing or matches no app.
func selectApp(apps []*domain.App, raw string) (*domain.App, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, "This field is required."
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, invalidChoice
	}
	for _, a := range apps {
		if a.ID == id {
			return a, ""
		}
	}
	return nil, invalidChoice
}

func (s *Server) renderLookup(w http.ResponseWriter, status int, form *lookupForm) {
	form.ActiveNav = "lookup"
	if err := s.renderPage(w, status, form,
		"base.html", "pages/app_stores.html", "partials/store_results.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}
