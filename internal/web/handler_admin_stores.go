package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/vbonduro/appcatalog/internal/domain"
	"github.com/vbonduro/appcatalog/internal/service"
)

// storeForm is the view model for the admin store create/edit page.
type storeForm struct {
	Store     *service.StoreView // nil on the create page
	Name      string
	Location  string
	Selected  map[int64]bool
	Apps      []*domain.App
	Errors    map[string]string
	ActiveNav string
}

func (s *Server) handleAdminListStores(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := service.StoreQuery{Search: strings.TrimSpace(q.Get("q"))}
	if appID, err := parseOptionalID(q.Get("app")); err == nil {
		query.AppID = appID
	}

	stores, err := s.admin.ListStores(r.Context(), query)
	if err != nil {
		s.internalError(w, "failed to list stores", err)
		return
	}
	apps, err := s.admin.AllApps(r.Context())
	if err != nil {
		s.internalError(w, "failed to list apps", err)
		return
	}

	if err := s.renderPage(w, http.StatusOK,
		map[string]any{"Stores": stores, "Apps": apps, "Query": query, "ActiveNav": "admin"},
		"base.html", "admin/stores.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleAdminNewStore(w http.ResponseWriter, r *http.Request) {
	s.renderStoreForm(w, r, http.StatusOK, newStoreForm(nil, service.StoreInput{}, nil))
}

func (s *Server) handleAdminCreateStore(w http.ResponseWriter, r *http.Request) {
	in, fieldErrs, err := readStoreInput(r)
	if err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	form := newStoreForm(nil, in, fieldErrs)
	if len(fieldErrs) > 0 {
		s.renderStoreForm(w, r, http.StatusBadRequest, form)
		return
	}

	st, err := s.admin.CreateStore(r.Context(), in)
	if err != nil {
		if errs, ok := mergeFieldErrors(form.Errors, err); ok {
			form.Errors = errs
			s.renderStoreForm(w, r, http.StatusBadRequest, form)
			return
		}
		s.internalError(w, "failed to create store", err)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/admin/stores/%d", st.ID), http.StatusSeeOther)
}

func (s *Server) handleAdminEditStore(w http.ResponseWriter, r *http.Request) {
	view, ok := s.loadAdminStore(w, r)
	if !ok {
		return
	}
	in := service.StoreInput{Name: view.Name, Location: view.Location, AppIDs: view.AppIDs}
	s.renderStoreForm(w, r, http.StatusOK, newStoreForm(view, in, nil))
}

func (s *Server) handleAdminUpdateStore(w http.ResponseWriter, r *http.Request) {
	view, ok := s.loadAdminStore(w, r)
	if !ok {
		return
	}

	in, fieldErrs, err := readStoreInput(r)
	if err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	form := newStoreForm(view, in, fieldErrs)
	if len(fieldErrs) > 0 {
		s.renderStoreForm(w, r, http.StatusBadRequest, form)
		return
	}

	if err := s.admin.UpdateStore(r.Context(), view.ID, in); err != nil {
		if errs, ok := mergeFieldErrors(form.Errors, err); ok {
			form.Errors = errs
			s.renderStoreForm(w, r, http.StatusBadRequest, form)
			return
		}
		s.respondError(w, r, "failed to update store", err, "store_id", view.ID)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("/admin/stores/%d", view.ID), http.StatusSeeOther)
}

func (s *Server) handleAdminDeleteStore(w http.ResponseWriter, r *http.Request) {
	storeID, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := s.admin.DeleteStore(r.Context(), storeID); err != nil {
		s.respondError(w, r, "failed to delete store", err, "store_id", storeID)
		return
	}

	hxRedirect(w, "/admin/stores")
}

func (s *Server) loadAdminStore(w http.ResponseWriter, r *http.Request) (*service.StoreView, bool) {
	storeID, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return nil, false
	}

	view, err := s.admin.GetStore(r.Context(), storeID)
	if err != nil {
		s.internalError(w, "failed to get store", err, "store_id", storeID)
		return nil, false
	}
	if view == nil {
		http.NotFound(w, r)
		return nil, false
	}
	return view, true
}

// readStoreInput parses the store form. The multi-select "apps" field may
// repeat; unparsable ids become a field error.
func readStoreInput(r *http.Request) (service.StoreInput, map[string]string, error) {
	if err := r.ParseForm(); err != nil {
		return service.StoreInput{}, nil, err
	}

	in := service.StoreInput{
		Name:     r.PostFormValue("name"),
		Location: r.PostFormValue("location"),
	}
	fieldErrs := map[string]string{}
	for _, raw := range r.PostForm["apps"] {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			fieldErrs["apps"] = fmt.Sprintf("%q is not a valid value.", raw)
			continue
		}
		in.AppIDs = append(in.AppIDs, id)
	}
	return in, fieldErrs, nil
}

func newStoreForm(view *service.StoreView, in service.StoreInput, errs map[string]string) *storeForm {
	selected := make(map[int64]bool, len(in.AppIDs))
	for _, id := range in.AppIDs {
		selected[id] = true
	}
	return &storeForm{
		Store:    view,
		Name:     in.Name,
		Location: in.Location,
		Selected: selected,
		Errors:   errs,
	}
}

func (s *Server) renderStoreForm(w http.ResponseWriter, r *http.Request, status int, form *storeForm) {
	apps, err := s.admin.AllApps(r.Context())
	if err != nil {
		s.internalError(w, "failed to list apps", err)
		return
	}
	form.Apps = apps
	form.ActiveNav = "admin"
	if err := s.renderPage(w, status, form, "base.html", "admin/store_form.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}
