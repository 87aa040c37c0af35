package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/vbonduro/appcatalog/internal/service"
)

func (s *Server) handleAdminIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	apps, err := s.admin.AllApps(ctx)
	if err != nil {
		s.internalError(w, "failed to list apps", err)
		return
	}
	stores, err := s.admin.ListStores(ctx, service.StoreQuery{})
	if err != nil {
		s.internalError(w, "failed to list stores", err)
		return
	}
	certs, err := s.admin.ListCertificates(ctx, service.CertificateQuery{})
	if err != nil {
		s.internalError(w, "failed to list certificates", err)
		return
	}
	users, err := s.admin.ListUsers(ctx)
	if err != nil {
		s.internalError(w, "failed to list users", err)
		return
	}

	if err := s.renderPage(w, http.StatusOK,
		map[string]any{
			"AppCount":         len(apps),
			"StoreCount":       len(stores),
			"CertificateCount": len(certs),
			"UserCount":        len(users),
			"ActiveNav":        "admin",
		},
		"base.html", "admin/index.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

// respondError maps a service error to 404 when it is a missing row and to
// 500 otherwise.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, msg string, err error, attrs ...any) {
	if errors.Is(err, service.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	s.internalError(w, msg, err, attrs...)
}

// mergeFieldErrors folds a service validation error into the handler's own
// field errors. ok is false when err is some other failure.
func mergeFieldErrors(fields map[string]string, err error) (map[string]string, bool) {
	ve, ok := service.AsValidationError(err)
	if !ok {
		return fields, false
	}
	if fields == nil {
		fields = map[string]string{}
	}
	for k, v := range ve.Fields {
		if _, exists := fields[k]; !exists {
			fields[k] = v
		}
	}
	return fields, true
}

// parseOptionalID parses a form or query id; "" yields 0.
func parseOptionalID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

// localRedirect returns next when it points inside the admin site, else fallback.
func localRedirect(next, fallback string) string {
	if strings.HasPrefix(next, "/admin/") && !strings.HasPrefix(next, "//") {
		return next
	}
	return fallback
}
