package web

import (
	"net/http"
	"strconv"
)

func (s *Server) handleListApps(w http.ResponseWriter, r *http.Request) {
	apps, err := s.catalog.ListApps(r.Context())
	if err != nil {
		s.internalError(w, "failed to list apps", err)
		return
	}

	if err := s.renderPage(w, http.StatusOK,
		map[string]any{"Apps": apps, "ActiveNav": "apps"},
		"base.html", "pages/apps.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

// handleAppDetail answers 404 for both unknown and non-numeric ids.
func (s *Server) handleAppDetail(w http.ResponseWriter, r *http.Request) {
	appID, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	detail, err := s.catalog.GetAppDetail(r.Context(), appID)
	if err != nil {
		s.internalError(w, "failed to get app", err, "app_id", appID)
		return
	}
	if detail == nil {
		http.NotFound(w, r)
		return
	}

	if err := s.renderPage(w, http.StatusOK,
		map[string]any{"App": detail, "ActiveNav": "apps"},
		"base.html", "pages/app_detail.html", "partials/store_list.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

// parseID extracts the {id} path variable and returns it as int64.
func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
