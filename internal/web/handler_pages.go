package web

import (
	"net/http"
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	apps, err := s.catalog.ListApps(r.Context())
	if err != nil {
		s.internalError(w, "failed to list apps", err)
		return
	}

	if err := s.renderPage(w, http.StatusOK,
		map[string]any{"AppCount": len(apps), "ActiveNav": "home"},
		"base.html", "pages/home.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleAbout(w http.ResponseWriter, _ *http.Request) {
	writeText(w, "Hello, world. You're at the about page.")
}

func (s *Server) handleContact(w http.ResponseWriter, _ *http.Request) {
	writeText(w, "Hello, world. You're at the contact page.")
}

func writeText(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(body))
}
