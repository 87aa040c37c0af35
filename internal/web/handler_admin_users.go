package web

import (
	"net/http"

	"github.com/vbonduro/appcatalog/internal/domain"
)

func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	s.renderUsers(w, r, http.StatusOK, "", nil)
}

func (s *Server) handleAdminCreateUser(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")

	if _, err := s.admin.CreateUser(r.Context(), username); err != nil {
		if errs, ok := mergeFieldErrors(nil, err); ok {
			s.renderUsers(w, r, http.StatusBadRequest, username, errs)
			return
		}
		s.internalError(w, "failed to create user", err)
		return
	}

	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

func (s *Server) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := s.admin.DeleteUser(r.Context(), userID); err != nil {
		s.respondError(w, r, "failed to delete user", err, "user_id", userID)
		return
	}

	hxRedirect(w, "/admin/users")
}

func (s *Server) renderUsers(w http.ResponseWriter, r *http.Request, status int, username string, errs map[string]string) {
	users, err := s.admin.ListUsers(r.Context())
	if err != nil {
		s.internalError(w, "failed to list users", err)
		return
	}
	if users == nil {
		users = []*domain.User{}
	}

	if err := s.renderPage(w, status,
		map[string]any{"Users": users, "Username": username, "Errors": errs, "ActiveNav": "admin"},
		"base.html", "admin/users.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}
