package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/vbonduro/appcatalog/internal/service"
)

const (
	dateInputLayout     = "2006-01-02"
	datetimeInputLayout = "2006-01-02T15:04"
)

// certificateForm is the view model for the admin certificate create page.
// The app is entered by raw id.
type certificateForm struct {
	AppID      string
	Number     string
	IssueDate  string
	ValidUntil string
	Errors     map[string]string
	ActiveNav  string
}

func (s *Server) handleAdminListCertificates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := service.CertificateQuery{
		Search:     strings.TrimSpace(q.Get("q")),
		Issued:     service.ParseDateWindow(q.Get("issued")),
		ValidUntil: service.ParseDateWindow(q.Get("valid_until")),
	}

	certs, err := s.admin.ListCertificates(r.Context(), query)
	if err != nil {
		s.internalError(w, "failed to list certificates", err)
		return
	}

	if err := s.renderPage(w, http.StatusOK,
		map[string]any{
			"Certificates": certs,
			"Query":        query,
			"Windows":      service.DateWindows,
			"ActiveNav":    "admin",
		},
		"base.html", "admin/certificates.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleAdminNewCertificate(w http.ResponseWriter, r *http.Request) {
	s.renderCertificateForm(w, http.StatusOK, &certificateForm{
		AppID:     r.URL.Query().Get("app"),
		IssueDate: time.Now().Format(dateInputLayout),
	})
}

func (s *Server) handleAdminCreateCertificate(w http.ResponseWriter, r *http.Request) {
	form := &certificateForm{
		AppID:      strings.TrimSpace(r.FormValue("app")),
		Number:     r.FormValue("certificate_number"),
		IssueDate:  strings.TrimSpace(r.FormValue("issue_date")),
		ValidUntil: strings.TrimSpace(r.FormValue("valid_until")),
		Errors:     map[string]string{},
	}

	in := service.CertificateInput{Number: form.Number}

	appID, err := parseOptionalID(form.AppID)
	if err != nil {
		form.Errors["app"] = "Enter a whole number."
	}
	in.AppID = appID

	if form.IssueDate != "" {
		d, err := time.ParseInLocation(dateInputLayout, form.IssueDate, time.UTC)
		if err != nil {
			form.Errors["issue_date"] = "Enter a valid date."
		}
		in.IssueDate = d
	}

	if form.ValidUntil != "" {
		t, err := parseDateTimeInput(form.ValidUntil)
		if err != nil {
			form.Errors["valid_until"] = "Enter a valid date/time."
		}
		in.ValidUntil = t
	}

	if len(form.Errors) > 0 {
		s.renderCertificateForm(w, http.StatusBadRequest, form)
		return
	}

	if _, err := s.admin.CreateCertificate(r.Context(), in); err != nil {
		if errs, ok := mergeFieldErrors(form.Errors, err); ok {
			form.Errors = errs
			s.renderCertificateForm(w, http.StatusBadRequest, form)
			return
		}
		s.internalError(w, "failed to create certificate", err)
		return
	}

	http.Redirect(w, r, "/admin/certificates", http.StatusSeeOther)
}

func (s *Server) handleAdminDeleteCertificate(w http.ResponseWriter, r *http.Request) {
	certID, err := parseID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := s.admin.DeleteCertificate(r.Context(), certID); err != nil {
		s.respondError(w, r, "failed to delete certificate", err, "certificate_id", certID)
		return
	}

	hxRedirect(w, "/admin/certificates")
}

// parseDateTimeInput accepts a datetime-local value or a bare date, read in
// the server's local zone.
func parseDateTimeInput(raw string) (time.Time, error) {
	if t, err := time.ParseInLocation(datetimeInputLayout, raw, time.Local); err == nil {
		return t, nil
	}
	return time.ParseInLocation(dateInputLayout, raw, time.Local)
}

func (s *Server) renderCertificateForm(w http.ResponseWriter, status int, form *certificateForm) {
	form.ActiveNav = "admin"
	if err := s.renderPage(w, status, form, "base.html", "admin/certificate_form.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}
