package web

import (
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/vbonduro/appcatalog/internal/imagestore"
	"github.com/vbonduro/appcatalog/internal/service"
)

type Server struct {
	catalog    *service.CatalogService
	admin      *service.AdminService
	templates  fs.FS
	imageStore imagestore.ImageStore
	mux        *http.ServeMux
	tmplFuncs  template.FuncMap
	logger     *slog.Logger
}

func NewServer(catalog *service.CatalogService, admin *service.AdminService, tmpl fs.FS, images imagestore.ImageStore, logger *slog.Logger) *Server {
	s := &Server{
		catalog:    catalog,
		admin:      admin,
		templates:  tmpl,
		imageStore: images,
		mux:        http.NewServeMux(),
		logger:     logger,
		tmplFuncs: template.FuncMap{
			"date":     formatDate,
			"datetime": formatDateTime,
		},
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", s.handleHome)
	s.mux.HandleFunc("GET /about", s.handleAbout)
	s.mux.HandleFunc("GET /contact", s.handleContact)
	s.mux.HandleFunc("GET /healthz", handleHealthz)
	s.mux.Handle("GET /metrics", metricsHandler())

	s.mux.HandleFunc("GET /apps", s.handleListApps)
	s.mux.HandleFunc("GET /apps/{id}", s.handleAppDetail)
	s.mux.HandleFunc("GET /apps/stores", s.handleLookupForm)
	s.mux.HandleFunc("POST /apps/stores", s.handleLookupSubmit)
	s.mux.HandleFunc("GET /media/{key...}", s.handleMedia)

	s.mux.HandleFunc("GET /admin", s.handleAdminIndex)

	s.mux.HandleFunc("GET /admin/apps", s.handleAdminListApps)
	s.mux.HandleFunc("GET /admin/apps/new", s.handleAdminNewApp)
	s.mux.HandleFunc("POST /admin/apps/new", s.handleAdminCreateApp)
	s.mux.HandleFunc("POST /admin/apps", s.handleAdminCreateApp)
	s.mux.HandleFunc("GET /admin/apps/{id}", s.handleAdminEditApp)
	s.mux.HandleFunc("POST /admin/apps/{id}", s.handleAdminUpdateApp)
	s.mux.HandleFunc("DELETE /admin/apps/{id}", s.handleAdminDeleteApp)
	s.mux.HandleFunc("POST /admin/apps/{id}/reviews", s.handleAdminAddReview)
	s.mux.HandleFunc("DELETE /admin/reviews/{id}", s.handleAdminDeleteReview)

	s.mux.HandleFunc("GET /admin/stores", s.handleAdminListStores)
	s.mux.HandleFunc("GET /admin/stores/new", s.handleAdminNewStore)
	s.mux.HandleFunc("POST /admin/stores/new", s.handleAdminCreateStore)
	s.mux.HandleFunc("POST /admin/stores", s.handleAdminCreateStore)
	s.mux.HandleFunc("GET /admin/stores/{id}", s.handleAdminEditStore)
	s.mux.HandleFunc("POST /admin/stores/{id}", s.handleAdminUpdateStore)
	s.mux.HandleFunc("DELETE /admin/stores/{id}", s.handleAdminDeleteStore)

	s.mux.HandleFunc("GET /admin/certificates", s.handleAdminListCertificates)
	s.mux.HandleFunc("GET /admin/certificates/new", s.handleAdminNewCertificate)
	s.mux.HandleFunc("POST /admin/certificates/new", s.handleAdminCreateCertificate)
	s.mux.HandleFunc("POST /admin/certificates", s.handleAdminCreateCertificate)
	s.mux.HandleFunc("DELETE /admin/certificates/{id}", s.handleAdminDeleteCertificate)

	s.mux.HandleFunc("GET /admin/users", s.handleAdminListUsers)
	s.mux.HandleFunc("POST /admin/users", s.handleAdminCreateUser)
	s.mux.HandleFunc("DELETE /admin/users/{id}", s.handleAdminDeleteUser)
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src 'self' 'unsafe-inline' https://unpkg.com; "+
				"style-src 'self' 'unsafe-inline'; "+
				"img-src 'self' data:; "+
				"connect-src 'self'")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLogger logs each request and records it in the request metrics.
// The route pattern is read after the mux has matched it.
func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)
		observeRequest(r.Method, r.Pattern, rec.status, elapsed)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"pattern", r.Pattern,
			"status", rec.status,
			"duration_ms", elapsed.Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.mux)).ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

// renderPage parses and executes a full-page template set.
func (s *Server) renderPage(w http.ResponseWriter, status int, data any, files ...string) error {
	tmpl, err := template.New("").Funcs(s.tmplFuncs).ParseFS(s.templates, files...)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return tmpl.ExecuteTemplate(w, "base", data)
}

// internalError logs err and answers 500 with msg.
func (s *Server) internalError(w http.ResponseWriter, msg string, err error, attrs ...any) {
	http.Error(w, msg, http.StatusInternalServerError)
	s.logger.Error(msg, append(attrs, "error", err)...)
}

// hxRedirect tells htmx to navigate to target after a successful request.
func hxRedirect(w http.ResponseWriter, target string) {
	w.Header().Set("HX-Redirect", target)
	w.WriteHeader(http.StatusOK)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("Jan 2, 2006 15:04")
}
