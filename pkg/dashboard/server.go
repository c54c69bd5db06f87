package dashboard

import (
	"embed"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/harrisonrobin/reservas/pkg/source"
)

//go:embed templates/index.html
var templateFS embed.FS

// Server is the reservation dashboard.
type Server struct {
	source *source.Source
	auth   *BasicAuth
	tmpl   *template.Template
	now    func() time.Time
}

// New returns a dashboard over src. auth may be nil to leave refresh open.
func New(src *source.Source, auth *BasicAuth) *Server {
	return &Server{
		source: src,
		auth:   auth,
		tmpl:   template.Must(template.ParseFS(templateFS, "templates/index.html")),
		now:    time.Now,
	}
}

// Handler returns the routes wrapped with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.ServeIndex)
	mux.HandleFunc("/refresh", s.auth.Require(s.HandleRefresh))
	mux.HandleFunc("/api/reservas", s.HandleReservations)
	mux.HandleFunc("/export.xlsx", s.HandleExport)
	return logRequests(mux)
}

// ListenAndServe serves the dashboard on addr.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	key := s.source.Key()
	log.Printf("Starting Visor de Reservas on %s (spreadsheet %s, range %q)", addr, key.SpreadsheetID, key.Range)
	return srv.ListenAndServe()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("%s %s %s %d %s", id, r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}
