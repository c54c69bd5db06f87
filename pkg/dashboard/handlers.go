package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/harrisonrobin/reservas/pkg/export"
	"github.com/harrisonrobin/reservas/pkg/filter"
	"github.com/harrisonrobin/reservas/pkg/source"
)

// Query parameters. fecha uses the ISO form sent by <input type="date">.
const (
	paramDate      = "fecha"
	paramStatus    = "estado"
	paramSearch    = "buscar"
	paramRefreshed = "actualizado"

	isoDate = "2006-01-02"
)

const (
	MsgRefreshed     = "Datos actualizados manualmente."
	MsgNoRows        = "No se encontraron datos en la hoja de cálculo."
	MsgNothingToShow = "No hay datos para mostrar o hubo un error al cargar."

	ErrInvalidDateFormat = "Formato de fecha inválido"
	ErrInternalServer    = "Error interno del servidor"
)

// parseCriteria reads the filters from the query. Without a fecha parameter the
// date filter defaults to today; an empty fecha disables it.
func parseCriteria(q url.Values, now time.Time) (filter.Criteria, error) {
	c := filter.Criteria{
		Status: strings.TrimSpace(q.Get(paramStatus)),
		Search: strings.TrimSpace(q.Get(paramSearch)),
	}

	if _, ok := q[paramDate]; !ok {
		y, m, d := now.Date()
		c.Date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return c, nil
	}

	raw := strings.TrimSpace(q.Get(paramDate))
	if raw == "" {
		return c, nil
	}
	d, err := time.Parse(isoDate, raw)
	if err != nil {
		return c, fmt.Errorf("%s: %q", ErrInvalidDateFormat, raw)
	}
	c.Date = d
	return c, nil
}

type pageMessage struct {
	Kind string // "error", "info" or "success"
	Text string
}

type pageData struct {
	Date      string
	Status    string
	Search    string
	Statuses  []string
	ExportURL template.URL
	Columns   []string
	Rows      [][]string
	Shown     int
	Total     int
	HasTable  bool
	Messages  []pageMessage
}

// ServeIndex renders the filter controls and the filtered table.
func (s *Server) ServeIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	criteria, err := parseCriteria(q, s.now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data := pageData{
		Status:    criteria.Status,
		Search:    criteria.Search,
		Statuses:  filter.Statuses,
		ExportURL: template.URL("/export.xlsx?" + exportQuery(q).Encode()),
	}
	if criteria.HasDate() {
		data.Date = criteria.Date.Format(isoDate)
	}
	if data.Status == "" {
		data.Status = filter.StatusAll
	}
	if q.Get(paramRefreshed) != "" {
		data.Messages = append(data.Messages, pageMessage{Kind: "success", Text: MsgRefreshed})
	}

	view := s.source.Query(r.Context(), criteria)
	data.Messages = append(data.Messages, viewMessages(view)...)
	if view.Err == nil && !view.NoData {
		data.HasTable = true
		data.Columns = view.Table.Columns
		data.Rows = view.Table.Records()
		data.Shown = view.Shown()
		data.Total = view.Total
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, data); err != nil {
		log.Printf("Error rendering index: %v", err)
	}
}

// exportQuery keeps only the filter parameters.
func exportQuery(q url.Values) url.Values {
	out := url.Values{}
	for _, p := range []string{paramDate, paramStatus, paramSearch} {
		if vals, ok := q[p]; ok {
			out[p] = vals
		}
	}
	return out
}

func viewMessages(view *source.View) []pageMessage {
	switch {
	case view.Err != nil:
		return []pageMessage{
			{Kind: "error", Text: "Error al cargar datos: " + view.Err.Error()},
			{Kind: "info", Text: MsgNothingToShow},
		}
	case view.NoData:
		return []pageMessage{
			{Kind: "info", Text: MsgNoRows},
			{Kind: "info", Text: MsgNothingToShow},
		}
	}
	return nil
}

// HandleRefresh drops the cached table and sends the user back to the same filters.
func (s *Server) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.source.Refresh()
	log.Println("Reservation cache cleared by manual refresh")

	q := exportQuery(r.PostForm)
	q.Set(paramRefreshed, "1")
	http.Redirect(w, r, "/?"+q.Encode(), http.StatusSeeOther)
}

type reservationsResponse struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Shown   int        `json:"shown"`
	Total   int        `json:"total"`
	Info    string     `json:"info,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// HandleReservations returns the filtered table as JSON.
// Query params: fecha (YYYY-MM-DD, empty for any), estado, buscar
func (s *Server) HandleReservations(w http.ResponseWriter, r *http.Request) {
	criteria, err := parseCriteria(r.URL.Query(), s.now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view := s.source.Query(r.Context(), criteria)
	resp := reservationsResponse{
		Columns: view.Table.Columns,
		Rows:    view.Table.Records(),
		Shown:   view.Shown(),
		Total:   view.Total,
	}
	if resp.Columns == nil {
		resp.Columns = []string{}
	}
	status := http.StatusOK
	switch {
	case view.Err != nil:
		resp.Error = view.Err.Error()
		status = http.StatusBadGateway
	case view.NoData:
		resp.Info = MsgNoRows
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("Error encoding reservations: %v", err)
	}
}

// HandleExport sends the filtered table as an .xlsx download.
func (s *Server) HandleExport(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	criteria, err := parseCriteria(r.URL.Query(), now)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view := s.source.Query(r.Context(), criteria)
	if view.Err != nil {
		http.Error(w, view.Err.Error(), http.StatusBadGateway)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, view.Table); err != nil {
		log.Printf("Error writing export: %v", err)
		http.Error(w, ErrInternalServer, http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("reservas-%s.xlsx", now.Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Error sending export: %v", err)
	}
}
