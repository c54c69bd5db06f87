package filter

import (
	"strings"
	"time"

	"github.com/harrisonrobin/reservas/pkg/reservation"
)

// Status values offered by the reservation form.
const (
	StatusAll         = "Todos"
	StatusConfirmed   = "CONFIRMADA"
	StatusRejected    = "RECHAZADA - Slot ocupado"
	StatusInvalidDate = "ERROR - Fecha inválida"
)

// Statuses lists the selectable status values, StatusAll first.
var Statuses = []string{StatusAll, StatusConfirmed, StatusRejected, StatusInvalidDate}

// DateLayout is the day/month/year format used by the "Fecha" column.
const DateLayout = "2/1/2006"

// searchColumns are matched by the free-text filter.
var searchColumns = []string{
	reservation.ColNombre,
	reservation.ColRUN,
	reservation.ColEmail,
}

// Criteria holds the filter inputs for one render.
type Criteria struct {
	Date   time.Time // zero value disables the date filter
	Status string    // "" or StatusAll disables the status filter
	Search string
}

// HasDate reports whether the date filter is active.
func (c Criteria) HasDate() bool {
	return !c.Date.IsZero()
}

// HasStatus reports whether the status filter is active.
func (c Criteria) HasStatus() bool {
	s := strings.TrimSpace(c.Status)
	return s != "" && !strings.EqualFold(s, StatusAll)
}

// ParseDate parses a "Fecha" cell. Anything not in day/month/year form is rejected.
func ParseDate(s string) (time.Time, bool) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Apply narrows the table by date, then status, then free text. Rows keep their
// original order and no column is added or removed. The input table is not modified.
func Apply(table *reservation.Table, c Criteria) *reservation.Table {
	keep := make([]int, table.Len())
	for i := range keep {
		keep[i] = i
	}

	if c.HasDate() {
		keep = byDate(table, keep, c.Date)
	}
	if c.HasStatus() {
		keep = byStatus(table, keep, c.Status)
	}
	if c.Search != "" {
		keep = bySearch(table, keep, c.Search)
	}

	return table.Select(keep)
}

func byDate(table *reservation.Table, rows []int, date time.Time) []int {
	idx, ok := table.ColumnIndex(reservation.ColFecha)
	if !ok {
		return rows
	}
	y, m, d := date.Date()

	var out []int
	for _, r := range rows {
		cell := table.Rows[r][idx]
		if !cell.Valid {
			continue
		}
		parsed, ok := ParseDate(cell.Value)
		if !ok {
			continue
		}
		py, pm, pd := parsed.Date()
		if py == y && pm == m && pd == d {
			out = append(out, r)
		}
	}
	return out
}

func byStatus(table *reservation.Table, rows []int, status string) []int {
	idx, ok := table.ColumnIndex(reservation.ColEstado)
	if !ok {
		return rows
	}
	want := strings.ToUpper(strings.TrimSpace(status))

	var out []int
	for _, r := range rows {
		cell := table.Rows[r][idx]
		if cell.Valid && strings.ToUpper(strings.TrimSpace(cell.Value)) == want {
			out = append(out, r)
		}
	}
	return out
}

func bySearch(table *reservation.Table, rows []int, search string) []int {
	var cols []int
	for _, name := range searchColumns {
		if idx, ok := table.ColumnIndex(name); ok {
			cols = append(cols, idx)
		}
	}
	needle := strings.ToLower(search)

	var out []int
	for _, r := range rows {
		for _, idx := range cols {
			cell := table.Rows[r][idx]
			if cell.Valid && strings.Contains(strings.ToLower(cell.Value), needle) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}
