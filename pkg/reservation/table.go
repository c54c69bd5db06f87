package reservation

import "fmt"

// Column names used by the reservation form sheet.
const (
	ColTimestamp    = "Marca temporal"
	ColNombre       = "Nombre Completo"
	ColRUN          = "RUN"
	ColTelefono     = "Teléfono"
	ColEmail        = "Correo Electrónico"
	ColTorre        = "Torre"
	ColDepartamento = "Departamento"
	ColFecha        = "Fecha"
	ColHora         = "Hora"
	ColEstado       = "Estado de la reserva"
)

// Cell is a single sheet value. Valid is false for cells the sheet did not
// return at all (trailing cells of a short row).
type Cell struct {
	Value string
	Valid bool
}

// String renders a missing cell as an empty string.
func (c Cell) String() string {
	if !c.Valid {
		return ""
	}
	return c.Value
}

// Table is a rectangular view of a sheet: every row has exactly len(Columns) cells.
type Table struct {
	Columns []string
	Rows    [][]Cell
	index   map[string]int
}

// Empty returns a table with no columns and no rows.
func Empty() *Table {
	return &Table{index: map[string]int{}}
}

// New builds a table from column names and already rectangular rows.
func New(columns []string, rows [][]Cell) (*Table, error) {
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", i, len(row), len(columns))
		}
	}
	t := &Table{Columns: columns, Rows: rows}
	t.buildIndex()
	return t, nil
}

// FromRows treats the first row as headers and the rest as data. Short rows are
// padded with missing cells; cells beyond the header width are dropped.
func FromRows(raw [][]string) *Table {
	if len(raw) == 0 {
		return Empty()
	}

	columns := make([]string, len(raw[0]))
	copy(columns, raw[0])

	rows := make([][]Cell, 0, len(raw)-1)
	for _, r := range raw[1:] {
		row := make([]Cell, len(columns))
		for i := range row {
			if i < len(r) {
				row[i] = Cell{Value: r[i], Valid: true}
			}
		}
		rows = append(rows, row)
	}

	t := &Table{Columns: columns, Rows: rows}
	t.buildIndex()
	return t
}

// buildIndex maps column names to positions. With duplicate headers the last one wins.
func (t *Table) buildIndex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, name := range t.Columns {
		t.index[name] = i
	}
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	if t.index == nil {
		t.buildIndex()
	}
	idx, ok := t.index[name]
	return idx, ok
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.ColumnIndex(name)
	return ok
}

// Column returns the cells of the named column in row order.
func (t *Table) Column(name string) ([]Cell, bool) {
	idx, ok := t.ColumnIndex(name)
	if !ok {
		return nil, false
	}
	cells := make([]Cell, len(t.Rows))
	for i, row := range t.Rows {
		cells[i] = row[idx]
	}
	return cells, true
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// NoData reports whether the sheet returned nothing at all, not even a header row.
func (t *Table) NoData() bool {
	return len(t.Columns) == 0
}

// Select returns a table with the same columns holding only the rows at the given
// positions, in the order given.
func (t *Table) Select(positions []int) *Table {
	rows := make([][]Cell, 0, len(positions))
	for _, p := range positions {
		rows = append(rows, t.Rows[p])
	}
	out := &Table{Columns: t.Columns, Rows: rows}
	out.buildIndex()
	return out
}

// Records returns the rows as plain strings, missing cells rendered empty.
func (t *Table) Records() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		rec := make([]string, len(row))
		for j, c := range row {
			rec[j] = c.String()
		}
		out[i] = rec
	}
	return out
}
