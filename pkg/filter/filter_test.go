package filter

import (
	"reflect"
	"testing"
	"time"

	"github.com/harrisonrobin/reservas/pkg/reservation"
)

func sampleTable() *reservation.Table {
	return reservation.FromRows([][]string{
		{"Nombre Completo", "RUN", "Correo Electrónico", "Fecha", "Estado de la reserva"},
		{"Ana Pérez", "11.111.111-1", "Ana@Test.com", "15/03/2024", " confirmada "},
		{"Ben Soto", "22.222.222-2", "ben@test.com", "16/03/2024", "RECHAZADA - Slot ocupado"},
		{"Carla Díaz", "33.333.333-3", "carla@test.com", "not-a-date", "CONFIRMADA"},
		{"Diego Rojas", "44.444.444-4"},
	})
}

func TestDateFilter(t *testing.T) {
	table := reservation.FromRows([][]string{
		{"Fecha"},
		{"15/03/2024"},
		{"16/03/2024"},
		{"not-a-date"},
	})

	out := Apply(table, Criteria{Date: time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)})
	if out.Len() != 1 {
		t.Fatalf("Expected 1 row, got %d", out.Len())
	}
	if out.Records()[0][0] != "15/03/2024" {
		t.Errorf("Expected '15/03/2024', got %q", out.Records()[0][0])
	}
}

func TestDateFilterIgnoresTimeOfDayAndZone(t *testing.T) {
	table := reservation.FromRows([][]string{
		{"Fecha"},
		{"5/3/2024"},
	})
	loc := time.FixedZone("CLT", -3*60*60)

	out := Apply(table, Criteria{Date: time.Date(2024, time.March, 5, 18, 30, 0, 0, loc)})
	if out.Len() != 1 {
		t.Errorf("Expected 1 row, got %d", out.Len())
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"15/03/2024", true},
		{"5/3/2024", true},
		{" 15/03/2024 ", true},
		{"2024-03-15", false},
		{"03/15/2024", false},
		{"", false},
		{"not-a-date", false},
	}

	for _, tt := range tests {
		_, ok := ParseDate(tt.input)
		if ok != tt.ok {
			t.Errorf("ParseDate(%q) ok = %v, expected %v", tt.input, ok, tt.ok)
		}
	}
}

func TestStatusFilter(t *testing.T) {
	table := reservation.FromRows([][]string{
		{"Estado de la reserva"},
		{" confirmada "},
		{"RECHAZADA - Slot ocupado"},
	})

	out := Apply(table, Criteria{Status: StatusConfirmed})
	if out.Len() != 1 {
		t.Fatalf("Expected 1 row, got %d", out.Len())
	}
	if out.Records()[0][0] != " confirmada " {
		t.Errorf("Expected the original cell to be kept untouched, got %q", out.Records()[0][0])
	}
}

func TestStatusFilterMissingColumn(t *testing.T) {
	table := reservation.FromRows([][]string{
		{"Nombre Completo"},
		{"Ana"},
		{"Ben"},
	})

	for _, status := range []string{StatusAll, "", StatusConfirmed} {
		out := Apply(table, Criteria{Status: status})
		if out.Len() != table.Len() {
			t.Errorf("Status %q: expected %d rows, got %d", status, table.Len(), out.Len())
		}
	}
}

func TestSearchFilter(t *testing.T) {
	table := reservation.FromRows([][]string{
		{"Correo Electrónico"},
		{"Ana@Test.com"},
		{"ben@test.com"},
	})

	out := Apply(table, Criteria{Search: "ana"})
	if out.Len() != 1 {
		t.Fatalf("Expected 1 row, got %d", out.Len())
	}
	if out.Records()[0][0] != "Ana@Test.com" {
		t.Errorf("Expected 'Ana@Test.com', got %q", out.Records()[0][0])
	}
}

func TestSearchFilterAcrossColumns(t *testing.T) {
	table := sampleTable()

	tests := []struct {
		search   string
		expected int
	}{
		{"22.222", 1},
		{"DÍAZ", 1},
		{"test.com", 3},
		{"rojas", 1},
		{"nobody", 0},
	}

	for _, tt := range tests {
		out := Apply(table, Criteria{Search: tt.search})
		if out.Len() != tt.expected {
			t.Errorf("Search %q: expected %d rows, got %d", tt.search, tt.expected, out.Len())
		}
	}
}

func TestSearchMissingCellsNeverMatch(t *testing.T) {
	table := reservation.FromRows([][]string{
		{"RUN", "Correo Electrónico"},
		{"1-9"},
	})

	out := Apply(table, Criteria{Search: "none"})
	if out.Len() != 0 {
		t.Errorf("Expected 0 rows, got %d", out.Len())
	}
}

func TestSearchWithoutSearchableColumns(t *testing.T) {
	table := reservation.FromRows([][]string{
		{"Fecha"},
		{"15/03/2024"},
	})

	if out := Apply(table, Criteria{Search: "ana"}); out.Len() != 0 {
		t.Errorf("Expected 0 rows, got %d", out.Len())
	}
	if out := Apply(table, Criteria{}); out.Len() != 1 {
		t.Errorf("Expected 1 row without search, got %d", out.Len())
	}
}

func TestFiltersCombine(t *testing.T) {
	table := sampleTable()

	out := Apply(table, Criteria{
		Date:   time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		Status: "confirmada",
		Search: "ana",
	})
	if out.Len() != 1 {
		t.Fatalf("Expected 1 row, got %d", out.Len())
	}
	if out.Records()[0][0] != "Ana Pérez" {
		t.Errorf("Expected 'Ana Pérez', got %q", out.Records()[0][0])
	}

	out = Apply(table, Criteria{Status: StatusConfirmed})
	if out.Len() != 2 {
		t.Errorf("Expected 2 confirmed rows, got %d", out.Len())
	}
}

func TestApplyKeepsColumnsAndOrder(t *testing.T) {
	table := sampleTable()

	out := Apply(table, Criteria{Search: "test.com"})
	if !reflect.DeepEqual(out.Columns, table.Columns) {
		t.Errorf("Expected columns %v, got %v", table.Columns, out.Columns)
	}
	names, _ := out.Column("Nombre Completo")
	want := []string{"Ana Pérez", "Ben Soto", "Carla Díaz"}
	for i, n := range names {
		if n.Value != want[i] {
			t.Errorf("Row %d: expected %q, got %q", i, want[i], n.Value)
		}
	}
}

func TestApplyIsIdempotentAndNarrows(t *testing.T) {
	table := sampleTable()
	criteria := []Criteria{
		{},
		{Status: StatusRejected},
		{Date: time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC)},
		{Search: "a"},
		{Date: time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC), Status: StatusInvalidDate, Search: "x"},
	}

	for _, c := range criteria {
		first := Apply(table, c)
		second := Apply(table, c)
		if !reflect.DeepEqual(first.Records(), second.Records()) {
			t.Errorf("Criteria %+v: expected identical results on repeated calls", c)
		}
		if first.Len() > table.Len() {
			t.Errorf("Criteria %+v: filtered %d rows out of %d", c, first.Len(), table.Len())
		}
	}
	if table.Len() != 4 {
		t.Errorf("Expected input table to be untouched, got %d rows", table.Len())
	}
}

func TestApplyEmptyTable(t *testing.T) {
	out := Apply(reservation.Empty(), Criteria{Status: StatusConfirmed, Search: "x", Date: time.Now()})
	if out.Len() != 0 || len(out.Columns) != 0 {
		t.Errorf("Expected empty result, got %d columns and %d rows", len(out.Columns), out.Len())
	}
}
