package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harrisonrobin/reservas/pkg/cache"
	"github.com/harrisonrobin/reservas/pkg/config"
	"github.com/harrisonrobin/reservas/pkg/dashboard"
	"github.com/harrisonrobin/reservas/pkg/filter"
	"github.com/harrisonrobin/reservas/pkg/reservation"
	"github.com/harrisonrobin/reservas/pkg/source"
)

type stubFetcher struct {
	rows [][]string
}

func (f stubFetcher) FetchTable(ctx context.Context, spreadsheetID, readRange string) (*reservation.Table, error) {
	return reservation.FromRows(f.rows), nil
}

func TestParseDateFlag(t *testing.T) {
	now := time.Date(2024, 3, 15, 22, 30, 0, 0, time.Local)

	d, err := parseDateFlag("", now)
	if err != nil || !d.IsZero() {
		t.Errorf("Expected zero date for empty flag, got %v (err %v)", d, err)
	}

	d, err = parseDateFlag("hoy", now)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC); !d.Equal(want) {
		t.Errorf("Expected %v, got %v", want, d)
	}

	d, err = parseDateFlag("1/2/2024", now)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if d.Day() != 1 || d.Month() != time.February {
		t.Errorf("Expected 1 February, got %v", d)
	}

	if _, err := parseDateFlag("2024-02-01", now); err == nil {
		t.Error("Expected error for ISO date")
	}
}

func TestOverridesApply(t *testing.T) {
	cfg := config.Default()
	overrides{spreadsheet: "other", cacheTTL: time.Minute}.apply(cfg)

	if cfg.SpreadsheetID != "other" {
		t.Errorf("Expected spreadsheet 'other', got %q", cfg.SpreadsheetID)
	}
	if cfg.Range != config.DefaultRange {
		t.Errorf("Expected default range to be kept, got %q", cfg.Range)
	}
	if cfg.CacheTTL.Duration != time.Minute {
		t.Errorf("Expected TTL 1m, got %v", cfg.CacheTTL.Duration)
	}
}

func TestPrintTable(t *testing.T) {
	src := source.NewWithFetcher("id", "A1:C", stubFetcher{rows: [][]string{
		{reservation.ColNombre, reservation.ColFecha, reservation.ColEstado},
		{"Ana Pérez", "15/03/2024", "CONFIRMADA"},
		{"Ben Soto", "16/03/2024", "RECHAZADA"},
	}}, cache.New(cache.DefaultTTL))

	view := src.Query(context.Background(), filter.Criteria{Status: filter.StatusConfirmed})
	var out bytes.Buffer
	printTable(&out, view)

	got := out.String()
	if !strings.Contains(got, "Ana Pérez") || strings.Contains(got, "Ben Soto") {
		t.Errorf("Unexpected rows in output:\n%s", got)
	}
	if !strings.Contains(got, "Mostrando 1 de 2 reservas.") {
		t.Errorf("Expected status line, got:\n%s", got)
	}
}

func TestWriteAuthFile(t *testing.T) {
	cfg := config.Default()
	cfg.AuthFile = filepath.Join(t.TempDir(), "auth.secret")
	var out bytes.Buffer
	app := NewApp(cfg, &out)

	if err := app.WriteAuthFile("admin", "secreto", false); err != nil {
		t.Fatalf("WriteAuthFile failed: %v", err)
	}
	if err := app.WriteAuthFile("admin", "otro", false); err == nil {
		t.Error("Expected error when auth file exists without overwrite")
	}
	if err := app.WriteAuthFile("admin", "otro", true); err != nil {
		t.Fatalf("WriteAuthFile with overwrite failed: %v", err)
	}

	a, err := dashboard.LoadBasicAuth(cfg.AuthFile)
	if err != nil {
		t.Fatalf("LoadBasicAuth failed: %v", err)
	}
	if a == nil || a.User != "admin" {
		t.Fatalf("Expected user admin, got %+v", a)
	}

	info, err := os.Stat(cfg.AuthFile)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0400 {
		t.Errorf("Expected mode 0400, got %v", info.Mode().Perm())
	}
}
