package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/harrisonrobin/reservas/pkg/auth"
	"github.com/harrisonrobin/reservas/pkg/cache"
	"github.com/harrisonrobin/reservas/pkg/config"
	"github.com/harrisonrobin/reservas/pkg/dashboard"
	"github.com/harrisonrobin/reservas/pkg/export"
	"github.com/harrisonrobin/reservas/pkg/filter"
	"github.com/harrisonrobin/reservas/pkg/source"
)

// App holds the resolved configuration shared by all commands.
type App struct {
	cfg *config.Config
	out io.Writer
}

func NewApp(cfg *config.Config, out io.Writer) *App {
	return &App{cfg: cfg, out: out}
}

func (a *App) newSource() *source.Source {
	loader := auth.NewLoader(a.cfg.CredentialsFile)
	return source.New(a.cfg.SpreadsheetID, a.cfg.Range, loader, cache.New(a.cfg.CacheTTL.Duration))
}

// Serve runs the dashboard until the server fails.
func (a *App) Serve() error {
	basicAuth, err := dashboard.LoadBasicAuth(a.cfg.AuthFile)
	if err != nil {
		return err
	}
	return dashboard.New(a.newSource(), basicAuth).ListenAndServe(a.cfg.Listen)
}

// parseDateFlag accepts dd/mm/aaaa or "hoy". Empty disables the date filter.
func parseDateFlag(s string, now time.Time) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return time.Time{}, nil
	case "hoy":
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	d, ok := filter.ParseDate(s)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid date %q, expected dd/mm/aaaa", s)
	}
	return d, nil
}

// Show fetches the sheet once, filters it and prints the result. When xlsxPath
// is set the filtered rows are also written there.
func (a *App) Show(ctx context.Context, c filter.Criteria, xlsxPath string) error {
	view := a.newSource().Query(ctx, c)
	if view.Err != nil {
		return view.Err
	}
	if view.NoData {
		fmt.Fprintln(a.out, dashboard.MsgNoRows)
		return nil
	}

	printTable(a.out, view)

	if xlsxPath != "" {
		if err := export.SaveXLSX(xlsxPath, view.Table); err != nil {
			return err
		}
		log.Printf("Exported %d reservations to %s", view.Shown(), xlsxPath)
	}
	return nil
}

func printTable(out io.Writer, view *source.View) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(view.Table.Columns, "\t"))
	for _, rec := range view.Table.Records() {
		fmt.Fprintln(tw, strings.Join(rec, "\t"))
	}
	tw.Flush()
	fmt.Fprintf(out, "\nMostrando %d de %d reservas.\n", view.Shown(), view.Total)
}

// WriteAuthFile stores a user:hash line for the dashboard's refresh action.
func (a *App) WriteAuthFile(user, password string, overwrite bool) error {
	path := a.cfg.AuthFile
	if _, err := os.Stat(path); err == nil {
		if !overwrite {
			return fmt.Errorf("auth file already exists: %s (use --overwrite)", path)
		}
		// The file is read-only, so it has to be removed first.
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove existing auth file: %w", err)
		}
	}

	hash, err := dashboard.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := os.WriteFile(path, []byte(fmt.Sprintf("%s:%s\n", user, hash)), 0400); err != nil {
		return fmt.Errorf("failed to write auth file: %w", err)
	}
	fmt.Fprintf(a.out, "Auth file created: %s (user: %s)\n", path, user)
	return nil
}
