package source

import (
	"context"
	"log"
	"sync"

	"github.com/harrisonrobin/reservas/pkg/auth"
	"github.com/harrisonrobin/reservas/pkg/cache"
	"github.com/harrisonrobin/reservas/pkg/filter"
	"github.com/harrisonrobin/reservas/pkg/google"
	"github.com/harrisonrobin/reservas/pkg/reservation"
	"google.golang.org/api/option"
)

// Fetcher reads a sheet range into a table.
type Fetcher interface {
	FetchTable(ctx context.Context, spreadsheetID, readRange string) (*reservation.Table, error)
}

// Source is the reservation pipeline: credential, fetch, cache.
type Source struct {
	key   cache.Key
	cache *cache.Cache

	mu         sync.Mutex
	fetcher    Fetcher
	newFetcher func() (Fetcher, error)
}

// New returns a Source reading spreadsheetID/readRange as the service account
// from loader. The Sheets client is created on first use and then reused.
func New(spreadsheetID, readRange string, loader *auth.Loader, c *cache.Cache, opts ...option.ClientOption) *Source {
	s := &Source{
		key:   cache.Key{SpreadsheetID: spreadsheetID, Range: readRange},
		cache: c,
	}
	s.newFetcher = func() (Fetcher, error) {
		cred, err := loader.Credential()
		if err != nil {
			return nil, err
		}
		// The client outlives any single request, so it is not bound to one.
		return google.NewClient(context.Background(), cred, opts...)
	}
	return s
}

// NewWithFetcher returns a Source backed by an existing fetcher.
func NewWithFetcher(spreadsheetID, readRange string, f Fetcher, c *cache.Cache) *Source {
	return &Source{
		key:     cache.Key{SpreadsheetID: spreadsheetID, Range: readRange},
		cache:   c,
		fetcher: f,
	}
}

// Key returns the spreadsheet and range this source reads.
func (s *Source) Key() cache.Key {
	return s.key
}

func (s *Source) client() (Fetcher, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fetcher != nil {
		return s.fetcher, nil
	}
	f, err := s.newFetcher()
	if err != nil {
		return nil, err
	}
	s.fetcher = f
	return f, nil
}

// Table returns the cached table, or fetches it once if the cache has expired.
// Failed fetches are not cached.
func (s *Source) Table(ctx context.Context) (*reservation.Table, error) {
	if table, ok := s.cache.Get(s.key); ok {
		return table, nil
	}

	f, err := s.client()
	if err != nil {
		return nil, err
	}
	table, err := f.FetchTable(ctx, s.key.SpreadsheetID, s.key.Range)
	if err != nil {
		return nil, err
	}
	s.cache.Put(s.key, table)
	return table, nil
}

// Refresh drops the cached table so the next read goes to the sheet. The
// credential and client are kept.
func (s *Source) Refresh() {
	s.cache.Invalidate()
}

// View is one filtered render of the sheet.
type View struct {
	Table  *reservation.Table // filtered rows; empty when Err is set
	Total  int
	NoData bool // the sheet returned nothing at all
	Err    error
}

// Shown returns the number of rows after filtering.
func (v *View) Shown() int {
	return v.Table.Len()
}

// Query loads the table and applies the criteria. Errors are reported in the
// View with an empty table rather than returned.
func (s *Source) Query(ctx context.Context, c filter.Criteria) *View {
	table, err := s.Table(ctx)
	if err != nil {
		log.Printf("Error loading reservations: %v", err)
		return &View{Table: reservation.Empty(), Err: err}
	}
	return &View{
		Table:  filter.Apply(table, c),
		Total:  table.Len(),
		NoData: table.NoData(),
	}
}
