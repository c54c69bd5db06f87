package google

import (
	"context"
	"fmt"
	"log"

	"github.com/harrisonrobin/reservas/pkg/reservation"
	"google.golang.org/api/sheets/v4"
)

// SheetsClient is a read-only Google Sheets API client.
type SheetsClient struct {
	srv   *sheets.Service
	email string
}

// NewSheetsClient wraps an existing service. email is the identity named in
// permission errors.
func NewSheetsClient(srv *sheets.Service, email string) *SheetsClient {
	return &SheetsClient{srv: srv, email: email}
}

// Email returns the service account the client reads as.
func (c *SheetsClient) Email() string {
	return c.email
}

// FetchTable reads a range with a single request and turns it into a table,
// using the first row as headers. An empty range gives an empty table and no error.
func (c *SheetsClient) FetchTable(ctx context.Context, spreadsheetID, readRange string) (*reservation.Table, error) {
	resp, err := c.srv.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, classifyError(err, spreadsheetID, readRange, c.email)
	}

	if len(resp.Values) == 0 {
		log.Printf("No data found in spreadsheet %s range %q", spreadsheetID, readRange)
		return reservation.Empty(), nil
	}

	return reservation.FromRows(toStrings(resp.Values)), nil
}

// toStrings converts the API's untyped cells. Formatted values arrive as strings;
// anything else is printed.
func toStrings(values [][]interface{}) [][]string {
	rows := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			switch cv := v.(type) {
			case string:
				cells[j] = cv
			case nil:
				cells[j] = ""
			default:
				cells[j] = fmt.Sprint(cv)
			}
		}
		rows[i] = cells
	}
	return rows
}
