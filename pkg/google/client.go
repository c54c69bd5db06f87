package google

import (
	"context"
	"fmt"

	"github.com/harrisonrobin/reservas/pkg/auth"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// NewClient creates a Google Sheets client authenticated as the service account.
// Extra options are applied after the credential, so tests can point the client
// at a fake endpoint.
func NewClient(ctx context.Context, cred *auth.Credential, opts ...option.ClientOption) (*SheetsClient, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(cred.Client(ctx))}, opts...)

	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Sheets client: %w", err)
	}

	return NewSheetsClient(srv, cred.Email()), nil
}
