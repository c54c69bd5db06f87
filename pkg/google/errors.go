package google

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/harrisonrobin/reservas/pkg/auth"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

// ErrorKind tags a failed read so callers never inspect HTTP status codes.
type ErrorKind int

const (
	// ResourceNotFound means the spreadsheet or the tab named in the range does not exist.
	ResourceNotFound ErrorKind = iota
	// PermissionDenied means the service account cannot read the spreadsheet.
	PermissionDenied
	// TransientServiceError is any other error reported by the Sheets API.
	TransientServiceError
	// UnknownError is anything the Sheets API did not report itself.
	UnknownError
)

func (k ErrorKind) String() string {
	switch k {
	case ResourceNotFound:
		return "resource not found"
	case PermissionDenied:
		return "permission denied"
	case TransientServiceError:
		return "service error"
	default:
		return "unknown error"
	}
}

// FetchError describes a failed read of a sheet range.
type FetchError struct {
	Kind          ErrorKind
	SpreadsheetID string
	Range         string
	Email         string
	Err           error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case ResourceNotFound:
		return fmt.Sprintf("La hoja '%s' o el rango '%s' no se encontró. Verifica el ID y el nombre de la hoja.", e.SpreadsheetID, e.Range)
	case PermissionDenied:
		return fmt.Sprintf("No tienes permisos para acceder a la hoja. Asegúrate de haber compartido la hoja con la cuenta de servicio: %s.", e.Email)
	case TransientServiceError:
		return fmt.Sprintf("Ocurrió un error con la API de Google Sheets: %v", e.Err)
	default:
		return fmt.Sprintf("Ocurrió un error general al cargar las reservas: %v", e.Err)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// classifyError maps a Sheets API failure onto FetchError, or onto an
// AuthRejected AuthError when the token endpoint refused the service account.
func classifyError(err error, spreadsheetID, readRange, email string) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return &auth.AuthError{Kind: auth.AuthRejected, Email: email, Err: err}
	}

	fetchErr := &FetchError{
		Kind:          UnknownError,
		SpreadsheetID: spreadsheetID,
		Range:         readRange,
		Email:         email,
		Err:           err,
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return fetchErr
	}

	switch {
	case apiErr.Code == http.StatusNotFound:
		fetchErr.Kind = ResourceNotFound
	case apiErr.Code == http.StatusBadRequest && strings.Contains(apiErr.Message, "Unable to parse range"):
		// The API answers a missing tab with a range parse error.
		fetchErr.Kind = ResourceNotFound
	case apiErr.Code == http.StatusForbidden:
		fetchErr.Kind = PermissionDenied
	case apiErr.Code == http.StatusUnauthorized:
		return &auth.AuthError{Kind: auth.AuthRejected, Email: email, Err: err}
	default:
		fetchErr.Kind = TransientServiceError
	}
	return fetchErr
}
