package auth

import "fmt"

// ErrorKind tags the ways a credential can fail.
type ErrorKind int

const (
	// FileMissing means the credential file does not exist.
	FileMissing ErrorKind = iota
	// MalformedCredential means the file does not parse or lacks required fields.
	MalformedCredential
	// AuthRejected means Google refused the identity on first use.
	AuthRejected
)

func (k ErrorKind) String() string {
	switch k {
	case FileMissing:
		return "file missing"
	case MalformedCredential:
		return "malformed credential"
	case AuthRejected:
		return "auth rejected"
	default:
		return "unknown"
	}
}

// AuthError is returned by the credential loader, and by the fetcher when the
// token endpoint rejects the service account.
type AuthError struct {
	Kind  ErrorKind
	Path  string
	Email string
	Err   error
}

func (e *AuthError) Error() string {
	switch e.Kind {
	case FileMissing:
		return fmt.Sprintf("El archivo de credenciales no se encontró en la ruta: %s", e.Path)
	case MalformedCredential:
		return fmt.Sprintf("El archivo de credenciales %s no es válido: %v", e.Path, e.Err)
	case AuthRejected:
		return fmt.Sprintf("Google rechazó la cuenta de servicio %s: %v", e.Email, e.Err)
	default:
		return fmt.Sprintf("Error de autenticación con Google Sheets: %v", e.Err)
	}
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
