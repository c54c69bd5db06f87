package auth

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/sheets/v4"
)

// CredentialsFile is the service account key, resolved from the working directory.
const CredentialsFile = "credentials.json"

// serviceAccountFile holds the fields we validate before handing the file to oauth2.
type serviceAccountFile struct {
	Type        string `json:"type"`
	ClientEmail string `json:"client_email"`
	ClientID    string `json:"client_id"`
	PrivateKey  string `json:"private_key"`
}

// Credential is a service account bound to the read-only Sheets scope.
type Credential struct {
	path   string
	email  string
	config *jwt.Config
}

// Email returns the service account address, which is what a sheet must be shared with.
func (c *Credential) Email() string {
	return c.email
}

// Path returns the file the credential was read from.
func (c *Credential) Path() string {
	return c.path
}

// Client returns an *http.Client that signs requests with the service account.
// No request is made until the client is used.
func (c *Credential) Client(ctx context.Context) *http.Client {
	return c.config.Client(ctx)
}

// LoadCredential reads and validates a service account key file.
func LoadCredential(path string) (*Credential, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &AuthError{Kind: FileMissing, Path: path, Err: err}
		}
		return nil, &AuthError{Kind: MalformedCredential, Path: path, Err: err}
	}

	var sa serviceAccountFile
	if err := json.Unmarshal(b, &sa); err != nil {
		return nil, &AuthError{Kind: MalformedCredential, Path: path, Err: err}
	}
	if err := sa.validate(); err != nil {
		return nil, &AuthError{Kind: MalformedCredential, Path: path, Email: sa.ClientEmail, Err: err}
	}

	config, err := google.JWTConfigFromJSON(b, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, &AuthError{Kind: MalformedCredential, Path: path, Email: sa.ClientEmail, Err: err}
	}

	return &Credential{path: path, email: sa.ClientEmail, config: config}, nil
}

func (sa serviceAccountFile) validate() error {
	if sa.Type != "service_account" {
		return fmt.Errorf("expected type %q, got %q", "service_account", sa.Type)
	}
	if sa.ClientEmail == "" {
		return errors.New("missing client_email")
	}
	if sa.ClientID == "" {
		return errors.New("missing client_id")
	}
	if sa.PrivateKey == "" {
		return errors.New("missing private_key")
	}
	return validatePrivateKey([]byte(sa.PrivateKey))
}

// validatePrivateKey accepts PEM encoded RSA keys in PKCS#8 or PKCS#1 form.
func validatePrivateKey(key []byte) error {
	block, _ := pem.Decode(key)
	if block == nil {
		return errors.New("private_key is not PEM encoded")
	}
	if k, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		if _, ok := k.(*rsa.PrivateKey); ok {
			return nil
		}
		return errors.New("private_key is not an RSA key")
	}
	if _, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return nil
	}
	return errors.New("private_key is not a valid RSA key")
}

// Loader memoizes a credential for the lifetime of the process. The first call
// to Credential reads the file; later calls return the same result, including
// a failure, until a new Loader is made.
type Loader struct {
	path string

	mu     sync.Mutex
	loaded bool
	cred   *Credential
	err    error
}

// NewLoader returns a Loader for the given key file.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Path returns the key file path.
func (l *Loader) Path() string {
	return l.path
}

// Credential returns the memoized credential, loading it on first use.
func (l *Loader) Credential() (*Credential, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.loaded {
		l.cred, l.err = LoadCredential(l.path)
		l.loaded = true
	}
	return l.cred, l.err
}
