package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harrisonrobin/reservas/pkg/auth"
	"github.com/harrisonrobin/reservas/pkg/cache"
)

const (
	xdgAppName = "reservas"
	configFile = "config.json"

	DefaultSpreadsheetID = "1T5Sm5evPLAOtY9pTzLoihtBgrGoX0dZGUOjpIBq2Xeg"
	DefaultRange         = "Respuestas de formulario 1!A1:J"
	DefaultListen        = ":8501"
	DefaultAuthFile      = "auth.secret"
)

// Duration is a time.Duration stored as a string like "30s".
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"30s\": %w", err)
	}
	if s == "" {
		d.Duration = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("failed to parse duration %q: %w", s, err)
	}
	d.Duration = v
	return nil
}

type Config struct {
	SpreadsheetID   string   `json:"spreadsheet_id"`
	Range           string   `json:"range"`
	CredentialsFile string   `json:"credentials_file"`
	CacheTTL        Duration `json:"cache_ttl"`
	Listen          string   `json:"listen"`
	AuthFile        string   `json:"auth_file"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		SpreadsheetID:   DefaultSpreadsheetID,
		Range:           DefaultRange,
		CredentialsFile: auth.CredentialsFile,
		CacheTTL:        Duration{cache.DefaultTTL},
		Listen:          DefaultListen,
		AuthFile:        DefaultAuthFile,
	}
}

// applyDefaults fills fields left empty in the file.
func (c *Config) applyDefaults() {
	d := Default()
	if c.SpreadsheetID == "" {
		c.SpreadsheetID = d.SpreadsheetID
	}
	if c.Range == "" {
		c.Range = d.Range
	}
	if c.CredentialsFile == "" {
		c.CredentialsFile = d.CredentialsFile
	}
	if c.CacheTTL.Duration == 0 {
		c.CacheTTL = d.CacheTTL
	}
	if c.Listen == "" {
		c.Listen = d.Listen
	}
	if c.AuthFile == "" {
		c.AuthFile = d.AuthFile
	}
}

func GetConfigPath() (string, error) {
	xdgHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(xdgHome, ".config", xdgAppName, configFile), nil
}

// Load reads the config from the user's config directory.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. A missing file yields the defaults.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	defer f.Close()

	var cfg Config
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Save writes the config to the user's config directory.
func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

func SaveFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file for writing: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cfg)
}
