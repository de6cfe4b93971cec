package homeassistant

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Environment variables consulted by EnvironmentFallback.
const (
	EnvURL   = "HA_URL"
	EnvToken = "HA_TOKEN"
)

// Credentials identify a Home Assistant instance and the bearer token used
// to talk to it. Empty fields are filled from the client defaults and then
// from the configured fallback.
type Credentials struct {
	BaseURL string
	Token   string
}

// merge fills empty fields of c from other.
func (c Credentials) merge(other Credentials) Credentials {
	if c.BaseURL == "" {
		c.BaseURL = other.BaseURL
	}
	if c.Token == "" {
		c.Token = other.Token
	}
	return c
}

func (c Credentials) complete() bool {
	return c.BaseURL != "" && c.Token != ""
}

// CredentialSource supplies fallback credentials. An error means the source
// itself could not be read, not that a value is missing.
type CredentialSource interface {
	Credentials() (Credentials, error)
}

// EnvFallback lazily loads HA_URL and HA_TOKEN once and returns the same
// values for the lifetime of the value.
type EnvFallback struct {
	files []string

	once  sync.Once
	creds Credentials
	err   error
}

// EnvironmentFallback returns a CredentialSource reading HA_URL and HA_TOKEN.
// Optional dotenv files are read in order before the process environment is
// consulted; the process environment always takes precedence. Nothing is
// read until the first call to Credentials.
func EnvironmentFallback(dotenvFiles ...string) *EnvFallback {
	return &EnvFallback{files: dotenvFiles}
}

// Credentials implements CredentialSource. Safe for concurrent use. A dotenv
// file that exists but cannot be read or parsed is reported on every call.
func (f *EnvFallback) Credentials() (Credentials, error) {
	f.once.Do(func() {
		f.creds, f.err = loadEnvironment(f.files)
	})
	return f.creds, f.err
}

func loadEnvironment(files []string) (Credentials, error) {
	v := viper.New()
	v.SetConfigType("env")
	for _, file := range files {
		v.SetConfigFile(file)
		if err := v.MergeInConfig(); err != nil {
			// An absent dotenv file is fine; the environment may still
			// provide the values.
			var notFound viper.ConfigFileNotFoundError
			if errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound) {
				continue
			}
			return Credentials{}, fmt.Errorf("failed to read dotenv file %s: %w", file, err)
		}
	}
	v.AutomaticEnv()

	return Credentials{
		BaseURL: strings.TrimSpace(v.GetString(EnvURL)),
		Token:   strings.TrimSpace(v.GetString(EnvToken)),
	}, nil
}

// resolve merges explicit credentials with the client defaults and the
// fallback. Each field is resolved independently.
func (c *Client) resolve(explicit Credentials) (Credentials, error) {
	creds := explicit.merge(c.defaults)
	if !creds.complete() && c.fallback != nil {
		fallback, err := c.fallback.Credentials()
		if err != nil {
			return Credentials{}, fmt.Errorf("failed to load fallback credentials: %w", err)
		}
		creds = creds.merge(fallback)
	}

	if creds.BaseURL == "" {
		return Credentials{}, &MissingCredentialError{Field: EnvURL}
	}
	if creds.Token == "" {
		return Credentials{}, &MissingCredentialError{Field: EnvToken}
	}
	return creds, nil
}
