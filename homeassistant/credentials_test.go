package homeassistant

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	creds Credentials
	err   error
	calls int
}

func (s *staticSource) Credentials() (Credentials, error) {
	s.calls++
	return s.creds, s.err
}

// loadFallback reads a source and fails the test on error.
func loadFallback(t *testing.T, source CredentialSource) Credentials {
	t.Helper()
	creds, err := source.Credentials()
	require.NoError(t, err)
	return creds
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		explicit  Credentials
		defaults  Credentials
		fallback  *staticSource
		want      Credentials
		wantField string
	}{
		{
			name:     "explicit wins",
			explicit: Credentials{BaseURL: "http://explicit", Token: "explicit-token"},
			defaults: Credentials{BaseURL: "http://default", Token: "default-token"},
			fallback: &staticSource{creds: Credentials{BaseURL: "http://env", Token: "env-token"}},
			want:     Credentials{BaseURL: "http://explicit", Token: "explicit-token"},
		},
		{
			name:     "fields resolve independently",
			explicit: Credentials{Token: "explicit-token"},
			fallback: &staticSource{creds: Credentials{BaseURL: "http://env", Token: "env-token"}},
			want:     Credentials{BaseURL: "http://env", Token: "explicit-token"},
		},
		{
			name:     "client defaults before fallback",
			defaults: Credentials{BaseURL: "http://default"},
			fallback: &staticSource{creds: Credentials{BaseURL: "http://env", Token: "env-token"}},
			want:     Credentials{BaseURL: "http://default", Token: "env-token"},
		},
		{
			name:      "missing url",
			explicit:  Credentials{Token: "explicit-token"},
			wantField: EnvURL,
		},
		{
			name:      "missing token",
			fallback:  &staticSource{creds: Credentials{BaseURL: "http://env"}},
			wantField: EnvToken,
		},
		{
			name:      "nothing configured",
			fallback:  &staticSource{},
			wantField: EnvURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := []Option{WithCredentials(tt.defaults)}
			if tt.fallback != nil {
				opts = append(opts, WithFallback(tt.fallback))
			}
			client := NewClient(zerolog.Nop(), opts...)

			got, err := client.resolve(tt.explicit)
			if tt.wantField != "" {
				var missing *MissingCredentialError
				require.ErrorAs(t, err, &missing)
				assert.Equal(t, tt.wantField, missing.Field)
				assert.Equal(t, tt.wantField+" is required", err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_SkipsFallbackWhenComplete(t *testing.T) {
	source := &staticSource{creds: Credentials{BaseURL: "http://env", Token: "env-token"}}
	client := NewClient(zerolog.Nop(), WithFallback(source))

	_, err := client.resolve(Credentials{BaseURL: "http://explicit", Token: "explicit-token"})
	require.NoError(t, err)
	assert.Zero(t, source.calls)
}

func TestResolve_FallbackError(t *testing.T) {
	loadErr := errors.New("boom")
	client := NewClient(zerolog.Nop(), WithFallback(&staticSource{err: loadErr}))

	_, err := client.resolve(Credentials{BaseURL: "http://explicit"})
	require.ErrorIs(t, err, loadErr)

	// Complete credentials never consult the broken source.
	_, err = client.resolve(Credentials{BaseURL: "http://explicit", Token: "explicit-token"})
	require.NoError(t, err)
}

func TestMissingCredential_NoRequest(t *testing.T) {
	ctx := context.Background()
	calls := statusCheckedCalls(ctx)
	for name, call := range statusUncheckedCalls(ctx) {
		calls[name] = call
	}
	calls["states of"] = func(c *Client) error {
		_, err := c.StatesOf(ctx, Credentials{}, "light.a", "light.b")
		return err
	}

	for name, call := range calls {
		t.Run(name+"/no url", func(t *testing.T) {
			client := NewClient(zerolog.Nop(), WithCredentials(Credentials{Token: testToken}), WithFallback(&staticSource{}))

			var missing *MissingCredentialError
			require.ErrorAs(t, call(client), &missing)
			assert.Equal(t, EnvURL, missing.Field)
		})

		t.Run(name+"/no token", func(t *testing.T) {
			server, rec := newTestServer(t, 200, `{}`)
			client := NewClient(zerolog.Nop(), WithCredentials(Credentials{BaseURL: server.URL}), WithFallback(&staticSource{}))

			var missing *MissingCredentialError
			require.ErrorAs(t, call(client), &missing)
			assert.Equal(t, EnvToken, missing.Field)
			assert.Zero(t, rec.Count())
		})
	}
}

func TestEnvironmentFallback(t *testing.T) {
	t.Run("reads process environment", func(t *testing.T) {
		t.Setenv(EnvURL, "http://ha.local:8123")
		t.Setenv(EnvToken, "env-token")

		creds := loadFallback(t, EnvironmentFallback())
		assert.Equal(t, Credentials{BaseURL: "http://ha.local:8123", Token: "env-token"}, creds)
	})

	t.Run("loads once", func(t *testing.T) {
		t.Setenv(EnvURL, "http://first")
		t.Setenv(EnvToken, "first-token")

		fallback := EnvironmentFallback()
		first := loadFallback(t, fallback)

		t.Setenv(EnvURL, "http://second")
		assert.Equal(t, first, loadFallback(t, fallback))
		assert.Equal(t, "http://first", loadFallback(t, fallback).BaseURL)
	})

	t.Run("concurrent first use", func(t *testing.T) {
		t.Setenv(EnvURL, "http://concurrent")
		t.Setenv(EnvToken, "concurrent-token")

		fallback := EnvironmentFallback()
		results := make([]Credentials, 32)
		var wg sync.WaitGroup
		for i := range results {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i], _ = fallback.Credentials()
			}()
		}
		wg.Wait()

		for _, got := range results {
			assert.Equal(t, results[0], got)
		}
		assert.Equal(t, "http://concurrent", results[0].BaseURL)
	})

	t.Run("dotenv file with environment override", func(t *testing.T) {
		t.Setenv(EnvURL, "")
		t.Setenv(EnvToken, "env-token")

		file := filepath.Join(t.TempDir(), "ha.env")
		require.NoError(t, os.WriteFile(file, []byte("HA_URL=\"http://file:8123\"\nHA_TOKEN=file-token\n"), 0o600))

		creds := loadFallback(t, EnvironmentFallback(file))
		assert.Equal(t, "http://file:8123", creds.BaseURL)
		assert.Equal(t, "env-token", creds.Token)
	})

	t.Run("unreadable dotenv file is reported", func(t *testing.T) {
		t.Setenv(EnvURL, "")
		t.Setenv(EnvToken, "")

		// A directory exists but cannot be read as a dotenv file.
		dir := t.TempDir()
		fallback := EnvironmentFallback(dir)
		_, err := fallback.Credentials()
		require.Error(t, err)
		assert.Contains(t, err.Error(), dir)

		server, rec := newTestServer(t, 200, `[]`)
		client := NewClient(zerolog.Nop(), WithCredentials(Credentials{BaseURL: server.URL}), WithFallback(fallback))
		_, err = client.Events(context.Background(), Credentials{})
		require.Error(t, err)
		var missing *MissingCredentialError
		assert.False(t, errors.As(err, &missing))
		assert.Contains(t, err.Error(), "fallback credentials")
		assert.Zero(t, rec.Count())
	})

	t.Run("missing dotenv file is ignored", func(t *testing.T) {
		t.Setenv(EnvURL, "")
		t.Setenv(EnvToken, "")

		creds := loadFallback(t, EnvironmentFallback(filepath.Join(t.TempDir(), "absent.env")))
		assert.Equal(t, Credentials{}, creds)

		client := NewClient(zerolog.Nop(), WithFallback(EnvironmentFallback()))
		_, err := client.Events(context.Background(), Credentials{})
		var missing *MissingCredentialError
		assert.True(t, errors.As(err, &missing))
	})
}
