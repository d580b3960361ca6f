package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	auth "github.com/goliatone/go-jobportal"
	"github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserFinder implements auth.UserFinder
type MockUserFinder struct {
	mock.Mock
}

func (m *MockUserFinder) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*auth.User, error) {
	args := m.Called(ctx, identifier)
	if u, ok := args.Get(0).(*auth.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockIdentityProvider implements auth.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, identifier, password, role string) (*auth.User, error) {
	args := m.Called(ctx, identifier, password, role)
	if u, ok := args.Get(0).(*auth.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

// MockLogger records every call so tests can assert on log output
type MockLogger struct {
	mu      sync.Mutex
	entries []string
}

func (m *MockLogger) record(level, format string, args ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, level+": "+format+" "+fmt.Sprint(args...))
}

func (m *MockLogger) Debug(format string, args ...any) { m.record("debug", format, args...) }
func (m *MockLogger) Info(format string, args ...any)  { m.record("info", format, args...) }
func (m *MockLogger) Warn(format string, args ...any)  { m.record("warn", format, args...) }
func (m *MockLogger) Error(format string, args ...any) { m.record("error", format, args...) }

func (m *MockLogger) Entries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.entries...)
}

// testConfig implements auth.Config
type testConfig struct {
	signingKey  string
	ttl         time.Duration
	contextKey  string
	tokenLookup string
	secure      bool
}

func newTestConfig() testConfig {
	return testConfig{
		signingKey:  string(testSigningKey),
		ttl:         auth.DefaultTokenTTL,
		contextKey:  "user",
		tokenLookup: "cookie:token",
	}
}

func (c testConfig) GetSigningKey() string             { return c.signingKey }
func (c testConfig) GetTokenExpiration() time.Duration { return c.ttl }
func (c testConfig) GetContextKey() string             { return c.contextKey }
func (c testConfig) GetTokenLookup() string            { return c.tokenLookup }
func (c testConfig) GetIssuer() string                 { return "" }
func (c testConfig) GetAudience() []string             { return nil }
func (c testConfig) GetCookieSecure() bool             { return c.secure }
func (c testConfig) GetPasswordCost() int              { return 4 }

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func decodeBody(t *testing.T, res *http.Response, v any) {
	t.Helper()
	defer res.Body.Close()
	require.NoError(t, json.NewDecoder(res.Body).Decode(v))
}
