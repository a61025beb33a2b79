package security

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/shiprecon/src/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newRequest(t *testing.T) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "https://ot.example.com/receipts?orderNumber=PO1", nil)
	require.NoError(t, err)
	return req
}

func baseConfig() *config.AppConfig {
	return &config.AppConfig{
		DirectoryBaseURL: "https://ot.example.com",
		DirectoryKeyName: "X-API-Key",
		JWTSubject:       "shiprecon",
		JWTTTL:           time.Minute,
	}
}

func TestNewDirectoryAuthorizer_StaticModes(t *testing.T) {
	t.Run("bearer", func(t *testing.T) {
		cfg := baseConfig()
		cfg.DirectoryAuthMode, cfg.DirectoryToken = config.AuthModeBearer, "tok"
		a, err := NewDirectoryAuthorizer(cfg)
		require.NoError(t, err)
		req := newRequest(t)
		require.NoError(t, a.Authorize(req))
		assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
		assert.Equal(t, config.AuthModeBearer, a.Mode())
	})

	t.Run("token wins over header mode", func(t *testing.T) {
		cfg := baseConfig()
		cfg.DirectoryAuthMode, cfg.DirectoryToken, cfg.DirectoryAPIKey = config.AuthModeHeader, "tok", "key"
		a, err := NewDirectoryAuthorizer(cfg)
		require.NoError(t, err)
		assert.Equal(t, config.AuthModeBearer, a.Mode())
	})

	t.Run("header", func(t *testing.T) {
		cfg := baseConfig()
		cfg.DirectoryAuthMode, cfg.DirectoryAPIKey = config.AuthModeHeader, "key"
		a, err := NewDirectoryAuthorizer(cfg)
		require.NoError(t, err)
		req := newRequest(t)
		require.NoError(t, a.Authorize(req))
		assert.Equal(t, "key", req.Header.Get("X-API-Key"))
		assert.Empty(t, req.Header.Get("Authorization"))
	})

	t.Run("query", func(t *testing.T) {
		cfg := baseConfig()
		cfg.DirectoryAuthMode, cfg.DirectoryAPIKey, cfg.DirectoryKeyName = config.AuthModeQuery, "key", "api_key"
		a, err := NewDirectoryAuthorizer(cfg)
		require.NoError(t, err)
		req := newRequest(t)
		require.NoError(t, a.Authorize(req))
		assert.Equal(t, "key", req.URL.Query().Get("api_key"))
		assert.Equal(t, "PO1", req.URL.Query().Get("orderNumber"))
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := baseConfig()
		cfg.DirectoryAuthMode = config.AuthModeHeader
		_, err := NewDirectoryAuthorizer(cfg)
		assert.ErrorIs(t, err, config.ErrInvalidConfig)
	})
}

func TestOAuth2Authorizer_FetchesAndReusesToken(t *testing.T) {
	calls := 0
	idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"idp-token","token_type":"Bearer","expires_in":3600}`))
	}))
	defer idp.Close()

	cfg := baseConfig()
	cfg.DirectoryAuthMode = config.AuthModeOAuth2
	cfg.OAuthTokenURL, cfg.OAuthClientID, cfg.OAuthClientSecret = idp.URL, "id", "secret"
	a, err := NewDirectoryAuthorizer(cfg)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		req := newRequest(t)
		require.NoError(t, a.Authorize(req))
		assert.Equal(t, "Bearer idp-token", req.Header.Get("Authorization"))
	}
	assert.Equal(t, 1, calls)
}

func TestOAuth2Authorizer_TokenEndpointFailure(t *testing.T) {
	idp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer idp.Close()

	cfg := baseConfig()
	cfg.DirectoryAuthMode = config.AuthModeOAuth2
	cfg.OAuthTokenURL, cfg.OAuthClientID, cfg.OAuthClientSecret = idp.URL, "id", "secret"
	a, err := NewDirectoryAuthorizer(cfg)
	require.NoError(t, err)

	err = a.Authorize(newRequest(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oauth2 token")
}

func TestServiceTokenAuthorizer_SignsAndCaches(t *testing.T) {
	cfg := baseConfig()
	cfg.DirectoryAuthMode, cfg.JWTSecret = config.AuthModeJWT, testSecret
	a, err := NewDirectoryAuthorizer(cfg)
	require.NoError(t, err)
	sta := a.(*ServiceTokenAuthorizer)

	now := time.Now()
	sta.now = func() time.Time { return now }

	req := newRequest(t)
	require.NoError(t, a.Authorize(req))
	tok := strings.TrimPrefix(req.Header.Get("Authorization"), "Bearer ")

	sub, err := parseServiceToken(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "shiprecon", sub)

	req2 := newRequest(t)
	require.NoError(t, a.Authorize(req2))
	assert.Equal(t, req.Header.Get("Authorization"), req2.Header.Get("Authorization"))

	sta.now = func() time.Time { return now.Add(2 * time.Minute) }
	req3 := newRequest(t)
	require.NoError(t, a.Authorize(req3))
	assert.NotEqual(t, req.Header.Get("Authorization"), req3.Header.Get("Authorization"))
}

func TestParseServiceToken_RejectsWrongSecret(t *testing.T) {
	a := NewServiceTokenAuthorizer(testSecret, "svc", time.Minute)
	tok, err := a.current()
	require.NoError(t, err)

	_, err = parseServiceToken("another-secret-another-secret-xx", tok)
	assert.Error(t, err)
}
