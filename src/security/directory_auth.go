package security

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/username/shiprecon/src/config"
)

// Authorizer adds directory credentials to an outbound request.
type Authorizer interface {
	Authorize(req *http.Request) error
	Mode() string
}

// NewDirectoryAuthorizer builds the authorizer for the configured mode.
// A configured bearer token always wins.
func NewDirectoryAuthorizer(cfg *config.AppConfig) (Authorizer, error) {
	if err := cfg.DirectoryConfigError(); err != nil {
		return nil, err
	}

	switch cfg.EffectiveAuthMode() {
	case config.AuthModeBearer:
		return &bearerAuthorizer{token: cfg.DirectoryToken}, nil
	case config.AuthModeHeader:
		return &headerKeyAuthorizer{name: cfg.DirectoryKeyName, key: cfg.DirectoryAPIKey}, nil
	case config.AuthModeQuery:
		return &queryKeyAuthorizer{name: cfg.DirectoryKeyName, key: cfg.DirectoryAPIKey}, nil
	case config.AuthModeOAuth2:
		cc := &clientcredentials.Config{
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthClientSecret,
			TokenURL:     cfg.OAuthTokenURL,
			Scopes:       cfg.OAuthScopes,
		}
		return &oauth2Authorizer{source: cc.TokenSource(context.Background())}, nil
	case config.AuthModeJWT:
		return NewServiceTokenAuthorizer(cfg.JWTSecret, cfg.JWTSubject, cfg.JWTTTL), nil
	}
	return nil, fmt.Errorf("%w: unknown auth mode %q", config.ErrInvalidConfig, cfg.DirectoryAuthMode)
}

type bearerAuthorizer struct {
	token string
}

func (a *bearerAuthorizer) Authorize(req *http.Request) error {
	req.Header.Set("Authorization", "Bearer "+a.token)
	return nil
}

func (a *bearerAuthorizer) Mode() string { return config.AuthModeBearer }

type headerKeyAuthorizer struct {
	name, key string
}

func (a *headerKeyAuthorizer) Authorize(req *http.Request) error {
	req.Header.Set(a.name, a.key)
	return nil
}

func (a *headerKeyAuthorizer) Mode() string { return config.AuthModeHeader }

type queryKeyAuthorizer struct {
	name, key string
}

func (a *queryKeyAuthorizer) Authorize(req *http.Request) error {
	q := req.URL.Query()
	q.Set(a.name, a.key)
	req.URL.RawQuery = q.Encode()
	return nil
}

func (a *queryKeyAuthorizer) Mode() string { return config.AuthModeQuery }

type oauth2Authorizer struct {
	source oauth2.TokenSource
}

func (a *oauth2Authorizer) Authorize(req *http.Request) error {
	tok, err := a.source.Token()
	if err != nil {
		return fmt.Errorf("fetching oauth2 token: %w", err)
	}
	tok.SetAuthHeader(req)
	return nil
}

func (a *oauth2Authorizer) Mode() string { return config.AuthModeOAuth2 }

// ServiceTokenAuthorizer signs short-lived HS256 tokens and reuses each one
// until shortly before it expires.
type ServiceTokenAuthorizer struct {
	secret  []byte
	subject string
	ttl     time.Duration
	now     func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

func NewServiceTokenAuthorizer(secret, subject string, ttl time.Duration) *ServiceTokenAuthorizer {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ServiceTokenAuthorizer{secret: []byte(secret), subject: subject, ttl: ttl, now: time.Now}
}

func (a *ServiceTokenAuthorizer) Authorize(req *http.Request) error {
	tok, err := a.current()
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	return nil
}

func (a *ServiceTokenAuthorizer) Mode() string { return config.AuthModeJWT }

func (a *ServiceTokenAuthorizer) current() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	if a.token != "" && now.Before(a.expires.Add(-a.ttl/10)) {
		return a.token, nil
	}

	expires := now.Add(a.ttl)
	claims := jwt.MapClaims{
		"sub": a.subject,
		"exp": expires.Unix(),
		"iat": now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("signing service token: %w", err)
	}
	a.token, a.expires = signed, expires
	return signed, nil
}

// parseServiceToken validates a token minted by ServiceTokenAuthorizer and
// returns its subject.
func parseServiceToken(secret, tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		sub, ok := claims["sub"].(string)
		if !ok {
			return "", errors.New("invalid token: 'sub' claim missing or not a string")
		}
		return sub, nil
	}
	return "", errors.New("invalid token")
}
