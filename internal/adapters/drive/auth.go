// Package drive adapts the Google Drive and Sheets read-only REST APIs.
package drive

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"

	"github.com/xparky/portal/pkg/metrics"
)

// OAuth scopes requested for the service account token. The portal only ever
// reads, so both scopes are the read-only variants.
const (
	scopeDriveReadOnly  = "https://www.googleapis.com/auth/drive.readonly"
	scopeSheetsReadOnly = "https://www.googleapis.com/auth/spreadsheets.readonly"
)

// Token exchange constants.
const (
	jwtBearerGrantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"
	assertionLifetime  = time.Hour
	tokenExpirySkew    = 60 * time.Second
)

// Credentials is the subset of a service account key file the adapter needs.
type Credentials struct {
	ClientEmail string `json:"client_email" validate:"required,email"`
	PrivateKey  string `json:"private_key"  validate:"required"`
	TokenURI    string `json:"token_uri"    validate:"required,url"`
}

var credentialsValidator = validator.New()

// ParseCredentials decodes a service account JSON key blob.
func ParseCredentials(data []byte) (Credentials, error) {
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if err := credentialsValidator.Struct(creds); err != nil {
		return Credentials{}, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	return creds, nil
}

// LoadCredentialsFile reads and decodes a service account key file.
func LoadCredentialsFile(path string) (Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("reading credentials file: %w", err)
	}
	return ParseCredentials(data)
}

// TokenSource produces bearer tokens for Google API requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticTokenSource returns the same token on every call. Used by tests and
// by anything that already holds a valid access token.
type StaticTokenSource string

// Token implements TokenSource.
func (s StaticTokenSource) Token(_ context.Context) (string, error) {
	return string(s), nil
}

// jwtTokenSource exchanges an RS256-signed service account assertion for a
// bearer token and caches it until shortly before expiry.
type jwtTokenSource struct {
	creds      Credentials
	key        *rsa.PrivateKey
	httpClient *http.Client
	now        func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

// TokenOption applies a configuration option to the JWT token source.
type TokenOption func(*jwtTokenSource)

// WithTokenHTTPClient sets the HTTP client used for the token exchange.
func WithTokenHTTPClient(httpClient *http.Client) TokenOption {
	return func(s *jwtTokenSource) {
		if httpClient != nil {
			s.httpClient = httpClient
		}
	}
}

// WithTokenClock sets the clock used for assertion and expiry timestamps.
func WithTokenClock(now func() time.Time) TokenOption {
	return func(s *jwtTokenSource) {
		if now != nil {
			s.now = now
		}
	}
}

// NewJWTTokenSource builds a token source from service account credentials.
// The private key is parsed eagerly so a malformed key fails at startup
// rather than on the first request.
func NewJWTTokenSource(creds Credentials, opts ...TokenOption) (TokenSource, error) {
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(creds.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing private key: %v", ErrInvalidCredentials, err)
	}

	s := &jwtTokenSource{
		creds:      creds,
		key:        key,
		httpClient: http.DefaultClient,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Token returns a cached access token, refreshing it when it is within
// tokenExpirySkew of expiring.
func (s *jwtTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.now().Before(s.expires) {
		return s.token, nil
	}

	token, expiresIn, err := s.exchange(ctx)
	if err != nil {
		metrics.RecordTokenRefreshError()
		return "", err
	}
	metrics.RecordTokenRefresh()

	s.token = token
	s.expires = s.now().Add(expiresIn - tokenExpirySkew)
	return s.token, nil
}

// exchange posts a signed assertion to the token endpoint.
func (s *jwtTokenSource) exchange(ctx context.Context) (string, time.Duration, error) {
	assertion, err := s.assertion()
	if err != nil {
		return "", 0, err
	}

	form := url.Values{}
	form.Set("grant_type", jwtBearerGrantType)
	form.Set("assertion", assertion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.creds.TokenURI, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrTokenExchange, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		return "", 0, fmt.Errorf("%w: status %d: %s", ErrTokenExchange, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", 0, fmt.Errorf("%w: decoding response: %v", ErrTokenExchange, err)
	}
	if payload.AccessToken == "" {
		return "", 0, fmt.Errorf("%w: empty access token in response", ErrTokenExchange)
	}

	return payload.AccessToken, time.Duration(payload.ExpiresIn) * time.Second, nil
}

// assertion builds the signed JWT grant for the token exchange.
func (s *jwtTokenSource) assertion() (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"iss":   s.creds.ClientEmail,
		"scope": scopeDriveReadOnly + " " + scopeSheetsReadOnly,
		"aud":   s.creds.TokenURI,
		"iat":   now.Unix(),
		"exp":   now.Add(assertionLifetime).Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("signing token assertion: %w", err)
	}
	return signed, nil
}
