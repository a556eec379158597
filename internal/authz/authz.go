// Package authz decides whether a request may read or modify the catalog.
package authz

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Action is the kind of access a request asks for.
type Action string

const (
	ActionRead  Action = "read"
	ActionWrite Action = "write"
)

// ScopeWrite must be present on a token for mutating requests.
const ScopeWrite = "catalog:write"

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("insufficient scope")
)

// Principal identifies the caller of an authorized request.
type Principal struct {
	Subject string
	Scopes  []string
}

// Authorizer is consulted by the HTTP surface before every catalog operation.
type Authorizer interface {
	Authorize(r *http.Request, action Action) (Principal, error)
}

// AllowAll grants every action. Only wire it in development.
type AllowAll struct{}

func (AllowAll) Authorize(*http.Request, Action) (Principal, error) {
	return Principal{Subject: "anonymous", Scopes: []string{ScopeWrite}}, nil
}

// Claims carried by catalog bearer tokens. Scope is space separated.
type Claims struct {
	jwt.RegisteredClaims
	Scope string `json:"scope,omitempty"`
}

// JWT verifies HMAC signed bearer tokens.
type JWT struct {
	secret []byte
	issuer string
}

func NewJWT(secret, issuer string) (*JWT, error) {
	if secret == "" {
		return nil, errors.New("authz: empty jwt secret")
	}
	return &JWT{secret: []byte(secret), issuer: issuer}, nil
}

// Authorize requires a valid token for any action and the write scope for writes.
func (a *JWT) Authorize(r *http.Request, action Action) (Principal, error) {
	raw, ok := bearerToken(r)
	if !ok {
		return Principal{}, ErrUnauthenticated
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"})}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return Principal{}, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	p := Principal{Subject: claims.Subject, Scopes: strings.Fields(claims.Scope)}
	if action == ActionWrite && !slices.Contains(p.Scopes, ScopeWrite) {
		return p, ErrForbidden
	}
	return p, nil
}

// Sign mints a token the JWT authorizer accepts.
func (a *JWT) Sign(subject string, scopes []string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Scope: strings.Join(scopes, " "),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
