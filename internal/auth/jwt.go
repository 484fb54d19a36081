package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the lifetime of a token encoded without an explicit ttl.
const DefaultTokenTTL = 15 * time.Minute

// ErrInvalidToken covers every decode failure: bad signature, malformed input,
// unexpected algorithm and expiry.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload carried by an access token.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// TokenCodec signs and verifies HS256 access tokens with a server-held key.
type TokenCodec struct {
	secret     []byte
	defaultTTL time.Duration
	now        func() time.Time
}

// CodecOption customises a TokenCodec.
type CodecOption func(*TokenCodec)

// WithClock overrides the wall clock used for stamping and checking expiry.
func WithClock(now func() time.Time) CodecOption {
	return func(c *TokenCodec) { c.now = now }
}

// NewTokenCodec creates a codec signing with secret. A non-positive defaultTTL
// falls back to DefaultTokenTTL.
func NewTokenCodec(secret []byte, defaultTTL time.Duration, opts ...CodecOption) *TokenCodec {
	if defaultTTL <= 0 {
		defaultTTL = DefaultTokenTTL
	}
	c := &TokenCodec{
		secret:     secret,
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Encode stamps claims with an expiry of now+ttl and signs them. A non-positive
// ttl uses the codec's default. Any ExpiresAt already on claims is overwritten.
func (c *TokenCodec) Encode(claims Claims, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   claims.Subject,
		ExpiresAt: jwt.NewNumericDate(c.now().Add(ttl)),
	})
	return token.SignedString(c.secret)
}

// Decode verifies tokenStr and returns its claims. Expiry is required and
// checked against the codec's clock.
func (c *TokenCodec) Decode(tokenStr string) (Claims, error) {
	registered := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, registered, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	return Claims{
		Subject:   registered.Subject,
		ExpiresAt: registered.ExpiresAt.Time,
	}, nil
}
