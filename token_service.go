package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// DefaultTokenExpiration is the token lifetime in minutes used when the
// configuration leaves expiration unset. Unset is not the same as zero:
// zero and negative values both fall back to this default.
const DefaultTokenExpiration = 60

// TokenService issues and validates session tokens.
type TokenService interface {
	Generate(user *User) (string, error)
	Validate(tokenString string) (AuthClaims, error)
}

// TokenServiceImpl signs HS256 tokens for confirmed identities.
type TokenServiceImpl struct {
	signingKey        []byte
	expirationMinutes int
	issuer            string
	audience          jwt.ClaimStrings
	logger            Logger
}

// NewTokenService builds a token service from signing configuration. A
// missing signing secret is fatal misconfiguration and fails here, before
// any request is served.
func NewTokenService(cfg Config, logger Logger) (*TokenServiceImpl, error) {
	if cfg.GetSigningKey() == "" {
		return nil, ErrSigningSecretMissing
	}

	if logger == nil {
		logger = defLogger{}
	}

	minutes := cfg.GetTokenExpiration()
	if minutes <= 0 {
		minutes = DefaultTokenExpiration
	}

	return &TokenServiceImpl{
		signingKey:        []byte(cfg.GetSigningKey()),
		expirationMinutes: minutes,
		issuer:            cfg.GetIssuer(),
		audience:          cfg.GetAudience(),
		logger:            logger,
	}, nil
}

// Generate creates a session token whose claims are exactly the subject id,
// username, and email. Expiry is issuance time plus the configured minutes.
func (ts *TokenServiceImpl) Generate(user *User) (string, error) {
	if user == nil {
		return "", errors.New("user must not be nil", errors.CategoryInternal)
	}

	now := time.Now()
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   user.ID.String(),
			Audience:  ts.audience,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ts.expirationMinutes) * time.Minute)),
		},
		Name:         user.Username,
		EmailAddress: user.Email,
	}

	return ts.SignClaims(claims)
}

// SignClaims signs arbitrary JWT claims using the configured signing key.
func (ts *TokenServiceImpl) SignClaims(claims *JWTClaims) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses a token and checks signature, issuer, audience, and
// expiry. All four checks are mandatory; none can be skipped.
func (ts *TokenServiceImpl) Validate(tokenString string) (AuthClaims, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithExpirationRequired(),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).WithTextCode(ErrTokenMalformed.TextCode)
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	ts.logger.Error("TokenService validate could not decode or validate claims")
	return nil, ErrTokenMalformed
}
