package auth

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// DefaultContextKey is the locals key validated claims are stored under.
const DefaultContextKey = "user"

const authScheme = "Bearer"

// ProtectedRoute returns middleware that validates the session token on
// every request and stores its claims in the router locals. Requests
// without a valid token never reach the wrapped handler.
func ProtectedRoute(tokens TokenService, errorHandler router.ErrorHandler) router.MiddlewareFunc {
	if errorHandler == nil {
		errorHandler = DefaultAuthErrorHandler
	}

	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			raw := RawTokenFromContext(ctx)
			if raw == "" {
				return errorHandler(ctx, ErrUnableToFindSession)
			}

			claims, err := tokens.Validate(raw)
			if err != nil {
				return errorHandler(ctx, err)
			}

			ctx.Locals(DefaultContextKey, claims)

			return ctx.Next()
		}
	}
}

// RawTokenFromContext extracts the bearer token from the Authorization
// header, falling back to the session cookie.
func RawTokenFromContext(ctx router.Context) string {
	header := ctx.GetString(router.HeaderAuthorization, "")
	if len(header) > len(authScheme)+1 && strings.EqualFold(header[:len(authScheme)], authScheme) {
		return strings.TrimSpace(header[len(authScheme):])
	}

	return ctx.Cookies(DefaultContextKey)
}

// ClaimsFromContext returns the claims ProtectedRoute stored for this
// request.
func ClaimsFromContext(ctx router.Context) (AuthClaims, error) {
	v := ctx.Locals(DefaultContextKey)
	if v == nil {
		return nil, ErrUnableToFindSession
	}

	claims, ok := v.(AuthClaims)
	if !ok {
		return nil, ErrUnableToDecodeSession
	}

	return claims, nil
}

// DefaultAuthErrorHandler renders a classified auth failure as JSON using
// the rich error's HTTP code.
func DefaultAuthErrorHandler(ctx router.Context, err error) error {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		richErr = goerrors.Wrap(err, goerrors.CategoryAuth, "invalid authentication token").
			WithCode(goerrors.CodeUnauthorized)
	}

	return ctx.JSON(richErr.Code, map[string]any{
		"error": richErr.Message,
		"code":  richErr.TextCode,
	})
}
