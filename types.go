package auth

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// UserStore is the persistence boundary for identities. Implementations own
// password hashing; the raw password handed to Create is never stored by the
// engine. Lookups return a not-found rich error (goerrors.CategoryNotFound)
// when no record matches.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	Create(ctx context.Context, user *User, rawPassword string) (*User, error)
	CheckPassword(ctx context.Context, user *User, rawPassword string) (bool, error)
	Update(ctx context.Context, user *User) error
}

// ConfirmationMessage is the outbound payload handed to the dispatcher. The
// body carries a confirmation link bound to the recipient address.
type ConfirmationMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NotificationDispatcher delivers a confirmation message. The engine makes a
// single synchronous attempt and never blocks an operation's outcome on it,
// even when the transport underneath is an async queue.
type NotificationDispatcher interface {
	Send(ctx context.Context, msg ConfirmationMessage) error
}

// Config holds signing options for session tokens
type Config interface {
	GetSigningKey() string
	GetIssuer() string
	GetAudience() []string
	// GetTokenExpiration returns the token lifetime in minutes. Zero or
	// negative means unset; the service falls back to
	// DefaultTokenExpiration.
	GetTokenExpiration() int
}

// SigningConfig is a plain value implementation of Config for callers that
// load secrets from the environment or a vault themselves.
type SigningConfig struct {
	SigningKey      string
	Issuer          string
	Audience        []string
	TokenExpiration int
}

func (c SigningConfig) GetSigningKey() string   { return c.SigningKey }
func (c SigningConfig) GetIssuer() string       { return c.Issuer }
func (c SigningConfig) GetAudience() []string   { return c.Audience }
func (c SigningConfig) GetTokenExpiration() int { return c.TokenExpiration }

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
