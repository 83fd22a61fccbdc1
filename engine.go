package auth

import (
	"context"
	"net/url"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// DefaultConfirmationBaseURL mirrors the deployed frontend origin; override
// it with WithConfirmationBaseURL.
const DefaultConfirmationBaseURL = "https://yourdomain.com"

// CredentialEngine orchestrates the credential lifecycle. It holds no
// mutable state between calls; everything lives in the UserStore, so a
// single engine value is safe for concurrent use.
type CredentialEngine struct {
	store          UserStore
	dispatcher     NotificationDispatcher
	logger         Logger
	confirmBaseURL string
}

// NewCredentialEngine returns an engine bound to the given collaborators.
func NewCredentialEngine(store UserStore, dispatcher NotificationDispatcher) *CredentialEngine {
	return &CredentialEngine{
		store:          store,
		dispatcher:     dispatcher,
		logger:         defLogger{},
		confirmBaseURL: DefaultConfirmationBaseURL,
	}
}

func (e *CredentialEngine) WithLogger(logger Logger) *CredentialEngine {
	if logger != nil {
		e.logger = logger
	}
	return e
}

// WithConfirmationBaseURL sets the origin used to build confirmation links.
func (e *CredentialEngine) WithConfirmationBaseURL(base string) *CredentialEngine {
	if base != "" {
		e.confirmBaseURL = strings.TrimRight(base, "/")
	}
	return e
}

// RegisterResult carries either the created identity or the accumulated
// error list; the two are mutually exclusive.
type RegisterResult struct {
	User   *User             `json:"user,omitempty"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// Ok reports whether registration succeeded.
func (r *RegisterResult) Ok() bool {
	return len(r.Errors) == 0
}

// Register validates the payload, checks for duplicates, creates the
// identity unconfirmed, and dispatches a confirmation message. Validation
// and duplicate errors accumulate so the caller sees every violation at
// once; no identity is created unless the list is empty. The confirmation
// dispatch is a single best-effort attempt: a failure is logged and does not
// roll back creation, since the account stays recoverable through
// ResendConfirmation.
func (e *CredentialEngine) Register(ctx context.Context, payload RegistrationPayload) (*RegisterResult, error) {
	errs := ValidateRegistration(payload)

	if _, err := e.store.FindByEmail(ctx, payload.Email); err == nil {
		errs = append(errs, ValidationError{
			Code:    CodeDuplicateEmail,
			Message: "email is already registered",
		})
	} else if !IsNotFound(err) {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check email availability")
	}

	if _, err := e.store.FindByUsername(ctx, payload.Username); err == nil {
		errs = append(errs, ValidationError{
			Code:    CodeDuplicateUserName,
			Message: "username is already taken",
		})
	} else if !IsNotFound(err) {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check username availability")
	}

	if len(errs) > 0 {
		return &RegisterResult{Errors: errs}, nil
	}

	user := &User{
		Username:        payload.Username,
		Email:           payload.Email,
		Initials:        Initials(payload.Username),
		ProfileImageURL: payload.ProfileImageURL,
		EmailConfirmed:  false,
	}

	created, err := e.store.Create(ctx, user, payload.Password)
	if err != nil {
		// The pre-check races with concurrent registrations; a unique-key
		// rejection from the store maps to the same duplicate codes.
		if dup, ok := conflictValidationError(err); ok {
			return &RegisterResult{Errors: []ValidationError{dup}}, nil
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "could not create user")
	}

	e.dispatchConfirmation(ctx, created.Email)

	return &RegisterResult{User: created}, nil
}

// LoginPayload is the login input. Login is username-based; lookups never
// match on email.
type LoginPayload struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Login authenticates a username and password. Exactly one classified
// failure is returned per call, checked in a fixed order: blank fields,
// unknown account, unverified email, wrong password. The verification check
// runs before the password check on purpose, so unverified accounts never
// learn whether their password was correct.
func (e *CredentialEngine) Login(ctx context.Context, payload LoginPayload) (*User, error) {
	if strings.TrimSpace(payload.Username) == "" {
		return nil, ErrMissingUsername
	}

	if strings.TrimSpace(payload.Password) == "" {
		return nil, ErrMissingPassword
	}

	user, err := e.store.FindByUsername(ctx, payload.Username)
	if err != nil {
		if IsNotFound(err) {
			e.logger.Info("login failed, account not found", "username", payload.Username)
			return nil, ErrAccountNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up account")
	}

	if !user.EmailConfirmed {
		e.logger.Info("login blocked, email not verified", "username", payload.Username)
		return nil, ErrEmailNotVerified
	}

	ok, err := e.store.CheckPassword(ctx, user, payload.Password)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to verify password")
	}

	if !ok {
		e.logger.Info("login failed, incorrect password", "username", payload.Username)
		return nil, ErrIncorrectPassword
	}

	return user, nil
}

// ConfirmEmail marks the identity behind email as confirmed. Unknown
// addresses report false; an already-confirmed address reports true without
// touching the store, so repeated confirmations are idempotent. The flag
// never transitions back to false.
func (e *CredentialEngine) ConfirmEmail(ctx context.Context, email string) (bool, error) {
	user, err := e.store.FindByEmail(ctx, email)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up account")
	}

	if user.EmailConfirmed {
		return true, nil
	}

	user.EmailConfirmed = true
	if err := e.store.Update(ctx, user); err != nil {
		return false, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist confirmation")
	}

	return true, nil
}

// ResendConfirmation dispatches a fresh confirmation message using the same
// link rule as Register. Unknown addresses return ErrUserNotFound; confirmed
// ones return ErrAlreadyConfirmed and no message is sent.
func (e *CredentialEngine) ResendConfirmation(ctx context.Context, email string) error {
	user, err := e.store.FindByEmail(ctx, email)
	if err != nil {
		if IsNotFound(err) {
			return ErrUserNotFound
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to look up account")
	}

	if user.EmailConfirmed {
		return ErrAlreadyConfirmed
	}

	e.dispatchConfirmation(ctx, user.Email)

	return nil
}

// dispatchConfirmation makes the single delivery attempt. Failures are
// reported as warnings only; the engine does not retry or queue locally.
func (e *CredentialEngine) dispatchConfirmation(ctx context.Context, email string) {
	msg := NewConfirmationMessage(e.confirmBaseURL, email)
	if err := e.dispatcher.Send(ctx, msg); err != nil {
		e.logger.Warn("confirmation dispatch failed", "email", email, "error", err)
	}
}

// ConfirmationLink builds the confirmation URL with the address URL-escaped.
func ConfirmationLink(baseURL, email string) string {
	return strings.TrimRight(baseURL, "/") + "/confirm?email=" + url.QueryEscape(email)
}

// NewConfirmationMessage builds the outbound confirmation payload.
func NewConfirmationMessage(baseURL, email string) ConfirmationMessage {
	link := ConfirmationLink(baseURL, email)
	return ConfirmationMessage{
		To:      email,
		Subject: "Confirm your account",
		Body:    "Click the link to confirm: " + link,
	}
}

// conflictValidationError maps a store-level uniqueness violation to the
// matching duplicate code. Conflicts that name neither column fall back to
// the email code, matching the index most deployments hit first.
func conflictValidationError(err error) (ValidationError, bool) {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return ValidationError{}, false
	}

	if richErr.Category != goerrors.CategoryConflict {
		return ValidationError{}, false
	}

	switch richErr.TextCode {
	case TextCodeDuplicateUserName:
		return ValidationError{
			Code:    CodeDuplicateUserName,
			Message: "username is already taken",
		}, true
	default:
		return ValidationError{
			Code:    CodeDuplicateEmail,
			Message: "email is already registered",
		}, true
	}
}
