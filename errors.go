package auth

import "github.com/goliatone/go-errors"

// Validation error codes reported by Register. The full list of applicable
// codes is returned, never just the first.
const (
	CodeInvalidEmailFormat            = "InvalidEmailFormat"
	CodeWeakPassword                  = "WeakPassword"
	CodePasswordIncludesSensitiveData = "PasswordIncludesSensitiveData"
	CodeInvalidUsernameLength         = "InvalidUsernameLength"
	CodeInvalidUsernameFormat         = "InvalidUsernameFormat"
	CodeDuplicateEmail                = "DuplicateEmail"
	CodeDuplicateUserName             = "DuplicateUserName"
)

// ValidationError is a single registration rule violation.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Code + ": " + e.Message
}

const (
	TextCodeMissingUsername   = "MISSING_USERNAME"
	TextCodeMissingPassword   = "MISSING_PASSWORD"
	TextCodeAccountNotFound   = "ACCOUNT_NOT_FOUND"
	TextCodeEmailNotVerified  = "EMAIL_NOT_VERIFIED"
	TextCodeIncorrectPassword = "INCORRECT_PASSWORD"
	TextCodeUserNotFound      = "USER_NOT_FOUND"
	TextCodeAlreadyConfirmed  = "ALREADY_CONFIRMED"
	TextCodeDuplicateEmail    = "DUPLICATE_EMAIL"
	TextCodeDuplicateUserName = "DUPLICATE_USERNAME"
	TextCodeSecretMissing     = "JWT_SECRET_MISSING"
	TextCodeTokenExpired      = "TOKEN_EXPIRED"
	TextCodeTokenMalformed    = "TOKEN_MALFORMED"
	TextCodeDispatchFailed    = "DISPATCH_FAILED"
)

// ErrMissingUsername is returned by Login before any store access when the
// username field is blank.
var ErrMissingUsername = errors.New("missing username", errors.CategoryBadInput).
	WithTextCode(TextCodeMissingUsername).
	WithCode(errors.CodeBadRequest)

// ErrMissingPassword is returned by Login before any store access when the
// password field is blank.
var ErrMissingPassword = errors.New("missing password", errors.CategoryBadInput).
	WithTextCode(TextCodeMissingPassword).
	WithCode(errors.CodeBadRequest)

// ErrAccountNotFound is returned when no identity matches the login username.
var ErrAccountNotFound = errors.New("account not found", errors.CategoryAuth).
	WithTextCode(TextCodeAccountNotFound).
	WithCode(errors.CodeUnauthorized)

// ErrEmailNotVerified is returned for unconfirmed accounts. The check runs
// before password verification so an unverified account never learns whether
// its password was correct.
var ErrEmailNotVerified = errors.New("email not verified", errors.CategoryAuth).
	WithTextCode(TextCodeEmailNotVerified).
	WithCode(errors.CodeForbidden)

// ErrIncorrectPassword is returned on a password mismatch.
var ErrIncorrectPassword = errors.New("incorrect password", errors.CategoryAuth).
	WithTextCode(TextCodeIncorrectPassword).
	WithCode(errors.CodeUnauthorized)

// ErrUserNotFound is the not-found error UserStore implementations return
// from lookups, and ResendConfirmation returns for unknown addresses.
var ErrUserNotFound = errors.New("user not found", errors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound).
	WithCode(errors.CodeNotFound)

// ErrAlreadyConfirmed is returned by ResendConfirmation when the address is
// already confirmed; no message is dispatched.
var ErrAlreadyConfirmed = errors.New("email already confirmed", errors.CategoryConflict).
	WithTextCode(TextCodeAlreadyConfirmed).
	WithCode(errors.CodeConflict)

// ErrDuplicateEmail is surfaced by stores when a unique index on email
// rejects a create. The engine maps it to CodeDuplicateEmail.
var ErrDuplicateEmail = errors.New("email already exists", errors.CategoryConflict).
	WithTextCode(TextCodeDuplicateEmail).
	WithCode(errors.CodeConflict)

// ErrDuplicateUserName is surfaced by stores when a unique index on username
// rejects a create. The engine maps it to CodeDuplicateUserName.
var ErrDuplicateUserName = errors.New("username already exists", errors.CategoryConflict).
	WithTextCode(TextCodeDuplicateUserName).
	WithCode(errors.CodeConflict)

// ErrSigningSecretMissing is a fatal misconfiguration, not a per-request
// authentication failure.
var ErrSigningSecretMissing = errors.New("JWT signing secret is missing", errors.CategoryInternal).
	WithTextCode(TextCodeSecretMissing).
	WithCode(errors.CodeInternal)

// ErrTokenExpired will flag expired session tokens
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed flags tokens that fail signature, issuer, or audience
// checks, or that cannot be parsed at all.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrUnableToFindSession is returned when a request carries no token
var ErrUnableToFindSession = errors.New("unable to find session", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// ErrUnableToDecodeSession is returned when stored claims cannot be read back
var ErrUnableToDecodeSession = errors.New("unable to decode session", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = errors.New("value must not be empty", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the normalized bcrypt mismatch error.
var ErrMismatchedHashAndPassword = errors.New("hashed password mismatch", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// IsNotFound reports whether err represents a missing record, either the
// package sentinel or a store-level not-found rich error.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.IsNotFound(err) || errors.Is(err, ErrUserNotFound)
}
