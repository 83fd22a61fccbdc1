package auth

import (
	"regexp"
	"strings"
	"unicode"

	validation "github.com/go-ozzo/ozzo-validation"
)

var (
	emailPattern    = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

// RegistrationPayload is the registration input. The raw password is handed
// to the store for hashing and never persisted by the engine.
type RegistrationPayload struct {
	Username        string `form:"username" json:"username"`
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	ProfileImageURL string `form:"profile_image_url" json:"profile_image_url"`
}

// ValidateRegistration runs every registration rule and returns the full
// list of violations; an empty list means the payload is valid. It is pure:
// uniqueness checks need the store and belong to CredentialEngine.
func ValidateRegistration(p RegistrationPayload) []ValidationError {
	var errs []ValidationError

	if err := validation.Validate(p.Email,
		validation.Required,
		validation.Match(emailPattern),
	); err != nil {
		errs = append(errs, ValidationError{
			Code:    CodeInvalidEmailFormat,
			Message: "email must be a valid address",
		})
	}

	if err := validation.Validate(p.Password,
		validation.Required,
		validation.Length(8, 0),
	); err != nil {
		errs = append(errs, ValidationError{
			Code:    CodeWeakPassword,
			Message: "password must be at least 8 characters",
		})
	} else if !hasRequiredClasses(p.Password) {
		errs = append(errs, ValidationError{
			Code:    CodeWeakPassword,
			Message: "password must contain upper and lower case letters, a digit, and a symbol",
		})
	}

	if containsSensitiveData(p.Password, p.Username, p.Email) {
		errs = append(errs, ValidationError{
			Code:    CodePasswordIncludesSensitiveData,
			Message: "password must not contain the username or email address",
		})
	}

	if err := validation.Validate(p.Username,
		validation.Required,
		validation.Length(3, 20),
	); err != nil {
		errs = append(errs, ValidationError{
			Code:    CodeInvalidUsernameLength,
			Message: "username must be between 3 and 20 characters",
		})
	}

	if err := validation.Validate(p.Username,
		validation.Match(usernamePattern),
	); err != nil {
		errs = append(errs, ValidationError{
			Code:    CodeInvalidUsernameFormat,
			Message: "username may only contain letters, digits, and underscores",
		})
	}

	return errs
}

func hasRequiredClasses(password string) bool {
	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

// containsSensitiveData reports whether the password embeds the username or
// the local part of the email, case-insensitively.
func containsSensitiveData(password, username, email string) bool {
	if password == "" {
		return false
	}

	needle := strings.ToLower(password)

	if username != "" && strings.Contains(needle, strings.ToLower(username)) {
		return true
	}

	local := email
	if at := strings.Index(email, "@"); at > 0 {
		local = email[:at]
	}

	return local != "" && strings.Contains(needle, strings.ToLower(local))
}
