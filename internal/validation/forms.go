package validation

import (
	"strconv"
	"strings"

	"github.com/metalex84/loginkeeper/internal/common"
)

// Form field names reported in a Failure.
const (
	FieldEmail        = "email"
	FieldUsername     = "username"
	FieldPassword     = "password"
	FieldConfirmation = "confirmation"
	FieldTerms        = "terms"
	FieldCredentials  = "credentials"
)

// Failure describes the first check a form did not pass. Kind is either
// common.KindValidation or common.KindSecurity.
type Failure struct {
	Kind    common.Kind
	Field   string
	Message string
}

func (f *Failure) Error() string {
	return f.Message
}

func invalid(field, msg string) *Failure {
	return &Failure{Kind: common.KindValidation, Field: field, Message: msg}
}

func rejected(field, msg string) *Failure {
	return &Failure{Kind: common.KindSecurity, Field: field, Message: msg}
}

// Registration is the raw input of the sign-up form.
type Registration struct {
	Email         string
	Username      string
	Password      string
	Confirmation  string
	AcceptedTerms bool
}

// CheckRegistration runs the sign-up checks in display order and returns the
// first failure, or nil when the form may be submitted.
func CheckRegistration(r Registration, minPasswordLength int) *Failure {
	if minPasswordLength <= 0 {
		minPasswordLength = DefaultMinPasswordLength
	}

	if isBlank(r.Email) {
		return invalid(FieldEmail, "Please enter your email address.")
	}
	if !IsValidEmail(r.Email) {
		return invalid(FieldEmail, "Please enter a valid email address.")
	}
	if !isEmailSafe(r.Email) {
		return rejected(FieldEmail, "The email address contains characters that are not allowed.")
	}

	if isBlank(r.Username) {
		return invalid(FieldUsername, "Please enter a username.")
	}
	if !IsValidUsername(r.Username) {
		return invalid(FieldUsername, "The username contains invalid characters. "+
			"Only letters, digits, dots and underscores are allowed (3-30 characters).")
	}
	if !IsSqlInjectionSafe(r.Username) {
		return rejected(FieldUsername, "The username contains characters or patterns that are not allowed.")
	}

	if isBlank(r.Password) {
		return invalid(FieldPassword, "Please enter a password.")
	}
	if !IsStrongPassword(r.Password, minPasswordLength) {
		return invalid(FieldPassword, passwordRule(minPasswordLength))
	}
	if !IsSqlInjectionSafe(r.Password) {
		return rejected(FieldPassword, "The password contains characters or patterns that are not allowed.")
	}

	if isBlank(r.Confirmation) {
		return invalid(FieldConfirmation, "Please confirm your password.")
	}
	if r.Password != r.Confirmation {
		return invalid(FieldConfirmation, "Passwords do not match.")
	}

	if !r.AcceptedTerms {
		return invalid(FieldTerms, "You must accept the terms and conditions.")
	}

	return nil
}

// CheckLogin trims the username and runs the sign-in checks. It returns the
// trimmed username alongside the first failure, if any.
func CheckLogin(username, password string) (string, *Failure) {
	if isBlank(username) {
		return "", invalid(FieldUsername, "Please enter a username.")
	}
	if isBlank(password) {
		return "", invalid(FieldPassword, "Please enter a password.")
	}

	username = strings.TrimSpace(username)

	if !IsValidUsername(username) {
		return username, invalid(FieldUsername, "The username contains invalid characters. "+
			"Only letters, digits, dots and underscores are allowed (3-30 characters).")
	}
	if !IsSqlInjectionSafe(username) || !IsSqlInjectionSafe(password) {
		return username, rejected(FieldCredentials, "Characters or patterns that are not allowed were detected.")
	}

	return username, nil
}

// isEmailSafe applies the deny-list to the local part and the domain
// separately, since the address separator itself would trip the @word rule.
func isEmailSafe(email string) bool {
	i := strings.LastIndex(email, "@")
	if i < 0 {
		return IsSqlInjectionSafe(email)
	}
	return IsSqlInjectionSafe(email[:i]) && IsSqlInjectionSafe(email[i+1:])
}

func passwordRule(minLength int) string {
	return "The password must be at least " + strconv.Itoa(minLength) + " characters long and contain letters and digits."
}
