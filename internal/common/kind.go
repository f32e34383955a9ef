package common

// Kind classifies the outcome of a validation or authentication operation.
type Kind string

const (
	KindOK Kind = "OK"

	// Input rejected before reaching persistence.
	KindValidation Kind = "VALIDATION_FAILURE"
	KindSecurity   Kind = "SECURITY_REJECTION"

	// Registration business rules.
	KindDuplicateUsername Kind = "DUPLICATE_USERNAME"
	KindDuplicateEmail    Kind = "DUPLICATE_EMAIL"

	// Authentication business rules. KindInvalidCredentials replaces the two
	// detailed kinds when generic credential errors are enabled.
	KindNotFoundOrInactive Kind = "NOT_FOUND_OR_INACTIVE"
	KindWrongPassword      Kind = "WRONG_PASSWORD"
	KindInvalidCredentials Kind = "INVALID_CREDENTIALS"
	KindThrottled          Kind = "THROTTLED"

	// Unexpected persistence failure (connectivity, constraint, timeout).
	KindRepositoryFault Kind = "REPOSITORY_FAULT"
)

// IsBusinessFailure reports whether k is an expected rule failure rather than
// a fault or a success.
func (k Kind) IsBusinessFailure() bool {
	switch k {
	case KindDuplicateUsername, KindDuplicateEmail, KindNotFoundOrInactive,
		KindWrongPassword, KindInvalidCredentials, KindThrottled:
		return true
	}
	return false
}
