package contact

import (
	"errors"
	"strings"
)

// Sentinel errors for rejected user input. Match with errors.Is.
var (
	ErrInvalidPhone = errors.New("invalid phone number")
	ErrInvalidEmail = errors.New("invalid email address")
	ErrUnknownType  = errors.New("unknown entry type")
)

// PhoneNumberLength is the exact number of digits a phone number must have.
const PhoneNumberLength = 10

// ValidationError describes rejected user input. Message is suitable for
// showing next to the offending input.
type ValidationError struct {
	Field   string
	Message string
	kind    error
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap returns the sentinel for the violated constraint.
func (e *ValidationError) Unwrap() error {
	return e.kind
}

// ValidatePhoneNumber checks that number is exactly PhoneNumberLength ASCII digits.
func ValidatePhoneNumber(number string) error {
	if len(number) != PhoneNumberLength || strings.IndexFunc(number, notDigit) >= 0 {
		return &ValidationError{
			Field:   "phone",
			Message: "Phone number must be exactly 10 digits.",
			kind:    ErrInvalidPhone,
		}
	}
	return nil
}

// ValidateEmailAddress checks that address contains '@' and is not blank.
func ValidateEmailAddress(address string) error {
	if !strings.Contains(address, "@") || strings.TrimSpace(address) == "" {
		return &ValidationError{
			Field:   "email",
			Message: "Invalid email address.",
			kind:    ErrInvalidEmail,
		}
	}
	return nil
}

func notDigit(r rune) bool {
	return r < '0' || r > '9'
}
