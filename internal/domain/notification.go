package domain

import "errors"

var (
	ErrReceiverIDRequired = errors.New("receiverId is required")
	ErrTypeRequired       = errors.New("type is required")
	ErrAppIDRequired      = errors.New("appId is required")

	ErrNotificationNotFound = errors.New("notification not found")
)

// ValidateCreate checks the required fields of a create request.
func ValidateCreate(receiverID, notificationType string) error {
	if receiverID == "" {
		return ErrReceiverIDRequired
	}
	if notificationType == "" {
		return ErrTypeRequired
	}
	return nil
}

// IsValidationError reports whether err is one of the missing-field errors
// that map to a client error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrReceiverIDRequired) ||
		errors.Is(err, ErrTypeRequired) ||
		errors.Is(err, ErrAppIDRequired)
}
