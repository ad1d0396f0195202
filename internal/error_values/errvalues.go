package errorvalues

import "errors"

var (
	ErrMissingIdentity = errors.New("user id header is required")
	ErrValidation      = errors.New("validation failed")
	ErrUserExists      = errors.New("such user already exists")
	ErrUserNotFound    = errors.New("user doesn't exist")

	ErrMedicineNotFound = errors.New("medicine doesn't exist")
	ErrWrongOwner       = errors.New("entity has different owner")
	ErrAlreadyMarked    = errors.New("already marked as taken today")

	ErrEmptyHistory = errors.New("no history records to export")

	ErrAlertNotFound = errors.New("voice alert doesn't exist")
)
