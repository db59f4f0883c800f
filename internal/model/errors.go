package model

import "errors"

var (
	// User related errors
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")

	// Feedback page related errors
	ErrFeedbackPageNotFound = errors.New("feedback page not found")
	ErrURLTokenTaken        = errors.New("url token already in use")

	// ErrInvalidText is a value the database refused to store as text.
	ErrInvalidText = errors.New("text value too long or not storable")
)
