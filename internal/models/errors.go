package models

import "errors"

// Sentinel errors shared by the service layer. Transport layers match these
// with errors.Is to pick status codes.
var (
	// ErrNotFound is returned when a record with the requested id does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrUsernameTaken is returned when registering a username that already exists.
	ErrUsernameTaken = errors.New("username already registered")

	// ErrInvalidCredentials is returned on failed authentication. Unknown
	// usernames and wrong passwords are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("incorrect username or password")
)
