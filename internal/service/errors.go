package service

import (
	"errors"
	"fmt"
)

var (
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrEmailTaken         = errors.New("email is already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account is locked")
	ErrUserNotFound       = errors.New("user not found")

	ErrNoRefreshToken = errors.New("no refresh token")
	ErrTokenInvalid   = errors.New("token is invalid or expired")

	// ErrFriendship is the common kind of every friendship rule violation.
	ErrFriendship               = errors.New("friendship violation")
	ErrSelfRequest        error = &messageError{kind: ErrFriendship, msg: "Sender and receiver are the same user"}
	ErrAlreadyFriends     error = &messageError{kind: ErrFriendship, msg: "User is already stored as friend"}
	ErrDuplicateRequest   error = &messageError{kind: ErrFriendship, msg: "FriendRequest already exists"}
	ErrRequestNotFound    error = &messageError{kind: ErrFriendship, msg: "FriendRequest not found"}
	ErrFriendUserNotFound error = &messageError{kind: ErrFriendship, msg: "User not found"}

	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrInvalidCount       = errors.New("count must be at least 1")

	ErrImageNotFound = errors.New("image not found")
	ErrImageStore    = errors.New("could not store image")
)

// Message returns the user-facing text of a domain error without the kind prefix.
func Message(err error) string {
	var me *messageError
	if errors.As(err, &me) {
		return me.msg
	}
	return err.Error()
}

type messageError struct {
	kind error
	msg  string
}

func (e *messageError) Error() string { return e.msg }
func (e *messageError) Unwrap() error { return e.kind }

// withMessage attaches a specific message to a sentinel kind.
func withMessage(kind error, format string, args ...interface{}) error {
	return &messageError{kind: kind, msg: fmt.Sprintf(format, args...)}
}
