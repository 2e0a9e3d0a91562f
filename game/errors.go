package game

import "errors"

var (
	ErrRoomNotFound      = errors.New("Room not found")
	ErrRoomAlreadyExists = errors.New("Room already exists")
	ErrInvalidPassword   = errors.New("Invalid password")
	ErrMalformedEvent    = errors.New("Malformed event")
)
