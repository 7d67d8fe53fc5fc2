package player

import "errors"

var (
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrCharacterTaken     = errors.New("character name is already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)
