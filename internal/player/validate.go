package player

import (
	"errors"
	"fmt"
	"regexp"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 64
)

var (
	usernamePattern      = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]{2,15}$`)
	characterNamePattern = regexp.MustCompile(`^[A-Z][a-z]{2,15}$`)
)

// ValidateUsername checks an account name: a letter, then 2 to 15 letters,
// digits or underscores.
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return errors.New("Usernames are 3-16 letters, digits or underscores and start with a letter.")
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return fmt.Errorf("Passwords must be %d-%d characters long.", MinPasswordLength, MaxPasswordLength)
	}
	return nil
}

// ValidateCharacterName checks a character name: a capital letter followed
// by 2 to 15 lowercase letters.
func ValidateCharacterName(name string) error {
	if !characterNamePattern.MatchString(name) {
		return errors.New("Character names are 3-16 letters, capitalized, like Aldric.")
	}
	return nil
}
