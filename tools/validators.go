package tools

import (
	"regexp"
	"strings"
)

var (
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_.\-]{3,30}$`)
)

func ValidateEmail(email string) bool {
	return emailRe.MatchString(email)
}

func ValidateUsername(username string) bool {
	return usernameRe.MatchString(username)
}

// CheckPassword returns the name of the failing rule, or "" when the password is acceptable.
func CheckPassword(password string) string {
	if len(password) < 8 {
		return "password"
	}
	if strings.TrimSpace(password) == "" {
		return "password"
	}
	return ""
}
