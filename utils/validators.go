// File: /utils/validators.go
package utils

import (
	"regexp"
	"strings"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._]{3,30}$`)
	tickerRegex   = regexp.MustCompile(`^[A-Z.\-]{1,10}$`)
)

func IsValidUsername(username string) bool {
	return usernameRegex.MatchString(username)
}

func IsValidTicker(ticker string) bool {
	return tickerRegex.MatchString(ticker)
}

func IsValidListName(name string) bool {
	trimmed := strings.TrimSpace(name)
	return trimmed != "" && len(trimmed) <= 50
}

// NormalizeTicker uppercases and trims a user-supplied ticker symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
