package logger

import "strings"

// MaskEmail redacts an email address for log output, keeping just enough to
// correlate entries: the first character of the local part and the full
// domain ("john.doe@gmail.com" becomes "j***@gmail.com"). Values that don't
// look like an email are fully redacted.
func MaskEmail(email string) string {
	if email == "" {
		return ""
	}

	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 || strings.Count(email, "@") != 1 {
		if at == 0 {
			return "***@" + email[1:]
		}
		return "***@***"
	}

	return email[:1] + "***@" + email[at+1:]
}
