package session

import (
	"regexp"
	"strings"
	"time"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// IsValidEmail checks the basic shape of an email address.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Authorize checks an email against the allow-list. Both sides are trimmed
// and lowercased. Entries starting with "@" are domain wildcards matching
// the candidate's full domain exactly (no subdomain or substring matching);
// every other entry requires full equality.
func Authorize(email string, allowList []string) bool {
	email = strings.ToLower(strings.TrimSpace(email))

	for _, entry := range allowList {
		entry = strings.ToLower(strings.TrimSpace(entry))
		if entry == "" {
			continue
		}

		if email == entry {
			return true
		}

		if strings.HasPrefix(entry, "@") {
			at := strings.LastIndex(email, "@")
			if at >= 0 && email[at:] == entry {
				return true
			}
		}
	}

	return false
}

// PatientInfo is the patient context attached to every agent call.
type PatientInfo struct {
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

// Session is an authenticated user: an email plus an opaque bearer token.
// The token is a digest, not a verifiable credential; see State for how it
// survives a full client reload.
type Session struct {
	Email     string      `json:"email"`
	Token     string      `json:"token"`
	CreatedAt time.Time   `json:"timestamp"`
	Patient   PatientInfo `json:"-"`
}

// State is the encodable persistence shape of a session, handed to the
// client so it can restore the session after a reload.
type State struct {
	Email     string `json:"email"`
	Token     string `json:"token"`
	Timestamp string `json:"timestamp"`
}
