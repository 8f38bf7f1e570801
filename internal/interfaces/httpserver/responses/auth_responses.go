package responses

import (
	"triage-server/internal/domain/session"
)

// LoginResponse carries the issued token and the portable session blob.
type LoginResponse struct {
	Email        string `json:"email"`
	Token        string `json:"token"`
	SessionState string `json:"session_state"`
}

// PatientResponse mirrors the demographics attached to the session.
type PatientResponse struct {
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

// SessionResponse describes the authenticated session.
type SessionResponse struct {
	Email   string          `json:"email"`
	Patient PatientResponse `json:"patient"`
}

// NewSessionResponse converts a domain session to its response shape.
func NewSessionResponse(sess *session.Session) SessionResponse {
	return SessionResponse{
		Email: sess.Email,
		Patient: PatientResponse{
			Age:    sess.Patient.Age,
			Gender: sess.Patient.Gender,
		},
	}
}
