package session

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"triage-server/internal/config"
	"triage-server/internal/utils/platformerrors"
)

// Service issues, registers, and recovers user sessions. The registry is
// in-memory; clients keep the encoded session state and present it again
// after a reload.
type Service struct {
	allowList      []string
	secret         string
	defaultPatient PatientInfo
	logger         zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewService creates the session service from configuration.
func NewService(cfg *config.Config, logger zerolog.Logger) *Service {
	return &Service{
		allowList: cfg.AllowList(),
		secret:    cfg.AuthTokenSecret,
		defaultPatient: PatientInfo{
			Age:    cfg.DefaultPatientAge,
			Gender: cfg.DefaultPatientGender,
		},
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Login validates the email shape and allow-list membership, then issues a
// token and registers the session.
func (s *Service) Login(ctx context.Context, email string) (*Session, error) {
	if !IsValidEmail(email) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "invalid email address", nil, "")
	}
	if !Authorize(email, s.allowList) {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized, "unauthorized email address or domain", nil, "")
	}

	now := time.Now()
	sess := &Session{
		Email:     email,
		Token:     s.issueToken(email, now),
		CreatedAt: now,
		Patient:   s.defaultPatient,
	}

	s.mu.Lock()
	s.sessions[sess.Token] = sess
	s.mu.Unlock()

	s.logger.Info().Str("user", email).Msg("session issued")
	return sess, nil
}

// issueToken derives an opaque token over email, timestamp, and the server
// secret. Collision resistance and non-guessability are the contract; the
// token carries no expiry and no verifiable signature (known gap, see the
// design notes).
func (s *Service) issueToken(email string, now time.Time) string {
	material := fmt.Sprintf("%s:%s:%s", email, now.Format(time.RFC3339Nano), s.secret)
	sum := sha256.Sum256([]byte(material))
	return hex.EncodeToString(sum[:])
}

// Lookup returns the live session for a token.
func (s *Service) Lookup(token string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[token]
	return sess, ok
}

// Logout drops the session from the registry.
func (s *Service) Logout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// UpdatePatient replaces the session's patient context.
func (s *Service) UpdatePatient(sess *Session, patient PatientInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess.Patient = patient
}

// EncodeState serializes the session into the base64 blob the client keeps.
func (s *Service) EncodeState(sess *Session) (string, error) {
	state := State{
		Email:     sess.Email,
		Token:     sess.Token,
		Timestamp: sess.CreatedAt.Format(time.RFC3339Nano),
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("encode session state: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Recover reconstructs a session from a persisted state blob. The recovered
// token is trusted without re-verifying it cryptographically; this is an
// intentionally weak demo-grade contract flagged for the system owner.
func (s *Service) Recover(ctx context.Context, blob string) (*Session, error) {
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized, "malformed session state", err, "")
	}
	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized, "malformed session state", err, "")
	}
	if state.Email == "" || state.Token == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized, "incomplete session state", nil, "")
	}

	createdAt, err := time.Parse(time.RFC3339Nano, state.Timestamp)
	if err != nil {
		createdAt = time.Now()
	}

	sess := &Session{
		Email:     state.Email,
		Token:     state.Token,
		CreatedAt: createdAt,
		Patient:   s.defaultPatient,
	}

	s.mu.Lock()
	s.sessions[sess.Token] = sess
	s.mu.Unlock()

	s.logger.Info().Str("user", sess.Email).Msg("session recovered from persisted state")
	return sess, nil
}
