package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"triage-server/internal/domain/conversation"
	"triage-server/internal/utils/platformerrors"
)

// FileStore persists one encoded collection record per authenticated user,
// addressed by a sanitized transform of the email. It implements the
// conversation.Repository port.
type FileStore struct {
	dir    string
	logger zerolog.Logger
}

// NewFileStore creates the store and its backing directory.
func NewFileStore(dir string, logger zerolog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

// Load reads the user's record. Load failures are non-fatal by contract:
// a missing file or a malformed blob yields an empty collection with a
// warning, never an error that aborts the interaction.
func (s *FileStore) Load(ctx context.Context, userEmail string) (*conversation.Collection, error) {
	path := s.path(userEmail)

	raw, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn().Err(err).Str("path", path).Msg("read conversation record failed, starting empty")
		}
		return conversation.NewCollection(), nil
	}

	col, err := Decode(strings.TrimSpace(string(raw)))
	if err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("decode conversation record failed, starting empty")
		return conversation.NewCollection(), nil
	}
	return col, nil
}

// Save atomically replaces the user's record: the blob is written to a temp
// file and renamed over the old one, so a failed save leaves the previously
// persisted state intact.
func (s *FileStore) Save(ctx context.Context, userEmail string, col *conversation.Collection) error {
	blob, err := Encode(col)
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypePersistence, "encode conversation record", err, "")
	}

	path := s.path(userEmail)
	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypePersistence, "create temp record", err, "")
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(blob); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypePersistence, "write conversation record", err, "")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypePersistence, "close conversation record", err, "")
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypePersistence, "replace conversation record", err, "")
	}
	return nil
}

func (s *FileStore) path(userEmail string) string {
	return filepath.Join(s.dir, sanitizeEmail(userEmail)+".json")
}

// sanitizeEmail maps an email to a filesystem-safe record name. Lowercased;
// anything outside [a-z0-9._-] becomes '_'.
func sanitizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	var b strings.Builder
	b.Grow(len(email))
	for _, r := range email {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
