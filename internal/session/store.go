package session

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/shared"
)

// DefaultKey is the storage key the session record lives under.
const DefaultKey = "authData"

// Storage is the durable key/value backend behind a [Store].
type Storage interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
	Delete(key string) error
}

// Store holds the current session and persists it.
type Store struct {
	storage Storage
	key     string
	logger  *log.Logger
	current *models.Session
}

// NewStore creates a [Store] over storage. An empty key uses [DefaultKey]; a nil logger discards output.
func NewStore(storage Storage, key string, logger *log.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{storage: storage, key: key, logger: logger}
}

// Key returns the storage key the session is persisted under.
func (s *Store) Key() string { return s.key }

// Load reads the persisted session and makes it current.
//
// Returns nil when nothing is stored or the record cannot be used; unusable records are removed.
func (s *Store) Load() *models.Session {
	s.current = nil

	data, ok, err := s.storage.Get(s.key)
	if err != nil {
		s.logger.Warn("failed to read persisted session", "key", s.key, "error", err)
		return nil
	}
	if !ok {
		return nil
	}

	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		s.discard("corrupt persisted session", err)
		return nil
	}
	if err := sess.Validate(); err != nil {
		s.discard("invalid persisted session", err)
		return nil
	}

	s.current = &sess
	s.logger.Debug("restored session", "email", sess.User.Email, "role", sess.User.Role)
	return s.Current()
}

// Set replaces the current session and persists it.
func (s *Store) Set(sess models.Session) error {
	if err := sess.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.storage.Put(s.key, data); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	s.current = &sess
	s.logger.Info("session started", "email", sess.User.Email, "role", sess.User.Role)
	return nil
}

// Clear removes the current session and its persisted copy.
func (s *Store) Clear() error {
	s.current = nil
	if err := s.storage.Delete(s.key); err != nil {
		return fmt.Errorf("failed to remove persisted session: %w", err)
	}
	s.logger.Info("session cleared")
	return nil
}

// Current returns a copy of the current session, or nil when logged out.
func (s *Store) Current() *models.Session {
	if s.current == nil {
		return nil
	}
	sess := *s.current
	return &sess
}

// Token returns the current bearer token, or "" when logged out.
func (s *Store) Token() string {
	if s.current == nil {
		return ""
	}
	return s.current.AccessToken
}

// IsAdmin reports whether the current session has the admin role.
func (s *Store) IsAdmin() bool {
	return s.current.IsAdmin()
}

// RequireAdmin returns the current session when it has the admin role.
func (s *Store) RequireAdmin() (*models.Session, error) {
	if s.current == nil {
		return nil, shared.ErrNotAuthenticated
	}
	if !s.current.IsAdmin() {
		return nil, shared.ErrForbidden
	}
	return s.Current(), nil
}

func (s *Store) discard(msg string, err error) {
	s.logger.Warn(msg, "key", s.key, "error", err)
	if err := s.storage.Delete(s.key); err != nil {
		s.logger.Warn("failed to remove unusable session", "key", s.key, "error", err)
	}
}
