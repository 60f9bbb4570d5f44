package localstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

const (
	DefaultLanguage = "en"
)

var availableLanguages = map[string]struct{}{"en": {}, "es": {}}

// StoredUser is the persisted user summary.
type StoredUser struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Token      string `json:"token"`
	TenantType string `json:"tenantType,omitempty"`
}

// Store is the client-side persistence port: access token, user summary and
// language preference. Services receive it explicitly instead of reaching
// for ambient global state.
type Store interface {
	Token() string
	SetToken(token string) error
	User() (StoredUser, bool)
	SetUser(u StoredUser) error
	ClearCredentials() error

	Language() string
	SetLanguage(lang string) error
}

type state struct {
	AccessToken string      `json:"accessToken,omitempty"`
	User        *StoredUser `json:"user,omitempty"`
	Language    string      `json:"preferredLanguage,omitempty"`
}

// FileStore keeps the state in a single JSON file, written atomically.
type FileStore struct {
	path string

	mu sync.Mutex
	st state
}

func NewFile(path string) (*FileStore, error) {
	s := &FileStore{path: path}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, errors.Wrap(err, "read local store")
	}
	if err := json.Unmarshal(b, &s.st); err != nil {
		return nil, errors.Wrap(err, "decode local store")
	}
	return s, nil
}

func (s *FileStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.AccessToken
}

func (s *FileStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.AccessToken = token
	return s.flush()
}

func (s *FileStore) User() (StoredUser, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st.User == nil {
		return StoredUser{}, false
	}
	return *s.st.User, true
}

func (s *FileStore) SetUser(u StoredUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.User = &u
	return s.flush()
}

// ClearCredentials drops the token and user summary. The language
// preference survives sign-out.
func (s *FileStore) ClearCredentials() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.AccessToken = ""
	s.st.User = nil
	return s.flush()
}

func (s *FileStore) Language() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.st.Language == "" {
		return DefaultLanguage
	}
	return s.st.Language
}

func (s *FileStore) SetLanguage(lang string) error {
	if _, ok := availableLanguages[lang]; !ok {
		return errors.Errorf("unsupported language: %q", lang)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.Language = lang
	return s.flush()
}

func (s *FileStore) flush() error {
	b, err := json.Marshal(s.st)
	if err != nil {
		return errors.Wrap(err, "encode local store")
	}
	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(err, "mkdir local store")
	}
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return errors.Wrap(err, "write local store")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "replace local store")
	}
	return nil
}
